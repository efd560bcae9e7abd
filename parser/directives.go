package parser

import (
	"github.com/ledgertext/beancount/ast"
	"github.com/shopspring/decimal"
)

// Directive parsers for all dated, non-transaction directives. Each is
// invoked after the caller has already consumed the DATE token; they
// consume the keyword and their own fields, then defer to
// finishDatedDirective for the trailing metadata block, position, date,
// and exact source span.

// parseBalance parses: DATE balance ACCOUNT NUMBER [~ TOLERANCE] CURRENCY
// The tolerance, when present, shares the trailing currency with the
// asserted amount — there is only one currency token on the line.
func (p *Parser) parseBalance(startOffset int, pos ast.Position, date ast.Date) (*ast.Balance, error) {
	p.consume(BALANCE, InvalidInput, "expected 'balance'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	number, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	var tolerance *decimal.Decimal
	if p.match(TILDE) {
		tolTok := p.peek()
		tol, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if tol.IsNegative() {
			return nil, p.errorAtToken(tolTok, InvalidInput, "balance tolerance must be non-negative")
		}
		tolerance = &tol
	}

	currTok := p.expect(IDENT, InvalidInput, "expected currency")
	if currTok.Type == ILLEGAL {
		return nil, p.errorAtEndOfPrevious(InvalidInput, "expected currency")
	}
	currency := p.internCurrency(currTok)

	bal := &ast.Balance{Account: account, Amount: ast.Amount{Number: number, Currency: currency}, Tolerance: tolerance}
	if err := p.finishDatedDirective(bal, startOffset, pos, date); err != nil {
		return nil, err
	}
	return bal, nil
}

// parseOpen parses: DATE open ACCOUNT [CURRENCY[,CURRENCY]*] ["BOOKING_METHOD"]
func (p *Parser) parseOpen(startOffset int, pos ast.Position, date ast.Date) (*ast.Open, error) {
	p.consume(OPEN, InvalidInput, "expected 'open'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	var currencies []string
	if p.check(IDENT) {
		currency, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		currencies = append(currencies, currency)

		for p.match(COMMA) {
			currency, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			currencies = append(currencies, currency)
		}
	}

	booking := ast.BookingStrict
	if p.check(STRING) {
		methodStr, err := p.parseQuotedString()
		if err != nil {
			return nil, err
		}
		booking, err = ast.ParseBookingMethod(methodStr)
		if err != nil {
			return nil, p.error(InvalidInput, "%v", err)
		}
	}

	open := &ast.Open{Account: account, ConstraintCurrencies: currencies, Booking: booking}
	if err := p.finishDatedDirective(open, startOffset, pos, date); err != nil {
		return nil, err
	}
	return open, nil
}

// parseClose parses: DATE close ACCOUNT
func (p *Parser) parseClose(startOffset int, pos ast.Position, date ast.Date) (*ast.Close, error) {
	p.consume(CLOSE, InvalidInput, "expected 'close'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	close := &ast.Close{Account: account}
	if err := p.finishDatedDirective(close, startOffset, pos, date); err != nil {
		return nil, err
	}
	return close, nil
}

// parseCommodity parses: DATE commodity CURRENCY
func (p *Parser) parseCommodity(startOffset int, pos ast.Position, date ast.Date) (*ast.Commodity, error) {
	p.consume(COMMODITY, InvalidInput, "expected 'commodity'")

	currency, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	commodity := &ast.Commodity{Currency: currency}
	if err := p.finishDatedDirective(commodity, startOffset, pos, date); err != nil {
		return nil, err
	}
	return commodity, nil
}

// parsePad parses: DATE pad ACCOUNT ACCOUNT_PAD
func (p *Parser) parsePad(startOffset int, pos ast.Position, date ast.Date) (*ast.Pad, error) {
	p.consume(PAD, InvalidInput, "expected 'pad'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	accountPad, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	pad := &ast.Pad{Account: account, AccountPad: accountPad}
	if err := p.finishDatedDirective(pad, startOffset, pos, date); err != nil {
		return nil, err
	}
	return pad, nil
}

// parseNote parses: DATE note ACCOUNT STRING
func (p *Parser) parseNote(startOffset int, pos ast.Position, date ast.Date) (*ast.Note, error) {
	p.consume(NOTE, InvalidInput, "expected 'note'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	comment, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	note := &ast.Note{Account: account, Comment: comment}
	if err := p.finishDatedDirective(note, startOffset, pos, date); err != nil {
		return nil, err
	}
	return note, nil
}

// parseDocument parses: DATE document ACCOUNT STRING [TAG|LINK]*
func (p *Parser) parseDocument(startOffset int, pos ast.Position, date ast.Date) (*ast.Document, error) {
	p.consume(DOCUMENT, InvalidInput, "expected 'document'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	path, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	var tags []ast.Tag
	var links []ast.Link
	for p.check(TAG) || p.check(LINK) {
		if p.check(TAG) {
			tag, err := p.parseTag()
			if err != nil {
				return nil, err
			}
			tags = append(tags, tag)
		} else {
			link, err := p.parseLink()
			if err != nil {
				return nil, err
			}
			links = append(links, link)
		}
	}

	doc := &ast.Document{Account: account, Path: path, Tags: tags, Links: links}
	if err := p.finishDatedDirective(doc, startOffset, pos, date); err != nil {
		return nil, err
	}
	return doc, nil
}

// parsePrice parses: DATE price CURRENCY AMOUNT
func (p *Parser) parsePrice(startOffset int, pos ast.Position, date ast.Date) (*ast.Price, error) {
	p.consume(PRICE, InvalidInput, "expected 'price'")

	commodity, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	price := &ast.Price{Commodity: commodity, Amount: amount}
	if err := p.finishDatedDirective(price, startOffset, pos, date); err != nil {
		return nil, err
	}
	return price, nil
}

// parseEvent parses: DATE event STRING STRING
func (p *Parser) parseEvent(startOffset int, pos ast.Position, date ast.Date) (*ast.Event, error) {
	p.consume(EVENT, InvalidInput, "expected 'event'")

	name, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	value, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	event := &ast.Event{Name: name, Value: value}
	if err := p.finishDatedDirective(event, startOffset, pos, date); err != nil {
		return nil, err
	}
	return event, nil
}

// parseQuery parses: DATE query STRING STRING
func (p *Parser) parseQuery(startOffset int, pos ast.Position, date ast.Date) (*ast.Query, error) {
	p.consume(QUERY, InvalidInput, "expected 'query'")

	name, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	queryString, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	query := &ast.Query{Name: name, QueryString: queryString}
	if err := p.finishDatedDirective(query, startOffset, pos, date); err != nil {
		return nil, err
	}
	return query, nil
}

// parseCustom parses: DATE custom STRING VALUE*
// where VALUE can be STRING | BOOL | AMOUNT | NUMBER | ACCOUNT | CURRENCY | DATE | TAG
func (p *Parser) parseCustom(startOffset int, pos ast.Position, date ast.Date) (*ast.Custom, error) {
	p.consume(CUSTOM, InvalidInput, "expected 'custom'")

	name, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	var args []ast.MetadataValue
	startLine := p.peek().Line
	for !p.isAtEnd() && p.peek().Line == startLine {
		tok := p.peek()
		if tok.Type == IDENT && p.peekAhead(1).Type == COLON {
			break
		}
		if tok.Type != STRING && tok.Type != IDENT && tok.Type != NUMBER && tok.Type != ACCOUNT &&
			tok.Type != DATE && tok.Type != TAG {
			break
		}

		val, err := p.parseMetadataValue()
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	custom := &ast.Custom{Name: name, Args: args}
	if err := p.finishDatedDirective(custom, startOffset, pos, date); err != nil {
		return nil, err
	}
	return custom, nil
}
