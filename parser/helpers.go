package parser

import (
	"strings"

	"github.com/ledgertext/beancount/ast"
	"github.com/shopspring/decimal"
)

// Helper parsing methods used across directive parsers.
// These implement the common patterns in Beancount syntax.

// parseDate parses a DATE token and converts it to ast.Date.
func (p *Parser) parseDate() (ast.Date, error) {
	tok := p.expect(DATE, InvalidInput, "expected date")
	if tok.Type == ILLEGAL {
		return ast.Date{}, p.errorAtToken(tok, InvalidInput, "expected date")
	}

	date, err := ast.NewDate(tok.String(p.source))
	if err != nil {
		return ast.Date{}, p.errorAtToken(tok, InvalidInput, "invalid date: %v", err)
	}
	return date, nil
}

// parseAccount parses an ACCOUNT token and resolves it against the
// currently active root-name table (§4.5).
func (p *Parser) parseAccount() (ast.Account, error) {
	tok := p.expect(ACCOUNT, InvalidInput, "expected account")
	if tok.Type == ILLEGAL {
		actualTok := p.peek()
		return ast.Account{}, p.errorAtEndOfPrevious(InvalidInput, "expected account but got %s %q", actualTok.Type, actualTok.String(p.source))
	}

	accountStr := p.internIdent(tok)
	account, ok := p.state.resolveAccount(accountStr)
	if !ok {
		return ast.Account{}, p.errorAtToken(tok, InvalidInput, "invalid root account: %q", accountStr)
	}
	for _, part := range account.Parts {
		if !ast.ValidateSegment(part) {
			return ast.Account{}, p.errorAtToken(tok, InvalidInput, "invalid account segment: %q", part)
		}
	}
	return account, nil
}

// parseAmount parses a complete amount: an arithmetic expression
// (evaluated per §4.3) followed by a currency identifier.
func (p *Parser) parseAmount() (ast.Amount, error) {
	value, err := p.parseExpression()
	if err != nil {
		return ast.Amount{}, err
	}

	currTok := p.expect(IDENT, InvalidInput, "expected currency")
	if currTok.Type == ILLEGAL {
		return ast.Amount{}, p.errorAtEndOfPrevious(InvalidInput, "expected currency")
	}
	currency := p.internCurrency(currTok)

	return ast.Amount{Number: value, Currency: currency}, nil
}

// incompleteAmountStart reports whether the current token could begin an
// amount (as opposed to the posting having no units at all).
func (p *Parser) incompleteAmountStart() bool {
	switch p.peek().Type {
	case NUMBER, MINUS, PLUS, LPAREN:
		return true
	default:
		return false
	}
}

// parseIncompleteAmount parses an optional amount for a posting. Returns
// the zero IncompleteAmount and false when the posting carries no units.
func (p *Parser) parseIncompleteAmount() (ast.IncompleteAmount, bool, error) {
	if !p.incompleteAmountStart() {
		return ast.IncompleteAmount{}, false, nil
	}
	amt, err := p.parseAmount()
	if err != nil {
		return ast.IncompleteAmount{}, false, err
	}
	n, c := amt.Number, amt.Currency
	return ast.IncompleteAmount{Number: &n, Currency: &c}, true, nil
}

// parseCost parses a cost specification:
//
//	{ [*] [AMOUNT] [, DATE] [, LABEL] }  or  {{ AMOUNT [, DATE] [, LABEL] }}
//
// Components inside the braces are any combination, comma-separated, of a
// compound-amount, a date, a quoted label, and a lone `*` that sets Merge.
// A compound-amount is NUMBER ['#' NUMBER] CURRENCY: the first number is
// per-unit, the second (if present) is total, reconciling a per-unit figure
// against a known total (e.g. to account for a fee). Total-cost syntax
// (`{{...}}`) carries its number raw in NumberTotal, never divided by the
// posting's units; if the compound-amount inside `{{...}}` provides both
// per and total via '#', that is a domain error, since total-cost syntax
// already commits to a total.
func (p *Parser) parseCost() (*ast.CostSpec, error) {
	isTotal := false
	if p.check(LDBRACE) {
		p.advance()
		isTotal = true
	} else {
		p.consume(LBRACE, InvalidInput, "expected '{' or '{{'")
	}

	cost := &ast.CostSpec{}
	closing := RBRACE
	if isTotal {
		closing = RDBRACE
	}

	if p.check(closing) {
		if isTotal {
			return nil, p.error(InvalidInput, "empty total cost {{}} is not allowed")
		}
		p.advance()
		return cost, nil
	}

	for {
		switch {
		case p.check(ASTERISK):
			if isTotal {
				return nil, p.error(InvalidInput, "merge cost {*} cannot use total cost syntax {{}}")
			}
			p.advance()
			cost.Merge = true

		case p.check(NUMBER) || p.check(MINUS) || p.check(PLUS) || p.check(LPAREN):
			per, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			var total *decimal.Decimal
			if p.match(HASH) {
				totalValue, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				total = &totalValue
			}

			currTok := p.expect(IDENT, InvalidInput, "expected currency")
			if currTok.Type == ILLEGAL {
				return nil, p.errorAtEndOfPrevious(InvalidInput, "expected currency")
			}
			currency := p.internCurrency(currTok)
			cost.Currency = &currency

			switch {
			case total != nil && isTotal:
				return nil, p.error(InvalidInput, "Per-unit cost may not be specified using total cost")
			case total != nil:
				cost.NumberPer = &per
				cost.NumberTotal = total
			case isTotal:
				cost.NumberTotal = &per
			default:
				cost.NumberPer = &per
			}

		case p.check(DATE):
			date, err := p.parseDate()
			if err != nil {
				return nil, err
			}
			cost.Date = &date

		case p.check(STRING):
			label, err := p.parseQuotedString()
			if err != nil {
				return nil, err
			}
			cost.Label = &label

		default:
			return nil, p.error(InvalidInput, "expected cost component")
		}

		if !p.match(COMMA) {
			break
		}
	}

	p.consume(closing, InvalidInput, "expected closing brace")
	return cost, nil
}

// parseQuotedString parses a STRING token and returns its unquoted value.
func (p *Parser) parseQuotedString() (string, error) {
	tok := p.expect(STRING, InvalidInput, "expected string")
	if tok.Type == ILLEGAL {
		return "", p.errorAtEndOfPrevious(InvalidInput, "expected string")
	}

	unquoted, err := p.unquoteString(tok.String(p.source))
	if err != nil {
		return "", p.errorAtToken(tok, InvalidInput, "invalid string literal: %v", err)
	}
	return p.internString(unquoted), nil
}

// unquoteString unquotes a string by removing surrounding quotes and processing escapes.
func (p *Parser) unquoteString(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s, &StringLiteralError{Message: "string must be enclosed in double quotes"}
	}

	inner := s[1 : len(s)-1]
	if strings.IndexByte(inner, '\\') < 0 {
		return inner, nil
	}
	return p.processEscapeSequences(inner)
}

// processEscapeSequences processes escape sequences in a string's inner content.
func (p *Parser) processEscapeSequences(inner string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(inner))

	i := 0
	for i < len(inner) {
		if inner[i] == '\\' {
			if i+1 >= len(inner) {
				return "", &StringLiteralError{Message: "escape sequence at end of string"}
			}
			switch inner[i+1] {
			case '"':
				buf.WriteByte('"')
				i += 2
			case '\\':
				buf.WriteByte('\\')
				i += 2
			case 'n':
				buf.WriteByte('\n')
				i += 2
			case 't':
				buf.WriteByte('\t')
				i += 2
			case 'r':
				buf.WriteByte('\r')
				i += 2
			default:
				return "", &StringLiteralError{Message: "invalid escape sequence '\\" + string(inner[i+1]) + "'"}
			}
		} else {
			buf.WriteByte(inner[i])
			i++
		}
	}
	return buf.String(), nil
}

// parseIdent parses an IDENT token and returns its interned text.
func (p *Parser) parseIdent() (string, error) {
	tok := p.expect(IDENT, InvalidInput, "expected identifier")
	if tok.Type == ILLEGAL {
		return "", p.errorAtEndOfPrevious(InvalidInput, "expected identifier")
	}
	return p.internIdent(tok), nil
}

// parseTag parses a TAG token, stripping the leading '#'.
func (p *Parser) parseTag() (ast.Tag, error) {
	tok := p.expect(TAG, InvalidInput, "expected tag")
	if tok.Type == ILLEGAL {
		return "", p.errorAtEndOfPrevious(InvalidInput, "expected tag")
	}
	return ast.Tag(p.internIdent(tok)[1:]), nil
}

// parseLink parses a LINK token, stripping the leading '^'.
func (p *Parser) parseLink() (ast.Link, error) {
	tok := p.expect(LINK, InvalidInput, "expected link")
	if tok.Type == ILLEGAL {
		return "", p.errorAtEndOfPrevious(InvalidInput, "expected link")
	}
	return ast.Link(p.internIdent(tok)[1:]), nil
}

// parseMetadataBlock parses zero or more metadata lines: "key: value",
// indented below the directive or posting they annotate. Stops at the
// first token that doesn't look like a metadata key.
func (p *Parser) parseMetadataBlock() (ast.Metadata, error) {
	var meta ast.Metadata

	for {
		keyTok := p.peek()
		isKey := (keyTok.Type == IDENT || p.isKeyword(keyTok.Type)) &&
			keyTok.Column > 1 &&
			p.peekAhead(1).Type == COLON &&
			keyTok.Column+keyTok.Len() == p.peekAhead(1).Column
		if !isKey {
			break
		}

		p.advance()
		p.consume(COLON, InvalidInput, "expected ':'")

		val, err := p.parseMetadataValue()
		if err != nil {
			return nil, err
		}

		meta = append(meta, ast.MetadataEntry{Key: keyTok.String(p.source), Value: val})
	}

	return meta, nil
}

// parseMetadataValue parses a typed metadata value. Beancount supports 9
// value types: strings, dates, accounts, currencies, tags, links,
// numbers, amounts, and booleans.
func (p *Parser) parseMetadataValue() (ast.MetadataValue, error) {
	tok := p.peek()

	switch tok.Type {
	case STRING:
		s, err := p.parseQuotedString()
		if err != nil {
			return ast.MetadataValue{}, err
		}
		return ast.MetadataValue{Kind: ast.MetaText, Text: s}, nil

	case DATE:
		d, err := p.parseDate()
		if err != nil {
			return ast.MetadataValue{}, err
		}
		return ast.MetadataValue{Kind: ast.MetaDate, Date: d}, nil

	case TAG:
		t, err := p.parseTag()
		if err != nil {
			return ast.MetadataValue{}, err
		}
		return ast.MetadataValue{Kind: ast.MetaTag, Tag: t}, nil

	case LINK:
		l, err := p.parseLink()
		if err != nil {
			return ast.MetadataValue{}, err
		}
		return ast.MetadataValue{Kind: ast.MetaLink, Link: l}, nil

	case ACCOUNT:
		a, err := p.parseAccount()
		if err != nil {
			return ast.MetadataValue{}, err
		}
		return ast.MetadataValue{Kind: ast.MetaAccount, Account: a}, nil

	case NUMBER:
		if p.peekAhead(1).Type == IDENT {
			amt, err := p.parseAmount()
			if err != nil {
				return ast.MetadataValue{}, err
			}
			return ast.MetadataValue{Kind: ast.MetaAmount, Amount: amt}, nil
		}
		value, err := p.parseExpression()
		if err != nil {
			return ast.MetadataValue{}, err
		}
		return ast.MetadataValue{Kind: ast.MetaNumber, Number: value}, nil

	case IDENT:
		identStr := tok.String(p.source)
		if identStr == "TRUE" {
			p.advance()
			return ast.MetadataValue{Kind: ast.MetaBool, Bool: true}, nil
		}
		if identStr == "FALSE" {
			p.advance()
			return ast.MetadataValue{Kind: ast.MetaBool, Bool: false}, nil
		}
		currency := p.internCurrency(tok)
		p.advance()
		return ast.MetadataValue{Kind: ast.MetaCurrency, Currency: currency}, nil

	default:
		return ast.MetadataValue{}, p.errorAtToken(tok, InvalidInput, "expected metadata value")
	}
}

// datedDirective is implemented by every dated, metadata-bearing directive
// via ast's embedded base type, letting finishDatedDirective populate those
// fields without naming the unexported base type directly.
type datedDirective interface {
	SetPosition(ast.Position)
	SetSource(string)
	SetDate(ast.Date)
	SetMetadata(ast.Metadata)
}

// finishDatedDirective parses any trailing metadata block and populates
// d's position, date, metadata, and exact source span (from startOffset
// through the last consumed token). Used by every dated directive parser
// except Transaction, which has its own multi-line structure.
func (p *Parser) finishDatedDirective(d datedDirective, startOffset int, pos ast.Position, date ast.Date) error {
	meta, err := p.parseMetadataBlock()
	if err != nil {
		return err
	}
	d.SetPosition(pos)
	d.SetDate(date)
	d.SetMetadata(meta)
	d.SetSource(p.sourceSpan(startOffset))
	return nil
}

// sourceSpan returns the source substring from startOffset through the end
// of the most recently consumed token.
func (p *Parser) sourceSpan(startOffset int) string {
	end := p.previous().End
	if end > len(p.source) {
		end = len(p.source)
	}
	if startOffset >= end {
		return ""
	}
	return string(p.source[startOffset:end])
}

// isKeyword returns true if the token type is a keyword, which may also
// legally appear as a metadata key.
func (p *Parser) isKeyword(typ TokenType) bool {
	switch typ {
	case TXN, BALANCE, OPEN, CLOSE, COMMODITY, PAD, NOTE, DOCUMENT,
		PRICE, EVENT, CUSTOM, QUERY, OPTION, INCLUDE, PLUGIN,
		PUSHTAG, POPTAG, PUSHMETA, POPMETA:
		return true
	default:
		return false
	}
}

// Helper methods for token navigation

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[pos]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: ILLEGAL}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) consume(typ TokenType, kind ErrorKind, message string) Token {
	if p.check(typ) {
		return p.advance()
	}
	tok := p.peek()
	_ = p.errorAtToken(tok, kind, "%s", message)
	return Token{Type: ILLEGAL, Start: tok.Start, End: tok.End, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) expect(typ TokenType, kind ErrorKind, message string) Token {
	return p.consume(typ, kind, message)
}

// String interning helpers - deduplicate repeated strings for memory efficiency

func (p *Parser) internCurrency(tok Token) string {
	return p.interner.InternBytes(tok.Bytes(p.source))
}

func (p *Parser) internString(s string) string {
	return p.interner.Intern(s)
}

func (p *Parser) internIdent(tok Token) string {
	return p.interner.InternBytes(tok.Bytes(p.source))
}

// Error helpers

func (p *Parser) errorAtToken(tok Token, kind ErrorKind, format string, args ...interface{}) error {
	pos := tokenPosition(tok, p.filename)
	sourceRange := p.calculateSourceRange(pos)
	return newError(kind, pos, sourceRange, format, args...)
}

func (p *Parser) error(kind ErrorKind, format string, args ...interface{}) error {
	return p.errorAtToken(p.peek(), kind, format, args...)
}

func tokenPosition(tok Token, filename string) ast.Position {
	return ast.Position{Filename: filename, Offset: tok.Start, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) positionAtEndOfPrevious() ast.Position {
	if p.pos == 0 {
		return tokenPosition(p.peek(), p.filename)
	}
	prev := p.previous()
	return ast.Position{
		Filename: p.filename,
		Offset:   prev.End,
		Line:     prev.Line,
		Column:   prev.Column + (prev.End - prev.Start),
	}
}

func (p *Parser) errorAtEndOfPrevious(kind ErrorKind, format string, args ...interface{}) error {
	pos := p.positionAtEndOfPrevious()
	sourceRange := p.calculateSourceRange(pos)
	return newError(kind, pos, sourceRange, format, args...)
}

// calculateSourceRange determines the byte range in source that contains
// context lines around the error position: 2 lines before, 2 after.
func (p *Parser) calculateSourceRange(pos ast.Position) SourceRange {
	sourceStr := string(p.source)
	lines := strings.Split(sourceStr, "\n")

	startLine := pos.Line - 3
	endLine := pos.Line + 1
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	startOffset := 0
	if startLine > 0 {
		for i := 0; i < startLine; i++ {
			startOffset += len(lines[i]) + 1
		}
	}

	endOffset := startOffset
	for i := startLine; i <= endLine; i++ {
		if i < len(lines) {
			endOffset += len(lines[i])
			if i < endLine {
				endOffset++
			}
		}
	}
	if endOffset > len(p.source) {
		endOffset = len(p.source)
	}

	return SourceRange{StartOffset: startOffset, EndOffset: endOffset, Source: p.source[startOffset:endOffset]}
}
