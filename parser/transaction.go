package parser

import "github.com/ledgertext/beancount/ast"

// Transaction parsing - the most complex directive type. Transactions
// have postings, indented on the lines following the header.

// flagByte maps a single-character flag token to its literal byte.
func flagByte(tok Token) byte {
	if tok.Type == ASTERISK {
		return '*'
	}
	return '!'
}

// unionTags merges the tags written directly on a transaction's header
// with whatever tags are active on the tag stack (§4.5, §8 testable
// property 6), preserving first-seen order and dropping duplicates.
func unionTags(explicit, active []ast.Tag) []ast.Tag {
	if len(active) == 0 {
		return explicit
	}
	seen := make(map[ast.Tag]bool, len(explicit)+len(active))
	out := make([]ast.Tag, 0, len(explicit)+len(active))
	for _, t := range explicit {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range active {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// parseTransaction parses:
//
//	DATE [txn] FLAG [PAYEE] NARRATION [TAG|LINK]*
//	  METADATA*
//	  POSTING*
func (p *Parser) parseTransaction(startOffset int, pos ast.Position, date ast.Date) (*ast.Transaction, error) {
	txn := &ast.Transaction{}
	headerLine := pos.Line

	switch {
	case p.match(TXN):
		txn.Flag = ast.NewFlag('*')
		if p.check(ASTERISK) || p.check(EXCLAIM) {
			txn.Flag = ast.NewFlag(flagByte(p.advance()))
		}
	case p.check(ASTERISK) || p.check(EXCLAIM):
		txn.Flag = ast.NewFlag(flagByte(p.advance()))
	default:
		return nil, p.error(InvalidInput, "expected transaction flag (* or !) or 'txn'")
	}

	var hasNarration bool
	if p.check(STRING) {
		first, err := p.parseQuotedString()
		if err != nil {
			return nil, err
		}
		if p.check(STRING) {
			second, err := p.parseQuotedString()
			if err != nil {
				return nil, err
			}
			payee := first
			txn.Payee = &payee
			txn.Narration = second
		} else {
			txn.Narration = first
		}
		hasNarration = true
	}
	if !hasNarration {
		return nil, p.error(InvalidInput, "expected transaction payee or narration string")
	}

	var explicitTags []ast.Tag
	var links []ast.Link
	for p.check(TAG) || p.check(LINK) {
		if p.check(TAG) {
			tag, err := p.parseTag()
			if err != nil {
				return nil, err
			}
			explicitTags = append(explicitTags, tag)
		} else {
			link, err := p.parseLink()
			if err != nil {
				return nil, err
			}
			links = append(links, link)
		}
	}
	txn.Tags = unionTags(explicitTags, p.state.tags.active())
	txn.Links = links

	meta, err := p.parseMetadataBlock()
	if err != nil {
		return nil, err
	}

	postings, err := p.parsePostings(headerLine)
	if err != nil {
		return nil, err
	}
	txn.Postings = postings

	txn.SetPosition(pos)
	txn.SetDate(date)
	txn.SetMetadata(meta)
	txn.SetSource(p.sourceSpan(startOffset))
	return txn, nil
}

// parsePostings parses all postings for a transaction: indented lines
// following the header, up to the first blank line that precedes a
// column-1 token or end of input.
func (p *Parser) parsePostings(headerLine int) ([]*ast.Posting, error) {
	postings := make([]*ast.Posting, 0, 4)

	for !p.isAtEnd() {
		tok := p.peek()

		if tok.Line == headerLine && (tok.Type == ASTERISK || tok.Type == EXCLAIM || tok.Type == ACCOUNT) {
			return nil, p.errorAtToken(tok, InvalidInput, "postings must start on a new line")
		}

		if tok.Type == NEWLINE {
			nextIdx := p.pos + 1
			if nextIdx < len(p.tokens) {
				nextTok := p.tokens[nextIdx]
				if nextTok.Column <= 1 || nextTok.Type == EOF {
					break
				}
			}
			p.advance()
			continue
		}

		if tok.Column <= 1 {
			break
		}

		if tok.Type != ASTERISK && tok.Type != EXCLAIM && tok.Type != ACCOUNT {
			if tok.Type == COMMENT {
				p.advance()
				continue
			}
			break
		}

		posting, err := p.parsePosting()
		if err != nil {
			return nil, err
		}
		postings = append(postings, posting)
	}

	return postings, nil
}

// parsePosting parses a single posting:
//
//	[FLAG] ACCOUNT [AMOUNT] [COST] [PRICE]
//	  METADATA*
func (p *Parser) parsePosting() (*ast.Posting, error) {
	startTok := p.peek()
	posting := &ast.Posting{Pos: tokenPosition(startTok, p.filename)}

	if p.check(ASTERISK) || p.check(EXCLAIM) {
		f := ast.NewFlag(flagByte(p.advance()))
		posting.Flag = &f
	}

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	posting.Account = account

	units, hasUnits, err := p.parseIncompleteAmount()
	if err != nil {
		return nil, err
	}
	if hasUnits {
		posting.Units = units
	}

	if p.check(LBRACE) || p.check(LDBRACE) {
		cost, err := p.parseCost()
		if err != nil {
			return nil, err
		}
		posting.Cost = cost
	}

	if p.match(ATAT) {
		amt, err := p.parseAmount()
		if err != nil {
			return nil, err
		}
		n, c := amt.Number, amt.Currency
		posting.Price = &ast.PriceSpec{Kind: ast.PriceTotal, Amount: ast.IncompleteAmount{Number: &n, Currency: &c}}
	} else if p.match(AT) {
		amt, err := p.parseAmount()
		if err != nil {
			return nil, err
		}
		n, c := amt.Number, amt.Currency
		posting.Price = &ast.PriceSpec{Kind: ast.PricePerUnit, Amount: ast.IncompleteAmount{Number: &n, Currency: &c}}
	}

	meta, err := p.parseMetadataBlock()
	if err != nil {
		return nil, err
	}
	posting.Meta = meta
	posting.Src = p.sourceSpan(startTok.Start)

	return posting, nil
}
