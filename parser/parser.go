package parser

import (
	"context"
	"strings"

	"github.com/ledgertext/beancount/ast"
)

// Parser is a recursive-descent parser driven by a token stream a Lexer
// has already scanned in full. There is no separate streaming/incremental
// mode: ScanAll tokenizes once, and the parser walks the resulting slice.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int
	interner *Interner
	state    *parseState
}

func newParser(source []byte, filename string) (*Parser, error) {
	lx := NewLexer(source, filename)
	tokens, err := lx.ScanAll()
	if err != nil {
		return nil, err
	}
	return &Parser{
		source:   source,
		filename: filename,
		tokens:   tokens,
		interner: lx.Interner(),
		state:    newParseState(),
	}, nil
}

// Parse parses Beancount source into a Ledger. filename is attached to
// every position reported in the result and in any error.
func Parse(ctx context.Context, source []byte, filename string) (*ast.Ledger, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p, err := newParser(source, filename)
	if err != nil {
		return nil, NewParseErrorWithSource(filename, err, source)
	}
	return p.parseLedger()
}

// ParseString parses Beancount source supplied as a string.
func ParseString(ctx context.Context, source string) (*ast.Ledger, error) {
	return Parse(ctx, []byte(source), "")
}

// ParseBytes parses Beancount source supplied as bytes.
func ParseBytes(ctx context.Context, source []byte) (*ast.Ledger, error) {
	return Parse(ctx, source, "")
}

// ParseBytesWithFilename parses Beancount source supplied as bytes,
// attaching filename to every position reported in the result and in any
// error. It is a thin alias for Parse, named for callers that already
// think in terms of bytes rather than the filename-carrying source.
func ParseBytesWithFilename(ctx context.Context, filename string, source []byte) (*ast.Ledger, error) {
	return Parse(ctx, source, filename)
}

// parseLedger is the top-level directive dispatch loop. Every directive is
// built and appended in the exact order it appears in source; pushtag and
// poptag never produce IR, only parser.parseState side effects, and
// pushmeta and popmeta are rejected with an InvalidInput error (§4.1, §4.5).
func (p *Parser) parseLedger() (*ast.Ledger, error) {
	ledger := &ast.Ledger{}

	for !p.isAtEnd() {
		tok := p.peek()

		switch tok.Type {
		case NEWLINE, COMMENT:
			p.advance()

		case OPTION:
			opt, err := p.parseOption()
			if err != nil {
				return nil, err
			}
			ledger.Directives = append(ledger.Directives, opt)

		case INCLUDE:
			inc, err := p.parseInclude()
			if err != nil {
				return nil, err
			}
			ledger.Directives = append(ledger.Directives, inc)

		case PLUGIN:
			plugin, err := p.parsePlugin()
			if err != nil {
				return nil, err
			}
			ledger.Directives = append(ledger.Directives, plugin)

		case PUSHTAG:
			if err := p.parsePushtag(); err != nil {
				return nil, err
			}

		case POPTAG:
			if err := p.parsePoptag(); err != nil {
				return nil, err
			}

		case PUSHMETA, POPMETA:
			return nil, p.error(InvalidInput, "%s is not supported", tok.Type)

		case DATE:
			directive, err := p.parseDatedDirective()
			if err != nil {
				return nil, err
			}
			ledger.Directives = append(ledger.Directives, directive)

		default:
			return nil, p.error(InvalidInput, "unexpected token %s", tok.Type)
		}
	}

	if unbalanced := p.state.tags.unbalanced(); len(unbalanced) > 0 {
		quoted := make([]string, len(unbalanced))
		for i, t := range unbalanced {
			quoted[i] = "'" + t + "'"
		}
		return nil, p.error(InvalidInput, "Unbalanced pushed tag(s): %s", strings.Join(quoted, ", "))
	}

	return ledger, nil
}

// parseDatedDirective consumes a DATE token and dispatches on the keyword
// that follows it.
func (p *Parser) parseDatedDirective() (ast.Directive, error) {
	startTok := p.peek()
	pos := tokenPosition(startTok, p.filename)

	date, err := p.parseDate()
	if err != nil {
		return nil, err
	}

	kwTok := p.peek()
	switch kwTok.Type {
	case BALANCE:
		return p.parseBalance(startTok.Start, pos, date)
	case OPEN:
		return p.parseOpen(startTok.Start, pos, date)
	case CLOSE:
		return p.parseClose(startTok.Start, pos, date)
	case COMMODITY:
		return p.parseCommodity(startTok.Start, pos, date)
	case PAD:
		return p.parsePad(startTok.Start, pos, date)
	case NOTE:
		return p.parseNote(startTok.Start, pos, date)
	case DOCUMENT:
		return p.parseDocument(startTok.Start, pos, date)
	case PRICE:
		return p.parsePrice(startTok.Start, pos, date)
	case EVENT:
		return p.parseEvent(startTok.Start, pos, date)
	case QUERY:
		return p.parseQuery(startTok.Start, pos, date)
	case CUSTOM:
		return p.parseCustom(startTok.Start, pos, date)
	case TXN, ASTERISK, EXCLAIM:
		return p.parseTransaction(startTok.Start, pos, date)
	default:
		return nil, p.error(InvalidInput, "unexpected token %s after date", kwTok.Type)
	}
}

// parseOption parses: option STRING STRING
func (p *Parser) parseOption() (*ast.Option, error) {
	startTok := p.peek()
	p.consume(OPTION, InvalidInput, "expected 'option'")

	name, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}
	value, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	p.state.applyOption(name, value)

	return &ast.Option{
		Pos:   tokenPosition(startTok, p.filename),
		Src:   p.sourceSpan(startTok.Start),
		Name:  name,
		Value: value,
	}, nil
}

// parseInclude parses: include STRING
func (p *Parser) parseInclude() (*ast.Include, error) {
	startTok := p.peek()
	p.consume(INCLUDE, InvalidInput, "expected 'include'")

	filename, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	return &ast.Include{
		Pos:      tokenPosition(startTok, p.filename),
		Src:      p.sourceSpan(startTok.Start),
		Filename: filename,
	}, nil
}

// parsePlugin parses: plugin STRING [STRING]
func (p *Parser) parsePlugin() (*ast.Plugin, error) {
	startTok := p.peek()
	p.consume(PLUGIN, InvalidInput, "expected 'plugin'")

	module, err := p.parseQuotedString()
	if err != nil {
		return nil, err
	}

	plugin := &ast.Plugin{Pos: tokenPosition(startTok, p.filename), Module: module}
	if p.check(STRING) {
		config, err := p.parseQuotedString()
		if err != nil {
			return nil, err
		}
		plugin.Config = &config
	}
	plugin.Src = p.sourceSpan(startTok.Start)
	return plugin, nil
}

// parsePushtag parses: pushtag TAG
func (p *Parser) parsePushtag() error {
	p.consume(PUSHTAG, InvalidInput, "expected 'pushtag'")
	tag, err := p.parseTag()
	if err != nil {
		return err
	}
	p.state.tags.push(string(tag))
	return nil
}

// parsePoptag parses: poptag TAG
func (p *Parser) parsePoptag() error {
	tok := p.peek()
	p.consume(POPTAG, InvalidInput, "expected 'poptag'")
	tag, err := p.parseTag()
	if err != nil {
		return err
	}
	if !p.state.tags.pop(string(tag)) {
		return p.errorAtToken(tok, InvalidInput, "Attempting to pop absent tag: '%s'", tag)
	}
	return nil
}
