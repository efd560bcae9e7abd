// Package render implements the total inverse traversal of the IR: one
// fixed canonical textual form per directive variant, with no alignment
// and no comment round-trip. Re-parsing rendered output and rendering
// again yields identical bytes.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledgertext/beancount/ast"
)

// RenderError reports a writer I/O failure or an attempt to render a
// directive the grammar accepts lexically but the constructor never
// produces (Unsupported).
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// rootNames tracks the root-name rename table the same way parser.state
// does, so an Account renders under whichever root name is active at its
// position in the directive stream.
type rootNames map[ast.AccountType]string

func (r rootNames) apply(name, value string) {
	switch name {
	case "name_assets":
		r[ast.Assets] = value
	case "name_liabilities":
		r[ast.Liabilities] = value
	case "name_equity":
		r[ast.Equity] = value
	case "name_income":
		r[ast.Income] = value
	case "name_expenses":
		r[ast.Expenses] = value
	}
}

func (r rootNames) accountString(a ast.Account) string {
	root, ok := r[a.Type]
	if !ok {
		root = a.Type.DefaultRootName()
	}
	if len(a.Parts) == 0 {
		return root
	}
	return root + ":" + strings.Join(a.Parts, ":")
}

// Render writes the canonical text form of every directive in ledger, in
// order, to w.
func Render(w io.Writer, ledger *ast.Ledger) error {
	roots := make(rootNames)
	for _, d := range ledger.Directives {
		if err := renderDirective(w, d, roots); err != nil {
			return err
		}
	}
	return nil
}

// String renders ledger to a string, for tests and debug dumps.
func String(ledger *ast.Ledger) (string, error) {
	var b strings.Builder
	if err := Render(&b, ledger); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderDirective(w io.Writer, d ast.Directive, roots rootNames) error {
	switch v := d.(type) {
	case *ast.Option:
		roots.apply(v.Name, v.Value)
		return writeLine(w, fmt.Sprintf("option %s %s", quote(v.Name), quote(v.Value)))
	case *ast.Include:
		return writeLine(w, fmt.Sprintf("include %s", quote(v.Filename)))
	case *ast.Plugin:
		line := fmt.Sprintf("plugin %s", quote(v.Module))
		if v.Config != nil {
			line += " " + quote(*v.Config)
		}
		return writeLine(w, line)
	case *ast.Open:
		return renderOpen(w, v, roots)
	case *ast.Close:
		return writeLine(w, fmt.Sprintf("%s close %s", v.GetDate(), roots.accountString(v.Account)))
	case *ast.Balance:
		return renderBalance(w, v, roots)
	case *ast.Commodity:
		return writeLine(w, fmt.Sprintf("%s commodity %s", v.GetDate(), v.Currency))
	case *ast.Price:
		return writeLine(w, fmt.Sprintf("%s price %s %s", v.GetDate(), v.Commodity, v.Amount))
	case *ast.Pad:
		return writeLine(w, fmt.Sprintf("%s pad %s %s", v.GetDate(), roots.accountString(v.Account), roots.accountString(v.AccountPad)))
	case *ast.Note:
		return writeLine(w, fmt.Sprintf("%s note %s %s", v.GetDate(), roots.accountString(v.Account), quote(v.Comment)))
	case *ast.Document:
		return renderDocument(w, v, roots)
	case *ast.Event:
		return writeLine(w, fmt.Sprintf("%s event %s %s", v.GetDate(), quote(v.Name), quote(v.Value)))
	case *ast.Query:
		return writeLine(w, fmt.Sprintf("%s query %s %s", v.GetDate(), quote(v.Name), quote(v.QueryString)))
	case *ast.Custom:
		return renderCustom(w, v)
	case *ast.Transaction:
		return renderTransaction(w, v, roots)
	case *ast.Unsupported:
		return &RenderError{Message: fmt.Sprintf("cannot render unsupported directive %q", v.Label)}
	default:
		return &RenderError{Message: fmt.Sprintf("unknown directive type %T", d)}
	}
}

func renderOpen(w io.Writer, o *ast.Open, roots rootNames) error {
	line := fmt.Sprintf("%s open %s", o.GetDate(), roots.accountString(o.Account))
	if len(o.ConstraintCurrencies) > 0 {
		line += " " + strings.Join(o.ConstraintCurrencies, ",")
	}
	if o.Booking != ast.BookingStrict {
		line += " " + quote(strings.ToLower(o.Booking.String()))
	}
	return writeLine(w, line)
}

func renderBalance(w io.Writer, b *ast.Balance, roots rootNames) error {
	line := fmt.Sprintf("%s balance %s\t%s", b.GetDate(), roots.accountString(b.Account), b.Amount.Number)
	if b.Tolerance != nil {
		line += " ~ " + b.Tolerance.String()
	}
	line += " " + b.Amount.Currency
	return writeLine(w, line)
}

func renderDocument(w io.Writer, d *ast.Document, roots rootNames) error {
	line := fmt.Sprintf("%s document %s %s", d.GetDate(), roots.accountString(d.Account), quote(d.Path))
	for _, t := range d.Tags {
		line += " #" + string(t)
	}
	for _, l := range d.Links {
		line += " ^" + string(l)
	}
	return writeLine(w, line)
}

func renderCustom(w io.Writer, c *ast.Custom) error {
	line := fmt.Sprintf("%s custom %s", c.GetDate(), quote(c.Name))
	for _, arg := range c.Args {
		line += " " + renderMetadataValue(arg)
	}
	return writeLine(w, line)
}

func renderTransaction(w io.Writer, t *ast.Transaction, roots rootNames) error {
	line := fmt.Sprintf("%s %s", t.GetDate(), t.Flag)
	if t.Payee != nil {
		line += " " + quote(*t.Payee)
	}
	line += " " + quote(t.Narration)
	for _, tag := range t.Tags {
		line += " #" + string(tag)
	}
	for _, link := range t.Links {
		line += " ^" + string(link)
	}
	if err := writeLine(w, line); err != nil {
		return err
	}

	for _, p := range t.Postings {
		if err := renderPosting(w, p, roots); err != nil {
			return err
		}
	}

	return renderMetadata(w, t.GetMetadata(), 1)
}

func renderPosting(w io.Writer, p *ast.Posting, roots rootNames) error {
	line := "\t"
	if p.Flag != nil {
		line += p.Flag.String() + " "
	}
	line += roots.accountString(p.Account)
	line += "\t" + p.Units.String()

	if p.Cost != nil {
		line += " " + renderCostSpec(p.Cost)
	}
	if p.Price != nil {
		if p.Price.Kind == ast.PriceTotal {
			line += " @@ " + p.Price.Amount.String()
		} else {
			line += " @ " + p.Price.Amount.String()
		}
	}
	if err := writeLine(w, line); err != nil {
		return err
	}
	return renderMetadata(w, p.Meta, 1)
}

func renderCostSpec(c *ast.CostSpec) string {
	open, close := "{", "}"
	if c.NumberPer == nil && c.NumberTotal != nil {
		open, close = "{{", "}}"
	}

	if c.Merge {
		return open + "*" + close
	}

	var parts []string
	if c.NumberPer != nil || c.NumberTotal != nil || c.Currency != nil {
		amt := ""
		if c.NumberPer != nil {
			amt += c.NumberPer.String()
		}
		if c.NumberTotal != nil {
			if amt != "" {
				amt += " # "
			}
			amt += c.NumberTotal.String()
		}
		if c.Currency != nil {
			if amt != "" {
				amt += " "
			}
			amt += *c.Currency
		}
		parts = append(parts, amt)
	}
	if c.Date != nil {
		parts = append(parts, c.Date.String())
	}
	if c.Label != nil {
		parts = append(parts, quote(*c.Label))
	}
	return open + strings.Join(parts, ", ") + close
}

func renderMetadata(w io.Writer, meta ast.Metadata, indent int) error {
	prefix := strings.Repeat("\t", indent)
	for _, entry := range meta {
		line := fmt.Sprintf("%s%s: %s", prefix, entry.Key, renderMetadataValue(entry.Value))
		if err := writeLine(w, line); err != nil {
			return err
		}
	}
	return nil
}

// renderMetadataValue renders a metadata value in its grammar-legal form.
// Unlike ast.MetadataValue.String, text values are quoted here: that
// method is meant for debug display, this one must round-trip through
// the grammar's string-literal production.
func renderMetadataValue(v ast.MetadataValue) string {
	if v.Kind == ast.MetaText {
		return quote(v.Text)
	}
	return v.String()
}

func writeLine(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s+"\n"); err != nil {
		return &RenderError{Message: "write failed", Cause: err}
	}
	return nil
}

// quote wraps s in double quotes, escaping backslashes and embedded quotes
// — the inverse of the lexer/parser's string-literal unescaping.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}
