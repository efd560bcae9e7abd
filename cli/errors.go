package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ledgertext/beancount/ast"
	"github.com/ledgertext/beancount/parser"
	"github.com/ledgertext/beancount/render"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	if e, ok := err.(*parser.ParseError); ok {
		source := r.source
		pos := e.Pos
		if source == nil {
			source = e.SourceRange.Source
			if e.SourceRange.StartOffset > 0 && pos.Line > 3 {
				// The parser's range starts two lines above the error line.
				pos.Line = 3
			}
		}
		if source != nil {
			return r.renderWithSourceContext(pos, e.Error(), source)
		}
	}

	return err.Error()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// renderWithContext formats an error message alongside a one-line rendering
// of the directive it refers to, for errors that are localized to a
// directive rather than a raw source position.
func (r *ErrorRenderer) renderWithContext(_ ast.Position, message string, directive ast.Directive) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteByte('\n')

	if line, err := render.String(&ast.Ledger{Directives: []ast.Directive{directive}}); err == nil {
		buf.WriteString("  ")
		buf.WriteString(errContextStyle.Render(strings.TrimSuffix(line, "\n")))
		buf.WriteByte('\n')
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithSourceContext(pos ast.Position, message string, sourceContent []byte) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceStr := string(sourceContent)
	sourceLines := strings.Split(sourceStr, "\n")

	startLine := pos.Line - 3
	endLine := pos.Line + 1

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		if i >= len(sourceLines) {
			break
		}
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(sourceLines[i]))
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			for j := 0; j < pos.Column-1; j++ {
				buf.WriteByte(' ')
			}
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}
