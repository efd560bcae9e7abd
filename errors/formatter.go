// Package errors provides error formatting infrastructure for presenting
// parser errors to different consumers (CLI, API). It separates error
// formatting from the parser's own error type, allowing errors to be
// rendered in multiple formats (text, JSON) without the parser package
// needing to know about either.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ledgertext/beancount/ast"
	"github.com/ledgertext/beancount/output"
	"github.com/ledgertext/beancount/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter formats errors for command-line output, with source
// context and a caret under the offending column when a *parser.ParseError
// carries a SourceRange.
type TextFormatter struct {
	styles *output.Styles
}

// NewTextFormatter creates a new text formatter. styles may be nil, in
// which case output is unstyled plain text.
func NewTextFormatter(styles *output.Styles) *TextFormatter {
	return &TextFormatter{styles: styles}
}

// Format formats a single error in bean-check style.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(*parser.ParseError); ok {
		if e.SourceRange.Source != nil {
			pos := e.Pos
			if e.SourceRange.StartOffset > 0 && pos.Line > 3 {
				// The parser's range starts two lines above the error line.
				pos.Line = 3
			}
			return tf.formatWithSourceContext(pos, e.Error(), e.SourceRange.Source)
		}
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Message)
	}

	if e, ok := err.(interface{ GetPosition() ast.Position }); ok {
		return fmt.Sprintf("%s:%d:%d: %s", e.GetPosition().Filename, e.GetPosition().Line, e.GetPosition().Column, err.Error())
	}

	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// formatWithSourceContext renders message followed by a few lines of
// source around pos, with a caret under the offending column.
func (tf *TextFormatter) formatWithSourceContext(pos ast.Position, message string, sourceContent []byte) string {
	var buf bytes.Buffer

	if tf.styles != nil {
		buf.WriteString(tf.styles.Error(message))
	} else {
		buf.WriteString(message)
	}
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(sourceContent), "\n")

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
		buf.WriteString(sourceLines[i])
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			for j := 0; j < pos.Column-1; j++ {
				buf.WriteByte(' ')
			}
			buf.WriteString("^")
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Kind     string        `json:"kind,omitempty"`
	Message  string        `json:"message"`
	Position *PositionJSON `json:"position,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	jsonErrors := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		jsonErrors = append(jsonErrors, jf.toJSON(err))
	}
	data, _ := json.MarshalIndent(jsonErrors, "", "  ")
	return string(data)
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{Message: err.Error()}

	if e, ok := err.(*parser.ParseError); ok {
		errJSON.Kind = e.Kind.String()
		errJSON.Position = &PositionJSON{
			Filename: e.Pos.Filename,
			Line:     e.Pos.Line,
			Column:   e.Pos.Column,
		}
		return errJSON
	}

	if e, ok := err.(interface{ GetPosition() ast.Position }); ok {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	return errJSON
}
