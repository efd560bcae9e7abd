package parser

import (
	"encoding/json"
	"fmt"

	"github.com/ledgertext/beancount/ast"
)

// ErrorKind discriminates the three categories a ParseError can fall into.
type ErrorKind int

const (
	// DecimalError is a numeric literal or expression that failed to
	// evaluate (§4.3).
	DecimalError ErrorKind = iota
	// InvalidInput covers grammar failures and domain-rule violations:
	// unbalanced tag stacks, unknown root accounts, unknown booking
	// methods, popping an absent tag.
	InvalidInput
	// InvalidParserState is reserved for invariants the grammar should
	// have already established; reaching one signals a bug in the
	// grammar/constructor pairing, not a user error.
	InvalidParserState
)

func (k ErrorKind) String() string {
	switch k {
	case DecimalError:
		return "DecimalError"
	case InvalidInput:
		return "InvalidInput"
	case InvalidParserState:
		return "InvalidParserState"
	default:
		return "UnknownError"
	}
}

// ParseError is the single error type the parser package returns. It
// carries the offending position, a human-readable message, an optional
// upstream cause, and the source range used to render context around the
// failure.
type ParseError struct {
	Kind        ErrorKind
	Pos         ast.Position
	Message     string
	Cause       error
	SourceRange SourceRange
}

// SourceRange defines a range in the source content for error context.
type SourceRange struct {
	StartOffset int
	EndOffset   int
	Source      []byte
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

func (e *ParseError) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"kind":     e.Kind.String(),
		"message":  e.Error(),
		"position": e.Pos,
	}
	if e.Cause != nil {
		m["cause"] = e.Cause.Error()
	}
	return json.Marshal(m)
}

func newError(kind ErrorKind, pos ast.Position, sourceRange SourceRange, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:        kind,
		Pos:         pos,
		Message:     fmt.Sprintf(format, args...),
		SourceRange: sourceRange,
	}
}

func newErrorWithCause(kind ErrorKind, pos ast.Position, cause error, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// StringLiteralError reports a malformed string literal, detected before a
// position can be attached; callers wrap it with errorAtToken to get a
// positioned ParseError.
type StringLiteralError struct {
	Message string
}

func (e *StringLiteralError) Error() string {
	return e.Message
}

// NewParseError wraps an existing error with filename context. If err is
// already a *ParseError it is returned unchanged — it already carries a
// position.
func NewParseError(filename string, err error) *ParseError {
	if pErr, ok := err.(*ParseError); ok {
		return pErr
	}
	return &ParseError{
		Kind:    InvalidInput,
		Pos:     ast.Position{Filename: filename, Line: 1, Column: 1},
		Message: err.Error(),
		Cause:   err,
	}
}

// NewParseErrorWithSource wraps an existing error with filename context and
// a source range spanning the entire input, for fallback error paths that
// have no narrower location to report.
func NewParseErrorWithSource(filename string, err error, source []byte) *ParseError {
	if pErr, ok := err.(*ParseError); ok {
		return pErr
	}
	return &ParseError{
		Kind:    InvalidInput,
		Pos:     ast.Position{Filename: filename, Line: 1, Column: 1},
		Message: err.Error(),
		Cause:   err,
		SourceRange: SourceRange{
			StartOffset: 0,
			EndOffset:   len(source),
			Source:      source,
		},
	}
}
