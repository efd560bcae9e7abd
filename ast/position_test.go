package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestPositionString(t *testing.T) {
	p := Position{Filename: "ledger.beancount", Line: 3, Column: 5}
	assert.Equal(t, "ledger.beancount:3:5", p.String())

	p2 := Position{Line: 3, Column: 5}
	assert.Equal(t, "3:5", p2.String())
}

func TestSpanText(t *testing.T) {
	src := []byte("2014-05-01 open Assets:Checking\n")
	s := Span{Start: 0, End: 10}
	assert.Equal(t, "2014-05-01", s.Text(src))

	var zero Span
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.Text(src))
}
