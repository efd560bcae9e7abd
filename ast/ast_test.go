package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func newOpenForTest(line int, date Date, account Account) *Open {
	return &Open{base: base{Pos: Position{Line: line}, Date: date}, Account: account}
}

func TestLedgerPreservesParseOrder(t *testing.T) {
	d1, _ := NewDate("2014-01-01")
	d2, _ := NewDate("2013-01-01")

	l := &Ledger{
		Directives: []Directive{
			newOpenForTest(3, d1, Account{Type: Assets, Parts: []string{"Checking"}}),
			newOpenForTest(1, d2, Account{Type: Liabilities, Parts: []string{"CreditCard"}}),
		},
	}

	assert.Equal(t, KindOpen, l.Directives[0].Kind())
	open, ok := l.Directives[0].(*Open)
	assert.True(t, ok)
	assert.Equal(t, Assets, open.Account.Type)

	// Order must remain exactly as given — no date-based sort.
	second, ok := l.Directives[1].(*Open)
	assert.True(t, ok)
	assert.Equal(t, Liabilities, second.Account.Type)
}

func TestLedgerSummary(t *testing.T) {
	d, _ := NewDate("2014-01-01")
	checking, _ := NewAccount(Assets, "Checking")
	balance := NewBalance(d, checking, NewAmount("100.00", "USD"))

	l := &Ledger{Directives: []Directive{balance}}
	accounts, currencies := l.Summary()

	assert.Equal(t, []string{"Assets:Checking"}, accounts)
	assert.Equal(t, []string{"USD"}, currencies)
}

func TestDirectiveKindString(t *testing.T) {
	assert.Equal(t, "transaction", KindTransaction.String())
	assert.Equal(t, "unsupported", KindUnsupported.String())
}
