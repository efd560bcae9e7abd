// Package ast provides constructor functions for programmatically building
// Beancount directives. These builders make it easy to generate ledgers
// from code — CSV importers, test fixtures, or any other data source that
// wants to hand the render package a Ledger without going through the
// parser.
//
// Required fields are positional; everything else is set through
// TransactionOption/PostingOption functional options, each with a
// documented default (empty tag/link/metadata set, flag = Okay).
package ast

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NewAmount creates an Amount from a decimal string and currency. Panics if
// value does not parse as a decimal — callers constructing amounts from
// untrusted input should parse through the parser package instead.
func NewAmount(value, currency string) Amount {
	n, err := decimal.NewFromString(value)
	if err != nil {
		panic("ast: invalid decimal literal: " + value)
	}
	return Amount{Number: n, Currency: currency}
}

// NewAccount builds an Account from a root-relative type and its segments,
// validating each segment.
func NewAccount(t AccountType, parts ...string) (Account, error) {
	for i, p := range parts {
		if !ValidateSegment(p) {
			return Account{}, &ValidationError{Message: "invalid account segment at position " + strconv.Itoa(i) + ": " + p}
		}
	}
	return Account{Type: t, Parts: parts}, nil
}

// ValidationError reports a builder-time validation failure. It is
// distinct from parser.ParseError, which carries a source location;
// programmatically-built IR has no source position to report.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewTag strips an optional leading '#'.
func NewTag(s string) Tag {
	return Tag(strings.TrimPrefix(s, "#"))
}

// NewLink strips an optional leading '^'.
func NewLink(s string) Link {
	return Link(strings.TrimPrefix(s, "^"))
}

// TransactionOption configures a Transaction built with NewTransaction.
type TransactionOption func(*Transaction)

// NewTransaction builds a Transaction with the Okay flag, no payee, and no
// postings by default.
func NewTransaction(date Date, narration string, opts ...TransactionOption) *Transaction {
	t := &Transaction{
		base:      base{Date: date},
		Flag:      Flag{Kind: FlagOkay},
		Narration: narration,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func WithFlag(f Flag) TransactionOption {
	return func(t *Transaction) { t.Flag = f }
}

func WithPayee(payee string) TransactionOption {
	return func(t *Transaction) { t.Payee = &payee }
}

func WithTags(tags ...Tag) TransactionOption {
	return func(t *Transaction) { t.Tags = append(t.Tags, tags...) }
}

func WithLinks(links ...Link) TransactionOption {
	return func(t *Transaction) { t.Links = append(t.Links, links...) }
}

func WithTransactionMetadata(meta ...MetadataEntry) TransactionOption {
	return func(t *Transaction) { t.Meta = append(t.Meta, meta...) }
}

func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) { t.Postings = postings }
}

// PostingOption configures a Posting built with NewPosting.
type PostingOption func(*Posting)

// NewPosting builds a Posting with no amount, cost, price, or flag by
// default.
func NewPosting(account Account, opts ...PostingOption) *Posting {
	p := &Posting{Account: account}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithUnits(amount Amount) PostingOption {
	return func(p *Posting) {
		n, c := amount.Number, amount.Currency
		p.Units = IncompleteAmount{Number: &n, Currency: &c}
	}
}

func WithCost(cost *CostSpec) PostingOption {
	return func(p *Posting) { p.Cost = cost }
}

func WithPrice(price *PriceSpec) PostingOption {
	return func(p *Posting) { p.Price = price }
}

func WithPostingFlag(f Flag) PostingOption {
	return func(p *Posting) { p.Flag = &f }
}

func WithPostingMetadata(meta ...MetadataEntry) PostingOption {
	return func(p *Posting) { p.Meta = append(p.Meta, meta...) }
}

// NewOpen builds an Open directive. BookingStrict is the zero value and
// matches the grammar's default when no booking-method string is present.
func NewOpen(date Date, account Account, constraintCurrencies []string, booking BookingMethod) *Open {
	return &Open{
		base:                 base{Date: date},
		Account:              account,
		ConstraintCurrencies: constraintCurrencies,
		Booking:              booking,
	}
}

func NewClose(date Date, account Account) *Close {
	return &Close{base: base{Date: date}, Account: account}
}

func NewBalance(date Date, account Account, amount Amount) *Balance {
	return &Balance{base: base{Date: date}, Account: account, Amount: amount}
}

func NewPad(date Date, account, accountPad Account) *Pad {
	return &Pad{base: base{Date: date}, Account: account, AccountPad: accountPad}
}

func NewNote(date Date, account Account, comment string) *Note {
	return &Note{base: base{Date: date}, Account: account, Comment: comment}
}

func NewDocument(date Date, account Account, path string) *Document {
	return &Document{base: base{Date: date}, Account: account, Path: path}
}

func NewCommodity(date Date, currency string) *Commodity {
	return &Commodity{base: base{Date: date}, Currency: currency}
}

func NewPrice(date Date, commodity string, amount Amount) *Price {
	return &Price{base: base{Date: date}, Commodity: commodity, Amount: amount}
}

func NewEvent(date Date, name, value string) *Event {
	return &Event{base: base{Date: date}, Name: name, Value: value}
}

func NewQuery(date Date, name, queryString string) *Query {
	return &Query{base: base{Date: date}, Name: name, QueryString: queryString}
}

func NewCustom(date Date, name string, args ...MetadataValue) *Custom {
	return &Custom{base: base{Date: date}, Name: name, Args: args}
}

func NewOption(name, value string) *Option {
	return &Option{Name: name, Value: value}
}

func NewPlugin(module string, config *string) *Plugin {
	return &Plugin{Module: module, Config: config}
}

func NewInclude(filename string) *Include {
	return &Include{Filename: filename}
}
