// Package ast declares the types used to represent a parsed Beancount ledger.
//
// A Ledger is an ordered sequence of Directives, each a tagged variant
// carrying the exact source substring it was parsed from. The package is
// intentionally free of any parsing or rendering logic; it is the shared
// vocabulary between the parser and render packages.
package ast

import "golang.org/x/exp/slices"

// DirectiveKind discriminates the Directive variants.
type DirectiveKind int

const (
	KindOpen DirectiveKind = iota
	KindClose
	KindBalance
	KindCommodity
	KindPrice
	KindPad
	KindNote
	KindDocument
	KindEvent
	KindQuery
	KindCustom
	KindTransaction
	KindOption
	KindPlugin
	KindInclude
	KindUnsupported
)

func (k DirectiveKind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindClose:
		return "close"
	case KindBalance:
		return "balance"
	case KindCommodity:
		return "commodity"
	case KindPrice:
		return "price"
	case KindPad:
		return "pad"
	case KindNote:
		return "note"
	case KindDocument:
		return "document"
	case KindEvent:
		return "event"
	case KindQuery:
		return "query"
	case KindCustom:
		return "custom"
	case KindTransaction:
		return "transaction"
	case KindOption:
		return "option"
	case KindPlugin:
		return "plugin"
	case KindInclude:
		return "include"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Directive is the interface implemented by every directive variant. Every
// variant carries its Position and the exact Source substring the parser
// consumed to produce it (data-model invariant 5); most additionally carry
// a date and metadata, reachable via the Dated and WithMetadata interfaces
// below when applicable.
type Directive interface {
	Kind() DirectiveKind
	Position() Position
	Source() string
}

// Dated is implemented by every Directive variant except Option, Plugin,
// Include, and Unsupported, which the grammar does not date.
type Dated interface {
	GetDate() Date
}

// WithMetadata is implemented by every Directive variant that can carry a
// metadata map — every variant except Option, Plugin, Include, and
// Unsupported.
type WithMetadata interface {
	GetMetadata() Metadata
}

// base embeds the fields common to every dated, metadata-bearing directive.
type base struct {
	Pos  Position
	Src  string
	Date Date
	Meta Metadata
}

func (b base) Position() Position    { return b.Pos }
func (b base) Source() string        { return b.Src }
func (b base) GetDate() Date         { return b.Date }
func (b base) GetMetadata() Metadata { return b.Meta }

// SetPosition, SetSource, SetDate, and SetMetadata let the parser package
// finish populating a directive after constructing it, since base's fields
// are not nameable outside this package (base itself is unexported so that
// callers can't embed it directly and must go through Directive/Dated/
// WithMetadata instead).
func (b *base) SetPosition(pos Position) { b.Pos = pos }
func (b *base) SetSource(src string)     { b.Src = src }
func (b *base) SetDate(d Date)           { b.Date = d }
func (b *base) SetMetadata(m Metadata)   { b.Meta = m }

// Ledger is a parsed Beancount file: an ordered sequence of directives in
// exactly the order they were encountered in the source. Unlike the
// official Python implementation, directives are never re-sorted by date —
// the tag-stack and root-renaming invariants this project enforces (§4.4,
// §4.5 semantics) are stated over parse order, and a renderer that must
// reproduce a fixpoint under parse cannot silently reorder its input.
type Ledger struct {
	Directives []Directive
}

// Summary reports the distinct account and currency strings referenced
// anywhere in the ledger, sorted for deterministic display. It exists for
// the CLI's debug dump, not for any parsing or rendering concern.
func (l *Ledger) Summary() (accounts []string, currencies []string) {
	accountSet := make(map[string]struct{})
	currencySet := make(map[string]struct{})

	addAccount := func(a Account) {
		accountSet[a.String()] = struct{}{}
	}
	addCurrency := func(c string) {
		if c != "" {
			currencySet[c] = struct{}{}
		}
	}

	for _, d := range l.Directives {
		switch v := d.(type) {
		case *Open:
			addAccount(v.Account)
			for _, c := range v.ConstraintCurrencies {
				addCurrency(c)
			}
		case *Close:
			addAccount(v.Account)
		case *Balance:
			addAccount(v.Account)
			addCurrency(v.Amount.Currency)
		case *Commodity:
			addCurrency(v.Currency)
		case *Price:
			addCurrency(v.Commodity)
			addCurrency(v.Amount.Currency)
		case *Pad:
			addAccount(v.Account)
			addAccount(v.AccountPad)
		case *Note:
			addAccount(v.Account)
		case *Document:
			addAccount(v.Account)
		case *Transaction:
			for _, p := range v.Postings {
				addAccount(p.Account)
				if p.Units.Currency != nil {
					addCurrency(*p.Units.Currency)
				}
			}
		}
	}

	accounts = make([]string, 0, len(accountSet))
	for a := range accountSet {
		accounts = append(accounts, a)
	}
	currencies = make([]string, 0, len(currencySet))
	for c := range currencySet {
		currencies = append(currencies, c)
	}
	slices.Sort(accounts)
	slices.Sort(currencies)
	return accounts, currencies
}
