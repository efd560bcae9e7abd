package ast

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the canonical category an Account belongs to, independent of
// whichever root name was in effect in the source text when it was parsed.
// Separating the type from the textual root is what lets root-account
// renaming (via `option "name_assets" "..."` and friends) apply uniformly
// without reparsing: the parser resolves the root segment against the root
// names active in its parse state, and the resulting type is then fixed.
type AccountType int

const (
	Assets AccountType = iota
	Liabilities
	Equity
	Income
	Expenses
)

// DefaultRootName returns the canonical English root name for the type,
// i.e. the name in effect before any `option "name_*"` directive.
func (t AccountType) DefaultRootName() string {
	switch t {
	case Assets:
		return "Assets"
	case Liabilities:
		return "Liabilities"
	case Equity:
		return "Equity"
	case Income:
		return "Income"
	case Expenses:
		return "Expenses"
	default:
		return "Unknown"
	}
}

func (t AccountType) String() string {
	return t.DefaultRootName()
}

// accountTypeByRoot maps a default root name back to its type, used by the
// parser when it encounters a root segment in source text.
var accountTypeByRoot = map[string]AccountType{
	"Assets":      Assets,
	"Liabilities": Liabilities,
	"Equity":      Equity,
	"Income":      Income,
	"Expenses":    Expenses,
}

// AccountTypeFromRoot resolves a root segment to its AccountType, considering
// both the five default root names and any renamed roots currently active.
func AccountTypeFromRoot(root string, renamed map[AccountType]string) (AccountType, bool) {
	for t, name := range renamed {
		if name == root {
			return t, true
		}
	}
	t, ok := accountTypeByRoot[root]
	if !ok {
		return 0, false
	}
	if newName, renamedAway := renamed[t]; renamedAway && newName != root {
		return 0, false
	}
	return t, true
}

// Account is a fully-resolved account reference: a canonical type plus the
// colon-separated segments following the root. The textual root used when
// rendering is looked up from the active root-name table, not stored here,
// so the same Account value renders correctly regardless of which `option`
// directives preceded it.
type Account struct {
	Type  AccountType
	Parts []string
}

// String renders the account using the default (un-renamed) root names.
// Renderers that track a live root-name table should not use this method;
// they build the string themselves from the active rename table instead.
func (a Account) String() string {
	return a.Type.DefaultRootName() + ":" + strings.Join(a.Parts, ":")
}

// ValidateSegment reports whether s is a legal non-root account segment:
// it must start with an uppercase letter or digit and contain only
// letters, digits, and hyphens thereafter.
func ValidateSegment(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if !((first >= 'A' && first <= 'Z') || (first >= '0' && first <= '9')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		ok := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-'
		if !ok {
			return false
		}
	}
	return true
}

// Amount is a fully-specified numeric quantity: a decimal value and its
// currency/commodity symbol. Never a float64 — decimal.Decimal throughout,
// per the numeric evaluator's no-binary-float invariant.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

func (a Amount) String() string {
	return a.Number.String() + " " + a.Currency
}

// IncompleteAmount allows either field to be elided, as in a posting whose
// amount is left for balancing to infer (`Assets:Cash USD` with no number,
// or a bare number with implied currency). Balancing itself is out of scope;
// this type exists purely so the IR can represent what the grammar allows.
type IncompleteAmount struct {
	Number   *decimal.Decimal
	Currency *string
}

func (a IncompleteAmount) String() string {
	var num, cur string
	if a.Number != nil {
		num = a.Number.String()
	}
	if a.Currency != nil {
		cur = *a.Currency
	}
	switch {
	case num != "" && cur != "":
		return num + " " + cur
	case num != "":
		return num
	default:
		return cur
	}
}

// CostSpec is a cost-basis specification attached to a posting with `{...}`
// or `{{...}}` syntax. A plain `{N CURRENCY}` sets only NumberPer; a plain
// `{{N CURRENCY}}` sets only NumberTotal, with the number carried raw,
// never divided by the posting's units. A compound amount `{P # T CURRENCY}`
// sets both at once (per-unit P reconciled against total T, e.g. to account
// for a fee) and is only legal inside `{...}`, never `{{...}}`. Merge
// selects `{*}` averaging semantics.
type CostSpec struct {
	NumberPer   *decimal.Decimal
	NumberTotal *decimal.Decimal
	Currency    *string
	Date        *Date
	Label       *string
	Merge       bool
}

// IsEmpty reports whether this is an empty cost spec `{}`, which selects
// any lot automatically.
func (c *CostSpec) IsEmpty() bool {
	return c != nil && !c.Merge && c.NumberPer == nil && c.NumberTotal == nil &&
		c.Currency == nil && c.Date == nil && c.Label == nil
}

// PriceKind distinguishes a per-unit price (`@`) from a total price (`@@`).
type PriceKind int

const (
	PricePerUnit PriceKind = iota
	PriceTotal
)

// PriceSpec is a price annotation attached to a posting. Total prices are
// kept exactly as written (never pre-divided into per-unit figures), since
// the un-evaluated total is the only form a renderer can losslessly emit
// back as `@@`.
type PriceSpec struct {
	Kind   PriceKind
	Amount IncompleteAmount
}

// FlagKind distinguishes the two semantically meaningful flags from the
// open set of single-letter flags the grammar otherwise accepts without
// attaching meaning to them.
type FlagKind int

const (
	FlagOkay FlagKind = iota
	FlagWarning
	FlagOther
)

// Flag is a transaction or posting flag: `*` (okay), `!` (warning), or any
// of the single-letter forecast/reconciliation flags (`P S T C U R M #`),
// which the grammar accepts but to which no semantics is attached.
type Flag struct {
	Kind  FlagKind
	Other byte // set only when Kind == FlagOther; the literal flag byte
}

func (f Flag) String() string {
	switch f.Kind {
	case FlagOkay:
		return "*"
	case FlagWarning:
		return "!"
	default:
		return string(f.Other)
	}
}

// NewFlag classifies a single flag byte.
func NewFlag(b byte) Flag {
	switch b {
	case '*':
		return Flag{Kind: FlagOkay}
	case '!':
		return Flag{Kind: FlagWarning}
	default:
		return Flag{Kind: FlagOther, Other: b}
	}
}

// Date wraps time.Time to an ISO-8601 calendar date, matching every
// directive's required dating.
type Date struct {
	time.Time
}

// NewDate parses a "YYYY-MM-DD" date.
func NewDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// Tag is a hashtag (without its leading `#`) attached to a transaction,
// either directly or via an enclosing pushtag/poptag scope.
type Tag string

// Link is a caret-prefixed cross-reference (without its leading `^`)
// connecting related transactions.
type Link string

// MetaValueKind discriminates the nine value types metadata can hold.
type MetaValueKind int

const (
	MetaText MetaValueKind = iota
	MetaDate
	MetaAccount
	MetaCurrency
	MetaTag
	MetaLink
	MetaNumber
	MetaAmount
	MetaBool
)

// MetadataValue is a tagged union over the nine metadata value types the
// grammar accepts. Exactly the field matching Kind is meaningful.
type MetadataValue struct {
	Kind     MetaValueKind
	Text     string
	Date     Date
	Account  Account
	Currency string
	Tag      Tag
	Link     Link
	Number   decimal.Decimal
	Amount   Amount
	Bool     bool
}

func (v MetadataValue) String() string {
	switch v.Kind {
	case MetaText:
		return v.Text
	case MetaDate:
		return v.Date.String()
	case MetaAccount:
		return v.Account.String()
	case MetaCurrency:
		return v.Currency
	case MetaTag:
		return "#" + string(v.Tag)
	case MetaLink:
		return "^" + string(v.Link)
	case MetaNumber:
		return v.Number.String()
	case MetaAmount:
		return v.Amount.String()
	case MetaBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// MetadataEntry is one key/value pair attached to a directive or posting.
// Metadata is an ordered slice, not a map: duplicate keys are legal (the
// grammar does not reject them) and insertion order must survive a
// render/parse round trip.
type MetadataEntry struct {
	Key   string
	Value MetadataValue
}

// Metadata is the ordered list of key/value pairs attached to a directive
// or posting.
type Metadata []MetadataEntry

// Get returns the value of the first entry with the given key, and whether
// any entry matched. Later duplicate entries are reachable only by
// iterating Metadata directly.
func (m Metadata) Get(key string) (MetadataValue, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return MetadataValue{}, false
}
