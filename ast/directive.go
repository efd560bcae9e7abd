package ast

import "github.com/shopspring/decimal"

// Open declares the opening of an account at a specific date, marking the
// beginning of its lifetime in the ledger. An optional list of currencies
// constrains which commodities the account may hold, and an optional
// booking method governs lot matching on disposal.
//
// Example:
//
//	2014-05-01 open Assets:US:BofA:Checking USD
//	2014-05-01 open Assets:Investments:Brokerage USD,EUR "FIFO"
type Open struct {
	base
	Account              Account
	ConstraintCurrencies []string
	Booking              BookingMethod
}

var _ Directive = (*Open)(nil)

func (o *Open) Kind() DirectiveKind { return KindOpen }

// Close declares the closing of an account at a specific date.
//
// Example:
//
//	2015-09-23 close Assets:US:BofA:Checking
type Close struct {
	base
	Account Account
}

var _ Directive = (*Close)(nil)

func (c *Close) Kind() DirectiveKind { return KindClose }

// Balance asserts that an account holds a specific amount at the start of
// the given date. Tolerance, when present, widens the assertion window by
// that non-negative amount.
//
// Example:
//
//	2014-08-09 balance Assets:US:BofA:Checking 562.00 USD
//	2014-08-09 balance Assets:Cash 562.00 ~ 0.002 USD
type Balance struct {
	base
	Account   Account
	Amount    Amount
	Tolerance *decimal.Decimal
}

var _ Directive = (*Balance)(nil)

func (b *Balance) Kind() DirectiveKind { return KindBalance }

// Commodity declares a commodity or currency that can be used in the
// ledger.
//
// Example:
//
//	2014-01-01 commodity USD
//	  name: "US Dollar"
type Commodity struct {
	base
	Currency string
}

var _ Directive = (*Commodity)(nil)

func (c *Commodity) Kind() DirectiveKind { return KindCommodity }

// Price declares the price of a commodity in terms of another currency at
// a specific date.
//
// Example:
//
//	2014-07-09 price USD 1.08 CAD
type Price struct {
	base
	Commodity string
	Amount    Amount
}

var _ Directive = (*Price)(nil)

func (p *Price) Kind() DirectiveKind { return KindPrice }

// Pad automatically inserts a transaction bringing an account to the
// balance asserted by the next Balance directive, posted against
// AccountPad.
//
// Example:
//
//	2014-01-01 pad Assets:US:BofA:Checking Equity:Opening-Balances
type Pad struct {
	base
	Account    Account
	AccountPad Account
}

var _ Directive = (*Pad)(nil)

func (p *Pad) Kind() DirectiveKind { return KindPad }

// Note attaches a dated comment to an account.
//
// Example:
//
//	2014-07-09 note Assets:US:BofA:Checking "Called bank about pending direct deposit"
type Note struct {
	base
	Account Account
	Comment string
}

var _ Directive = (*Note)(nil)

func (n *Note) Kind() DirectiveKind { return KindNote }

// Document associates an external file with an account at a specific
// date. Trailing tags and links annotate the document itself, mirroring
// the grammar's transaction-style annotations on this directive.
//
// Example:
//
//	2014-07-09 document Assets:US:BofA:Checking "/documents/2014-07.pdf"
type Document struct {
	base
	Account Account
	Path    string
	Tags    []Tag
	Links   []Link
}

var _ Directive = (*Document)(nil)

func (d *Document) Kind() DirectiveKind { return KindDocument }

// Event records a named event's value as of a specific date.
//
// Example:
//
//	2014-07-09 event "location" "New York, USA"
type Event struct {
	base
	Name  string
	Value string
}

var _ Directive = (*Event)(nil)

func (e *Event) Kind() DirectiveKind { return KindEvent }

// Query registers a named query string for later execution by a
// downstream reporting layer. The query is never executed here.
//
// Example:
//
//	2014-07-09 query "cash-flow" "SELECT account, sum(position) ..."
type Query struct {
	base
	Name        string
	QueryString string
}

var _ Directive = (*Query)(nil)

func (q *Query) Kind() DirectiveKind { return KindQuery }

// Custom is an open-ended directive for plugin-defined data: a name
// followed by an ordered sequence of typed arguments reusing the
// metadata-value grammar (strings, accounts, dates, currencies, tags,
// booleans, amounts, or bare numbers).
//
// Example:
//
//	2014-07-09 custom "budget" "groceries" 45.30 USD TRUE
type Custom struct {
	base
	Name string
	Args []MetadataValue
}

var _ Directive = (*Custom)(nil)

func (c *Custom) Kind() DirectiveKind { return KindCustom }

// Option sets a configuration parameter that affects the parsing of
// subsequent directives, most notably root-account renaming (see
// the unexported parseState in the parser package). Option carries no date and no
// metadata, unlike the other directive variants.
//
// Example:
//
//	option "name_assets" "Aktiver"
//	option "title" "Personal Ledger"
type Option struct {
	Pos   Position
	Src   string
	Name  string
	Value string
}

var _ Directive = (*Option)(nil)

func (o *Option) Kind() DirectiveKind { return KindOption }
func (o *Option) Position() Position  { return o.Pos }
func (o *Option) Source() string      { return o.Src }

// Plugin records a processing-plugin reference and its optional config
// string. Plugins are recorded, never invoked.
//
// Example:
//
//	plugin "beancount.plugins.auto_accounts"
//	plugin "beancount.plugins.check_commodity" "USD,EUR"
type Plugin struct {
	Pos    Position
	Src    string
	Module string
	Config *string
}

var _ Directive = (*Plugin)(nil)

func (p *Plugin) Kind() DirectiveKind { return KindPlugin }
func (p *Plugin) Position() Position  { return p.Pos }
func (p *Plugin) Source() string      { return p.Src }

// Include records the filename of another Beancount file referenced for
// inclusion. The file is never read or followed.
//
// Example:
//
//	include "accounts.beancount"
type Include struct {
	Pos      Position
	Src      string
	Filename string
}

var _ Directive = (*Include)(nil)

func (i *Include) Kind() DirectiveKind { return KindInclude }
func (i *Include) Position() Position  { return i.Pos }
func (i *Include) Source() string      { return i.Src }

// Unsupported represents a grammar production the tree constructor
// deliberately declines to build IR for. The constructor never actually
// produces one — every recognized production has a constructor — but the
// type exists so the render contract's documented failure on Unsupported
// (§4.7) is observable against a hand-built IR.
type Unsupported struct {
	Pos   Position
	Src   string
	Label string
}

var _ Directive = (*Unsupported)(nil)

func (u *Unsupported) Kind() DirectiveKind { return KindUnsupported }
func (u *Unsupported) Position() Position  { return u.Pos }
func (u *Unsupported) Source() string      { return u.Src }
