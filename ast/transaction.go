package ast

// Transaction records a double-entry financial event: a date, a flag, an
// optional payee, a narration, a tag and link set, and an ordered list of
// postings. Tags carries both tags written directly on the header line and
// every tag active on the tag stack (§4.5) at the time the transaction was
// parsed, unioned together.
//
// Example:
//
//	2014-05-05 * "Cafe Mogador" "Lamb tagine with wine"
//	  Liabilities:CreditCard:CapitalOne         -37.45 USD
//	  Expenses:Food:Restaurant
type Transaction struct {
	base
	Flag      Flag
	Payee     *string
	Narration string
	Tags      []Tag
	Links     []Link
	Postings  []*Posting
}

var _ Directive = (*Transaction)(nil)

func (t *Transaction) Kind() DirectiveKind { return KindTransaction }

// Posting is a single leg of a Transaction: an account together with an
// optionally incomplete amount, an optional cost specification, and an
// optional price annotation. Units may be entirely absent, letting a
// downstream balancing layer infer it — balancing itself is out of scope
// here.
//
// Example:
//
//	Assets:Investments:Brokerage    10 HOOL {518.73 USD}
//	Assets:Investments:Cash        200 EUR @ 1.35 USD
//	Assets:Checking
type Posting struct {
	Pos     Position
	Src     string
	Flag    *Flag
	Account Account
	Units   IncompleteAmount
	Cost    *CostSpec
	Price   *PriceSpec
	Meta    Metadata
}

func (p *Posting) Position() Position    { return p.Pos }
func (p *Posting) Source() string        { return p.Src }
func (p *Posting) GetMetadata() Metadata { return p.Meta }
