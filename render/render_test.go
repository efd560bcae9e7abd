package render

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ledgertext/beancount/ast"
	"github.com/ledgertext/beancount/parser"
)

func mustDate(t *testing.T, s string) ast.Date {
	t.Helper()
	d, err := ast.NewDate(s)
	assert.NoError(t, err)
	return d
}

func TestRenderOpen(t *testing.T) {
	account, err := ast.NewAccount(ast.Assets, "Checking")
	assert.NoError(t, err)

	open := ast.NewOpen(mustDate(t, "2014-05-01"), account, []string{"USD"}, ast.BookingStrict)
	ledger := &ast.Ledger{Directives: []ast.Directive{open}}

	got, err := String(ledger)
	assert.NoError(t, err)
	assert.Equal(t, "2014-05-01 open Assets:Checking USD\n", got)
}

func TestRenderOpenWithNonDefaultBooking(t *testing.T) {
	account, err := ast.NewAccount(ast.Assets, "Investments", "Brokerage")
	assert.NoError(t, err)

	open := ast.NewOpen(mustDate(t, "2014-05-01"), account, nil, ast.BookingFifo)
	ledger := &ast.Ledger{Directives: []ast.Directive{open}}

	got, err := String(ledger)
	assert.NoError(t, err)
	assert.Equal(t, "2014-05-01 open Assets:Investments:Brokerage \"fifo\"\n", got)
}

func TestRenderClose(t *testing.T) {
	account, err := ast.NewAccount(ast.Assets, "Checking")
	assert.NoError(t, err)

	close := ast.NewClose(mustDate(t, "2024-03-31"), account)
	ledger := &ast.Ledger{Directives: []ast.Directive{close}}

	got, err := String(ledger)
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-31 close Assets:Checking\n", got)
}

func TestRenderBalanceWithTolerance(t *testing.T) {
	account, err := ast.NewAccount(ast.Assets, "Checking")
	assert.NoError(t, err)

	balance := ast.NewBalance(mustDate(t, "2024-03-01"), account, ast.NewAmount("945.68", "USD"))
	tolerance := ast.NewAmount("0.01", "USD").Number
	balance.Tolerance = &tolerance
	ledger := &ast.Ledger{Directives: []ast.Directive{balance}}

	got, err := String(ledger)
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01 balance Assets:Checking\t945.68 ~ 0.01 USD\n", got)
}

func TestRenderOptionAffectsSubsequentAccountRoot(t *testing.T) {
	option := ast.NewOption("name_assets", "Activa")
	account, err := ast.NewAccount(ast.Assets, "Checking")
	assert.NoError(t, err)

	open := ast.NewOpen(mustDate(t, "2024-01-01"), account, nil, ast.BookingStrict)
	ledger := &ast.Ledger{Directives: []ast.Directive{option, open}}

	got, err := String(ledger)
	assert.NoError(t, err)
	assert.Equal(t, "option \"name_assets\" \"Activa\"\n2024-01-01 open Activa:Checking\n", got)
}

func TestRenderIncludeAndPlugin(t *testing.T) {
	include := ast.NewInclude("extra.beancount")
	config := "strict"
	plugin := ast.NewPlugin("beancount.plugins.implicit_prices", &config)
	ledger := &ast.Ledger{Directives: []ast.Directive{include, plugin}}

	got, err := String(ledger)
	assert.NoError(t, err)
	assert.Equal(t, "include \"extra.beancount\"\nplugin \"beancount.plugins.implicit_prices\" \"strict\"\n", got)
}

func TestRenderTransactionWithCostAndPrice(t *testing.T) {
	checking, err := ast.NewAccount(ast.Assets, "Checking")
	assert.NoError(t, err)
	brokerage, err := ast.NewAccount(ast.Assets, "Investments", "Brokerage")
	assert.NoError(t, err)

	number := ast.NewAmount("10", "HOOL").Number
	costAmount := ast.NewAmount("518.73", "USD").Number
	posting := ast.NewPosting(brokerage,
		ast.WithUnits(ast.Amount{Number: number, Currency: "HOOL"}),
		ast.WithCost(&ast.CostSpec{NumberPer: &costAmount, Currency: strPtr("USD")}),
	)
	offset := ast.NewPosting(checking, ast.WithUnits(ast.NewAmount("-5187.30", "USD")))

	txn := ast.NewTransaction(mustDate(t, "2014-05-05"), "Buy HOOL",
		ast.WithFlag(ast.NewFlag('*')),
		ast.WithPayee("Broker"),
		ast.WithPostings(posting, offset),
	)
	ledger := &ast.Ledger{Directives: []ast.Directive{txn}}

	got, err := String(ledger)
	assert.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`2014-05-05 * "Broker" "Buy HOOL"`,
		"\tAssets:Investments:Brokerage\t10 HOOL {518.73 USD}",
		"\tAssets:Checking\t-5187.3 USD",
		"",
	}, "\n"), got)
}

func TestRenderTransactionWithTagsLinksAndMetadata(t *testing.T) {
	checking, err := ast.NewAccount(ast.Assets, "Checking")
	assert.NoError(t, err)
	groceries, err := ast.NewAccount(ast.Expenses, "Groceries")
	assert.NoError(t, err)

	posting := ast.NewPosting(groceries, ast.WithUnits(ast.NewAmount("54.32", "USD")))
	offset := ast.NewPosting(checking, ast.WithUnits(ast.NewAmount("-54.32", "USD")))

	txn := ast.NewTransaction(mustDate(t, "2024-01-15"), "Weekly shopping",
		ast.WithFlag(ast.NewFlag('*')),
		ast.WithPayee("Grocery Store"),
		ast.WithTags(ast.NewTag("food")),
		ast.WithLinks(ast.NewLink("receipt-88")),
		ast.WithTransactionMetadata(ast.MetadataEntry{Key: "category", Value: ast.MetadataValue{Kind: ast.MetaText, Text: "food"}}),
		ast.WithPostings(posting, offset),
	)
	ledger := &ast.Ledger{Directives: []ast.Directive{txn}}

	got, err := String(ledger)
	assert.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`2024-01-15 * "Grocery Store" "Weekly shopping" #food ^receipt-88`,
		"\tExpenses:Groceries\t54.32 USD",
		"\tAssets:Checking\t-54.32 USD",
		"\tcategory: \"food\"",
		"",
	}, "\n"), got)
}

func TestRenderUnsupportedDirectiveErrors(t *testing.T) {
	ledger := &ast.Ledger{Directives: []ast.Directive{&ast.Unsupported{Label: "pushmeta"}}}

	_, err := String(ledger)
	assert.Error(t, err)

	renderErr, ok := err.(*RenderError)
	assert.True(t, ok)
	assert.Contains(t, renderErr.Message, "pushmeta")
}

// TestRoundTripFixpoint re-parses a rendered ledger and renders it again,
// asserting the second pass produces byte-identical output to the first.
func TestRoundTripFixpoint(t *testing.T) {
	source := strings.Join([]string{
		`option "title" "Example"`,
		"2024-01-01 open Assets:Checking USD",
		"2024-01-01 open Expenses:Groceries USD",
		`2024-01-15 * "Grocery Store" "Weekly shopping" #food ^receipt-88`,
		"\tAssets:Checking\t-54.32 USD",
		"\tExpenses:Groceries\t54.32 USD",
		"\t\tcategory: \"food\"",
		"2024-02-01 balance Assets:Checking\t-54.32 USD",
		"",
	}, "\n")

	ledger, err := parser.ParseString(context.Background(), source)
	assert.NoError(t, err)

	first, err := String(ledger)
	assert.NoError(t, err)

	reparsed, err := parser.ParseString(context.Background(), first)
	assert.NoError(t, err)

	second, err := String(reparsed)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func strPtr(s string) *string { return &s }
