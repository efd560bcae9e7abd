package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestAccountString(t *testing.T) {
	a := Account{Type: Assets, Parts: []string{"US", "BofA", "Checking"}}
	assert.Equal(t, "Assets:US:BofA:Checking", a.String())
}

func TestAccountTypeFromRoot(t *testing.T) {
	typ, ok := AccountTypeFromRoot("Assets", nil)
	assert.True(t, ok)
	assert.Equal(t, Assets, typ)

	_, ok = AccountTypeFromRoot("Aktiver", nil)
	assert.False(t, ok)

	renamed := map[AccountType]string{Assets: "Aktiver"}
	typ, ok = AccountTypeFromRoot("Aktiver", renamed)
	assert.True(t, ok)
	assert.Equal(t, Assets, typ)

	_, ok = AccountTypeFromRoot("Assets", renamed)
	assert.False(t, ok)
}

func TestValidateSegment(t *testing.T) {
	assert.True(t, ValidateSegment("BofA"))
	assert.True(t, ValidateSegment("401k"))
	assert.False(t, ValidateSegment("bofa"))
	assert.False(t, ValidateSegment(""))
	assert.False(t, ValidateSegment("Bo Fa"))
}

func TestCostSpecIsEmpty(t *testing.T) {
	var c CostSpec
	assert.True(t, c.IsEmpty())

	n := decimal.NewFromInt(5)
	c2 := CostSpec{NumberPer: &n}
	assert.False(t, c2.IsEmpty())

	c3 := CostSpec{Merge: true}
	assert.False(t, c3.IsEmpty())
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "*", Flag{Kind: FlagOkay}.String())
	assert.Equal(t, "!", Flag{Kind: FlagWarning}.String())
	assert.Equal(t, "P", NewFlag('P').String())
}

func TestMetadataValueString(t *testing.T) {
	assert.Equal(t, "hello", MetadataValue{Kind: MetaText, Text: "hello"}.String())
	assert.Equal(t, "TRUE", MetadataValue{Kind: MetaBool, Bool: true}.String())
	assert.Equal(t, "#vacation", MetadataValue{Kind: MetaTag, Tag: Tag("vacation")}.String())
}

func TestMetadataGetReturnsFirstMatch(t *testing.T) {
	m := Metadata{
		{Key: "invoice", Value: MetadataValue{Kind: MetaText, Text: "first"}},
		{Key: "invoice", Value: MetadataValue{Kind: MetaText, Text: "second"}},
	}
	v, ok := m.Get("invoice")
	assert.True(t, ok)
	assert.Equal(t, "first", v.Text)
	assert.Equal(t, 2, len(m))
}

func TestDateRoundTrip(t *testing.T) {
	d, err := NewDate("2014-05-01")
	assert.NoError(t, err)
	assert.Equal(t, "2014-05-01", d.String())
	assert.False(t, d.IsZero())

	var zero Date
	assert.True(t, zero.IsZero())

	_, err = NewDate("2014-13-01")
	assert.Error(t, err)
}
