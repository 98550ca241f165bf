package pricing_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/pricing"
)

func amt(s string) domain.Amount {
	return domain.NewAmount(s)
}

func TestPriceRow_License(t *testing.T) {
	line, ok := pricing.PriceRow(domain.CostSheetItemInput{
		Name:        "Platform licenses",
		Category:    "LICENSE",
		Description: "Annual platform seats",
		Rate:        amt("100"),
		Quantity:    amt("2"),
		MarginPct:   amt("10"),
	})
	require.True(t, ok)

	assert.True(t, line.Cost.Equal(amt("200")), "cost = %s", line.Cost)
	assert.True(t, line.MarginAmount.Equal(amt("20")), "margin = %s", line.MarginAmount)
	assert.True(t, line.Price.Equal(amt("220")), "price = %s", line.Price)
}

func TestPriceRow_Implementation(t *testing.T) {
	line, ok := pricing.PriceRow(domain.CostSheetItemInput{
		Name:        "Rollout",
		Category:    "IMPLEMENTATION",
		Description: "Phase one rollout",
		Resources:   amt("3"),
		Days:        amt("5"),
		RatePerDay:  amt("50"),
		MarginPct:   amt("20"),
	})
	require.True(t, ok)

	assert.True(t, line.TotalDays.Equal(amt("15")))
	assert.True(t, line.Cost.Equal(amt("750")))
	assert.True(t, line.MarginAmount.Equal(amt("150")))
	assert.True(t, line.Price.Equal(amt("900")))
}

func TestPriceRow_SupportUsesEffortFormula(t *testing.T) {
	line, ok := pricing.PriceRow(domain.CostSheetItemInput{
		Name:        "L2 support",
		Category:    "SUPPORT",
		Description: "Year one support",
		Resources:   amt("2"),
		Days:        amt("10"),
		RatePerDay:  amt("40"),
		MarginPct:   amt("25"),
	})
	require.True(t, ok)

	assert.True(t, line.TotalDays.Equal(amt("20")))
	assert.True(t, line.Cost.Equal(amt("800")))
	assert.True(t, line.MarginAmount.Equal(amt("200")))
	assert.True(t, line.Price.Equal(amt("1000")))
}

func TestPriceRow_Infrastructure(t *testing.T) {
	line, ok := pricing.PriceRow(domain.CostSheetItemInput{
		Name:         "Cloud hosting",
		Category:     "INFRASTRUCTURE",
		Description:  "Production environment",
		Quantity:     amt("2"),
		Months:       amt("12"),
		RatePerMonth: amt("30"),
		MarginPct:    amt("10"),
	})
	require.True(t, ok)

	assert.True(t, line.Cost.Equal(amt("720")))
	assert.True(t, line.Price.Equal(amt("792")))
}

func TestPriceRow_OtherFlatCost(t *testing.T) {
	line, ok := pricing.PriceRow(domain.CostSheetItemInput{
		Name:        "Travel",
		Category:    "OTHER",
		Description: "On-site visits",
		FlatCost:    amt("500"),
		MarginPct:   amt("0"),
	})
	require.True(t, ok)

	assert.True(t, line.Cost.Equal(amt("500")))
	assert.True(t, line.MarginAmount.IsZero())
	assert.True(t, line.Price.Equal(amt("500")))
}

func TestPriceRow_UnknownCategoryRejected(t *testing.T) {
	_, ok := pricing.PriceRow(domain.CostSheetItemInput{
		Name:        "Mystery",
		Category:    "HARDWARE",
		Description: "Not a known bucket",
	})
	assert.False(t, ok)
}

func TestCleanRows_KeysOnIdentifyingField(t *testing.T) {
	rows := []domain.CostSheetItemInput{
		// License and infra rows are identified by name; the description
		// and every numeric field may be blank.
		{Name: "Named license", Category: "LICENSE", Description: ""},
		{Name: "Named infra", Category: "INFRASTRUCTURE"},
		{Name: "", Category: "LICENSE", Description: "missing name"},
		{Name: "", Category: "INFRASTRUCTURE", Rate: amt("999")},
		// Effort rows are identified by their category label.
		{Name: "", Category: "SUPPORT", Description: ""},
		// Other-cost rows are identified by description.
		{Name: "", Category: "OTHER", Description: "travel"},
		{Name: "Unnamed other", Category: "OTHER", Description: "   "},
		// Rows without a routable category are always dropped.
		{Name: "No category", Category: "", Description: "missing category"},
		{Name: "Bad category", Category: "UNKNOWN", Description: "unrecognized"},
	}

	kept := pricing.CleanRows(rows)
	require.Len(t, kept, 4)
	assert.Equal(t, "Named license", kept[0].Name)
	assert.Equal(t, "Named infra", kept[1].Name)
	assert.Equal(t, "SUPPORT", kept[2].Category)
	assert.Equal(t, "travel", kept[3].Description)
}

func TestPriceRows_Totals(t *testing.T) {
	rows := []domain.CostSheetItemInput{
		{
			Name: "Licenses", Category: "LICENSE", Description: "seats",
			Rate: amt("100"), Quantity: amt("2"), MarginPct: amt("10"),
		},
		{
			Name: "Rollout", Category: "IMPLEMENTATION", Description: "phase one",
			Resources: amt("3"), Days: amt("5"), RatePerDay: amt("50"), MarginPct: amt("20"),
		},
	}

	lines, totals := pricing.PriceRows(rows)
	require.Len(t, lines, 2)

	assert.True(t, totals.Cost.Equal(amt("950")), "cost = %s", totals.Cost)
	assert.True(t, totals.Margin.Equal(amt("170")), "margin = %s", totals.Margin)
	assert.True(t, totals.Price.Equal(amt("1120")), "price = %s", totals.Price)
	// 170/950*100
	assert.Equal(t, "17.89", totals.MarginPct.Decimal.Round(2).String())
}

func TestPriceRows_ZeroCostSheetHasZeroMarginPct(t *testing.T) {
	rows := []domain.CostSheetItemInput{
		{Name: "Freebie", Category: "OTHER", Description: "no cost", FlatCost: amt("0"), MarginPct: amt("50")},
	}

	_, totals := pricing.PriceRows(rows)
	assert.True(t, totals.Cost.IsZero())
	assert.True(t, totals.MarginPct.IsZero())
}

func TestAmount_UnmarshalCoercesGarbageToZero(t *testing.T) {
	var in domain.CostSheetItemInput
	payload := []byte(`{"name":"x","category":"LICENSE","description":"y","rate":"abc","quantity":"2","marginPct":null}`)
	require.NoError(t, json.Unmarshal(payload, &in))

	assert.True(t, in.Rate.IsZero())
	assert.True(t, in.Quantity.Equal(amt("2")))
	assert.True(t, in.MarginPct.IsZero())
}
