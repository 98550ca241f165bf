// Package pricing implements the cost sheet pricing rules: per-category
// cost formulas, margin application and sheet totals. All arithmetic is
// decimal so repeated recalculation of the same sheet is stable.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

// Category identifies the pricing formula applied to a line item.
type Category string

const (
	CategoryLicense        Category = "LICENSE"
	CategoryImplementation Category = "IMPLEMENTATION"
	CategorySupport        Category = "SUPPORT"
	CategoryInfra          Category = "INFRASTRUCTURE"
	CategoryOther          Category = "OTHER"
)

var hundred = decimal.NewFromInt(100)

// NormalizeCategory maps client-supplied category labels onto a known
// Category. Unrecognized labels return ok=false.
func NormalizeCategory(s string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LICENSE", "LICENSES", "LICENSE_COST":
		return CategoryLicense, true
	case "IMPLEMENTATION", "IMPL", "IMPLEMENTATION_COST":
		return CategoryImplementation, true
	case "SUPPORT", "SUPPORT_COST":
		return CategorySupport, true
	case "INFRASTRUCTURE", "INFRA", "INFRA_COST":
		return CategoryInfra, true
	case "OTHER", "OTHERS", "OTHER_COST":
		return CategoryOther, true
	}
	return "", false
}

// Line is a priced line item.
type Line struct {
	Category    Category
	Name        string
	Description string

	Rate         domain.Amount
	Quantity     domain.Amount
	Resources    domain.Amount
	Days         domain.Amount
	RatePerDay   domain.Amount
	TotalDays    domain.Amount
	Months       domain.Amount
	RatePerMonth domain.Amount
	FlatCost     domain.Amount

	MarginPct    domain.Amount
	Cost         domain.Amount
	MarginAmount domain.Amount
	Price        domain.Amount
}

// Totals aggregates a priced sheet.
type Totals struct {
	Cost      domain.Amount
	Margin    domain.Amount
	Price     domain.Amount
	MarginPct domain.Amount
}

// CleanRows drops incomplete rows before pricing. Each category has one
// identifying text field: name for license and infrastructure rows,
// description for other-cost rows, and the category label itself for
// effort rows. A row whose identifying field is blank is dropped; all
// remaining fields may be empty or zero.
func CleanRows(rows []domain.CostSheetItemInput) []domain.CostSheetItemInput {
	kept := make([]domain.CostSheetItemInput, 0, len(rows))
	for _, r := range rows {
		cat, ok := NormalizeCategory(r.Category)
		if !ok {
			continue
		}
		switch cat {
		case CategoryLicense, CategoryInfra:
			if strings.TrimSpace(r.Name) == "" {
				continue
			}
		case CategoryOther:
			if strings.TrimSpace(r.Description) == "" {
				continue
			}
		}
		kept = append(kept, r)
	}
	return kept
}

// PriceRow applies the category cost formula and margin to one cleaned row.
func PriceRow(row domain.CostSheetItemInput) (Line, bool) {
	cat, ok := NormalizeCategory(row.Category)
	if !ok {
		return Line{}, false
	}

	line := Line{
		Category:     cat,
		Name:         strings.TrimSpace(row.Name),
		Description:  strings.TrimSpace(row.Description),
		Rate:         row.Rate,
		Quantity:     row.Quantity,
		Resources:    row.Resources,
		Days:         row.Days,
		RatePerDay:   row.RatePerDay,
		Months:       row.Months,
		RatePerMonth: row.RatePerMonth,
		FlatCost:     row.FlatCost,
		MarginPct:    row.MarginPct,
	}

	switch cat {
	case CategoryLicense:
		line.Cost = row.Rate.Mul(row.Quantity)
	case CategoryImplementation, CategorySupport:
		line.TotalDays = row.Resources.Mul(row.Days)
		line.Cost = line.TotalDays.Mul(row.RatePerDay)
	case CategoryInfra:
		line.Cost = row.Quantity.Mul(row.Months).Mul(row.RatePerMonth)
	case CategoryOther:
		line.Cost = row.FlatCost
	}

	line.MarginAmount = domain.AmountFromDecimal(
		line.Cost.Decimal.Mul(row.MarginPct.Decimal).Div(hundred))
	line.Price = line.Cost.Add(line.MarginAmount)
	return line, true
}

// PriceRows cleans, prices and totals a full item set.
func PriceRows(rows []domain.CostSheetItemInput) ([]Line, Totals) {
	cleaned := CleanRows(rows)
	lines := make([]Line, 0, len(cleaned))
	var totals Totals
	for _, r := range cleaned {
		line, ok := PriceRow(r)
		if !ok {
			continue
		}
		lines = append(lines, line)
		totals.Cost = totals.Cost.Add(line.Cost)
		totals.Margin = totals.Margin.Add(line.MarginAmount)
		totals.Price = totals.Price.Add(line.Price)
	}
	totals.MarginPct = OverallMarginPct(totals.Cost, totals.Margin)
	return lines, totals
}

// OverallMarginPct returns margin/cost*100, or zero when cost is not
// positive.
func OverallMarginPct(cost, margin domain.Amount) domain.Amount {
	if !cost.Decimal.IsPositive() {
		return domain.ZeroAmount
	}
	return domain.AmountFromDecimal(margin.Decimal.Mul(hundred).Div(cost.Decimal))
}
