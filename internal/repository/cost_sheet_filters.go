package repository

import (
	"strings"
	"time"
)

// Period names the relative date windows the dashboard supports.
type Period string

const (
	PeriodLastMonth         Period = "last_month"
	PeriodLast3Months       Period = "last_3_months"
	PeriodLast6Months       Period = "last_6_months"
	PeriodLastYear          Period = "last_year"
	PeriodLastFinancialYear Period = "last_financial_year"
	PeriodCustom            Period = "custom"
)

// CostSheetFilters narrows dashboard and listing queries. Text filters are
// case-insensitive substring matches; all populated filters are combined
// with AND. The effective row date is the sheet date, falling back to the
// record creation time when no date was entered.
type CostSheetFilters struct {
	Status         string
	CustomerName   string
	ProjectName    string
	ProjectManager string
	SalesPerson    string
	SheetNumber    string
	LeadNumber     string

	Period      Period
	CustomStart *time.Time
	CustomEnd   *time.Time
}

// DateWindow resolves the filter period into an inclusive [start, end]
// window relative to ref. ok is false when no date constraint applies.
//
// Relative windows always cover whole past months or years: "last month"
// is the previous calendar month, "last 3/6 months" end on the last day
// of the previous month, and the financial year runs April through March.
func (f *CostSheetFilters) DateWindow(ref time.Time) (start, end time.Time, ok bool) {
	loc := ref.Location()
	firstOfThisMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)

	switch Period(strings.ToLower(string(f.Period))) {
	case PeriodLastMonth:
		start = firstOfThisMonth.AddDate(0, -1, 0)
		end = endOfDay(firstOfThisMonth.AddDate(0, 0, -1))
		return start, end, true

	case PeriodLast3Months:
		start = firstOfThisMonth.AddDate(0, -3, 0)
		end = endOfDay(firstOfThisMonth.AddDate(0, 0, -1))
		return start, end, true

	case PeriodLast6Months:
		start = firstOfThisMonth.AddDate(0, -6, 0)
		end = endOfDay(firstOfThisMonth.AddDate(0, 0, -1))
		return start, end, true

	case PeriodLastYear:
		start = time.Date(ref.Year()-1, time.January, 1, 0, 0, 0, 0, loc)
		end = endOfDay(time.Date(ref.Year()-1, time.December, 31, 0, 0, 0, 0, loc))
		return start, end, true

	case PeriodLastFinancialYear:
		fyStartYear := ref.Year()
		if ref.Month() < time.April {
			fyStartYear--
		}
		currentFYStart := time.Date(fyStartYear, time.April, 1, 0, 0, 0, 0, loc)
		start = currentFYStart.AddDate(-1, 0, 0)
		end = endOfDay(currentFYStart.AddDate(0, 0, -1))
		return start, end, true

	case PeriodCustom:
		if f.CustomStart == nil && f.CustomEnd == nil {
			return time.Time{}, time.Time{}, false
		}
		if f.CustomStart != nil {
			start = *f.CustomStart
		} else {
			start = time.Date(1, time.January, 1, 0, 0, 0, 0, loc)
		}
		if f.CustomEnd != nil {
			end = endOfDay(*f.CustomEnd)
		} else {
			end = endOfDay(ref)
		}
		return start, end, true
	}

	return time.Time{}, time.Time{}, false
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
