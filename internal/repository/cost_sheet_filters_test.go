package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateWindow_LastMonth(t *testing.T) {
	f := &repository.CostSheetFilters{Period: repository.PeriodLastMonth}

	start, end, ok := f.DateWindow(date(2024, time.February, 15))
	require.True(t, ok)
	assert.Equal(t, date(2024, time.January, 1), start)
	assert.Equal(t, 2024, end.Year())
	assert.Equal(t, time.January, end.Month())
	assert.Equal(t, 31, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestDateWindow_Last3Months(t *testing.T) {
	f := &repository.CostSheetFilters{Period: repository.PeriodLast3Months}

	start, end, ok := f.DateWindow(date(2024, time.February, 1))
	require.True(t, ok)
	assert.Equal(t, date(2023, time.November, 1), start)
	assert.Equal(t, time.January, end.Month())
	assert.Equal(t, 31, end.Day())
}

func TestDateWindow_Last6Months(t *testing.T) {
	f := &repository.CostSheetFilters{Period: repository.PeriodLast6Months}

	start, end, ok := f.DateWindow(date(2024, time.February, 1))
	require.True(t, ok)
	assert.Equal(t, date(2023, time.August, 1), start)
	assert.Equal(t, time.January, end.Month())
	assert.Equal(t, 31, end.Day())
}

func TestDateWindow_LastYear(t *testing.T) {
	f := &repository.CostSheetFilters{Period: repository.PeriodLastYear}

	start, end, ok := f.DateWindow(date(2024, time.February, 1))
	require.True(t, ok)
	assert.Equal(t, date(2023, time.January, 1), start)
	assert.Equal(t, time.December, end.Month())
	assert.Equal(t, 31, end.Day())
	assert.Equal(t, 2023, end.Year())
}

func TestDateWindow_LastFinancialYear(t *testing.T) {
	f := &repository.CostSheetFilters{Period: repository.PeriodLastFinancialYear}

	// Before April the running financial year started the previous
	// calendar year, so the last complete one is Apr 2022 - Mar 2023.
	start, end, ok := f.DateWindow(date(2024, time.February, 1))
	require.True(t, ok)
	assert.Equal(t, date(2022, time.April, 1), start)
	assert.Equal(t, 2023, end.Year())
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 31, end.Day())

	// After April the last complete financial year is Apr 2023 - Mar 2024.
	start, end, ok = f.DateWindow(date(2024, time.June, 10))
	require.True(t, ok)
	assert.Equal(t, date(2023, time.April, 1), start)
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 2024, end.Year())
}

func TestDateWindow_CustomExtendsEndOfDay(t *testing.T) {
	customStart := date(2024, time.January, 10)
	customEnd := date(2024, time.January, 20)
	f := &repository.CostSheetFilters{
		Period:      repository.PeriodCustom,
		CustomStart: &customStart,
		CustomEnd:   &customEnd,
	}

	start, end, ok := f.DateWindow(date(2024, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, customStart, start)
	assert.Equal(t, 20, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
}

func TestDateWindow_CustomWithoutBoundsHasNoWindow(t *testing.T) {
	f := &repository.CostSheetFilters{Period: repository.PeriodCustom}

	_, _, ok := f.DateWindow(date(2024, time.June, 1))
	assert.False(t, ok)
}

func TestDateWindow_EmptyPeriodHasNoWindow(t *testing.T) {
	f := &repository.CostSheetFilters{}

	_, _, ok := f.DateWindow(date(2024, time.June, 1))
	assert.False(t, ok)
}
