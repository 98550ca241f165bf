package bankfeed_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/bankfeed"
	"github.com/sailfin-io/backoffice-api/internal/domain"
)

func TestParseStatement_ICICI(t *testing.T) {
	csvData := strings.Join([]string{
		"Value Date,Transaction Remarks,Deposit Amt.,Cheque no.",
		"02/01/2024,ACMECORP NEFT UTR123,\"1,50,000.50\",UTR123",
		"03/01/2024,GLOBEX RTGS PAYMENT,25000,UTR456",
	}, "\n")

	result, err := bankfeed.ParseStatement(strings.NewReader(csvData), bankfeed.FormatICICI)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 0, result.Skipped)

	first := result.Rows[0]
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	assert.True(t, first.Amount.Equal(domain.NewAmount("150000.50")), "amount = %s", first.Amount)
	assert.Equal(t, "ACMECORP", first.CustomerName)
	assert.Equal(t, "UTR123", first.Reference)
}

func TestParseStatement_GenericHeaderAliases(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Description,Amount,Reference",
		"2024-03-15,Initech monthly retainer,5000.00,REF-1",
	}, "\n")

	result, err := bankfeed.ParseStatement(strings.NewReader(csvData), bankfeed.FormatGeneric)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Initech", result.Rows[0].CustomerName)
}

func TestParseStatement_SkipsUnparseableRows(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Description,Credit",
		"not-a-date,Bad row,100",
		"2024-03-15,Zero credit,0",
		"2024-03-16,Blank credit,",
		"2024-03-17,Good row,250.00",
	}, "\n")

	result, err := bankfeed.ParseStatement(strings.NewReader(csvData), bankfeed.FormatGeneric)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, result.Warnings, 3)
	assert.True(t, result.Rows[0].Amount.Equal(domain.NewAmount("250")))
}

func TestParseStatement_MissingRequiredColumns(t *testing.T) {
	csvData := "Foo,Bar\n1,2\n"

	_, err := bankfeed.ParseStatement(strings.NewReader(csvData), bankfeed.FormatICICI)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestParseFormat_DefaultsToGeneric(t *testing.T) {
	assert.Equal(t, bankfeed.FormatICICI, bankfeed.ParseFormat(" ICICI "))
	assert.Equal(t, bankfeed.FormatBofA, bankfeed.ParseFormat("bofa"))
	assert.Equal(t, bankfeed.FormatGeneric, bankfeed.ParseFormat("unknown-bank"))
	assert.Equal(t, bankfeed.FormatGeneric, bankfeed.ParseFormat(""))
}

func TestCustomerFromRemarks(t *testing.T) {
	assert.Equal(t, "ACME", bankfeed.CustomerFromRemarks("ACME NEFT payment"))
	assert.Equal(t, "", bankfeed.CustomerFromRemarks("   "))
}

func TestSimulatedProvider_FetchDeposits(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }
	provider := bankfeed.NewSimulatedProvider(42, now)

	conn := &domain.BankConnection{BankName: "ICICI Bank", IsActive: true}
	rows, err := provider.FetchDeposits(context.Background(), conn)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.LessOrEqual(t, len(rows), 3)

	oldest := now().AddDate(0, 0, -5)
	for _, row := range rows {
		assert.True(t, row.Amount.IsPositive())
		assert.False(t, row.Date.Before(oldest), "deposit older than five days: %s", row.Date)
		assert.False(t, row.Date.After(now()))
		assert.NotEmpty(t, row.CustomerName)
	}
}

func TestSimulatedProvider_InactiveConnection(t *testing.T) {
	provider := bankfeed.NewSimulatedProvider(1, nil)

	rows, err := provider.FetchDeposits(context.Background(), &domain.BankConnection{
		BankName: "IDFC", IsActive: false,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
