package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/repository"
)

func TestDashboardMetrics(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	lead, err := e.leads.Create(ctx, &domain.CreateLeadRequest{CompanyName: "Acme Industries"})
	require.NoError(t, err)

	pending, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       &lead.ID,
		CustomerName: "Acme Industries",
		ProjectName:  "Phase 1",
		Items:        sampleItems(),
	}, "sales@example.com")
	require.NoError(t, err)

	submitted, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       &lead.ID,
		CustomerName: "Acme Industries",
		ProjectName:  "Phase 2",
		Items:        sampleItems(),
		Submit:       true,
	}, "sales@example.com")
	require.NoError(t, err)

	_, err = e.sheets.Approve(ctx, submitted.ID, "", "manager@example.com")
	require.NoError(t, err)

	createInvoice(t, e, "INV-001", "Acme Industries", "1200")

	conn := createConnection(t, e, "ICICI")
	forReviewDeposit(t, e, conn.ID, "ACME", "500")

	metrics, err := e.dashboard.Metrics(ctx, &repository.CostSheetFilters{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), metrics.TotalLeads)
	assert.Equal(t, int64(2), metrics.TotalCostSheets)
	assert.Equal(t, int64(1), metrics.PendingCostSheets)
	assert.Equal(t, int64(1), metrics.ApprovedCostSheets)
	assert.Equal(t, int64(0), metrics.SubmittedCostSheets)

	// Both sheets carry the sample item totals.
	assert.Equal(t, "1900.00", metrics.TotalCostValue.StringFixed(2))
	assert.Equal(t, "2240.00", metrics.TotalPriceValue.StringFixed(2))
	assert.Equal(t, "340.00", metrics.TotalMarginValue.StringFixed(2))

	assert.Equal(t, int64(1), metrics.OpenInvoices)
	assert.Equal(t, "1200.00", metrics.OpenInvoiceBalance.StringFixed(2))
	assert.Equal(t, int64(1), metrics.UnreviewedDeposits)

	assert.Len(t, metrics.Rows, 2)

	// Status filter narrows both the counts and the rows.
	filtered, err := e.dashboard.Metrics(ctx, &repository.CostSheetFilters{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), filtered.TotalCostSheets)
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, pending.SheetNumber, filtered.Rows[0].SheetNumber)
}
