package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

func leadFor(t *testing.T, e *env, company string) *uuid.UUID {
	t.Helper()
	lead, err := e.leads.Create(context.Background(), &domain.CreateLeadRequest{
		CompanyName: company,
	})
	require.NoError(t, err)
	return &lead.ID
}

func sampleItems() []domain.CostSheetItemInput {
	return []domain.CostSheetItemInput{
		{
			Name:        "Platform licenses",
			Category:    "license",
			Description: "Annual platform licensing",
			Rate:        amount("100"),
			Quantity:    amount("2"),
			MarginPct:   amount("10"),
		},
		{
			Name:        "Rollout team",
			Category:    "implementation",
			Description: "On-site rollout",
			Resources:   amount("3"),
			Days:        amount("5"),
			RatePerDay:  amount("50"),
			MarginPct:   amount("20"),
		},
	}
}

func TestCostSheetCreatePricesItems(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dto, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Items:        sampleItems(),
	}, "sales@example.com")
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("CS-%d-001", year), dto.SheetNumber)
	assert.Equal(t, domain.CostSheetStatusPending, dto.Status)

	// license: 100*2 = 200 cost, 20 margin
	// implementation: 3*5*50 = 750 cost, 150 margin
	assert.Equal(t, "950.00", dto.TotalCost.StringFixed(2))
	assert.Equal(t, "170.00", dto.TotalMargin.StringFixed(2))
	assert.Equal(t, "1120.00", dto.TotalPrice.StringFixed(2))

	require.Len(t, dto.LicenseItems, 1)
	assert.Equal(t, "220.00", dto.LicenseItems[0].Price.StringFixed(2))
	require.Len(t, dto.ImplementationItems, 1)
	assert.Equal(t, "15.00", dto.ImplementationItems[0].TotalDays.StringFixed(2))
}

func TestCostSheetRequiresLead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Items:        sampleItems(),
	}, "sales@example.com")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	unknown := uuid.New()
	_, err = e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       &unknown,
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
	}, "sales@example.com")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCostSheetNumbersIncrement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "Phase 1",
	}, "sales@example.com")
	require.NoError(t, err)

	second, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "Phase 2",
	}, "sales@example.com")
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("CS-%d-001", year), first.SheetNumber)
	assert.Equal(t, fmt.Sprintf("CS-%d-002", year), second.SheetNumber)
}

func TestCostSheetIncompleteRowsDropped(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	items := append(sampleItems(), domain.CostSheetItemInput{
		Name:     "",
		Category: "license",
		Rate:     amount("999"),
		Quantity: amount("1"),
	})

	dto, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Items:        items,
	}, "sales@example.com")
	require.NoError(t, err)

	assert.Len(t, dto.LicenseItems, 1)
	assert.Equal(t, "950.00", dto.TotalCost.StringFixed(2))
}

func TestCostSheetSubmitOnCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dto, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Items:        sampleItems(),
		Submit:       true,
	}, "sales@example.com")
	require.NoError(t, err)

	assert.Equal(t, domain.CostSheetStatusSubmitted, dto.Status)
	assert.Equal(t, "sales@example.com", dto.SubmittedBy)
	assert.NotNil(t, dto.SubmittedAt)
}

func TestCostSheetSubmittedIsNotEditable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dto, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Submit:       true,
	}, "sales@example.com")
	require.NoError(t, err)

	name := "Changed"
	_, err = e.sheets.Update(ctx, dto.ID, &domain.UpdateCostSheetRequest{
		ProjectName: &name,
	}, "sales@example.com")
	assert.ErrorIs(t, err, service.ErrSheetNotEditable)

	err = e.sheets.Delete(ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrSheetNotEditable)
}

func TestCostSheetApprove(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dto, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Submit:       true,
	}, "sales@example.com")
	require.NoError(t, err)

	approved, err := e.sheets.Approve(ctx, dto.ID, "looks good", "manager@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.CostSheetStatusApproved, approved.Status)
	assert.Equal(t, "manager@example.com", approved.ReviewedBy)
	assert.Equal(t, "looks good", approved.ReviewComments)

	// Only submitted sheets can be reviewed.
	_, err = e.sheets.Approve(ctx, dto.ID, "", "manager@example.com")
	assert.ErrorIs(t, err, service.ErrSheetNotSubmitted)
}

func TestCostSheetRejectRequiresComments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dto, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Submit:       true,
	}, "sales@example.com")
	require.NoError(t, err)

	_, err = e.sheets.Reject(ctx, dto.ID, "  ", "manager@example.com")
	assert.ErrorIs(t, err, service.ErrRejectRequiresComments)

	rejected, err := e.sheets.Reject(ctx, dto.ID, "margins too thin", "manager@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.CostSheetStatusRejected, rejected.Status)
}

func TestCostSheetResubmitClearsReview(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dto, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Items:        sampleItems(),
		Submit:       true,
	}, "sales@example.com")
	require.NoError(t, err)

	_, err = e.sheets.Reject(ctx, dto.ID, "margins too thin", "manager@example.com")
	require.NoError(t, err)

	items := sampleItems()
	items[0].MarginPct = amount("25")
	resubmitted, err := e.sheets.Update(ctx, dto.ID, &domain.UpdateCostSheetRequest{
		Items:  items,
		Submit: true,
	}, "sales@example.com")
	require.NoError(t, err)

	assert.Equal(t, domain.CostSheetStatusSubmitted, resubmitted.Status)
	assert.Empty(t, resubmitted.ReviewedBy)
	assert.Nil(t, resubmitted.ReviewedAt)
	assert.Empty(t, resubmitted.ReviewComments)
	assert.Equal(t, "200.00", resubmitted.TotalMargin.StringFixed(2))
}

func TestCostSheetUpdateReplacesItems(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dto, err := e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       leadFor(t, e, "Acme Industries"),
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
		Items:        sampleItems(),
	}, "sales@example.com")
	require.NoError(t, err)

	updated, err := e.sheets.Update(ctx, dto.ID, &domain.UpdateCostSheetRequest{
		Items: []domain.CostSheetItemInput{
			{
				Name:         "Cloud hosting",
				Category:     "infrastructure",
				Description:  "Production environment",
				Quantity:     amount("2"),
				Months:       amount("12"),
				RatePerMonth: amount("100"),
				MarginPct:    amount("15"),
			},
		},
	}, "sales@example.com")
	require.NoError(t, err)

	assert.Empty(t, updated.LicenseItems)
	assert.Empty(t, updated.ImplementationItems)
	require.Len(t, updated.InfraItems, 1)
	assert.Equal(t, "2400.00", updated.TotalCost.StringFixed(2))
	assert.Equal(t, "2760.00", updated.TotalPrice.StringFixed(2))
}
