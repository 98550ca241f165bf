package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/repository"
)

func TestLeadNumbersIncrement(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.leads.Create(ctx, &domain.CreateLeadRequest{CompanyName: "Acme Industries"})
	require.NoError(t, err)

	second, err := e.leads.Create(ctx, &domain.CreateLeadRequest{CompanyName: "Globex"})
	require.NoError(t, err)

	assert.Equal(t, "LD-001", first.LeadNumber)
	assert.Equal(t, "LD-002", second.LeadNumber)
	assert.Equal(t, domain.LeadStatusNew, first.Status)
}

func TestLeadUpdateKeepsNumber(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	lead, err := e.leads.Create(ctx, &domain.CreateLeadRequest{CompanyName: "Acme Industries"})
	require.NoError(t, err)

	name := "Acme Industries AS"
	updated, err := e.leads.Update(ctx, lead.ID, &domain.UpdateLeadRequest{CompanyName: &name})
	require.NoError(t, err)

	assert.Equal(t, lead.LeadNumber, updated.LeadNumber)
	assert.Equal(t, "Acme Industries AS", updated.CompanyName)
}

func TestCostSheetListFiltersByLeadNumber(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	acme, err := e.leads.Create(ctx, &domain.CreateLeadRequest{CompanyName: "Acme Industries"})
	require.NoError(t, err)
	globex, err := e.leads.Create(ctx, &domain.CreateLeadRequest{CompanyName: "Globex"})
	require.NoError(t, err)

	_, err = e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       &acme.ID,
		CustomerName: "Acme Industries",
		ProjectName:  "ERP rollout",
	}, "sales@example.com")
	require.NoError(t, err)

	_, err = e.sheets.Create(ctx, &domain.CreateCostSheetRequest{
		LeadID:       &globex.ID,
		CustomerName: "Globex",
		ProjectName:  "CRM rollout",
	}, "sales@example.com")
	require.NoError(t, err)

	result, err := e.sheets.List(ctx, 1, 50, &repository.CostSheetFilters{
		LeadNumber: globex.LeadNumber,
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Globex", result.Items[0].CustomerName)
}
