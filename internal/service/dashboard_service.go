package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/mapper"
	"github.com/sailfin-io/backoffice-api/internal/repository"
)

// DashboardService aggregates cost sheet, invoice and bank activity into
// the dashboard metrics view.
type DashboardService struct {
	sheetRepo   *repository.CostSheetRepository
	leadRepo    *repository.LeadRepository
	invoiceRepo *repository.InvoiceRepository
	txnRepo     *repository.BankTransactionRepository
	logger      *zap.Logger
}

func NewDashboardService(
	sheetRepo *repository.CostSheetRepository,
	leadRepo *repository.LeadRepository,
	invoiceRepo *repository.InvoiceRepository,
	txnRepo *repository.BankTransactionRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		sheetRepo:   sheetRepo,
		leadRepo:    leadRepo,
		invoiceRepo: invoiceRepo,
		txnRepo:     txnRepo,
		logger:      logger,
	}
}

// Metrics builds the dashboard view for the filtered period. Status counts
// and financial totals cover only the sheets the filters select; lead,
// invoice and deposit figures are global.
func (s *DashboardService) Metrics(ctx context.Context, filters *repository.CostSheetFilters) (*domain.DashboardMetricsDTO, error) {
	metrics := &domain.DashboardMetricsDTO{}

	counts, err := s.sheetRepo.CountByStatus(ctx, filters)
	if err != nil {
		return nil, err
	}
	metrics.PendingCostSheets = counts[domain.CostSheetStatusPending]
	metrics.SubmittedCostSheets = counts[domain.CostSheetStatusSubmitted]
	metrics.ApprovedCostSheets = counts[domain.CostSheetStatusApproved]
	metrics.RejectedCostSheets = counts[domain.CostSheetStatusRejected]
	metrics.RevertedCostSheets = counts[domain.CostSheetStatusReverted]
	for _, c := range counts {
		metrics.TotalCostSheets += c
	}

	sheets, err := s.sheetRepo.ListFiltered(ctx, filters)
	if err != nil {
		return nil, err
	}
	metrics.Rows = make([]domain.DashboardRowDTO, 0, len(sheets))
	for i := range sheets {
		sheet := &sheets[i]
		metrics.TotalCostValue = metrics.TotalCostValue.Add(sheet.TotalCost)
		metrics.TotalPriceValue = metrics.TotalPriceValue.Add(sheet.TotalPrice)
		metrics.TotalMarginValue = metrics.TotalMarginValue.Add(sheet.TotalMargin)
		metrics.Rows = append(metrics.Rows, mapper.ToDashboardRowDTO(sheet))
	}

	metrics.TotalLeads, err = s.leadRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	metrics.OpenInvoices, metrics.OpenInvoiceBalance, err = s.invoiceRepo.OpenStats(ctx)
	if err != nil {
		return nil, err
	}

	metrics.UnreviewedDeposits, err = s.txnRepo.CountByStatus(ctx, domain.BankTransactionStatusForReview)
	if err != nil {
		return nil, err
	}

	return metrics, nil
}
