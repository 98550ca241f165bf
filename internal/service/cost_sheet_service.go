package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/mapper"
	"github.com/sailfin-io/backoffice-api/internal/pricing"
	"github.com/sailfin-io/backoffice-api/internal/repository"
)

// CostSheetService implements the cost sheet lifecycle: drafting, pricing,
// submission and review.
type CostSheetService struct {
	sheetRepo        *repository.CostSheetRepository
	leadRepo         *repository.LeadRepository
	numberSeqService *NumberSequenceService
	logger           *zap.Logger
}

func NewCostSheetService(
	sheetRepo *repository.CostSheetRepository,
	leadRepo *repository.LeadRepository,
	numberSeqService *NumberSequenceService,
	logger *zap.Logger,
) *CostSheetService {
	return &CostSheetService{
		sheetRepo:        sheetRepo,
		leadRepo:         leadRepo,
		numberSeqService: numberSeqService,
		logger:           logger,
	}
}

// Create drafts a new cost sheet, prices its items and optionally submits
// it in the same call. Every sheet belongs to a lead.
func (s *CostSheetService) Create(ctx context.Context, req *domain.CreateCostSheetRequest, actor string) (*domain.CostSheetDTO, error) {
	if req.LeadID == nil {
		return nil, fmt.Errorf("%w: a cost sheet must reference a lead", ErrInvalidInput)
	}
	if _, err := s.leadRepo.GetByID(ctx, *req.LeadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lead %s", ErrNotFound, req.LeadID)
		}
		return nil, fmt.Errorf("failed to verify lead: %w", err)
	}

	sheetNumber, err := s.numberSeqService.GenerateCostSheetNumber(ctx)
	if err != nil {
		return nil, err
	}

	sheet := &domain.CostSheet{
		SheetNumber:    sheetNumber,
		LeadID:         req.LeadID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		ProjectName:    strings.TrimSpace(req.ProjectName),
		ProjectManager: req.ProjectManager,
		SalesPerson:    req.SalesPerson,
		Status:         domain.CostSheetStatusPending,
		Currency:       req.Currency,
		Notes:          req.Notes,
	}
	if sheet.Currency == "" {
		sheet.Currency = "USD"
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
		}
		sheet.Date = &d
	}

	s.applyPricing(sheet, req.Items)

	if req.Submit {
		now := time.Now().UTC()
		sheet.Status = domain.CostSheetStatusSubmitted
		sheet.SubmittedBy = actor
		sheet.SubmittedAt = &now
	}

	if err := s.sheetRepo.Create(ctx, sheet); err != nil {
		return nil, fmt.Errorf("failed to create cost sheet: %w", err)
	}

	s.logger.Info("cost sheet created",
		zap.String("sheet_number", sheet.SheetNumber),
		zap.String("customer", sheet.CustomerName),
		zap.String("status", string(sheet.Status)),
	)

	return s.getDTO(ctx, sheet.ID)
}

// Update replaces the sheet's fields and line items. Only sheets still in
// an editable status (pending or rejected) may change; updating a rejected
// sheet with submit moves it back to review and clears the prior verdict.
func (s *CostSheetService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCostSheetRequest, actor string) (*domain.CostSheetDTO, error) {
	sheet, err := s.sheetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !sheet.Status.Editable() {
		return nil, ErrSheetNotEditable
	}

	if req.LeadID != nil {
		if _, err := s.leadRepo.GetByID(ctx, *req.LeadID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: lead %s", ErrNotFound, req.LeadID)
			}
			return nil, fmt.Errorf("failed to verify lead: %w", err)
		}
		sheet.LeadID = req.LeadID
	}
	if req.CustomerName != nil {
		sheet.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.ProjectName != nil {
		sheet.ProjectName = strings.TrimSpace(*req.ProjectName)
	}
	if req.ProjectManager != nil {
		sheet.ProjectManager = *req.ProjectManager
	}
	if req.SalesPerson != nil {
		sheet.SalesPerson = *req.SalesPerson
	}
	if req.Currency != nil {
		sheet.Currency = *req.Currency
	}
	if req.Notes != nil {
		sheet.Notes = *req.Notes
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date", ErrInvalidInput)
		}
		sheet.Date = &d
	}

	// Item updates replace the whole set.
	if req.Items != nil {
		s.applyPricing(sheet, req.Items)
	}

	if req.Submit {
		now := time.Now().UTC()
		sheet.Status = domain.CostSheetStatusSubmitted
		sheet.SubmittedBy = actor
		sheet.SubmittedAt = &now
		sheet.ReviewedBy = ""
		sheet.ReviewedAt = nil
		sheet.ReviewComments = ""
	}

	if req.Items != nil {
		err = s.sheetRepo.ReplaceItems(ctx, sheet)
	} else {
		err = s.sheetRepo.Update(ctx, sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cost sheet: %w", err)
	}

	return s.getDTO(ctx, sheet.ID)
}

// Approve moves a submitted sheet to approved.
func (s *CostSheetService) Approve(ctx context.Context, id uuid.UUID, comments, reviewer string) (*domain.CostSheetDTO, error) {
	return s.review(ctx, id, domain.CostSheetStatusApproved, comments, reviewer)
}

// Reject moves a submitted sheet to rejected. Comments are mandatory so
// the submitter knows what to fix.
func (s *CostSheetService) Reject(ctx context.Context, id uuid.UUID, comments, reviewer string) (*domain.CostSheetDTO, error) {
	if strings.TrimSpace(comments) == "" {
		return nil, ErrRejectRequiresComments
	}
	return s.review(ctx, id, domain.CostSheetStatusRejected, comments, reviewer)
}

func (s *CostSheetService) review(ctx context.Context, id uuid.UUID, verdict domain.CostSheetStatus, comments, reviewer string) (*domain.CostSheetDTO, error) {
	sheet, err := s.sheetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if sheet.Status != domain.CostSheetStatusSubmitted {
		return nil, ErrSheetNotSubmitted
	}

	now := time.Now().UTC()
	sheet.Status = verdict
	sheet.ReviewedBy = reviewer
	sheet.ReviewedAt = &now
	sheet.ReviewComments = comments

	if err := s.sheetRepo.Update(ctx, sheet); err != nil {
		return nil, fmt.Errorf("failed to update cost sheet: %w", err)
	}

	s.logger.Info("cost sheet reviewed",
		zap.String("sheet_number", sheet.SheetNumber),
		zap.String("verdict", string(verdict)),
		zap.String("reviewer", reviewer),
	)

	return s.getDTO(ctx, sheet.ID)
}

func (s *CostSheetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CostSheetDTO, error) {
	return s.getDTO(ctx, id)
}

func (s *CostSheetService) Delete(ctx context.Context, id uuid.UUID) error {
	sheet, err := s.sheetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !sheet.Status.Editable() {
		return ErrSheetNotEditable
	}
	return s.sheetRepo.Delete(ctx, id)
}

func (s *CostSheetService) List(ctx context.Context, page, pageSize int, filters *repository.CostSheetFilters) (*domain.PagedResponse[domain.CostSheetDTO], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	sheets, total, err := s.sheetRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CostSheetDTO, 0, len(sheets))
	for i := range sheets {
		items = append(items, mapper.ToCostSheetDTO(&sheets[i]))
	}

	return &domain.PagedResponse[domain.CostSheetDTO]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// applyPricing cleans and prices the submitted rows, distributes them into
// the typed item slices and stores the sheet totals.
func (s *CostSheetService) applyPricing(sheet *domain.CostSheet, rows []domain.CostSheetItemInput) {
	lines, totals := pricing.PriceRows(rows)

	sheet.LicenseItems = sheet.LicenseItems[:0]
	sheet.ImplementationItems = sheet.ImplementationItems[:0]
	sheet.SupportItems = sheet.SupportItems[:0]
	sheet.InfraItems = sheet.InfraItems[:0]
	sheet.OtherItems = sheet.OtherItems[:0]

	for _, line := range lines {
		switch line.Category {
		case pricing.CategoryLicense:
			sheet.LicenseItems = append(sheet.LicenseItems, domain.LicenseItem{
				CostSheetID:  sheet.ID,
				Name:         line.Name,
				Description:  line.Description,
				Rate:         line.Rate,
				Quantity:     line.Quantity,
				MarginPct:    line.MarginPct,
				Cost:         line.Cost,
				MarginAmount: line.MarginAmount,
				Price:        line.Price,
			})
		case pricing.CategoryImplementation:
			sheet.ImplementationItems = append(sheet.ImplementationItems, domain.ImplementationItem{
				CostSheetID:  sheet.ID,
				Name:         line.Name,
				Description:  line.Description,
				Resources:    line.Resources,
				Days:         line.Days,
				RatePerDay:   line.RatePerDay,
				TotalDays:    line.TotalDays,
				MarginPct:    line.MarginPct,
				Cost:         line.Cost,
				MarginAmount: line.MarginAmount,
				Price:        line.Price,
			})
		case pricing.CategorySupport:
			sheet.SupportItems = append(sheet.SupportItems, domain.SupportItem{
				CostSheetID:  sheet.ID,
				Name:         line.Name,
				Description:  line.Description,
				Resources:    line.Resources,
				Days:         line.Days,
				RatePerDay:   line.RatePerDay,
				TotalDays:    line.TotalDays,
				MarginPct:    line.MarginPct,
				Cost:         line.Cost,
				MarginAmount: line.MarginAmount,
				Price:        line.Price,
			})
		case pricing.CategoryInfra:
			sheet.InfraItems = append(sheet.InfraItems, domain.InfraItem{
				CostSheetID:  sheet.ID,
				Name:         line.Name,
				Description:  line.Description,
				Quantity:     line.Quantity,
				Months:       line.Months,
				RatePerMonth: line.RatePerMonth,
				MarginPct:    line.MarginPct,
				Cost:         line.Cost,
				MarginAmount: line.MarginAmount,
				Price:        line.Price,
			})
		case pricing.CategoryOther:
			sheet.OtherItems = append(sheet.OtherItems, domain.OtherItem{
				CostSheetID:  sheet.ID,
				Name:         line.Name,
				Description:  line.Description,
				FlatCost:     line.FlatCost,
				MarginPct:    line.MarginPct,
				Cost:         line.Cost,
				MarginAmount: line.MarginAmount,
				Price:        line.Price,
			})
		}
	}

	sheet.TotalCost = totals.Cost
	sheet.TotalMargin = totals.Margin
	sheet.TotalPrice = totals.Price
	sheet.TotalMarginPct = totals.MarginPct
}

func (s *CostSheetService) getDTO(ctx context.Context, id uuid.UUID) (*domain.CostSheetDTO, error) {
	sheet, err := s.sheetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToCostSheetDTO(sheet)
	return &dto, nil
}
