package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/mapper"
	"github.com/sailfin-io/backoffice-api/internal/repository"
)

type LeadService struct {
	leadRepo         *repository.LeadRepository
	numberSeqService *NumberSequenceService
	logger           *zap.Logger
}

func NewLeadService(leadRepo *repository.LeadRepository, numberSeqService *NumberSequenceService, logger *zap.Logger) *LeadService {
	return &LeadService{leadRepo: leadRepo, numberSeqService: numberSeqService, logger: logger}
}

func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	leadNumber, err := s.numberSeqService.GenerateLeadNumber(ctx)
	if err != nil {
		return nil, err
	}

	lead := &domain.Lead{
		LeadNumber:     leadNumber,
		CompanyName:    strings.TrimSpace(req.CompanyName),
		ContactPerson:  req.ContactPerson,
		Email:          req.Email,
		Phone:          req.Phone,
		Source:         req.Source,
		Status:         req.Status,
		ProjectManager: req.ProjectManager,
		SalesPerson:    req.SalesPerson,
		Notes:          req.Notes,
	}
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("lead_number", lead.LeadNumber),
		zap.String("company", lead.CompanyName),
	)

	dto := mapper.ToLeadDTO(lead, 0)
	return &dto, nil
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToLeadDTO(lead, len(lead.CostSheets))
	return &dto, nil
}

func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLeadRequest) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.CompanyName != nil {
		lead.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.ContactPerson != nil {
		lead.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.Status != nil {
		lead.Status = *req.Status
	}
	if req.ProjectManager != nil {
		lead.ProjectManager = *req.ProjectManager
	}
	if req.SalesPerson != nil {
		lead.SalesPerson = *req.SalesPerson
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	dto := mapper.ToLeadDTO(lead, len(lead.CostSheets))
	return &dto, nil
}

func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.leadRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.leadRepo.Delete(ctx, id)
}

func (s *LeadService) List(ctx context.Context, page, pageSize int, status *domain.LeadStatus, search string) (*domain.PagedResponse[domain.LeadDTO], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	leads, total, err := s.leadRepo.List(ctx, page, pageSize, status, search)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LeadDTO, 0, len(leads))
	for i := range leads {
		count, err := s.leadRepo.CostSheetCount(ctx, leads[i].ID)
		if err != nil {
			return nil, err
		}
		items = append(items, mapper.ToLeadDTO(&leads[i], count))
	}

	return &domain.PagedResponse[domain.LeadDTO]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
