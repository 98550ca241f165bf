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
	"github.com/sailfin-io/backoffice-api/internal/repository"
)

type InvoiceService struct {
	invoiceRepo *repository.InvoiceRepository
	leadRepo    *repository.LeadRepository
	logger      *zap.Logger
}

func NewInvoiceService(invoiceRepo *repository.InvoiceRepository, leadRepo *repository.LeadRepository, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo, leadRepo: leadRepo, logger: logger}
}

// Create records an invoice. The full amount starts open; if no lead is
// given the customer name is matched against existing leads.
func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	invoice := &domain.Invoice{
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		LeadID:        req.LeadID,
		Amount:        req.Amount,
		OpenBalance:   req.Amount,
		Status:        domain.InvoiceStatusOpen,
		Notes:         req.Notes,
	}

	if req.InvoiceDate != nil {
		d, err := time.Parse("2006-01-02", *req.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid invoiceDate", ErrInvalidInput)
		}
		invoice.InvoiceDate = &d
	}
	if req.DueDate != nil {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid dueDate", ErrInvalidInput)
		}
		invoice.DueDate = &d
	}

	if invoice.LeadID == nil {
		if lead, err := s.leadRepo.GetByCompanyName(ctx, invoice.CustomerName); err == nil {
			invoice.LeadID = &lead.ID
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: invoice number %s already exists", ErrConflict, invoice.InvoiceNumber)
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("customer", invoice.CustomerName),
	)

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// Update changes descriptive invoice fields. The amount and balance only
// move through receipt vouchers.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInvoiceRequest) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.CustomerName != nil {
		invoice.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.InvoiceDate != nil {
		d, err := time.Parse("2006-01-02", *req.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid invoiceDate", ErrInvalidInput)
		}
		invoice.InvoiceDate = &d
	}
	if req.DueDate != nil {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid dueDate", ErrInvalidInput)
		}
		invoice.DueDate = &d
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Paid or partially settled invoices carry receipt history.
	if invoice.Status != domain.InvoiceStatusOpen {
		return fmt.Errorf("%w: invoice %s has receipts applied", ErrConflict, invoice.InvoiceNumber)
	}
	return s.invoiceRepo.Delete(ctx, id)
}

func (s *InvoiceService) List(ctx context.Context, page, pageSize int, status *domain.InvoiceStatus, customerName string) (*domain.PagedResponse[domain.InvoiceDTO], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	invoices, total, err := s.invoiceRepo.List(ctx, page, pageSize, status, customerName)
	if err != nil {
		return nil, err
	}

	items := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		items = append(items, mapper.ToInvoiceDTO(&invoices[i]))
	}

	return &domain.PagedResponse[domain.InvoiceDTO]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// ListOpenByCustomer returns the customer's unsettled invoices, oldest
// first, for the reconciliation picker.
func (s *InvoiceService) ListOpenByCustomer(ctx context.Context, customerName string) ([]domain.InvoiceDTO, error) {
	invoices, err := s.invoiceRepo.ListOpenByCustomer(ctx, customerName)
	if err != nil {
		return nil, err
	}
	items := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		items = append(items, mapper.ToInvoiceDTO(&invoices[i]))
	}
	return items, nil
}
