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

// ReceiptVoucherService records customer payments and applies them against
// invoice open balances.
type ReceiptVoucherService struct {
	voucherRepo      *repository.ReceiptVoucherRepository
	invoiceRepo      *repository.InvoiceRepository
	leadRepo         *repository.LeadRepository
	numberSeqService *NumberSequenceService
	logger           *zap.Logger
}

func NewReceiptVoucherService(
	voucherRepo *repository.ReceiptVoucherRepository,
	invoiceRepo *repository.InvoiceRepository,
	leadRepo *repository.LeadRepository,
	numberSeqService *NumberSequenceService,
	logger *zap.Logger,
) *ReceiptVoucherService {
	return &ReceiptVoucherService{
		voucherRepo:      voucherRepo,
		invoiceRepo:      invoiceRepo,
		leadRepo:         leadRepo,
		numberSeqService: numberSeqService,
		logger:           logger,
	}
}

// Create numbers a voucher and applies its adjustments to the named
// invoices. Rows where every component is zero are skipped; a request
// with no effective adjustment is rejected. Each adjustment decrements
// the invoice open balance, never below zero, and moves the invoice to
// PAID or PARTIAL accordingly.
func (s *ReceiptVoucherService) Create(ctx context.Context, req *domain.CreateReceiptVoucherRequest, actor string) (*domain.ReceiptVoucherDTO, error) {
	voucher := &domain.ReceiptVoucher{
		CustomerName: strings.TrimSpace(req.CustomerName),
		LeadID:       req.LeadID,
		Amount:       req.Amount,
		PaymentMode:  req.PaymentMode,
		Reference:    req.Reference,
		Notes:        req.Notes,
		Status:       domain.ReceiptVoucherStatusUnreconciled,
		DepositToID:  req.DepositToID,
		ExchangeRate: domain.AmountFromInt(1),
		CreatedBy:    actor,
	}
	if req.ExchangeRate != nil && !req.ExchangeRate.IsZero() {
		voucher.ExchangeRate = *req.ExchangeRate
	}
	if req.ReceiptDate != nil {
		d, err := time.Parse("2006-01-02", *req.ReceiptDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid receiptDate", ErrInvalidInput)
		}
		voucher.ReceiptDate = &d
	}

	if voucher.LeadID == nil {
		if lead, err := s.leadRepo.GetByCompanyName(ctx, voucher.CustomerName); err == nil {
			voucher.LeadID = &lead.ID
		}
	}

	adjustments, invoices, err := s.applyAdjustments(ctx, req.Adjustments)
	if err != nil {
		return nil, err
	}
	voucher.Adjustments = adjustments

	number, err := s.numberSeqService.GenerateReceiptVoucherNumber(ctx)
	if err != nil {
		return nil, err
	}
	voucher.VoucherNumber = number

	if err := s.voucherRepo.CreateWithAdjustments(ctx, voucher, invoices); err != nil {
		return nil, fmt.Errorf("failed to create receipt voucher: %w", err)
	}

	s.logger.Info("receipt voucher created",
		zap.String("voucher_number", voucher.VoucherNumber),
		zap.String("customer", voucher.CustomerName),
		zap.Int("adjustments", len(voucher.Adjustments)),
	)

	return s.getDTO(ctx, voucher.ID)
}

// applyAdjustments validates the adjustment rows, drops all-zero ones and
// returns the resulting adjustment records together with the invoices
// whose balances they change.
func (s *ReceiptVoucherService) applyAdjustments(ctx context.Context, rows []domain.ReceiptAdjustmentInput) ([]domain.ReceiptAdjustment, []domain.Invoice, error) {
	adjustments := make([]domain.ReceiptAdjustment, 0, len(rows))
	invoices := make([]domain.Invoice, 0, len(rows))

	for _, row := range rows {
		adj := domain.ReceiptAdjustment{
			InvoiceID:      row.InvoiceID,
			AmountAdjusted: row.AmountAdjusted,
			TDSAmount:      row.TDSAmount,
			DiscountAmount: row.DiscountAmount,
			BankCharges:    row.BankCharges,
		}
		if adj.IsZero() {
			continue
		}

		invoice, err := s.invoiceRepo.GetByID(ctx, row.InvoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: invoice %s", ErrNotFound, row.InvoiceID)
			}
			return nil, nil, err
		}

		balance := invoice.OpenBalance.Sub(adj.Total())
		if balance.Decimal.IsNegative() {
			balance = domain.ZeroAmount
		}
		invoice.OpenBalance = balance
		if balance.Decimal.IsPositive() {
			invoice.Status = domain.InvoiceStatusPartial
		} else {
			invoice.Status = domain.InvoiceStatusPaid
		}

		adjustments = append(adjustments, adj)
		invoices = append(invoices, *invoice)
	}

	if len(adjustments) == 0 {
		return nil, nil, ErrNoAdjustments
	}
	return adjustments, invoices, nil
}

func (s *ReceiptVoucherService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceiptVoucherDTO, error) {
	return s.getDTO(ctx, id)
}

func (s *ReceiptVoucherService) List(ctx context.Context, page, pageSize int, customerName string) (*domain.PagedResponse[domain.ReceiptVoucherDTO], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	vouchers, total, err := s.voucherRepo.List(ctx, page, pageSize, customerName)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ReceiptVoucherDTO, 0, len(vouchers))
	for i := range vouchers {
		items = append(items, mapper.ToReceiptVoucherDTO(&vouchers[i]))
	}

	return &domain.PagedResponse[domain.ReceiptVoucherDTO]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *ReceiptVoucherService) getDTO(ctx context.Context, id uuid.UUID) (*domain.ReceiptVoucherDTO, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToReceiptVoucherDTO(voucher)
	return &dto, nil
}
