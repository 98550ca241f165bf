package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/repository"
)

// Document types with their own sequence counters.
const (
	docTypeLead           = "lead"
	docTypeCostSheet      = "cost_sheet"
	docTypeReceiptVoucher = "receipt_voucher"
)

// NumberSequenceService generates unique, formatted document numbers.
// Cost sheets are numbered per year (CS-2025-001); leads and receipt
// vouchers use single running counters (LD-001, RV-001).
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GenerateLeadNumber issues the next lead number.
// Format: LD-NNN, zero-padded to 3 digits, never resetting by year.
func (s *NumberSequenceService) GenerateLeadNumber(ctx context.Context) (string, error) {
	next, err := s.repo.GetNextNumber(ctx, docTypeLead, 0)
	if err != nil {
		s.logger.Error("failed to get next lead sequence", zap.Error(err))
		return "", fmt.Errorf("failed to generate lead number: %w", err)
	}

	number := fmt.Sprintf("LD-%03d", next)
	s.logger.Debug("generated lead number", zap.String("number", number))
	return number, nil
}

// GenerateCostSheetNumber issues the next cost sheet number.
// Format: CS-YYYY-NNN, zero-padded to 3 digits.
func (s *NumberSequenceService) GenerateCostSheetNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	next, err := s.repo.GetNextNumber(ctx, docTypeCostSheet, year)
	if err != nil {
		s.logger.Error("failed to get next cost sheet sequence",
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate cost sheet number: %w", err)
	}

	number := fmt.Sprintf("CS-%d-%03d", year, next)
	s.logger.Debug("generated cost sheet number", zap.String("number", number))
	return number, nil
}

// GenerateReceiptVoucherNumber issues the next receipt voucher number.
// Format: RV-NNN, zero-padded to 3 digits. The counter does not reset by
// year, so the year component of the sequence row is fixed at zero.
func (s *NumberSequenceService) GenerateReceiptVoucherNumber(ctx context.Context) (string, error) {
	next, err := s.repo.GetNextNumber(ctx, docTypeReceiptVoucher, 0)
	if err != nil {
		s.logger.Error("failed to get next receipt voucher sequence", zap.Error(err))
		return "", fmt.Errorf("failed to generate receipt voucher number: %w", err)
	}

	number := fmt.Sprintf("RV-%03d", next)
	s.logger.Debug("generated receipt voucher number", zap.String("number", number))
	return number, nil
}
