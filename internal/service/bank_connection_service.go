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

type BankConnectionService struct {
	connRepo *repository.BankConnectionRepository
	logger   *zap.Logger
}

func NewBankConnectionService(connRepo *repository.BankConnectionRepository, logger *zap.Logger) *BankConnectionService {
	return &BankConnectionService{connRepo: connRepo, logger: logger}
}

func (s *BankConnectionService) Create(ctx context.Context, req *domain.CreateBankConnectionRequest) (*domain.BankConnectionDTO, error) {
	conn := &domain.BankConnection{
		BankName:      strings.TrimSpace(req.BankName),
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		Provider:      req.Provider,
		IsActive:      true,
	}
	if conn.Provider == "" {
		conn.Provider = "simulated"
	}

	if err := s.connRepo.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to create bank connection: %w", err)
	}

	s.logger.Info("bank connection created",
		zap.String("connection_id", conn.ID.String()),
		zap.String("bank", conn.BankName),
	)

	dto := mapper.ToBankConnectionDTO(conn)
	return &dto, nil
}

func (s *BankConnectionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankConnectionDTO, error) {
	conn, err := s.connRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToBankConnectionDTO(conn)
	return &dto, nil
}

func (s *BankConnectionService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateBankConnectionRequest) (*domain.BankConnectionDTO, error) {
	conn, err := s.connRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.BankName != nil {
		conn.BankName = strings.TrimSpace(*req.BankName)
	}
	if req.AccountName != nil {
		conn.AccountName = *req.AccountName
	}
	if req.AccountNumber != nil {
		conn.AccountNumber = *req.AccountNumber
	}
	if req.IsActive != nil {
		conn.IsActive = *req.IsActive
	}

	if err := s.connRepo.Update(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to update bank connection: %w", err)
	}

	dto := mapper.ToBankConnectionDTO(conn)
	return &dto, nil
}

func (s *BankConnectionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.connRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.connRepo.Delete(ctx, id)
}

func (s *BankConnectionService) List(ctx context.Context) ([]domain.BankConnectionDTO, error) {
	conns, err := s.connRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]domain.BankConnectionDTO, 0, len(conns))
	for i := range conns {
		items = append(items, mapper.ToBankConnectionDTO(&conns[i]))
	}
	return items, nil
}
