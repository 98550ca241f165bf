package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

type BankConnectionRepository struct {
	db *gorm.DB
}

func NewBankConnectionRepository(db *gorm.DB) *BankConnectionRepository {
	return &BankConnectionRepository{db: db}
}

func (r *BankConnectionRepository) Create(ctx context.Context, conn *domain.BankConnection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

func (r *BankConnectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankConnection, error) {
	var conn domain.BankConnection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *BankConnectionRepository) Update(ctx context.Context, conn *domain.BankConnection) error {
	return r.db.WithContext(ctx).Save(conn).Error
}

func (r *BankConnectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.BankConnection{}, "id = ?", id).Error
}

func (r *BankConnectionRepository) List(ctx context.Context) ([]domain.BankConnection, error) {
	var conns []domain.BankConnection
	err := r.db.WithContext(ctx).Order("bank_name ASC").Find(&conns).Error
	return conns, err
}

func (r *BankConnectionRepository) ListActive(ctx context.Context) ([]domain.BankConnection, error) {
	var conns []domain.BankConnection
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("bank_name ASC").Find(&conns).Error
	return conns, err
}

// MarkSynced records a successful feed refresh.
func (r *BankConnectionRepository) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.BankConnection{}).
		Where("id = ?", id).
		Update("last_synced_at", at).Error
}
