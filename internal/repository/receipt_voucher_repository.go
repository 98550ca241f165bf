package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

type ReceiptVoucherRepository struct {
	db *gorm.DB
}

func NewReceiptVoucherRepository(db *gorm.DB) *ReceiptVoucherRepository {
	return &ReceiptVoucherRepository{db: db}
}

func (r *ReceiptVoucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceiptVoucher, error) {
	var voucher domain.ReceiptVoucher
	err := r.db.WithContext(ctx).
		Preload("Adjustments").
		Preload("Adjustments.Invoice").
		Preload("Attachments").
		Where("id = ?", id).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// GetByIDs loads the vouchers for the given ids. Callers check the
// returned length against the requested one to detect missing vouchers.
func (r *ReceiptVoucherRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.ReceiptVoucher, error) {
	var vouchers []domain.ReceiptVoucher
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vouchers).Error
	return vouchers, err
}

func (r *ReceiptVoucherRepository) List(ctx context.Context, page, pageSize int, customerName string) ([]domain.ReceiptVoucher, int64, error) {
	var vouchers []domain.ReceiptVoucher
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ReceiptVoucher{}).
		Preload("Adjustments").
		Preload("Adjustments.Invoice")

	if customerName != "" {
		query = query.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(customerName)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&vouchers).Error

	return vouchers, total, err
}

// CreateWithAdjustments persists a voucher, its adjustments and the
// updated invoices atomically.
func (r *ReceiptVoucherRepository) CreateWithAdjustments(ctx context.Context, voucher *domain.ReceiptVoucher, invoices []domain.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(voucher).Error; err != nil {
			return err
		}
		for i := range invoices {
			if err := tx.Save(&invoices[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ReceiptVoucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ReceiptVoucher{}, "id = ?", id).Error
}
