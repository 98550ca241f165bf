package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

type BankTransactionRepository struct {
	db *gorm.DB
}

func NewBankTransactionRepository(db *gorm.DB) *BankTransactionRepository {
	return &BankTransactionRepository{db: db}
}

func (r *BankTransactionRepository) Create(ctx context.Context, txn *domain.BankTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *BankTransactionRepository) CreateBatch(ctx context.Context, txns []domain.BankTransaction) error {
	if len(txns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txns).Error
}

func (r *BankTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankTransaction, error) {
	var txn domain.BankTransaction
	err := r.db.WithContext(ctx).
		Preload("Connection").
		Where("id = ?", id).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *BankTransactionRepository) Update(ctx context.Context, txn *domain.BankTransaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *BankTransactionRepository) List(ctx context.Context, page, pageSize int, status *domain.BankTransactionStatus, customerName string) ([]domain.BankTransaction, int64, error) {
	var txns []domain.BankTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.BankTransaction{}).Preload("Connection")

	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if customerName != "" {
		query = query.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(customerName)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("transaction_date DESC, created_at DESC").Find(&txns).Error

	return txns, total, err
}

// Reconcile saves the matched transaction and the vouchers it settles in a
// single database transaction so a partial match is never observable.
func (r *BankTransactionRepository) Reconcile(ctx context.Context, txn *domain.BankTransaction, vouchers []domain.ReceiptVoucher) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(txn).Error; err != nil {
			return err
		}
		for i := range vouchers {
			if err := tx.Save(&vouchers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistsByReference reports whether a deposit with the same connection and
// bank reference was already imported. Used to de-duplicate feed syncs.
func (r *BankTransactionRepository) ExistsByReference(ctx context.Context, connectionID uuid.UUID, reference string) (bool, error) {
	if reference == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.BankTransaction{}).
		Where("connection_id = ? AND reference = ?", connectionID, reference).
		Count(&count).Error
	return count > 0, err
}

func (r *BankTransactionRepository) CountByStatus(ctx context.Context, status domain.BankTransactionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.BankTransaction{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
