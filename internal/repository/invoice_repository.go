package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Invoice{}, "id = ?", id).Error
}

func (r *InvoiceRepository) List(ctx context.Context, page, pageSize int, status *domain.InvoiceStatus, customerName string) ([]domain.Invoice, int64, error) {
	var invoices []domain.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Invoice{})

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
	err := query.Offset(offset).Limit(pageSize).Order("invoice_date DESC, created_at DESC").Find(&invoices).Error

	return invoices, total, err
}

// ListOpenByCustomer returns unsettled invoices for a customer, oldest
// first.
func (r *InvoiceRepository) ListOpenByCustomer(ctx context.Context, customerName string) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("status IN ?", []domain.InvoiceStatus{domain.InvoiceStatusOpen, domain.InvoiceStatusPartial}).
		Where("LOWER(customer_name) = ?", strings.ToLower(strings.TrimSpace(customerName))).
		Order("invoice_date ASC, created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

// OpenStats returns the count of unsettled invoices and their combined
// open balance.
func (r *InvoiceRepository) OpenStats(ctx context.Context) (int64, domain.Amount, error) {
	openStatuses := []domain.InvoiceStatus{domain.InvoiceStatusOpen, domain.InvoiceStatusPartial}

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("status IN ?", openStatuses).
		Count(&count).Error; err != nil {
		return 0, domain.ZeroAmount, err
	}

	var total domain.Amount
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("status IN ?", openStatuses).
		Select("COALESCE(SUM(open_balance), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, domain.ZeroAmount, err
	}
	return count, total, nil
}
