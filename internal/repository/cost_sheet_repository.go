package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

type CostSheetRepository struct {
	db *gorm.DB
}

func NewCostSheetRepository(db *gorm.DB) *CostSheetRepository {
	return &CostSheetRepository{db: db}
}

// itemPreloads are the line-item associations loaded with a full sheet.
var itemPreloads = []string{
	"LicenseItems",
	"ImplementationItems",
	"SupportItems",
	"InfraItems",
	"OtherItems",
	"Attachments",
}

func (r *CostSheetRepository) Create(ctx context.Context, sheet *domain.CostSheet) error {
	return r.db.WithContext(ctx).Create(sheet).Error
}

func (r *CostSheetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CostSheet, error) {
	var sheet domain.CostSheet
	query := r.db.WithContext(ctx).Preload("Lead")
	for _, assoc := range itemPreloads {
		query = query.Preload(assoc)
	}
	if err := query.Where("id = ?", id).First(&sheet).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *CostSheetRepository) Update(ctx context.Context, sheet *domain.CostSheet) error {
	return r.db.WithContext(ctx).Save(sheet).Error
}

func (r *CostSheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.CostSheet{}, "id = ?", id).Error
}

// ReplaceItems swaps the full line-item set of a sheet and persists the
// recomputed totals in one transaction.
func (r *CostSheetRepository) ReplaceItems(ctx context.Context, sheet *domain.CostSheet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemModels := []interface{}{
			&domain.LicenseItem{},
			&domain.ImplementationItem{},
			&domain.SupportItem{},
			&domain.InfraItem{},
			&domain.OtherItem{},
		}
		for _, model := range itemModels {
			if err := tx.Where("cost_sheet_id = ?", sheet.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(sheet).Error
	})
}

// List returns cost sheets matching the filters with pagination.
func (r *CostSheetRepository) List(ctx context.Context, page, pageSize int, filters *CostSheetFilters) ([]domain.CostSheet, int64, error) {
	var sheets []domain.CostSheet
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.CostSheet{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&sheets).Error

	return sheets, total, err
}

// ListFiltered returns all sheets matching the filters without pagination,
// for the dashboard and CSV export.
func (r *CostSheetRepository) ListFiltered(ctx context.Context, filters *CostSheetFilters) ([]domain.CostSheet, error) {
	var sheets []domain.CostSheet
	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.CostSheet{}), filters)
	err := query.Order("created_at DESC").Find(&sheets).Error
	return sheets, err
}

func (r *CostSheetRepository) applyFilters(query *gorm.DB, filters *CostSheetFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != "" {
		query = query.Where("status = ?", strings.ToUpper(strings.TrimSpace(filters.Status)))
	}

	textFilters := map[string]string{
		"customer_name":   filters.CustomerName,
		"project_name":    filters.ProjectName,
		"project_manager": filters.ProjectManager,
		"sales_person":    filters.SalesPerson,
		"sheet_number":    filters.SheetNumber,
	}
	for column, value := range textFilters {
		if value != "" {
			query = query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(value)+"%")
		}
	}

	if filters.LeadNumber != "" {
		// lead_number lives on the leads table
		sub := r.db.Model(&domain.Lead{}).Select("id").
			Where("LOWER(lead_number) LIKE ?", "%"+strings.ToLower(filters.LeadNumber)+"%")
		query = query.Where("lead_id IN (?)", sub)
	}

	if start, end, ok := filters.DateWindow(nowUTC()); ok {
		// the sheet date governs when present, otherwise creation time
		query = query.Where(
			"(date IS NOT NULL AND date >= ? AND date <= ?) OR (date IS NULL AND created_at >= ? AND created_at <= ?)",
			start, end, start, end,
		)
	}

	return query
}

// CountByStatus returns the number of sheets per status for the filtered
// set.
func (r *CostSheetRepository) CountByStatus(ctx context.Context, filters *CostSheetFilters) (map[domain.CostSheetStatus]int64, error) {
	type statusCount struct {
		Status domain.CostSheetStatus
		Count  int64
	}

	var rows []statusCount
	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.CostSheet{}), filters)
	err := query.Select("status, COUNT(*) as count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.CostSheetStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
