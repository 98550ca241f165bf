package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

// NumberSequenceRepository handles database operations for document number
// sequences. Each document type keeps an independent counter per year.
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// GetNextNumber atomically increments and returns the sequence for a
// document type and year, creating the counter on first use. The upsert
// increments in a single statement so concurrent callers never observe
// the same value.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, docType string, year int) (int, error) {
	var next int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq := domain.NumberSequence{
			DocType:      docType,
			Year:         year,
			LastSequence: 1,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "doc_type"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_sequence": gorm.Expr("last_sequence + 1"),
			}),
		}).Create(&seq).Error
		if err != nil {
			return fmt.Errorf("failed to advance number sequence: %w", err)
		}

		var current domain.NumberSequence
		if err := tx.Where("doc_type = ? AND year = ?", docType, year).First(&current).Error; err != nil {
			return fmt.Errorf("failed to read number sequence: %w", err)
		}
		next = current.LastSequence
		return nil
	})
	if err != nil {
		return 0, err
	}

	return next, nil
}

// GetCurrentSequence retrieves the current value without incrementing.
// Returns 0 if no sequence exists for the document type and year.
func (r *NumberSequenceRepository) GetCurrentSequence(ctx context.Context, docType string, year int) (int, error) {
	var seq domain.NumberSequence
	result := r.db.WithContext(ctx).
		Where("doc_type = ? AND year = ?", docType, year).
		First(&seq)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", result.Error)
	}

	return seq.LastSequence, nil
}

// ListSequences returns all sequences (useful for debugging/admin)
func (r *NumberSequenceRepository) ListSequences(ctx context.Context) ([]domain.NumberSequence, error) {
	var sequences []domain.NumberSequence
	err := r.db.WithContext(ctx).
		Order("doc_type ASC, year DESC").
		Find(&sequences).Error
	return sequences, err
}
