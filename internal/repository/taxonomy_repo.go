package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"annuaire_artisans/internal/model"
)

// ==================== Interface ====================

// TaxonomyRepository persists shared profession/zone terms.
type TaxonomyRepository interface {
	Create(ctx context.Context, term *model.TaxonomyTerm) error

	// FindMatch returns the first term of kind whose slug equals slug or whose
	// label contains label (case-insensitive), in store natural order.
	// Best-effort reuse, documented as non-deterministic across stores.
	// Returns (nil, nil) on no match.
	FindMatch(ctx context.Context, kind model.TaxonomyKind, slug, label string) (*model.TaxonomyTerm, error)

	GetByID(ctx context.Context, id int64) (*model.TaxonomyTerm, error)
	ListByKind(ctx context.Context, kind model.TaxonomyKind) ([]model.TaxonomyTerm, error)
}

// ==================== Implementation ====================

type taxonomyRepo struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates the taxonomy repository.
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepo{db: db}
}

func (r *taxonomyRepo) Create(ctx context.Context, term *model.TaxonomyTerm) error {
	return translate(r.db.WithContext(ctx).Create(term).Error)
}

func (r *taxonomyRepo) FindMatch(ctx context.Context, kind model.TaxonomyKind, slug, label string) (*model.TaxonomyTerm, error) {
	var term model.TaxonomyTerm
	err := r.db.WithContext(ctx).
		Where("kind = ? AND (slug = ? OR LOWER(label) LIKE ?)",
			kind, slug, "%"+strings.ToLower(label)+"%").
		First(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *taxonomyRepo) GetByID(ctx context.Context, id int64) (*model.TaxonomyTerm, error) {
	var term model.TaxonomyTerm
	if err := r.db.WithContext(ctx).First(&term, id).Error; err != nil {
		return nil, translate(err)
	}
	return &term, nil
}

func (r *taxonomyRepo) ListByKind(ctx context.Context, kind model.TaxonomyKind) ([]model.TaxonomyTerm, error) {
	var terms []model.TaxonomyTerm
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("label ASC").
		Find(&terms).Error
	return terms, err
}
