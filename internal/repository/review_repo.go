package repository

import (
	"context"

	"gorm.io/gorm"

	"annuaire_artisans/internal/model"
)

// ==================== Interface ====================

// ReviewRepository persists artisan reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	ListByArtisan(ctx context.Context, artisanID int64) ([]model.Review, error)
	CountByArtisan(ctx context.Context, artisanID int64) (int64, error)
}

// ==================== Implementation ====================

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepository creates the review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *model.Review) error {
	return translate(r.db.WithContext(ctx).Create(review).Error)
}

func (r *reviewRepo) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepo) ListByArtisan(ctx context.Context, artisanID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("artisan_id = ?", artisanID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) CountByArtisan(ctx context.Context, artisanID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("artisan_id = ?", artisanID).
		Count(&count).Error
	return count, err
}
