package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"annuaire_artisans/internal/model"
)

// ==================== Interface ====================

// ArtisanRepository persists directory entries and their owned sub-records.
type ArtisanRepository interface {
	Create(ctx context.Context, artisan *model.Artisan) error
	GetByID(ctx context.Context, id int64) (*model.Artisan, error)
	GetBySlug(ctx context.Context, slug string) (*model.Artisan, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status model.ArtisanStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ArtisanFilter) ([]model.Artisan, int64, error)

	// Sub-records and associations
	CreatePhone(ctx context.Context, phone *model.PhoneNumber) error
	CreateSocialLink(ctx context.Context, link *model.SocialLink) error
	SetZones(ctx context.Context, artisan *model.Artisan, zones []model.TaxonomyTerm) error

	// Link-check support
	ListLinksToCheck(ctx context.Context, checkedBefore time.Time, limit int) ([]model.SocialLink, error)
	MarkLinkChecked(ctx context.Context, id int64, verified bool) error

	// Transactions. Calling Transaction on an already transactional repository
	// nests via savepoint, which is what gives the sub-record attacher its
	// per-item isolation.
	WithTx(tx *gorm.DB) ArtisanRepository
	Transaction(ctx context.Context, fn func(txRepo ArtisanRepository) error) error
}

// ==================== Filter ====================

// ArtisanFilter narrows List results.
type ArtisanFilter struct {
	Status         model.ArtisanStatus
	ProfessionSlug string
	ZoneSlug       string
	Keyword        string
	Page           int
	PageSize       int
}

// ==================== Implementation ====================

type artisanRepo struct {
	db *gorm.DB
}

// NewArtisanRepository creates the artisan repository.
func NewArtisanRepository(db *gorm.DB) ArtisanRepository {
	return &artisanRepo{db: db}
}

func (r *artisanRepo) Create(ctx context.Context, artisan *model.Artisan) error {
	// Associations are attached explicitly by the pipeline; don't let gorm
	// auto-save them here.
	return translate(r.db.WithContext(ctx).Omit("Zones", "Phones", "SocialLinks", "Profession").Create(artisan).Error)
}

func (r *artisanRepo) GetByID(ctx context.Context, id int64) (*model.Artisan, error) {
	var artisan model.Artisan
	err := r.db.WithContext(ctx).
		Preload("Profession").
		Preload("Zones").
		Preload("Phones").
		Preload("SocialLinks").
		First(&artisan, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &artisan, nil
}

func (r *artisanRepo) GetBySlug(ctx context.Context, slug string) (*model.Artisan, error) {
	var artisan model.Artisan
	err := r.db.WithContext(ctx).
		Preload("Profession").
		Preload("Zones").
		Preload("Phones").
		Preload("SocialLinks").
		Where("slug = ?", slug).
		First(&artisan).Error
	if err != nil {
		return nil, translate(err)
	}
	return &artisan, nil
}

func (r *artisanRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	// Unscoped: soft-deleted rows still occupy the unique index, so their
	// slugs are not free for reallocation.
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.Artisan{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *artisanRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return translate(r.db.WithContext(ctx).
		Model(&model.Artisan{}).
		Where("id = ?", id).
		Updates(fields).Error)
}

func (r *artisanRepo) UpdateStatus(ctx context.Context, id int64, status model.ArtisanStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Artisan{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *artisanRepo) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).Select("Phones", "SocialLinks").Delete(&model.Artisan{BaseModel: model.BaseModel{ID: id}}).Error)
}

func (r *artisanRepo) List(ctx context.Context, filter ArtisanFilter) ([]model.Artisan, int64, error) {
	var artisans []model.Artisan
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Artisan{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status != ?", model.ArtisanStatusRemoved)
	}
	if filter.ProfessionSlug != "" {
		query = query.Joins("JOIN taxonomy_terms p ON p.id = artisans.profession_id").
			Where("p.slug = ?", filter.ProfessionSlug)
	}
	if filter.ZoneSlug != "" {
		query = query.Joins("JOIN artisan_zones az ON az.artisan_id = artisans.id").
			Joins("JOIN taxonomy_terms z ON z.id = az.taxonomy_term_id").
			Where("z.slug = ?", filter.ZoneSlug)
	}
	if filter.Keyword != "" {
		query = query.Where("LOWER(full_name) LIKE ?", "%"+filter.Keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.
		Preload("Profession").
		Preload("Zones").
		Order("artisans.created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&artisans).Error

	return artisans, total, err
}

func (r *artisanRepo) CreatePhone(ctx context.Context, phone *model.PhoneNumber) error {
	return translate(r.db.WithContext(ctx).Create(phone).Error)
}

func (r *artisanRepo) CreateSocialLink(ctx context.Context, link *model.SocialLink) error {
	return translate(r.db.WithContext(ctx).Create(link).Error)
}

func (r *artisanRepo) SetZones(ctx context.Context, artisan *model.Artisan, zones []model.TaxonomyTerm) error {
	return r.db.WithContext(ctx).Model(artisan).Association("Zones").Replace(zones)
}

func (r *artisanRepo) ListLinksToCheck(ctx context.Context, checkedBefore time.Time, limit int) ([]model.SocialLink, error) {
	var links []model.SocialLink
	err := r.db.WithContext(ctx).
		Where("last_checked_at IS NULL OR last_checked_at < ?", checkedBefore).
		Limit(limit).
		Find(&links).Error
	return links, err
}

func (r *artisanRepo) MarkLinkChecked(ctx context.Context, id int64, verified bool) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.SocialLink{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verified":        verified,
			"last_checked_at": &now,
		}).Error
}

func (r *artisanRepo) WithTx(tx *gorm.DB) ArtisanRepository {
	return &artisanRepo{db: tx}
}

func (r *artisanRepo) Transaction(ctx context.Context, fn func(txRepo ArtisanRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
