package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"annuaire_artisans/internal/model"
)

// ==================== Test helpers ====================

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.SysUser{},
		&model.TaxonomyTerm{},
		&model.Artisan{}, &model.PhoneNumber{}, &model.SocialLink{},
		&model.Review{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func mustCreateArtisan(t *testing.T, repo ArtisanRepository, name, slug string) *model.Artisan {
	t.Helper()
	artisan := &model.Artisan{
		FullName: name,
		Slug:     slug,
		Status:   model.ArtisanStatusApproved,
	}
	if err := repo.Create(context.Background(), artisan); err != nil {
		t.Fatalf("create artisan %q: %v", slug, err)
	}
	return artisan
}
