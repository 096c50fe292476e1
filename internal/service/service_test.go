package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"annuaire_artisans/internal/middleware"
	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
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

	middleware.RegisterAuditCallbacks(db)
	return db
}

// newTestPipeline wires the full submission pipeline on a fresh database.
func newTestPipeline(t *testing.T) (*ArtisanService, *TaxonomyService, *gorm.DB) {
	db := setupTestDB(t)
	taxonomySvc := NewTaxonomyService(repository.NewTaxonomyRepository(db))
	artisanSvc := NewArtisanService(repository.NewArtisanRepository(db), taxonomySvc)
	return artisanSvc, taxonomySvc, db
}
