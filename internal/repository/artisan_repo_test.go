package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"annuaire_artisans/internal/model"
)

func TestArtisanRepo_SlugConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArtisanRepository(db)
	ctx := context.Background()

	mustCreateArtisan(t, repo, "Awa Traoré", "awa-traore")

	dup := &model.Artisan{FullName: "Awa Traore", Slug: "awa-traore", Status: model.ArtisanStatusApproved}
	err := repo.Create(ctx, dup)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate slug err = %v, want ErrConflict", err)
	}

	exists, err := repo.SlugExists(ctx, "awa-traore")
	if err != nil || !exists {
		t.Errorf("SlugExists = (%v, %v), want (true, nil)", exists, err)
	}
	exists, err = repo.SlugExists(ctx, "awa-traore-1")
	if err != nil || exists {
		t.Errorf("SlugExists free slug = (%v, %v), want (false, nil)", exists, err)
	}
}

func TestArtisanRepo_PhoneConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArtisanRepository(db)
	ctx := context.Background()

	a := mustCreateArtisan(t, repo, "Moussa Koné", "moussa-kone")
	b := mustCreateArtisan(t, repo, "Issa Diarra", "issa-diarra")

	if err := repo.CreatePhone(ctx, &model.PhoneNumber{ArtisanID: a.ID, Number: "+2250701020304"}); err != nil {
		t.Fatalf("first phone: %v", err)
	}

	// The number is unique across the whole directory, not per artisan.
	err := repo.CreatePhone(ctx, &model.PhoneNumber{ArtisanID: b.ID, Number: "+2250701020304"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate phone err = %v, want ErrConflict", err)
	}
}

func TestArtisanRepo_SocialLinkConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArtisanRepository(db)
	ctx := context.Background()

	a := mustCreateArtisan(t, repo, "Awa Traoré", "awa-traore")

	link := &model.SocialLink{ArtisanID: a.ID, Platform: model.PlatformFacebook, URL: "https://facebook.com/awa"}
	if err := repo.CreateSocialLink(ctx, link); err != nil {
		t.Fatalf("first link: %v", err)
	}

	dup := &model.SocialLink{ArtisanID: a.ID, Platform: model.PlatformOther, URL: "https://facebook.com/awa"}
	err := repo.CreateSocialLink(ctx, dup)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate link err = %v, want ErrConflict", err)
	}
}

func TestArtisanRepo_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArtisanRepository(db)
	ctx := context.Background()

	a := mustCreateArtisan(t, repo, "Awa Traoré", "awa-traore")

	if err := repo.UpdateStatus(ctx, a.ID, model.ArtisanStatusRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.ArtisanStatusRejected {
		t.Errorf("status = %s, want rejected", got.Status)
	}

	err = repo.UpdateStatus(ctx, 9999, model.ArtisanStatusApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id err = %v, want ErrNotFound", err)
	}
}

func TestArtisanRepo_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArtisanRepository(db)
	ctx := context.Background()

	a := mustCreateArtisan(t, repo, "Awa Traoré", "awa-traore")
	b := mustCreateArtisan(t, repo, "Moussa Koné", "moussa-kone")
	if err := repo.UpdateStatus(ctx, b.ID, model.ArtisanStatusRemoved); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// default listing hides removed entries
	list, total, err := repo.List(ctx, ArtisanFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != a.ID {
		t.Errorf("default list = %d entries (total %d), want only artisan %d", len(list), total, a.ID)
	}

	// explicit status shows them
	_, total, err = repo.List(ctx, ArtisanFilter{Status: model.ArtisanStatusRemoved})
	if err != nil {
		t.Fatalf("List removed: %v", err)
	}
	if total != 1 {
		t.Errorf("removed total = %d, want 1", total)
	}

	// keyword filter is lowercase-contains
	_, total, err = repo.List(ctx, ArtisanFilter{Keyword: "awa"})
	if err != nil {
		t.Fatalf("List keyword: %v", err)
	}
	if total != 1 {
		t.Errorf("keyword total = %d, want 1", total)
	}
}

func TestArtisanRepo_LinkCheckQueue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArtisanRepository(db)
	ctx := context.Background()

	a := mustCreateArtisan(t, repo, "Awa Traoré", "awa-traore")
	link := &model.SocialLink{ArtisanID: a.ID, Platform: model.PlatformWebsite, URL: "https://example.com"}
	if err := repo.CreateSocialLink(ctx, link); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	// never-checked links are due
	due, err := repo.ListLinksToCheck(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("ListLinksToCheck: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("due links = %d, want 1", len(due))
	}

	if err := repo.MarkLinkChecked(ctx, link.ID, true); err != nil {
		t.Fatalf("MarkLinkChecked: %v", err)
	}

	due, err = repo.ListLinksToCheck(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("ListLinksToCheck after mark: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("due links after mark = %d, want 0", len(due))
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.SocialLinks) != 1 || !got.SocialLinks[0].Verified {
		t.Errorf("link not marked verified: %+v", got.SocialLinks)
	}
}

func TestArtisanRepo_DeleteOwnedRecords(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArtisanRepository(db)
	ctx := context.Background()

	a := mustCreateArtisan(t, repo, "Awa Traoré", "awa-traore")
	if err := repo.CreatePhone(ctx, &model.PhoneNumber{ArtisanID: a.ID, Number: "+2250701020304"}); err != nil {
		t.Fatalf("seed phone: %v", err)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetByID(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete err = %v, want ErrNotFound", err)
	}

	var phones int64
	db.Model(&model.PhoneNumber{}).Where("artisan_id = ?", a.ID).Count(&phones)
	if phones != 0 {
		t.Errorf("owned phones after delete = %d, want 0", phones)
	}
}
