package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"annuaire_artisans/internal/api/dto"
	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
)

func newTestReviewService(t *testing.T) (*ReviewService, *ArtisanService) {
	artisanSvc, _, db := newTestPipeline(t)
	reviewSvc := NewReviewService(repository.NewReviewRepository(db), repository.NewArtisanRepository(db))
	return reviewSvc, artisanSvc
}

func seedArtisan(t *testing.T, artisanSvc *ArtisanService) int64 {
	t.Helper()
	result, err := artisanSvc.Submit(context.Background(), &dto.SubmitArtisanRequest{
		FullName: "Awa Traoré",
		Zones:    []string{"Cocody"},
	}, SubmitterContext{})
	if err != nil {
		t.Fatalf("seed artisan: %v", err)
	}
	return result.Artisan.ID
}

func reviewWith(score float64, criteria map[string]model.CriterionScore) model.Review {
	return model.Review{
		FinalScore: score,
		Criteria:   datatypes.NewJSONType(criteria),
	}
}

// ==================== Aggregation ====================

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)
	if stats.HasData {
		t.Errorf("empty aggregate has data: %+v", stats)
	}
	if stats.Count != 0 || stats.AverageScore != 0 {
		t.Errorf("empty aggregate = %+v", stats)
	}
}

func TestAggregate_MixedCriteriaSets(t *testing.T) {
	// Criterion "b" only appears in the first review, so its average is over
	// one review, not divided by two.
	stats := Aggregate([]model.Review{
		reviewWith(8, map[string]model.CriterionScore{
			"a": {Points: 8},
			"b": {Points: 4},
		}),
		reviewWith(10, map[string]model.CriterionScore{
			"a": {Points: 8},
		}),
	})

	if !stats.HasData || stats.Count != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.AverageScore != 9.0 {
		t.Errorf("average = %v, want 9.0", stats.AverageScore)
	}
	if stats.PerCriterion["a"] != 8.0 {
		t.Errorf("criterion a = %v, want 8.0", stats.PerCriterion["a"])
	}
	if stats.PerCriterion["b"] != 4.0 {
		t.Errorf("criterion b = %v, want 4.0 (averaged over one review)", stats.PerCriterion["b"])
	}
}

func TestAggregate_RoundsToOneDecimal(t *testing.T) {
	stats := Aggregate([]model.Review{
		reviewWith(7, nil),
		reviewWith(8, nil),
		reviewWith(8, nil),
	})
	if stats.AverageScore != 7.7 {
		t.Errorf("average = %v, want 7.7", stats.AverageScore)
	}
}

// ==================== Creation ====================

func TestReviewCreate_RequiresIdentity(t *testing.T) {
	reviewSvc, artisanSvc := newTestReviewService(t)
	artisanID := seedArtisan(t, artisanSvc)

	_, err := reviewSvc.Create(context.Background(), artisanID, &dto.CreateReviewRequest{FinalScore: 8}, SubmitterContext{})
	if !errors.Is(err, ErrAnonymousReview) {
		t.Errorf("anonymous create err = %v, want ErrAnonymousReview", err)
	}
}

func TestReviewCreate_UnknownArtisan(t *testing.T) {
	reviewSvc, _ := newTestReviewService(t)

	_, err := reviewSvc.Create(context.Background(), 9999, &dto.CreateReviewRequest{FinalScore: 8}, SubmitterContext{UserID: 3})
	if !errors.Is(err, ErrArtisanNotFound) {
		t.Errorf("unknown artisan err = %v, want ErrArtisanNotFound", err)
	}
}

func TestReviewCreate_PhotoCap(t *testing.T) {
	reviewSvc, artisanSvc := newTestReviewService(t)
	artisanID := seedArtisan(t, artisanSvc)

	_, err := reviewSvc.Create(context.Background(), artisanID, &dto.CreateReviewRequest{
		FinalScore: 8,
		WorkPhotos: []string{"1", "2", "3", "4", "5", "6"},
	}, SubmitterContext{UserID: 3})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("six photos err = %v, want ValidationError", err)
	}
}

func TestReviewListWithStats(t *testing.T) {
	reviewSvc, artisanSvc := newTestReviewService(t)
	ctx := context.Background()
	artisanID := seedArtisan(t, artisanSvc)

	for _, score := range []float64{8, 10} {
		_, err := reviewSvc.Create(ctx, artisanID, &dto.CreateReviewRequest{
			Criteria:   map[string]dto.CriterionInput{"quality": {Points: score, Label: "Qualité"}},
			FinalScore: score,
			Comment:    "très bon travail",
		}, SubmitterContext{UserID: 3})
		if err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	resp, err := reviewSvc.ListWithStats(ctx, artisanID)
	if err != nil {
		t.Fatalf("ListWithStats: %v", err)
	}
	if len(resp.List) != 2 {
		t.Errorf("reviews = %d, want 2", len(resp.List))
	}
	if resp.Stats == nil || !resp.Stats.HasData || resp.Stats.AverageScore != 9.0 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if resp.Stats.PerCriterion["quality"] != 9.0 {
		t.Errorf("quality = %v, want 9.0", resp.Stats.PerCriterion["quality"])
	}
	if resp.List[0].SubmittedBy != 3 {
		t.Errorf("SubmittedBy = %d, want the review author", resp.List[0].SubmittedBy)
	}

	// an artisan without reviews aggregates to no-data, not zeros pretending to be scores
	empty, err := reviewSvc.ListWithStats(ctx, artisanID+1000)
	if err != nil {
		t.Fatalf("ListWithStats empty: %v", err)
	}
	if empty.Stats.HasData {
		t.Errorf("empty stats = %+v, want HasData false", empty.Stats)
	}
}
