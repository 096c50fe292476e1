package service

import (
	"context"
	"errors"
	"math"

	"gorm.io/datatypes"

	"annuaire_artisans/internal/api/dto"
	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
)

// ==================== ReviewService ====================

// ReviewService stores scored reviews and computes their aggregates.
type ReviewService struct {
	reviews  repository.ReviewRepository
	artisans repository.ArtisanRepository
}

// NewReviewService creates the review service.
func NewReviewService(reviews repository.ReviewRepository, artisans repository.ArtisanRepository) *ReviewService {
	return &ReviewService{reviews: reviews, artisans: artisans}
}

const maxWorkPhotos = 5

// Create stores a review. Anonymous callers are rejected: review creation
// requires a verified identity, unlike the public artisan submission path.
func (s *ReviewService) Create(ctx context.Context, artisanID int64, req *dto.CreateReviewRequest, submitter SubmitterContext) (*model.Review, error) {
	if submitter.UserID == 0 {
		return nil, ErrAnonymousReview
	}
	if len(req.WorkPhotos) > maxWorkPhotos {
		return nil, &ValidationError{Violations: []string{"at most 5 work photos"}}
	}

	if _, err := s.artisans.GetByID(ctx, artisanID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArtisanNotFound
		}
		return nil, err
	}

	criteria := make(map[string]model.CriterionScore, len(req.Criteria))
	for id, c := range req.Criteria {
		criteria[id] = model.CriterionScore{Points: c.Points, Label: c.Label}
	}

	review := &model.Review{
		ArtisanID:   artisanID,
		Criteria:    datatypes.NewJSONType(criteria),
		FinalScore:  req.FinalScore,
		Comment:     req.Comment,
		WorkPhotos:  datatypes.NewJSONSlice(req.WorkPhotos),
		SubmittedBy: submitter.UserID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListWithStats returns an artisan's reviews together with their aggregate.
func (s *ReviewService) ListWithStats(ctx context.Context, artisanID int64) (*dto.ReviewListResponse, error) {
	reviews, err := s.reviews.ListByArtisan(ctx, artisanID)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ReviewInfo, len(reviews))
	for i := range reviews {
		list[i] = toReviewInfo(&reviews[i])
	}

	stats := Aggregate(reviews)
	return &dto.ReviewListResponse{List: list, Stats: &stats}, nil
}

// ==================== Aggregation ====================

// Aggregate computes the overall and per-criterion averages of a set of
// reviews, one decimal of precision. Criteria sets may differ between reviews:
// each criterion is averaged over only the reviews that include it. Empty
// input yields an explicit no-data result, never a division by zero.
func Aggregate(reviews []model.Review) dto.ReviewStatsView {
	if len(reviews) == 0 {
		return dto.ReviewStatsView{HasData: false}
	}

	var scoreSum float64
	criterionSums := make(map[string]float64)
	criterionCounts := make(map[string]int)

	for i := range reviews {
		scoreSum += reviews[i].FinalScore
		for id, c := range reviews[i].Criteria.Data() {
			criterionSums[id] += c.Points
			criterionCounts[id]++
		}
	}

	perCriterion := make(map[string]float64, len(criterionSums))
	for id, sum := range criterionSums {
		perCriterion[id] = round1(sum / float64(criterionCounts[id]))
	}

	return dto.ReviewStatsView{
		HasData:      true,
		Count:        len(reviews),
		AverageScore: round1(scoreSum / float64(len(reviews))),
		PerCriterion: perCriterion,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ==================== Conversion ====================

func toReviewInfo(r *model.Review) *dto.ReviewInfo {
	criteria := make(map[string]dto.CriterionInput)
	for id, c := range r.Criteria.Data() {
		criteria[id] = dto.CriterionInput{Points: c.Points, Label: c.Label}
	}
	return &dto.ReviewInfo{
		ID:          r.ID,
		ArtisanID:   r.ArtisanID,
		Criteria:    criteria,
		FinalScore:  r.FinalScore,
		Comment:     r.Comment,
		WorkPhotos:  r.WorkPhotos,
		SubmittedBy: r.SubmittedBy,
		CreatedAt:   r.CreatedAt,
	}
}

// ==================== Errors ====================

var (
	ErrAnonymousReview = errors.New("review creation requires authentication")
	ErrArtisanNotFound = errors.New("artisan not found")
)
