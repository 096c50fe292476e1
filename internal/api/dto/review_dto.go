package dto

import "time"

// ==================== Reviews ====================

// CriterionInput one externally-defined rating criterion.
type CriterionInput struct {
	Points float64 `json:"points"`
	Label  string  `json:"label"`
}

// CreateReviewRequest a scored review. FinalScore is precomputed by the
// submitter and trusted at write time.
type CreateReviewRequest struct {
	Criteria   map[string]CriterionInput `json:"criteria"`
	FinalScore float64                   `json:"final_score"`
	Comment    string                    `json:"comment"`
	WorkPhotos []string                  `json:"work_photos"`
}

// ReviewInfo review view.
type ReviewInfo struct {
	ID          int64                     `json:"id"`
	ArtisanID   int64                     `json:"artisan_id"`
	Criteria    map[string]CriterionInput `json:"criteria"`
	FinalScore  float64                   `json:"final_score"`
	Comment     string                    `json:"comment,omitempty"`
	WorkPhotos  []string                  `json:"work_photos,omitempty"`
	SubmittedBy int64                     `json:"submitted_by"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// ReviewStatsView aggregate of all reviews of one artisan. HasData is false
// for artisans without reviews; averages are then absent, never NaN.
type ReviewStatsView struct {
	HasData      bool               `json:"has_data"`
	Count        int                `json:"count"`
	AverageScore float64            `json:"average_score"`
	PerCriterion map[string]float64 `json:"per_criterion,omitempty"`
}

// ReviewListResponse reviews plus their aggregate.
type ReviewListResponse struct {
	List  []*ReviewInfo    `json:"list"`
	Stats *ReviewStatsView `json:"stats"`
}
