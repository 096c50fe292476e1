package model

import "gorm.io/datatypes"

// ==================== Review ====================

// CriterionScore is one entry of the rating-criteria map. The criterion set is
// externally configured; nothing here hard-codes it.
type CriterionScore struct {
	Points float64 `json:"points"`
	Label  string  `json:"label,omitempty"`
}

// Review is a scored review of an artisan. FinalScore is computed by the
// submitter and trusted as authoritative at write time.
type Review struct {
	BaseModel

	ArtisanID int64 `gorm:"not null;index" json:"artisan_id"`

	// Criteria maps an external criterion id to its score.
	Criteria   datatypes.JSONType[map[string]CriterionScore] `json:"criteria"`
	FinalScore float64                                       `gorm:"not null" json:"final_score"`
	Comment    string                                        `gorm:"type:text" json:"comment,omitempty"`

	// Up to five work-photo references owned by the storage collaborator.
	WorkPhotos datatypes.JSONSlice[string] `json:"work_photos,omitempty"`

	SubmittedBy int64 `gorm:"not null;index" json:"submitted_by"`
}

func (Review) TableName() string { return "reviews" }
