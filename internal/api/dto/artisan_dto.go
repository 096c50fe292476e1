package dto

import "time"

// ==================== Submission ====================

// PhoneInput one phone number of a submission.
type PhoneInput struct {
	Number   string `json:"number"`
	WhatsApp bool   `json:"whatsapp"`
}

// SocialLinkInput one social link of a submission. Unknown platforms are
// coerced to "other" by the pipeline.
type SocialLinkInput struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SubmitArtisanRequest is one incoming submission, interactive or one batch
// row. Required-field validation is done by the pipeline so that all
// violations are reported at once, not by binding tags.
type SubmitArtisanRequest struct {
	FullName    string            `json:"full_name"`
	Profession  string            `json:"profession"`
	Zones       []string          `json:"zones"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	PhotoID     string            `json:"photo_id"`
	PhotoURL    string            `json:"photo_url"`
	Phones      []PhoneInput      `json:"phones"`
	SocialLinks []SocialLinkInput `json:"social_links"`
}

// AttachResultView per-item outcome of a sub-record attach, input order kept.
type AttachResultView struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubmitArtisanResponse the created entry plus per-item attach outcomes, so a
// caller can report "created, but 1 phone number was a duplicate".
type SubmitArtisanResponse struct {
	Artisan      *ArtisanInfo       `json:"artisan"`
	PhoneResults []AttachResultView `json:"phone_results"`
	LinkResults  []AttachResultView `json:"link_results"`
}

// ==================== Views ====================

// TermInfo a resolved taxonomy reference.
type TermInfo struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// PhoneInfo phone view.
type PhoneInfo struct {
	ID       int64  `json:"id"`
	Number   string `json:"number"`
	WhatsApp bool   `json:"whatsapp"`
}

// SocialLinkInfo social link view.
type SocialLinkInfo struct {
	ID       int64  `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Verified bool   `json:"verified"`
}

// ArtisanInfo full artisan view.
type ArtisanInfo struct {
	ID              int64            `json:"id"`
	FullName        string           `json:"full_name"`
	Slug            string           `json:"slug"`
	Description     string           `json:"description,omitempty"`
	Status          string           `json:"status"`
	CommunityOrigin bool             `json:"community_origin"`
	PhotoURL        string           `json:"photo_url,omitempty"`
	Profession      *TermInfo        `json:"profession,omitempty"`
	Zones           []TermInfo       `json:"zones"`
	Phones          []PhoneInfo      `json:"phones"`
	SocialLinks     []SocialLinkInfo `json:"social_links"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ==================== Listing / moderation ====================

// ArtisanListRequest listing filters.
type ArtisanListRequest struct {
	Status     string `form:"status"`
	Profession string `form:"profession"`
	Zone       string `form:"zone"`
	Keyword    string `form:"keyword"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// ArtisanListResponse paged listing.
type ArtisanListResponse struct {
	List  []*ArtisanInfo `json:"list"`
	Total int64          `json:"total"`
}

// UpdateStatusRequest moderation status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ==================== Batch import ====================

// RowResult one row of the import report. Index is the original row index so
// callers can correlate back to source rows.
type RowResult struct {
	Index   int          `json:"index"`
	Success bool         `json:"success"`
	Artisan *ArtisanInfo `json:"artisan,omitempty"`
	Errors  []string     `json:"errors,omitempty"`
}

// BatchImportReport aggregate import outcome. Created+Failed always equals
// Total; Results preserve input order.
type BatchImportReport struct {
	Success bool        `json:"success"`
	Total   int         `json:"total"`
	Created int         `json:"created"`
	Failed  int         `json:"failed"`
	Results []RowResult `json:"results"`
}
