package model

import (
	"strings"
	"time"
)

// ==================== Artisan ====================

// ArtisanStatus lifecycle state of a directory entry.
type ArtisanStatus string

const (
	ArtisanStatusPending  ArtisanStatus = "pending"
	ArtisanStatusApproved ArtisanStatus = "approved"
	ArtisanStatusRejected ArtisanStatus = "rejected"
	ArtisanStatusRemoved  ArtisanStatus = "removed"
)

// Valid reports whether s is a known status.
func (s ArtisanStatus) Valid() bool {
	switch s {
	case ArtisanStatusPending, ArtisanStatusApproved, ArtisanStatusRejected, ArtisanStatusRemoved:
		return true
	}
	return false
}

// Artisan is the primary directory entry. Phones and social links are owned
// (deleted with the artisan); profession and zones are shared taxonomy terms.
type Artisan struct {
	BaseModel

	FullName    string        `gorm:"size:255;not null" json:"full_name"`
	Slug        string        `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ArtisanStatus `gorm:"size:16;not null;index;default:approved" json:"status"`

	// CommunityOrigin marks entries submitted by the public rather than a
	// privileged operator.
	CommunityOrigin bool `gorm:"not null;default:true" json:"community_origin"`

	// SubmittedBy is filled by the audit callback from the request context.
	// Zero for anonymous submissions and for batch-imported rows.
	SubmittedBy int64 `gorm:"index" json:"submitted_by,omitempty"`

	// Profile photo reference owned by the storage collaborator.
	PhotoID  string `gorm:"size:64" json:"photo_id,omitempty"`
	PhotoURL string `gorm:"size:512" json:"photo_url,omitempty"`

	ProfessionID *int64        `gorm:"index" json:"profession_id,omitempty"`
	Profession   *TaxonomyTerm `gorm:"foreignKey:ProfessionID" json:"profession,omitempty"`
	Zones        []TaxonomyTerm `gorm:"many2many:artisan_zones" json:"zones,omitempty"`

	Phones      []PhoneNumber `gorm:"foreignKey:ArtisanID;constraint:OnDelete:CASCADE" json:"phones,omitempty"`
	SocialLinks []SocialLink  `gorm:"foreignKey:ArtisanID;constraint:OnDelete:CASCADE" json:"social_links,omitempty"`
}

func (Artisan) TableName() string { return "artisans" }

// ==================== PhoneNumber ====================

// PhoneNumber is owned by one artisan. The number is globally unique: a
// real-world phone maps to one provider, and a conflict on insert is a
// recoverable per-item failure, not a pipeline failure.
type PhoneNumber struct {
	ID        int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ArtisanID int64  `gorm:"not null;index" json:"artisan_id"`
	Number    string `gorm:"size:32;not null;uniqueIndex" json:"number"`
	WhatsApp  bool   `gorm:"not null;default:false" json:"whatsapp"`
}

func (PhoneNumber) TableName() string { return "phone_numbers" }

// ==================== SocialLink ====================

// SocialPlatform enumerated platform of a social link.
type SocialPlatform string

const (
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformTikTok    SocialPlatform = "tiktok"
	PlatformWhatsApp  SocialPlatform = "whatsapp"
	PlatformWebsite   SocialPlatform = "website"
	PlatformOther     SocialPlatform = "other"
)

// ParsePlatform coerces free input to a known platform, falling back to "other".
func ParsePlatform(s string) SocialPlatform {
	switch SocialPlatform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformFacebook:
		return PlatformFacebook
	case PlatformInstagram:
		return PlatformInstagram
	case PlatformTikTok:
		return PlatformTikTok
	case PlatformWhatsApp:
		return PlatformWhatsApp
	case PlatformWebsite:
		return PlatformWebsite
	}
	return PlatformOther
}

// SocialLink is owned by one artisan. URL is stored with an explicit scheme.
type SocialLink struct {
	ID        int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ArtisanID int64          `gorm:"not null;index;uniqueIndex:idx_social_artisan_url" json:"artisan_id"`
	Platform  SocialPlatform `gorm:"size:16;not null" json:"platform"`
	URL       string         `gorm:"size:512;not null;uniqueIndex:idx_social_artisan_url" json:"url"`

	// Filled by the periodic link-check task.
	Verified      bool       `gorm:"not null;default:false" json:"verified"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}

func (SocialLink) TableName() string { return "social_links" }
