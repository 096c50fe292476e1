package model

import "time"

// ==================== Taxonomy ====================

// TaxonomyKind distinguishes the two open taxonomies of the directory.
type TaxonomyKind string

const (
	KindProfession TaxonomyKind = "profession"
	KindZone       TaxonomyKind = "zone"
)

// Valid reports whether k is a known taxonomy kind.
func (k TaxonomyKind) Valid() bool {
	return k == KindProfession || k == KindZone
}

// TaxonomyTerm is a shared classification record (a profession or an
// intervention zone) referenced by many artisans. Terms are created lazily on
// first use and never deleted by the submission pipeline.
// The (kind, slug) pair is unique: the database index is the backstop against
// two concurrent submitters creating the same label.
type TaxonomyTerm struct {
	ID        int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Kind  TaxonomyKind `gorm:"size:16;not null;uniqueIndex:idx_taxonomy_kind_slug" json:"kind"`
	Label string       `gorm:"size:255;not null" json:"label"`
	Slug  string       `gorm:"size:255;not null;uniqueIndex:idx_taxonomy_kind_slug" json:"slug"`
}

func (TaxonomyTerm) TableName() string { return "taxonomy_terms" }

// TermRef is the stable reference handed out by the resolver.
type TermRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// Ref returns the term's stable reference.
func (t *TaxonomyTerm) Ref() TermRef {
	return TermRef{ID: t.ID, Slug: t.Slug}
}
