package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
	"annuaire_artisans/pkg/slug"
)

// ==================== TaxonomyService ====================

// TaxonomyService resolves free-text labels to shared taxonomy terms,
// creating unknown ones on the fly. The taxonomy is open-ended: unknown values
// are never rejected, but near-matches (case/diacritics/slug variants) reuse
// the existing term so the taxonomy does not fill up with duplicates.
type TaxonomyService struct {
	terms repository.TaxonomyRepository
}

// NewTaxonomyService creates the taxonomy service.
func NewTaxonomyService(terms repository.TaxonomyRepository) *TaxonomyService {
	return &TaxonomyService{terms: terms}
}

// Resolve finds or creates the term of kind matching label and returns its
// stable reference. Matching is best-effort: exact slug equality, or
// case-insensitive label contains, first hit in store order.
//
// Creation can race with a concurrent resolver for the same label: both miss
// the lookup and both insert. The unique (kind, slug) index makes one insert
// fail with a conflict, which is recovered by re-running the lookup once.
func (s *TaxonomyService) Resolve(ctx context.Context, kind model.TaxonomyKind, label string) (model.TermRef, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.TermRef{}, ErrEmptyLabel
	}
	if !kind.Valid() {
		return model.TermRef{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	labelSlug := slug.Make(label)
	if labelSlug == "" {
		return model.TermRef{}, ErrEmptyLabel
	}

	existing, err := s.terms.FindMatch(ctx, kind, labelSlug, label)
	if err != nil {
		return model.TermRef{}, err
	}
	if existing != nil {
		return existing.Ref(), nil
	}

	term := &model.TaxonomyTerm{Kind: kind, Label: label, Slug: labelSlug}
	err = s.terms.Create(ctx, term)
	if err == nil {
		return term.Ref(), nil
	}
	if !errors.Is(err, repository.ErrConflict) {
		return model.TermRef{}, err
	}

	// Lost the race: another caller created the term between lookup and
	// insert. The retry must find it; if it doesn't, the store is in trouble.
	existing, err = s.terms.FindMatch(ctx, kind, labelSlug, label)
	if err != nil {
		return model.TermRef{}, err
	}
	if existing == nil {
		return model.TermRef{}, fmt.Errorf("taxonomy resolve %s %q: %w", kind, label, ErrResolveRetryFailed)
	}
	return existing.Ref(), nil
}

// List returns all terms of a kind, for form autocomplete.
func (s *TaxonomyService) List(ctx context.Context, kind model.TaxonomyKind) ([]model.TaxonomyTerm, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return s.terms.ListByKind(ctx, kind)
}

// ==================== Errors ====================

var (
	ErrEmptyLabel         = errors.New("empty taxonomy label")
	ErrUnknownKind        = errors.New("unknown taxonomy kind")
	ErrResolveRetryFailed = errors.New("conflict retry found no existing term")
)
