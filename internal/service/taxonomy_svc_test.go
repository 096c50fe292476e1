package service

import (
	"context"
	"errors"
	"testing"

	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
)

func TestTaxonomyResolve_CreatesThenReuses(t *testing.T) {
	_, svc, _ := newTestPipeline(t)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, model.KindProfession, "Plombier")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if first.Slug != "plombier" {
		t.Errorf("slug = %q, want plombier", first.Slug)
	}

	// Case, whitespace and diacritic variants all land on the same term.
	for _, label := range []string{"plombier", "  Plombier  ", "PLOMBIER", "Plombìer"} {
		got, err := svc.Resolve(ctx, model.KindProfession, label)
		if err != nil {
			t.Fatalf("resolve %q: %v", label, err)
		}
		if got.ID != first.ID {
			t.Errorf("resolve %q = term %d, want %d", label, got.ID, first.ID)
		}
	}
}

func TestTaxonomyResolve_LabelContainsReuses(t *testing.T) {
	_, svc, _ := newTestPipeline(t)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, model.KindZone, "Abidjan Cocody")
	if err != nil {
		t.Fatalf("seed resolve: %v", err)
	}

	// "cocody" is contained in the stored label, so no second term appears.
	got, err := svc.Resolve(ctx, model.KindZone, "Cocody")
	if err != nil {
		t.Fatalf("contains resolve: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("contains resolve = term %d, want %d", got.ID, first.ID)
	}
}

func TestTaxonomyResolve_KindsAreSeparate(t *testing.T) {
	_, svc, _ := newTestPipeline(t)
	ctx := context.Background()

	p, err := svc.Resolve(ctx, model.KindProfession, "Treichville")
	if err != nil {
		t.Fatalf("profession resolve: %v", err)
	}
	z, err := svc.Resolve(ctx, model.KindZone, "Treichville")
	if err != nil {
		t.Fatalf("zone resolve: %v", err)
	}
	if p.ID == z.ID {
		t.Errorf("profession and zone share term %d, want distinct terms", p.ID)
	}
}

func TestTaxonomyResolve_RejectsUnusableLabels(t *testing.T) {
	_, svc, _ := newTestPipeline(t)
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, model.KindZone, "   "); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("blank label err = %v, want ErrEmptyLabel", err)
	}
	// pure emoji slugifies to nothing
	if _, err := svc.Resolve(ctx, model.KindZone, "🔧🔧🔧"); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("emoji label err = %v, want ErrEmptyLabel", err)
	}
	if _, err := svc.Resolve(ctx, model.TaxonomyKind("color"), "Rouge"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind err = %v, want ErrUnknownKind", err)
	}
}

// ==================== Conflict recovery ====================

// racingTaxonomyRepo simulates a concurrent resolver winning the insert race:
// the first lookup misses, the insert conflicts, and the term is only visible
// on the retry lookup.
type racingTaxonomyRepo struct {
	repository.TaxonomyRepository
	winner  *model.TaxonomyTerm
	lookups int
}

func (r *racingTaxonomyRepo) FindMatch(ctx context.Context, kind model.TaxonomyKind, slug, label string) (*model.TaxonomyTerm, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, nil
	}
	return r.winner, nil
}

func (r *racingTaxonomyRepo) Create(ctx context.Context, term *model.TaxonomyTerm) error {
	return repository.ErrConflict
}

func TestTaxonomyResolve_ConflictRetriesLookup(t *testing.T) {
	winner := &model.TaxonomyTerm{ID: 42, Kind: model.KindZone, Label: "Cocody", Slug: "cocody"}
	svc := NewTaxonomyService(&racingTaxonomyRepo{winner: winner})

	got, err := svc.Resolve(context.Background(), model.KindZone, "Cocody")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != 42 {
		t.Errorf("resolved term = %d, want the concurrent winner 42", got.ID)
	}
}

// brokenTaxonomyRepo conflicts on insert but never surfaces the winning term.
type brokenTaxonomyRepo struct {
	repository.TaxonomyRepository
}

func (r *brokenTaxonomyRepo) FindMatch(ctx context.Context, kind model.TaxonomyKind, slug, label string) (*model.TaxonomyTerm, error) {
	return nil, nil
}

func (r *brokenTaxonomyRepo) Create(ctx context.Context, term *model.TaxonomyTerm) error {
	return repository.ErrConflict
}

func TestTaxonomyResolve_RetryMissIsAnError(t *testing.T) {
	svc := NewTaxonomyService(&brokenTaxonomyRepo{})

	_, err := svc.Resolve(context.Background(), model.KindZone, "Cocody")
	if !errors.Is(err, ErrResolveRetryFailed) {
		t.Errorf("err = %v, want ErrResolveRetryFailed", err)
	}
}
