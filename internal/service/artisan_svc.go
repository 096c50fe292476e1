package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"annuaire_artisans/internal/api/dto"
	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
	"annuaire_artisans/pkg/slug"
)

// ==================== Types ====================

// SubmitterContext identifies the caller of a submission. UserID is zero for
// anonymous community submissions; IsPrivileged marks operator accounts whose
// entries are not flagged community-origin.
type SubmitterContext struct {
	UserID       int64
	IsPrivileged bool
}

// ValidationError carries every violation of a submission at once, so the
// caller can correct all fields in a single round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// AttachResult per-item outcome of a sub-record attach, input order preserved.
type AttachResult struct {
	Index   int
	Success bool
	ID      int64
	Error   string
}

// SubmitResult the created entry plus per-item attach outcomes.
type SubmitResult struct {
	Artisan      *model.Artisan
	PhoneResults []AttachResult
	LinkResults  []AttachResult
}

// ==================== ArtisanService ====================

// ArtisanService orchestrates the submission pipeline: validation, taxonomy
// resolution, slug allocation and the transactional create with per-item
// sub-record attachment.
type ArtisanService struct {
	artisans repository.ArtisanRepository
	taxonomy *TaxonomyService
}

// NewArtisanService creates the artisan service.
func NewArtisanService(artisans repository.ArtisanRepository, taxonomy *TaxonomyService) *ArtisanService {
	return &ArtisanService{artisans: artisans, taxonomy: taxonomy}
}

// maxSlugAttempts caps the collision-resolution loop. Beyond this the store is
// under pathological contention and the caller gets ErrSlugExhausted, which is
// an operational alarm rather than a user-correctable problem.
const maxSlugAttempts = 1000

// createRetries re-runs slug allocation when the insert itself loses a race
// on the unique slug index.
const createRetries = 3

// Submit turns one incoming submission into a persisted artisan plus its
// relations. The artisan, its zone associations and its sub-records are one
// unit of work: a hard failure rolls everything back, while per-item conflicts
// during attachment are reported in the result, not escalated.
func (s *ArtisanService) Submit(ctx context.Context, req *dto.SubmitArtisanRequest, submitter SubmitterContext) (*SubmitResult, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	// Taxonomy resolution happens outside the row transaction: terms are
	// shared, append-only records and must survive a row rollback.
	var professionID *int64
	if p := strings.TrimSpace(req.Profession); p != "" {
		ref, err := s.taxonomy.Resolve(ctx, model.KindProfession, p)
		if err != nil {
			return nil, fmt.Errorf("resolve profession: %w", err)
		}
		professionID = &ref.ID
	}

	zoneRefs, err := s.resolveZones(ctx, req.Zones)
	if err != nil {
		return nil, err
	}

	status := model.ArtisanStatusApproved
	if req.Status != "" {
		status = model.ArtisanStatus(req.Status)
	}

	phones := filterPhones(req.Phones)
	links := filterLinks(req.SocialLinks)

	baseSlug := slug.Make(req.FullName)

	var result *SubmitResult
	for attempt := 0; ; attempt++ {
		finalSlug, err := s.allocateSlug(ctx, baseSlug)
		if err != nil {
			return nil, err
		}

		result, err = s.createWithRelations(ctx, req, submitter, finalSlug, status, professionID, zoneRefs, phones, links)
		if err == nil {
			break
		}
		// Another submission took the slug between allocation and insert.
		if errors.Is(err, repository.ErrConflict) && attempt < createRetries {
			continue
		}
		return nil, err
	}

	// Reload with relations for the full view.
	full, err := s.artisans.GetByID(ctx, result.Artisan.ID)
	if err != nil {
		return nil, err
	}
	result.Artisan = full
	return result, nil
}

// createWithRelations runs the row unit of work. Per-item attachment uses
// nested transactions, which gorm maps onto savepoints, so a duplicate phone
// does not poison the outer transaction.
func (s *ArtisanService) createWithRelations(
	ctx context.Context,
	req *dto.SubmitArtisanRequest,
	submitter SubmitterContext,
	finalSlug string,
	status model.ArtisanStatus,
	professionID *int64,
	zoneRefs []model.TermRef,
	phones []dto.PhoneInput,
	links []dto.SocialLinkInput,
) (*SubmitResult, error) {
	artisan := &model.Artisan{
		FullName:        strings.TrimSpace(req.FullName),
		Slug:            finalSlug,
		Description:     strings.TrimSpace(req.Description),
		Status:          status,
		CommunityOrigin: !submitter.IsPrivileged,
		PhotoID:         req.PhotoID,
		PhotoURL:        req.PhotoURL,
		ProfessionID:    professionID,
	}

	result := &SubmitResult{Artisan: artisan}

	err := s.artisans.Transaction(ctx, func(txRepo repository.ArtisanRepository) error {
		if err := txRepo.Create(ctx, artisan); err != nil {
			return err
		}

		if len(zoneRefs) > 0 {
			zones := make([]model.TaxonomyTerm, len(zoneRefs))
			for i, ref := range zoneRefs {
				zones[i] = model.TaxonomyTerm{ID: ref.ID}
			}
			if err := txRepo.SetZones(ctx, artisan, zones); err != nil {
				return err
			}
		}

		var err error
		result.PhoneResults, err = attachPhones(ctx, txRepo, artisan.ID, phones)
		if err != nil {
			return err
		}
		result.LinkResults, err = attachLinks(ctx, txRepo, artisan.ID, links)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ==================== Validation ====================

func validateSubmission(req *dto.SubmitArtisanRequest) error {
	var violations []string

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		violations = append(violations, "full name is required")
	} else if slug.Make(name) == "" {
		// A name of pure punctuation/emoji slugifies to nothing; refusing it
		// here keeps slugs like "-1" out of the directory.
		violations = append(violations, "full name must contain at least one letter or digit")
	}

	hasZone := false
	for _, z := range req.Zones {
		if strings.TrimSpace(z) != "" {
			hasZone = true
			break
		}
	}
	if !hasZone {
		violations = append(violations, "at least one zone is required")
	}

	if req.Status != "" && !model.ArtisanStatus(req.Status).Valid() {
		violations = append(violations, fmt.Sprintf("unknown status %q", req.Status))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// resolveZones resolves each non-blank zone label; duplicates in the input
// collapse to one reference.
func (s *ArtisanService) resolveZones(ctx context.Context, labels []string) ([]model.TermRef, error) {
	var refs []model.TermRef
	seen := make(map[int64]bool)
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		ref, err := s.taxonomy.Resolve(ctx, model.KindZone, label)
		if err != nil {
			return nil, fmt.Errorf("resolve zone %q: %w", label, err)
		}
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		refs = append(refs, ref)
	}
	return refs, nil
}

// ==================== Slug allocation ====================

// allocateSlug returns a slug not present among artisans, suffixing the base
// with -1, -2, … on collision.
func (s *ArtisanService) allocateSlug(ctx context.Context, baseSlug string) (string, error) {
	candidate := baseSlug
	for n := 1; n <= maxSlugAttempts; n++ {
		exists, err := s.artisans.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", baseSlug, n)
	}
	return "", fmt.Errorf("%w: base %q", ErrSlugExhausted, baseSlug)
}

// ==================== Sub-record attachment ====================

func filterPhones(in []dto.PhoneInput) []dto.PhoneInput {
	out := make([]dto.PhoneInput, 0, len(in))
	for _, p := range in {
		if strings.TrimSpace(p.Number) != "" {
			out = append(out, p)
		}
	}
	return out
}

func filterLinks(in []dto.SocialLinkInput) []dto.SocialLinkInput {
	out := make([]dto.SocialLinkInput, 0, len(in))
	for _, l := range in {
		if strings.TrimSpace(l.URL) != "" {
			out = append(out, l)
		}
	}
	return out
}

// attachPhones creates each phone independently under a savepoint. A conflict
// on item i never prevents attempts on items i+1..n.
func attachPhones(ctx context.Context, txRepo repository.ArtisanRepository, artisanID int64, phones []dto.PhoneInput) ([]AttachResult, error) {
	results := make([]AttachResult, 0, len(phones))
	for i, p := range phones {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		phone := &model.PhoneNumber{
			ArtisanID: artisanID,
			Number:    strings.TrimSpace(p.Number),
			WhatsApp:  p.WhatsApp,
		}
		err := txRepo.Transaction(ctx, func(r repository.ArtisanRepository) error {
			return r.CreatePhone(ctx, phone)
		})
		results = append(results, attachResult(i, phone.ID, err, "phone number already registered"))
	}
	return results, nil
}

// attachLinks creates each social link independently under a savepoint.
func attachLinks(ctx context.Context, txRepo repository.ArtisanRepository, artisanID int64, links []dto.SocialLinkInput) ([]AttachResult, error) {
	results := make([]AttachResult, 0, len(links))
	for i, l := range links {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		link := &model.SocialLink{
			ArtisanID: artisanID,
			Platform:  model.ParsePlatform(l.Platform),
			URL:       normalizeURL(l.URL),
		}
		err := txRepo.Transaction(ctx, func(r repository.ArtisanRepository) error {
			return r.CreateSocialLink(ctx, link)
		})
		results = append(results, attachResult(i, link.ID, err, "social link already registered"))
	}
	return results, nil
}

func attachResult(index int, id int64, err error, conflictMsg string) AttachResult {
	if err == nil {
		return AttachResult{Index: index, Success: true, ID: id}
	}
	msg := err.Error()
	if errors.Is(err, repository.ErrConflict) {
		msg = conflictMsg
	}
	return AttachResult{Index: index, Success: false, Error: msg}
}

// normalizeURL prefixes a scheme when the input lacks one.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "https://" + strings.TrimPrefix(raw, "//")
	}
	return raw
}

// ==================== Reads / moderation ====================

// GetBySlug returns the full entry.
func (s *ArtisanService) GetBySlug(ctx context.Context, artisanSlug string) (*model.Artisan, error) {
	return s.artisans.GetBySlug(ctx, artisanSlug)
}

// List returns a filtered page of entries.
func (s *ArtisanService) List(ctx context.Context, req *dto.ArtisanListRequest) (*dto.ArtisanListResponse, error) {
	artisans, total, err := s.artisans.List(ctx, repository.ArtisanFilter{
		Status:         model.ArtisanStatus(req.Status),
		ProfessionSlug: req.Profession,
		ZoneSlug:       req.Zone,
		Keyword:        strings.ToLower(strings.TrimSpace(req.Keyword)),
		Page:           req.Page,
		PageSize:       req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ArtisanInfo, len(artisans))
	for i := range artisans {
		list[i] = ToArtisanInfo(&artisans[i])
	}
	return &dto.ArtisanListResponse{List: list, Total: total}, nil
}

// UpdateStatus is the external moderation hook.
func (s *ArtisanService) UpdateStatus(ctx context.Context, id int64, status model.ArtisanStatus) error {
	if !status.Valid() {
		return &ValidationError{Violations: []string{fmt.Sprintf("unknown status %q", status)}}
	}
	return s.artisans.UpdateStatus(ctx, id, status)
}

// Delete is the external delete collaborator's entry point.
func (s *ArtisanService) Delete(ctx context.Context, id int64) error {
	return s.artisans.Delete(ctx, id)
}

// ==================== Conversion ====================

// ToArtisanInfo converts a model to its API view.
func ToArtisanInfo(a *model.Artisan) *dto.ArtisanInfo {
	info := &dto.ArtisanInfo{
		ID:              a.ID,
		FullName:        a.FullName,
		Slug:            a.Slug,
		Description:     a.Description,
		Status:          string(a.Status),
		CommunityOrigin: a.CommunityOrigin,
		PhotoURL:        a.PhotoURL,
		Zones:           make([]dto.TermInfo, 0, len(a.Zones)),
		Phones:          make([]dto.PhoneInfo, 0, len(a.Phones)),
		SocialLinks:     make([]dto.SocialLinkInfo, 0, len(a.SocialLinks)),
		CreatedAt:       a.CreatedAt,
	}
	if a.Profession != nil {
		info.Profession = &dto.TermInfo{ID: a.Profession.ID, Label: a.Profession.Label, Slug: a.Profession.Slug}
	}
	for _, z := range a.Zones {
		info.Zones = append(info.Zones, dto.TermInfo{ID: z.ID, Label: z.Label, Slug: z.Slug})
	}
	for _, p := range a.Phones {
		info.Phones = append(info.Phones, dto.PhoneInfo{ID: p.ID, Number: p.Number, WhatsApp: p.WhatsApp})
	}
	for _, l := range a.SocialLinks {
		info.SocialLinks = append(info.SocialLinks, dto.SocialLinkInfo{ID: l.ID, Platform: string(l.Platform), URL: l.URL, Verified: l.Verified})
	}
	return info
}

// ToAttachResultViews converts attach outcomes to their API view.
func ToAttachResultViews(results []AttachResult) []dto.AttachResultView {
	views := make([]dto.AttachResultView, len(results))
	for i, r := range results {
		views[i] = dto.AttachResultView{Index: r.Index, Success: r.Success, ID: r.ID, Error: r.Error}
	}
	return views
}

// ==================== Errors ====================

var (
	// ErrSlugExhausted means the collision loop hit its cap. Operational, not
	// user-correctable.
	ErrSlugExhausted = errors.New("slug allocation exhausted")
)
