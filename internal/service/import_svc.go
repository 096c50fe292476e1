package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"annuaire_artisans/internal/api/dto"
	"annuaire_artisans/internal/middleware"
)

// ==================== ImportService ====================

// ImportService runs the submission pipeline once per input row, isolating
// failures per row. One bad row never poisons the rest; the report always
// comes back complete, even when every row failed.
type ImportService struct {
	artisanSvc *ArtisanService
}

// NewImportService creates the import service.
func NewImportService(artisanSvc *ArtisanService) *ImportService {
	return &ImportService{artisanSvc: artisanSvc}
}

// ImportBatch processes rows in order. Each row is its own unit of work: the
// artisan and its sub-records either all persist or the row is reported
// failed with its original index. Aggregate counts always satisfy
// created + failed == total.
//
// Rows run under a context with the audit identity stripped, so imported
// community entries are not attributed to the operator uploading the file.
func (s *ImportService) ImportBatch(ctx context.Context, rows []dto.SubmitArtisanRequest, submitter SubmitterContext) *dto.BatchImportReport {
	rowCtx := middleware.WithoutAuditInfo(ctx)

	report := &dto.BatchImportReport{
		Total:   len(rows),
		Results: make([]dto.RowResult, 0, len(rows)),
	}

	cancelled := false
	for i := range rows {
		if cancelled || ctx.Err() != nil {
			// Completed rows stay; remaining rows are reported, not silently
			// dropped, so the count invariant holds.
			cancelled = true
			report.Failed++
			report.Results = append(report.Results, dto.RowResult{
				Index:  i,
				Errors: []string{"import cancelled"},
			})
			continue
		}

		result, err := s.artisanSvc.Submit(rowCtx, &rows[i], submitter)
		if err != nil {
			report.Failed++
			report.Results = append(report.Results, dto.RowResult{
				Index:  i,
				Errors: rowErrors(err),
			})
			continue
		}

		report.Created++
		report.Results = append(report.Results, dto.RowResult{
			Index:   i,
			Success: true,
			Artisan: ToArtisanInfo(result.Artisan),
		})
	}

	report.Success = report.Failed == 0
	return report
}

func rowErrors(err error) []string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Violations
	}
	return []string{err.Error()}
}

// ==================== CSV parsing ====================

// CSV columns. full_name is the only mandatory header; list columns use ";"
// separators. The whatsapp column names the phone numbers that are
// WhatsApp-capable.
const (
	colFullName    = "full_name"
	colProfession  = "profession"
	colZones       = "zones"
	colDescription = "description"
	colPhones      = "phones"
	colWhatsApp    = "whatsapp"
	colFacebook    = "facebook"
	colInstagram   = "instagram"
	colTikTok      = "tiktok"
	colWebsite     = "website"
)

// ParseCSV maps a header-first CSV file onto submission rows, preserving file
// order. Parsing is shape-only: field validation is the pipeline's job, so a
// row with an empty name still becomes a row (and later a reported failure).
func ParseCSV(r io.Reader) ([]dto.SubmitArtisanRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyImportFile
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colFullName]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, colFullName)
	}

	var rows []dto.SubmitArtisanRequest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, recordToRow(record, cols))
	}
	return rows, nil
}

func recordToRow(record []string, cols map[string]int) dto.SubmitArtisanRequest {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := dto.SubmitArtisanRequest{
		FullName:    field(colFullName),
		Profession:  field(colProfession),
		Zones:       splitList(field(colZones)),
		Description: field(colDescription),
	}

	whatsAppNumbers := make(map[string]bool)
	for _, n := range splitList(field(colWhatsApp)) {
		whatsAppNumbers[n] = true
	}
	for _, n := range splitList(field(colPhones)) {
		row.Phones = append(row.Phones, dto.PhoneInput{Number: n, WhatsApp: whatsAppNumbers[n]})
	}

	for _, platform := range []string{colFacebook, colInstagram, colTikTok, colWebsite} {
		if u := field(platform); u != "" {
			row.SocialLinks = append(row.SocialLinks, dto.SocialLinkInput{Platform: platform, URL: u})
		}
	}

	return row
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ==================== Errors ====================

var (
	ErrEmptyImportFile = errors.New("import file is empty")
	ErrMissingColumn   = errors.New("missing required column")
)
