package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"annuaire_artisans/internal/api/dto"
	"annuaire_artisans/internal/middleware"
	"annuaire_artisans/internal/model"
)

func newTestImporter(t *testing.T) (*ImportService, *gorm.DB) {
	artisanSvc, _, db := newTestPipeline(t)
	return NewImportService(artisanSvc), db
}

func importRow(name string) dto.SubmitArtisanRequest {
	return dto.SubmitArtisanRequest{FullName: name, Zones: []string{"Cocody"}}
}

func TestImportBatch_RowIsolation(t *testing.T) {
	svc, _ := newTestImporter(t)

	rows := []dto.SubmitArtisanRequest{
		importRow("Awa Traoré"),
		importRow("Moussa Koné"),
		{FullName: "", Zones: nil}, // invalid row in the middle
		importRow("Issa Diarra"),
	}

	report := svc.ImportBatch(context.Background(), rows, anonymous)

	if report.Total != 4 || report.Created != 3 || report.Failed != 1 {
		t.Errorf("report = total %d created %d failed %d, want 4/3/1",
			report.Total, report.Created, report.Failed)
	}
	if report.Success {
		t.Errorf("report with failures must not be marked success")
	}
	if len(report.Results) != 4 {
		t.Fatalf("results = %d, want one per row", len(report.Results))
	}

	bad := report.Results[2]
	if bad.Success || bad.Index != 2 {
		t.Errorf("bad row result = %+v, want failure at original index 2", bad)
	}
	if len(bad.Errors) != 2 {
		t.Errorf("bad row errors = %v, want name and zone violations", bad.Errors)
	}

	// rows after the bad one still went through
	if !report.Results[3].Success || report.Results[3].Artisan == nil {
		t.Errorf("row after failure = %+v, want created", report.Results[3])
	}
}

func TestImportBatch_AllRowsValid(t *testing.T) {
	svc, _ := newTestImporter(t)

	report := svc.ImportBatch(context.Background(), []dto.SubmitArtisanRequest{
		importRow("Awa Traoré"),
		importRow("Moussa Koné"),
	}, anonymous)

	if !report.Success || report.Created != 2 || report.Failed != 0 {
		t.Errorf("report = %+v, want clean success", report)
	}
}

func TestImportBatch_StripsOperatorAttribution(t *testing.T) {
	svc, db := newTestImporter(t)

	// the uploading operator is identified in the request context
	ctx := middleware.WithAuditInfo(context.Background(), 7, "mod")
	report := svc.ImportBatch(ctx, []dto.SubmitArtisanRequest{importRow("Awa Traoré")}, SubmitterContext{UserID: 7, IsPrivileged: true})

	if report.Created != 1 || report.Results[0].Artisan == nil {
		t.Fatalf("report = %+v", report)
	}

	// but imported entries are not attributed to them
	var stored model.Artisan
	if err := db.First(&stored, report.Results[0].Artisan.ID).Error; err != nil {
		t.Fatalf("load imported artisan: %v", err)
	}
	if stored.SubmittedBy != 0 {
		t.Errorf("SubmittedBy = %d, want 0 for an imported row", stored.SubmittedBy)
	}
}

func TestImportBatch_CancelledRowsAreReported(t *testing.T) {
	svc, _ := newTestImporter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []dto.SubmitArtisanRequest{importRow("Awa Traoré"), importRow("Moussa Koné")}
	report := svc.ImportBatch(ctx, rows, anonymous)

	// nothing silently dropped: created + failed still equals total
	if report.Created+report.Failed != report.Total {
		t.Errorf("count invariant broken: %+v", report)
	}
	if report.Failed != 2 || len(report.Results) != 2 {
		t.Errorf("report = %+v, want both rows reported failed", report)
	}
	for _, r := range report.Results {
		if len(r.Errors) == 0 || r.Errors[0] != "import cancelled" {
			t.Errorf("row %d errors = %v", r.Index, r.Errors)
		}
	}
}

// ==================== CSV parsing ====================

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"full_name,profession,zones,phones,whatsapp,facebook,description",
		`Awa Traoré,Électricienne,Cocody;Treichville,+2250701020304;+2250505060708,+2250701020304,facebook.com/awa,Dépannage`,
		`,,,,,,`,
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (shape-only parsing keeps empty rows)", len(rows))
	}

	r := rows[0]
	if r.FullName != "Awa Traoré" || r.Profession != "Électricienne" {
		t.Errorf("row = %+v", r)
	}
	if len(r.Zones) != 2 || r.Zones[1] != "Treichville" {
		t.Errorf("zones = %v", r.Zones)
	}
	if len(r.Phones) != 2 {
		t.Fatalf("phones = %v", r.Phones)
	}
	if !r.Phones[0].WhatsApp || r.Phones[1].WhatsApp {
		t.Errorf("whatsapp flags = %+v, want only the listed number flagged", r.Phones)
	}
	if len(r.SocialLinks) != 1 || r.SocialLinks[0].Platform != "facebook" {
		t.Errorf("links = %+v", r.SocialLinks)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); !errors.Is(err, ErrEmptyImportFile) {
		t.Errorf("empty file err = %v, want ErrEmptyImportFile", err)
	}
	if _, err := ParseCSV(strings.NewReader("name,zones\nAwa,Cocody")); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("missing column err = %v, want ErrMissingColumn", err)
	}
}

func TestParseCSV_ThenImport(t *testing.T) {
	svc, _ := newTestImporter(t)

	input := strings.Join([]string{
		"full_name,zones",
		"Awa Traoré,Cocody",
		",Cocody", // empty name, pipeline reports it
		"Moussa Koné,Treichville",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}

	report := svc.ImportBatch(context.Background(), rows, anonymous)
	if report.Total != 3 || report.Created != 2 || report.Failed != 1 {
		t.Errorf("report = total %d created %d failed %d, want 3/2/1",
			report.Total, report.Created, report.Failed)
	}
	if report.Results[1].Success || report.Results[1].Index != 1 {
		t.Errorf("empty-name row = %+v, want failure at index 1", report.Results[1])
	}
}
