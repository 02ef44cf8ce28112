package records

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"pet-health-records/internal/extract"
	"pet-health-records/internal/platform/logger"
)

// -------------------------
// Repo de test (in-memory)
// -------------------------

type testRepo struct {
	created   []MedicalRecord
	createErr error
}

func (r *testRepo) Create(ctx context.Context, rec MedicalRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, rec)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id, ownerUserID string) (MedicalRecord, error) {
	for _, rec := range r.created {
		if rec.ID == id && rec.OwnerUserID == ownerUserID {
			return rec, nil
		}
	}
	return MedicalRecord{}, ErrNotFound
}

func (r *testRepo) ListByPet(ctx context.Context, petID, ownerUserID string) ([]MedicalRecord, error) {
	out := make([]MedicalRecord, 0)
	for _, rec := range r.created {
		if rec.PetID == petID && rec.OwnerUserID == ownerUserID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id, ownerUserID string) error {
	for i, rec := range r.created {
		if rec.ID == id && rec.OwnerUserID == ownerUserID {
			r.created = append(r.created[:i], r.created[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// -------------------------
// Extractors stub
// -------------------------

type stubExtractor struct {
	res extract.Result
	err error
}

func (s stubExtractor) Extract(ctx context.Context, _ []byte) (extract.Result, error) {
	return s.res, s.err
}

func newSvc(repo Repository, pdf, img extract.Extractor) *Service {
	return NewService(repo, pdf, img, extract.NewGate(2, time.Second), logger.New(logger.Options{}))
}

func TestUpload_PDFWithTextLayer(t *testing.T) {
	repo := &testRepo{}
	svc := newSvc(repo,
		stubExtractor{res: extract.Result{Text: "Diagnóstico: otitis leve", Method: "pdf-text"}},
		stubExtractor{},
	)

	rec, warnings, err := svc.Upload(context.Background(), "p1", "u1", UploadInput{
		Files: []UploadFile{{Filename: "consulta.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-...")}},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if !strings.Contains(rec.Description, "otitis leve") {
		t.Errorf("description = %q", rec.Description)
	}
	// sin título explícito usa el nombre del primer archivo
	if rec.Title != "consulta.pdf" {
		t.Errorf("title = %q", rec.Title)
	}

	// el payload queda inline en base64
	want := base64.StdEncoding.EncodeToString([]byte("%PDF-..."))
	if rec.Files["consulta.pdf"] != want {
		t.Errorf("stored payload mismatch")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(repo.created))
	}
}

func TestUpload_UnsupportedTypeRejectsWholeUpload(t *testing.T) {
	repo := &testRepo{}
	svc := newSvc(repo, stubExtractor{}, stubExtractor{})

	_, _, err := svc.Upload(context.Background(), "p1", "u1", UploadInput{
		Files: []UploadFile{
			{Filename: "ok.pdf", MIMEType: "application/pdf", Data: []byte("x")},
			{Filename: "nota.docx", MIMEType: "application/msword", Data: []byte("y")},
		},
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	// rechazo completo: ni siquiera el archivo válido se persiste
	if len(repo.created) != 0 {
		t.Fatalf("expected no persisted records, got %d", len(repo.created))
	}
}

func TestUpload_ExtractionFailureDegrades(t *testing.T) {
	repo := &testRepo{}
	svc := newSvc(repo,
		stubExtractor{err: errors.New("broken xref")},
		stubExtractor{},
	)

	rec, warnings, err := svc.Upload(context.Background(), "p1", "u1", UploadInput{
		Title: "Escaneo viejo",
		Files: []UploadFile{{Filename: "scan.pdf", MIMEType: "application/pdf", Data: []byte("x")}},
	})
	if err != nil {
		t.Fatalf("upload should degrade, got %v", err)
	}

	if rec.Description != "" {
		t.Errorf("description = %q, want empty", rec.Description)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "scan.pdf") {
		t.Errorf("warnings = %v", warnings)
	}
	// la fila se persiste igual, con los archivos intactos
	if len(repo.created) != 1 {
		t.Fatalf("expected persisted record despite extraction failure")
	}
}

func TestUpload_ExtractorWarningsPropagate(t *testing.T) {
	repo := &testRepo{}
	svc := newSvc(repo,
		stubExtractor{res: extract.Result{Warnings: []string{"pdf has no text layer"}}},
		stubExtractor{},
	)

	_, warnings, err := svc.Upload(context.Background(), "p1", "u1", UploadInput{
		Files: []UploadFile{{Filename: "scan.pdf", MIMEType: "application/pdf", Data: []byte("x")}},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "no text layer") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestUpload_MultipleFilesConcatenateTexts(t *testing.T) {
	repo := &testRepo{}
	svc := newSvc(repo,
		stubExtractor{res: extract.Result{Text: "texto pdf"}},
		stubExtractor{res: extract.Result{Text: "texto ocr"}},
	)

	rec, _, err := svc.Upload(context.Background(), "p1", "u1", UploadInput{
		Files: []UploadFile{
			{Filename: "a.pdf", MIMEType: "application/pdf", Data: []byte("x")},
			{Filename: "b.jpg", MIMEType: "image/jpeg", Data: []byte("y")},
		},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.Contains(rec.Description, "texto pdf") || !strings.Contains(rec.Description, "texto ocr") {
		t.Errorf("description = %q", rec.Description)
	}
	if len(rec.Files) != 2 {
		t.Errorf("files = %v", rec.Files)
	}
}

func TestUpload_PersistFailure(t *testing.T) {
	repo := &testRepo{createErr: errors.New("db down")}
	svc := newSvc(repo, stubExtractor{}, stubExtractor{})

	_, _, err := svc.Upload(context.Background(), "p1", "u1", UploadInput{
		Files: []UploadFile{{Filename: "a.pdf", MIMEType: "application/pdf", Data: []byte("x")}},
	})
	if !errors.Is(err, ErrPersistFailed) {
		t.Fatalf("expected ErrPersistFailed, got %v", err)
	}
}

func TestUpload_InvalidInput(t *testing.T) {
	svc := newSvc(&testRepo{}, stubExtractor{}, stubExtractor{})

	cases := []UploadInput{
		{},
		{Files: []UploadFile{{Filename: "", MIMEType: "application/pdf", Data: []byte("x")}}},
		{Files: []UploadFile{{Filename: "a.pdf", MIMEType: "application/pdf"}}},
	}
	for i, in := range cases {
		if _, _, err := svc.Upload(context.Background(), "p1", "u1", in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestDelete_Ownership(t *testing.T) {
	repo := &testRepo{}
	svc := newSvc(repo, stubExtractor{}, stubExtractor{})

	rec, _, err := svc.Upload(context.Background(), "p1", "u1", UploadInput{
		Files: []UploadFile{{Filename: "a.pdf", MIMEType: "application/pdf", Data: []byte("x")}},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), rec.ID, "otro-usuario"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), rec.ID, "u1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}
