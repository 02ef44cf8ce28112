package records

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-health-records/internal/extract"
	"pet-health-records/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrPersistFailed   = errors.New("persist failed")
	ErrNotFound        = errors.New("record not found")
)

// Service orquesta la ingesta: clasificación MIME -> extracción -> persistencia.
type Service struct {
	repo Repository
	pdf  extract.Extractor
	img  extract.Extractor
	gate *extract.Gate
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, pdf, img extract.Extractor, gate *extract.Gate, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		pdf:  pdf,
		img:  img,
		gate: gate,
		log:  log,
		now:  time.Now,
	}
}

// UploadFile es un archivo dentro de un upload.
type UploadFile struct {
	Filename string
	MIMEType string
	Data     []byte
}

type UploadInput struct {
	Title string     // opcional; default: nombre del primer archivo
	Date  *time.Time // opcional; default: ahora
	Files []UploadFile
}

// Upload ingiere uno o más archivos como un único registro médico.
//
// Reglas:
//   - MIME no soportado => ErrUnsupportedType (rechazo completo, sin fila).
//   - Falla de extracción => degrada a texto vacío + warning, nunca aborta.
//   - Falla de persistencia => ErrPersistFailed; el INSERT es todo-o-nada.
//
// Devuelve el registro persistido más los warnings de extracción.
func (s *Service) Upload(ctx context.Context, petID, ownerUserID string, in UploadInput) (MedicalRecord, []string, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return MedicalRecord{}, nil, ErrInvalidInput
	}
	if len(in.Files) == 0 {
		return MedicalRecord{}, nil, ErrInvalidInput
	}

	// 1) clasificar todo antes de tocar nada: un archivo no soportado
	// rechaza el upload completo.
	kinds := make([]extract.Kind, len(in.Files))
	for i, f := range in.Files {
		if strings.TrimSpace(f.Filename) == "" || len(f.Data) == 0 {
			return MedicalRecord{}, nil, ErrInvalidInput
		}
		k := extract.ClassifyMIME(f.MIMEType)
		if k == extract.KindUnsupported {
			return MedicalRecord{}, nil, fmt.Errorf("%w: %s", ErrUnsupportedType, f.MIMEType)
		}
		kinds[i] = k
	}

	// 2) extracción best-effort por archivo
	var (
		texts    []string
		warnings []string
		files    = make(map[string]string, len(in.Files))
	)
	for i, f := range in.Files {
		var ex extract.Extractor
		if kinds[i] == extract.KindPDF {
			ex = s.pdf
		} else {
			ex = s.img
		}

		res, err := s.gate.Run(ctx, ex, f.Data)
		if err != nil {
			s.log.Warn("extraction failed, continuing with empty text", map[string]any{
				"pet_id": petID,
				"file":   f.Filename,
				"error":  err.Error(),
			})
			warnings = append(warnings, fmt.Sprintf("%s: extraction failed", f.Filename))
		} else {
			if res.Text != "" {
				texts = append(texts, res.Text)
			}
			for _, wmsg := range res.Warnings {
				warnings = append(warnings, fmt.Sprintf("%s: %s", f.Filename, wmsg))
			}
		}

		files[f.Filename] = base64.StdEncoding.EncodeToString(f.Data)
	}

	// 3) construir y persistir (todo-o-nada)
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.Files[0].Filename
	}

	now := s.now()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	rec := MedicalRecord{
		ID:          uuid.NewString(),
		PetID:       petID,
		OwnerUserID: ownerUserID,
		Title:       title,
		Description: strings.Join(texts, "\n\n"),
		Date:        date,
		Files:       files,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return MedicalRecord{}, nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	s.log.Info("medical record ingested", map[string]any{
		"pet_id":    petID,
		"record_id": rec.ID,
		"files":     len(files),
		"warnings":  len(warnings),
	})

	return rec, warnings, nil
}

func (s *Service) GetByID(ctx context.Context, id, ownerUserID string) (MedicalRecord, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(ownerUserID) == "" {
		return MedicalRecord{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id, ownerUserID)
}

// ListByPet devuelve los registros del pet ordenados por fecha descendente.
// El scoping por owner lo aplica el repo en la consulta.
func (s *Service) ListByPet(ctx context.Context, petID, ownerUserID string) ([]MedicalRecord, error) {
	if strings.TrimSpace(petID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPet(ctx, petID, ownerUserID)
}

// Delete borra verificando ownership en el mismo statement.
func (s *Service) Delete(ctx context.Context, id, ownerUserID string) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(ownerUserID) == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id, ownerUserID)
}
