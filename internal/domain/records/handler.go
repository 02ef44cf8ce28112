package records

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service, maxUploadBytes int64) {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}

	r.Route("/pets/{petID}/records", func(rr chi.Router) {
		rr.Post("/", uploadRecordHandler(svc, petsSvc, maxUploadBytes))
		rr.Get("/", listRecordsHandler(svc, petsSvc))
		rr.Get("/{recordID}", getRecordHandler(svc, petsSvc))
		rr.Delete("/{recordID}", deleteRecordHandler(svc, petsSvc))
	})
}

type recordResponse struct {
	ID          string            `json:"id"`
	PetID       string            `json:"pet_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	Files       map[string]string `json:"files,omitempty"`
	FileNames   []string          `json:"file_names"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type uploadResponse struct {
	Record   recordResponse `json:"record"`
	Warnings []string       `json:"extraction_warnings,omitempty"`
}

// requireOwner corta con 401/403/404 según corresponda y devuelve (userID, petID, ok).
func requireOwner(w http.ResponseWriter, r *http.Request, petsSvc *pets.Service) (string, string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", "", false
	}

	petID := chi.URLParam(r, "petID")
	owner, err := petsSvc.OwnerOf(r.Context(), petID)
	if err != nil {
		http.Error(w, "pet not found", http.StatusNotFound)
		return "", "", false
	}
	if owner != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", "", false
	}

	return claims.UserID, petID, true
}

func uploadRecordHandler(svc *Service, petsSvc *pets.Service, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, petID, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid multipart body", http.StatusBadRequest)
			return
		}

		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			http.Error(w, "at least one file is required", http.StatusBadRequest)
			return
		}

		files := make([]UploadFile, 0, len(headers))
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "cannot read uploaded file", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				http.Error(w, "cannot read uploaded file", http.StatusBadRequest)
				return
			}

			mimeType := fh.Header.Get("Content-Type")
			if mimeType == "" {
				mimeType = http.DetectContentType(data)
			}

			files = append(files, UploadFile{
				Filename: fh.Filename,
				MIMEType: mimeType,
				Data:     data,
			})
		}

		var date *time.Time
		if s := strings.TrimSpace(r.FormValue("date")); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = &t
		}

		rec, warnings, err := svc.Upload(r.Context(), petID, userID, UploadInput{
			Title: r.FormValue("title"),
			Date:  date,
			Files: files,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrUnsupportedType):
				http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrPersistFailed):
				http.Error(w, "could not persist record", http.StatusInternalServerError)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, uploadResponse{
			Record:   toRecordResponse(rec, false),
			Warnings: warnings,
		})
	}
}

func listRecordsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, petID, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}

		items, err := svc.ListByPet(r.Context(), petID, userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// listados sin payloads: los base64 pueden pesar MBs
		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec, false))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getRecordHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, petID, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}

		rec, err := svc.GetByID(r.Context(), chi.URLParam(r, "recordID"), userID)
		if err != nil || rec.PetID != petID {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toRecordResponse(rec, true))
	}
}

func deleteRecordHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "recordID"), userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "record not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toRecordResponse(rec MedicalRecord, includeFiles bool) recordResponse {
	names := make([]string, 0, len(rec.Files))
	for name := range rec.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := recordResponse{
		ID:          rec.ID,
		PetID:       rec.PetID,
		Title:       rec.Title,
		Description: rec.Description,
		Date:        rec.Date,
		FileNames:   names,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if includeFiles {
		resp.Files = rec.Files
	}
	return resp
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
