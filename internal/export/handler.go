package export

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pet-health-records/internal/domain/logs"
	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/domain/records"
	"pet-health-records/internal/domain/reminders"
	"pet-health-records/internal/middleware"
)

// RegisterRoutes monta las descargas de exportación bajo /pets/{petID}.
func RegisterRoutes(r chi.Router, petsSvc *pets.Service, recordsSvc *records.Service, logsSvc *logs.Service, remindersRepo reminders.Repository) {
	r.Get("/pets/{petID}/records/export", exportRecordsHandler(petsSvc, recordsSvc))
	r.Get("/pets/{petID}/logs/export", exportLogsHandler(petsSvc, logsSvc))
	r.Get("/pets/{petID}/report/pdf", exportHistoryHandler(petsSvc, recordsSvc, logsSvc, remindersRepo))
}

func exportRecordsHandler(petsSvc *pets.Service, recordsSvc *records.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, pet, ok := requirePet(w, r, petsSvc)
		if !ok {
			return
		}

		recs, err := recordsSvc.ListByPet(r.Context(), pet.ID, userID)
		if err != nil {
			http.Error(w, "could not list records", http.StatusInternalServerError)
			return
		}

		data, err := BulkArchive(recs)
		if err != nil {
			if errors.Is(err, ErrNothingToExport) {
				http.Error(w, "no files to export", http.StatusNotFound)
				return
			}
			http.Error(w, "could not build archive", http.StatusInternalServerError)
			return
		}

		sendAttachment(w, data, "application/zip", fmt.Sprintf("%s-records.zip", slug(pet.Name)))
	}
}

func exportLogsHandler(petsSvc *pets.Service, logsSvc *logs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, pet, ok := requirePet(w, r, petsSvc)
		if !ok {
			return
		}

		items, err := logsSvc.ListByPet(r.Context(), pet.ID, userID)
		if err != nil {
			http.Error(w, "could not list logs", http.StatusInternalServerError)
			return
		}

		data, err := LogsPDF(pet.Name, items)
		if err != nil {
			if errors.Is(err, ErrNothingToExport) {
				http.Error(w, "no logs to export", http.StatusNotFound)
				return
			}
			http.Error(w, "could not render pdf", http.StatusInternalServerError)
			return
		}

		sendAttachment(w, data, "application/pdf", fmt.Sprintf("%s-logs.pdf", slug(pet.Name)))
	}
}

func exportHistoryHandler(petsSvc *pets.Service, recordsSvc *records.Service, logsSvc *logs.Service, remindersRepo reminders.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, pet, ok := requirePet(w, r, petsSvc)
		if !ok {
			return
		}

		recs, err := recordsSvc.ListByPet(r.Context(), pet.ID, userID)
		if err != nil {
			http.Error(w, "could not list records", http.StatusInternalServerError)
			return
		}
		lgs, err := logsSvc.ListByPet(r.Context(), pet.ID, userID)
		if err != nil {
			http.Error(w, "could not list logs", http.StatusInternalServerError)
			return
		}
		rems, err := remindersRepo.ListByPet(r.Context(), pet.ID, userID)
		if err != nil {
			http.Error(w, "could not list reminders", http.StatusInternalServerError)
			return
		}

		data, err := HistoryPDF(pet, recs, rems, lgs)
		if err != nil {
			if errors.Is(err, ErrNothingToExport) {
				http.Error(w, "nothing to export", http.StatusNotFound)
				return
			}
			http.Error(w, "could not render pdf", http.StatusInternalServerError)
			return
		}

		sendAttachment(w, data, "application/pdf", fmt.Sprintf("%s-history.pdf", slug(pet.Name)))
	}
}

// requirePet valida sesión y propiedad, y trae la mascota para nombrar el archivo.
func requirePet(w http.ResponseWriter, r *http.Request, petsSvc *pets.Service) (string, pets.Pet, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", pets.Pet{}, false
	}

	petID := chi.URLParam(r, "petID")
	pet, err := petsSvc.GetByID(r.Context(), petID)
	if err != nil {
		http.Error(w, "pet not found", http.StatusNotFound)
		return "", pets.Pet{}, false
	}
	if pet.OwnerUserID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", pets.Pet{}, false
	}

	return claims.UserID, pet, true
}

func sendAttachment(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// slug normaliza el nombre de la mascota para usarlo en nombres de archivo.
func slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "pet"
	}
	return b.String()
}
