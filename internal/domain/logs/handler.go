package logs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/pets/{petID}/logs", func(lr chi.Router) {
		lr.Post("/", createLogHandler(svc, petsSvc))
		lr.Get("/", listLogsHandler(svc, petsSvc))
		lr.Delete("/{logID}", deleteLogHandler(svc, petsSvc))
	})
}

type createLogRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type logResponse struct {
	ID        string    `json:"id"`
	PetID     string    `json:"pet_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

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

func createLogHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, petID, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}

		var req createLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.Create(r.Context(), petID, userID, CreateInput{
			Title: req.Title,
			Text:  req.Text,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toLogResponse(l))
	}
}

func listLogsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
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

		out := make([]logResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toLogResponse(l))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func deleteLogHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := requireOwner(w, r, petsSvc)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "logID"), userID); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "log not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toLogResponse(l Log) logResponse {
	return logResponse{
		ID:        l.ID,
		PetID:     l.PetID,
		Title:     l.Title,
		Text:      l.Text,
		CreatedAt: l.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
