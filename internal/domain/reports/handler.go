package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-health-records/internal/middleware"
	"pet-health-records/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra el endpoint de generación.
// caps puede ser nil (sin gating por plan).
func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.Resolver) {
	r.Post("/pets/{petID}/report", generateReportHandler(svc, caps))
}

type generateRequest struct {
	Location *Location `json:"location"`
}

type generateResponse struct {
	Report HealthReport `json:"report"`
	View   InlineView   `json:"view"`
}

func generateReportHandler(svc *Service, caps capabilities.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if caps != nil {
			has, err := caps.Has(r.Context(), claims.UserID, capabilities.CapabilityAIReports)
			if err != nil {
				http.Error(w, "capability check failed", http.StatusServiceUnavailable)
				return
			}
			if !has {
				http.Error(w, "plan does not include ai reports", http.StatusForbidden)
				return
			}
		}

		var req generateRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		out, err := svc.Generate(r.Context(), chi.URLParam(r, "petID"), claims.UserID, req.Location)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingPet):
				http.Error(w, "pet not found", http.StatusNotFound)
			case errors.Is(err, ErrMissingLocation):
				http.Error(w, "location is required to generate a report", http.StatusPreconditionFailed)
			case errors.Is(err, ErrInFlight):
				// no-op para el caller: ya hay un generate corriendo
				http.Error(w, "report generation already in progress", http.StatusConflict)
			case errors.Is(err, ErrUpstream):
				http.Error(w, err.Error(), http.StatusBadGateway)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		// transporte deprecado: el upstream respondió el PDF directo
		if out.Report == nil {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="health-report.pdf"`)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(out.PDF)
			return
		}

		writeJSON(w, http.StatusOK, generateResponse{
			Report: *out.Report,
			View:   RenderInline(*out.Report),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
