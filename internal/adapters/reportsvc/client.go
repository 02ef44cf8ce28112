// Package reportsvc habla con el servicio externo de análisis que sintetiza
// el HealthReport. El contrato canónico es JSON; despliegues viejos devuelven
// un PDF binario directo, así que la respuesta se decide por Content-Type.
package reportsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"pet-health-records/internal/domain/pets"
	"pet-health-records/internal/domain/reports"
	"pet-health-records/internal/platform/httpclient"
)

const generatePath = "/api/generate-health-report"

var (
	ErrNotConfigured = errors.New("report service not configured")
)

type Config struct {
	BaseURL string
	APIKey  string

	// APIKeyHeader opcional; default "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

var _ reports.Upstream = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

// ---- wire DTOs ----

type wirePayload struct {
	Pet       wirePet          `json:"pet"`
	Records   []wireRecord     `json:"records"`
	Reminders []wireReminder   `json:"reminders"`
	Logs      []wireLog        `json:"logs"`
	Location  reports.Location `json:"location"`
}

type wirePet struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed,omitempty"`
	Sex       string  `json:"sex,omitempty"`
	BirthDate string  `json:"birthDate,omitempty"` // YYYY-MM-DD
	Weight    float64 `json:"weight,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

type wireRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // RFC3339
}

type wireReminder struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate"`
	DueTime     string `json:"dueTime,omitempty"`
	Type        string `json:"type"`
	Completed   bool   `json:"completed"`
	Recurrence  string `json:"recurrence"`
}

type wireLog struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// Generate hace el POST y decide por Content-Type de la respuesta.
func (c *Client) Generate(ctx context.Context, p reports.Payload) (reports.Outcome, error) {
	if !c.IsConfigured() {
		return reports.Outcome{}, ErrNotConfigured
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers[c.apiKeyHeader] = c.apiKey
	}

	raw, contentType, err := c.http.DoRaw(ctx, "POST", generatePath, headers, toWire(p))
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return reports.Outcome{}, errors.New(upstreamMessage(httpErr))
		}
		return reports.Outcome{}, err
	}

	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "application/pdf":
		if len(raw) == 0 {
			return reports.Outcome{}, errors.New("empty pdf response")
		}
		return reports.Outcome{PDF: raw}, nil

	case "application/json", "":
		var report reports.HealthReport
		if err := json.Unmarshal(raw, &report); err != nil {
			return reports.Outcome{}, fmt.Errorf("malformed json response: %v", err)
		}
		if report.OverallStatus.Level == "" {
			return reports.Outcome{}, errors.New("malformed json response: missing overallStatus")
		}
		return reports.Outcome{Report: &report}, nil

	default:
		return reports.Outcome{}, fmt.Errorf("unexpected content type %q", contentType)
	}
}

func toWire(p reports.Payload) wirePayload {
	out := wirePayload{
		Pet:       toWirePet(p.Pet),
		Records:   make([]wireRecord, 0, len(p.Records)),
		Reminders: make([]wireReminder, 0, len(p.Reminders)),
		Logs:      make([]wireLog, 0, len(p.Logs)),
		Location:  p.Location,
	}

	for _, r := range p.Records {
		out.Records = append(out.Records, wireRecord{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Date:        r.Date.Format(time.RFC3339),
		})
	}
	for _, rem := range p.Reminders {
		out.Reminders = append(out.Reminders, wireReminder{
			ID:          rem.ID,
			Title:       rem.Title,
			Description: rem.Description,
			DueDate:     rem.DueDate.Format("2006-01-02"),
			DueTime:     rem.DueTime,
			Type:        string(rem.Type),
			Completed:   rem.Completed,
			Recurrence:  string(rem.Recurrence.Pattern),
		})
	}
	for _, l := range p.Logs {
		out.Logs = append(out.Logs, wireLog{
			ID:        l.ID,
			Title:     l.Title,
			Text:      l.Text,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		})
	}

	return out
}

func toWirePet(p pets.Pet) wirePet {
	w := wirePet{
		ID:      p.ID,
		Name:    p.Name,
		Species: string(p.Species),
		Breed:   p.Breed,
		Sex:     string(p.Sex),
		Weight:  p.Weight,
		Notes:   p.Notes,
	}
	if p.BirthDate != nil {
		w.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return w
}

// upstreamMessage saca el mensaje de error del body si viene en JSON;
// si no, cae a un genérico con el status.
func upstreamMessage(e *httpclient.HTTPError) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("report service returned status %d", e.StatusCode)
}
