// Package plansfeatures resuelve capabilities de plan (features premium,
// p.ej. reportes con IA) contra el servicio de planes de la app.
package plansfeatures

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pet-health-records/internal/platform/httpclient"
	"pet-health-records/internal/ports/capabilities"
)

var (
	ErrNotConfigured = errors.New("plans-features client not configured")
	ErrUpstream      = errors.New("plans-features upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration

	// AllowAll: modo dev, toda capability responde true sin llamar upstream.
	AllowAll bool
}

type Resolver struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
	allowAll     bool
}

var _ capabilities.Resolver = (*Resolver)(nil)

func NewResolver(cfg Config) (*Resolver, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		allowAll:     cfg.AllowAll,
	}, nil
}

func (r *Resolver) IsConfigured() bool {
	return r != nil && r.http != nil && r.http.BaseURL != "" && r.apiKey != ""
}

// Has responde si userID tiene la capability activa según su plan.
// Sin configurar preferimos fallar explícito antes que permitir sin control.
func (r *Resolver) Has(ctx context.Context, userID string, capability capabilities.Capability) (bool, error) {
	if capability == "" {
		return false, errors.New("capability required")
	}

	if r != nil && r.allowAll {
		return true, nil
	}

	if !r.IsConfigured() {
		return false, ErrNotConfigured
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, errors.New("userID required")
	}

	headers := map[string]string{r.apiKeyHeader: r.apiKey}

	var out struct {
		Capabilities map[string]bool `json:"capabilities"`
	}

	err := r.http.DoJSON(ctx, "GET", "/v1/capabilities?user_id="+url.QueryEscape(userID), headers, nil, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return false, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return out.Capabilities[string(capability)], nil
}
