// Package gateway verifica tokens contra el servicio de identidad de la app.
// La gestión de sesiones es un colaborador externo; acá solo se consume.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-health-records/internal/platform/httpclient"
	"pet-health-records/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("auth gateway not configured")
	ErrUnauthorized  = errors.New("auth gateway unauthorized")
	ErrUpstream      = errors.New("auth gateway upstream error")
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

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, timeout)
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
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// VerifyToken valida un token de sesión y trae los claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	headers := map[string]string{
		c.apiKeyHeader: c.apiKey,
		"Authorization": "Bearer " + token,
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}

	err := c.http.DoJSON(ctx, "POST", "/v1/tokens/verify", headers,
		map[string]string{"token": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == 401 || httpErr.StatusCode == 403 {
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("auth response missing user_id")
	}

	return auth.Claims{
		UserID: out.UserID,
		Email:  strings.TrimSpace(out.Email),
	}, nil
}
