package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/session"
)

// Refresher exchanges a refresh token for a new access token at an OAuth 2.0
// token endpoint (grant_type=refresh_token).
type Refresher struct {
	tokenURL   string
	clientID   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewRefresher creates a token endpoint client.
// Parameters come from config.ClientConfig.
func NewRefresher(tokenURL, clientID string, logger *slog.Logger) *Refresher {
	return &Refresher{
		tokenURL:   tokenURL,
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "oauth_refresh"),
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Refresh performs one refresh_token grant. A rejected refresh token is
// reported as domain.ErrUnauthorized; everything else is an upstream failure.
func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (session.Credentials, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	if r.clientID != "" {
		data.Set("client_id", r.clientID)
	}
	encoded := data.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tokenURL, strings.NewReader(encoded))
	if err != nil {
		return session.Credentials{}, fmt.Errorf("oauth: create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(encoded)), nil
	}

	resp, err := r.doWithRetry(ctx, req)
	if err != nil {
		r.log.ErrorContext(ctx, "token refresh failed", slog.String("error", err.Error()))
		return session.Credentials{}, fmt.Errorf("oauth: token endpoint unavailable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return session.Credentials{}, fmt.Errorf("oauth: read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		_ = json.Unmarshal(body, &errResp)
		r.log.WarnContext(ctx, "token refresh rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("error", errResp.Error))

		// invalid_grant: the refresh token is revoked, expired or already used
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return session.Credentials{}, fmt.Errorf("oauth: %s: %w", errResp.Error, domain.ErrUnauthorized)
		}
		return session.Credentials{}, fmt.Errorf("oauth: token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return session.Credentials{}, fmt.Errorf("oauth: invalid token response: %w", err)
	}
	if tr.AccessToken == "" {
		return session.Credentials{}, fmt.Errorf("oauth: token response without access_token")
	}

	creds := session.Credentials{AccessToken: tr.AccessToken, RefreshToken: tr.RefreshToken}
	if tr.ExpiresIn > 0 {
		creds.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return creds, nil
}

// doWithRetry retries once on 5xx or network errors with 500ms backoff.
// For POST requests, req.GetBody must be set.
func (r *Refresher) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err == nil && resp.StatusCode < 500 {
		return resp, nil
	}
	if resp != nil {
		resp.Body.Close()
	}

	select {
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}
	return r.httpClient.Do(retry)
}
