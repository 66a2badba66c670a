// Package calendarapi is a client of the team calendar REST API that
// authenticates with a refreshable session.
package calendarapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/session"
)

type tokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (session.Credentials, error)
}

// Client calls the API with the bearer token held by a session.
type Client struct {
	baseURL    string
	tokens     tokenSource
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the API at baseURL.
func NewClient(baseURL string, tokens tokenSource, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "calendar_api"),
	}
}

// ExportICS streams the iCalendar export of a calendar window to w.
func (c *Client) ExportICS(ctx context.Context, calendarID uuid.UUID, from, to time.Time, w io.Writer) error {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	endpoint := fmt.Sprintf("%s/api/calendars/%s/export.ics?%s", c.baseURL, calendarID, q.Encode())

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("calendarapi.ExportICS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendarapi.ExportICS: %w", statusError(resp))
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("calendarapi.ExportICS copy: %w", err)
	}
	return nil
}

// get sends an authenticated GET. A 401 forces one refresh and one retry:
// the server may reject a token the holder still considers valid.
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, endpoint, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	c.log.InfoContext(ctx, "access token rejected, refreshing")
	creds, err := c.tokens.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, endpoint, creds.AccessToken)
}

func (c *Client) do(ctx context.Context, endpoint, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	}
	return fmt.Errorf("api returned %d: %s", resp.StatusCode, msg)
}
