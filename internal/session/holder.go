// Package session holds the credential of an API client and refreshes it.
//
// Concurrent callers that find the access token expired share a single
// refresh call; the pending marker is dropped on success and on failure, so a
// failed refresh can be retried by the next caller.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/flight"
)

// ErrNoSession is returned when no credential has been set or it was cleared.
var ErrNoSession = fmt.Errorf("%w: no session", domain.ErrUnauthorized)

const refreshKey = "refresh"

// Credentials is the token pair held for one signed-in client.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Credentials, error)
}

// Holder is the single in-process owner of the current credential.
type Holder struct {
	refresher refresher
	leeway    time.Duration
	log       *slog.Logger
	now       func() time.Time

	mu    sync.RWMutex
	creds *Credentials
	// epoch changes on every Set and Clear; a refresh started under an older
	// epoch must not overwrite what replaced it.
	epoch uint64

	flight flight.Group[Credentials]
}

// NewHolder creates an empty holder. leeway is how long before expiry the
// access token is already treated as expired.
func NewHolder(log *slog.Logger, r refresher, leeway time.Duration) *Holder {
	return &Holder{
		refresher: r,
		leeway:    leeway,
		log:       log.With("component", "session"),
		now:       time.Now,
	}
}

// Set installs a credential. A zero ExpiresAt is read from the access token's exp claim.
func (h *Holder) Set(c Credentials) {
	if c.ExpiresAt.IsZero() {
		if exp, err := ExpiryOf(c.AccessToken); err == nil {
			c.ExpiresAt = exp
		}
	}

	h.mu.Lock()
	h.creds = &c
	h.epoch++
	h.mu.Unlock()
}

// Clear drops the credential, e.g. on logout. A refresh still in flight
// completes but its result is discarded.
func (h *Holder) Clear() {
	h.mu.Lock()
	h.creds = nil
	h.epoch++
	h.mu.Unlock()

	h.flight.Forget(refreshKey)
}

// AccessToken returns a valid access token, refreshing it first when it is
// missing or about to expire.
func (h *Holder) AccessToken(ctx context.Context) (string, error) {
	h.mu.RLock()
	creds := h.creds
	h.mu.RUnlock()

	if creds == nil {
		return "", ErrNoSession
	}
	if creds.AccessToken != "" && h.now().Add(h.leeway).Before(creds.ExpiresAt) {
		return creds.AccessToken, nil
	}

	fresh, err := h.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return fresh.AccessToken, nil
}

// Refresh forces a refresh. Callers arriving while one is running join it.
func (h *Holder) Refresh(ctx context.Context) (Credentials, error) {
	creds, shared, err := h.flight.Do(ctx, refreshKey, h.refresh)
	if err != nil {
		return Credentials{}, err
	}
	if shared {
		h.log.DebugContext(ctx, "joined in-flight refresh")
	}
	return creds, nil
}

func (h *Holder) refresh(ctx context.Context) (Credentials, error) {
	h.mu.RLock()
	current := h.creds
	epoch := h.epoch
	h.mu.RUnlock()

	if current == nil || current.RefreshToken == "" {
		return Credentials{}, ErrNoSession
	}

	fresh, err := h.refresher.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.log.WarnContext(ctx, "refresh token rejected, clearing session")
			h.clearIf(epoch)
		}
		return Credentials{}, fmt.Errorf("session.Refresh: %w", err)
	}

	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}
	if fresh.ExpiresAt.IsZero() {
		if exp, err := ExpiryOf(fresh.AccessToken); err == nil {
			fresh.ExpiresAt = exp
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.epoch != epoch {
		if h.creds == nil {
			return Credentials{}, fmt.Errorf("session.Refresh: %w", ErrNoSession)
		}
		return *h.creds, nil
	}
	h.creds = &fresh
	h.epoch++
	return fresh, nil
}

func (h *Holder) clearIf(epoch uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.epoch == epoch {
		h.creds = nil
		h.epoch++
	}
}

// ExpiryOf reads the exp claim of a JWT without verifying its signature.
// The holder only needs to know when to refresh; the server verifies.
func ExpiryOf(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}
