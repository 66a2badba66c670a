package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Calendar.validate(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}

	if c.Redis.Enabled() && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("redis.lock_ttl must be > 0 (got %v)", c.Redis.LockTTL)
	}

	return nil
}

func (c *CalendarConfig) validate() error {
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("default_timezone %q: %w", c.DefaultTimezone, err)
	}
	if c.MaxWindowDays <= 0 {
		return fmt.Errorf("max_window_days must be > 0 (got %d)", c.MaxWindowDays)
	}
	if c.MaxOccurrences <= 0 {
		return fmt.Errorf("max_occurrences must be > 0 (got %d)", c.MaxOccurrences)
	}
	if c.ConflictLookaheadDays <= 0 {
		return fmt.Errorf("conflict_lookahead_days must be > 0 (got %d)", c.ConflictLookaheadDays)
	}
	if c.ConflictLookaheadDays > c.MaxWindowDays {
		return fmt.Errorf("conflict_lookahead_days (%d) must not exceed max_window_days (%d)",
			c.ConflictLookaheadDays, c.MaxWindowDays)
	}
	return nil
}

func (c *ClientConfig) validate() error {
	for name, raw := range map[string]string{"base_url": c.BaseURL, "token_url": c.TokenURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL (got %q)", name, raw)
		}
	}
	if c.RefreshLeeway < 0 {
		return fmt.Errorf("refresh_leeway must be >= 0 (got %v)", c.RefreshLeeway)
	}
	return nil
}
