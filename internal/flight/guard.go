package flight

import (
	"context"
	"fmt"
	"sync"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

// Guard admits at most one holder per key. A second Acquire on a held key
// fails immediately with domain.ErrConflict instead of queueing.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{busy: make(map[string]struct{})}
}

// Acquire marks key as held. The returned release is idempotent.
func (g *Guard) Acquire(ctx context.Context, key string) (release func(), err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.busy[key]; held {
		return nil, fmt.Errorf("%w: %s already in progress", domain.ErrConflict, key)
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, nil
}

// Do runs fn while holding key.
func (g *Guard) Do(ctx context.Context, key string, fn func() error) error {
	release, err := g.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Held reports whether key is currently held.
func (g *Guard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, held := g.busy[key]
	return held
}
