// Package flight coalesces concurrent work on the same key.
//
// Group shares one in-flight call and its result between every caller that
// asks for the same key. Guard refuses a second caller outright; it is meant
// for mutations, where sharing another caller's result would be wrong.
package flight

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Group runs at most one fn per key at a time. Callers arriving while a call
// is in flight wait for it and receive the same result. The key is released as
// soon as the call returns, successfully or not, so the next caller starts a
// fresh attempt.
type Group[T any] struct {
	g singleflight.Group
}

// Do runs fn for key or joins the call already running. shared reports whether
// the result was delivered to more than one caller.
//
// fn runs with a context detached from the caller's cancellation: one caller
// giving up must not fail the others. A cancelled caller stops waiting and
// gets ctx.Err().
func (g *Group[T]) Do(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (v T, shared bool, err error) {
	work := context.WithoutCancel(ctx)
	ch := g.g.DoChan(key, func() (any, error) {
		return fn(work)
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Shared, res.Err
		}
		out, ok := res.Val.(T)
		if !ok && res.Val != nil {
			var zero T
			return zero, res.Shared, fmt.Errorf("flight: unexpected result type %T", res.Val)
		}
		return out, res.Shared, nil
	}
}

// Forget drops the in-flight marker for key; the next Do starts a new call
// even if the current one has not returned yet.
func (g *Group[T]) Forget(key string) {
	g.g.Forget(key)
}
