package session

import (
	"context"
	"sync"
)

var _ refresher = &refresherMock{}

type refresherMock struct {
	RefreshFunc func(ctx context.Context, refreshToken string) (Credentials, error)

	calls struct {
		Refresh []struct {
			Ctx          context.Context
			RefreshToken string
		}
	}
	lockRefresh sync.RWMutex
}

func (mock *refresherMock) Refresh(ctx context.Context, refreshToken string) (Credentials, error) {
	if mock.RefreshFunc == nil {
		panic("refresherMock.RefreshFunc: method is nil but refresher.Refresh was just called")
	}
	callInfo := struct {
		Ctx          context.Context
		RefreshToken string
	}{Ctx: ctx, RefreshToken: refreshToken}
	mock.lockRefresh.Lock()
	mock.calls.Refresh = append(mock.calls.Refresh, callInfo)
	mock.lockRefresh.Unlock()
	return mock.RefreshFunc(ctx, refreshToken)
}

func (mock *refresherMock) RefreshCalls() []struct {
	Ctx          context.Context
	RefreshToken string
} {
	mock.lockRefresh.RLock()
	calls := mock.calls.Refresh
	mock.lockRefresh.RUnlock()
	return calls
}
