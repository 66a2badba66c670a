package schedule

import (
	"context"
	"github.com/google/uuid"
	"sync"
)

var _ groupResolver = &groupResolverMock{}

type groupResolverMock struct {
	ExpandGroupsFunc func(ctx context.Context, groupIDs []uuid.UUID) ([]uuid.UUID, error)

	calls struct {
		ExpandGroups []struct {
			Ctx      context.Context
			GroupIDs []uuid.UUID
		}
	}
	lockExpandGroups sync.RWMutex
}

func (mock *groupResolverMock) ExpandGroups(ctx context.Context, groupIDs []uuid.UUID) ([]uuid.UUID, error) {
	if mock.ExpandGroupsFunc == nil {
		panic("groupResolverMock.ExpandGroupsFunc: method is nil but groupResolver.ExpandGroups was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		GroupIDs []uuid.UUID
	}{Ctx: ctx, GroupIDs: groupIDs}
	mock.lockExpandGroups.Lock()
	mock.calls.ExpandGroups = append(mock.calls.ExpandGroups, callInfo)
	mock.lockExpandGroups.Unlock()
	return mock.ExpandGroupsFunc(ctx, groupIDs)
}

func (mock *groupResolverMock) ExpandGroupsCalls() []struct {
	Ctx      context.Context
	GroupIDs []uuid.UUID
} {
	mock.lockExpandGroups.RLock()
	calls := mock.calls.ExpandGroups
	mock.lockExpandGroups.RUnlock()
	return calls
}
