package schedule

import (
	"context"
	"github.com/google/uuid"
	"sync"
)

var _ resourceDirectory = &resourceDirectoryMock{}

type resourceDirectoryMock struct {
	RoomLabelsFunc func(ctx context.Context, roomIDs []uuid.UUID) (map[uuid.UUID]string, error)
	UserLabelsFunc func(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)

	calls struct {
		RoomLabels []struct {
			Ctx     context.Context
			RoomIDs []uuid.UUID
		}
		UserLabels []struct {
			Ctx     context.Context
			UserIDs []uuid.UUID
		}
	}
	lockRoomLabels sync.RWMutex
	lockUserLabels sync.RWMutex
}

func (mock *resourceDirectoryMock) RoomLabels(ctx context.Context, roomIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if mock.RoomLabelsFunc == nil {
		panic("resourceDirectoryMock.RoomLabelsFunc: method is nil but resourceDirectory.RoomLabels was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		RoomIDs []uuid.UUID
	}{Ctx: ctx, RoomIDs: roomIDs}
	mock.lockRoomLabels.Lock()
	mock.calls.RoomLabels = append(mock.calls.RoomLabels, callInfo)
	mock.lockRoomLabels.Unlock()
	return mock.RoomLabelsFunc(ctx, roomIDs)
}

func (mock *resourceDirectoryMock) RoomLabelsCalls() []struct {
	Ctx     context.Context
	RoomIDs []uuid.UUID
} {
	mock.lockRoomLabels.RLock()
	calls := mock.calls.RoomLabels
	mock.lockRoomLabels.RUnlock()
	return calls
}

func (mock *resourceDirectoryMock) UserLabels(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	if mock.UserLabelsFunc == nil {
		panic("resourceDirectoryMock.UserLabelsFunc: method is nil but resourceDirectory.UserLabels was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		UserIDs []uuid.UUID
	}{Ctx: ctx, UserIDs: userIDs}
	mock.lockUserLabels.Lock()
	mock.calls.UserLabels = append(mock.calls.UserLabels, callInfo)
	mock.lockUserLabels.Unlock()
	return mock.UserLabelsFunc(ctx, userIDs)
}

func (mock *resourceDirectoryMock) UserLabelsCalls() []struct {
	Ctx     context.Context
	UserIDs []uuid.UUID
} {
	mock.lockUserLabels.RLock()
	calls := mock.calls.UserLabels
	mock.lockUserLabels.RUnlock()
	return calls
}
