package rest

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"sync"
)

var _ calendarReader = &calendarReaderMock{}

type calendarReaderMock struct {
	GetByIDFunc func(ctx context.Context, calendarID uuid.UUID) (*domain.Calendar, error)

	calls struct {
		GetByID []struct {
			Ctx        context.Context
			CalendarID uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *calendarReaderMock) GetByID(ctx context.Context, calendarID uuid.UUID) (*domain.Calendar, error) {
	if mock.GetByIDFunc == nil {
		panic("calendarReaderMock.GetByIDFunc: method is nil but calendarReader.GetByID was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		CalendarID uuid.UUID
	}{Ctx: ctx, CalendarID: calendarID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, calendarID)
}

func (mock *calendarReaderMock) GetByIDCalls() []struct {
	Ctx        context.Context
	CalendarID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
