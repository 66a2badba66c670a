package rest

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
	"sync"
)

var _ occurrenceLister = &occurrenceListerMock{}

type occurrenceListerMock struct {
	ListOccurrencesFunc func(ctx context.Context, calendarID uuid.UUID, window schedule.WindowInput) ([]recurrence.Instance, error)

	calls struct {
		ListOccurrences []struct {
			Ctx        context.Context
			CalendarID uuid.UUID
			Window     schedule.WindowInput
		}
	}
	lockListOccurrences sync.RWMutex
}

func (mock *occurrenceListerMock) ListOccurrences(ctx context.Context, calendarID uuid.UUID, window schedule.WindowInput) ([]recurrence.Instance, error) {
	if mock.ListOccurrencesFunc == nil {
		panic("occurrenceListerMock.ListOccurrencesFunc: method is nil but occurrenceLister.ListOccurrences was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		CalendarID uuid.UUID
		Window     schedule.WindowInput
	}{Ctx: ctx, CalendarID: calendarID, Window: window}
	mock.lockListOccurrences.Lock()
	mock.calls.ListOccurrences = append(mock.calls.ListOccurrences, callInfo)
	mock.lockListOccurrences.Unlock()
	return mock.ListOccurrencesFunc(ctx, calendarID, window)
}

func (mock *occurrenceListerMock) ListOccurrencesCalls() []struct {
	Ctx        context.Context
	CalendarID uuid.UUID
	Window     schedule.WindowInput
} {
	mock.lockListOccurrences.RLock()
	calls := mock.calls.ListOccurrences
	mock.lockListOccurrences.RUnlock()
	return calls
}
