package schedule

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"sync"
	"time"
)

var _ eventRepo = &eventRepoMock{}

type eventRepoMock struct {
	FetchEventsForResourceFunc func(ctx context.Context, resourceID uuid.UUID, windowStart time.Time, windowEnd time.Time) ([]domain.Event, error)
	FetchSeriesHeadFunc        func(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	ListDetachedFunc           func(ctx context.Context, seriesIDs []uuid.UUID) ([]domain.Event, error)
	GetByIDFunc                func(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	ListByCalendarFunc         func(ctx context.Context, calendarID uuid.UUID, windowStart time.Time, windowEnd time.Time) ([]domain.Event, error)
	CreateFunc                 func(ctx context.Context, event *domain.Event) (*domain.Event, error)
	UpdateFunc                 func(ctx context.Context, event *domain.Event) (*domain.Event, error)

	calls struct {
		FetchEventsForResource []struct {
			Ctx         context.Context
			ResourceID  uuid.UUID
			WindowStart time.Time
			WindowEnd   time.Time
		}
		FetchSeriesHead []struct {
			Ctx     context.Context
			EventID uuid.UUID
		}
		ListDetached []struct {
			Ctx       context.Context
			SeriesIDs []uuid.UUID
		}
		GetByID []struct {
			Ctx     context.Context
			EventID uuid.UUID
		}
		ListByCalendar []struct {
			Ctx         context.Context
			CalendarID  uuid.UUID
			WindowStart time.Time
			WindowEnd   time.Time
		}
		Create []struct {
			Ctx   context.Context
			Event *domain.Event
		}
		Update []struct {
			Ctx   context.Context
			Event *domain.Event
		}
	}
	lockFetchEventsForResource sync.RWMutex
	lockFetchSeriesHead        sync.RWMutex
	lockListDetached           sync.RWMutex
	lockGetByID                sync.RWMutex
	lockListByCalendar         sync.RWMutex
	lockCreate                 sync.RWMutex
	lockUpdate                 sync.RWMutex
}

func (mock *eventRepoMock) FetchEventsForResource(ctx context.Context, resourceID uuid.UUID, windowStart time.Time, windowEnd time.Time) ([]domain.Event, error) {
	if mock.FetchEventsForResourceFunc == nil {
		panic("eventRepoMock.FetchEventsForResourceFunc: method is nil but eventRepo.FetchEventsForResource was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		ResourceID  uuid.UUID
		WindowStart time.Time
		WindowEnd   time.Time
	}{Ctx: ctx, ResourceID: resourceID, WindowStart: windowStart, WindowEnd: windowEnd}
	mock.lockFetchEventsForResource.Lock()
	mock.calls.FetchEventsForResource = append(mock.calls.FetchEventsForResource, callInfo)
	mock.lockFetchEventsForResource.Unlock()
	return mock.FetchEventsForResourceFunc(ctx, resourceID, windowStart, windowEnd)
}

func (mock *eventRepoMock) FetchEventsForResourceCalls() []struct {
	Ctx         context.Context
	ResourceID  uuid.UUID
	WindowStart time.Time
	WindowEnd   time.Time
} {
	mock.lockFetchEventsForResource.RLock()
	calls := mock.calls.FetchEventsForResource
	mock.lockFetchEventsForResource.RUnlock()
	return calls
}

func (mock *eventRepoMock) FetchSeriesHead(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	if mock.FetchSeriesHeadFunc == nil {
		panic("eventRepoMock.FetchSeriesHeadFunc: method is nil but eventRepo.FetchSeriesHead was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		EventID uuid.UUID
	}{Ctx: ctx, EventID: eventID}
	mock.lockFetchSeriesHead.Lock()
	mock.calls.FetchSeriesHead = append(mock.calls.FetchSeriesHead, callInfo)
	mock.lockFetchSeriesHead.Unlock()
	return mock.FetchSeriesHeadFunc(ctx, eventID)
}

func (mock *eventRepoMock) FetchSeriesHeadCalls() []struct {
	Ctx     context.Context
	EventID uuid.UUID
} {
	mock.lockFetchSeriesHead.RLock()
	calls := mock.calls.FetchSeriesHead
	mock.lockFetchSeriesHead.RUnlock()
	return calls
}

func (mock *eventRepoMock) ListDetached(ctx context.Context, seriesIDs []uuid.UUID) ([]domain.Event, error) {
	if mock.ListDetachedFunc == nil {
		panic("eventRepoMock.ListDetachedFunc: method is nil but eventRepo.ListDetached was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		SeriesIDs []uuid.UUID
	}{Ctx: ctx, SeriesIDs: seriesIDs}
	mock.lockListDetached.Lock()
	mock.calls.ListDetached = append(mock.calls.ListDetached, callInfo)
	mock.lockListDetached.Unlock()
	return mock.ListDetachedFunc(ctx, seriesIDs)
}

func (mock *eventRepoMock) ListDetachedCalls() []struct {
	Ctx       context.Context
	SeriesIDs []uuid.UUID
} {
	mock.lockListDetached.RLock()
	calls := mock.calls.ListDetached
	mock.lockListDetached.RUnlock()
	return calls
}

func (mock *eventRepoMock) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	if mock.GetByIDFunc == nil {
		panic("eventRepoMock.GetByIDFunc: method is nil but eventRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		EventID uuid.UUID
	}{Ctx: ctx, EventID: eventID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, eventID)
}

func (mock *eventRepoMock) GetByIDCalls() []struct {
	Ctx     context.Context
	EventID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *eventRepoMock) ListByCalendar(ctx context.Context, calendarID uuid.UUID, windowStart time.Time, windowEnd time.Time) ([]domain.Event, error) {
	if mock.ListByCalendarFunc == nil {
		panic("eventRepoMock.ListByCalendarFunc: method is nil but eventRepo.ListByCalendar was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		CalendarID  uuid.UUID
		WindowStart time.Time
		WindowEnd   time.Time
	}{Ctx: ctx, CalendarID: calendarID, WindowStart: windowStart, WindowEnd: windowEnd}
	mock.lockListByCalendar.Lock()
	mock.calls.ListByCalendar = append(mock.calls.ListByCalendar, callInfo)
	mock.lockListByCalendar.Unlock()
	return mock.ListByCalendarFunc(ctx, calendarID, windowStart, windowEnd)
}

func (mock *eventRepoMock) ListByCalendarCalls() []struct {
	Ctx         context.Context
	CalendarID  uuid.UUID
	WindowStart time.Time
	WindowEnd   time.Time
} {
	mock.lockListByCalendar.RLock()
	calls := mock.calls.ListByCalendar
	mock.lockListByCalendar.RUnlock()
	return calls
}

func (mock *eventRepoMock) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if mock.CreateFunc == nil {
		panic("eventRepoMock.CreateFunc: method is nil but eventRepo.Create was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Event *domain.Event
	}{Ctx: ctx, Event: event}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, event)
}

func (mock *eventRepoMock) CreateCalls() []struct {
	Ctx   context.Context
	Event *domain.Event
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *eventRepoMock) Update(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if mock.UpdateFunc == nil {
		panic("eventRepoMock.UpdateFunc: method is nil but eventRepo.Update was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Event *domain.Event
	}{Ctx: ctx, Event: event}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, event)
}

func (mock *eventRepoMock) UpdateCalls() []struct {
	Ctx   context.Context
	Event *domain.Event
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}
