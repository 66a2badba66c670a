package rest

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule"
	"sync"
)

var _ scheduleService = &scheduleServiceMock{}

type scheduleServiceMock struct {
	CreateEventFunc    func(ctx context.Context, input schedule.CreateEventInput) (*schedule.CreateEventResult, error)
	ExpandEventFunc    func(ctx context.Context, eventID uuid.UUID, window schedule.WindowInput) ([]domain.Occurrence, error)
	CheckConflictsFunc func(ctx context.Context, input schedule.CheckConflictsInput) ([]domain.ConflictEntry, error)
	ProposeMoveFunc    func(ctx context.Context, input schedule.MoveInput) (*domain.PendingMove, error)
	SelectScopeFunc    func(pm *domain.PendingMove, scope domain.MutationScope) error
	ResolveMoveFunc    func(ctx context.Context, pm *domain.PendingMove) (*domain.MoveResolution, error)
	CommitMoveFunc     func(ctx context.Context, pm *domain.PendingMove) (*schedule.CommitResult, error)

	calls struct {
		CreateEvent []struct {
			Ctx   context.Context
			Input schedule.CreateEventInput
		}
		ExpandEvent []struct {
			Ctx     context.Context
			EventID uuid.UUID
			Window  schedule.WindowInput
		}
		CheckConflicts []struct {
			Ctx   context.Context
			Input schedule.CheckConflictsInput
		}
		ProposeMove []struct {
			Ctx   context.Context
			Input schedule.MoveInput
		}
		SelectScope []struct {
			Pm    *domain.PendingMove
			Scope domain.MutationScope
		}
		ResolveMove []struct {
			Ctx context.Context
			Pm  *domain.PendingMove
		}
		CommitMove []struct {
			Ctx context.Context
			Pm  *domain.PendingMove
		}
	}
	lockCreateEvent    sync.RWMutex
	lockExpandEvent    sync.RWMutex
	lockCheckConflicts sync.RWMutex
	lockProposeMove    sync.RWMutex
	lockSelectScope    sync.RWMutex
	lockResolveMove    sync.RWMutex
	lockCommitMove     sync.RWMutex
}

func (mock *scheduleServiceMock) CreateEvent(ctx context.Context, input schedule.CreateEventInput) (*schedule.CreateEventResult, error) {
	if mock.CreateEventFunc == nil {
		panic("scheduleServiceMock.CreateEventFunc: method is nil but scheduleService.CreateEvent was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input schedule.CreateEventInput
	}{Ctx: ctx, Input: input}
	mock.lockCreateEvent.Lock()
	mock.calls.CreateEvent = append(mock.calls.CreateEvent, callInfo)
	mock.lockCreateEvent.Unlock()
	return mock.CreateEventFunc(ctx, input)
}

func (mock *scheduleServiceMock) CreateEventCalls() []struct {
	Ctx   context.Context
	Input schedule.CreateEventInput
} {
	mock.lockCreateEvent.RLock()
	calls := mock.calls.CreateEvent
	mock.lockCreateEvent.RUnlock()
	return calls
}

func (mock *scheduleServiceMock) ExpandEvent(ctx context.Context, eventID uuid.UUID, window schedule.WindowInput) ([]domain.Occurrence, error) {
	if mock.ExpandEventFunc == nil {
		panic("scheduleServiceMock.ExpandEventFunc: method is nil but scheduleService.ExpandEvent was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		EventID uuid.UUID
		Window  schedule.WindowInput
	}{Ctx: ctx, EventID: eventID, Window: window}
	mock.lockExpandEvent.Lock()
	mock.calls.ExpandEvent = append(mock.calls.ExpandEvent, callInfo)
	mock.lockExpandEvent.Unlock()
	return mock.ExpandEventFunc(ctx, eventID, window)
}

func (mock *scheduleServiceMock) ExpandEventCalls() []struct {
	Ctx     context.Context
	EventID uuid.UUID
	Window  schedule.WindowInput
} {
	mock.lockExpandEvent.RLock()
	calls := mock.calls.ExpandEvent
	mock.lockExpandEvent.RUnlock()
	return calls
}

func (mock *scheduleServiceMock) CheckConflicts(ctx context.Context, input schedule.CheckConflictsInput) ([]domain.ConflictEntry, error) {
	if mock.CheckConflictsFunc == nil {
		panic("scheduleServiceMock.CheckConflictsFunc: method is nil but scheduleService.CheckConflicts was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input schedule.CheckConflictsInput
	}{Ctx: ctx, Input: input}
	mock.lockCheckConflicts.Lock()
	mock.calls.CheckConflicts = append(mock.calls.CheckConflicts, callInfo)
	mock.lockCheckConflicts.Unlock()
	return mock.CheckConflictsFunc(ctx, input)
}

func (mock *scheduleServiceMock) CheckConflictsCalls() []struct {
	Ctx   context.Context
	Input schedule.CheckConflictsInput
} {
	mock.lockCheckConflicts.RLock()
	calls := mock.calls.CheckConflicts
	mock.lockCheckConflicts.RUnlock()
	return calls
}

func (mock *scheduleServiceMock) ProposeMove(ctx context.Context, input schedule.MoveInput) (*domain.PendingMove, error) {
	if mock.ProposeMoveFunc == nil {
		panic("scheduleServiceMock.ProposeMoveFunc: method is nil but scheduleService.ProposeMove was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input schedule.MoveInput
	}{Ctx: ctx, Input: input}
	mock.lockProposeMove.Lock()
	mock.calls.ProposeMove = append(mock.calls.ProposeMove, callInfo)
	mock.lockProposeMove.Unlock()
	return mock.ProposeMoveFunc(ctx, input)
}

func (mock *scheduleServiceMock) ProposeMoveCalls() []struct {
	Ctx   context.Context
	Input schedule.MoveInput
} {
	mock.lockProposeMove.RLock()
	calls := mock.calls.ProposeMove
	mock.lockProposeMove.RUnlock()
	return calls
}

func (mock *scheduleServiceMock) SelectScope(pm *domain.PendingMove, scope domain.MutationScope) error {
	if mock.SelectScopeFunc == nil {
		panic("scheduleServiceMock.SelectScopeFunc: method is nil but scheduleService.SelectScope was just called")
	}
	callInfo := struct {
		Pm    *domain.PendingMove
		Scope domain.MutationScope
	}{Pm: pm, Scope: scope}
	mock.lockSelectScope.Lock()
	mock.calls.SelectScope = append(mock.calls.SelectScope, callInfo)
	mock.lockSelectScope.Unlock()
	return mock.SelectScopeFunc(pm, scope)
}

func (mock *scheduleServiceMock) SelectScopeCalls() []struct {
	Pm    *domain.PendingMove
	Scope domain.MutationScope
} {
	mock.lockSelectScope.RLock()
	calls := mock.calls.SelectScope
	mock.lockSelectScope.RUnlock()
	return calls
}

func (mock *scheduleServiceMock) ResolveMove(ctx context.Context, pm *domain.PendingMove) (*domain.MoveResolution, error) {
	if mock.ResolveMoveFunc == nil {
		panic("scheduleServiceMock.ResolveMoveFunc: method is nil but scheduleService.ResolveMove was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Pm  *domain.PendingMove
	}{Ctx: ctx, Pm: pm}
	mock.lockResolveMove.Lock()
	mock.calls.ResolveMove = append(mock.calls.ResolveMove, callInfo)
	mock.lockResolveMove.Unlock()
	return mock.ResolveMoveFunc(ctx, pm)
}

func (mock *scheduleServiceMock) ResolveMoveCalls() []struct {
	Ctx context.Context
	Pm  *domain.PendingMove
} {
	mock.lockResolveMove.RLock()
	calls := mock.calls.ResolveMove
	mock.lockResolveMove.RUnlock()
	return calls
}

func (mock *scheduleServiceMock) CommitMove(ctx context.Context, pm *domain.PendingMove) (*schedule.CommitResult, error) {
	if mock.CommitMoveFunc == nil {
		panic("scheduleServiceMock.CommitMoveFunc: method is nil but scheduleService.CommitMove was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Pm  *domain.PendingMove
	}{Ctx: ctx, Pm: pm}
	mock.lockCommitMove.Lock()
	mock.calls.CommitMove = append(mock.calls.CommitMove, callInfo)
	mock.lockCommitMove.Unlock()
	return mock.CommitMoveFunc(ctx, pm)
}

func (mock *scheduleServiceMock) CommitMoveCalls() []struct {
	Ctx context.Context
	Pm  *domain.PendingMove
} {
	mock.lockCommitMove.RLock()
	calls := mock.calls.CommitMove
	mock.lockCommitMove.RUnlock()
	return calls
}
