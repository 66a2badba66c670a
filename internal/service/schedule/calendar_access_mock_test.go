package schedule

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"sync"
)

var _ calendarAccess = &calendarAccessMock{}

type calendarAccessMock struct {
	MemberRoleFunc func(ctx context.Context, calendarID uuid.UUID, userID uuid.UUID) (domain.CalendarRole, error)

	calls struct {
		MemberRole []struct {
			Ctx        context.Context
			CalendarID uuid.UUID
			UserID     uuid.UUID
		}
	}
	lockMemberRole sync.RWMutex
}

func (mock *calendarAccessMock) MemberRole(ctx context.Context, calendarID uuid.UUID, userID uuid.UUID) (domain.CalendarRole, error) {
	if mock.MemberRoleFunc == nil {
		panic("calendarAccessMock.MemberRoleFunc: method is nil but calendarAccess.MemberRole was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		CalendarID uuid.UUID
		UserID     uuid.UUID
	}{Ctx: ctx, CalendarID: calendarID, UserID: userID}
	mock.lockMemberRole.Lock()
	mock.calls.MemberRole = append(mock.calls.MemberRole, callInfo)
	mock.lockMemberRole.Unlock()
	return mock.MemberRoleFunc(ctx, calendarID, userID)
}

func (mock *calendarAccessMock) MemberRoleCalls() []struct {
	Ctx        context.Context
	CalendarID uuid.UUID
	UserID     uuid.UUID
} {
	mock.lockMemberRole.RLock()
	calls := mock.calls.MemberRole
	mock.lockMemberRole.RUnlock()
	return calls
}
