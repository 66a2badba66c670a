package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/flight"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type eventRepo interface {
	// FetchEventsForResource returns every event booking resourceID that may
	// occupy the window: non-recurring events overlapping it and series heads
	// starting before its end.
	FetchEventsForResource(ctx context.Context, resourceID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Event, error)
	FetchSeriesHead(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	// ListDetached returns the detached occurrences of the given series heads.
	ListDetached(ctx context.Context, seriesIDs []uuid.UUID) ([]domain.Event, error)
	GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	ListByCalendar(ctx context.Context, calendarID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.Event, error)
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	// Update writes event if its Version still matches, returning ErrConflict otherwise.
	Update(ctx context.Context, event *domain.Event) (*domain.Event, error)
}

type groupResolver interface {
	ExpandGroups(ctx context.Context, groupIDs []uuid.UUID) ([]uuid.UUID, error)
}

type resourceDirectory interface {
	RoomLabels(ctx context.Context, roomIDs []uuid.UUID) (map[uuid.UUID]string, error)
	UserLabels(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type calendarAccess interface {
	MemberRole(ctx context.Context, calendarID, userID uuid.UUID) (domain.CalendarRole, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SeriesLock admits one mutation per series at a time. Acquire fails with
// domain.ErrConflict when the key is already held.
type SeriesLock interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config bounds the work a single request may cause.
type Config struct {
	DefaultTimezone string
	// MaxWindow is the longest expansion window a caller may ask for.
	MaxWindow time.Duration
	// MaxOccurrences caps the occurrences taken from one series per expansion.
	MaxOccurrences int
	// ConflictLookahead is how far ahead a new recurring event is checked.
	ConflictLookahead time.Duration
	// SeriesLock defaults to an in-process guard.
	SeriesLock SeriesLock
}

// Service is the scheduling engine: expansion, conflict checks and moves.
type Service struct {
	events    eventRepo
	groups    groupResolver
	directory resourceDirectory
	access    calendarAccess
	tx        txManager
	lock      SeriesLock
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
}

// NewService creates a new Schedule service.
func NewService(
	log *slog.Logger,
	events eventRepo,
	groups groupResolver,
	directory resourceDirectory,
	access calendarAccess,
	tx txManager,
	cfg Config,
) *Service {
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	if cfg.MaxWindow <= 0 {
		cfg.MaxWindow = 366 * 24 * time.Hour
	}
	if cfg.MaxOccurrences <= 0 {
		cfg.MaxOccurrences = 1000
	}
	if cfg.ConflictLookahead <= 0 {
		cfg.ConflictLookahead = 90 * 24 * time.Hour
	}
	if cfg.SeriesLock == nil {
		cfg.SeriesLock = flight.NewGuard()
	}

	return &Service{
		events:    events,
		groups:    groups,
		directory: directory,
		access:    access,
		tx:        tx,
		lock:      cfg.SeriesLock,
		cfg:       cfg,
		log:       log.With("service", "schedule"),
		now:       time.Now,
	}
}
