package recurrence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
)

func TestExpandSet_DetachedReplacesSeriesSlot(t *testing.T) {
	t.Parallel()

	head := seriesHead(utc(2024, 1, 1, 10, 0), time.Hour,
		domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1, Count: ptr(5)})

	original := utc(2024, 1, 3, 10, 0)
	detached := domain.Event{
		ID:                 uuid.New(),
		StartsAt:           utc(2024, 1, 3, 15, 0),
		EndsAt:             utc(2024, 1, 3, 16, 0),
		RecurrenceParentID: &head.ID,
		OriginalStart:      &original,
	}

	got, err := ExpandSet([]domain.Event{head, detached}, utc(2024, 1, 1, 0, 0), utc(2024, 2, 1, 0, 0), 0)
	require.NoError(t, err)
	require.Len(t, got, 5)

	var fromHead, fromDetached int
	for _, inst := range got {
		switch inst.Event.ID {
		case head.ID:
			fromHead++
			assert.False(t, inst.Occurrence.Start.Equal(original), "replaced slot must not be yielded")
		case detached.ID:
			fromDetached++
		}
	}
	assert.Equal(t, 4, fromHead)
	assert.Equal(t, 1, fromDetached)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Occurrence.Start.Before(got[i-1].Occurrence.Start), "result must be ordered by start")
	}
}

func TestExpandSet_LimitPerSeries(t *testing.T) {
	t.Parallel()

	a := seriesHead(utc(2024, 1, 1, 9, 0), time.Hour,
		domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1})
	b := seriesHead(utc(2024, 1, 1, 12, 0), time.Hour,
		domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 1})

	got, err := ExpandSet([]domain.Event{a, b}, utc(2024, 1, 1, 0, 0), utc(2025, 1, 1, 0, 0), 10)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestExpandSet_InvalidStoredRule(t *testing.T) {
	t.Parallel()

	bad := seriesHead(utc(2024, 1, 1, 9, 0), time.Hour,
		domain.RecurrenceRule{Frequency: domain.FrequencyDaily, Interval: 0})

	_, err := ExpandSet([]domain.Event{bad}, utc(2024, 1, 1, 0, 0), utc(2024, 2, 1, 0, 0), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrenceRule)
}
