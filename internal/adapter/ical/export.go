// Package ical renders expanded calendar occurrences as an RFC 5545 document.
//
// Every occurrence becomes its own VEVENT. Occurrences of a series share the
// series UID and are told apart by RECURRENCE-ID, which names the slot they
// occupy in the series; a detached occurrence keeps the slot it was split from.
package ical

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/heartmarshall/teamcal-backend/internal/domain"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/recurrence"
	"github.com/heartmarshall/teamcal-backend/internal/service/schedule/timegrid"
)

const (
	defaultProdID = "-//teamcal//calendar export//EN"
	utcLayout     = "20060102T150405Z"
	dateLayout    = "20060102"
)

// Exporter writes calendar windows as iCalendar text.
type Exporter struct {
	prodID    string
	uidDomain string
	now       func() time.Time
}

// NewExporter creates an Exporter. uidDomain is appended to every UID
// ("<id>@<uidDomain>").
func NewExporter(prodID, uidDomain string) *Exporter {
	if prodID == "" {
		prodID = defaultProdID
	}
	if uidDomain == "" {
		uidDomain = "teamcal"
	}
	return &Exporter{prodID: prodID, uidDomain: uidDomain, now: time.Now}
}

// Build assembles the calendar document for the given occurrences.
func (e *Exporter) Build(cal domain.Calendar, instances []recurrence.Instance) *ics.Calendar {
	out := ics.NewCalendar()
	out.SetProductId(e.prodID)
	out.SetMethod(ics.MethodPublish)
	out.SetXWRCalName(cal.Name)
	if cal.Timezone != "" {
		out.SetXWRTimezone(cal.Timezone)
	}

	stamp := e.now().UTC()
	for _, inst := range instances {
		e.addOccurrence(out, inst, stamp)
	}
	return out
}

// Write serializes the calendar document to w.
func (e *Exporter) Write(w io.Writer, cal domain.Calendar, instances []recurrence.Instance) error {
	if _, err := io.WriteString(w, e.Build(cal, instances).Serialize()); err != nil {
		return fmt.Errorf("ical.Write: %w", err)
	}
	return nil
}

func (e *Exporter) addOccurrence(out *ics.Calendar, inst recurrence.Instance, stamp time.Time) {
	ev := inst.Event
	occ := inst.Occurrence

	uidID := ev.ID
	if seriesID := ev.SeriesID(); seriesID != uuid.Nil {
		uidID = seriesID
	}

	vevent := out.AddEvent(fmt.Sprintf("%s@%s", uidID, e.uidDomain))
	vevent.SetDtStampTime(stamp)
	if !ev.UpdatedAt.IsZero() {
		vevent.SetModifiedAt(ev.UpdatedAt)
	}
	vevent.SetSequence(ev.Version)
	vevent.SetSummary(ev.Title)
	if ev.Description != "" {
		vevent.SetDescription(ev.Description)
	}
	if ev.Location != "" {
		vevent.SetLocation(ev.Location)
	}
	vevent.SetStatus(objectStatus(ev.Status))

	loc := timegrid.LocationOrUTC(ev.Timezone)
	if ev.AllDay {
		vevent.SetAllDayStartAt(occ.Start.In(loc))
		vevent.SetAllDayEndAt(occ.End.In(loc))
	} else {
		vevent.SetStartAt(occ.Start)
		vevent.SetEndAt(occ.End)
	}

	slot, ok := slotStart(ev, occ)
	if !ok {
		return
	}
	if ev.AllDay {
		vevent.SetProperty(ics.ComponentPropertyRecurrenceId, slot.In(loc).Format(dateLayout),
			ics.WithValue(string(ics.ValueDataTypeDate)))
	} else {
		vevent.SetProperty(ics.ComponentPropertyRecurrenceId, slot.UTC().Format(utcLayout))
	}
}

// slotStart returns the series slot an occurrence fills. Plain events have none.
func slotStart(ev domain.Event, occ domain.Occurrence) (time.Time, bool) {
	switch {
	case ev.IsSeriesHead():
		return occ.Start, true
	case ev.IsDetached() && ev.OriginalStart != nil:
		return *ev.OriginalStart, true
	}
	return time.Time{}, false
}

func objectStatus(s domain.EventStatus) ics.ObjectStatus {
	switch s {
	case domain.EventStatusTentative:
		return ics.ObjectStatusTentative
	case domain.EventStatusCancelled:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusConfirmed
	}
}
