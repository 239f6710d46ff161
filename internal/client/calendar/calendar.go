// Package calendar expands reminders into the concrete occurrences shown in a
// calendar window.
package calendar

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/vivarium/internal/common"
	"github.com/dmitrijs2005/vivarium/internal/recurrence"
	"github.com/dmitrijs2005/vivarium/internal/server/models"
)

// MaxSteps caps the stepping iterations per reminder. Reaching it stops the
// expansion of that reminder silently.
const MaxSteps = 1000

// Occurrence is one concrete instance of a reminder.
type Occurrence struct {
	Reminder *models.Reminder `json:"reminder"`
	At       time.Time        `json:"at"`
	// IsOriginal marks the anchor occurrence as opposed to a generated one.
	IsOriginal bool `json:"is_original"`
}

// Expand lists every occurrence of reminders within [from, to], both ends
// included, ordered by time and then reminder id.
//
// The anchor is listed whenever it is in range. Recurring reminders are
// stepped with recurrence.ClientCalendar; a generated instance on the
// anchor's calendar day is dropped, and a pattern the calendar does not know
// yields the anchor only.
func Expand(reminders []*models.Reminder, from, to time.Time) []Occurrence {
	return expand(recurrence.ClientCalendar, reminders, from, to)
}

func expand(cal recurrence.Calendar, reminders []*models.Reminder, from, to time.Time) []Occurrence {
	if to.Before(from) {
		return nil
	}
	inRange := func(t time.Time) bool {
		return !t.Before(from) && !t.After(to)
	}

	var out []Occurrence
	for _, r := range reminders {
		anchor := r.ReminderDateTime
		if inRange(anchor) {
			out = append(out, Occurrence{Reminder: r, At: anchor, IsOriginal: true})
		}
		if !r.IsRecurring {
			continue
		}

		t := anchor
		for i := 0; i < MaxSteps; i++ {
			next, ok := cal.Step(t, r.RecurrencePattern)
			if !ok || next.After(to) {
				break
			}
			t = next
			if !inRange(t) || recurrence.SameDay(anchor, t) {
				continue
			}
			out = append(out, Occurrence{Reminder: r, At: t})
		}
	}

	slices.SortStableFunc(out, func(a, b Occurrence) int {
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return cmp.Compare(a.Reminder.ID, b.Reminder.ID)
	})
	return out
}

// ParseDay parses a YYYY-MM-DD date as midnight UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(common.DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// ParseRange parses a from/to pair of days and rejects a reversed window.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	f, err := ParseDay(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := ParseDay(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if t.Before(f) {
		return time.Time{}, time.Time{}, fmt.Errorf("%s before %s: %w", to, from, common.ErrInvalidRange)
	}
	return f, t, nil
}
