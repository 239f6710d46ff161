// Package recurrence implements the step rules shared by the due-reminder
// scan on the server and the occurrence expansion behind the calendar.
//
// Both call sites go through a Calendar. The server and the client were
// historically built with different pattern sets and different reactions to
// an unknown pattern; ServerCalendar and ClientCalendar keep those two
// behaviours explicit until a single policy is chosen. All functions are pure:
// "now" is always an argument.
package recurrence

import (
	"slices"
	"strings"
	"time"
)

// Pattern is a recurrence step rule.
type Pattern string

const (
	Daily   Pattern = "daily"
	Weekly  Pattern = "weekly"
	Monthly Pattern = "monthly"
	Yearly  Pattern = "yearly"
)

// UnsupportedPolicy decides what a Calendar does with a pattern it does not
// know (including an empty one).
type UnsupportedPolicy int

const (
	// DefaultToDaily steps unknown patterns by one day.
	DefaultToDaily UnsupportedPolicy = iota
	// Skip refuses to step unknown patterns.
	Skip
)

func (p UnsupportedPolicy) String() string {
	switch p {
	case DefaultToDaily:
		return "default-to-daily"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Calendar is a set of supported patterns plus the policy for everything else.
type Calendar struct {
	Patterns []Pattern
	Policy   UnsupportedPolicy
}

var (
	// ServerCalendar is used by the scheduling run: no yearly pattern,
	// unknown patterns fall back to daily.
	ServerCalendar = Calendar{
		Patterns: []Pattern{Daily, Weekly, Monthly},
		Policy:   DefaultToDaily,
	}

	// ClientCalendar is used by the calendar expansion: yearly is supported,
	// unknown patterns produce no recurring instances.
	ClientCalendar = Calendar{
		Patterns: []Pattern{Daily, Weekly, Monthly, Yearly},
		Policy:   Skip,
	}
)

// Resolve normalizes raw and maps it onto a supported pattern according to
// the calendar policy. ok is false only under the Skip policy.
func (c Calendar) Resolve(raw string) (p Pattern, ok bool) {
	p = Pattern(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(c.Patterns, p) {
		return p, true
	}
	if c.Policy == DefaultToDaily {
		return Daily, true
	}
	return "", false
}

// Step advances t by one step of the raw pattern.
func (c Calendar) Step(t time.Time, raw string) (time.Time, bool) {
	p, ok := c.Resolve(raw)
	if !ok {
		return t, false
	}
	return step(t, p), true
}

// NextAfter returns the smallest occurrence strictly after now, stepping from
// anchor. A future anchor is returned unchanged, as is the anchor of a
// pattern the calendar refuses to step.
func (c Calendar) NextAfter(anchor time.Time, raw string, now time.Time) time.Time {
	if anchor.After(now) {
		return anchor
	}
	p, ok := c.Resolve(raw)
	if !ok {
		return anchor
	}
	next := anchor
	for !next.After(now) {
		next = step(next, p)
	}
	return next
}

// DueOccurrence returns the occurrence a reminder is judged by at now.
//
// Non-recurring reminders and reminders whose anchor is still in the future
// are judged by the anchor itself. Otherwise it is the most recent stepped
// occurrence that is not after now: a weekly reminder anchored at T is judged
// by T+7d at T+10d.
func (c Calendar) DueOccurrence(anchor time.Time, recurring bool, raw string, now time.Time) time.Time {
	if !recurring || anchor.After(now) {
		return anchor
	}
	p, ok := c.Resolve(raw)
	if !ok {
		return anchor
	}
	occ := anchor
	for {
		next := step(occ, p)
		if next.After(now) {
			return occ
		}
		occ = next
	}
}

// IsDue reports whether occurrence has arrived and was not acknowledged yet.
// A nil lastSentAt means the reminder was never sent.
func IsDue(occurrence time.Time, lastSentAt *time.Time, now time.Time) bool {
	if occurrence.After(now) {
		return false
	}
	return lastSentAt == nil || occurrence.After(*lastSentAt)
}

func step(t time.Time, p Pattern) time.Time {
	switch p {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return AddMonths(t, 1)
	case Yearly:
		return AddMonths(t, 12)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// AddMonths adds n calendar months to t, clipping the day to the length of
// the target month (Jan 31 + 1 month = Feb 28 or 29). time.AddDate would
// normalize into March instead.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
