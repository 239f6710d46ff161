// Package models defines server-side data models read and written by the
// scheduling run.
package models

import "time"

// Reminder is a scheduled entity owned by a user and optionally tied to one
// animal of the collection.
type Reminder struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	// AnimalID is nil when the reminder has no animal or the animal was deleted.
	AnimalID    *string `json:"animal_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	// ReminderDateTime is the anchor: the single due time of a one-shot
	// reminder, the first occurrence and phase of a recurring one.
	ReminderDateTime  time.Time `json:"reminder_date_time"`
	IsRecurring       bool      `json:"is_recurring"`
	RecurrencePattern string    `json:"recurrence_pattern"`
	IsActive          bool      `json:"is_active"`
	// LastSentAt is nil until a notification was dispatched for the reminder.
	LastSentAt *time.Time `json:"last_sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DueReminder is a reminder found due by a scan, with everything needed to
// notify its owner.
type DueReminder struct {
	Reminder *Reminder
	// Occurrence is the computed occurrence that made the reminder due.
	Occurrence time.Time
	// Tokens are the push tokens of every registered device of the owner.
	Tokens []string
}

// StateUpdate is the post-dispatch change of one reminder.
type StateUpdate struct {
	ReminderID string
	// SentAt becomes both last_sent_at and updated_at.
	SentAt time.Time
	// Deactivate turns the reminder off for good (one-shot reminders).
	Deactivate bool
}
