// Package reminders declares the server-side repository contract for the
// reminders read and updated by the scheduling run.
package reminders

import (
	"context"

	"github.com/dmitrijs2005/vivarium/internal/server/models"
)

// Repository defines the reminder queries of the scheduler and the calendar.
type Repository interface {
	// ListActivePage returns up to limit active reminders with id > after,
	// ordered by id ascending. Owners are joined; missing animals yield a nil
	// AnimalID.
	ListActivePage(ctx context.Context, after string, limit int) ([]*models.Reminder, error)

	// ApplyStates persists post-dispatch state changes. Callers flush one scan
	// page per call, usually inside a transaction.
	ApplyStates(ctx context.Context, updates []models.StateUpdate) error

	// ListByUser returns the active reminders of userID ordered by anchor.
	ListByUser(ctx context.Context, userID string) ([]*models.Reminder, error)

	// Get returns a reminder by id or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Reminder, error)
}
