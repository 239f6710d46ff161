package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vivarium/internal/dbx"
	"github.com/dmitrijs2005/vivarium/internal/server/models"
	"github.com/dmitrijs2005/vivarium/internal/server/repositories/repomanager"
)

// StateUpdater persists what a dispatch pass did to reminders.
type StateUpdater struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStateUpdater(db *sql.DB, m repomanager.RepositoryManager) *StateUpdater {
	return &StateUpdater{db: db, repomanager: m}
}

// Plan returns the update of a reminder that was just dispatched, whatever
// the delivery outcome. One-shot reminders are deactivated.
func (u *StateUpdater) Plan(r *models.Reminder, now time.Time) models.StateUpdate {
	return models.StateUpdate{
		ReminderID: r.ID,
		SentAt:     now,
		Deactivate: !r.IsRecurring,
	}
}

// Flush writes all updates of a page in one transaction.
func (u *StateUpdater) Flush(ctx context.Context, updates []models.StateUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	err := dbx.WithTx(ctx, u.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return u.repomanager.Reminders(tx).ApplyStates(ctx, updates)
	})
	if err != nil {
		return fmt.Errorf("flush %d updates: %w", len(updates), err)
	}
	return nil
}
