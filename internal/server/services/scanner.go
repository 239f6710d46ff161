// Package services contains the server-side scheduling logic: the due scan,
// the state updates after dispatch and the run that ties them together.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vivarium/internal/common"
	"github.com/dmitrijs2005/vivarium/internal/recurrence"
	"github.com/dmitrijs2005/vivarium/internal/server/models"
	"github.com/dmitrijs2005/vivarium/internal/server/repositories/repomanager"
)

// ScanPage is the result of scanning one page of active reminders.
type ScanPage struct {
	// Scanned is the number of reminders read; zero ends the run.
	Scanned int
	// LastID is the cursor for the next page.
	LastID string
	Due    []*models.DueReminder
}

// DueScanner reads active reminders page by page in id order and selects
// the due ones.
type DueScanner struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	pageSize    int
	calendar    recurrence.Calendar
}

func NewDueScanner(db *sql.DB, m repomanager.RepositoryManager, pageSize int) *DueScanner {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	return &DueScanner{
		db:          db,
		repomanager: m,
		pageSize:    pageSize,
		calendar:    recurrence.ServerCalendar,
	}
}

// Scan reads the page of reminders with id > after and returns the due ones
// with their owners' device tokens.
func (s *DueScanner) Scan(ctx context.Context, after string, now time.Time) (*ScanPage, error) {
	items, err := s.repomanager.Reminders(s.db).ListActivePage(ctx, after, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	page := &ScanPage{Scanned: len(items), LastID: after}
	if len(items) == 0 {
		return page, nil
	}
	page.LastID = items[len(items)-1].ID

	deviceRepo := s.repomanager.Devices(s.db)
	tokens := make(map[string][]string)

	for _, r := range items {
		occ := s.calendar.DueOccurrence(r.ReminderDateTime, r.IsRecurring, r.RecurrencePattern, now)
		if !recurrence.IsDue(occ, r.LastSentAt, now) {
			continue
		}

		userTokens, ok := tokens[r.UserID]
		if !ok {
			userTokens, err = deviceRepo.TokensByUser(ctx, r.UserID)
			if err != nil {
				return nil, fmt.Errorf("device tokens of user %s: %w", r.UserID, err)
			}
			tokens[r.UserID] = userTokens
		}

		page.Due = append(page.Due, &models.DueReminder{
			Reminder:   r,
			Occurrence: occ,
			Tokens:     userTokens,
		})
	}
	return page, nil
}
