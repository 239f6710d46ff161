package reminders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vivarium/internal/common"
	"github.com/dmitrijs2005/vivarium/internal/dbx"
	"github.com/dmitrijs2005/vivarium/internal/server/models"
)

const selectColumns = `r.id, r.user_id, a.id, r.title, r.description, r.reminder_date_time,
		r.is_recurring, r.recurrence_pattern, r.is_active, r.last_sent_at, r.created_at, r.updated_at`

// PostgresRepository implements reminder storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListActivePage(ctx context.Context, after string, limit int) ([]*models.Reminder, error) {
	query := `SELECT ` + selectColumns + `
		FROM reminders r
		JOIN users u ON u.id = r.user_id
		LEFT JOIN animals a ON a.id = r.animal_id
		WHERE r.is_active AND r.id > $1
		ORDER BY r.id
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Reminder, error) {
	query := `SELECT ` + selectColumns + `
		FROM reminders r
		LEFT JOIN animals a ON a.id = r.animal_id
		WHERE r.user_id = $1 AND r.is_active
		ORDER BY r.reminder_date_time, r.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Reminder, error) {
	query := `SELECT ` + selectColumns + `
		FROM reminders r
		LEFT JOIN animals a ON a.id = r.animal_id
		WHERE r.id = $1`

	item, err := scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// ApplyStates writes last_sent_at and updated_at and clears is_active for
// updates flagged Deactivate. A reminder deleted since the scan is skipped.
func (r *PostgresRepository) ApplyStates(ctx context.Context, updates []models.StateUpdate) error {
	query := `UPDATE reminders
		SET last_sent_at = $2, updated_at = $2, is_active = is_active AND NOT $3
		WHERE id = $1`

	for _, u := range updates {
		if _, err := r.db.ExecContext(ctx, query, u.ReminderID, u.SentAt, u.Deactivate); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(s scanner) (*models.Reminder, error) {
	var (
		item     models.Reminder
		animalID sql.NullString
		lastSent sql.NullTime
	)
	if err := s.Scan(
		&item.ID, &item.UserID, &animalID, &item.Title, &item.Description, &item.ReminderDateTime,
		&item.IsRecurring, &item.RecurrencePattern, &item.IsActive, &lastSent, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if animalID.Valid {
		item.AnimalID = &animalID.String
	}
	if lastSent.Valid {
		t := lastSent.Time
		item.LastSentAt = &t
	}
	return &item, nil
}

func scanAll(rows *sql.Rows) ([]*models.Reminder, error) {
	var result []*models.Reminder
	for rows.Next() {
		item, err := scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}
