package devices

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vivarium/internal/dbx"
	"github.com/dmitrijs2005/vivarium/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) TokensByUser(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT token FROM user_devices
		WHERE user_id = $1
		ORDER BY device_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tokens, nil
}

func (r *PostgresRepository) Register(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO user_devices (user_id, device_id, token, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, device_id)
		DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at;
	`
	res, err := r.db.ExecContext(ctx, query, device.UserID, device.DeviceID, device.Token, device.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}
