// Package devices declares the repository of push registrations of user devices.
package devices

import (
	"context"

	"github.com/dmitrijs2005/vivarium/internal/server/models"
)

type Repository interface {
	// TokensByUser returns the push tokens of every device registered by userID.
	TokensByUser(ctx context.Context, userID string) ([]string, error)
	// Register stores the token of a (user, device) pair, replacing the
	// previous token of the same pair.
	Register(ctx context.Context, device *models.Device) error
}
