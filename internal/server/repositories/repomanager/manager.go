package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vivarium/internal/dbx"
	"github.com/dmitrijs2005/vivarium/internal/server/repositories/devices"
	"github.com/dmitrijs2005/vivarium/internal/server/repositories/reminders"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Reminders(db dbx.DBTX) reminders.Repository
	Devices(db dbx.DBTX) devices.Repository
}
