// Package server wires configuration, storage, push delivery and icon
// resolution into the scheduling run and the calendar listing.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/vivarium/internal/client/calendar"
	"github.com/dmitrijs2005/vivarium/internal/common"
	"github.com/dmitrijs2005/vivarium/internal/logging"
	"github.com/dmitrijs2005/vivarium/internal/server/config"
	"github.com/dmitrijs2005/vivarium/internal/server/media"
	"github.com/dmitrijs2005/vivarium/internal/server/models"
	"github.com/dmitrijs2005/vivarium/internal/server/notify"
	"github.com/dmitrijs2005/vivarium/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vivarium/internal/server/services"
)

var (
	logOutput io.Writer = os.Stdout

	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open(repomanager.DriverName, dsn)
	}

	newFCMPusher = func(ctx context.Context, credentialsFile string) (notify.Pusher, error) {
		return notify.NewFCMPusher(ctx, credentialsFile)
	}

	newS3Icons = func(ctx context.Context, opts media.S3Options) (media.IconResolver, error) {
		return media.NewS3Icons(ctx, opts)
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	clock       clock.Clock
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	scheduler   *services.SchedulingService
}

// NewStoreApp builds an App backed by storage only. It serves calendar
// listings and device registration; RunOnce fails on it.
func NewStoreApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		clock:       clock.New(),
		db:          db,
		repomanager: rm,
	}, nil
}

// NewApp validates the config and builds every collaborator of a run. The
// database is opened lazily by the driver; nothing is queried here.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	app, err := NewStoreApp(ctx, c)
	if err != nil {
		return nil, err
	}

	pusher, err := buildPusher(ctx, c, app.logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	icons, err := buildIcons(ctx, c)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.scheduler = services.NewSchedulingService(
		services.NewDueScanner(app.db, app.repomanager, c.PageSize),
		notify.NewDispatcher(pusher, c.PushRateLimit, app.logger),
		notify.NewMetadataBuilder(icons, app.logger),
		services.NewStateUpdater(app.db, app.repomanager),
		app.clock,
		app.logger,
		c.DispatchConcurrency,
	)
	return app, nil
}

func buildPusher(ctx context.Context, c *config.Config, logger logging.Logger) (notify.Pusher, error) {
	switch c.PushProvider {
	case config.PushProviderFCM:
		p, err := newFCMPusher(ctx, c.FirebaseCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("fcm init error: %w", err)
		}
		return p, nil
	default:
		return notify.NewLogPusher(logger), nil
	}
}

func buildIcons(ctx context.Context, c *config.Config) (media.IconResolver, error) {
	switch c.IconSource {
	case config.IconSourcePath:
		return media.NewPathIcons(c.IconURLTemplate), nil
	case config.IconSourceS3:
		icons, err := newS3Icons(ctx, media.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			Expiry:       c.IconURLExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return icons, nil
	default:
		return nil, nil
	}
}

// Logger returns the application logger.
func (app *App) Logger() logging.Logger {
	return app.logger
}

// RunOnce applies migrations when configured and performs one scheduling run.
func (app *App) RunOnce(ctx context.Context) (*services.RunReport, error) {
	if app.scheduler == nil {
		return nil, common.ErrSchedulerNotConfigured
	}
	if app.config.RunMigrations {
		if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	return app.scheduler.Run(ctx)
}

// Run performs one scheduling run and cancels it on SIGINT, SIGTERM or SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting scheduling run...")
	_, err := app.RunOnce(ctx)
	return err
}

// Occurrences expands the active reminders of userID, or the single reminder
// reminderID when it is not empty, within [from, to]. An inactive reminder
// yields no occurrences.
func (app *App) Occurrences(ctx context.Context, userID, reminderID string, from, to time.Time) ([]calendar.Occurrence, error) {
	repo := app.repomanager.Reminders(app.db)

	var items []*models.Reminder
	if reminderID != "" {
		r, err := repo.Get(ctx, reminderID)
		if err == nil && userID != "" && r.UserID != userID {
			err = common.ErrorNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("reminder %s: %w", reminderID, err)
		}
		if r.IsActive {
			items = append(items, r)
		}
	} else {
		var err error
		items, err = repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("reminders of user %s: %w", userID, err)
		}
	}
	return calendar.Expand(items, from, to), nil
}

// RegisterDevice stores the push token of a user's device, replacing the
// token previously registered for the same device.
func (app *App) RegisterDevice(ctx context.Context, userID, deviceID, token string) error {
	if userID == "" || deviceID == "" || token == "" {
		return common.ErrInvalidDevice
	}
	d := &models.Device{
		UserID:    userID,
		DeviceID:  deviceID,
		Token:     token,
		UpdatedAt: app.clock.Now().UTC(),
	}
	if err := app.repomanager.Devices(app.db).Register(ctx, d); err != nil {
		return fmt.Errorf("register device %s: %w", deviceID, err)
	}
	app.logger.Info(ctx, "device registered", "user_id", userID, "device_id", deviceID)
	return nil
}

// Close releases the database pool.
func (app *App) Close() error {
	return app.db.Close()
}
