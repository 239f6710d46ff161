package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/vivarium/internal/logging"
	"github.com/dmitrijs2005/vivarium/internal/server/models"
	"github.com/dmitrijs2005/vivarium/internal/server/notify"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RunReport summarizes one scheduling run.
type RunReport struct {
	Now       time.Time
	Pages     int
	Scanned   int
	Due       int
	Delivered int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

// FlushTimeout bounds the write of a page whose run was canceled mid-dispatch.
const FlushTimeout = 30 * time.Second

// SchedulingService runs one batch pass over all active reminders:
// scan a page, dispatch its due reminders, flush their state, advance.
type SchedulingService struct {
	scanner     *DueScanner
	dispatcher  *notify.Dispatcher
	metadata    *notify.MetadataBuilder
	updater     *StateUpdater
	clock       clock.Clock
	logger      logging.Logger
	concurrency int
}

func NewSchedulingService(
	scanner *DueScanner,
	dispatcher *notify.Dispatcher,
	metadata *notify.MetadataBuilder,
	updater *StateUpdater,
	clk clock.Clock,
	logger logging.Logger,
	concurrency int,
) *SchedulingService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SchedulingService{
		scanner:     scanner,
		dispatcher:  dispatcher,
		metadata:    metadata,
		updater:     updater,
		clock:       clk,
		logger:      logger.With("module", "scheduler"),
		concurrency: concurrency,
	}
}

// Run executes a single pass. The reference time is read once and used for
// every page. A storage error or a canceled context ends the run; pages
// flushed before that stay committed. A page interrupted by cancellation is
// still flushed for the reminders that were dispatched, so deliveries that
// already happened are never repeated.
func (s *SchedulingService) Run(ctx context.Context) (*RunReport, error) {
	start := s.clock.Now()
	report := &RunReport{Now: start.UTC()}
	logger := s.logger.With("run_id", uuid.NewString())

	logger.Info(ctx, "run started", "now", report.Now)

	cursor := uuid.Nil.String()
	for {
		if err := ctx.Err(); err != nil {
			return s.abort(ctx, logger, report, start, fmt.Errorf("run canceled: %w", err))
		}

		page, err := s.scanner.Scan(ctx, cursor, report.Now)
		if err != nil {
			return s.abort(ctx, logger, report, start, err)
		}
		if page.Scanned == 0 {
			break
		}

		report.Pages++
		report.Scanned += page.Scanned
		report.Due += len(page.Due)

		res := s.dispatchPage(ctx, logger, page.Due, report.Now)
		report.Delivered += res.delivered
		report.Failed += res.failed
		report.Skipped += res.skipped

		if err := s.flush(ctx, res.updates); err != nil {
			return s.abort(ctx, logger, report, start, err)
		}

		logger.Debug(ctx, "page done", "cursor", page.LastID, "scanned", page.Scanned, "due", len(page.Due))
		cursor = page.LastID
	}

	report.Duration = s.clock.Since(start)
	logger.Info(ctx, "run finished",
		"pages", report.Pages,
		"scanned", report.Scanned,
		"due", report.Due,
		"delivered", report.Delivered,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"duration", report.Duration,
	)
	return report, nil
}

func (s *SchedulingService) abort(ctx context.Context, logger logging.Logger, report *RunReport, start time.Time, err error) (*RunReport, error) {
	report.Duration = s.clock.Since(start)
	logger.Error(ctx, "run aborted", "error", err, "pages", report.Pages, "due", report.Due, "skipped", report.Skipped)
	return report, err
}

// flush persists a page even when ctx was canceled during its dispatch.
func (s *SchedulingService) flush(ctx context.Context, updates []models.StateUpdate) error {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FlushTimeout)
	defer cancel()
	return s.updater.Flush(fctx, updates)
}

type pageResult struct {
	updates   []models.StateUpdate
	delivered int
	failed    int
	skipped   int
}

// dispatchPage notifies every due reminder of a page and returns the state
// updates to flush. It waits for all dispatches before returning. Reminders
// left undelivered by cancellation get no update and stay due.
func (s *SchedulingService) dispatchPage(ctx context.Context, logger logging.Logger, due []*models.DueReminder, now time.Time) pageResult {
	outcomes := make([][]notify.Outcome, len(due))
	skipped := make([]bool, len(due))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, d := range due {
		g.Go(func() error {
			if ctx.Err() != nil {
				skipped[i] = true
				return nil
			}
			r := d.Reminder
			meta := s.metadata.Build(ctx, r.AnimalID)
			body := notify.FormatBody(r.Description, d.Occurrence)
			outcomes[i] = s.dispatcher.Dispatch(ctx, r.Title, body, d.Tokens, meta)
			skipped[i] = interrupted(ctx, outcomes[i])
			return nil
		})
	}
	_ = g.Wait()

	res := pageResult{updates: make([]models.StateUpdate, 0, len(due))}
	for i, d := range due {
		f := notify.Failed(outcomes[i])
		res.delivered += len(outcomes[i]) - f
		if skipped[i] {
			res.skipped++
			logger.Info(ctx, "reminder skipped", "reminder_id", d.Reminder.ID, "occurrence", d.Occurrence)
			continue
		}
		res.failed += f
		logger.Info(ctx, "reminder dispatched",
			"reminder_id", d.Reminder.ID,
			"occurrence", d.Occurrence,
			"devices", len(d.Tokens),
			"failed", f,
		)
		res.updates = append(res.updates, s.updater.Plan(d.Reminder, now))
	}
	return res
}

// interrupted reports whether cancellation kept every push of a reminder
// from being delivered.
func interrupted(ctx context.Context, outcomes []notify.Outcome) bool {
	if ctx.Err() == nil || len(outcomes) == 0 {
		return false
	}
	for _, o := range outcomes {
		if o.Err == nil {
			return false
		}
		if !errors.Is(o.Err, context.Canceled) && !errors.Is(o.Err, context.DeadlineExceeded) {
			return false
		}
	}
	return true
}
