package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vivarium/internal/dbx"
	"github.com/dmitrijs2005/vivarium/internal/server/models"
	"github.com/dmitrijs2005/vivarium/internal/server/notify"
	"github.com/dmitrijs2005/vivarium/internal/server/repositories/devices"
	"github.com/dmitrijs2005/vivarium/internal/server/repositories/reminders"
	"github.com/dmitrijs2005/vivarium/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func reminderID(n int) string {
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
}

func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:services_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeReminderStore behaves like the reminders table: pages are filtered,
// ordered and copied, updates mutate stored rows.
type fakeReminderStore struct {
	reminders.Repository

	mu        sync.Mutex
	items     map[string]*models.Reminder
	listCalls int
	failOn    int // ListActivePage call number that fails, 0 = never
	applyErr  error
	batches   [][]models.StateUpdate
}

func newFakeStore(items ...*models.Reminder) *fakeReminderStore {
	s := &fakeReminderStore{items: map[string]*models.Reminder{}}
	for _, r := range items {
		s.items[r.ID] = r
	}
	return s
}

func (s *fakeReminderStore) ListActivePage(_ context.Context, after string, limit int) ([]*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.failOn != 0 && s.listCalls == s.failOn {
		return nil, fmt.Errorf("db error: connection reset")
	}

	ids := make([]string, 0, len(s.items))
	for id, r := range s.items {
		if r.IsActive && id > after {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*models.Reminder, 0, len(ids))
	for _, id := range ids {
		cp := *s.items[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeReminderStore) ApplyStates(_ context.Context, updates []models.StateUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	s.batches = append(s.batches, updates)
	for _, u := range updates {
		r, ok := s.items[u.ReminderID]
		if !ok {
			continue
		}
		sent := u.SentAt
		r.LastSentAt = &sent
		r.UpdatedAt = u.SentAt
		r.IsActive = r.IsActive && !u.Deactivate
	}
	return nil
}

func (s *fakeReminderStore) get(id string) models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.items[id]
}

type fakeDevices struct {
	devices.Repository

	mu     sync.Mutex
	tokens map[string][]string
	calls  map[string]int
	err    error
}

func (d *fakeDevices) TokensByUser(_ context.Context, userID string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.calls == nil {
		d.calls = map[string]int{}
	}
	d.calls[userID]++
	if d.err != nil {
		return nil, d.err
	}
	return d.tokens[userID], nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	reminders *fakeReminderStore
	devices   *fakeDevices
}

func (m *fakeRepoManager) Reminders(dbx.DBTX) reminders.Repository { return m.reminders }
func (m *fakeRepoManager) Devices(dbx.DBTX) devices.Repository     { return m.devices }

type recordingPusher struct {
	mu     sync.Mutex
	tokens []string
	bodies []string
	fail   map[string]bool
	onPush func(token string)
}

func (p *recordingPusher) Push(_ context.Context, token string, msg *notify.Message) error {
	p.mu.Lock()
	p.tokens = append(p.tokens, token)
	p.bodies = append(p.bodies, msg.Body)
	failed := p.fail[token]
	hook := p.onPush
	p.mu.Unlock()

	if hook != nil {
		hook(token)
	}
	if failed {
		return fmt.Errorf("token %s unregistered", token)
	}
	return nil
}

func (p *recordingPusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokens)
}

func oneShot(n int, user string, at time.Time) *models.Reminder {
	return &models.Reminder{
		ID:               reminderID(n),
		UserID:           user,
		Title:            fmt.Sprintf("reminder %d", n),
		ReminderDateTime: at,
		IsActive:         true,
	}
}

func recurring(n int, user string, at time.Time, pattern string) *models.Reminder {
	r := oneShot(n, user, at)
	r.IsRecurring = true
	r.RecurrencePattern = pattern
	return r
}
