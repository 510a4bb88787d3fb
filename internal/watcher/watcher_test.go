package watcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundry-cycle-backend/config"
	"laundry-cycle-backend/internal/db"
	"laundry-cycle-backend/internal/model"
	"laundry-cycle-backend/internal/notification"
	"laundry-cycle-backend/internal/store"
)

// mockDispatcher records dispatched jobs.
type mockDispatcher struct {
	mu   sync.Mutex
	jobs []notification.Job
}

func (m *mockDispatcher) Dispatch(_ context.Context, job notification.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockDispatcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB)
}

func newTestService(t *testing.T, s store.Store, now *time.Time) (*Service, *mockDispatcher) {
	cfg := &config.Config{}
	require.NoError(t, cfg.ApplyDefaults())
	cfg.Watcher.Enabled = true

	svc := NewService(cfg, s)
	d := &mockDispatcher{}
	svc.dispatcher = d
	svc.now = func() time.Time { return *now }
	return svc, d
}

func TestCheckOnce_NotifiesEachPhaseOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	now := start

	load := &model.Load{Type: model.LoadTypeTowels, Status: model.StatusWashing, WasherStartedAt: &start, WasherDuration: 35, DryerDuration: 42}
	require.NoError(t, s.CreateLoad(ctx, load))
	waiting := &model.Load{Type: model.LoadTypeTowelsFeet, Status: model.StatusWaiting, WasherDuration: 35, DryerDuration: 42}
	require.NoError(t, s.CreateLoad(ctx, waiting))

	svc, d := newTestService(t, s, &now)

	now = start.Add(34 * time.Minute)
	sent, err := svc.CheckOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	now = start.Add(35 * time.Minute)
	sent, err = svc.CheckOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, d.jobs, 1)
	assert.Equal(t, load.ID, d.jobs[0].Load.ID)
	assert.Equal(t, model.StatusWashing, d.jobs[0].Phase)

	// the next tick does not repeat the washer notice
	sent, err = svc.CheckOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	// moving to the dryer starts a new phase with its own notice
	dryerStart := now
	one := 1
	_, err = s.UpdateLoad(ctx, load.ID, load.Version, map[string]any{
		"status":           model.StatusDrying,
		"dryer_started_at": dryerStart,
		"dryer_number":     one,
	})
	require.NoError(t, err)

	now = dryerStart.Add(42 * time.Minute)
	sent, err = svc.CheckOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, d.jobs, 2)
	assert.Equal(t, model.StatusDrying, d.jobs[1].Phase)

	// the watcher never touches loads
	got, err := s.GetLoad(ctx, load.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDrying, got.Status)
	assert.Equal(t, uint(2), got.Version)
}

func TestRun_Disabled(t *testing.T) {
	now := time.Now()
	svc, d := newTestService(t, newTestStore(t), &now)
	svc.cfg.Watcher.Enabled = false

	assert.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, 0, d.count())
}

func TestRun_ChecksOnSchedule(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now().UTC().Add(-time.Hour)
	load := &model.Load{Type: model.LoadTypeTowels, Status: model.StatusWashing, WasherStartedAt: &start, WasherDuration: 35, DryerDuration: 42}
	require.NoError(t, s.CreateLoad(ctx, load))

	now := time.Now()
	svc, d := newTestService(t, s, &now)
	svc.cfg.Watcher.Interval = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	assert.Eventually(t, func() bool { return d.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Equal(t, 1, d.count())
}
