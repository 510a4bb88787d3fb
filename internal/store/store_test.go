package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundry-cycle-backend/internal/db"
	"laundry-cycle-backend/internal/model"
)

// newSQLiteDB opens a private in-memory database with the production schema.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	require.NoError(t, db.ApplyExclusivityDDL(gormDB))
	return gormDB
}

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_CreateAndGet(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	ctx := context.Background()

	load := &model.Load{Type: model.LoadTypeTowels, Status: model.StatusWaiting, WasherDuration: 35, DryerDuration: 42}
	require.NoError(t, s.CreateLoad(ctx, load))

	assert.NotEmpty(t, load.ID)
	assert.False(t, load.CreatedAt.IsZero())
	assert.Equal(t, uint(1), load.Version)

	got, err := s.GetLoad(ctx, load.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusWaiting, got.Status)
	assert.Nil(t, got.WasherStartedAt)
	assert.Nil(t, got.DryerNumber)

	_, err = s.GetLoad(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ListLoadsNewestFirst(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		load := &model.Load{ID: id, Type: model.LoadTypeTowels, Status: model.StatusWaiting, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CreateLoad(ctx, load))
	}

	loads, err := s.ListLoads(ctx)
	require.NoError(t, err)
	require.Len(t, loads, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{loads[0].ID, loads[1].ID, loads[2].ID})
}

func TestGormStore_UpdateLoad(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	ctx := context.Background()

	load := &model.Load{Type: model.LoadTypeTowels, Status: model.StatusWaiting}
	require.NoError(t, s.CreateLoad(ctx, load))

	startedAt := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	updated, err := s.UpdateLoad(ctx, load.ID, 1, map[string]any{
		"status":            model.StatusWashing,
		"washer_started_at": startedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusWashing, updated.Status)
	assert.Equal(t, uint(2), updated.Version)
	require.NotNil(t, updated.WasherStartedAt)
	assert.True(t, startedAt.Equal(*updated.WasherStartedAt))

	t.Run("stale version is rejected and nothing changes", func(t *testing.T) {
		_, err := s.UpdateLoad(ctx, load.ID, 1, map[string]any{"status": model.StatusDone})
		assert.ErrorIs(t, err, ErrVersionConflict)

		current, err := s.GetLoad(ctx, load.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusWashing, current.Status)
		assert.Equal(t, uint(2), current.Version)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.UpdateLoad(ctx, "missing", 1, map[string]any{"status": model.StatusDone})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGormStore_ExclusivityIndexes(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	ctx := context.Background()

	washing := &model.Load{Type: model.LoadTypeTowels, Status: model.StatusWashing}
	require.NoError(t, s.CreateLoad(ctx, washing))

	second := &model.Load{Type: model.LoadTypeTowels, Status: model.StatusWashing}
	assert.ErrorIs(t, s.CreateLoad(ctx, second), ErrConstraint)

	one := 1
	dryingA := &model.Load{Type: model.LoadTypeTowels, Status: model.StatusDrying, DryerNumber: &one}
	require.NoError(t, s.CreateLoad(ctx, dryingA))

	waiting := &model.Load{Type: model.LoadTypeTowelsFeet, Status: model.StatusWaiting}
	require.NoError(t, s.CreateLoad(ctx, waiting))
	_, err := s.UpdateLoad(ctx, waiting.ID, waiting.Version, map[string]any{"status": model.StatusDrying, "dryer_number": 1})
	assert.ErrorIs(t, err, ErrConstraint)

	// a finished load keeps its dryer number without blocking the dryer
	_, err = s.UpdateLoad(ctx, dryingA.ID, dryingA.Version, map[string]any{"status": model.StatusDone})
	require.NoError(t, err)
	_, err = s.UpdateLoad(ctx, waiting.ID, waiting.Version, map[string]any{"status": model.StatusDrying, "dryer_number": 1})
	assert.NoError(t, err)
}

func TestGormStore_DryerDurations(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	ctx := context.Background()

	durations, err := s.DryerDurations(ctx)
	require.NoError(t, err)
	assert.Empty(t, durations)

	require.NoError(t, s.SetDryerDuration(ctx, 2, 48))
	require.NoError(t, s.SetDryerDuration(ctx, 2, 52))
	require.NoError(t, s.SetDryerDuration(ctx, 1, 40))

	durations, err = s.DryerDurations(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 40, 2: 52}, durations)
}

func TestGormStore_RecordReadyNotice(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	ctx := context.Background()

	first, err := s.RecordReadyNotice(ctx, "load-1", model.StatusWashing)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := s.RecordReadyNotice(ctx, "load-1", model.StatusWashing)
	require.NoError(t, err)
	assert.False(t, again)

	nextPhase, err := s.RecordReadyNotice(ctx, "load-1", model.StatusDrying)
	require.NoError(t, err)
	assert.True(t, nextPhase)
}

func TestGormStore_Subscriptions(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	ctx := context.Background()

	sub := &model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "key", Auth: "auth", ActorName: "ana"}
	require.NoError(t, s.SaveSubscription(ctx, sub))

	replaced := &model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "key2", Auth: "auth2", ActorName: "ana"}
	require.NoError(t, s.SaveSubscription(ctx, replaced))

	got, err := s.GetSubscription(ctx, "https://push.example/1")
	require.NoError(t, err)
	assert.Equal(t, "key2", got.P256DH)

	subs, err := s.ListSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	require.NoError(t, s.DeleteSubscription(ctx, "https://push.example/1"))
	_, err = s.GetSubscription(ctx, "https://push.example/1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_UpdateLoadVersionMiss(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "loads" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "loads" WHERE id = $1`)).
		WithArgs("load-7").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := s.UpdateLoad(context.Background(), "load-7", 3, map[string]any{"status": model.StatusDone})

	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
