package audit

import (
	"context"
	"testing"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/catalogadmin/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func TestRecorderPersistsEvents(t *testing.T) {
	repo := NewGormOprLogRepository(newTestDB(t))
	bus := EventBus.New()
	rec := NewRecorder(repo)
	require.NoError(t, rec.Subscribe(bus))

	ctx := domain.WithIdentity(context.Background(), domain.Identity{ID: 3, Email: "admin@example.com", Role: domain.RoleAdmin})
	PublishFromContext(ctx, bus, ActionProductAdd, "created product 1 (Widget)")
	Publish(bus, Event{OprId: 3, OprName: "admin@example.com", Action: ActionLogin})
	rec.Close()

	logs, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)

	actions := []string{logs[0].OptAction, logs[1].OptAction}
	assert.ElementsMatch(t, []string{ActionProductAdd, ActionLogin}, actions)
	for _, l := range logs {
		assert.Equal(t, int64(3), l.OprId)
		assert.Equal(t, "admin@example.com", l.OprName)
		assert.False(t, l.OptTime.IsZero())
	}
}

func TestRecorderCloseStopsRecording(t *testing.T) {
	repo := NewGormOprLogRepository(newTestDB(t))
	bus := EventBus.New()
	rec := NewRecorder(repo)
	require.NoError(t, rec.Subscribe(bus))
	rec.Close()
	rec.Close()

	Publish(bus, Event{Action: ActionLogin})
	bus.WaitAsync()

	_, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestPublishNilBus(t *testing.T) {
	assert.NotPanics(t, func() {
		Publish(nil, Event{Action: ActionLogin})
		PublishFromContext(context.Background(), nil, ActionProductDelete, "")
	})
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOprLogRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &domain.SysOprLog{
			OprId:     1,
			OprName:   "admin",
			OptAction: ActionProductAdd,
			OptDesc:   string(rune('a' + i)),
			OptTime:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page1, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	assert.Equal(t, "e", page1[0].OptDesc)
	assert.Equal(t, "d", page1[1].OptDesc)

	page3, _, err := repo.List(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "a", page3[0].OptDesc)
}

func TestDeleteOlderThan(t *testing.T) {
	repo := NewGormOprLogRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.SysOprLog{OptAction: ActionLogin, OptTime: time.Now().AddDate(0, 0, -400)}))
	require.NoError(t, repo.Create(ctx, &domain.SysOprLog{OptAction: ActionLogin, OptTime: time.Now().AddDate(0, 0, -10)}))

	n, err := repo.DeleteOlderThan(ctx, 365)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, total, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
