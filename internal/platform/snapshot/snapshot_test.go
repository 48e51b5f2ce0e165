package snapshot

import (
	"context"
	"testing"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/article"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/favorite"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupBackends(t *testing.T) {
	t.Helper()

	mr := miniredis.RunT(t)
	database.RDB = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = database.RDB.Close() })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&article.Article{}, &favorite.Membership{}))
	database.DB = db
}

func TestCreateSnapshotPersistsLiveCounts(t *testing.T) {
	setupBackends(t)
	ctx := context.Background()

	a := article.Article{Title: "Artículo", Status: article.StatusPublished, FavoriteCount: 10}
	require.NoError(t, article.Create(&a))

	seeds, err := article.CounterSeeds()
	require.NoError(t, err)
	require.NoError(t, favorite.WarmupCache(seeds))

	// 实时计数增长到12后快照
	_, err = favorite.ApplyDelta(ctx, a.ID, 1, 10)
	require.NoError(t, err)
	_, err = favorite.ApplyDelta(ctx, a.ID, 1, 10)
	require.NoError(t, err)

	require.NoError(t, CreateSnapshotInDB(ctx))

	reloaded, err := article.GetByID(a.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, int64(12), reloaded.FavoriteCount)
}

func TestCreateSnapshotSkipsUnchangedRows(t *testing.T) {
	setupBackends(t)
	ctx := context.Background()

	a := article.Article{Title: "Artículo", Status: article.StatusPublished, FavoriteCount: 10}
	require.NoError(t, article.Create(&a))

	seeds, err := article.CounterSeeds()
	require.NoError(t, err)
	require.NoError(t, favorite.WarmupCache(seeds))

	// 计数未变化时快照不产生写入
	require.NoError(t, CreateSnapshotInDB(ctx))

	reloaded, err := article.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), reloaded.FavoriteCount)
}

func TestCreateSnapshotNoArticles(t *testing.T) {
	setupBackends(t)
	require.NoError(t, CreateSnapshotInDB(context.Background()))
}
