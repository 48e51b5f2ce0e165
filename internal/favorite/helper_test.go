package favorite

import (
	"testing"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/user"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestBackends 把全局的Redis和GORM实例指向测试替身。
// 本包的测试串行执行，共享全局实例是安全的。
func setupTestBackends(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	database.RDB = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = database.RDB.Close() })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &Membership{}))
	database.DB = db

	return mr
}

// createTestUser 插入一个用户并返回其ID。
func createTestUser(t *testing.T) string {
	t.Helper()
	id := uuid.Must(uuid.NewV7()).String()
	u := user.User{
		UUID:         id,
		Username:     "tester",
		Email:        id + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return id
}
