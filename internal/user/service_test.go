package user

import (
	"io"
	"os"
	"testing"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/AsesorVial/mi-asesor-vial-backend/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	database.DB = db

	token.Configure("test-secret", 1)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	setupTestDB(t)

	u, err := Register("Ana", "ana@example.com", "secreta123")
	require.NoError(t, err)
	assert.NotEmpty(t, u.UUID)
	assert.NotEqual(t, "secreta123", u.PasswordHash)

	logged, jwtStr, err := Authenticate("ana@example.com", "secreta123")
	require.NoError(t, err)
	assert.Equal(t, u.UUID, logged.UUID)
	require.NotEmpty(t, jwtStr)

	claims, err := token.ValidateToken(jwtStr)
	require.NoError(t, err)
	assert.Equal(t, u.UUID, claims.UserID)
	assert.False(t, claims.IsAdmin)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setupTestDB(t)

	_, err := Register("Ana", "ana@example.com", "secreta123")
	require.NoError(t, err)

	_, err = Register("Otra", "ana@example.com", "distinta456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	setupTestDB(t)

	_, err := Register("Ana", "ana@example.com", "secreta123")
	require.NoError(t, err)

	_, _, err = Authenticate("ana@example.com", "incorrecta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = Authenticate("nadie@example.com", "secreta123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestExistsDistinguishesMissingUser(t *testing.T) {
	setupTestDB(t)

	u, err := Register("Ana", "ana@example.com", "secreta123")
	require.NoError(t, err)

	ok, err := Exists(u.UUID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists("no-such-id")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Exists("")
	require.NoError(t, err)
	assert.False(t, ok)
}

// captureStdout 收集fn执行期间写到标准输出的内容。
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestRequestPasswordResetKeepsUnknownEmailOutOfLogs(t *testing.T) {
	setupTestDB(t)

	out := captureStdout(t, func() {
		RequestPasswordReset("desconocida@example.com")
	})
	assert.NotContains(t, out, "desconocida@example.com")
	assert.Contains(t, out, "未知邮箱")
}

func TestGetByIDAbsentIsNotAnError(t *testing.T) {
	setupTestDB(t)

	u, err := GetByID("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUpdateProfileKeepsPasswordWhenEmpty(t *testing.T) {
	setupTestDB(t)

	u, err := Register("Ana", "ana@example.com", "secreta123")
	require.NoError(t, err)

	updated, err := UpdateProfile(u.UUID, "Ana María", "https://example.com/foto.png", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Username)
	assert.Equal(t, "https://example.com/foto.png", updated.PhotoURL)

	// 旧密码仍然有效
	_, _, err = Authenticate("ana@example.com", "secreta123")
	require.NoError(t, err)

	// 提供新密码时旧密码失效
	_, err = UpdateProfile(u.UUID, "", "", "nueva456")
	require.NoError(t, err)
	_, _, err = Authenticate("ana@example.com", "secreta123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = Authenticate("ana@example.com", "nueva456")
	require.NoError(t, err)
}
