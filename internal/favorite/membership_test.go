package favorite

import (
	"testing"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMembershipIsIdempotent(t *testing.T) {
	setupTestBackends(t)
	userID := createTestUser(t)

	// 重复添加是无操作
	require.NoError(t, SetMembership(userID, "a1", true))
	require.NoError(t, SetMembership(userID, "a1", true))

	var count int64
	require.NoError(t, database.DB.Model(&Membership{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	liked, err := IsLiked(userID, "a1")
	require.NoError(t, err)
	assert.True(t, liked)

	// 重复移除同样是无操作
	require.NoError(t, SetMembership(userID, "a1", false))
	require.NoError(t, SetMembership(userID, "a1", false))

	liked, err = IsLiked(userID, "a1")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestSetMembershipRejectsUnknownUser(t *testing.T) {
	setupTestBackends(t)

	err := SetMembership("no-such-user", "a1", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestLikedArticleIDs(t *testing.T) {
	setupTestBackends(t)
	userID := createTestUser(t)

	require.NoError(t, SetMembership(userID, "a1", true))
	require.NoError(t, SetMembership(userID, "a2", true))

	liked, err := LikedArticleIDs(userID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a1": true, "a2": true}, liked)

	// 匿名用户与没有收藏的用户都得到空集合
	liked, err = LikedArticleIDs("")
	require.NoError(t, err)
	assert.Empty(t, liked)

	other := createTestUser(t)
	liked, err = LikedArticleIDs(other)
	require.NoError(t, err)
	assert.Empty(t, liked)
}
