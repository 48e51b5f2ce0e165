package favorite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCounters 是计数存储的内存替身，支持注入一次性故障。
type fakeCounters struct {
	mu       sync.Mutex
	counts   map[string]int64
	failNext error
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{counts: make(map[string]int64)}
}

func (f *fakeCounters) ApplyDelta(ctx context.Context, articleID string, delta, baseline int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return 0, err
	}
	current, ok := f.counts[articleID]
	if !ok {
		current = clampNonNegative(baseline)
	}
	current = clampNonNegative(current + delta)
	f.counts[articleID] = current
	return current, nil
}

func (f *fakeCounters) count(articleID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[articleID]
}

// fakeMemberships 是收藏集存储的内存替身。
// gate非nil时，SetMembership会在entered上发信号并阻塞到gate关闭。
type fakeMemberships struct {
	mu       sync.Mutex
	liked    map[string]bool
	failNext error
	entered  chan struct{}
	gate     chan struct{}
}

func newFakeMemberships() *fakeMemberships {
	return &fakeMemberships{liked: make(map[string]bool)}
}

func (f *fakeMemberships) key(userID, articleID string) string {
	return userID + "\x00" + articleID
}

func (f *fakeMemberships) IsLiked(userID, articleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liked[f.key(userID, articleID)], nil
}

func (f *fakeMemberships) SetMembership(userID, articleID string, present bool) error {
	if f.gate != nil && userID == "u1" && articleID == "a1" {
		f.entered <- struct{}{}
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	if present {
		f.liked[f.key(userID, articleID)] = true
	} else {
		delete(f.liked, f.key(userID, articleID))
	}
	return nil
}

func TestToggleLikeRequiresIdentity(t *testing.T) {
	co := NewCoordinator(newFakeCounters(), newFakeMemberships())

	_, err := co.ToggleLike(context.Background(), "", ArticleRef{ID: "a1"})
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestToggleLikeFlipsBothWays(t *testing.T) {
	counters := newFakeCounters()
	memberships := newFakeMemberships()
	co := NewCoordinator(counters, memberships)
	ref := ArticleRef{ID: "a1", Baseline: 10}

	out, err := co.ToggleLike(context.Background(), "u1", ref)
	require.NoError(t, err)
	assert.True(t, out.Liked)
	assert.Equal(t, int64(11), out.Count)

	out, err = co.ToggleLike(context.Background(), "u1", ref)
	require.NoError(t, err)
	assert.False(t, out.Liked)
	assert.Equal(t, int64(10), out.Count)
}

func TestToggleLikeRejectsWhileInFlight(t *testing.T) {
	counters := newFakeCounters()
	memberships := newFakeMemberships()
	memberships.entered = make(chan struct{}, 1)
	memberships.gate = make(chan struct{})
	co := NewCoordinator(counters, memberships)
	ref := ArticleRef{ID: "a1", Baseline: 0}

	done := make(chan error, 1)
	go func() {
		_, err := co.ToggleLike(context.Background(), "u1", ref)
		done <- err
	}()

	// 等到第一次切换正在写入时再发起第二次
	select {
	case <-memberships.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first toggle never reached the membership store")
	}

	_, err := co.ToggleLike(context.Background(), "u1", ref)
	assert.ErrorIs(t, err, ErrTogglePending)

	// 槽位按(用户,文章)划分：同一用户换文章、同一文章换用户都不受影响
	_, err = co.ToggleLike(context.Background(), "u1", ArticleRef{ID: "a2"})
	require.NoError(t, err)
	_, err = co.ToggleLike(context.Background(), "u2", ref)
	require.NoError(t, err)

	close(memberships.gate)
	require.NoError(t, <-done)
	memberships.gate = nil

	// u1和u2各收藏了一次a1，被拒绝的重入没有叠加净变化
	assert.Equal(t, int64(2), counters.count("a1"))

	// 第一次完成后同一对(用户,文章)可以再次切换，u2的收藏保持不变
	out, err := co.ToggleLike(context.Background(), "u1", ref)
	require.NoError(t, err)
	assert.False(t, out.Liked)
	assert.Equal(t, int64(1), counters.count("a1"))
}

func TestToggleLikeRevertsMembershipOnCounterFailure(t *testing.T) {
	counters := newFakeCounters()
	memberships := newFakeMemberships()
	counters.failNext = errors.New("redis unavailable")
	co := NewCoordinator(counters, memberships)

	_, err := co.ToggleLike(context.Background(), "u1", ArticleRef{ID: "a1", Baseline: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransientStore)

	// 已写入的收藏关系被补偿回原状态
	liked, _ := memberships.IsLiked("u1", "a1")
	assert.False(t, liked)
}

func TestToggleLikeRevertsCounterOnMembershipFailure(t *testing.T) {
	counters := newFakeCounters()
	memberships := newFakeMemberships()
	memberships.failNext = errors.New("db unavailable")
	co := NewCoordinator(counters, memberships)

	_, err := co.ToggleLike(context.Background(), "u1", ArticleRef{ID: "a1", Baseline: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)

	// 已应用的计数增量被反向补偿
	assert.Equal(t, int64(5), counters.count("a1"))
}

func TestToggleLikeCompensatesAfterRequestCancelled(t *testing.T) {
	counters := newFakeCounters()
	memberships := newFakeMemberships()
	memberships.entered = make(chan struct{}, 1)
	memberships.gate = make(chan struct{})
	memberships.failNext = errors.New("db unavailable")
	co := NewCoordinator(counters, memberships)
	ref := ArticleRef{ID: "a1", Baseline: 5}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := co.ToggleLike(ctx, "u1", ref)
		done <- err
	}()

	select {
	case <-memberships.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("toggle never reached the membership store")
	}

	// 等计数侧先写完，再模拟客户端在收藏关系写入期间断开
	require.Eventually(t, func() bool {
		return counters.count("a1") == 6
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	close(memberships.gate)

	err := <-done
	memberships.gate = nil
	require.ErrorIs(t, err, ErrPersistence)

	// 请求上下文已取消，反向补偿仍然要落到计数存储上
	assert.Equal(t, int64(5), counters.count("a1"))
}

func TestToggleLikeUnlikeRevertsOnFailure(t *testing.T) {
	counters := newFakeCounters()
	memberships := newFakeMemberships()
	co := NewCoordinator(counters, memberships)
	ref := ArticleRef{ID: "a1", Baseline: 5}

	// 先正常收藏一次
	_, err := co.ToggleLike(context.Background(), "u1", ref)
	require.NoError(t, err)
	require.Equal(t, int64(6), counters.count("a1"))

	// 取消收藏时计数侧失败，收藏关系应被恢复
	counters.failNext = errors.New("redis unavailable")
	_, err = co.ToggleLike(context.Background(), "u1", ref)
	require.ErrorIs(t, err, ErrTransientStore)

	liked, _ := memberships.IsLiked("u1", "a1")
	assert.True(t, liked)
	assert.Equal(t, int64(6), counters.count("a1"))
}

// TestToggleLikeAgainstRealStores 用真实的Redis/GORM替身走一遍完整流程。
func TestToggleLikeAgainstRealStores(t *testing.T) {
	setupTestBackends(t)
	userID := createTestUser(t)
	co := NewCoordinator(redisCounterStore{}, gormMembershipStore{})
	ref := ArticleRef{ID: "a1", Baseline: 10}

	out, err := co.ToggleLike(context.Background(), userID, ref)
	require.NoError(t, err)
	assert.True(t, out.Liked)
	assert.Equal(t, int64(11), out.Count)

	liked, err := IsLiked(userID, "a1")
	require.NoError(t, err)
	assert.True(t, liked)

	out, err = co.ToggleLike(context.Background(), userID, ref)
	require.NoError(t, err)
	assert.False(t, out.Liked)
	assert.Equal(t, int64(10), out.Count)
}
