package favorite

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// counterStore 抽象了聚合计数存储，便于在测试中注入故障。
type counterStore interface {
	ApplyDelta(ctx context.Context, articleID string, delta, baseline int64) (int64, error)
}

// membershipStore 抽象了用户收藏集存储。
type membershipStore interface {
	IsLiked(userID, articleID string) (bool, error)
	SetMembership(userID, articleID string, present bool) error
}

// redisCounterStore 是counterStore的默认实现，落到本包的Redis函数上。
type redisCounterStore struct{}

func (redisCounterStore) ApplyDelta(ctx context.Context, articleID string, delta, baseline int64) (int64, error) {
	return ApplyDelta(ctx, articleID, delta, baseline)
}

// gormMembershipStore 是membershipStore的默认实现。
type gormMembershipStore struct{}

func (gormMembershipStore) IsLiked(userID, articleID string) (bool, error) {
	return IsLiked(userID, articleID)
}

func (gormMembershipStore) SetMembership(userID, articleID string, present bool) error {
	return SetMembership(userID, articleID, present)
}

// Coordinator 是唯一改变“用户是否收藏某文章”的组件，
// 负责让两个独立存储保持最终一致，并为视图派生排序所需的数据。
type Coordinator struct {
	counters    counterStore
	memberships membershipStore

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewCoordinator 构造一个协调器。测试可传入替身存储。
func NewCoordinator(c counterStore, m membershipStore) *Coordinator {
	return &Coordinator{
		counters:    c,
		memberships: m,
		pending:     make(map[string]struct{}),
	}
}

// globalCoordinator 是生产环境使用的单例
var globalCoordinator = NewCoordinator(redisCounterStore{}, gormMembershipStore{})

// DefaultCoordinator 返回生产单例。
func DefaultCoordinator() *Coordinator {
	return globalCoordinator
}

// ToggleOutcome 描述一次成功切换后的客户端状态。
// Count是本次增量的乐观结果，最终展示值以实时流为准。
type ToggleOutcome struct {
	Liked bool
	Count int64
}

func pendingKey(userID, articleID string) string {
	return userID + "\x00" + articleID
}

// tryAcquire 为(用户,文章)对占据在途槽位，已占用时返回false。
func (co *Coordinator) tryAcquire(key string) bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	if _, inFlight := co.pending[key]; inFlight {
		return false
	}
	co.pending[key] = struct{}{}
	return true
}

func (co *Coordinator) release(key string) {
	co.mu.Lock()
	defer co.mu.Unlock()
	delete(co.pending, key)
}

// ToggleLike 执行一次收藏切换。
//
// 流程：校验身份 → 拒绝在途重入 → 读取当前收藏关系求反 →
// 并发写入收藏关系和计数增量 → 任一失败时尽力补偿成功的一侧并回退。
// 两个存储相互独立，写入顺序不影响正确性，但都必须被尝试。
// 补偿本身也可能失败，此时两个存储暂时不一致，
// 由后续的快照/重建流程收敛——对收藏数而言这是可接受的最终一致。
func (co *Coordinator) ToggleLike(ctx context.Context, userID string, ref ArticleRef) (*ToggleOutcome, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	key := pendingKey(userID, ref.ID)
	if !co.tryAcquire(key) {
		return nil, ErrTogglePending
	}
	defer co.release(key)

	currentlyLiked, err := co.memberships.IsLiked(userID, ref.ID)
	if err != nil {
		return nil, err
	}

	target := !currentlyLiked
	var delta int64 = 1
	if !target {
		delta = -1
	}

	var (
		newCount int64
		memErr   error
		cntErr   error
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		memErr = co.memberships.SetMembership(userID, ref.ID, target)
		return memErr
	})
	g.Go(func() error {
		newCount, cntErr = co.counters.ApplyDelta(ctx, ref.ID, delta, ref.Baseline)
		return cntErr
	})
	_ = g.Wait()

	if memErr == nil && cntErr == nil {
		return &ToggleOutcome{Liked: target, Count: newCount}, nil
	}

	// 部分失败：补偿成功的一侧，恢复切换前的状态。
	// 补偿失败只记录日志，不向用户叠加第二个错误。
	if memErr == nil && cntErr != nil {
		if compErr := co.memberships.SetMembership(userID, ref.ID, currentlyLiked); compErr != nil {
			fmt.Printf("警告: 收藏关系补偿失败 (user=%s article=%s): %v\n", userID, ref.ID, compErr)
		}
	}
	if cntErr == nil && memErr != nil {
		// 请求上下文可能已被取消（比如客户端断开），
		// 补偿写必须在独立的上下文里执行，否则注定失败。
		if _, compErr := co.counters.ApplyDelta(context.Background(), ref.ID, -delta, ref.Baseline); compErr != nil {
			fmt.Printf("警告: 计数补偿失败 (article=%s): %v\n", ref.ID, compErr)
		}
	}

	return nil, co.resolveToggleError(memErr, cntErr)
}

// resolveToggleError 把两侧的失败归并成唯一一个分类错误。
func (co *Coordinator) resolveToggleError(memErr, cntErr error) error {
	if memErr != nil {
		if errors.Is(memErr, ErrPersistence) {
			return memErr
		}
		return fmt.Errorf("%w: %v", ErrPersistence, memErr)
	}
	if cntErr != nil {
		if errors.Is(cntErr, ErrTransientStore) {
			return cntErr
		}
		return fmt.Errorf("%w: %v", ErrTransientStore, cntErr)
	}
	return nil
}

// ToggleLike 是生产单例的便捷入口，供API层调用。
func ToggleLike(ctx context.Context, userID string, ref ArticleRef) (*ToggleOutcome, error) {
	return globalCoordinator.ToggleLike(ctx, userID, ref)
}
