package favorite

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// 乐观重试的退避参数，与投票类写入保持一致的数量级
const (
	deltaInitialDelay = 8 * time.Millisecond
	deltaMaxDelay     = 2 * time.Second
)

// clampNonNegative 把基线和计算结果都压到非负区间。
func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// ApplyDelta 对一篇文章的收藏计数原子地应用+1或-1。
// 键不存在时先以baseline（压到非负）为种子再应用增量，结果不允许为负。
// 使用WATCH乐观事务而非读-改-写，两个客户端同时修改同一个键时输家重试。
// 重试退避耗尽后返回 ErrTransientStore。
func ApplyDelta(ctx context.Context, articleID string, delta int64, baseline int64) (int64, error) {
	if delta != 1 && delta != -1 {
		return 0, fmt.Errorf("无效的计数增量: %d", delta)
	}

	key := CountKey(articleID)
	var newValue int64

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Int64()
		if err == redis.Nil {
			current = clampNonNegative(baseline)
		} else if err != nil {
			return err
		}

		newValue = clampNonNegative(current + delta)

		// 写入在MULTI/EXEC中执行，WATCH保证键未被并发修改
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newValue, 0)
			pipe.ZAdd(ctx, RankingKey, redis.Z{Score: float64(newValue), Member: articleID})
			return nil
		})
		return err
	}

	delay := deltaInitialDelay
	for {
		err := database.RDB.Watch(ctx, txf, key)
		if err == nil {
			publishCount(ctx, articleID, newValue)
			return newValue, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return 0, fmt.Errorf("%w: %v", ErrTransientStore, err)
		}
		// 乐观冲突，退避后重试
		if delay > deltaMaxDelay {
			return 0, fmt.Errorf("%w: 冲突重试次数耗尽", ErrTransientStore)
		}
		// 加入随机抖动，避免多个失败者同时醒来再次互相冲突
		timer := time.NewTimer(delay/2 + rand.N(delay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, fmt.Errorf("%w: %v", ErrTransientStore, ctx.Err())
		case <-timer.C:
		}
		delay *= 2
	}
}

// publishCount 把最新计数广播到该文章的变更频道。
// 广播只影响实时流的及时性，失败不影响计数本身。
func publishCount(ctx context.Context, articleID string, value int64) {
	if err := database.RDB.Publish(ctx, UpdateChannel(articleID), value).Err(); err != nil {
		fmt.Printf("警告: 无法广播文章 %s 的计数更新: %v\n", articleID, err)
	}
}

// CurrentCount 读取一篇文章的实时收藏数，键不存在时返回压到非负的baseline。
func CurrentCount(ctx context.Context, articleID string, baseline int64) (int64, error) {
	v, err := database.RDB.Get(ctx, CountKey(articleID)).Int64()
	if err == redis.Nil {
		return clampNonNegative(baseline), nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransientStore, err)
	}
	return v, nil
}

// CurrentCounts 用Pipeline批量读取多篇文章的实时收藏数。
// baselines提供每篇文章的兜底值，键不存在时使用。
func CurrentCounts(ctx context.Context, articleIDs []string, baselines map[string]int64) (map[string]int64, error) {
	if len(articleIDs) == 0 {
		return map[string]int64{}, nil
	}

	pipe := database.RDB.Pipeline()
	cmds := make([]*redis.StringCmd, len(articleIDs))
	for i, id := range articleIDs {
		cmds[i] = pipe.Get(ctx, CountKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrTransientStore, err)
	}

	counts := make(map[string]int64, len(articleIDs))
	for i, id := range articleIDs {
		v, err := cmds[i].Int64()
		if err == redis.Nil {
			counts[id] = clampNonNegative(baselines[id])
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransientStore, err)
		}
		counts[id] = v
	}
	return counts, nil
}

// Observe 返回一篇文章收藏数的实时流。
// 首个值是当前计数（键不存在时为baseline），之后每次变化推送一次，
// 无论变化来自本进程还是其他实例。ctx取消后goroutine退出并关闭channel，
// 订阅随之释放——调用方必须取消ctx，否则每个订阅都会占用一条连接。
func Observe(ctx context.Context, articleID string, baseline int64) (<-chan int64, error) {
	sub := database.RDB.Subscribe(ctx, UpdateChannel(articleID))
	// 确认订阅建立，避免漏掉紧随其后的更新
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%w: %v", ErrTransientStore, err)
	}

	initial, err := CurrentCount(ctx, articleID, baseline)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan int64, 8)
	go func() {
		defer close(out)
		defer sub.Close()

		select {
		case out <- initial:
		case <-ctx.Done():
			return
		}

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				v, err := strconv.ParseInt(msg.Payload, 10, 64)
				if err != nil {
					continue
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// RemoveArticle 是文章删除时的清理钩子：
// 尽力移除计数键、排行榜成员和所有用户的收藏关系。
// 清理是advisory的，与文章删除本身不构成原子操作。
func RemoveArticle(ctx context.Context, articleID string) error {
	pipe := database.RDB.Pipeline()
	pipe.Del(ctx, CountKey(articleID))
	pipe.ZRem(ctx, RankingKey, articleID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("清理文章 %s 的计数数据失败: %w", articleID, err)
	}

	if err := database.DB.Where("article_id = ?", articleID).Delete(&Membership{}).Error; err != nil {
		return fmt.Errorf("清理文章 %s 的收藏关系失败: %w", articleID, err)
	}
	return nil
}
