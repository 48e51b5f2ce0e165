package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/article"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/favorite"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/AsesorVial/mi-asesor-vial-backend/pkg/lifecycle"
)

var snapshotMutex sync.Mutex // 避免定时快照与停机快照竞态

// StartSnapshotScheduler 启动一个后台Goroutine来定期把Redis计数写回数据库
// 它接收一个lifecycle.Handle来管理其生命周期
func StartSnapshotScheduler(handle *lifecycle.Handle, interval time.Duration) {
	defer handle.Close() // 确保在退出时通知管理器
	fmt.Println("收藏计数快照调度器已启动。")

	for {
		// 使用可中断的休眠来代替ticker，收到停机信号时能立刻唤醒退出
		if err := handle.Sleep(interval); err != nil {
			fmt.Println("快照调度器: 休眠被中断，正在关闭...")
			return
		}

		if !database.IsRedisHealthy() {
			fmt.Println("快照调度器: 检测到Redis不可用，跳过本次快照。")
			continue
		}

		if err := CreateSnapshotInDB(handle.Ctx()); err != nil {
			if err != context.Canceled && err != context.DeadlineExceeded {
				fmt.Printf("快照调度器错误: 写回收藏计数失败: %v\n", err)
			}
		} else {
			fmt.Println("快照调度器: 收藏计数快照成功。")
		}
	}
}

// CreateSnapshotInDB 把Redis中的实时收藏计数写回文章表的快照列。
// 只更新发生变化的行，避免无意义的写放大。
func CreateSnapshotInDB(ctx context.Context) error {
	snapshotMutex.Lock()
	defer snapshotMutex.Unlock()

	seeds, err := article.CounterSeeds()
	if err != nil {
		return fmt.Errorf("无法读取文章列表: %w", err)
	}
	if len(seeds) == 0 {
		return nil
	}

	ids := make([]string, 0, len(seeds))
	baselines := make(map[string]int64, len(seeds))
	for _, s := range seeds {
		ids = append(ids, s.ArticleID)
		baselines[s.ArticleID] = s.Count
	}

	counts, err := favorite.CurrentCounts(ctx, ids, baselines)
	if err != nil {
		return fmt.Errorf("无法从Redis读取收藏计数: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for _, s := range seeds {
		current, ok := counts[s.ArticleID]
		if !ok || current == s.Count {
			continue
		}
		if err := article.UpdateFavoriteSnapshot(s.ArticleID, current); err != nil {
			return fmt.Errorf("写回文章 %s 的收藏计数失败: %w", s.ArticleID, err)
		}
	}
	return nil
}
