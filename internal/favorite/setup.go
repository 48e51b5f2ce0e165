package favorite

import (
	"fmt"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// CounterSeed 是预热一篇文章计数所需的数据，由article模块提供。
type CounterSeed struct {
	ArticleID string
	Count     int64
	Published bool
}

// migrateDB 负责自动迁移收藏关系表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Membership{}); err != nil {
		return fmt.Errorf("无法迁移favorite_memberships表: %w", err)
	}
	fmt.Println("Favorite数据库表迁移成功。")
	return nil
}

// WarmupCache 用文章的快照列预热Redis中的计数和排行榜。
// 只有已发布的文章进入排行榜；草稿的计数也预热，
// 以免下架再上架时计数回退到基线。
// 注意：此函数不含锁，只应在启动或热重建的受控时机调用。
func WarmupCache(seeds []CounterSeed) error {
	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, RankingKey)

	for _, seed := range seeds {
		count := clampNonNegative(seed.Count)
		pipe.Set(database.Ctx, CountKey(seed.ArticleID), count, 0)
		if seed.Published {
			pipe.ZAdd(database.Ctx, RankingKey, redis.Z{
				Score:  float64(count),
				Member: seed.ArticleID,
			})
		}
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热收藏计数到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 篇文章的收藏计数。\n", len(seeds))
	return nil
}

// PrimeCachedDB 是favorite模块的初始化总入口
func PrimeCachedDB(seeds []CounterSeed) error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(seeds); err != nil {
		return err
	}
	return nil
}
