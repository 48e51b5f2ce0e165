package startup

import (
	"context"
	"fmt"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/article"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/favorite"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/snapshot"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := user.PrimeDB(); err != nil {
		return err
	}
	if err := article.PrimeDB(); err != nil {
		return err
	}

	seeds, err := article.CounterSeeds()
	if err != nil {
		return err
	}
	if err := favorite.PrimeCachedDB(seeds); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数
// 以数据库中的快照列为基线，重建计数键和排行榜
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	seeds, err := article.CounterSeeds()
	if err != nil {
		return err
	}
	if err := favorite.WarmupCache(seeds); err != nil {
		return err
	}

	// 重建完成后触发一次新的快照，让两侧重新对齐
	fmt.Println("缓存热重建完成，正在触发一次新的数据快照...")
	if err := snapshot.CreateSnapshotInDB(context.Background()); err != nil {
		fmt.Printf("警告: 缓存热重建后的快照写回失败: %v\n", err)
	}

	return nil
}
