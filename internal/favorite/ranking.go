package favorite

import (
	"context"
	"fmt"
	"sort"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
)

// RankedItem 是排序算法操作的最小单元，由调用方从文章列表构造。
type RankedItem struct {
	ID        string
	Count     int64
	LikedByMe bool
}

// SortRanked 就地排序：
// 主键是“当前用户是否收藏”（收藏的排前），次键是实时收藏数降序。
// 两个键都相等时保持输入顺序（稳定排序）。
func SortRanked(items []RankedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].LikedByMe != items[j].LikedByMe {
			return items[i].LikedByMe
		}
		return items[i].Count > items[j].Count
	})
}

// TopEntry 是排行榜的一项。
type TopEntry struct {
	ArticleID string `json:"articleId"`
	Count     int64  `json:"count"`
	Rank      int    `json:"rank"`
}

// TopFavorites 从排行榜ZSET读取收藏数最高的前limit篇文章。
func TopFavorites(ctx context.Context, limit int) ([]TopEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	zs, err := database.RDB.ZRevRangeWithScores(ctx, RankingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: 读取排行榜失败: %v", ErrTransientStore, err)
	}

	entries := make([]TopEntry, 0, len(zs))
	for i, z := range zs {
		id, _ := z.Member.(string)
		entries = append(entries, TopEntry{
			ArticleID: id,
			Count:     int64(z.Score),
			Rank:      i + 1,
		})
	}
	return entries, nil
}
