package favorite

// 定义与收藏相关的Redis键名
const (
	// countKeyPrefix + 文章ID 是一个String，存储该文章的实时收藏数。
	// 键以文章的不可变ID为准，slug的修改不会使计数失联。
	countKeyPrefix = "favorite:count:"

	// RankingKey 是一个Sorted Set，按收藏数实时排序已发布的文章。
	// Score: 收藏数, Member: 文章ID
	RankingKey = "favorite:ranking"

	// updateChannelPrefix + 文章ID 是Pub/Sub频道，
	// 每次计数变化后向其发布最新值，供实时流推送给客户端。
	updateChannelPrefix = "favorite:updates:"
)

// CountKey 返回一篇文章的计数键。
func CountKey(articleID string) string {
	return countKeyPrefix + articleID
}

// UpdateChannel 返回一篇文章的计数变更频道名。
func UpdateChannel(articleID string) string {
	return updateChannelPrefix + articleID
}
