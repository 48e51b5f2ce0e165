package favorite

import (
	"fmt"
	"time"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/user"
	"gorm.io/gorm/clause"
)

// Membership 定义了“某用户收藏了某文章”的关系行。
// (UserID, ArticleID) 为联合主键，集合语义由此保证：
// 重复收藏与重复取消在数据层都是无操作。
type Membership struct {
	UserID    string `gorm:"primaryKey;type:varchar(36)"`
	ArticleID string `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}

// TableName 指定关系表的表名
func (Membership) TableName() string {
	return "favorite_memberships"
}

// LikedArticleIDs 返回一个用户收藏的全部文章ID集合。
// 用户不存在或没有任何收藏时返回空集合，不视为错误。
func LikedArticleIDs(userID string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if userID == "" {
		return liked, nil
	}

	var rows []Membership
	if err := database.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: 读取用户收藏集失败: %v", ErrPersistence, err)
	}
	for _, row := range rows {
		liked[row.ArticleID] = true
	}
	return liked, nil
}

// IsLiked 检查一个用户是否收藏了某篇文章。
func IsLiked(userID, articleID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	err := database.DB.Model(&Membership{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: 查询收藏关系失败: %v", ErrPersistence, err)
	}
	return count > 0, nil
}

// SetMembership 把一篇文章加入或移出用户的收藏集。
// 幂等：添加已存在的关系、移除不存在的关系都是无操作。
// 用户记录不存在时返回 ErrPersistence——区别于“空收藏集”，
// 未认证或已删除的用户不允许持有收藏关系。
func SetMembership(userID, articleID string, present bool) error {
	exists, err := user.Exists(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !exists {
		return fmt.Errorf("%w: 用户 %s 不存在", ErrPersistence, userID)
	}

	if present {
		row := Membership{UserID: userID, ArticleID: articleID}
		err = database.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	} else {
		err = database.DB.
			Where("user_id = ? AND article_id = ?", userID, articleID).
			Delete(&Membership{}).Error
	}
	if err != nil {
		return fmt.Errorf("%w: 更新收藏关系失败: %v", ErrPersistence, err)
	}
	return nil
}
