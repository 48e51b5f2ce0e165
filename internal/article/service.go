package article

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/favorite"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSlugTaken 表示slug已被其他文章占用。
var ErrSlugTaken = errors.New("该slug已被占用")

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 把标题转换为URL友好的slug。
func Slugify(title string) string {
	s := strings.ToLower(title)
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "ü", "u",
	)
	s = replacer.Replace(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ListPublished 返回全部已发布文章。
func ListPublished() ([]Article, error) {
	var articles []Article
	err := database.DB.
		Where("status = ?", StatusPublished).
		Order("created_at desc").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("读取已发布文章失败: %w", err)
	}
	return articles, nil
}

// ListAll 返回全部文章（含草稿），供管理后台使用。
func ListAll() ([]Article, error) {
	var articles []Article
	if err := database.DB.Order("created_at desc").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("读取文章列表失败: %w", err)
	}
	return articles, nil
}

// GetBySlug 按slug查询文章，未找到时返回 (nil, nil)。
func GetBySlug(slug string) (*Article, error) {
	var a Article
	err := database.DB.Where("slug = ?", slug).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	return &a, nil
}

// GetByID 按ID查询文章，未找到时返回 (nil, nil)。
func GetByID(id string) (*Article, error) {
	var a Article
	err := database.DB.Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	return &a, nil
}

// Create 创建一篇新文章。slug为空时从标题生成。
func Create(a *Article) error {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("无法生成文章ID: %w", err)
	}
	a.ID = newUUID.String()
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if a.FavoriteCount < 0 {
		a.FavoriteCount = 0
	}

	if err := database.DB.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return fmt.Errorf("创建文章失败: %w", err)
	}
	return nil
}

// Update 按ID保存文章的可编辑字段。
// 计数以ID为键，这里允许修改slug而不影响收藏数据。
func Update(a *Article) error {
	if err := database.DB.Save(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlugTaken
		}
		return fmt.Errorf("保存文章失败: %w", err)
	}
	return nil
}

// Delete 删除一篇文章，并尽力清理其计数与收藏关系。
// 清理失败不阻塞删除本身，只记录日志。
func Delete(id string) error {
	if err := database.DB.Where("id = ?", id).Delete(&Article{}).Error; err != nil {
		return fmt.Errorf("删除文章失败: %w", err)
	}
	if err := favorite.RemoveArticle(database.Ctx, id); err != nil {
		fmt.Printf("警告: 文章 %s 的收藏数据清理失败: %v\n", id, err)
	}
	return nil
}

// ResolveFavoriteRef 是favorite模块的ArticleResolver实现：
// 把slug解析为计数所需的不可变引用。
func ResolveFavoriteRef(slug string) (*favorite.ArticleRef, error) {
	a, err := GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	return &favorite.ArticleRef{
		ID:        a.ID,
		Slug:      a.Slug,
		Baseline:  a.FavoriteCount,
		Published: a.Status == StatusPublished,
	}, nil
}

// CounterSeeds 为favorite模块的缓存预热提供全量种子数据。
func CounterSeeds() ([]favorite.CounterSeed, error) {
	var articles []Article
	if err := database.DB.Select("id", "favorite_count", "status").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("读取计数种子数据失败: %w", err)
	}
	seeds := make([]favorite.CounterSeed, 0, len(articles))
	for _, a := range articles {
		seeds = append(seeds, favorite.CounterSeed{
			ArticleID: a.ID,
			Count:     a.FavoriteCount,
			Published: a.Status == StatusPublished,
		})
	}
	return seeds, nil
}

// UpdateFavoriteSnapshot 把实时计数写回文章的快照列，供快照任务调用。
func UpdateFavoriteSnapshot(id string, count int64) error {
	return database.DB.Model(&Article{}).
		Where("id = ?", id).
		Update("favorite_count", count).Error
}
