package article

import (
	"time"

	"gorm.io/gorm"
)

// ArticleStatus 定义了文章的发布状态
type ArticleStatus string

const (
	// StatusDraft 表示草稿，只在管理后台可见
	StatusDraft ArticleStatus = "draft"
	// StatusPublished 表示已发布，参与公开列表和排序
	StatusPublished ArticleStatus = "published"
)

// Article 定义了交通法规文章在数据库中的持久化模型。
type Article struct {
	// ID 是文章的主键，服务端生成的UUID v7。
	// 收藏计数以它为键，因此它一经创建永不变更。
	ID string `gorm:"primarykey;type:varchar(36)"`

	// Slug 是URL友好的唯一次级键，仅用于路由和展示。
	// 与计数无关，允许在后台修改。
	Slug string `gorm:"uniqueIndex;not null;type:varchar(255)"`

	Title            string `gorm:"not null"`
	ShortDescription string
	Category         string
	ImageURL         string
	ImageHint        string

	// 正文的三段式结构，对应前端的文章视图
	Introduction string
	Points       []string `gorm:"serializer:json"`
	Conclusion   string

	ReadMoreLink string

	// FavoriteCount 是收藏总数的持久化快照。
	// 实时值在Redis中维护，由快照任务定期写回此列；
	// Redis中无值时以此列为基线。
	FavoriteCount int64 `gorm:"default:0"`

	Status   ArticleStatus `gorm:"type:varchar(16);default:'draft';index"`
	AuthorID string        `gorm:"type:varchar(36)"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Category 定义了文章分类
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// initialCategories 是内置的分类列表，与原产品保持一致。
// TODO: 分类目前是固定的，后台需要自定义分类时再落库。
var initialCategories = []Category{
	{ID: "reglamentos-infracciones", Name: "Reglamentos e Infracciones"},
	{ID: "seguridad-vial", Name: "Seguridad Vial"},
	{ID: "obligaciones", Name: "Obligaciones"},
	{ID: "infracciones-graves", Name: "Infracciones Graves"},
	{ID: "consejos-generales", Name: "Consejos Generales"},
}

// Categories 返回分类列表的副本。
func Categories() []Category {
	out := make([]Category, len(initialCategories))
	copy(out, initialCategories)
	return out
}
