package user

import (
	"time"

	"gorm.io/gorm"
)

// User 定义了用户在数据库中的持久化模型。
// 对应原产品中由认证服务商托管的账户资料。
type User struct {
	// UUID 是用户的主键，服务端生成的UUID v7。
	UUID string `gorm:"primarykey;type:varchar(36)"`

	// Username 是展示用的用户名。
	Username string `gorm:"not null;type:varchar(64)"`

	// Email 是登录凭证，全局唯一。
	Email string `gorm:"uniqueIndex;not null;type:varchar(255)"`

	// PasswordHash 是bcrypt哈希后的密码，永不返回给客户端。
	PasswordHash string `gorm:"not null" json:"-"`

	// PhotoURL 是头像地址，可为空。
	PhotoURL string

	// IsAdmin 标记内容管理后台的访问权限。
	IsAdmin bool `gorm:"default:false"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
