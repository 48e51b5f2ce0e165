package user

import (
	"errors"
	"fmt"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/AsesorVial/mi-asesor-vial-backend/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrEmailTaken 表示注册时邮箱已被占用。
var ErrEmailTaken = errors.New("该邮箱已被注册")

// ErrInvalidCredentials 表示登录凭证不正确。
var ErrInvalidCredentials = errors.New("邮箱或密码不正确")

// Register 创建一个新用户并返回其UUID。
func Register(username, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("无法哈希密码: %w", err)
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	newUser := User{
		UUID:         newUUID.String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("无法创建用户: %w", err)
	}
	return &newUser, nil
}

// Authenticate 校验邮箱和密码，成功时签发JWT。
func Authenticate(email, password string) (*User, string, error) {
	var u User
	if err := database.DB.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("查询用户失败: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	jwtStr, err := token.GenerateToken(u.UUID, u.IsAdmin)
	if err != nil {
		return nil, "", err
	}
	return &u, jwtStr, nil
}

// GetByID 按UUID查询用户，未找到时返回 (nil, nil)。
func GetByID(userID string) (*User, error) {
	var u User
	err := database.DB.Where("uuid = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

// Exists 检查一个UUID对应的用户是否存在。
// 收藏模块用它来区分“空收藏集”和“用户不存在”。
func Exists(userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	if err := database.DB.Model(&User{}).Where("uuid = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("检查用户是否存在时出错: %w", err)
	}
	return count > 0, nil
}

// UpdateProfile 更新用户资料，newPassword为空时不改密码。
func UpdateProfile(userID, username, photoURL, newPassword string) (*User, error) {
	var u User
	if err := database.DB.Where("uuid = ?", userID).First(&u).Error; err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if username != "" {
		u.Username = username
	}
	u.PhotoURL = photoURL
	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("无法哈希密码: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := database.DB.Save(&u).Error; err != nil {
		return nil, fmt.Errorf("保存用户资料失败: %w", err)
	}
	return &u, nil
}

// RequestPasswordReset 接受一个重置请求。
// 无论邮箱是否存在都不向调用方泄露，只在服务端留下日志。
// 日志里不出现提交的邮箱原文，避免把未注册的地址写进日志。
func RequestPasswordReset(email string) {
	var u User
	err := database.DB.Where("email = ?", email).First(&u).Error
	if err != nil {
		fmt.Println("密码重置: 收到未知邮箱的请求，已忽略。")
		return
	}
	// TODO: 接入邮件服务后，在这里发送带一次性令牌的重置链接
	fmt.Printf("密码重置: 已为用户 %s 登记重置请求。\n", u.UUID)
}
