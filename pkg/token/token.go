package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// secretKey 存储服务器启动时从配置加载的JWT签名密钥。
var secretKey []byte

// tokenTTL 是签发的JWT的有效期。
var tokenTTL = 72 * time.Hour

// Claims 定义了JWT中携带的业务数据。
type Claims struct {
	UserID  string `json:"uid"`
	IsAdmin bool   `json:"adm"`
	jwt.RegisteredClaims
}

// Configure 在应用启动时调用，注入密钥和有效期。
func Configure(secret string, ttlHours int) {
	if secret == "" {
		panic("JWT密钥未配置，请设置 auth.jwtSecret 或环境变量 AUTH_JWTSECRET")
	}
	secretKey = []byte(secret)
	if ttlHours > 0 {
		tokenTTL = time.Duration(ttlHours) * time.Hour
	}
	fmt.Println("JWT签名密钥已加载。")
}

// GenerateToken 为指定用户签发一个HS256 JWT。
func GenerateToken(userID string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("无法签发JWT: %w", err)
	}
	return signed, nil
}

// ValidateToken 验证JWT并返回其中的业务数据。
func ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名算法: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("无效的JWT")
	}
	return claims, nil
}
