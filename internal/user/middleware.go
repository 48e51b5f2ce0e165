package user

import (
	"net/http"
	"strings"

	"github.com/AsesorVial/mi-asesor-vial-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	// UserIDKey 是userID在Gin上下文中的键名。
	UserIDKey = "userID"
	// IsAdminKey 是管理员标记在Gin上下文中的键名。
	IsAdminKey = "isAdmin"
)

// bearerToken 从Authorization头中提取Bearer令牌。
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// OptionalAuthMiddleware 尝试解析JWT，把身份放入上下文。
// 未携带或无效的令牌不会中断请求，此时用户按匿名处理。
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := token.ValidateToken(raw); err == nil {
				c.Set(UserIDKey, claims.UserID)
				c.Set(IsAdminKey, claims.IsAdmin)
			}
		}
		c.Next()
	}
}

// RequireAuthMiddleware 要求请求携带有效的JWT，否则返回401。
func RequireAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Debes iniciar sesión"})
			return
		}
		claims, err := token.ValidateToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sesión inválida o expirada"})
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(IsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// RequireAdminMiddleware 在RequireAuthMiddleware之后使用，校验管理员权限。
func RequireAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsAdminKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Se requiere permiso de administrador"})
			return
		}
		c.Next()
	}
}

// CurrentUserID 从Gin上下文中取出userID，匿名请求返回空串。
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
