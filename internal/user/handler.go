package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- API请求与响应模型 ---

type RegisterRequestBody struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequestBody struct {
	Username    string `json:"username" binding:"omitempty,min=3,max=64"`
	PhotoURL    string `json:"photoUrl"`
	NewPassword string `json:"newPassword" binding:"omitempty,min=6"`
}

type ResetPasswordRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type UserResponse struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		UID:      u.UUID,
		Username: u.Username,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
		IsAdmin:  u.IsAdmin,
	}
}

// RegisterHandler 处理新用户注册。
func RegisterHandler(c *gin.Context) {
	var body RegisterRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de registro inválidos"})
		return
	}

	newUser, err := Register(body.Username, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Ese correo ya está registrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la cuenta"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(newUser)})
}

// LoginHandler 处理登录并返回JWT。
func LoginHandler(c *gin.Context) {
	var body LoginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de acceso inválidos"})
		return
	}

	u, jwtStr, err := Authenticate(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Correo o contraseña incorrectos"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo iniciar sesión"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": jwtStr, "user": toUserResponse(u)})
}

// MeHandler 返回当前登录用户的资料。
func MeHandler(c *gin.Context) {
	u, err := GetByID(CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cargar el perfil"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u)})
}

// UpdateProfileHandler 更新当前用户的资料。
func UpdateProfileHandler(c *gin.Context) {
	var body UpdateProfileRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de perfil inválidos"})
		return
	}

	u, err := UpdateProfile(CurrentUserID(c), body.Username, body.PhotoURL, body.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el perfil"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u)})
}

// ResetPasswordHandler 登记一个密码重置请求。
// 为避免账号枚举，响应对任何邮箱都相同。
func ResetPasswordHandler(c *gin.Context) {
	var body ResetPasswordRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Correo inválido"})
		return
	}
	RequestPasswordReset(body.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Si el correo existe, recibirás instrucciones para restablecer tu contraseña"})
}
