package api

import (
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/advisor"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/article"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/favorite"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 认证相关的路由
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", user.RegisterHandler)
			authRoutes.POST("/login", user.LoginHandler)
			authRoutes.POST("/reset-password", user.ResetPasswordHandler)
		}

		// 当前用户相关的路由
		profileRoutes := api.Group("/profile", user.RequireAuthMiddleware())
		{
			profileRoutes.GET("/me", user.MeHandler)
			profileRoutes.PUT("/me", user.UpdateProfileHandler)
		}

		// 文章相关的路由，登录可选，登录后返回个性化排序
		articleRoutes := api.Group("/articles", user.OptionalAuthMiddleware())
		{
			articleRoutes.GET("", article.ListHandler)
			articleRoutes.GET("/categories", article.CategoriesHandler)
			articleRoutes.GET("/:slug", article.DetailHandler)

			// 收藏相关的路由，handler通过resolver把slug换成文章引用
			articleRoutes.GET("/:slug/favorite", favorite.StatusHandler(article.ResolveFavoriteRef))
			articleRoutes.GET("/:slug/favorite/live", favorite.LiveCountHandler(article.ResolveFavoriteRef))
			articleRoutes.POST("/:slug/favorite", user.RequireAuthMiddleware(), favorite.ToggleHandler(article.ResolveFavoriteRef))
		}

		api.GET("/favorites/top", favorite.TopFavoritesHandler)

		// AI顾问相关的路由
		advisorRoutes := api.Group("/advisor")
		{
			advisorRoutes.GET("/infractions", advisor.InfractionsHandler)
			advisorRoutes.POST("/query", advisor.QueryHandler)
			advisorRoutes.POST("/suggestions", advisor.SuggestionsHandler)
		}

		// 管理后台的路由
		adminRoutes := api.Group("/admin", user.RequireAuthMiddleware(), user.RequireAdminMiddleware())
		{
			adminRoutes.GET("/articles", article.AdminListHandler)
			adminRoutes.POST("/articles", article.CreateHandler)
			adminRoutes.POST("/articles/import", article.ImportHandler)
			adminRoutes.PUT("/articles/:id", article.UpdateHandler)
			adminRoutes.DELETE("/articles/:id", article.DeleteHandler)
		}
	}
}
