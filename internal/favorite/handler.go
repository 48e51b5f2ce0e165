package favorite

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// ArticleRef 是收藏子系统对文章的最小视图：
// 不可变ID作计数键，快照列作计数基线。
type ArticleRef struct {
	ID        string
	Slug      string
	Baseline  int64
	Published bool
}

// ArticleResolver 把URL中的slug解析为ArticleRef。
// 文章不存在时返回 (nil, nil)。由article模块提供实现，
// slug到ID的转换只发生在这一层。
type ArticleResolver func(slug string) (*ArticleRef, error)

// resolvePublished 解析slug并要求文章已发布，失败时写好响应并返回nil。
func resolvePublished(c *gin.Context, resolve ArticleResolver) *ArticleRef {
	ref, err := resolve(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cargar el artículo"})
		return nil
	}
	if ref == nil || !ref.Published {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artículo no encontrado"})
		return nil
	}
	return ref
}

// writeToggleError 把协调器的分类错误映射为HTTP响应。
func writeToggleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Inicia sesión para guardar favoritos"})
	case errors.Is(err, ErrTogglePending):
		c.JSON(http.StatusConflict, gin.H{"error": "Tu acción anterior aún se está procesando"})
	case errors.Is(err, ErrTransientStore):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No se pudo actualizar el contador, inténtalo de nuevo"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo guardar tu favorito"})
	}
}

// ToggleHandler 处理一次收藏切换。
func ToggleHandler(resolve ArticleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := resolvePublished(c, resolve)
		if ref == nil {
			return
		}

		outcome, err := ToggleLike(c.Request.Context(), user.CurrentUserID(c), *ref)
		if err != nil {
			writeToggleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"likedByMe": outcome.Liked,
			"count":     outcome.Count,
		})
	}
}

// StatusHandler 返回一篇文章的收藏数和当前用户的收藏状态。
func StatusHandler(resolve ArticleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := resolvePublished(c, resolve)
		if ref == nil {
			return
		}

		count, err := CurrentCount(c.Request.Context(), ref.ID, ref.Baseline)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Contador no disponible"})
			return
		}

		likedByMe := false
		if uid := user.CurrentUserID(c); uid != "" {
			likedByMe, err = IsLiked(uid, ref.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cargar tus favoritos"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"count": count, "likedByMe": likedByMe})
	}
}

// LiveCountHandler 以SSE推送一篇文章收藏数的实时流。
// 首个事件是当前值，之后每次变化推送一次。
// 客户端断开时请求上下文被取消，订阅随之释放。
func LiveCountHandler(resolve ArticleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := resolvePublished(c, resolve)
		if ref == nil {
			return
		}

		ctx := c.Request.Context()
		counts, err := Observe(ctx, ref.ID, ref.Baseline)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Transmisión no disponible"})
			return
		}

		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Stream(func(w io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case v, ok := <-counts:
				if !ok {
					return false
				}
				c.SSEvent("count", strconv.FormatInt(v, 10))
				return true
			}
		})
	}
}

// TopFavoritesHandler 返回收藏数排行榜。
func TopFavoritesHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("top", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	entries, err := TopFavorites(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ranking no disponible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": entries})
}
