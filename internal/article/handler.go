package article

import (
	"errors"
	"net/http"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/favorite"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// --- API响应模型 ---

// ArticleResponse 是文章在公开API中的形态。
type ArticleResponse struct {
	ID               string   `json:"id"`
	Slug             string   `json:"slug"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"shortDescription"`
	Category         string   `json:"category"`
	ImageURL         string   `json:"imageUrl"`
	ImageHint        string   `json:"imageHint,omitempty"`
	Introduction     string   `json:"introduction"`
	Points           []string `json:"points"`
	Conclusion       string   `json:"conclusion,omitempty"`
	ReadMoreLink     string   `json:"readMoreLink,omitempty"`
	FavoriteCount    int64    `json:"favoriteCount"`
	LikedByMe        bool     `json:"likedByMe"`
	Status           string   `json:"status"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

func toResponse(a *Article, count int64, likedByMe bool) ArticleResponse {
	points := a.Points
	if points == nil {
		points = []string{}
	}
	return ArticleResponse{
		ID:               a.ID,
		Slug:             a.Slug,
		Title:            a.Title,
		ShortDescription: a.ShortDescription,
		Category:         a.Category,
		ImageURL:         a.ImageURL,
		ImageHint:        a.ImageHint,
		Introduction:     a.Introduction,
		Points:           points,
		Conclusion:       a.Conclusion,
		ReadMoreLink:     a.ReadMoreLink,
		FavoriteCount:    count,
		LikedByMe:        likedByMe,
		Status:           string(a.Status),
		CreatedAt:        a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:        a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListHandler 返回公开的文章列表。
// 排序对登录用户个性化：自己收藏的排前，其余按实时收藏数降序；
// 列表、计数或收藏集任一变化都会在下一次请求中反映出来。
func ListHandler(c *gin.Context) {
	articles, err := ListPublished()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron cargar los artículos"})
		return
	}

	ids := make([]string, len(articles))
	baselines := make(map[string]int64, len(articles))
	byID := make(map[string]*Article, len(articles))
	for i := range articles {
		a := &articles[i]
		ids[i] = a.ID
		baselines[a.ID] = a.FavoriteCount
		byID[a.ID] = a
	}

	counts, err := favorite.CurrentCounts(c.Request.Context(), ids, baselines)
	if err != nil {
		// 计数服务不可用时退回快照列，列表本身仍可用
		counts = baselines
	}

	userID := user.CurrentUserID(c)
	liked, err := favorite.LikedArticleIDs(userID)
	if err != nil {
		liked = map[string]bool{}
	}

	items := make([]favorite.RankedItem, len(ids))
	for i, id := range ids {
		items[i] = favorite.RankedItem{
			ID:        id,
			Count:     counts[id],
			LikedByMe: liked[id],
		}
	}
	favorite.SortRanked(items)

	responses := make([]ArticleResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toResponse(byID[item.ID], item.Count, item.LikedByMe))
	}
	c.JSON(http.StatusOK, gin.H{"articles": responses})
}

// DetailHandler 返回单篇已发布文章。
func DetailHandler(c *gin.Context) {
	a, err := GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cargar el artículo"})
		return
	}
	if a == nil || a.Status != StatusPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artículo no encontrado"})
		return
	}

	count, err := favorite.CurrentCount(c.Request.Context(), a.ID, a.FavoriteCount)
	if err != nil {
		count = a.FavoriteCount
	}

	likedByMe := false
	if uid := user.CurrentUserID(c); uid != "" {
		likedByMe, _ = favorite.IsLiked(uid, a.ID)
	}

	c.JSON(http.StatusOK, gin.H{"article": toResponse(a, count, likedByMe)})
}

// CategoriesHandler 返回固定的分类列表。
func CategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": Categories()})
}

// --- 管理后台 ---

// ArticleRequestBody 是创建/编辑文章的请求体。
type ArticleRequestBody struct {
	Slug             string   `json:"slug"`
	Title            string   `json:"title" binding:"required"`
	ShortDescription string   `json:"shortDescription"`
	Category         string   `json:"category"`
	ImageURL         string   `json:"imageUrl"`
	ImageHint        string   `json:"imageHint"`
	Introduction     string   `json:"introduction"`
	Points           []string `json:"points"`
	Conclusion       string   `json:"conclusion"`
	ReadMoreLink     string   `json:"readMoreLink"`
	FavoriteCount    int64    `json:"favoriteCount"`
	Status           string   `json:"status" binding:"omitempty,oneof=draft published"`
}

// AdminListHandler 返回全部文章（含草稿）。
func AdminListHandler(c *gin.Context) {
	articles, err := ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron cargar los artículos"})
		return
	}
	responses := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		responses = append(responses, toResponse(&articles[i], articles[i].FavoriteCount, false))
	}
	c.JSON(http.StatusOK, gin.H{"articles": responses})
}

// CreateHandler 创建一篇文章。
func CreateHandler(c *gin.Context) {
	var body ArticleRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del artículo inválidos"})
		return
	}

	a := Article{
		Slug:             body.Slug,
		Title:            body.Title,
		ShortDescription: body.ShortDescription,
		Category:         body.Category,
		ImageURL:         body.ImageURL,
		ImageHint:        body.ImageHint,
		Introduction:     body.Introduction,
		Points:           body.Points,
		Conclusion:       body.Conclusion,
		ReadMoreLink:     body.ReadMoreLink,
		FavoriteCount:    body.FavoriteCount,
		Status:           ArticleStatus(body.Status),
		AuthorID:         user.CurrentUserID(c),
	}
	if err := Create(&a); err != nil {
		if errors.Is(err, ErrSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Ese slug ya está en uso"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el artículo"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"article": toResponse(&a, a.FavoriteCount, false)})
}

// UpdateHandler 编辑一篇文章。
func UpdateHandler(c *gin.Context) {
	a, err := GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cargar el artículo"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artículo no encontrado"})
		return
	}

	var body ArticleRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del artículo inválidos"})
		return
	}

	if body.Slug != "" {
		a.Slug = body.Slug
	}
	a.Title = body.Title
	a.ShortDescription = body.ShortDescription
	a.Category = body.Category
	a.ImageURL = body.ImageURL
	a.ImageHint = body.ImageHint
	a.Introduction = body.Introduction
	a.Points = body.Points
	a.Conclusion = body.Conclusion
	a.ReadMoreLink = body.ReadMoreLink
	if body.Status != "" {
		a.Status = ArticleStatus(body.Status)
	}

	if err := Update(a); err != nil {
		if errors.Is(err, ErrSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Ese slug ya está en uso"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo guardar el artículo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": toResponse(a, a.FavoriteCount, false)})
}

// DeleteHandler 删除一篇文章及其收藏数据。
func DeleteHandler(c *gin.Context) {
	a, err := GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cargar el artículo"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artículo no encontrado"})
		return
	}

	if err := Delete(a.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo eliminar el artículo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artículo eliminado"})
}

// ImportRequestBody 是从外部网页导入草稿的请求体。
type ImportRequestBody struct {
	URL string `json:"url" binding:"required,url"`
}

// ImportHandler 抓取外部法规页面并生成一篇草稿。
func ImportHandler(c *gin.Context) {
	var body ImportRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL inválida"})
		return
	}

	draft, err := ImportDraftFromURL(c.Request.Context(), body.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo importar la página"})
		return
	}
	draft.AuthorID = user.CurrentUserID(c)

	if err := Create(draft); err != nil {
		if errors.Is(err, ErrSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Ya existe un artículo con ese slug"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo guardar el borrador"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"article": toResponse(draft, 0, false)})
}
