package advisor

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type queryRequest struct {
	Query string `json:"query" binding:"required,min=5"`
}

type suggestionsRequest struct {
	Infraction string `json:"infraction" binding:"required"`
}

// QueryHandler 处理 POST /api/advisor/query
func QueryHandler(c *gin.Context) {
	var body queryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La consulta debe tener al menos 5 caracteres."})
		return
	}

	advice, err := AnswerTrafficQuery(c.Request.Context(), body.Query)
	if err != nil {
		writeAdvisorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}

// SuggestionsHandler 处理 POST /api/advisor/suggestions
func SuggestionsHandler(c *gin.Context) {
	var body suggestionsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Selecciona una infracción."})
		return
	}

	suggestions, err := SuggestRelevantArticles(c.Request.Context(), body.Infraction)
	if err != nil {
		writeAdvisorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestedArticles": suggestions})
}

// InfractionsHandler 处理 GET /api/advisor/infractions
func InfractionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"infractions": CommonInfractions()})
}

func writeAdvisorError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "El asesor de IA no está disponible por el momento."})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo obtener una respuesta del asesor. Inténtalo de nuevo."})
}
