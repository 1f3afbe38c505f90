package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"readleaf/batch"
	"readleaf/cmd/api/dto"
	"readleaf/cmd/api/services"
)

// ValidateArticlesHandler triggers one repair batch over the selected
// articles and responds with the aggregated summary.
func ValidateArticlesHandler(svc *services.ValidationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ValidateRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}

		resp, err := svc.Validate(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, batch.ErrInvalidSelector) {
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetArticleHandler returns one article with resolved media URLs.
func GetArticleHandler(svc *services.ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, primitive.ErrInvalidHex):
				status = http.StatusBadRequest
			case errors.Is(err, mongo.ErrNoDocuments):
				status = http.StatusNotFound
			}
			c.JSON(status, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// IncrementReadCountHandler bumps the engagement counter of an article.
func IncrementReadCountHandler(svc *services.ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.IncrementReadCount(c.Request.Context(), c.Param("id")); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, primitive.ErrInvalidHex) {
				status = http.StatusBadRequest
			}
			c.JSON(status, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "read count incremented successfully"})
	}
}
