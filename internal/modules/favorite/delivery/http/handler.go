package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jigswap.app/jigswap/internal/modules/favorite/dto"
	favorite "jigswap.app/jigswap/internal/modules/favorite/service"
	"jigswap.app/jigswap/pkg/response"
	"jigswap.app/jigswap/pkg/validator"
)

type FavoriteHandler struct {
	service favorite.FavoriteService
}

func NewFavoriteHandler(service favorite.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	puzzleID, err := uuid.Parse(c.Param("puzzle_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid puzzle id"})
		return
	}

	result, err := h.service.Toggle(c.Request.Context(), userID, puzzleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *FavoriteHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var filter dto.FavoriteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *FavoriteHandler) Count(c *gin.Context) {
	puzzleID, err := uuid.Parse(c.Param("puzzle_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid puzzle id"})
		return
	}

	count, err := h.service.Count(c.Request.Context(), puzzleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"puzzle_id": puzzleID, "favorite_count": count}})
}
