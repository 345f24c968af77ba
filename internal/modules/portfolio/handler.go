package portfolio

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Mrhb33/Artivty/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/artworks", h.AddArtwork)
	rg.GET("/artworks/feed", h.ListFeed)
	rg.GET("/artists/:id/artworks", h.ListByArtist)
	rg.PUT("/artworks/:id", h.UpdateArtwork)
	rg.DELETE("/artworks/:id", h.RemoveArtwork)
}

func (h *Handler) AddArtwork(c *gin.Context) {
	var req CreateArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.AddArtwork(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err, "Failed to add artwork")
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) UpdateArtwork(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.UpdateArtwork(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		h.writeError(c, err, "Failed to update artwork")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"artwork": a})
}

func (h *Handler) RemoveArtwork(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.RemoveArtwork(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		h.writeError(c, err, "Failed to delete artwork")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ListByArtist(c *gin.Context) {
	artistID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || artistID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid artist id")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.service.ListByArtist(c.Request.Context(), artistID, limit, offset)
	if err != nil {
		h.writeError(c, err, "Failed to list artworks")
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) ListFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	artworks, err := h.service.ListFeed(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err, "Failed to load feed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"artworks": artworks})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Artwork not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this artwork")
	case errors.Is(err, ErrArtistsOnly):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only artists have portfolios")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}
