package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/SergeiKhy/todo-shorturl/internal/repository"
	"github.com/SergeiKhy/todo-shorturl/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LinkHandler struct {
	service service.LinkService
	baseURL string
	logger  *zap.Logger
}

func NewLinkHandler(service service.LinkService, baseURL string, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		baseURL: baseURL,
		logger:  logger,
	}
}

type ShortenRequest struct {
	URL string `json:"url" binding:"required"`
}

type ShortenResponse struct {
	ShortID     string    `json:"short_id"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type StatsResponse struct {
	ShortID     string    `json:"short_id"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	ClickCount  int64     `json:"click_count"`
}

// Shorten godoc
// @Summary Create a short link
// @Description Returns the existing short link when the URL was shortened before
// @Tags links
// @Accept json
// @Produce json
// @Param request body ShortenRequest true "URL to shorten"
// @Success 201 {object} ShortenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shorten [post]
func (h *LinkHandler) Shorten(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	if err := service.ValidateURL(req.URL); err != nil {
		h.logger.Warn("Invalid URL", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_url",
			Message: "Invalid URL. Example: https://example.com",
		})
		return
	}

	link, err := h.service.CreateOrGet(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Error("Failed to create link", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create link",
		})
		return
	}

	c.JSON(http.StatusCreated, ShortenResponse{
		ShortID:     link.ShortID,
		ShortURL:    h.baseURL + "/" + link.ShortID,
		OriginalURL: link.DestinationURL,
		CreatedAt:   link.CreatedAt,
	})
}

// Redirect godoc
// @Summary Redirect to original URL
// @Description Counts the click and redirects to the original URL
// @Tags links
// @Param short_id path string true "Short id"
// @Success 307 {object} nil
// @Failure 404 {object} ErrorResponse
// @Router /{short_id} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	shortID := c.Param("short_id")

	link, err := h.service.Resolve(c.Request.Context(), shortID)
	if err != nil {
		h.respondLookupError(c, shortID, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, link.DestinationURL)
}

// GetStats godoc
// @Summary Get click statistics for a short link
// @Tags links
// @Produce json
// @Param short_id path string true "Short id"
// @Success 200 {object} StatsResponse
// @Failure 404 {object} ErrorResponse
// @Router /stats/{short_id} [get]
func (h *LinkHandler) GetStats(c *gin.Context) {
	shortID := c.Param("short_id")

	link, err := h.service.GetStats(c.Request.Context(), shortID)
	if err != nil {
		h.respondLookupError(c, shortID, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		ShortID:     link.ShortID,
		OriginalURL: link.DestinationURL,
		CreatedAt:   link.CreatedAt,
		ClickCount:  link.ClickCount,
	})
}

func (h *LinkHandler) respondLookupError(c *gin.Context, shortID string, err error) {
	if errors.Is(err, repository.ErrLinkNotFound) {
		h.logger.Debug("Link not found", zap.String("short_id", shortID))
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Short link not found",
		})
		return
	}

	h.logger.Error("Failed to look up link", zap.String("short_id", shortID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "Failed to look up link",
	})
}
