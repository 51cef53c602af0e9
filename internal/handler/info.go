package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingFunc проверяет доступность хранилища
type PingFunc func(ctx context.Context) error

// ServiceInfo корневой эндпоинт: имя сервиса и список маршрутов
// @Summary Service info
// @Tags service
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func ServiceInfo(name string, endpoints []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   name,
			"status":    "running",
			"endpoints": endpoints,
		})
	}
}

// HealthCheck отвечает 200, если хранилище отвечает на ping
// @Summary Health check
// @Tags service
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func HealthCheck(name string, ping PingFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unavailable",
					"service": name,
					"error":   err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": name,
		})
	}
}
