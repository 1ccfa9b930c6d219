package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const apiVersion = "2.0.0"

type HealthHandler struct {
	dbConfigured bool
	now          func() time.Time
}

func NewHealthHandler(dbConfigured bool) *HealthHandler {
	return &HealthHandler{dbConfigured: dbConfigured, now: time.Now}
}

// @Summary      Проверка состояния
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	db := "not configured"
	if h.dbConfigured {
		db = "configured"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   apiVersion,
		"database":  db,
	})
}
