package handler

import (
	"context"
	"net/http"

	"users-api/internal/http-api/dto"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the record store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping Pinger
}

func NewHealthHandler(ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Check GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("database unavailable", ""))
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "ok"})
}

// RouteNotFound answers every unmatched route.
func RouteNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse("route not found", ""))
}
