package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// Pinger is satisfied by the database handle
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthController reports liveness and store reachability
type HealthController struct {
	store Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

// Health pings the store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.store.PingContext(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Health check failed")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unreachable")
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}

	respond(ctx, http.StatusOK, gin.H{"status": "ok", "database": "ok"}, "")
}
