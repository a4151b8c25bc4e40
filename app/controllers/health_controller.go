package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

const healthTimeout = 2 * time.Second

// Pinger is anything whose backing store can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	target Pinger
}

func NewHealthController(target Pinger) *HealthController {
	return &HealthController{target: target}
}

// Up handles GET /up.
func (hc *HealthController) Up(c *ctx.Context) {
	pingCtx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	if err := hc.target.Ping(pingCtx); err != nil {
		logger.WithCtx(c.Context()).Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
