package handler

import (
	"context"
	"net/http"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks that a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	storage string
	pinger  Pinger
	logger  coreport.Logger
}

// NewHealthHandler creates a health handler. A nil pinger reports healthy
// without a check, which is the case for the in-memory store.
func NewHealthHandler(storage string, pinger Pinger, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		pinger:  pinger,
		logger:  logger,
	}
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			h.logger.Warn("Health check failed", map[string]any{
				"storage": h.storage,
				"error":   err.Error(),
			})
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
				Status:  "unavailable",
				Storage: h.storage,
				Error:   "storage unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Storage: h.storage,
	})
}
