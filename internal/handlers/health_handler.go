package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sjperalta/lendtrack-api/internal/statemachine"
)

type HealthHandler struct {
	selector  *statemachine.BackendSelector
	startedAt time.Time
}

func NewHealthHandler(selector *statemachine.BackendSelector) *HealthHandler {
	return &HealthHandler{selector: selector, startedAt: time.Now()}
}

// @Summary Health Check
// @Description Service status and the currently active storage backend
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	resp := gin.H{
		"status":  "ok",
		"backend": h.selector.State(),
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	}
	if failedAt := h.selector.FailedAt(); failedAt != nil {
		resp["failover_at"] = failedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}
