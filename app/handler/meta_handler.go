package handler

import (
	"context"
	"net/http"
	"time"

	"labourhub/internal/model"
	"labourhub/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
)

// HealthChecker optional dependency checked by /health
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// MetaHandler catalogue, health and log-query APIs
type MetaHandler struct {
	logs   *service.LabourLogService
	checks map[string]HealthChecker
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(logs *service.LabourLogService) *MetaHandler {
	return &MetaHandler{logs: logs, checks: make(map[string]HealthChecker)}
}

// AddHealthCheck registers a named dependency check
func (h *MetaHandler) AddHealthCheck(name string, check HealthChecker) {
	if check != nil {
		h.checks[name] = check
	}
}

// WorkType catalogue entry
type WorkType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// WorkTypes lists the known work types
// @Router /work-types [get]
func (h *MetaHandler) WorkTypes(c *gin.Context) {
	known := model.KnownWorkTypes()
	out := make([]WorkType, 0, len(known))
	for _, wt := range known {
		out = append(out, WorkType{Value: string(wt), Label: wt.Label()})
	}
	c.JSON(http.StatusOK, out)
}

// Health reports process and dependency health
func (h *MetaHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.checks))
	status, code := "ok", http.StatusOK
	for name, check := range h.checks {
		if err := check.Healthy(ctx); err != nil {
			deps[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	c.JSON(code, gin.H{"status": status, "dependencies": deps})
}

// LogsByEventType lists recent log entries of one type
// @Param event_type query string true "Event type"
// @Router /api/v1/logs [get]
func (h *MetaHandler) LogsByEventType(c *gin.Context) {
	et, err := model.ParseEventType(c.Query("event_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	limit, ok := limitQuery(c, defaultLogLimit, maxLogLimit)
	if !ok {
		return
	}
	logs, err := h.logs.ListByEventType(c.Request.Context(), et, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
