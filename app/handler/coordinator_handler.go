package handler

import (
	"net/http"

	"labourhub/internal/model"
	"labourhub/internal/service"
	"labourhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxNearby = 50

// CoordinatorHandler coordinator onboarding and dashboard APIs
type CoordinatorHandler struct {
	coordinators *service.CoordinatorService
	logs         *service.LabourLogService
}

// NewCoordinatorHandler creates a new coordinator handler
func NewCoordinatorHandler(coordinators *service.CoordinatorService, logs *service.LabourLogService) *CoordinatorHandler {
	return &CoordinatorHandler{coordinators: coordinators, logs: logs}
}

// Register onboards a coordinator
// @Summary Register coordinator
// @Tags Coordinators
// @Accept json
// @Produce json
// @Param request body model.RegisterCoordinatorInput true "Coordinator"
// @Success 201 {object} model.Coordinator
// @Router /api/v1/coordinators [post]
func (h *CoordinatorHandler) Register(c *gin.Context) {
	var in model.RegisterCoordinatorInput
	if !bindRequiredJSON(c, &in) {
		return
	}
	coord, err := h.coordinators.Register(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.InfoCtx(c.Request.Context(), "coordinator %s registered in %s", coord.ID, coord.Location.District)
	c.JSON(http.StatusCreated, coord)
}

// Get returns a coordinator by id, or by user id with ?by=user
func (h *CoordinatorHandler) Get(c *gin.Context) {
	var (
		coord *model.Coordinator
		err   error
	)
	if c.Query("by") == "user" {
		coord, err = h.coordinators.GetByUser(c.Request.Context(), c.Param("id"))
	} else {
		coord, err = h.coordinators.Get(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coord)
}

// Update changes coordinator profile fields
func (h *CoordinatorHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !requireCoordinatorActor(c, id) {
		return
	}
	var in model.UpdateCoordinatorInput
	if !bindRequiredJSON(c, &in) {
		return
	}
	coord, err := h.coordinators.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coord)
}

// Verify marks a coordinator verified; system only
func (h *CoordinatorHandler) Verify(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if actor.Type != model.ActorSystem {
		respondError(c, model.NewForbiddenError("only the system may verify coordinators"))
		return
	}
	coord, err := h.coordinators.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coord)
}

// Nearby lists active coordinators serving a district
// @Param district query string true "District"
// @Param work_type query string false "Skill filter"
// @Router /api/v1/coordinators/nearby [get]
func (h *CoordinatorHandler) Nearby(c *gin.Context) {
	limit, ok := limitQuery(c, 0, maxNearby)
	if !ok {
		return
	}
	coords, err := h.coordinators.Nearby(c.Request.Context(), c.Query("district"), c.Query("work_type"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coords)
}

// Stats dashboard counters
func (h *CoordinatorHandler) Stats(c *gin.Context) {
	stats, err := h.coordinators.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Logs returns the coordinator's accountability trail, most recent entries last
func (h *CoordinatorHandler) Logs(c *gin.Context) {
	limit, ok := limitQuery(c, defaultLogLimit, maxLogLimit)
	if !ok {
		return
	}
	logs, err := h.logs.ListByCoordinator(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
