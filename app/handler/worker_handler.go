package handler

import (
	"net/http"
	"strconv"

	"labourhub/internal/model"
	"labourhub/internal/service"
	"labourhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// WorkerHandler worker pool and worker self-service APIs
type WorkerHandler struct {
	workers *service.WorkerService
}

// NewWorkerHandler creates a new worker handler
func NewWorkerHandler(workers *service.WorkerService) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

// List lists a coordinator's pool, most reliable first
// @Param skill query string false "Skill filter"
// @Param standby query bool false "Standby workers only"
// @Param include_inactive query bool false "Include removed workers"
// @Router /api/v1/coordinators/{id}/workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	var f model.WorkerFilter
	if raw := c.Query("skill"); raw != "" {
		wt, err := model.ParseWorkType(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		f.Skill = wt
	}
	f.StandbyOnly, _ = strconv.ParseBool(c.Query("standby"))
	f.IncludeInactive, _ = strconv.ParseBool(c.Query("include_inactive"))

	workers, err := h.workers.List(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

// Add adds a worker to the coordinator's pool
// @Param request body model.AddWorkerInput true "Worker"
// @Success 201 {object} model.Worker
// @Router /api/v1/coordinators/{id}/workers [post]
func (h *WorkerHandler) Add(c *gin.Context) {
	coordinatorID := c.Param("id")
	if !requireCoordinatorActor(c, coordinatorID) {
		return
	}
	var in model.AddWorkerInput
	if !bindRequiredJSON(c, &in) {
		return
	}
	w, err := h.workers.Add(c.Request.Context(), coordinatorID, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.InfoCtx(c.Request.Context(), "worker %s added to coordinator %s", w.ID, coordinatorID)
	c.JSON(http.StatusCreated, w)
}

// Update changes a pooled worker
func (h *WorkerHandler) Update(c *gin.Context) {
	coordinatorID := c.Param("id")
	if !requireCoordinatorActor(c, coordinatorID) {
		return
	}
	var in model.UpdateWorkerInput
	if !bindRequiredJSON(c, &in) {
		return
	}
	w, err := h.workers.Update(c.Request.Context(), coordinatorID, c.Param("worker_id"), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Remove deactivates a pooled worker
func (h *WorkerHandler) Remove(c *gin.Context) {
	coordinatorID := c.Param("id")
	if !requireCoordinatorActor(c, coordinatorID) {
		return
	}
	workerID := c.Param("worker_id")
	if err := h.workers.Remove(c.Request.Context(), coordinatorID, workerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker_id": workerID, "removed": true})
}

// Get returns one worker
func (h *WorkerHandler) Get(c *gin.Context) {
	w, err := h.workers.Get(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// MyAssignments requests on which the worker (id or phone) holds a booking
// @Router /api/v1/workers/{worker_id}/assignments [get]
func (h *WorkerHandler) MyAssignments(c *gin.Context) {
	reqs, err := h.workers.MyAssignments(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// UpdateMyAvailability replaces weekday flags; workers may only change their own
// @Param request body map[string]bool true "Weekday flags"
// @Router /api/v1/workers/{worker_id}/availability [put]
func (h *WorkerHandler) UpdateMyAvailability(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	workerID := c.Param("worker_id")
	if actor.Type == model.ActorWorker && actor.ID != workerID {
		respondError(c, model.NewForbiddenError("workers may only change their own availability"))
		return
	}
	if actor.Type == model.ActorFarmer {
		respondError(c, model.NewForbiddenError("farmers cannot change worker availability"))
		return
	}
	if actor.Type == model.ActorCoordinator {
		w, err := h.workers.Get(c.Request.Context(), workerID)
		if err != nil {
			respondError(c, err)
			return
		}
		if w.CoordinatorID != actor.ID {
			respondError(c, model.NewForbiddenError("worker %s belongs to another coordinator", workerID))
			return
		}
	}

	var days map[string]bool
	if !bindRequiredJSON(c, &days) {
		return
	}
	w, err := h.workers.UpdateMyAvailability(c.Request.Context(), workerID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
