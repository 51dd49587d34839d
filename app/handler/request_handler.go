package handler

import (
	"context"
	"net/http"

	"labourhub/internal/model"
	"labourhub/internal/service"
	"labourhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestHandler labour request lifecycle APIs
type RequestHandler struct {
	requests *service.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// Create submits a labour request
// @Summary Create labour request
// @Description Farmer submits a request; a coordinator is routed immediately
// @Tags Requests
// @Accept json
// @Produce json
// @Param request body model.CreateRequestInput true "Request"
// @Success 201 {object} model.LabourRequest
// @Router /api/v1/requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in model.CreateRequestInput
	if !bindRequiredJSON(c, &in) {
		return
	}
	switch actor.Type {
	case model.ActorFarmer:
		if in.FarmerID == "" {
			in.FarmerID = actor.ID
		} else if in.FarmerID != actor.ID {
			respondError(c, model.NewForbiddenError("farmers may only create their own requests"))
			return
		}
	case model.ActorSystem:
	default:
		respondError(c, model.NewForbiddenError("only farmers create labour requests"))
		return
	}

	req, err := h.requests.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// Get returns one request with its slots
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.requests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListFarmerRequests lists a farmer's requests, newest first
// @Router /api/v1/farmers/{farmer_id}/requests [get]
func (h *RequestHandler) ListFarmerRequests(c *gin.Context) {
	status, ok := statusQuery(c)
	if !ok {
		return
	}
	reqs, err := h.requests.ListFarmerRequests(c.Request.Context(), c.Param("farmer_id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// ListCoordinatorRequests lists a coordinator's requests by work date
// @Router /api/v1/coordinators/{id}/requests [get]
func (h *RequestHandler) ListCoordinatorRequests(c *gin.Context) {
	status, ok := statusQuery(c)
	if !ok {
		return
	}
	reqs, err := h.requests.ListCoordinatorRequests(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// GetAvailableWorkers lists bookable workers of a coordinator
// @Param date query string true "YYYY-MM-DD"
// @Param work_type query string false "Skill filter"
// @Router /api/v1/coordinators/{id}/available-workers [get]
func (h *RequestHandler) GetAvailableWorkers(c *gin.Context) {
	workers, err := h.requests.GetAvailableWorkers(c.Request.Context(), c.Param("id"), c.Query("date"), c.Query("work_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

// Logs returns the request's accountability trail
func (h *RequestHandler) Logs(c *gin.Context) {
	logs, err := h.requests.GetRequestLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

type reasonActionFunc func(ctx context.Context, requestID, reason string, actor model.Actor) (*model.LabourRequest, error)

// reasonAction runs an action that takes an optional {"reason"} body
func (h *RequestHandler) reasonAction(c *gin.Context, action reasonActionFunc) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in model.ReasonInput
	if !bindJSON(c, &in) {
		return
	}
	req, err := action(c.Request.Context(), c.Param("id"), in.Reason, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Cancel cancels a request (farmer or coordinator)
func (h *RequestHandler) Cancel(c *gin.Context) {
	h.reasonAction(c, h.requests.Cancel)
}

// Decline declines a pending request
func (h *RequestHandler) Decline(c *gin.Context) {
	h.reasonAction(c, h.requests.Decline)
}

// Fail records that the coordinator could not deliver
func (h *RequestHandler) Fail(c *gin.Context) {
	h.reasonAction(c, h.requests.FailRequest)
}

// Accept accepts a pending request
func (h *RequestHandler) Accept(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	req, err := h.requests.Accept(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Start moves an assigned request to in_progress
func (h *RequestHandler) Start(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	req, err := h.requests.StartWork(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Complete finishes the work day
func (h *RequestHandler) Complete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in model.NotesInput
	if !bindJSON(c, &in) {
		return
	}
	req, err := h.requests.CompleteWork(c.Request.Context(), c.Param("id"), in.Notes, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Feedback records the farmer's rating
// @Param request body model.FeedbackInput true "Rating 1-5"
// @Router /api/v1/requests/{id}/feedback [post]
func (h *RequestHandler) Feedback(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in model.FeedbackInput
	if !bindRequiredJSON(c, &in) {
		return
	}
	req, err := h.requests.SubmitFeedback(c.Request.Context(), c.Param("id"), &in, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ConfirmCompletion farmer acknowledges completed work
func (h *RequestHandler) ConfirmCompletion(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	req, err := h.requests.ConfirmCompletion(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Assign binds workers and standby workers to the request
// @Param request body model.AssignInput true "Workers"
// @Router /api/v1/requests/{id}/assign [post]
func (h *RequestHandler) Assign(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in model.AssignInput
	if !bindRequiredJSON(c, &in) {
		return
	}
	req, err := h.requests.AssignWorkers(c.Request.Context(), c.Param("id"), &in, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ReplacementSuggestions ranks standby and available substitutes
// @Param cancelled_worker_id query string false "Worker being replaced"
// @Router /api/v1/requests/{id}/replacement-suggestions [get]
func (h *RequestHandler) ReplacementSuggestions(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	out, err := h.requests.GetReplacementSuggestions(c.Request.Context(), c.Param("id"), c.Query("cancelled_worker_id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Replace substitutes one worker for another
// @Param request body model.ReplaceInput true "Replacement"
// @Router /api/v1/requests/{id}/replace [post]
func (h *RequestHandler) Replace(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in model.ReplaceInput
	if !bindRequiredJSON(c, &in) {
		return
	}
	req, err := h.requests.ReplaceWorker(c.Request.Context(), c.Param("id"), &in, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.InfoCtx(c.Request.Context(), "request %s: worker %s replaced by %s", req.ID, in.CancelledWorkerID, in.NewWorkerID)
	c.JSON(http.StatusOK, req)
}

// ConfirmWorker marks one worker's slot confirmed
func (h *RequestHandler) ConfirmWorker(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	req, err := h.requests.ConfirmWorker(c.Request.Context(), c.Param("id"), c.Param("worker_id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// CancelWorker drops one worker from the request
func (h *RequestHandler) CancelWorker(c *gin.Context) {
	h.slotAction(c, h.requests.CancelWorker)
}

// NoShow marks a worker absent on the work day
func (h *RequestHandler) NoShow(c *gin.Context) {
	h.slotAction(c, h.requests.MarkNoShow)
}

type slotActionFunc func(ctx context.Context, requestID string, in *model.SlotActionInput, actor model.Actor) (*model.LabourRequest, error)

func (h *RequestHandler) slotAction(c *gin.Context, action slotActionFunc) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var body model.ReasonInput
	if !bindJSON(c, &body) {
		return
	}
	in := &model.SlotActionInput{WorkerID: c.Param("worker_id"), Reason: body.Reason}
	req, err := action(c.Request.Context(), c.Param("id"), in, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
