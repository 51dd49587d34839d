package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"labourhub/app/middleware"
	"labourhub/internal/model"
	"labourhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse body of every failed call
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var statusByCode = map[model.ErrorCode]int{
	model.CodeValidation:             http.StatusBadRequest,
	model.CodeNotFound:               http.StatusNotFound,
	model.CodeSlotNotFound:           http.StatusNotFound,
	model.CodeInvalidStateTransition: http.StatusConflict,
	model.CodeWorkerConflict:         http.StatusConflict,
	model.CodeAlreadyRated:           http.StatusConflict,
	model.CodeConflict:               http.StatusConflict,
	model.CodeNoCoordinatorAvailable: http.StatusUnprocessableEntity,
	model.CodeForbidden:              http.StatusForbidden,
}

// StatusFor maps an engine error to its HTTP status
func StatusFor(err error) int {
	if status, ok := statusByCode[model.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	code := string(model.CodeOf(err))
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), "%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		code = "Internal"
		msg = "internal server error"
	} else {
		logger.DebugCtx(c.Request.Context(), "%s %s rejected: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

// bindJSON binds an optional body; an empty body leaves out untouched
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, model.NewValidationError("invalid request body: %v", err))
		return false
	}
	return true
}

// bindRequiredJSON binds a body that must be present
func bindRequiredJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondError(c, model.NewValidationError("invalid request body: %v", err))
		return false
	}
	return true
}

// requireActor returns the caller identity or writes a 400
func requireActor(c *gin.Context) (model.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondError(c, model.NewValidationError("%s and %s headers are required", middleware.HeaderActorType, middleware.HeaderActorID))
		return model.Actor{}, false
	}
	return actor, true
}

// requireCoordinatorActor allows the system or the coordinator itself
func requireCoordinatorActor(c *gin.Context, coordinatorID string) bool {
	actor, ok := requireActor(c)
	if !ok {
		return false
	}
	if actor.Type == model.ActorSystem || (actor.Type == model.ActorCoordinator && actor.ID == coordinatorID) {
		return true
	}
	respondError(c, model.NewForbiddenError("only coordinator %s may do this", coordinatorID))
	return false
}

func statusQuery(c *gin.Context) (model.RequestStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return "", true
	}
	status, err := model.ParseRequestStatus(raw)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return status, true
}

func limitQuery(c *gin.Context, def, max int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		respondError(c, model.NewValidationError("limit must be a positive integer"))
		return 0, false
	}
	if n > max {
		n = max
	}
	return n, true
}
