package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-tracker/internal/service"
)

type RoutineHandler struct {
	svc    *service.RoutineService
	logger *zap.Logger
}

func NewRoutineHandler(svc *service.RoutineService, logger *zap.Logger) *RoutineHandler {
	return &RoutineHandler{svc: svc, logger: logger}
}

func (h *RoutineHandler) List(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	routines, err := h.svc.List(c.Request.Context(), uid, c.Param("userId"))
	if err != nil {
		fail(c, h.logger, "ListRoutines", err)
		return
	}
	c.JSON(http.StatusOK, routines)
}

func (h *RoutineHandler) Get(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	r, err := h.svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		fail(c, h.logger, "GetRoutine", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *RoutineHandler) Create(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var in service.RoutineInput
	if !bindJSON(c, h.logger, "CreateRoutine", &in) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, h.logger, "CreateRoutine", err)
		return
	}
	h.logger.Info("CreateRoutine: success",
		zap.String("user_id", uid),
		zap.String("routine_id", created.ID),
		zap.Int("step_count", len(created.Steps)),
	)
	c.JSON(http.StatusCreated, created)
}

// Update handles PATCH /routines/:id. A "steps" array replaces every step.
func (h *RoutineHandler) Update(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var patch service.RoutinePatch
	if !bindJSON(c, h.logger, "UpdateRoutine", &patch) {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), uid, c.Param("id"), patch)
	if err != nil {
		fail(c, h.logger, "UpdateRoutine", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RoutineHandler) Delete(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		fail(c, h.logger, "DeleteRoutine", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Routine deleted"})
}
