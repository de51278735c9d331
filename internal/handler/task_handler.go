package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-tracker/internal/service"
)

type TaskHandler struct {
	svc    *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// Agenda handles GET /tasks/:userId/:date
func (h *TaskHandler) Agenda(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	userID, date := c.Param("userId"), c.Param("date")
	h.logger.Debug("Agenda request received", zap.String("user_id", userID), zap.String("date", date))

	entries, err := h.svc.Agenda(c.Request.Context(), uid, userID, date)
	if err != nil {
		fail(c, h.logger, "Agenda", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// List handles GET /tasks/:userId
func (h *TaskHandler) List(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	tasks, err := h.svc.List(c.Request.Context(), uid, c.Param("userId"))
	if err != nil {
		fail(c, h.logger, "ListTasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Create(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var in service.TaskInput
	if !bindJSON(c, h.logger, "CreateTask", &in) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, h.logger, "CreateTask", err)
		return
	}
	h.logger.Info("CreateTask: success", zap.String("user_id", uid), zap.String("task_id", created.ID))
	c.JSON(http.StatusCreated, created)
}

func (h *TaskHandler) Update(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var patch service.TaskPatch
	if !bindJSON(c, h.logger, "UpdateTask", &patch) {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), uid, c.Param("taskId"), patch)
	if err != nil {
		fail(c, h.logger, "UpdateTask", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uid, c.Param("taskId")); err != nil {
		fail(c, h.logger, "DeleteTask", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// Complete handles POST /tasks/:taskId/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	h.toggle(c, true)
}

// Uncomplete handles POST /tasks/:taskId/uncomplete
func (h *TaskHandler) Uncomplete(c *gin.Context) {
	h.toggle(c, false)
}

func (h *TaskHandler) toggle(c *gin.Context, completed bool) {
	op, msg := "UncompleteTask", "Task uncompleted"
	if completed {
		op, msg = "CompleteTask", "Task completed"
	}

	uid, ok := callerID(c)
	if !ok {
		return
	}
	var req service.CompletionRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, h.logger, op, &req) {
		return
	}

	taskID := c.Param("taskId")
	h.logger.Info(op+" request received",
		zap.String("task_id", taskID),
		zap.String("date", req.Date),
		zap.String("client_ip", c.ClientIP()),
	)

	var (
		entry any
		err   error
	)
	if completed {
		entry, err = h.svc.Complete(c.Request.Context(), uid, taskID, req)
	} else {
		entry, err = h.svc.Uncomplete(c.Request.Context(), uid, taskID, req)
	}
	if err != nil {
		fail(c, h.logger, op, err)
		return
	}

	h.logger.Info(op+": success", zap.String("task_id", taskID))
	c.JSON(http.StatusOK, gin.H{"message": msg, "task": entry})
}
