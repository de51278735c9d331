package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-tracker/internal/service"
)

type DashboardHandler struct {
	svc      *service.DashboardService
	activity *service.ActivityService
	logger   *zap.Logger
}

func NewDashboardHandler(svc *service.DashboardService, activity *service.ActivityService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, activity: activity, logger: logger}
}

// Summary handles GET /dashboard/:userId?skinType=
func (h *DashboardHandler) Summary(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	d, err := h.svc.Summary(c.Request.Context(), uid, c.Param("userId"), c.Query("skinType"))
	if err != nil {
		fail(c, h.logger, "Dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// AddSuggestedRoutine handles POST /dashboard/add-suggested-routine
func (h *DashboardHandler) AddSuggestedRoutine(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var req service.SuggestedRoutineRequest
	if !bindJSON(c, h.logger, "AddSuggestedRoutine", &req) {
		return
	}
	r, err := h.svc.AddSuggestedRoutine(c.Request.Context(), uid, req)
	if err != nil {
		fail(c, h.logger, "AddSuggestedRoutine", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Activity handles GET /activity/:userId
func (h *DashboardHandler) Activity(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	items, err := h.activity.List(c.Request.Context(), uid, c.Param("userId"))
	if err != nil {
		fail(c, h.logger, "ListActivity", err)
		return
	}
	c.JSON(http.StatusOK, items)
}
