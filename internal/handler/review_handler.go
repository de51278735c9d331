package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-tracker/internal/service"
)

type ReviewHandler struct {
	svc    *service.ReviewService
	logger *zap.Logger
}

func NewReviewHandler(svc *service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

// List handles GET /reviews?productId=&q=
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.svc.List(c.Request.Context(), c.Query("productId"), c.Query("q"))
	if err != nil {
		fail(c, h.logger, "ListReviews", err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var in service.ReviewInput
	if !bindJSON(c, h.logger, "CreateReview", &in) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, h.logger, "CreateReview", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	updated, err := h.svc.MarkHelpful(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, "MarkReviewHelpful", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		fail(c, h.logger, "DeleteReview", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
