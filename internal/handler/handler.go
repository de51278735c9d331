// Package handler adapts the services to gin. Handlers read the caller's
// identity set by the auth middleware and map service errors to statuses.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-tracker/internal/apperror"
	"skincare-tracker/pkg/logger"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// callerID reads the authenticated user id, answering 401 when absent.
func callerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	uid, _ := v.(string)
	if !ok || uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return uid, true
}

// bindJSON decodes the request body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, log *zap.Logger, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, log, op, apperror.Validation("invalid request body"))
		return false
	}
	return true
}

// fail writes err as {"error", "details"} with the status of its kind.
func fail(c *gin.Context, log *zap.Logger, op string, err error) {
	status := apperror.HTTPStatus(err)
	l := logger.WithTrace(c.Request.Context(), log)
	if status >= http.StatusInternalServerError {
		l.Error(op+": failed", zap.Int("status", status), zap.Error(err))
	} else {
		l.Warn(op+": rejected", zap.Int("status", status), zap.Error(err))
	}

	body := gin.H{"error": apperror.Message(err)}
	if details := apperror.DetailsOf(err); len(details) > 0 {
		body["details"] = details
	}
	c.JSON(status, body)
}
