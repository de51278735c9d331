package util

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsRetryableError determines if an error is retryable
// Returns: (isRetryable, errorType)
func IsRetryableError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	// JSON decode errors - 不可重试（数据格式错误）
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false, "json_decode_error"
	}
	if strings.Contains(err.Error(), "json:") {
		return false, "json_decode_error"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 23: integrity constraint violation - 不可重试（幂等性）
		if strings.HasPrefix(pgErr.Code, "23") {
			return false, "constraint_violation"
		}
		return true, "db_error"
	}

	// context.DeadlineExceeded also satisfies net.Error
	if errors.Is(err, context.DeadlineExceeded) {
		return true, "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return false, "context_canceled"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true, "network_timeout"
		}
		return true, "network_error"
	}

	// 默认：未知错误，保守处理 - 重试
	return true, "unknown_error"
}

// ShouldRetry checks if an error should be retried based on retry count
func ShouldRetry(retryCount int64, maxRetries int64, isRetryable bool) bool {
	if !isRetryable {
		return false
	}
	return retryCount <= maxRetries
}
