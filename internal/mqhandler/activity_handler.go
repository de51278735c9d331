// Package mqhandler holds the worker's event handlers.
package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	mqcontracts "skincare-tracker/contracts/mq"
	"skincare-tracker/internal/model"
	"skincare-tracker/pkg/metrics"
	"skincare-tracker/pkg/mq"
	"skincare-tracker/pkg/util"
)

const handlerName = "activity"

var errInvalidPayload = errors.New("invalid payload")

type ActivityRecorder interface {
	Record(ctx context.Context, a *model.Activity) error
}

type Deduper interface {
	AcquireOnce(ctx context.Context, handler string, eventID string) bool
	Release(ctx context.Context, handler string, eventID string)
}

type RetryCounter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type DeadLetterPublisher interface {
	PublishToDLQ(routingKey string, payload []byte, originalError string) error
}

// ActivityHandler turns activity events into journal entries. Failures are
// retried through the broker until maxRetries, then dead-lettered.
type ActivityHandler struct {
	recorder   ActivityRecorder
	deduper    Deduper
	retries    RetryCounter
	dlq        DeadLetterPublisher
	maxRetries int64
	router     *mq.Router
	logger     *zap.Logger
}

func NewActivityHandler(
	recorder ActivityRecorder,
	deduper Deduper,
	retries RetryCounter,
	dlq DeadLetterPublisher,
	maxRetries int64,
	logger *zap.Logger,
) *ActivityHandler {
	h := &ActivityHandler{
		recorder:   recorder,
		deduper:    deduper,
		retries:    retries,
		dlq:        dlq,
		maxRetries: maxRetries,
		router:     mq.NewRouter(logger),
		logger:     logger,
	}
	h.router.Register(mqcontracts.EventProductAdded, h.onProductAdded)
	h.router.Register(mqcontracts.EventRoutineCompleted, h.onRoutineCompleted)
	h.router.Register(mqcontracts.EventTaskCompleted, h.onTaskCompleted)
	h.router.Register(mqcontracts.EventReviewPosted, h.onReviewPosted)
	return h
}

// Handle is the consumer entry point. A nil return acks the message; an
// error nacks it for redelivery.
func (h *ActivityHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	err := h.router.Handle(ctx, raw)
	if err == nil {
		return nil
	}

	var evt mq.Event
	_ = json.Unmarshal(raw, &evt)
	routingKey := "activity.unknown"
	if evt.Type != "" {
		routingKey = evt.RoutingKey()
	}

	retryable, errType := util.IsRetryableError(err)
	if errors.Is(err, errInvalidPayload) {
		retryable, errType = false, "invalid_payload"
	}
	log := h.logger.With(
		zap.String("event_id", evt.ID),
		zap.String("event_type", evt.Type),
		zap.String("error_type", errType),
		zap.Bool("retryable", retryable),
		zap.Error(err),
	)

	if !retryable {
		log.Error("Non-retryable event failure, sending to DLQ")
		return h.deadLetter(raw, routingKey, evt.Type, err)
	}

	retryKey := util.FormatRetryKey(handlerName, evt.ID)
	count, rerr := h.retries.IncrementAndGet(ctx, retryKey)
	if rerr != nil {
		log.Warn("Failed to get retry count, continuing anyway", zap.NamedError("redis_error", rerr))
		count = 1
	}
	if !util.ShouldRetry(count, h.maxRetries, retryable) {
		log.Warn("Max retries exceeded, sending to DLQ", zap.Int64("retry_count", count))
		_ = h.retries.Reset(ctx, retryKey)
		return h.deadLetter(raw, routingKey, evt.Type, err)
	}

	log.Warn("Event failed, will retry", zap.Int64("retry_count", count), zap.Int64("max_retries", h.maxRetries))
	metrics.IncrementEventConsumed(evt.Type, "retry")
	return err
}

func (h *ActivityHandler) deadLetter(raw []byte, routingKey, eventType string, cause error) error {
	metrics.IncrementEventConsumed(eventType, "dead_lettered")
	if err := h.dlq.PublishToDLQ(routingKey, raw, cause.Error()); err != nil {
		// keep the message on the queue rather than lose it
		h.logger.Error("Failed to publish to DLQ", zap.String("routing_key", routingKey), zap.Error(err))
		return fmt.Errorf("dead-letter %s: %w", routingKey, err)
	}
	return nil
}

// record stores a once per event id.
func (h *ActivityHandler) record(ctx context.Context, evt mq.Event, a *model.Activity) error {
	if a.UserID == "" || a.SubjectID == "" {
		return fmt.Errorf("%w: %s event %s lacks user or subject", errInvalidPayload, evt.Type, evt.ID)
	}
	if !h.deduper.AcquireOnce(ctx, handlerName, evt.ID) {
		metrics.IncrementEventConsumed(evt.Type, "duplicate")
		return nil
	}

	a.EventID = evt.ID
	if a.Timestamp.IsZero() {
		a.Timestamp = evt.OccurredAt
	}
	a.Timestamp = a.Timestamp.UTC()
	a.CreatedAt = a.Timestamp

	if err := h.recorder.Record(ctx, a); err != nil {
		h.deduper.Release(ctx, handlerName, evt.ID)
		return err
	}

	h.logger.Info("Activity recorded",
		zap.String("event_id", evt.ID),
		zap.String("user_id", a.UserID),
		zap.String("type", string(a.Type)),
	)
	metrics.IncrementEventConsumed(evt.Type, "ok")
	return nil
}

func decode[T any](evt mq.Event) (T, error) {
	var p T
	if err := json.Unmarshal(evt.Data, &p); err != nil {
		return p, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return p, nil
}

func (h *ActivityHandler) onProductAdded(ctx context.Context, evt mq.Event) error {
	p, err := decode[mqcontracts.ProductAddedPayload](evt)
	if err != nil {
		return err
	}
	return h.record(ctx, evt, &model.Activity{
		Document:    model.Document{UserID: p.UserID},
		Type:        model.ActivityProductAdded,
		SubjectID:   p.ProductID,
		SubjectName: p.Name,
		Timestamp:   p.AddedAt,
	})
}

func (h *ActivityHandler) onRoutineCompleted(ctx context.Context, evt mq.Event) error {
	p, err := decode[mqcontracts.RoutineCompletedPayload](evt)
	if err != nil {
		return err
	}
	return h.record(ctx, evt, &model.Activity{
		Document:    model.Document{UserID: p.UserID},
		Type:        model.ActivityRoutineCompleted,
		SubjectID:   p.RoutineID,
		SubjectName: p.Name,
		Timestamp:   p.CompletedAt,
	})
}

func (h *ActivityHandler) onTaskCompleted(ctx context.Context, evt mq.Event) error {
	p, err := decode[mqcontracts.TaskCompletedPayload](evt)
	if err != nil {
		return err
	}
	return h.record(ctx, evt, &model.Activity{
		Document:    model.Document{UserID: p.UserID},
		Type:        model.ActivityTaskCompleted,
		SubjectID:   p.TaskID,
		SubjectName: p.Title,
		Timestamp:   p.CompletedAt,
	})
}

func (h *ActivityHandler) onReviewPosted(ctx context.Context, evt mq.Event) error {
	p, err := decode[mqcontracts.ReviewPostedPayload](evt)
	if err != nil {
		return err
	}
	name := p.Title
	if name == "" {
		name = fmt.Sprintf("%d-star review", p.Rating)
	}
	return h.record(ctx, evt, &model.Activity{
		Document:    model.Document{UserID: p.UserID},
		Type:        model.ActivityReviewPosted,
		SubjectID:   p.ProductID,
		SubjectName: name,
		Timestamp:   p.PostedAt,
	})
}

