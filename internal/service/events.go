package service

import (
	"context"

	"go.uber.org/zap"

	"skincare-tracker/pkg/circuitbreaker"
	"skincare-tracker/pkg/logger"
	"skincare-tracker/pkg/metrics"
	"skincare-tracker/pkg/mq"
	"skincare-tracker/pkg/trace"
)

// Emitter announces things users did. Emitting never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload any)
}

type EventPublisher interface {
	Publish(ctx context.Context, evt mq.Event) error
}

type eventEmitter struct {
	pub     EventPublisher
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewEventEmitter publishes through pub behind breaker.
func NewEventEmitter(pub EventPublisher, breaker *circuitbreaker.CircuitBreaker, log *zap.Logger) Emitter {
	return &eventEmitter{pub: pub, breaker: breaker, logger: log}
}

func (e *eventEmitter) Emit(ctx context.Context, eventType string, payload any) {
	log := logger.WithTrace(ctx, e.logger)

	evt, err := mq.NewEvent(eventType, payload)
	if err != nil {
		log.Error("failed to build event", zap.String("event_type", eventType), zap.Error(err))
		metrics.IncrementEventPublished(eventType, "error")
		return
	}
	evt.TraceID = trace.FromContext(ctx)

	err = e.breaker.Execute(func() error {
		return e.pub.Publish(ctx, evt)
	})
	if err != nil {
		log.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("event_id", evt.ID),
			zap.String("breaker_state", e.breaker.GetState().String()),
			zap.Error(err),
		)
		metrics.IncrementEventPublished(eventType, "error")
		return
	}
	metrics.IncrementEventPublished(eventType, "ok")
}

// NopEmitter drops every event. Used when no broker is configured.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, any) {}
