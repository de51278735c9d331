package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

type TypedHandlerFunc func(ctx context.Context, evt Event) error

// Router dispatches decoded envelopes to the handler registered for their type.
type Router struct {
	routes map[string]TypedHandlerFunc
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		routes: make(map[string]TypedHandlerFunc),
		logger: logger,
	}
}

func (r *Router) Register(eventType string, h TypedHandlerFunc) {
	r.routes[eventType] = h
}

// Handle satisfies MessageHandler so a Router can be plugged into a Consumer.
func (r *Router) Handle(ctx context.Context, raw json.RawMessage) (err error) {
	var evt Event
	if err := json.Unmarshal(raw, &evt); err != nil {
		return fmt.Errorf("decode event envelope: %w", err)
	}

	h, ok := r.routes[evt.Type]
	if !ok {
		r.logger.Warn("No handler for event", zap.String("event_type", evt.Type))
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Event handler panic recovered",
				zap.String("event_type", evt.Type),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()

	return h(ctx, evt)
}
