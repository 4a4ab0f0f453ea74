package consumer

import (
	"context"
	"errors"
)

// Router dispatches messages by event type. Handlers registered with All see every
// message.
type Router struct {
	all    []Handler
	byType map[string][]Handler
}

// NewRouter constructs an empty Router.
func NewRouter() *Router {
	return &Router{byType: make(map[string][]Handler)}
}

// On registers h for eventType.
func (r *Router) On(eventType string, h Handler) *Router {
	r.byType[eventType] = append(r.byType[eventType], h)
	return r
}

// All registers h for every event type.
func (r *Router) All(h Handler) *Router {
	r.all = append(r.all, h)
	return r
}

// Handle runs every matching handler and joins their errors. Messages with no matching
// handler are accepted.
func (r *Router) Handle(ctx context.Context, msg Message) error {
	var errs []error
	for _, h := range r.all {
		if err := h.Handle(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	for _, h := range r.byType[msg.EventType] {
		if err := h.Handle(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
