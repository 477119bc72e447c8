package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Event is a composer script event name
type Event string

const (
	PostInstallCmd Event = "post-install-cmd"
	PostUpdateCmd  Event = "post-update-cmd"
)

// HandlerName is the single handler both lifecycle events are routed to
const HandlerName = "onPostInstallUpdate"

// ErrUnknownEvent is returned when dispatching an event nothing subscribed to
var ErrUnknownEvent = errors.New("unknown event")

// Handler reacts to a lifecycle event
type Handler func(ctx context.Context, event Event) error

// SubscribedEvents maps every lifecycle event the installer listens to onto its handler name
func SubscribedEvents() map[Event]string {
	return map[Event]string{
		PostInstallCmd: HandlerName,
		PostUpdateCmd:  HandlerName,
	}
}

// Registry routes lifecycle events to handlers
type Registry struct {
	handlers map[Event]Handler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[Event]Handler),
	}
}

// New returns a registry with handler subscribed to every event in SubscribedEvents
func New(handler Handler) *Registry {
	r := NewRegistry()
	for event := range SubscribedEvents() {
		r.Register(event, handler)
	}
	return r
}

// Register adds a handler for event, replacing any previous one
func (r *Registry) Register(event Event, handler Handler) {
	r.handlers[event] = handler
}

// Get retrieves the handler for an event
func (r *Registry) Get(event Event) (Handler, bool) {
	handler, exists := r.handlers[event]
	return handler, exists
}

// List returns the subscribed events in name order
func (r *Registry) List() []Event {
	events := make([]Event, 0, len(r.handlers))
	for event := range r.handlers {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i] < events[j] })
	return events
}

// Dispatch runs the handler subscribed to event
func (r *Registry) Dispatch(ctx context.Context, event Event) error {
	handler, ok := r.Get(Event(strings.ToLower(strings.TrimSpace(string(event)))))
	if !ok {
		if suggestion := r.Suggest(string(event)); suggestion != "" {
			return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownEvent, event, suggestion)
		}
		return fmt.Errorf("%w %q", ErrUnknownEvent, event)
	}
	return handler(ctx, event)
}

// Suggest returns the subscribed event closest to name, or "" when none is close
func (r *Registry) Suggest(name string) Event {
	name = strings.ToLower(name)
	var best Event
	bestDistance := -1
	for _, event := range r.List() {
		d := levenshtein.ComputeDistance(name, string(event))
		if bestDistance == -1 || d < bestDistance {
			best, bestDistance = event, d
		}
	}
	if bestDistance < 0 || bestDistance > len(best)/3 {
		return ""
	}
	return best
}
