// Package events distributes domain events between loosely coupled
// components, such as the card importer and the deck service.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ramonehamilton/deck-analyzer/internal/logging"
)

// Event represents a domain event that can be dispatched to observers.
type Event struct {
	// Type is the event type (e.g. "cards:imported", "deck:deleted").
	Type string

	// Data is the typed payload. See messages.go.
	Data any

	Context context.Context
}

// Observer is notified of the events it handles.
type Observer interface {
	// OnEvent handles one event. Errors are logged and do not stop dispatch.
	OnEvent(event Event) error

	// Name identifies the observer in logs.
	Name() string

	// ShouldHandle filters the event types the observer receives.
	ShouldHandle(eventType string) bool
}

// Dispatcher fans events out to registered observers. It is safe for
// concurrent use. A nil *Dispatcher drops every event.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *zap.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logging.OrNop(logger).Named("events")}
}

// Register adds an observer for all future events.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	d.logger.Debug("registered observer", zap.String("observer", observer.Name()))
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			d.logger.Debug("unregistered observer", zap.String("observer", observer.Name()))
			return
		}
	}
}

// Dispatch notifies observers sequentially in registration order.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil {
		return
	}
	if event.Context == nil {
		event.Context = context.Background()
	}

	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			d.logger.Warn("observer failed to handle event",
				zap.String("observer", observer.Name()),
				zap.String("event", event.Type),
				zap.Error(err),
			)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

func (d *Dispatcher) snapshot() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Observer, len(d.observers))
	copy(out, d.observers)
	return out
}

// NewTypedEvent creates an event carrying data.
func NewTypedEvent[T any](ctx context.Context, eventType string, data T) Event {
	return Event{Type: eventType, Data: data, Context: ctx}
}

// GetTypedData extracts the payload of an event. It returns false when the
// payload is missing or of another type.
func GetTypedData[T any](event Event) (T, bool) {
	typed, ok := event.Data.(T)
	return typed, ok
}

// LoggingObserver writes every event to a logger.
type LoggingObserver struct {
	logger *zap.Logger
}

// NewLoggingObserver creates an observer that logs events at info level.
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logging.OrNop(logger)}
}

func (o *LoggingObserver) OnEvent(event Event) error {
	o.logger.Info("event", zap.String("type", event.Type), zap.Any("data", event.Data))
	return nil
}

func (o *LoggingObserver) Name() string { return "logging" }

func (o *LoggingObserver) ShouldHandle(string) bool { return true }
