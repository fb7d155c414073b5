package shared

import "context"

// EventHandler consumes domain events delivered by the bus.
type EventHandler interface {
	// Handle processes a single domain event.
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. An empty slice
	// subscribes the handler to every event.
	EventTypes() []string
}

// EventPublisher is the write side of the bus: services publish the events
// collected on an aggregate after the owning transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the registration side of the bus.
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types; with none
	// given, the handler's own EventTypes() decides.
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a previously registered handler.
	Unsubscribe(handler EventHandler)
}

// EventBus is both sides together.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
