package shared

import "context"

// EventHandler reacts to domain events, for example mailing admins when an
// invoice is created
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the events the handler wants when it subscribes
	// without naming any; empty means every event
	EventTypes() []string
}

// EventPublisher is what aggregates' services publish through after a
// successful write
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler subscriptions
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the in-process bus started with the server and drained on
// shutdown
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
