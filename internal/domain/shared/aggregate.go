package shared

import "time"

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	GetID() int64
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots.
// ID is a numeric identifier, UID the public one handed to clients.
type BaseAggregateRoot struct {
	ID           int64
	UID          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	domainEvents []DomainEvent
}

// GetID returns the aggregate ID
func (a *BaseAggregateRoot) GetID() int64 {
	return a.ID
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// Touch sets UpdatedAt
func (a *BaseAggregateRoot) Touch(now time.Time) {
	a.UpdatedAt = now
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot(id int64, uid string, now time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{
		ID:        id,
		UID:       uid,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
