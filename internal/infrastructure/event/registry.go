package event

import (
	"slices"
	"sync"

	"github.com/cpg/backend/internal/domain/shared"
)

// anyEvent keys the subscriptions that receive every billing event
const anyEvent = "*"

// HandlerRegistry keeps the subscriptions of the in-process bus, such as
// the admin mailer listening for invoice_created and invoice_paid
type HandlerRegistry struct {
	mu   sync.RWMutex
	subs map[string][]shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{subs: make(map[string][]shared.EventHandler)}
}

// Register subscribes a handler to the listed event types, or to every
// event when none are listed. Registering the same pair twice is a no-op
// so a handler never mails the same invoice twice.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{anyEvent}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range eventTypes {
		if !slices.Contains(r.subs[t], handler) {
			r.subs[t] = append(r.subs[t], handler)
		}
	}
}

// Unregister drops every subscription of the handler
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t, handlers := range r.subs {
		kept := slices.DeleteFunc(slices.Clone(handlers), func(h shared.EventHandler) bool { return h == handler })
		if len(kept) == 0 {
			delete(r.subs, t)
			continue
		}
		r.subs[t] = kept
	}
}

// For returns the handlers of an event type in registration order,
// catch-all subscribers last
func (r *HandlerRegistry) For(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Concat(r.subs[eventType], r.subs[anyEvent])
}
