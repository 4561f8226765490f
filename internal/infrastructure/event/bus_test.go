package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cpg/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", 1)}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_PublishSync(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithSynchronousDispatch())

	handler := newTestHandler("InvoiceCreated")
	other := newTestHandler("OrderCancelled")
	wildcard := newTestHandler()
	bus.Subscribe(handler)
	bus.Subscribe(other)
	bus.Subscribe(wildcard)

	event := newTestEvent("InvoiceCreated")
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.Equal(t, []shared.DomainEvent{event}, handler.getHandled())
	assert.Empty(t, other.getHandled())
	assert.Len(t, wildcard.getHandled(), 1)
}

func TestInMemoryEventBus_PublishAsyncWaitsOnStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("InvoiceCreated")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("InvoiceCreated"), newTestEvent("InvoiceCreated")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.Len(t, handler.getHandled(), 2)

	assert.Error(t, bus.Publish(context.Background(), newTestEvent("InvoiceCreated")))
	require.NoError(t, bus.Start(context.Background()))
	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("InvoiceCreated")))
}

func TestInMemoryEventBus_HandlerFailuresAreContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithSynchronousDispatch())

	failing := newTestHandler("X")
	failing.err = errors.New("smtp down")
	panicking := newTestHandler("X")
	panicking.panicMsg = "boom"
	healthy := newTestHandler("X")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Len(t, healthy.getHandled(), 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithSynchronousDispatch())
	handler := newTestHandler("X")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Empty(t, handler.getHandled())
}
