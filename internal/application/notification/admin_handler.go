package notification

import (
	"context"
	"fmt"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdminMailHandler mails every configured admin address when an invoice
// is created or an order is cancelled
type AdminMailHandler struct {
	notifier   *Notifier
	recipients Recipients
	logger     *zap.Logger
}

// NewAdminMailHandler creates the handler
func NewAdminMailHandler(notifier *Notifier, recipients Recipients, logger *zap.Logger) *AdminMailHandler {
	return &AdminMailHandler{notifier: notifier, recipients: recipients, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *AdminMailHandler) EventTypes() []string {
	return []string{billing.EventTypeInvoiceCreated, billing.EventTypeOrderCancelled}
}

// Handle builds and sends the admin mail for event
func (h *AdminMailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	to := h.recipients.SMTPEmails()
	if len(to) == 0 {
		return nil
	}

	var msg Message
	switch e := event.(type) {
	case *billing.InvoiceCreatedEvent:
		msg = InvoiceCreated(to, e.InvoiceUID)
	case *billing.OrderCancelledEvent:
		msg = OrderCancelledAdmin(to, e.OrderUID, e.CustomerID)
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	h.notifier.Notify(ctx, msg)
	return nil
}

var _ shared.EventHandler = (*AdminMailHandler)(nil)
