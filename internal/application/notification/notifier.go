// Package notification sends transactional email. Delivery is best effort:
// failures are logged and never fail the operation that triggered them.
package notification

import (
	"context"

	"go.uber.org/zap"
)

// Message is one email
type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Sender delivers a message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Recipients lists the admin addresses that receive back office mail
type Recipients interface {
	SMTPEmails() []string
}

// Notifier wraps a Sender with logging
type Notifier struct {
	sender  Sender
	logger  *zap.Logger
	company string
}

// NewNotifier creates a notifier. company names the shop in subjects; it
// defaults to "CPG".
func NewNotifier(sender Sender, company string, logger *zap.Logger) *Notifier {
	if company == "" {
		company = "CPG"
	}
	return &Notifier{sender: sender, company: company, logger: logger.Named("notification")}
}

// Company returns the shop name used in subjects
func (n *Notifier) Company() string {
	return n.company
}

// Notify sends msg and reports whether it was delivered
func (n *Notifier) Notify(ctx context.Context, msg Message) bool {
	if len(msg.To) == 0 {
		n.logger.Debug("no recipients, mail skipped", zap.String("subject", msg.Subject))
		return false
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Warn("mail not sent",
			zap.String("subject", msg.Subject),
			zap.Int("recipients", len(msg.To)),
			zap.Error(err),
		)
		return false
	}
	n.logger.Info("mail sent", zap.String("subject", msg.Subject), zap.Int("recipients", len(msg.To)))
	return true
}
