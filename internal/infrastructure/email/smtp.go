// Package email delivers notification mail through the SMTP server stored
// in the runtime configuration.
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/cpg/backend/internal/application/notification"
	"github.com/cpg/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no mail server is set
var ErrNotConfigured = errors.New("smtp is not configured")

// SettingsSource provides the current SMTP settings
type SettingsSource interface {
	SMTP() (settings.SMTP, bool)
}

// SMTPSender sends mail through the configured server. Settings are read
// on every send so a config rehydration takes effect immediately.
type SMTPSender struct {
	source  SettingsSource
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures an SMTPSender
type Option func(*SMTPSender)

// WithTimeout sets the dial and conversation timeout
func WithTimeout(d time.Duration) Option {
	return func(s *SMTPSender) {
		s.timeout = d
	}
}

// NewSMTPSender creates a sender
func NewSMTPSender(source SettingsSource, logger *zap.Logger, opts ...Option) *SMTPSender {
	s := &SMTPSender{
		source:  source,
		timeout: 15 * time.Second,
		logger:  logger.Named("smtp"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send implements notification.Sender
func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) error {
	cfg, ok := s.source.SMTP()
	if !ok || !cfg.Configured() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := s.dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = client.conn.SetDeadline(deadline)
	}

	if err := s.deliver(client.Client, cfg, msg); err != nil {
		return err
	}

	s.logger.Debug("mail delivered",
		zap.String("host", cfg.Host),
		zap.Int("recipients", len(msg.To)),
	)
	return nil
}

type smtpClient struct {
	*smtp.Client
	conn net.Conn
}

// dial connects to the server. Secure means implicit TLS; otherwise the
// session is upgraded with STARTTLS when the server offers it.
func (s *SMTPSender) dial(ctx context.Context, cfg settings.SMTP) (*smtpClient, error) {
	port := cfg.Port
	if port == 0 {
		port = settings.DefaultSMTPPort
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	tlsConfig := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if cfg.Secure {
		d := &tls.Dialer{NetDialer: &net.Dialer{}, Config: tlsConfig}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		d := &net.Dialer{}
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to start smtp session: %w", err)
	}

	if !cfg.Secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				c.Close()
				return nil, fmt.Errorf("starttls failed: %w", err)
			}
		}
	}
	return &smtpClient{Client: c, conn: conn}, nil
}

func (s *SMTPSender) deliver(c *smtp.Client, cfg settings.SMTP, msg notification.Message) error {
	if cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
				return fmt.Errorf("smtp auth failed: %w", err)
			}
		}
	}

	from := cfg.Username
	if from == "" {
		from = "noreply@" + cfg.Host
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO %s rejected: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(buildMessage(from, msg, s.now())); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected: %w", err)
	}
	return c.Quit()
}

// buildMessage renders headers and body with CRLF line endings
func buildMessage(from string, msg notification.Message, now time.Time) []byte {
	contentType := "text/plain; charset=UTF-8"
	if msg.HTML {
		contentType = "text/html; charset=UTF-8"
	}

	var buf bytes.Buffer
	writeHeader(&buf, "From", from)
	writeHeader(&buf, "To", strings.Join(msg.To, ", "))
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("UTF-8", msg.Subject))
	writeHeader(&buf, "Date", now.Format(time.RFC1123Z))
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", contentType)
	buf.WriteString("\r\n")

	body := strings.ReplaceAll(msg.Body, "\r\n", "\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	buf.WriteString("\r\n")
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

var _ notification.Sender = (*SMTPSender)(nil)
