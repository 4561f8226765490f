// Package settings holds the runtime configuration stored in the database,
// as opposed to the process configuration read at startup.
package settings

import (
	"context"
)

// Cache keys the configuration is published under
const (
	KeySMTP       = "smtp"
	KeySMTPEmails = "smtp_emails"
)

// DefaultSMTPPort is used when no SMTP configuration exists yet
const DefaultSMTPPort = 25

// SMTP holds outgoing mail server settings
type SMTP struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
	Secure   bool   `json:"secure"`
	Port     int    `json:"port"`
}

// Configured reports whether a mail server is set
func (s SMTP) Configured() bool {
	return s.Host != ""
}

// Config is the single stored configuration record
type Config struct {
	ID         int64
	SMTP       SMTP
	SMTPEmails []string
}

// DefaultConfig returns the configuration synthesized when none is stored:
// empty SMTP settings on port 25 and no admin recipients.
func DefaultConfig() Config {
	return Config{
		SMTP:       SMTP{Port: DefaultSMTPPort},
		SMTPEmails: []string{},
	}
}

// Repository persists the configuration
type Repository interface {
	// FindFirst returns shared.ErrNotFound when nothing is stored
	FindFirst(ctx context.Context) (*Config, error)
	Save(ctx context.Context, cfg *Config) error
}
