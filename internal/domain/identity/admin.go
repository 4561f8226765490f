package identity

import (
	"context"
	"strings"
	"time"

	"github.com/cpg/backend/internal/domain/shared"
)

// Admin is a back office operator. Admins authenticate with basic
// credentials checked against the cached password hash.
type Admin struct {
	ID           int64
	UID          string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewAdmin creates an admin with an already hashed password
func NewAdmin(id int64, uid, username, email, passwordHash string) (*Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	return &Admin{
		ID:           id,
		UID:          uid,
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

// AdminRepository reads admins
type AdminRepository interface {
	FindAll(ctx context.Context) ([]Admin, error)
	FindByUsername(ctx context.Context, username string) (*Admin, error)
	Save(ctx context.Context, admin *Admin) error
}
