package identity

import (
	"context"
	"strings"
	"time"

	"github.com/cpg/backend/internal/domain/shared"
)

// Personal holds the customer's personal details
type Personal struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// BillingDetails holds the customer's billing address
type BillingDetails struct {
	Company    string `json:"company,omitempty"`
	Street1    string `json:"street01,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostCode   string `json:"postcode,omitempty"`
	Country    string `json:"country,omitempty"`
	CompanyVAT string `json:"company_vat,omitempty"`
}

// Customer is a buyer with an account
type Customer struct {
	ID            int64
	UID           string
	Personal      Personal
	Billing       BillingDetails
	PasswordHash  string
	Currency      string
	LoginAttempts int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewCustomer creates a customer with an already hashed password
func NewCustomer(id int64, uid string, personal Personal, billing BillingDetails, passwordHash string) (*Customer, error) {
	personal.Email = strings.ToLower(strings.TrimSpace(personal.Email))
	if personal.Email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	now := time.Now()
	return &Customer{
		ID:           id,
		UID:          uid,
		Personal:     personal,
		Billing:      billing,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// FullName returns "first last", followed by "(company)" when the customer
// bills through a company.
func (c *Customer) FullName() string {
	name := strings.TrimSpace(c.Personal.FirstName + " " + c.Personal.LastName)
	if c.Billing.Company != "" {
		return name + " (" + c.Billing.Company + ")"
	}
	return name
}

// Email returns the contact address
func (c *Customer) Email() string {
	return c.Personal.Email
}

// SetPasswordHash replaces the password hash
func (c *Customer) SetPasswordHash(hash string) {
	c.PasswordHash = hash
	c.UpdatedAt = time.Now()
}

// RecordFailedLogin counts a failed login. It returns true when the count
// reached limit, in which case the counter starts over.
func (c *Customer) RecordFailedLogin(limit int) bool {
	c.LoginAttempts++
	c.UpdatedAt = time.Now()
	if limit > 0 && c.LoginAttempts >= limit {
		c.LoginAttempts = 0
		return true
	}
	return false
}

// ResetLoginAttempts clears the failed login counter
func (c *Customer) ResetLoginAttempts() {
	c.LoginAttempts = 0
}

// CustomerRepository persists customers
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]Customer, error)
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
}
