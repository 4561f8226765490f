package models

import (
	"time"

	"github.com/cpg/backend/internal/domain/identity"
	"gorm.io/datatypes"
)

// AdminModel is the admins table
type AdminModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false"`
	UID          string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Username     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name
func (AdminModel) TableName() string { return "admins" }

// ToDomain converts to the domain admin
func (m *AdminModel) ToDomain() *identity.Admin {
	return &identity.Admin{
		ID:           m.ID,
		UID:          m.UID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

// AdminModelFromDomain converts a domain admin
func AdminModelFromDomain(a *identity.Admin) *AdminModel {
	return &AdminModel{
		ID:           a.ID,
		UID:          a.UID,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}
}

// CustomerModel is the customers table. Billing details are one JSON column.
type CustomerModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	UID           string `gorm:"type:varchar(64);not null;uniqueIndex"`
	FirstName     string `gorm:"type:varchar(100)"`
	LastName      string `gorm:"type:varchar(100)"`
	Email         string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone         string `gorm:"type:varchar(50)"`
	Billing       datatypes.JSONType[identity.BillingDetails]
	PasswordHash  string    `gorm:"type:varchar(255)"`
	Currency      string    `gorm:"type:varchar(3)"`
	LoginAttempts int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name
func (CustomerModel) TableName() string { return "customers" }

// ToDomain converts to the domain customer
func (m *CustomerModel) ToDomain() *identity.Customer {
	return &identity.Customer{
		ID:  m.ID,
		UID: m.UID,
		Personal: identity.Personal{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
			Phone:     m.Phone,
		},
		Billing:       m.Billing.Data(),
		PasswordHash:  m.PasswordHash,
		Currency:      m.Currency,
		LoginAttempts: m.LoginAttempts,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// CustomerModelFromDomain converts a domain customer
func CustomerModelFromDomain(c *identity.Customer) *CustomerModel {
	return &CustomerModel{
		ID:            c.ID,
		UID:           c.UID,
		FirstName:     c.Personal.FirstName,
		LastName:      c.Personal.LastName,
		Email:         c.Personal.Email,
		Phone:         c.Personal.Phone,
		Billing:       datatypes.NewJSONType(c.Billing),
		PasswordHash:  c.PasswordHash,
		Currency:      c.Currency,
		LoginAttempts: c.LoginAttempts,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// PasswordResetModel is the password_resets table
type PasswordResetModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Email     string    `gorm:"type:varchar(255);not null;index"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// TableName returns the table name
func (PasswordResetModel) TableName() string { return "password_resets" }

// ToDomain converts to the domain reset
func (m *PasswordResetModel) ToDomain() *identity.PasswordReset {
	return &identity.PasswordReset{
		ID:        m.ID,
		Email:     m.Email,
		Token:     m.Token,
		Used:      m.Used,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// PasswordResetModelFromDomain converts a domain reset
func PasswordResetModelFromDomain(r *identity.PasswordReset) *PasswordResetModel {
	return &PasswordResetModel{
		ID:        r.ID,
		Email:     r.Email,
		Token:     r.Token,
		Used:      r.Used,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}
