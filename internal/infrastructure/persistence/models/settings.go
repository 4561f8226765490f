package models

import (
	"github.com/cpg/backend/internal/domain/settings"
	"gorm.io/datatypes"
)

// ConfigModel is the single-row configs table
type ConfigModel struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	SMTP       datatypes.JSONType[settings.SMTP]
	SMTPEmails datatypes.JSONSlice[string]
}

// TableName returns the table name
func (ConfigModel) TableName() string { return "configs" }

// ToDomain converts to the domain configuration
func (m *ConfigModel) ToDomain() *settings.Config {
	emails := []string(m.SMTPEmails)
	if emails == nil {
		emails = []string{}
	}
	return &settings.Config{
		ID:         m.ID,
		SMTP:       m.SMTP.Data(),
		SMTPEmails: emails,
	}
}

// ConfigModelFromDomain converts a domain configuration
func ConfigModelFromDomain(c *settings.Config) *ConfigModel {
	return &ConfigModel{
		ID:         c.ID,
		SMTP:       datatypes.NewJSONType(c.SMTP),
		SMTPEmails: datatypes.NewJSONSlice(c.SMTPEmails),
	}
}
