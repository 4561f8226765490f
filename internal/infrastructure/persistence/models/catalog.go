package models

import (
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductModel is the products table
type ProductModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement:false"`
	UID             string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	CategoryID      *int64          `gorm:"index"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SetupFee        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentType     string          `gorm:"type:varchar(20);not null"`
	RecurringMethod string          `gorm:"type:varchar(20)"`
	Hidden          bool            `gorm:"not null;default:false"`
	Stock           int             `gorm:"not null;default:0"`
	SpecialPricing  bool            `gorm:"not null;default:false"`
}

// TableName returns the table name
func (ProductModel) TableName() string { return "products" }

// ToDomain converts to the domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:              m.ID,
		UID:             m.UID,
		Name:            m.Name,
		Description:     m.Description,
		CategoryID:      m.CategoryID,
		Price:           m.Price,
		SetupFee:        m.SetupFee,
		PaymentType:     catalog.PaymentType(m.PaymentType),
		RecurringMethod: catalog.RecurringMethod(m.RecurringMethod),
		Hidden:          m.Hidden,
		Stock:           m.Stock,
		SpecialPricing:  m.SpecialPricing,
	}
}

// ProductModelFromDomain converts a domain product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:              p.ID,
		UID:             p.UID,
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		Price:           p.Price,
		SetupFee:        p.SetupFee,
		PaymentType:     string(p.PaymentType),
		RecurringMethod: string(p.RecurringMethod),
		Hidden:          p.Hidden,
		Stock:           p.Stock,
		SpecialPricing:  p.SpecialPricing,
	}
}

// ConfigurableOptionModel is the configurable_options table
type ConfigurableOptionModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement:false"`
	UID        string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name       string `gorm:"type:varchar(200);not null"`
	ProductIDs datatypes.JSONSlice[int64]
	Options    datatypes.JSONSlice[catalog.OptionChoice]
}

// TableName returns the table name
func (ConfigurableOptionModel) TableName() string { return "configurable_options" }

// ToDomain converts to the domain option
func (m *ConfigurableOptionModel) ToDomain() *catalog.ConfigurableOption {
	return &catalog.ConfigurableOption{
		ID:         m.ID,
		UID:        m.UID,
		Name:       m.Name,
		ProductIDs: []int64(m.ProductIDs),
		Options:    []catalog.OptionChoice(m.Options),
	}
}

// ConfigurableOptionModelFromDomain converts a domain option
func ConfigurableOptionModelFromDomain(o *catalog.ConfigurableOption) *ConfigurableOptionModel {
	return &ConfigurableOptionModel{
		ID:         o.ID,
		UID:        o.UID,
		Name:       o.Name,
		ProductIDs: datatypes.NewJSONSlice(o.ProductIDs),
		Options:    datatypes.NewJSONSlice(o.Options),
	}
}

// CategoryModel is the categories table
type CategoryModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	UID         string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Private     bool   `gorm:"not null;default:false"`
}

// TableName returns the table name
func (CategoryModel) TableName() string { return "categories" }

// ToDomain converts to the domain category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		ID:          m.ID,
		UID:         m.UID,
		Name:        m.Name,
		Description: m.Description,
		Private:     m.Private,
	}
}

// ImageModel is the images table
type ImageModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false"`
	Name     string `gorm:"type:varchar(255);not null"`
	Type     string `gorm:"type:varchar(100)"`
	Size     int64
	Data     []byte
	Checksum string `gorm:"type:varchar(64)"`
}

// TableName returns the table name
func (ImageModel) TableName() string { return "images" }

// ToDomain converts to the domain image
func (m *ImageModel) ToDomain() *catalog.Image {
	return &catalog.Image{
		ID:       m.ID,
		Name:     m.Name,
		Type:     m.Type,
		Size:     m.Size,
		Data:     m.Data,
		Checksum: m.Checksum,
	}
}
