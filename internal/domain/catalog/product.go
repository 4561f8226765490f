package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Recurring products carry a RecurringMethod,
// one-time products leave it empty.
type Product struct {
	ID              int64
	UID             string
	Name            string
	Description     string
	CategoryID      *int64
	Price           decimal.Decimal
	SetupFee        decimal.Decimal
	PaymentType     PaymentType
	RecurringMethod RecurringMethod
	Hidden          bool
	Stock           int
	SpecialPricing  bool
}

// IsRecurring reports whether the product renews on a cadence
func (p *Product) IsRecurring() bool {
	return p.PaymentType == PaymentTypeRecurring
}

// ConfigurableOption is a per-product customization. Options holds the
// selectable variants; a cart line refers to one of them by index or name.
type ConfigurableOption struct {
	ID         int64
	UID        string
	Name       string
	ProductIDs []int64
	Options    []OptionChoice
}

// OptionChoice is one selectable variant of a configurable option
type OptionChoice struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// AppliesTo reports whether the option is attached to the given product
func (c *ConfigurableOption) AppliesTo(productID int64) bool {
	for _, id := range c.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// IndexOf returns the index of the variant with the given name
func (c *ConfigurableOption) IndexOf(name string) (int, bool) {
	for i, o := range c.Options {
		if o.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Choice returns the variant at index, if present
func (c *ConfigurableOption) Choice(index int) (OptionChoice, bool) {
	if index < 0 || index >= len(c.Options) {
		return OptionChoice{}, false
	}
	return c.Options[index], true
}

// Category groups products for display
type Category struct {
	ID          int64
	UID         string
	Name        string
	Description string
	Private     bool
}

// Image is an uploaded picture referenced by products and categories
type Image struct {
	ID       int64
	Name     string
	Type     string
	Size     int64
	Data     []byte
	Checksum string
}

// ProductRepository reads products from persistent storage
type ProductRepository interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Save(ctx context.Context, product *Product) error
}

// ConfigurableOptionRepository reads configurable options
type ConfigurableOptionRepository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]ConfigurableOption, error)
	Save(ctx context.Context, option *ConfigurableOption) error
}

// CategoryRepository reads categories
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]Category, error)
}

// ImageRepository reads images
type ImageRepository interface {
	FindAll(ctx context.Context) ([]Image, error)
}
