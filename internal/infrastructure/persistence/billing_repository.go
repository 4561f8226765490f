package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements billing.OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindAll loads every order
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]billing.Order, error) {
	orders, err := findAll(r.db.WithContext(ctx).Order("id"), (*models.OrderModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return orders, nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*billing.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByCustomer loads the orders of one customer, newest first
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID int64) ([]billing.Order, error) {
	orders, err := findAll(
		r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("created_at DESC, id DESC"),
		(*models.OrderModel).ToDomain,
	)
	if err != nil {
		return nil, fmt.Errorf("find customer orders: %w", err)
	}
	return orders, nil
}

// FindCustomerOrder finds an order owned by the customer
func (r *GormOrderRepository) FindCustomerOrder(ctx context.Context, customerID, orderID int64) (*billing.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindDueForRenewal loads active recurring orders whose next recycle date is not after now
func (r *GormOrderRepository) FindDueForRenewal(ctx context.Context, now time.Time) ([]billing.Order, error) {
	orders, err := findAll(
		r.db.WithContext(ctx).
			Where("status = ? AND billing_type = ? AND next_recycle IS NOT NULL AND next_recycle <= ?",
				billing.OrderStatusActive, catalog.PaymentTypeRecurring, now).
			Order("next_recycle, id"),
		(*models.OrderModel).ToDomain,
	)
	if err != nil {
		return nil, fmt.Errorf("find orders due for renewal: %w", err)
	}
	return orders, nil
}

// Create inserts a new order
func (r *GormOrderRepository) Create(ctx context.Context, order *billing.Order) error {
	return translate(r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error)
}

// Update writes every column of an existing order
func (r *GormOrderRepository) Update(ctx context.Context, order *billing.Order) error {
	return translate(r.db.WithContext(ctx).Save(models.OrderModelFromDomain(order)).Error)
}

// GormInvoiceRepository implements billing.InvoiceRepository
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindAll loads every invoice
func (r *GormInvoiceRepository) FindAll(ctx context.Context) ([]billing.Invoice, error) {
	invoices, err := findAll(r.db.WithContext(ctx).Order("id"), (*models.InvoiceModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find invoices: %w", err)
	}
	return invoices, nil
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id int64) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByUID finds an invoice by its public uid
func (r *GormInvoiceRepository) FindByUID(ctx context.Context, uid string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByOrderAndPeriod finds the invoice billing one period of an order
func (r *GormInvoiceRepository) FindByOrderAndPeriod(ctx context.Context, orderID int64, periodStart time.Time) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND period_start = ?", orderID, periodStart).
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Create inserts an invoice. A second invoice for the same order and
// period fails with shared.ErrAlreadyExists.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	return translate(r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error)
}

// Update writes every column of an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	return translate(r.db.WithContext(ctx).Save(models.InvoiceModelFromDomain(invoice)).Error)
}

// GormTransactionRepository implements billing.TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindAll loads every transaction
func (r *GormTransactionRepository) FindAll(ctx context.Context) ([]billing.Transaction, error) {
	txs, err := findAll(r.db.WithContext(ctx).Order("id"), (*models.TransactionModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	return txs, nil
}

// Create inserts a transaction
func (r *GormTransactionRepository) Create(ctx context.Context, tx *billing.Transaction) error {
	return translate(r.db.WithContext(ctx).Create(models.TransactionModelFromDomain(tx)).Error)
}

var (
	_ billing.OrderRepository       = (*GormOrderRepository)(nil)
	_ billing.InvoiceRepository     = (*GormInvoiceRepository)(nil)
	_ billing.TransactionRepository = (*GormTransactionRepository)(nil)
)
