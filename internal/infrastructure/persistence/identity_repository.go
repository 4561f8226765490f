package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminRepository implements identity.AdminRepository
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// FindAll loads every admin
func (r *GormAdminRepository) FindAll(ctx context.Context) ([]identity.Admin, error) {
	admins, err := findAll(r.db.WithContext(ctx).Order("id"), (*models.AdminModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find admins: %w", err)
	}
	return admins, nil
}

// FindByUsername finds an admin by username
func (r *GormAdminRepository) FindByUsername(ctx context.Context, username string) (*identity.Admin, error) {
	var model models.AdminModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Save inserts or updates an admin
func (r *GormAdminRepository) Save(ctx context.Context, admin *identity.Admin) error {
	return translate(r.db.WithContext(ctx).Save(models.AdminModelFromDomain(admin)).Error)
}

// GormCustomerRepository implements identity.CustomerRepository
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindAll loads every customer
func (r *GormCustomerRepository) FindAll(ctx context.Context) ([]identity.Customer, error) {
	customers, err := findAll(r.db.WithContext(ctx).Order("id"), (*models.CustomerModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}
	return customers, nil
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*identity.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by email, case-insensitively
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*identity.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Save inserts a new customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *identity.Customer) error {
	return translate(r.db.WithContext(ctx).Create(models.CustomerModelFromDomain(customer)).Error)
}

// Update writes every column of an existing customer
func (r *GormCustomerRepository) Update(ctx context.Context, customer *identity.Customer) error {
	return translate(r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(customer)).Error)
}

// GormPasswordResetRepository implements identity.PasswordResetRepository
type GormPasswordResetRepository struct {
	db *gorm.DB
}

// NewGormPasswordResetRepository creates a new GormPasswordResetRepository
func NewGormPasswordResetRepository(db *gorm.DB) *GormPasswordResetRepository {
	return &GormPasswordResetRepository{db: db}
}

// Create stores a reset token
func (r *GormPasswordResetRepository) Create(ctx context.Context, reset *identity.PasswordReset) error {
	return translate(r.db.WithContext(ctx).Create(models.PasswordResetModelFromDomain(reset)).Error)
}

// FindByToken finds a reset by its token
func (r *GormPasswordResetRepository) FindByToken(ctx context.Context, token string) (*identity.PasswordReset, error) {
	var model models.PasswordResetModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Update writes the reset back
func (r *GormPasswordResetRepository) Update(ctx context.Context, reset *identity.PasswordReset) error {
	return translate(r.db.WithContext(ctx).Save(models.PasswordResetModelFromDomain(reset)).Error)
}

var (
	_ identity.AdminRepository         = (*GormAdminRepository)(nil)
	_ identity.CustomerRepository      = (*GormCustomerRepository)(nil)
	_ identity.PasswordResetRepository = (*GormPasswordResetRepository)(nil)
)
