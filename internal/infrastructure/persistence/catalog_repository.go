package persistence

import (
	"context"
	"fmt"

	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindAll loads every product
func (r *GormProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	products, err := findAll(r.db.WithContext(ctx).Order("id"), (*models.ProductModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

// FindByIDs loads the products with the given ids. Unknown ids are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	products, err := findAll(r.db.WithContext(ctx).Where("id IN ?", ids).Order("id"), (*models.ProductModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find products by ids: %w", err)
	}
	return products, nil
}

// Save inserts or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translate(r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error)
}

// GormConfigurableOptionRepository implements catalog.ConfigurableOptionRepository
type GormConfigurableOptionRepository struct {
	db *gorm.DB
}

// NewGormConfigurableOptionRepository creates a new GormConfigurableOptionRepository
func NewGormConfigurableOptionRepository(db *gorm.DB) *GormConfigurableOptionRepository {
	return &GormConfigurableOptionRepository{db: db}
}

// FindByIDs loads the options with the given ids
func (r *GormConfigurableOptionRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.ConfigurableOption, error) {
	if len(ids) == 0 {
		return []catalog.ConfigurableOption{}, nil
	}
	options, err := findAll(r.db.WithContext(ctx).Where("id IN ?", ids).Order("id"), (*models.ConfigurableOptionModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find configurable options: %w", err)
	}
	return options, nil
}

// Save inserts or updates an option
func (r *GormConfigurableOptionRepository) Save(ctx context.Context, option *catalog.ConfigurableOption) error {
	return translate(r.db.WithContext(ctx).Save(models.ConfigurableOptionModelFromDomain(option)).Error)
}

// GormCategoryRepository implements catalog.CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindAll loads every category
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	categories, err := findAll(r.db.WithContext(ctx).Order("id"), (*models.CategoryModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	return categories, nil
}

// GormImageRepository implements catalog.ImageRepository
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindAll loads every image
func (r *GormImageRepository) FindAll(ctx context.Context) ([]catalog.Image, error) {
	images, err := findAll(r.db.WithContext(ctx).Order("id"), (*models.ImageModel).ToDomain)
	if err != nil {
		return nil, fmt.Errorf("find images: %w", err)
	}
	return images, nil
}

var (
	_ catalog.ProductRepository            = (*GormProductRepository)(nil)
	_ catalog.ConfigurableOptionRepository = (*GormConfigurableOptionRepository)(nil)
	_ catalog.CategoryRepository           = (*GormCategoryRepository)(nil)
	_ catalog.ImageRepository              = (*GormImageRepository)(nil)
)
