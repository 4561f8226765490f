package persistence

import (
	"context"

	"github.com/cpg/backend/internal/domain/settings"
	"github.com/cpg/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormConfigRepository implements settings.Repository on the single-row configs table
type GormConfigRepository struct {
	db *gorm.DB
}

// NewGormConfigRepository creates a new GormConfigRepository
func NewGormConfigRepository(db *gorm.DB) *GormConfigRepository {
	return &GormConfigRepository{db: db}
}

// FindFirst returns the stored configuration or shared.ErrNotFound
func (r *GormConfigRepository) FindFirst(ctx context.Context) (*settings.Config, error) {
	var model models.ConfigModel
	if err := r.db.WithContext(ctx).Order("id").First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Save inserts or updates the configuration. A zero ID is stored as row 1.
func (r *GormConfigRepository) Save(ctx context.Context, cfg *settings.Config) error {
	if cfg.ID == 0 {
		cfg.ID = 1
	}
	return translate(r.db.WithContext(ctx).Save(models.ConfigModelFromDomain(cfg)).Error)
}

var _ settings.Repository = (*GormConfigRepository)(nil)
