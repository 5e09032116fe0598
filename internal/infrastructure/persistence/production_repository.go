package persistence

import (
	"context"
	"fmt"

	"github.com/bakery/backend/internal/domain/production"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductionRepository implements ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// FindByIDForTenant loads a batch with its ingredient usage
func (r *GormProductionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Production, error) {
	var model models.ProductionModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Preload("Items", byLineNo).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err, "production")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists batches, filtered by status, product and scheduled date
func (r *GormProductionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter production.Filter) ([]production.Production, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductionModel{}).
		Scopes(tenantScope(tenantID), searchScope(filter.Search, "batch_number", "notes"))

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.From != nil {
		query = query.Where("scheduled_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("scheduled_date < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count productions: %w", err)
	}

	var rows []models.ProductionModel
	err := query.Preload("Items", byLineNo).
		Scopes(orderScope(filter.Filter, ProductionSortFields, "scheduled_date"), paginateScope(filter.Filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list productions: %w", err)
	}

	batches := make([]production.Production, len(rows))
	for i := range rows {
		batches[i] = *rows[i].ToDomain()
	}
	return batches, total, nil
}

// Create inserts a batch and its ingredient usage in one transaction
func (r *GormProductionRepository) Create(ctx context.Context, p *production.Production) error {
	model := models.ProductionModelFromDomain(p)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			return tx.Create(&model.Items).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create production: %w", err)
	}
	p.MarkPersisted()
	return nil
}

// Save updates the header with a version check and rewrites the usage lines.
// Completing a batch records actual usage per line, so lines are always rewritten.
func (r *GormProductionRepository) Save(ctx context.Context, p *production.Production) error {
	model := models.ProductionModelFromDomain(p)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, model, p.ID, p.PersistedVersion()); err != nil {
			return err
		}
		if err := tx.Where("production_id = ?", p.ID).Delete(&models.ProductionItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete production items: %w", err)
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return fmt.Errorf("failed to insert production items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.MarkPersisted()
	return nil
}

// DeleteForTenant removes a batch and its usage lines
func (r *GormProductionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenantScope(tenantID)).Where("production_id = ?", id).Delete(&models.ProductionItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete production items: %w", err)
		}
		result := tx.Scopes(tenantScope(tenantID)).Where("id = ?", id).Delete(&models.ProductionModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete production: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure interface compliance
var _ production.ProductionRepository = (*GormProductionRepository)(nil)
