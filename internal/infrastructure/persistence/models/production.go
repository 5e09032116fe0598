package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeModel is the persistence model for the Recipe aggregate root.
type RecipeModel struct {
	TenantAggregateModel
	Name          string            `gorm:"type:varchar(200);not null"`
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	YieldQuantity decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Instructions  string            `gorm:"type:text"`
	Items         []RecipeItemModel `gorm:"foreignKey:RecipeID;references:ID"`
}

// TableName returns the table name for GORM
func (RecipeModel) TableName() string {
	return "recipes"
}

// ToDomain converts the persistence model to a domain Recipe entity.
func (m *RecipeModel) ToDomain() *production.Recipe {
	r := &production.Recipe{
		TenantAggregateRoot: m.Root(),
		Name:                m.Name,
		ProductID:           m.ProductID,
		YieldQuantity:       m.YieldQuantity,
		Instructions:        m.Instructions,
		Items:               make([]production.RecipeItem, len(m.Items)),
	}
	for i, it := range m.Items {
		r.Items[i] = production.RecipeItem{
			ID:           it.ID,
			RecipeID:     it.RecipeID,
			IngredientID: it.IngredientID,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
		}
	}
	return r
}

// FromDomain populates the persistence model from a domain Recipe entity.
func (m *RecipeModel) FromDomain(r *production.Recipe) {
	m.SetRoot(r.TenantAggregateRoot)
	m.Name = r.Name
	m.ProductID = r.ProductID
	m.YieldQuantity = r.YieldQuantity
	m.Instructions = r.Instructions
	m.Items = make([]RecipeItemModel, len(r.Items))
	for i, it := range r.Items {
		m.Items[i] = RecipeItemModel{
			ID:           it.ID,
			TenantID:     r.TenantID,
			RecipeID:     r.ID,
			LineNo:       i + 1,
			IngredientID: it.IngredientID,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
		}
	}
}

// RecipeModelFromDomain creates a new persistence model from a domain Recipe entity.
func RecipeModelFromDomain(r *production.Recipe) *RecipeModel {
	m := &RecipeModel{}
	m.FromDomain(r)
	return m
}

// RecipeItemModel is one ingredient line of a recipe
type RecipeItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecipeID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo       int             `gorm:"not null;default:0"`
	IngredientID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit         string          `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (RecipeItemModel) TableName() string {
	return "recipe_items"
}

// ProductionModel is the persistence model for the Production aggregate root.
type ProductionModel struct {
	TenantAggregateModel
	BatchNumber     string            `gorm:"type:varchar(50);not null;index"`
	RecipeID        *uuid.UUID        `gorm:"type:uuid"`
	ProductID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	PlannedQuantity decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	ActualQuantity  *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	Status          production.Status `gorm:"type:varchar(20);not null;index"`
	ScheduledDate   time.Time         `gorm:"not null;index"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
	Notes           string                `gorm:"type:text"`
	Items           []ProductionItemModel `gorm:"foreignKey:ProductionID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductionModel) TableName() string {
	return "productions"
}

// ToDomain converts the persistence model to a domain Production entity.
func (m *ProductionModel) ToDomain() *production.Production {
	p := &production.Production{
		TenantAggregateRoot: m.Root(),
		BatchNumber:         m.BatchNumber,
		RecipeID:            m.RecipeID,
		ProductID:           m.ProductID,
		PlannedQuantity:     m.PlannedQuantity,
		ActualQuantity:      m.ActualQuantity,
		Status:              m.Status,
		ScheduledDate:       m.ScheduledDate,
		StartedAt:           m.StartedAt,
		CompletedAt:         m.CompletedAt,
		Notes:               m.Notes,
		Items:               make([]production.ProductionItem, len(m.Items)),
	}
	for i, it := range m.Items {
		p.Items[i] = production.ProductionItem{
			ID:              it.ID,
			ProductionID:    it.ProductionID,
			IngredientID:    it.IngredientID,
			PlannedQuantity: it.PlannedQuantity,
			ActualQuantity:  it.ActualQuantity,
			Unit:            it.Unit,
		}
	}
	return p
}

// FromDomain populates the persistence model from a domain Production entity.
func (m *ProductionModel) FromDomain(p *production.Production) {
	m.SetRoot(p.TenantAggregateRoot)
	m.BatchNumber = p.BatchNumber
	m.RecipeID = p.RecipeID
	m.ProductID = p.ProductID
	m.PlannedQuantity = p.PlannedQuantity
	m.ActualQuantity = p.ActualQuantity
	m.Status = p.Status
	m.ScheduledDate = p.ScheduledDate
	m.StartedAt = p.StartedAt
	m.CompletedAt = p.CompletedAt
	m.Notes = p.Notes
	m.Items = make([]ProductionItemModel, len(p.Items))
	for i, it := range p.Items {
		m.Items[i] = ProductionItemModel{
			ID:              it.ID,
			TenantID:        p.TenantID,
			ProductionID:    p.ID,
			LineNo:          i + 1,
			IngredientID:    it.IngredientID,
			PlannedQuantity: it.PlannedQuantity,
			ActualQuantity:  it.ActualQuantity,
			Unit:            it.Unit,
		}
	}
}

// ProductionModelFromDomain creates a new persistence model from a domain Production entity.
func ProductionModelFromDomain(p *production.Production) *ProductionModel {
	m := &ProductionModel{}
	m.FromDomain(p)
	return m
}

// ProductionItemModel is ingredient usage of one batch
type ProductionItemModel struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductionID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	LineNo          int              `gorm:"not null;default:0"`
	IngredientID    uuid.UUID        `gorm:"type:uuid;not null"`
	PlannedQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ActualQuantity  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Unit            string           `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (ProductionItemModel) TableName() string {
	return "production_items"
}
