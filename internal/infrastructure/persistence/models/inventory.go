package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseModel is the persistence model for the Warehouse aggregate root.
type WarehouseModel struct {
	TenantAggregateModel
	Code     string `gorm:"type:varchar(50);not null;index"`
	Name     string `gorm:"type:varchar(200);not null"`
	Address  string `gorm:"type:varchar(500)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse entity.
func (m *WarehouseModel) ToDomain() *inventory.Warehouse {
	return &inventory.Warehouse{
		TenantAggregateRoot: m.Root(),
		Code:                m.Code,
		Name:                m.Name,
		Address:             m.Address,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Warehouse entity.
func (m *WarehouseModel) FromDomain(w *inventory.Warehouse) {
	m.SetRoot(w.TenantAggregateRoot)
	m.Code = w.Code
	m.Name = w.Name
	m.Address = w.Address
	m.IsActive = w.IsActive
}

// WarehouseModelFromDomain creates a new persistence model from a domain Warehouse entity.
func WarehouseModelFromDomain(w *inventory.Warehouse) *WarehouseModel {
	m := &WarehouseModel{}
	m.FromDomain(w)
	return m
}

// InventoryItemModel is the persistence model for the InventoryItem aggregate root.
// Available quantity is derived and has no column.
type InventoryItemModel struct {
	TenantAggregateModel
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_item_warehouse_product,priority:1"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_item_warehouse_product,priority:2"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BatchNumber     string          `gorm:"type:varchar(50)"`
	ExpiryDate      *time.Time
	LastRestockedAt *time.Time
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem entity.
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	return &inventory.InventoryItem{
		TenantAggregateRoot: m.Root(),
		WarehouseID:         m.WarehouseID,
		ProductID:           m.ProductID,
		Quantity:            m.Quantity,
		ReservedQty:         m.ReservedQty,
		BatchNumber:         m.BatchNumber,
		ExpiryDate:          m.ExpiryDate,
		LastRestockedAt:     m.LastRestockedAt,
	}
}

// FromDomain populates the persistence model from a domain InventoryItem entity.
func (m *InventoryItemModel) FromDomain(i *inventory.InventoryItem) {
	m.SetRoot(i.TenantAggregateRoot)
	m.WarehouseID = i.WarehouseID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
	m.ReservedQty = i.ReservedQty
	m.BatchNumber = i.BatchNumber
	m.ExpiryDate = i.ExpiryDate
	m.LastRestockedAt = i.LastRestockedAt
}

// InventoryItemModelFromDomain creates a new persistence model from a domain InventoryItem entity.
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{}
	m.FromDomain(i)
	return m
}

// InventoryTransactionModel is the persistence model for audit entries.
// Rows are append-only, so there is no version or updated_at.
type InventoryTransactionModel struct {
	ID              uuid.UUID                 `gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID                 `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	WarehouseID     uuid.UUID                 `gorm:"type:uuid;not null"`
	ProductID       uuid.UUID                 `gorm:"type:uuid;not null"`
	Type            inventory.TransactionType `gorm:"column:transaction_type;type:varchar(30);not null"`
	Quantity        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	ReasonCode      inventory.ReasonCode      `gorm:"type:varchar(30);not null"`
	Notes           string                    `gorm:"type:text"`
	ReferenceID     *uuid.UUID                `gorm:"type:uuid"`
	ActorID         uuid.UUID                 `gorm:"type:uuid"`
	ActorEmail      string                    `gorm:"type:varchar(200)"`
	CreatedAt       time.Time                 `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InventoryTransactionModel) TableName() string {
	return "inventory_transactions"
}

// ToDomain converts the persistence model to a domain InventoryTransaction.
func (m *InventoryTransactionModel) ToDomain() *inventory.InventoryTransaction {
	return &inventory.InventoryTransaction{
		ID:              m.ID,
		TenantID:        m.TenantID,
		InventoryItemID: m.InventoryItemID,
		WarehouseID:     m.WarehouseID,
		ProductID:       m.ProductID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		ReasonCode:      m.ReasonCode,
		Notes:           m.Notes,
		ReferenceID:     m.ReferenceID,
		ActorID:         m.ActorID,
		ActorEmail:      m.ActorEmail,
		CreatedAt:       m.CreatedAt,
	}
}

// InventoryTransactionModelFromDomain creates a persistence model from a domain InventoryTransaction.
func InventoryTransactionModelFromDomain(t *inventory.InventoryTransaction) *InventoryTransactionModel {
	return &InventoryTransactionModel{
		ID:              t.ID,
		TenantID:        t.TenantID,
		InventoryItemID: t.InventoryItemID,
		WarehouseID:     t.WarehouseID,
		ProductID:       t.ProductID,
		Type:            t.Type,
		Quantity:        t.Quantity,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		ReasonCode:      t.ReasonCode,
		Notes:           t.Notes,
		ReferenceID:     t.ReferenceID,
		ActorID:         t.ActorID,
		ActorEmail:      t.ActorEmail,
		CreatedAt:       t.CreatedAt,
	}
}
