package persistence

import (
	"context"

	appinv "github.com/bakery/backend/internal/application/inventory"
	apppos "github.com/bakery/backend/internal/application/pos"
	"gorm.io/gorm"
)

// StockScope runs a stock write in one gorm transaction
type StockScope struct {
	db *gorm.DB
}

func NewStockScope(db *gorm.DB) *StockScope {
	return &StockScope{db: db}
}

func (s *StockScope) Execute(ctx context.Context, fn func(repos appinv.StockRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(appinv.StockRepos{
			Warehouses: NewGormWarehouseRepository(tx),
			Items:      NewGormInventoryItemRepository(tx),
			Ledger:     NewGormInventoryTransactionRepository(tx),
		})
	})
}

// TillScope runs a till write in one gorm transaction
type TillScope struct {
	db *gorm.DB
}

func NewTillScope(db *gorm.DB) *TillScope {
	return &TillScope{db: db}
}

func (s *TillScope) Execute(ctx context.Context, fn func(repos apppos.TillRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(apppos.TillRepos{
			Sessions: NewGormPOSSessionRepository(tx),
			Orders:   NewGormPOSOrderRepository(tx),
		})
	})
}

var (
	_ appinv.TransactionScope = (*StockScope)(nil)
	_ apppos.TillScope        = (*TillScope)(nil)
)
