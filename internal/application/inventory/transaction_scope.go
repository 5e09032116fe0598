package inventory

import (
	"context"

	"github.com/bakery/backend/internal/domain/inventory"
)

// StockRepos are the repositories a stock write may touch. Inside
// TransactionScope.Execute they are bound to the open transaction.
//
// Code running inside Execute must only use these. On SQLite the pool holds
// a single connection, so an unbound repository would wait on the open
// transaction forever.
type StockRepos struct {
	Warehouses inventory.WarehouseRepository
	Items      inventory.InventoryItemRepository
	Ledger     inventory.InventoryTransactionRepository
}

// TransactionScope commits everything fn writes through repos, or nothing
// when fn returns an error.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos StockRepos) error) error
}

// DirectScope hands its repositories to fn with no transaction around them
type DirectScope StockRepos

func (s DirectScope) Execute(_ context.Context, fn func(repos StockRepos) error) error {
	return fn(StockRepos(s))
}

var _ TransactionScope = DirectScope{}
