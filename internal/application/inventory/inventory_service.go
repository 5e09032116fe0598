package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/inventory"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryService handles stock records: opening balances, manual
// adjustments, transfers between warehouses and reservations.
//
// Every quantity change runs inside a TransactionScope with the record
// locked and its version checked, and writes its audit entry in the same
// transaction.
type InventoryService struct {
	scope           TransactionScope
	inventoryRepo   inventory.InventoryItemRepository
	transactionRepo inventory.InventoryTransactionRepository
	productRepo     catalog.ProductRepository
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	scope TransactionScope,
	inventoryRepo inventory.InventoryItemRepository,
	transactionRepo inventory.InventoryTransactionRepository,
	productRepo catalog.ProductRepository,
) *InventoryService {
	return &InventoryService{
		scope:           scope,
		inventoryRepo:   inventoryRepo,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics recorder
func (s *InventoryService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// publishDomainEvents publishes and clears the item's pending events.
// Publishing happens after commit; failures are logged by the bus.
func (s *InventoryService) publishDomainEvents(ctx context.Context, items ...*inventory.InventoryItem) {
	if s.eventPublisher == nil {
		return
	}
	var events []shared.DomainEvent
	for _, item := range items {
		events = append(events, item.GetDomainEvents()...)
		item.ClearDomainEvents()
	}
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// flagLowStock raises LowStockDetected when available stock sits at or under
// the product's reorder level
func (s *InventoryService) flagLowStock(ctx context.Context, item *inventory.InventoryItem) {
	product, err := s.productRepo.FindByIDForTenant(ctx, item.TenantID, item.ProductID)
	if err != nil {
		return
	}
	item.FlagLowStock(product.ReorderLevel)
}

// Create opens a stock record and writes its INITIAL audit entry
func (s *InventoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInventoryItemRequest, actor inventory.Actor) (*InventoryItemResponse, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, req.ProductID); err != nil {
		return nil, err
	}
	item, err := inventory.NewInventoryItem(tenantID, req.WarehouseID, req.ProductID, req.Quantity, req.ReservedQty)
	if err != nil {
		return nil, err
	}
	if req.BatchNumber != "" || req.ExpiryDate != nil {
		item.SetBatch(req.BatchNumber, req.ExpiryDate)
	}

	err = s.scope.Execute(ctx, func(repos StockRepos) error {
		if _, err := repos.Warehouses.FindByIDForTenant(ctx, tenantID, req.WarehouseID); err != nil {
			if shared.IsNotFound(err) {
				return shared.ErrWarehouseNotFound
			}
			return err
		}
		_, err := repos.Items.FindByWarehouseAndProductForUpdate(ctx, tenantID, req.WarehouseID, req.ProductID)
		switch {
		case err == nil:
			return shared.NewDomainError("ALREADY_EXISTS", "A stock record for this product already exists in the warehouse")
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}
		return repos.Ledger.Create(ctx, item.OpeningTransaction(actor))
	})
	if err != nil {
		return nil, err
	}

	response := ToInventoryItemResponse(item)
	return &response, nil
}

// GetByID retrieves a stock record by ID
func (s *InventoryService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.inventoryRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// List retrieves stock records with filtering and pagination
func (s *InventoryService) List(ctx context.Context, tenantID uuid.UUID, filter InventoryListFilter) ([]InventoryItemResponse, int64, error) {
	items, total, err := s.inventoryRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InventoryItemResponse, len(items))
	for i := range items {
		responses[i] = ToInventoryItemResponse(&items[i])
	}
	return responses, total, nil
}

// Update changes batch number and expiry date
func (s *InventoryService) Update(ctx context.Context, tenantID, itemID uuid.UUID, req UpdateInventoryItemRequest) (*InventoryItemResponse, error) {
	item, err := s.inventoryRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	batch, expiry := item.BatchNumber, item.ExpiryDate
	if req.BatchNumber != nil {
		batch = *req.BatchNumber
	}
	if req.ExpiryDate != nil {
		expiry = req.ExpiryDate
	}
	item.SetBatch(batch, expiry)

	if err := s.inventoryRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// Adjust applies a manual add, remove or set. A remove beyond the available
// quantity fails with INSUFFICIENT_STOCK and nothing is written.
func (s *InventoryService) Adjust(ctx context.Context, tenantID, itemID uuid.UUID, req AdjustStockRequest, actor inventory.Actor) (*InventoryItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "adjust",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrQuantity, req.Quantity,
		"adjustment_type", req.Type,
	)
	defer span.End()

	adjType, err := inventory.ParseAdjustmentType(req.Type)
	if err != nil {
		return nil, err
	}
	reason := inventory.ReasonCode(strings.ToUpper(strings.TrimSpace(req.ReasonCode)))

	var item *inventory.InventoryItem
	err = s.scope.Execute(ctx, func(repos StockRepos) error {
		locked, err := repos.Items.FindByIDForUpdate(ctx, tenantID, itemID)
		if err != nil {
			return err
		}
		entry, err := locked.Adjust(adjType, req.Quantity, reason, req.Notes, actor)
		if err != nil {
			return err
		}
		if err := repos.Items.SaveWithLock(ctx, locked); err != nil {
			return err
		}
		if err := repos.Ledger.Create(ctx, entry); err != nil {
			return err
		}
		item = locked
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if adjType != inventory.AdjustmentAdd {
		s.flagLowStock(ctx, item)
	}
	s.publishDomainEvents(ctx, item)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordStockAdjustment(ctx, tenantID, string(adjType), string(reason))
	}

	response := ToInventoryItemResponse(item)
	return &response, nil
}

// Transfer moves stock from a record to the same product in another
// warehouse, creating the destination record when missing. Both records and
// both audit entries commit together or not at all.
func (s *InventoryService) Transfer(ctx context.Context, tenantID, itemID uuid.UUID, req TransferStockRequest, actor inventory.Actor) (*TransferResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "transfer",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrWarehouseID, req.ToWarehouseID,
		telemetry.SpanAttrQuantity, req.Quantity,
	)
	defer span.End()

	if !req.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be greater than zero")
	}

	var source, dest *inventory.InventoryItem
	err := s.scope.Execute(ctx, func(repos StockRepos) error {
		var err error
		source, err = repos.Items.FindByIDForUpdate(ctx, tenantID, itemID)
		if err != nil {
			return err
		}
		if source.WarehouseID == req.ToWarehouseID {
			return shared.NewDomainError("SAME_WAREHOUSE", "Destination warehouse must differ from source")
		}
		if _, err := repos.Warehouses.FindByIDForTenant(ctx, tenantID, req.ToWarehouseID); err != nil {
			if shared.IsNotFound(err) {
				return shared.ErrWarehouseNotFound
			}
			return err
		}

		dest, err = repos.Items.FindByWarehouseAndProductForUpdate(ctx, tenantID, req.ToWarehouseID, source.ProductID)
		if errors.Is(err, shared.ErrNotFound) {
			dest, err = inventory.NewInventoryItem(tenantID, req.ToWarehouseID, source.ProductID, decimal.Zero, decimal.Zero)
			if err == nil {
				err = repos.Items.Create(ctx, dest)
			}
		}
		if err != nil {
			return err
		}

		out, in, err := inventory.Transfer(source, dest, req.Quantity, req.Notes, actor)
		if err != nil {
			return err
		}
		if err := repos.Items.SaveWithLock(ctx, source); err != nil {
			return err
		}
		if err := repos.Items.SaveWithLock(ctx, dest); err != nil {
			return err
		}
		return repos.Ledger.CreateBatch(ctx, []*inventory.InventoryTransaction{out, in})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.flagLowStock(ctx, source)
	s.publishDomainEvents(ctx, source, dest)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordStockTransfer(ctx, tenantID)
	}

	return &TransferResponse{
		Source:      ToInventoryItemResponse(source),
		Destination: ToInventoryItemResponse(dest),
	}, nil
}

// Reserve moves quantity from available to reserved
func (s *InventoryService) Reserve(ctx context.Context, tenantID, itemID uuid.UUID, req ReservationRequest, actor inventory.Actor) (*InventoryItemResponse, error) {
	item, err := s.reservation(ctx, tenantID, itemID, func(item *inventory.InventoryItem) (*inventory.InventoryTransaction, error) {
		return item.Reserve(req.Quantity, req.Notes, actor)
	})
	if err != nil {
		return nil, err
	}
	s.flagLowStock(ctx, item)
	s.publishDomainEvents(ctx, item)
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// Release returns reserved quantity to available
func (s *InventoryService) Release(ctx context.Context, tenantID, itemID uuid.UUID, req ReservationRequest, actor inventory.Actor) (*InventoryItemResponse, error) {
	item, err := s.reservation(ctx, tenantID, itemID, func(item *inventory.InventoryItem) (*inventory.InventoryTransaction, error) {
		return item.Release(req.Quantity, req.Notes, actor)
	})
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

func (s *InventoryService) reservation(ctx context.Context, tenantID, itemID uuid.UUID, apply func(*inventory.InventoryItem) (*inventory.InventoryTransaction, error)) (*inventory.InventoryItem, error) {
	var item *inventory.InventoryItem
	err := s.scope.Execute(ctx, func(repos StockRepos) error {
		locked, err := repos.Items.FindByIDForUpdate(ctx, tenantID, itemID)
		if err != nil {
			return err
		}
		entry, err := apply(locked)
		if err != nil {
			return err
		}
		if err := repos.Items.SaveWithLock(ctx, locked); err != nil {
			return err
		}
		if err := repos.Ledger.Create(ctx, entry); err != nil {
			return err
		}
		item = locked
		return nil
	})
	return item, err
}

// ListTransactions returns a record's audit trail, newest first
func (s *InventoryService) ListTransactions(ctx context.Context, tenantID, itemID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if _, err := s.inventoryRepo.FindByIDForTenant(ctx, tenantID, itemID); err != nil {
		return nil, 0, err
	}
	txs, total, err := s.transactionRepo.FindByItem(ctx, tenantID, itemID, shared.NewFilter(filter.Page, filter.PageSize, "created_at", "desc"))
	if err != nil {
		return nil, 0, err
	}
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses, total, nil
}
