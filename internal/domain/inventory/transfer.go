package inventory

import (
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Transfer moves qty from source to destination. Both records must hold the
// same product in different warehouses. The caller persists both records and
// both audit entries in one transaction.
func Transfer(source, dest *InventoryItem, qty decimal.Decimal, notes string, actor Actor) (out, in *InventoryTransaction, err error) {
	if err := shared.ValidateQuantity("Transfer quantity", qty); err != nil {
		return nil, nil, err
	}
	if source.ProductID != dest.ProductID {
		return nil, nil, shared.NewDomainError("PRODUCT_MISMATCH", "Source and destination hold different products")
	}
	if source.WarehouseID == dest.WarehouseID {
		return nil, nil, shared.NewDomainError("SAME_WAREHOUSE", "Destination warehouse must differ from source")
	}
	if qty.GreaterThan(source.Available()) {
		return nil, nil, insufficientStock(qty, source.Available())
	}

	srcBefore := source.Quantity
	source.Quantity = source.Quantity.Sub(qty)
	source.Touch()
	source.IncrementVersion()

	dstBefore := dest.Quantity
	dest.Quantity = dest.Quantity.Add(qty)
	dest.Touch()
	dest.IncrementVersion()

	out = newTransaction(source, TransactionTypeTransferOut, qty, srcBefore, ReasonTransfer, notes, actor)
	in = newTransaction(dest, TransactionTypeTransferIn, qty, dstBefore, ReasonTransfer, notes, actor)
	out.ReferenceID = &dest.ID
	in.ReferenceID = &source.ID

	source.AddDomainEvent(NewInventoryTransferredEvent(source, dest, qty))
	return out, in, nil
}
