package trade

import (
	"testing"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, qty, price string) OrderItem {
	t.Helper()
	item, err := NewOrderItem(uuid.New(), "Item", "SKU", decimal.RequireFromString(qty), decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

func TestNewOrder_ComputesTotals(t *testing.T) {
	items := []OrderItem{mustItem(t, "3", "100"), mustItem(t, "1", "50")}
	rate := decimal.NewFromInt(18)

	o, err := NewOrder(uuid.New(), uuid.New(), ChannelOnline, &rate, items)
	require.NoError(t, err)

	assert.Equal(t, "350", o.Subtotal.String())
	assert.Equal(t, "63", o.TaxAmount.String())
	assert.Equal(t, "413", o.TotalAmount.String())
	assert.True(t, o.TotalAmount.Equal(o.Subtotal.Add(o.TaxAmount)))
	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	assert.Contains(t, o.OrderNumber, "ORD-")
	for _, it := range o.Items {
		assert.Equal(t, o.ID, it.OrderID)
	}
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderCreated, o.GetDomainEvents()[0].EventType())
}

func TestNewOrder_DefaultTaxRate(t *testing.T) {
	o, err := NewOrder(uuid.New(), uuid.New(), "", nil, []OrderItem{mustItem(t, "2", "10.50")})
	require.NoError(t, err)
	assert.True(t, o.TaxRate.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, ChannelStore, o.Channel)
	assert.Equal(t, "21", o.Subtotal.String())
	assert.Equal(t, "3.78", o.TaxAmount.String())
	assert.Equal(t, "24.78", o.TotalAmount.String())
}

func TestComputeTotals_SumsStoredLineTotals(t *testing.T) {
	// 1.5 x 0.99 = 1.485, stored as 1.49 on each line
	items := []OrderItem{mustItem(t, "1.5", "0.99"), mustItem(t, "1.5", "0.99")}
	totals := ComputeTotals(items, decimal.RequireFromString("12.5"))

	lineSum := decimal.Zero
	for _, it := range items {
		assert.Equal(t, "1.49", it.Total.String())
		lineSum = lineSum.Add(it.Total)
	}
	assert.Equal(t, "2.98", totals.Subtotal.String())
	assert.True(t, totals.Subtotal.Equal(lineSum))
	assert.Equal(t, "0.37", totals.TaxAmount.String())
	assert.True(t, totals.TotalAmount.Equal(totals.Subtotal.Add(totals.TaxAmount)))
}

func TestNewOrderItem_Scale(t *testing.T) {
	tests := []struct {
		name, qty, price string
		code             string
	}{
		{"cent price", "3", "33.34", ""},
		{"trailing zeros", "1.2500", "4.500", ""},
		{"four place quantity", "0.0001", "10", ""},
		{"fraction of a cent", "3", "33.335", "INVALID_PRICE"},
		{"quantity past four places", "0.00001", "10", "INVALID_QUANTITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewOrderItem(uuid.New(), "Loaf", "BRD-1", decimal.RequireFromString(tt.qty), decimal.RequireFromString(tt.price))
			if tt.code != "" {
				assert.ErrorIs(t, err, shared.NewDomainError(tt.code, ""))
				return
			}
			require.NoError(t, err)
			// what the columns hold is what the total was computed from
			stored := item.Quantity.Round(shared.QuantityScale).Mul(item.UnitPrice.Round(shared.MoneyScale))
			assert.True(t, item.Total.Equal(stored.Round(shared.MoneyScale)))
		})
	}

	_, err := NewPurchaseOrderItem(uuid.New(), "Flour", decimal.NewFromInt(1), decimal.RequireFromString("0.125"))
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_PRICE", ""))
	_, err = NewPurchaseOrderItem(uuid.New(), "Flour", decimal.RequireFromString("2.00005"), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_QUANTITY", ""))
}

func TestNewOrder_Validation(t *testing.T) {
	tenantID := uuid.New()
	bad := decimal.NewFromInt(120)

	_, err := NewOrder(tenantID, uuid.Nil, ChannelOnline, nil, []OrderItem{mustItem(t, "1", "1")})
	assert.Error(t, err)
	_, err = NewOrder(tenantID, uuid.New(), ChannelOnline, nil, nil)
	assert.Error(t, err)
	_, err = NewOrder(tenantID, uuid.New(), Channel("FAX"), nil, []OrderItem{mustItem(t, "1", "1")})
	assert.Error(t, err)
	_, err = NewOrder(tenantID, uuid.New(), ChannelOnline, &bad, []OrderItem{mustItem(t, "1", "1")})
	assert.Error(t, err)

	_, err = NewOrderItem(uuid.New(), "x", "", decimal.Zero, decimal.NewFromInt(1))
	assert.Error(t, err)
	_, err = NewOrderItem(uuid.New(), "x", "", decimal.NewFromInt(1), decimal.NewFromInt(-1))
	assert.Error(t, err)
	_, err = NewOrderItem(uuid.Nil, "x", "", decimal.NewFromInt(1), decimal.NewFromInt(1))
	assert.Error(t, err)
}

func TestOrder_ReplaceItemsRecomputes(t *testing.T) {
	o, err := NewOrder(uuid.New(), uuid.New(), ChannelOnline, nil, []OrderItem{mustItem(t, "1", "100")})
	require.NoError(t, err)
	assert.Equal(t, "118", o.TotalAmount.String())

	zero := decimal.Zero
	require.NoError(t, o.ReplaceItems([]OrderItem{mustItem(t, "2", "40")}, &zero))
	assert.Equal(t, "80", o.Subtotal.String())
	assert.True(t, o.TaxAmount.IsZero())
	assert.Equal(t, "80", o.TotalAmount.String())
	assert.Equal(t, 2, o.Version)

	require.NoError(t, o.TransitionTo(OrderStatusConfirmed))
	require.NoError(t, o.TransitionTo(OrderStatusPreparing))
	err = o.ReplaceItems([]OrderItem{mustItem(t, "1", "1")}, nil)
	assert.Error(t, err)
}

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusReady, false},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusDelivered, true},
		{OrderStatusReady, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_CancelAndPayment(t *testing.T) {
	o, _ := NewOrder(uuid.New(), uuid.New(), ChannelB2B, nil, []OrderItem{mustItem(t, "10", "25")})
	o.ClearDomainEvents()

	assert.Error(t, o.Cancel(""))
	require.NoError(t, o.Cancel("customer changed mind"))
	assert.Equal(t, OrderStatusCancelled, o.Status)
	assert.True(t, o.CanDelete())
	require.Len(t, o.GetDomainEvents(), 1)

	err := o.TransitionTo(OrderStatusConfirmed)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", de.Code)

	assert.Error(t, o.SetPaymentStatus(PaymentStatus("MAYBE")))
	require.NoError(t, o.SetPaymentStatus(PaymentStatusRefunded))
}

func TestPurchaseOrder(t *testing.T) {
	line := func(qty, cost string) PurchaseOrderItem {
		it, err := NewPurchaseOrderItem(uuid.New(), "Flour 25kg", decimal.RequireFromString(qty), decimal.RequireFromString(cost))
		require.NoError(t, err)
		return it
	}

	po, err := NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), []PurchaseOrderItem{line("4", "1250"), line("10", "42.5")})
	require.NoError(t, err)
	assert.Equal(t, "5425", po.TotalAmount.String())
	assert.Equal(t, POStatusDraft, po.Status)

	require.NoError(t, po.ReplaceItems([]PurchaseOrderItem{line("1", "99.99")}))
	assert.Equal(t, "99.99", po.TotalAmount.String())

	for _, s := range []PurchaseOrderStatus{POStatusSubmitted, POStatusApproved, POStatusOrdered, POStatusReceived, POStatusCompleted} {
		require.NoError(t, po.TransitionTo(s), s)
	}
	assert.Error(t, po.TransitionTo(POStatusCancelled))
	assert.Error(t, po.ReplaceItems([]PurchaseOrderItem{line("1", "1")}))
	assert.False(t, po.CanDelete())

	_, err = NewPurchaseOrder(uuid.New(), uuid.Nil, uuid.New(), []PurchaseOrderItem{line("1", "1")})
	assert.Error(t, err)
	_, err = NewPurchaseOrder(uuid.New(), uuid.New(), uuid.New(), nil)
	assert.Error(t, err)
}
