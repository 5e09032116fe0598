package pos

import (
	"testing"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openSession(t *testing.T) *Session {
	t.Helper()
	s, err := OpenSession(uuid.New(), "TILL-1", shared.Actor{UserID: uuid.New(), Email: "cashier@bakery.test"}, dec("500"))
	require.NoError(t, err)
	return s
}

func line(t *testing.T, qty, price, discount string) OrderItem {
	t.Helper()
	it, err := NewOrderItem(uuid.New(), "Croissant", dec(qty), dec(price), dec(discount))
	require.NoError(t, err)
	return it
}

func pay(t *testing.T, m PaymentMethod, amount string) Payment {
	t.Helper()
	p, err := NewPayment(m, dec(amount), "")
	require.NoError(t, err)
	return p
}

func TestCheckout_Reconciliation(t *testing.T) {
	s := openSession(t)

	items := []OrderItem{line(t, "2", "50", "5"), line(t, "1", "100", "0")}
	o, err := Checkout(s, nil, items, []Payment{pay(t, PaymentMethodCash, "200"), pay(t, PaymentMethodCard, "20")})
	require.NoError(t, err)

	assert.True(t, dec("200").Equal(o.Subtotal))
	assert.True(t, dec("16").Equal(o.TaxAmount))
	assert.True(t, dec("216").Equal(o.TotalAmount))
	assert.True(t, dec("220").Equal(o.PaidAmount))
	assert.True(t, dec("4").Equal(o.ChangeAmount))
	assert.True(t, dec("5").Equal(o.Items[0].Discount), "discount is kept on the line")
	assert.True(t, dec("100").Equal(o.Items[0].TotalPrice), "discount does not reduce the line")
	assert.True(t, dec("200").Equal(o.CashTaken()))
	assert.Equal(t, OrderStatusCompleted, o.Status)
	assert.Contains(t, o.OrderNumber, "POS-")
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypePOSOrderCompleted, o.GetDomainEvents()[0].EventType())
}

func TestCheckout_Rejections(t *testing.T) {
	s := openSession(t)

	_, err := Checkout(s, nil, []OrderItem{line(t, "1", "100", "0")}, []Payment{pay(t, PaymentMethodUPI, "107.99")})
	assert.ErrorIs(t, err, shared.ErrInsufficientPayment)

	o, err := Checkout(s, nil, []OrderItem{line(t, "1", "100", "0")}, []Payment{pay(t, PaymentMethodUPI, "108")})
	require.NoError(t, err)
	assert.True(t, o.ChangeAmount.IsZero())

	_, err = Checkout(s, nil, nil, []Payment{pay(t, PaymentMethodCash, "1")})
	assert.Error(t, err)
	_, err = Checkout(s, nil, []OrderItem{line(t, "1", "1", "0")}, nil)
	assert.Error(t, err)

	require.NoError(t, s.Close(dec("500"), decimal.Zero, decimal.Zero, ""))
	_, err = Checkout(s, nil, []OrderItem{line(t, "1", "1", "0")}, []Payment{pay(t, PaymentMethodCash, "5")})
	assert.ErrorIs(t, err, shared.ErrSessionNotOpen)
}

func TestNewPayment(t *testing.T) {
	_, err := NewPayment(PaymentMethod("CHEQUE"), dec("10"), "")
	assert.Error(t, err)
	_, err = NewPayment(PaymentMethodCash, dec("0"), "")
	assert.Error(t, err)
}

func TestSession_Close(t *testing.T) {
	s := openSession(t)
	require.NoError(t, s.Close(dec("690"), dec("200"), dec("4"), "end of day"))

	assert.Equal(t, SessionStatusClosed, s.Status)
	assert.True(t, dec("696").Equal(*s.ExpectedCash))
	assert.True(t, dec("-6").Equal(*s.CashDifference))
	assert.NotNil(t, s.ClosedAt)
	assert.ErrorIs(t, s.Close(dec("1"), decimal.Zero, decimal.Zero, ""), shared.ErrSessionNotOpen)

	_, err := OpenSession(uuid.New(), " ", shared.Actor{UserID: uuid.New()}, decimal.Zero)
	assert.Error(t, err)
	_, err = OpenSession(uuid.New(), "T", shared.Actor{UserID: uuid.New()}, dec("-1"))
	assert.Error(t, err)
}

func TestOrder_Void(t *testing.T) {
	s := openSession(t)
	o, err := Checkout(s, nil, []OrderItem{line(t, "1", "10", "0")}, []Payment{pay(t, PaymentMethodCash, "20")})
	require.NoError(t, err)

	assert.Error(t, o.Void(s, ""))
	assert.Error(t, o.Void(openSession(t), "wrong till"))
	require.NoError(t, o.Void(s, "wrong item"))
	assert.Equal(t, OrderStatusVoided, o.Status)
	assert.Error(t, o.Void(s, "again"))
}

func TestOrder_VoidAfterClose(t *testing.T) {
	s := openSession(t)
	o, err := Checkout(s, nil, []OrderItem{line(t, "1", "10", "0")}, []Payment{pay(t, PaymentMethodCash, "20")})
	require.NoError(t, err)
	require.NoError(t, s.Close(dec("510"), o.CashTaken(), o.ChangeAmount, ""))

	assert.ErrorIs(t, o.Void(s, "too late"), shared.ErrSessionNotOpen)
	assert.Equal(t, OrderStatusCompleted, o.Status)
	assert.Equal(t, 1, o.Version)
}

func TestNewOrderItem_Scale(t *testing.T) {
	_, err := NewOrderItem(uuid.New(), "Croissant", dec("1"), dec("2.499"), decimal.Zero)
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_PRICE", ""))
	_, err = NewOrderItem(uuid.New(), "Croissant", dec("1"), dec("2.49"), dec("0.005"))
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_PRICE", ""))
	_, err = NewOrderItem(uuid.New(), "Croissant", dec("0.12345"), dec("2.49"), decimal.Zero)
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_QUANTITY", ""))

	it := line(t, "0.3333", "2.49", "0")
	assert.Equal(t, "0.83", it.TotalPrice.String())
}
