package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/pos"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSessionRepo struct {
	sessions map[uuid.UUID]*pos.Session
}

func (r *memSessionRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*pos.Session, error) {
	s, ok := r.sessions[id]
	if !ok || s.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *memSessionRepo) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*pos.Session, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r *memSessionRepo) FindOpenByTerminal(_ context.Context, tenantID uuid.UUID, terminalID string) (*pos.Session, error) {
	for _, s := range r.sessions {
		if s.TenantID == tenantID && s.TerminalID == terminalID && s.IsOpen() {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSessionRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ pos.SessionFilter) ([]pos.Session, int64, error) {
	var out []pos.Session
	for _, s := range r.sessions {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memSessionRepo) Create(_ context.Context, s *pos.Session) error {
	r.sessions[s.ID] = s
	s.MarkPersisted()
	return nil
}

func (r *memSessionRepo) SaveWithLock(_ context.Context, s *pos.Session) error {
	r.sessions[s.ID] = s
	s.MarkPersisted()
	return nil
}

type memOrderRepo struct {
	orders map[uuid.UUID]*pos.Order
}

func (r *memOrderRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*pos.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter pos.OrderFilter) ([]pos.Order, int64, error) {
	var out []pos.Order
	for _, o := range r.orders {
		if o.TenantID != tenantID {
			continue
		}
		if filter.SessionID != nil && o.SessionID != *filter.SessionID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) Create(_ context.Context, o *pos.Order) error {
	r.orders[o.ID] = o
	o.MarkPersisted()
	return nil
}

func (r *memOrderRepo) Save(_ context.Context, o *pos.Order) error {
	r.orders[o.ID] = o
	o.MarkPersisted()
	return nil
}

func (r *memOrderRepo) CashTotals(_ context.Context, tenantID, sessionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	cash, change := decimal.Zero, decimal.Zero
	for _, o := range r.orders {
		if o.TenantID != tenantID || o.SessionID != sessionID || o.Status != pos.OrderStatusCompleted {
			continue
		}
		cash = cash.Add(o.CashTaken())
		change = change.Add(o.ChangeAmount)
	}
	return cash, change, nil
}

type memReceiptRepo struct {
	receipts map[uuid.UUID]*pos.Receipt
}

func (r *memReceiptRepo) FindByOrder(_ context.Context, tenantID, orderID uuid.UUID) (*pos.Receipt, error) {
	rc, ok := r.receipts[orderID]
	if !ok || rc.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return rc, nil
}

func (r *memReceiptRepo) Save(_ context.Context, rc *pos.Receipt) error {
	r.receipts[rc.POSOrderID] = rc
	return nil
}

type stubProductRepo struct {
	catalog.ProductRepository
	products []catalog.Product
}

func (r *stubProductRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		for _, id := range ids {
			if p.ID == id && p.TenantID == tenantID {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type stubPrinter struct {
	fail  bool
	calls int
}

func (p *stubPrinter) Print(_ context.Context, o *pos.Order) (*pos.Receipt, error) {
	p.calls++
	if p.fail {
		return nil, errors.New("printer offline")
	}
	return pos.NewReceipt(o, "<html>"+o.OrderNumber+"</html>"), nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// hookScope runs before ahead of the next unit of work. Tests use it to land
// a competing till write just before the session lock is taken.
type hookScope struct {
	repos  TillRepos
	before func()
}

func (s *hookScope) Execute(_ context.Context, fn func(repos TillRepos) error) error {
	if before := s.before; before != nil {
		s.before = nil
		before()
	}
	return fn(s.repos)
}

type posFixture struct {
	tenantID  uuid.UUID
	cashier   shared.Actor
	bun, cake catalog.Product
	sessions  *memSessionRepo
	orders    *memOrderRepo
	receipts  *memReceiptRepo
	scope     *hookScope
	printer   *stubPrinter
	publisher *recordingPublisher
	svc       *POSService
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newProduct(t *testing.T, tenantID uuid.UUID, sku, name, price string) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, sku, name, "pcs", catalog.Prices{Base: dec(price), Selling: dec(price), Cost: decimal.Zero}, decimal.Zero)
	require.NoError(t, err)
	return *p
}

func newPOSFixture(t *testing.T) *posFixture {
	t.Helper()
	f := &posFixture{
		tenantID:  uuid.New(),
		cashier:   shared.Actor{UserID: uuid.New(), Email: "till@bakery.test"},
		sessions:  &memSessionRepo{sessions: map[uuid.UUID]*pos.Session{}},
		orders:    &memOrderRepo{orders: map[uuid.UUID]*pos.Order{}},
		receipts:  &memReceiptRepo{receipts: map[uuid.UUID]*pos.Receipt{}},
		printer:   &stubPrinter{},
		publisher: &recordingPublisher{},
	}
	f.bun = newProduct(t, f.tenantID, "BUN-01", "Butter Bun", "25")
	f.cake = newProduct(t, f.tenantID, "CAKE-01", "Black Forest", "300")

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	f.scope = &hookScope{repos: TillRepos{Sessions: f.sessions, Orders: f.orders}}
	f.svc = NewPOSService(f.scope, f.sessions, f.orders, f.receipts,
		&stubProductRepo{products: []catalog.Product{f.bun, f.cake}},
		store, f.printer, zap.NewNop())
	f.svc.SetEventPublisher(f.publisher)
	return f
}

func (f *posFixture) open(t *testing.T, terminal string) *SessionResponse {
	t.Helper()
	s, err := f.svc.OpenSession(context.Background(), f.tenantID, f.cashier, OpenSessionRequest{TerminalID: terminal, OpeningCash: dec("100")})
	require.NoError(t, err)
	return s
}

func (f *posFixture) cart(sessionID uuid.UUID, payments ...PaymentInput) CheckoutRequest {
	return CheckoutRequest{
		SessionID: sessionID,
		Items: []CartItemInput{
			{ProductID: f.bun.ID, Quantity: dec("2"), Discount: dec("5")},
			{ProductID: f.cake.ID, Quantity: dec("1")},
		},
		Payments: payments,
	}
}

func TestPOSService_CheckoutReconciliation(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")

	resp, err := f.svc.Checkout(ctx, f.tenantID, "key-1", f.cart(session.ID,
		PaymentInput{Method: "CASH", Amount: dec("400")},
	))
	require.NoError(t, err)

	// 2 x 25 + 300 = 350, 8% tax = 28
	assert.True(t, dec("350").Equal(resp.Subtotal))
	assert.True(t, dec("28").Equal(resp.TaxAmount))
	assert.True(t, dec("378").Equal(resp.TotalAmount))
	assert.True(t, dec("400").Equal(resp.PaidAmount))
	assert.True(t, dec("22").Equal(resp.ChangeAmount))
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.Regexp(t, `^POS-\d{8}-`, resp.OrderNumber)

	require.Len(t, resp.Items, 2)
	assert.True(t, dec("5").Equal(resp.Items[0].Discount), "discount is echoed")
	assert.True(t, dec("50").Equal(resp.Items[0].TotalPrice), "discount is not applied")
	assert.Equal(t, "Butter Bun", resp.Items[0].ProductName)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, pos.EventTypePOSOrderCompleted, f.publisher.events[0].EventType())

	receipt, err := f.svc.GetReceipt(ctx, f.tenantID, resp.ID)
	require.NoError(t, err)
	assert.Contains(t, receipt.HTML, resp.OrderNumber)
	assert.Equal(t, 1, f.printer.calls, "stored receipt is reused")
}

func TestPOSService_CheckoutExactPayment(t *testing.T) {
	f := newPOSFixture(t)
	session := f.open(t, "T1")

	resp, err := f.svc.Checkout(context.Background(), f.tenantID, "", f.cart(session.ID,
		PaymentInput{Method: "CARD", Amount: dec("300"), Reference: "auth-991"},
		PaymentInput{Method: "UPI", Amount: dec("78")},
	))
	require.NoError(t, err)
	assert.True(t, resp.ChangeAmount.IsZero())
	assert.Len(t, resp.Payments, 2)
	assert.Equal(t, "auth-991", resp.Payments[0].Reference)
}

func TestPOSService_CheckoutInsufficientPayment(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")

	_, err := f.svc.Checkout(ctx, f.tenantID, "key-short", f.cart(session.ID,
		PaymentInput{Method: "CASH", Amount: dec("377.99")},
	))
	assert.ErrorIs(t, err, shared.ErrInsufficientPayment)
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.publisher.events)

	// the failed attempt released its key
	_, err = f.svc.Checkout(ctx, f.tenantID, "key-short", f.cart(session.ID,
		PaymentInput{Method: "CASH", Amount: dec("378")},
	))
	require.NoError(t, err)
}

func TestPOSService_CheckoutIdempotency(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")
	req := f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("500")})

	_, err := f.svc.Checkout(ctx, f.tenantID, "key-dup", req)
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, f.tenantID, "key-dup", req)
	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)
	assert.Len(t, f.orders.orders, 1)

	assert.NotEqual(t, idempotencyKey(f.tenantID, "key-dup"), idempotencyKey(uuid.New(), "key-dup"))
}

func TestPOSService_CheckoutValidation(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")

	t.Run("unknown session", func(t *testing.T) {
		_, err := f.svc.Checkout(ctx, f.tenantID, "", f.cart(uuid.New(), PaymentInput{Method: "CASH", Amount: dec("500")}))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown product", func(t *testing.T) {
		req := f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("500")})
		req.Items = append(req.Items, CartItemInput{ProductID: uuid.New(), Quantity: dec("1")})
		_, err := f.svc.Checkout(ctx, f.tenantID, "", req)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("zero payment", func(t *testing.T) {
		_, err := f.svc.Checkout(ctx, f.tenantID, "", f.cart(session.ID, PaymentInput{Method: "CASH", Amount: decimal.Zero}))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})

	t.Run("closed session", func(t *testing.T) {
		_, err := f.svc.CloseSession(ctx, f.tenantID, session.ID, CloseSessionRequest{ClosingCash: dec("100")})
		require.NoError(t, err)
		_, err = f.svc.Checkout(ctx, f.tenantID, "", f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("500")}))
		assert.ErrorIs(t, err, shared.ErrSessionNotOpen)
	})
}

func TestPOSService_ReceiptIsBestEffort(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")
	f.printer.fail = true

	resp, err := f.svc.Checkout(ctx, f.tenantID, "", f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("378")}))
	require.NoError(t, err, "receipt failure never fails the sale")
	assert.Empty(t, f.receipts.receipts)

	_, err = f.svc.GetReceipt(ctx, f.tenantID, resp.ID)
	assert.Error(t, err)

	f.printer.fail = false
	receipt, err := f.svc.GetReceipt(ctx, f.tenantID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderNumber, receipt.OrderNumber)
	assert.Len(t, f.receipts.receipts, 1)
}

func TestPOSService_Sessions(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")
	assert.Equal(t, "OPEN", session.Status)
	assert.Equal(t, "till@bakery.test", session.CashierEmail)

	_, err := f.svc.OpenSession(ctx, f.tenantID, f.cashier, OpenSessionRequest{TerminalID: "T1"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	f.open(t, "T2")

	sale, err := f.svc.Checkout(ctx, f.tenantID, "", f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("400")}))
	require.NoError(t, err)
	_, err = f.svc.Checkout(ctx, f.tenantID, "", f.cart(session.ID,
		PaymentInput{Method: "CARD", Amount: dec("378")},
	))
	require.NoError(t, err)
	voided, err := f.svc.Checkout(ctx, f.tenantID, "", f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("378")}))
	require.NoError(t, err)

	v, err := f.svc.VoidOrder(ctx, f.tenantID, voided.ID, VoidOrderRequest{Reason: "rung twice"})
	require.NoError(t, err)
	assert.Equal(t, "VOIDED", v.Status)
	_, err = f.svc.VoidOrder(ctx, f.tenantID, voided.ID, VoidOrderRequest{Reason: "again"})
	assert.Error(t, err)

	// expected = 100 opening + 400 cash - 22 change; the voided sale is ignored
	closed, err := f.svc.CloseSession(ctx, f.tenantID, session.ID, CloseSessionRequest{ClosingCash: dec("480"), Notes: "end of day"})
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", closed.Status)
	require.NotNil(t, closed.ExpectedCash)
	assert.True(t, dec("478").Equal(*closed.ExpectedCash))
	assert.True(t, dec("2").Equal(*closed.CashDifference))

	_, err = f.svc.CloseSession(ctx, f.tenantID, session.ID, CloseSessionRequest{ClosingCash: dec("480")})
	assert.ErrorIs(t, err, shared.ErrSessionNotOpen)

	got, err := f.svc.GetOrder(ctx, f.tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.OrderNumber, got.OrderNumber)

	list, total, err := f.svc.ListOrders(ctx, f.tenantID, OrderListFilter{SessionID: &session.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 3)

	sessions, total, err := f.svc.ListSessions(ctx, f.tenantID, SessionListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, sessions, 2)

	_, err = f.svc.GetSession(ctx, uuid.New(), session.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPOSService_CheckoutLosesRaceWithClose(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")

	f.scope.before = func() {
		_, err := f.svc.CloseSession(ctx, f.tenantID, session.ID, CloseSessionRequest{ClosingCash: dec("100")})
		require.NoError(t, err)
	}
	_, err := f.svc.Checkout(ctx, f.tenantID, "key-race", f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("400")}))
	assert.ErrorIs(t, err, shared.ErrSessionNotOpen)
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.publisher.events)

	closed, err := f.svc.GetSession(ctx, f.tenantID, session.ID)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(*closed.ExpectedCash))
}

func TestPOSService_CloseCountsSaleCommittedFirst(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")

	f.scope.before = func() {
		_, err := f.svc.Checkout(ctx, f.tenantID, "", f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("400")}))
		require.NoError(t, err)
	}
	closed, err := f.svc.CloseSession(ctx, f.tenantID, session.ID, CloseSessionRequest{ClosingCash: dec("478")})
	require.NoError(t, err)
	assert.Len(t, f.orders.orders, 1)
	assert.True(t, dec("478").Equal(*closed.ExpectedCash), closed.ExpectedCash.String())
	assert.True(t, closed.CashDifference.IsZero())
}

func TestPOSService_VoidAfterClose(t *testing.T) {
	ctx := context.Background()
	f := newPOSFixture(t)
	session := f.open(t, "T1")

	sale, err := f.svc.Checkout(ctx, f.tenantID, "", f.cart(session.ID, PaymentInput{Method: "CASH", Amount: dec("400")}))
	require.NoError(t, err)
	closed, err := f.svc.CloseSession(ctx, f.tenantID, session.ID, CloseSessionRequest{ClosingCash: dec("478")})
	require.NoError(t, err)

	_, err = f.svc.VoidOrder(ctx, f.tenantID, sale.ID, VoidOrderRequest{Reason: "after hours"})
	assert.ErrorIs(t, err, shared.ErrSessionNotOpen)

	got, err := f.svc.GetOrder(ctx, f.tenantID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", got.Status)
	reread, err := f.svc.GetSession(ctx, f.tenantID, session.ID)
	require.NoError(t, err)
	assert.True(t, closed.ExpectedCash.Equal(*reread.ExpectedCash))
}
