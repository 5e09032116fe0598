package pos

import (
	"context"
	"time"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/pos"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultIdempotencyTTL is how long a checkout key blocks replays
const defaultIdempotencyTTL = 24 * time.Hour

// ReceiptPrinter renders a receipt for a completed sale
type ReceiptPrinter interface {
	Print(ctx context.Context, o *pos.Order) (*pos.Receipt, error)
}

// POSService handles till sessions and counter sales. Checkout, close and
// void run in one TillScope transaction holding the session row lock.
type POSService struct {
	scope           TillScope
	sessionRepo     pos.SessionRepository
	orderRepo       pos.OrderRepository
	receiptRepo     pos.ReceiptRepository
	productRepo     catalog.ProductRepository
	idempotency     shared.IdempotencyStore
	idempotencyTTL  time.Duration
	printer         ReceiptPrinter
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewPOSService creates a new POSService. printer may be nil, in which case
// no receipt is produced at checkout.
func NewPOSService(
	scope TillScope,
	sessionRepo pos.SessionRepository,
	orderRepo pos.OrderRepository,
	receiptRepo pos.ReceiptRepository,
	productRepo catalog.ProductRepository,
	idempotency shared.IdempotencyStore,
	printer ReceiptPrinter,
	logger *zap.Logger,
) *POSService {
	return &POSService{
		scope:          scope,
		sessionRepo:    sessionRepo,
		orderRepo:      orderRepo,
		receiptRepo:    receiptRepo,
		productRepo:    productRepo,
		idempotency:    idempotency,
		idempotencyTTL: defaultIdempotencyTTL,
		printer:        printer,
		logger:         logger,
	}
}

// SetIdempotencyTTL overrides how long a checkout key is remembered
func (s *POSService) SetIdempotencyTTL(ttl time.Duration) {
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *POSService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics recorder
func (s *POSService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// ==================== Sessions ====================

// OpenSession starts a shift on a terminal. A terminal holds at most one OPEN session.
func (s *POSService) OpenSession(ctx context.Context, tenantID uuid.UUID, cashier shared.Actor, req OpenSessionRequest) (*SessionResponse, error) {
	existing, err := s.sessionRepo.FindOpenByTerminal(ctx, tenantID, req.TerminalID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Terminal "+req.TerminalID+" already has an open session")
	}

	session, err := pos.OpenSession(tenantID, req.TerminalID, cashier, req.OpeningCash)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// CloseSession records the counted drawer against the expected cash of the
// shift. The cash totals are read under the session lock, after any
// checkout already holding it has committed.
func (s *POSService) CloseSession(ctx context.Context, tenantID, sessionID uuid.UUID, req CloseSessionRequest) (*SessionResponse, error) {
	var session *pos.Session
	err := s.scope.Execute(ctx, func(repos TillRepos) error {
		var err error
		if session, err = repos.Sessions.FindByIDForUpdate(ctx, tenantID, sessionID); err != nil {
			return err
		}
		if !session.IsOpen() {
			return shared.ErrSessionNotOpen
		}
		cash, change, err := repos.Orders.CashTotals(ctx, tenantID, sessionID)
		if err != nil {
			return err
		}
		if err := session.Close(req.ClosingCash, cash, change, req.Notes); err != nil {
			return err
		}
		return repos.Sessions.SaveWithLock(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// GetSession retrieves a session
func (s *POSService) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// ListSessions retrieves sessions with filtering and pagination
func (s *POSService) ListSessions(ctx context.Context, tenantID uuid.UUID, filter SessionListFilter) ([]SessionResponse, int64, error) {
	sessions, total, err := s.sessionRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToSessionResponse(&sessions[i])
	}
	return responses, total, nil
}

// ==================== Sales ====================

func idempotencyKey(tenantID uuid.UUID, key string) string {
	return "pos:checkout:" + tenantID.String() + ":" + key
}

// Checkout rings up a sale. A non-empty key makes the call idempotent: a key
// seen before yields DUPLICATE_REQUEST, and a failed checkout releases its key
// so the till can retry with it.
func (s *POSService) Checkout(ctx context.Context, tenantID uuid.UUID, key string, req CheckoutRequest) (resp *OrderResponse, err error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "pos", "checkout",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrSessionID, req.SessionID,
	)
	defer span.End()
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
		}
	}()

	if key != "" && s.idempotency != nil {
		scoped := idempotencyKey(tenantID, key)
		var fresh bool
		if fresh, err = s.idempotency.MarkProcessed(ctx, scoped, s.idempotencyTTL); err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.ErrDuplicateRequest
		}
		defer func() {
			if err == nil {
				return
			}
			if ferr := s.idempotency.Forget(context.WithoutCancel(ctx), scoped); ferr != nil {
				logger.L(ctx).Warn("failed to release idempotency key", zap.String("key", key), zap.Error(ferr))
			}
		}()
	}

	items, err := s.buildItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	payments := make([]pos.Payment, 0, len(req.Payments))
	methods := make([]string, 0, len(req.Payments))
	for _, in := range req.Payments {
		p, err := pos.NewPayment(pos.PaymentMethod(in.Method), in.Amount, in.Reference)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
		methods = append(methods, in.Method)
	}

	var order *pos.Order
	err = s.scope.Execute(ctx, func(repos TillRepos) error {
		session, err := repos.Sessions.FindByIDForUpdate(ctx, tenantID, req.SessionID)
		if err != nil {
			return err
		}
		if order, err = pos.Checkout(session, req.CustomerID, items, payments); err != nil {
			return err
		}
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID,
		telemetry.SpanAttrOrderNumber, order.OrderNumber,
		telemetry.SpanAttrAmount, order.TotalAmount.String(),
	)

	s.printReceipt(ctx, order)
	s.publishDomainEvents(ctx, order)
	if s.businessMetrics != nil {
		s.businessMetrics.RecordCheckout(ctx, tenantID, methods, order.TotalAmount, time.Since(started))
	}

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *POSService) buildItems(ctx context.Context, tenantID uuid.UUID, inputs []CartItemInput) ([]pos.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if !seen[in.ProductID] {
			seen[in.ProductID] = true
			ids = append(ids, in.ProductID)
		}
	}
	products, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]pos.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		p, ok := byID[in.ProductID]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Product "+in.ProductID.String()+" not found")
		}
		if !p.IsActive {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product "+p.Name+" is not on sale")
		}
		price := p.SellingPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		item, err := pos.NewOrderItem(p.ID, p.Name, in.Quantity, price, in.Discount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// printReceipt never fails the sale; problems are logged
func (s *POSService) printReceipt(ctx context.Context, order *pos.Order) {
	if s.printer == nil {
		return
	}
	receipt, err := s.printer.Print(ctx, order)
	if err == nil {
		err = s.receiptRepo.Save(ctx, receipt)
	}
	if err != nil {
		s.logger.Warn("Receipt not stored",
			zap.String("order_number", order.OrderNumber),
			zap.String("tenant_id", order.TenantID.String()),
			zap.Error(err),
		)
	}
}

func (s *POSService) publishDomainEvents(ctx context.Context, order *pos.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish POS events", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
	order.ClearDomainEvents()
}

// GetOrder retrieves a sale with its lines and tenders
func (s *POSService) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrders retrieves sales with filtering and pagination
func (s *POSService) ListOrders(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// VoidOrder cancels a completed sale while its session is still open
func (s *POSService) VoidOrder(ctx context.Context, tenantID, orderID uuid.UUID, req VoidOrderRequest) (*OrderResponse, error) {
	var order *pos.Order
	err := s.scope.Execute(ctx, func(repos TillRepos) error {
		var err error
		if order, err = repos.Orders.FindByIDForTenant(ctx, tenantID, orderID); err != nil {
			return err
		}
		session, err := repos.Sessions.FindByIDForUpdate(ctx, tenantID, order.SessionID)
		if err != nil {
			return err
		}
		if err := order.Void(session, req.Reason); err != nil {
			return err
		}
		return repos.Orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetReceipt returns the stored receipt of a sale. When none was stored at
// checkout and a printer is configured, the receipt is rendered and stored now.
func (s *POSService) GetReceipt(ctx context.Context, tenantID, orderID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByOrder(ctx, tenantID, orderID)
	if err == nil {
		response := ToReceiptResponse(receipt)
		return &response, nil
	}
	if !shared.IsNotFound(err) || s.printer == nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	receipt, err = s.printer.Print(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}
