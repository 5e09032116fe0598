package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/bakery/backend/internal/domain/pos"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPOSSessionRepository implements pos.SessionRepository using GORM
type GormPOSSessionRepository struct {
	db *gorm.DB
}

// NewGormPOSSessionRepository creates a new GormPOSSessionRepository
func NewGormPOSSessionRepository(db *gorm.DB) *GormPOSSessionRepository {
	return &GormPOSSessionRepository{db: db}
}

// FindByIDForTenant finds a session by ID within a tenant
func (r *GormPOSSessionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pos.Session, error) {
	var model models.POSSessionModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "pos session")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a session holding a row lock until the
// surrounding transaction ends
func (r *GormPOSSessionRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*pos.Session, error) {
	var model models.POSSessionModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID), forUpdate).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err, "pos session")
	}
	return model.ToDomain(), nil
}

// FindOpenByTerminal returns the open session of a terminal, or ErrNotFound
func (r *GormPOSSessionRepository) FindOpenByTerminal(ctx context.Context, tenantID uuid.UUID, terminalID string) (*pos.Session, error) {
	var model models.POSSessionModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("terminal_id = ? AND status = ?", terminalID, pos.SessionStatusOpen).
		Order("opened_at DESC").
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err, "pos session")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists sessions, filtered by status and terminal
func (r *GormPOSSessionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter pos.SessionFilter) ([]pos.Session, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.POSSessionModel{}).
		Scopes(tenantScope(tenantID), searchScope(filter.Search, "terminal_id", "cashier_email"))

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TerminalID != "" {
		query = query.Where("terminal_id = ?", filter.TerminalID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pos sessions: %w", err)
	}

	var rows []models.POSSessionModel
	if err := query.Scopes(orderScope(filter.Filter, POSSessionSortFields, "opened_at"), paginateScope(filter.Filter)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list pos sessions: %w", err)
	}

	sessions := make([]pos.Session, len(rows))
	for i := range rows {
		sessions[i] = *rows[i].ToDomain()
	}
	return sessions, total, nil
}

// Create inserts a new session
func (r *GormPOSSessionRepository) Create(ctx context.Context, s *pos.Session) error {
	if err := r.db.WithContext(ctx).Create(models.POSSessionModelFromDomain(s)).Error; err != nil {
		return fmt.Errorf("failed to create pos session: %w", err)
	}
	s.MarkPersisted()
	return nil
}

// SaveWithLock updates a session with a version check
func (r *GormPOSSessionRepository) SaveWithLock(ctx context.Context, s *pos.Session) error {
	model := models.POSSessionModelFromDomain(s)
	if err := updateWithVersion(r.db.WithContext(ctx), model, s.ID, s.PersistedVersion()); err != nil {
		return err
	}
	s.MarkPersisted()
	return nil
}

// GormPOSOrderRepository implements pos.OrderRepository using GORM
type GormPOSOrderRepository struct {
	db *gorm.DB
}

// NewGormPOSOrderRepository creates a new GormPOSOrderRepository
func NewGormPOSOrderRepository(db *gorm.DB) *GormPOSOrderRepository {
	return &GormPOSOrderRepository{db: db}
}

func (r *GormPOSOrderRepository) withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", byLineNo).Preload("Payments", byLineNo)
}

// FindByIDForTenant loads a sale with its lines and tenders
func (r *GormPOSOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pos.Order, error) {
	var model models.POSOrderModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID), r.withLines).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		return nil, mapNotFound(err, "pos order")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists sales, filtered by session, status and creation time
func (r *GormPOSOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter pos.OrderFilter) ([]pos.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.POSOrderModel{}).
		Scopes(tenantScope(tenantID), searchScope(filter.Search, "order_number"))

	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pos orders: %w", err)
	}

	var rows []models.POSOrderModel
	err := query.Scopes(r.withLines, orderScope(filter.Filter, POSOrderSortFields, "created_at"), paginateScope(filter.Filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pos orders: %w", err)
	}

	orders := make([]pos.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Create inserts a sale with its lines and tenders in one transaction
func (r *GormPOSOrderRepository) Create(ctx context.Context, o *pos.Order) error {
	model := models.POSOrderModelFromDomain(o)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}
		if len(model.Payments) > 0 {
			return tx.Create(&model.Payments).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create pos order: %w", err)
	}
	o.MarkPersisted()
	return nil
}

// Save updates the sale header with a version check. Lines never change after
// a sale is rung up.
func (r *GormPOSOrderRepository) Save(ctx context.Context, o *pos.Order) error {
	model := models.POSOrderModelFromDomain(o)
	if err := updateWithVersion(r.db.WithContext(ctx), model, o.ID, o.PersistedVersion()); err != nil {
		return err
	}
	o.MarkPersisted()
	return nil
}

// CashTotals sums cash tendered and change given over completed sales of a session
func (r *GormPOSOrderRepository) CashTotals(ctx context.Context, tenantID, sessionID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	db := r.db.WithContext(ctx)

	var cash sumRow
	err := db.Model(&models.POSPaymentModel{}).
		Select("SUM(pos_payments.amount) AS total").
		Joins("JOIN pos_orders ON pos_orders.id = pos_payments.pos_order_id").
		Where("pos_orders.tenant_id = ? AND pos_orders.session_id = ? AND pos_orders.status = ? AND pos_payments.method = ?",
			tenantID, sessionID, pos.OrderStatusCompleted, pos.PaymentMethodCash).
		Scan(&cash).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum cash tendered: %w", err)
	}

	var change sumRow
	err = db.Model(&models.POSOrderModel{}).
		Select("SUM(change_amount) AS total").
		Where("tenant_id = ? AND session_id = ? AND status = ?", tenantID, sessionID, pos.OrderStatusCompleted).
		Scan(&change).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum change given: %w", err)
	}

	return cash.Total.Decimal, change.Total.Decimal, nil
}

// GormReceiptRepository implements pos.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByOrder returns the receipt of a sale
func (r *GormReceiptRepository) FindByOrder(ctx context.Context, tenantID, posOrderID uuid.UUID) (*pos.Receipt, error) {
	var model models.ReceiptModel
	err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID)).Where("pos_order_id = ?", posOrderID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find receipt: %w", err)
	}
	return model.ToDomain(), nil
}

// Save stores a receipt, replacing any earlier rendering of the same sale
func (r *GormReceiptRepository) Save(ctx context.Context, rc *pos.Receipt) error {
	model := models.ReceiptModelFromDomain(rc)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pos_order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"order_number", "html", "pdf_key", "pdf_url"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	return nil
}

// Ensure interface compliance
var (
	_ pos.SessionRepository = (*GormPOSSessionRepository)(nil)
	_ pos.OrderRepository   = (*GormPOSOrderRepository)(nil)
	_ pos.ReceiptRepository = (*GormReceiptRepository)(nil)
)
