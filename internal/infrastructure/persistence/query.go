package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sumRow receives a single nullable SUM aliased as total
type sumRow struct {
	Total decimal.NullDecimal
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// tenantScope applies tenant filtering to GORM queries
func tenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// searchScope matches term case-insensitively against any of columns.
// LOWER ... LIKE keeps the query portable between Postgres and SQLite.
func searchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// equalityScope applies exact-match filters whose keys appear in allowed.
// Unknown keys are ignored.
func equalityScope(filters map[string]any, allowed map[string]bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range filters {
			if !allowed[key] || value == nil {
				continue
			}
			db = db.Where(key+" = ?", value)
		}
		return db
	}
}

// orderScope sorts by a whitelisted column with id as the tiebreaker, so
// repeated reads return rows in the same order.
func orderScope(f shared.Filter, allowed map[string]bool, defaultField string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := ValidateSortField(f.OrderBy, allowed, defaultField)
		dir := ValidateSortOrder(f.OrderDir)
		return db.Order(field + " " + dir).Order("id ASC")
	}
}

// paginateScope applies LIMIT and OFFSET. Page size is clamped to 1..100.
func paginateScope(f shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		size := normalizePageSize(f.PageSize)
		page := f.Page
		if page < 1 {
			page = 1
		}
		return db.Limit(size).Offset((page - 1) * size)
	}
}

func normalizePageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

// forUpdate takes a row lock for the rest of the transaction.
// SQLite has no row locks and its dialect drops the clause.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// mapNotFound converts gorm.ErrRecordNotFound to shared.ErrNotFound and wraps anything else
func mapNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}

// updateWithVersion writes model where the stored row still has the version
// the aggregate was loaded at. Zero rows affected is a concurrency conflict.
func updateWithVersion(db *gorm.DB, model any, id uuid.UUID, persistedVersion int) error {
	result := db.Model(model).
		Where("id = ? AND version = ?", id, persistedVersion).
		Select("*").
		Omit("id", "created_at", "tenant_id", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
