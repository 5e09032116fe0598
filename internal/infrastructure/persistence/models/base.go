package models

import (
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantAggregateModel holds the columns every tenant scoped aggregate
// table shares. Version backs optimistic locking.
type TenantAggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Version   int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *TenantAggregateModel) SetRoot(r shared.TenantAggregateRoot) {
	m.ID, m.TenantID, m.Version = r.ID, r.TenantID, r.Version
	m.CreatedAt, m.UpdatedAt = r.CreatedAt, r.UpdatedAt
}

// Root rebuilds the domain root, marked as persisted at the stored version
func (m *TenantAggregateModel) Root() shared.TenantAggregateRoot {
	root := shared.TenantAggregateRoot{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		TenantID:   m.TenantID,
		Version:    m.Version,
	}
	root.MarkPersisted()
	return root
}
