package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every stored record has.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates a base entity with a fresh ID
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// AggregateRoot is implemented by every aggregate that records domain events
type AggregateRoot interface {
	GetID() uuid.UUID
	GetVersion() int
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// TenantAggregateRoot is the base for tenant-scoped aggregates.
// Version backs optimistic locking in the repositories.
type TenantAggregateRoot struct {
	BaseEntity
	TenantID         uuid.UUID
	Version          int
	persistedVersion int
	domainEvents     []DomainEvent
}

// NewTenantAggregateRoot creates a new tenant-scoped aggregate root at version 1
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseEntity: NewBaseEntity(),
		TenantID:   tenantID,
		Version:    1,
	}
}

// GetID returns the aggregate ID
func (a *TenantAggregateRoot) GetID() uuid.UUID {
	return a.ID
}

// GetVersion returns the aggregate version
func (a *TenantAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *TenantAggregateRoot) IncrementVersion() {
	a.Version++
}

// MarkPersisted records the current version as the stored one.
// Repositories call it after loading or writing the aggregate.
func (a *TenantAggregateRoot) MarkPersisted() {
	a.persistedVersion = a.Version
}

// PersistedVersion is the version held in storage, 0 for a new aggregate.
// Updates are conditioned on it.
func (a *TenantAggregateRoot) PersistedVersion() int {
	return a.persistedVersion
}

// IsNew reports whether the aggregate has never been stored
func (a *TenantAggregateRoot) IsNew() bool {
	return a.persistedVersion == 0
}

// AddDomainEvent queues an event for publishing after the aggregate is saved
func (a *TenantAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns pending events
func (a *TenantAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops pending events
func (a *TenantAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// Actor is the authenticated user behind a change
type Actor struct {
	UserID uuid.UUID
	Email  string
}
