package inventory

import (
	"strings"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Warehouse is a physical stock location (central kitchen, store back room)
type Warehouse struct {
	shared.TenantAggregateRoot
	Code     string
	Name     string
	Address  string
	IsActive bool
}

// NewWarehouse creates an active warehouse
func NewWarehouse(tenantID uuid.UUID, code, name, address string) (*Warehouse, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	return &Warehouse{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Address:             address,
		IsActive:            true,
	}, nil
}

// Update changes the descriptive fields
func (w *Warehouse) Update(name, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	w.Name = name
	w.Address = address
	w.Touch()
	w.IncrementVersion()
	return nil
}

// SetActive toggles the active flag
func (w *Warehouse) SetActive(active bool) {
	w.IsActive = active
	w.Touch()
	w.IncrementVersion()
}
