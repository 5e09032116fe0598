package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	tenantID := uuid.New()

	c, err := NewCustomer(tenantID, "c-001", "Asha Verma", CustomerTypeIndividual)
	require.NoError(t, err)
	assert.Equal(t, "C-001", c.Code)
	assert.True(t, c.IsActive)

	_, err = NewCustomer(tenantID, "", "x", CustomerTypeB2B)
	assert.Error(t, err)
	_, err = NewCustomer(tenantID, "C2", "", CustomerTypeB2B)
	assert.Error(t, err)
	_, err = NewCustomer(tenantID, "C3", "Cafe", CustomerType("RETAIL"))
	assert.Error(t, err)
}

func TestCustomer_SetContact(t *testing.T) {
	c, _ := NewCustomer(uuid.New(), "C1", "Cafe Mocha", CustomerTypeB2B)

	tests := []struct {
		name    string
		email   string
		phone   string
		wantErr bool
	}{
		{"valid", "Orders@CafeMocha.in", "+91 98765-43210", false},
		{"both empty", "", "", false},
		{"bad email", "not-an-email", "", true},
		{"bad phone", "", "call me", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SetContact(tt.email, tt.phone)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCustomer_BillingAndLifecycle(t *testing.T) {
	c, _ := NewCustomer(uuid.New(), "C1", "Green Valley School", CustomerTypeCommunity)

	err := c.SetBilling(Billing{TaxID: "27AAEPM1234C1Z5", CreditLimit: decimal.NewFromInt(-1)})
	assert.Error(t, err)
	require.NoError(t, c.SetBilling(Billing{TaxID: "27AAEPM1234C1Z5", CreditLimit: decimal.NewFromInt(5000), PaymentTermsDays: 30}))
	assert.Equal(t, 30, c.Billing.PaymentTermsDays)

	c.Deactivate()
	assert.False(t, c.IsActive)
	c.Activate()
	assert.True(t, c.IsActive)

	require.NoError(t, c.Update("Green Valley High", CustomerTypeCommunity, "weekly bread"))
	assert.Equal(t, "Green Valley High", c.Name)
}

func TestSupplier(t *testing.T) {
	s, err := NewSupplier(uuid.New(), "mill", "Shakti Flour Mill")
	require.NoError(t, err)
	assert.Equal(t, "MILL", s.Code)

	assert.Error(t, s.Update("Shakti", "", "bad", "", "", ""))
	require.NoError(t, s.Update("Shakti Mills", "Ravi", "ravi@shakti.in", "020-5555", "Pune", ""))
	s.Deactivate()
	assert.False(t, s.IsActive)
}
