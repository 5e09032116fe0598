package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	specific := &testHandler{err: errors.New("specific")}
	shared := &testHandler{err: errors.New("shared")}
	wildcard := &testHandler{err: errors.New("wildcard")}

	r.Register(specific, "OrderCreated")
	r.Register(shared, "OrderCreated", "OrderStatusChanged")
	r.Register(wildcard)

	assert.Equal(t, []Handler{specific, shared, wildcard}, r.GetHandlers("OrderCreated"))
	assert.Equal(t, []Handler{shared, wildcard}, r.GetHandlers("OrderStatusChanged"))
	assert.Equal(t, []Handler{wildcard}, r.GetHandlers("Unknown"))
	assert.Equal(t, 4, r.Len())
}
