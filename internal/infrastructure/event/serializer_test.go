package event

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	tenantID := uuid.New()
	event := newTestEvent("OrderCreated", tenantID)

	data, err := Serialize(event)
	require.NoError(t, err)

	env, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, event.ID, env.ID)
	assert.Equal(t, "OrderCreated", env.Type)
	assert.Equal(t, "TestAggregate", env.AggregateType)
	assert.Equal(t, event.Aggregate.ID, env.AggregateID)
	assert.Equal(t, tenantID, env.TenantID)
	assert.True(t, event.At.Equal(env.OccurredAt))

	var payload testEvent
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "test data", payload.Data)
}

func TestDeserialize_Rejects(t *testing.T) {
	_, err := Deserialize([]byte("not json"))
	assert.Error(t, err)

	_, err = Deserialize([]byte(`{"id":"` + uuid.NewString() + `"}`))
	assert.Error(t, err)
}
