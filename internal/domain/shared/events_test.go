package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseDomainEvent(t *testing.T) {
	orderID, storeID := uuid.New(), uuid.New()
	before := time.Now()

	e := NewBaseDomainEvent("OrderCreated", "Order", orderID, storeID)

	assert.NotEqual(t, uuid.Nil, e.EventID())
	assert.Equal(t, "OrderCreated", e.EventType())
	assert.Equal(t, "Order", e.AggregateType())
	assert.Equal(t, orderID, e.AggregateID())
	assert.Equal(t, storeID, e.StoreID())
	assert.False(t, e.OccurredAt().Before(before))
}

func TestBaseDomainEvent_JSON(t *testing.T) {
	e := NewBaseDomainEvent("OrderCreated", "Order", uuid.New(), uuid.New())

	data, err := json.Marshal(&e)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"id", "type", "timestamp", "aggregate_id", "aggregate_type", "store_id"} {
		assert.Contains(t, fields, key)
	}
}
