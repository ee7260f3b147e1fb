package event

import (
	"encoding/json"
	"testing"

	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlacedOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem(nil, "Basmati Rice 5kg", decimal.NewFromInt(450), 2)
	require.NoError(t, err)
	o, err := order.NewOrder(uuid.New(), order.CustomerInfo{Name: "Asha", Phone: "+91 98765 43210", Address: "12 MG Road"},
		[]order.Item{item}, order.DeliveryModeDelivery, decimal.NewFromInt(40))
	require.NoError(t, err)
	return o
}

func TestEventSerializer_RoundTripsOrderCreated(t *testing.T) {
	s := NewDefaultSerializer()
	o := newPlacedOrder(t)
	evt := order.NewOrderCreatedEvent(o)

	data, err := s.Serialize(evt)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, order.EventTypeOrderCreated, env.Type)
	assert.Equal(t, o.StoreID, env.StoreID)
	assert.Equal(t, evt.EventID(), env.EventID)

	decoded, err := s.Deserialize(data)
	require.NoError(t, err)

	got, ok := decoded.(*order.OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, o.ID, got.OrderID)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	assert.Equal(t, o.StoreID, got.StoreID())
	assert.Equal(t, 2, got.ItemCount)
	assert.True(t, decimal.NewFromInt(940).Equal(got.Total))
}

func TestEventSerializer_UnknownType(t *testing.T) {
	s := NewEventSerializer()

	data, err := s.Serialize(newTestEvent("Mystery", uuid.New()))
	require.NoError(t, err)

	_, err = s.Deserialize(data)
	assert.ErrorContains(t, err, "unknown event type: Mystery")
	assert.False(t, s.IsRegistered("Mystery"))
}

func TestEventSerializer_RejectsGarbage(t *testing.T) {
	_, err := NewDefaultSerializer().Deserialize([]byte("not json"))
	assert.Error(t, err)
}
