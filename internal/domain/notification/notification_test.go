package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	storeID := uuid.New()
	n, err := New(storeID, TypeNewOrder, "New order", "2 items")
	require.NoError(t, err)
	assert.False(t, n.IsRead)
	assert.Nil(t, n.OrderID)

	orderID := uuid.New()
	n.ForOrder(orderID)
	require.NotNil(t, n.OrderID)
	assert.Equal(t, orderID, *n.OrderID)

	_, err = New(uuid.Nil, TypeNewOrder, "x", "")
	assert.Error(t, err)
	_, err = New(storeID, TypeNewOrder, " ", "")
	assert.Error(t, err)
}

func TestMarkRead(t *testing.T) {
	n, err := New(uuid.New(), TypeLowStock, "Low stock", "")
	require.NoError(t, err)

	n.MarkRead()
	require.NotNil(t, n.ReadAt)
	first := *n.ReadAt

	n.MarkRead()
	assert.True(t, n.IsRead)
	assert.Equal(t, first, *n.ReadAt)
}
