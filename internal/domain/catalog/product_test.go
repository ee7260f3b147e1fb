package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	storeID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct(storeID, "  Basmati Rice 5kg ", decimal.NewFromInt(499))
		require.NoError(t, err)
		assert.Equal(t, "Basmati Rice 5kg", p.Name)
		assert.Equal(t, storeID, p.StoreID)
		assert.True(t, p.IsActive)
		assert.Equal(t, 1, p.GetVersion())

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
		assert.Equal(t, storeID, events[0].StoreID())
	})

	t.Run("rejects zero price", func(t *testing.T) {
		_, err := NewProduct(storeID, "Soap", decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "greater than zero")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct(storeID, "", decimal.NewFromInt(10))
		require.Error(t, err)
	})

	t.Run("rejects nil store", func(t *testing.T) {
		_, err := NewProduct(uuid.Nil, "Soap", decimal.NewFromInt(10))
		require.Error(t, err)
	})
}

func TestProduct_SetPricing(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Ghee 1L", decimal.NewFromInt(600))
	require.NoError(t, err)

	require.NoError(t, p.SetPricing(decimal.NewFromInt(550), decimal.NewFromInt(650)))
	assert.True(t, p.Discount().Equal(decimal.NewFromInt(100)))

	err = p.SetPricing(decimal.NewFromInt(700), decimal.NewFromInt(650))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MRP")

	require.NoError(t, p.SetPricing(decimal.NewFromInt(700), decimal.Zero))
	assert.True(t, p.Discount().IsZero())
}

func TestProduct_Stock(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Tea", decimal.NewFromInt(120))
	require.NoError(t, err)

	assert.Error(t, p.SetStock(-1))
	require.NoError(t, p.SetStock(LowStockThreshold))
	assert.True(t, p.IsLowStock())
	require.NoError(t, p.SetStock(LowStockThreshold+1))
	assert.False(t, p.IsLowStock())
}

func TestProduct_UpdateNormalizesCategory(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Tea", decimal.NewFromInt(120))
	require.NoError(t, err)

	require.NoError(t, p.Update("Assam Tea", "Strong", "  Beverages   & Drinks ", " Tata ", ""))
	assert.Equal(t, "Beverages & Drinks", p.Category)
	assert.Equal(t, "Tata", p.Brand)
	assert.Equal(t, 2, p.GetVersion())
}

func TestCategoryKey(t *testing.T) {
	assert.Equal(t, "home-kitchen", CategoryKey("Home & Kitchen"))
	assert.Equal(t, "home-kitchen", CategoryKey("  home   KITCHEN "))
	assert.Equal(t, "", CategoryKey(" & "))

	img, err := NewCategoryImage("Fresh Fruits", "https://cdn/x.png", "category-images/fresh-fruits.png")
	require.NoError(t, err)
	assert.Equal(t, "fresh-fruits", img.CategoryKey)

	_, err = NewCategoryImage("!!", "https://cdn/x.png", "")
	assert.Error(t, err)
}
