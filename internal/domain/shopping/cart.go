package shopping

import (
	"sort"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxCartQuantity caps the quantity of a single cart line
const MaxCartQuantity = 99

// CartItem is one product in a cart
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart is a user's selection for a single store
type Cart struct {
	UserID    uuid.UUID
	StoreID   uuid.UUID
	Items     []CartItem
	UpdatedAt time.Time
}

// NewCart creates an empty cart
func NewCart(userID, storeID uuid.UUID) *Cart {
	return &Cart{UserID: userID, StoreID: storeID, Items: []CartItem{}, UpdatedAt: time.Now()}
}

// Add increases the quantity of a product, adding a line if needed
func (c *Cart) Add(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = clampQuantity(c.Items[i].Quantity + quantity)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: clampQuantity(quantity), AddedAt: time.Now()})
	c.UpdatedAt = time.Now()
	return nil
}

// SetQuantity sets a line's quantity; zero removes the line
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 0 || quantity > MaxCartQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 0 and 99")
	}
	if quantity == 0 {
		c.Remove(productID)
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
}

// Remove drops a product from the cart. Missing products are ignored.
func (c *Cart) Remove(productID uuid.UUID) {
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	c.Items = out
	c.UpdatedAt = time.Now()
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.UpdatedAt = time.Now()
}

// Merge folds a guest cart into this one. Lines present in both keep the larger quantity.
func (c *Cart) Merge(guest []CartItem) {
	index := make(map[uuid.UUID]int, len(c.Items))
	for i, it := range c.Items {
		index[it.ProductID] = i
	}
	for _, g := range guest {
		if g.Quantity < 1 {
			continue
		}
		if i, ok := index[g.ProductID]; ok {
			if g.Quantity > c.Items[i].Quantity {
				c.Items[i].Quantity = clampQuantity(g.Quantity)
			}
			continue
		}
		added := g.AddedAt
		if added.IsZero() {
			added = time.Now()
		}
		c.Items = append(c.Items, CartItem{ProductID: g.ProductID, Quantity: clampQuantity(g.Quantity), AddedAt: added})
		index[g.ProductID] = len(c.Items) - 1
	}
	sort.SliceStable(c.Items, func(i, j int) bool { return c.Items[i].AddedAt.Before(c.Items[j].AddedAt) })
	c.UpdatedAt = time.Now()
}

// Retain keeps only lines whose product passes keep
func (c *Cart) Retain(keep func(productID uuid.UUID) bool) int {
	out := c.Items[:0]
	dropped := 0
	for _, it := range c.Items {
		if keep(it.ProductID) {
			out = append(out, it)
		} else {
			dropped++
		}
	}
	c.Items = out
	return dropped
}

// ProductIDs lists the products in the cart
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

// TotalQuantity sums all line quantities
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func clampQuantity(q int) int {
	if q > MaxCartQuantity {
		return MaxCartQuantity
	}
	return q
}
