// Package cart holds the rows a user has picked, with quantities.
package cart

import (
	"errors"

	"github.com/Makepad-fr/csvboard/internal/model"
)

var (
	ErrNoID     = errors.New("row has no identifier")
	ErrNotFound = errors.New("item not in cart")
)

// Cart is an insertion-ordered selection keyed by row identifier.
// Not safe for concurrent use; a cart belongs to one view.
type Cart struct {
	items []model.CartItem
}

func New() *Cart { return &Cart{} }

// Add puts row in the cart with quantity 1, or bumps the quantity when a
// row with the same identifier is already there.
func (c *Cart) Add(row model.Row) (model.CartItem, error) {
	id := row.ID()
	if id == "" {
		return model.CartItem{}, ErrNoID
	}
	if i := c.index(id); i >= 0 {
		c.items[i].Quantity++
		return c.items[i], nil
	}
	it := model.CartItem{Row: row.Clone(), Quantity: 1}
	c.items = append(c.items, it)
	return it, nil
}

// SetQuantity changes the quantity of id. A quantity of zero or less
// removes the item.
func (c *Cart) SetQuantity(id string, n int) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}
	if n <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return nil
	}
	c.items[i].Quantity = n
	return nil
}

// Adjust adds delta to the quantity of id.
func (c *Cart) Adjust(id string, delta int) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}
	return c.SetQuantity(id, c.items[i].Quantity+delta)
}

// Remove drops id from the cart.
func (c *Cart) Remove(id string) error {
	return c.SetQuantity(id, 0)
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []model.CartItem {
	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct items.
func (c *Cart) Len() int { return len(c.items) }

// Units is the sum of all quantities.
func (c *Cart) Units() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Total multiplies each item's numeric priceCol by its quantity and sums
// the result. Items without a numeric price are skipped.
func (c *Cart) Total(priceCol string) float64 {
	var sum float64
	for _, it := range c.items {
		if p, ok := it.Row.Number(priceCol); ok {
			sum += p * float64(it.Quantity)
		}
	}
	return sum
}

func (c *Cart) index(id string) int {
	for i, it := range c.items {
		if it.ID() == id {
			return i
		}
	}
	return -1
}
