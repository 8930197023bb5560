package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/pricing"
)

// LineItem is one cart line: a product snapshot plus quantity.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Slug      string  `json:"slug"`
	Quantity  int     `json:"quantity"`
}

// Cart holds one browsing session's selections in insertion order. It has a
// single logical owner and is not safe for concurrent use; the Store hands
// out one instance per session.
type Cart struct {
	items []LineItem
}

func New() *Cart {
	return &Cart{}
}

// AddItem inserts the line, or increments the quantity when the product is
// already present. A non-positive quantity on the incoming item counts as 1.
func (c *Cart) AddItem(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// UpdateQuantity sets the quantity for a product already in the cart.
// Quantity must be >= 1; behavior for lower values is undefined unless the
// caller clamps them first. Unknown product ids are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem deletes the line for the product. Removing an absent id is a
// no-op.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a successful order submission.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// TotalItems is the summed quantity across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the cart subtotal, accumulated as a decimal.
func (c *Cart) TotalPrice() decimal.Decimal {
	return pricing.Calculate(c.Lines()).Subtotal
}

// Lines converts the cart contents for the pricing calculator.
func (c *Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(c.items))
	for _, item := range c.items {
		lines = append(lines, pricing.LineFromFloat(item.Price, item.Quantity))
	}
	return lines
}
