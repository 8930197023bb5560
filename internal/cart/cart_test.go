package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddItemSameProductIncrementsQuantity(t *testing.T) {
	c := New()
	c.AddItem(LineItem{ProductID: "p1", Name: "Headphones", Price: 199.99, Quantity: 1})
	c.AddItem(LineItem{ProductID: "p1", Name: "Headphones", Price: 199.99, Quantity: 2})

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("expected a single line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	c := New()
	c.AddItem(LineItem{ProductID: "p1", Price: 10})

	if got := c.TotalItems(); got != 1 {
		t.Fatalf("expected total items 1, got %d", got)
	}
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	c := New()
	c.AddItem(LineItem{ProductID: "p2", Price: 5, Quantity: 1})
	c.AddItem(LineItem{ProductID: "p1", Price: 10, Quantity: 1})
	c.AddItem(LineItem{ProductID: "p2", Price: 5, Quantity: 1})

	items := c.Items()
	if items[0].ProductID != "p2" || items[1].ProductID != "p1" {
		t.Fatalf("expected display order p2,p1 got %s,%s", items[0].ProductID, items[1].ProductID)
	}
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	c := New()
	c.AddItem(LineItem{ProductID: "p1", Price: 10, Quantity: 2})

	c.RemoveItem("missing")

	if len(c.Items()) != 1 || c.TotalItems() != 2 {
		t.Fatal("expected cart unchanged after removing absent id")
	}
}

func TestUpdateQuantitySets(t *testing.T) {
	c := New()
	c.AddItem(LineItem{ProductID: "p1", Price: 10, Quantity: 2})

	c.UpdateQuantity("p1", 5)

	if got := c.TotalItems(); got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
}

func TestTotalPriceIsSubtotal(t *testing.T) {
	c := New()
	c.AddItem(LineItem{ProductID: "p1", Price: 10, Quantity: 2})
	c.AddItem(LineItem{ProductID: "p2", Price: 5, Quantity: 1})

	if !c.TotalPrice().Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected subtotal 25, got %s", c.TotalPrice())
	}
}

func TestClearEmptiesCart(t *testing.T) {
	c := New()
	c.AddItem(LineItem{ProductID: "p1", Price: 10, Quantity: 2})

	c.Clear()

	if len(c.Items()) != 0 || c.TotalItems() != 0 {
		t.Fatal("expected empty cart after clear")
	}
	if !c.TotalPrice().IsZero() {
		t.Fatalf("expected zero subtotal, got %s", c.TotalPrice())
	}
}

func TestStoreReturnsSameCartPerSession(t *testing.T) {
	s := NewStore()

	a := s.Get("session-a")
	a.AddItem(LineItem{ProductID: "p1", Price: 10, Quantity: 1})

	if got := s.Get("session-a").TotalItems(); got != 1 {
		t.Fatalf("expected same cart back, total items %d", got)
	}
	if got := s.Get("session-b").TotalItems(); got != 0 {
		t.Fatalf("expected independent cart per session, total items %d", got)
	}

	s.Drop("session-a")
	if got := s.Get("session-a").TotalItems(); got != 0 {
		t.Fatalf("expected fresh cart after drop, total items %d", got)
	}
}
