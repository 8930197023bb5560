package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
)

func seededCartStore(sessionID string) *cart.Store {
	carts := cart.NewStore()
	carts.Get(sessionID).AddItem(cart.LineItem{
		ProductID: "p1",
		Name:      "Running Shoes",
		Price:     129.99,
		Slug:      "running-shoes",
		Quantity:  2,
	})
	return carts
}

func doCart(t *testing.T, handler gin.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	switch method {
	case "GET":
		router.GET(strings.SplitN(target, "?", 2)[0], handler)
	case "PUT":
		router.PUT("/api/cart/items/:productId", handler)
	case "DELETE":
		if strings.Contains(target, "/items/") {
			router.DELETE("/api/cart/items/:productId", handler)
		} else {
			router.DELETE("/api/cart", handler)
		}
	}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Cookie", "cart_session=test-session")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("invalid response json: %v", err)
		}
	}
	return w, parsed
}

func TestGetCartReturnsTotals(t *testing.T) {
	carts := seededCartStore("test-session")
	w, parsed := doCart(t, GetCart(carts), "GET", "/api/cart", "")

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if parsed["totalItems"].(float64) != 2 {
		t.Fatalf("expected totalItems 2, got %v", parsed["totalItems"])
	}
	if parsed["subtotal"].(float64) != 259.98 {
		t.Fatalf("expected subtotal 259.98, got %v", parsed["subtotal"])
	}
}

func TestUpdateCartItemClampsQuantityToOne(t *testing.T) {
	carts := seededCartStore("test-session")
	w, parsed := doCart(t, UpdateCartItem(carts), "PUT", "/api/cart/items/p1", `{"quantity": -3}`)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if parsed["totalItems"].(float64) != 1 {
		t.Fatalf("expected quantity clamped to 1, got %v", parsed["totalItems"])
	}
}

func TestRemoveCartItemAbsentIsNoop(t *testing.T) {
	carts := seededCartStore("test-session")
	w, parsed := doCart(t, RemoveCartItem(carts), "DELETE", "/api/cart/items/missing", "")

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if parsed["totalItems"].(float64) != 2 {
		t.Fatalf("expected cart unchanged, got %v", parsed["totalItems"])
	}
}

func TestClearCartEmpties(t *testing.T) {
	carts := seededCartStore("test-session")
	w, parsed := doCart(t, ClearCart(carts), "DELETE", "/api/cart", "")

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if parsed["totalItems"].(float64) != 0 {
		t.Fatalf("expected empty cart, got %v", parsed["totalItems"])
	}
	if parsed["subtotal"].(float64) != 0 {
		t.Fatalf("expected zero subtotal, got %v", parsed["subtotal"])
	}
}
