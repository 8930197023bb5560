package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func validOrderRequest() createOrderRequest {
	return createOrderRequest{
		Email: "jo@example.com",
		Items: []orderItemRequest{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 2, Price: 10},
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 1, Price: 5},
		},
		ShippingAddress: orderAddressRequest{
			FirstName: "Jo",
			LastName:  "Doe",
			Address1:  "1 Main St",
			City:      "Springfield",
			State:     "IL",
			ZipCode:   "62701",
			Country:   "US",
		},
		PaymentMethod: "COD",
	}
}

func TestBuildOrderFromRequestComputesTotals(t *testing.T) {
	order, err := buildOrderFromRequest(validOrderRequest())
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}

	if order.Subtotal != 25.00 {
		t.Fatalf("expected subtotal 25.00, got %v", order.Subtotal)
	}
	if order.Tax != 2.00 {
		t.Fatalf("expected tax 2.00, got %v", order.Tax)
	}
	if order.Shipping != 9.99 {
		t.Fatalf("expected shipping 9.99, got %v", order.Shipping)
	}
	if order.Total != 36.99 {
		t.Fatalf("expected total 36.99, got %v", order.Total)
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("expected status PENDING, got %s", order.Status)
	}
}

func TestBuildOrderFromRequestFreeShippingOverThreshold(t *testing.T) {
	req := validOrderRequest()
	req.Items = []orderItemRequest{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 1, Price: 60},
	}

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}

	if order.Shipping != 0 {
		t.Fatalf("expected free shipping, got %v", order.Shipping)
	}
	if order.Tax != 4.80 {
		t.Fatalf("expected tax 4.80, got %v", order.Tax)
	}
	if order.Total != 64.80 {
		t.Fatalf("expected total 64.80, got %v", order.Total)
	}
}

func TestBuildOrderFromRequestBillingDefaultsToShipping(t *testing.T) {
	order, err := buildOrderFromRequest(validOrderRequest())
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}

	if order.BillingAddress != order.ShippingAddress {
		t.Fatalf("expected billing to default to shipping, got %+v", order.BillingAddress)
	}

	req := validOrderRequest()
	req.BillingAddress = &orderAddressRequest{
		FirstName: "Billing",
		LastName:  "Dept",
		Address1:  "2 Corporate Way",
		City:      "Chicago",
		State:     "IL",
		ZipCode:   "60601",
		Country:   "US",
	}
	order, err = buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.BillingAddress.City != "Chicago" {
		t.Fatalf("expected supplied billing address, got %+v", order.BillingAddress)
	}
}

func TestBuildOrderFromRequestSnapshotsItemPrices(t *testing.T) {
	req := validOrderRequest()
	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}

	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Items[0].Price != 10 || order.Items[0].Quantity != 2 {
		t.Fatalf("expected snapshot {10, 2}, got %+v", order.Items[0])
	}
}

func TestBuildOrderFromRequestRejectsInvalidProductID(t *testing.T) {
	req := validOrderRequest()
	req.Items[0].ProductID = "not-an-id"

	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for invalid productId")
	}
}

func TestNewOrderNumberFormat(t *testing.T) {
	a := newOrderNumber()
	b := newOrderNumber()

	if !strings.HasPrefix(a, "YT-") {
		t.Fatalf("expected YT- prefix, got %s", a)
	}
	parts := strings.Split(a, "-")
	if len(parts) != 3 || len(parts[2]) != 9 {
		t.Fatalf("expected YT-<millis>-<9 chars>, got %s", a)
	}
	if a == b {
		t.Fatalf("expected distinct order numbers, got %s twice", a)
	}
}

// The validation-failure path must return before any persistence call: the
// handler is wired with a nil database, so reaching the store would panic
// into a 500 instead of the expected 400.
func postOrder(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/orders", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	CreateOrder(nil, nil)(c)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("invalid response json: %v", err)
		}
	}
	return w, parsed
}

func fieldError(t *testing.T, parsed map[string]interface{}, field string) string {
	t.Helper()
	fields, ok := parsed["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected fields map in response, got %v", parsed)
	}
	message, ok := fields[field].(string)
	if !ok {
		t.Fatalf("expected error for field %q, got %v", field, fields)
	}
	return message
}

func TestCreateOrderRejectsMissingCityBeforePersistence(t *testing.T) {
	productID := primitive.NewObjectID().Hex()
	body := `{
		"email": "jo@example.com",
		"items": [{"productId": "` + productID + `", "quantity": 1, "price": 10}],
		"shippingAddress": {
			"firstName": "Jo", "lastName": "Doe", "address1": "1 Main St",
			"city": "", "state": "IL", "zipCode": "62701", "country": "US"
		},
		"paymentMethod": "COD"
	}`

	w, parsed := postOrder(t, body)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	fieldError(t, parsed, "city")
}

func TestCreateOrderRequiresPaymentAcknowledgment(t *testing.T) {
	productID := primitive.NewObjectID().Hex()
	body := `{
		"email": "jo@example.com",
		"items": [{"productId": "` + productID + `", "quantity": 1, "price": 10}],
		"shippingAddress": {
			"firstName": "Jo", "lastName": "Doe", "address1": "1 Main St",
			"city": "Springfield", "state": "IL", "zipCode": "62701", "country": "US"
		}
	}`

	w, parsed := postOrder(t, body)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	message := fieldError(t, parsed, "paymentMethod")
	if !strings.Contains(message, "cash on delivery") {
		t.Fatalf("unexpected paymentMethod message: %s", message)
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	body := `{
		"email": "jo@example.com",
		"items": [],
		"shippingAddress": {
			"firstName": "Jo", "lastName": "Doe", "address1": "1 Main St",
			"city": "Springfield", "state": "IL", "zipCode": "62701", "country": "US"
		},
		"paymentMethod": "COD"
	}`

	w, parsed := postOrder(t, body)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	fieldError(t, parsed, "items")
}

func TestCreateOrderRejectsMalformedEmail(t *testing.T) {
	productID := primitive.NewObjectID().Hex()
	body := `{
		"email": "not-an-email",
		"items": [{"productId": "` + productID + `", "quantity": 1, "price": 10}],
		"shippingAddress": {
			"firstName": "Jo", "lastName": "Doe", "address1": "1 Main St",
			"city": "Springfield", "state": "IL", "zipCode": "62701", "country": "US"
		},
		"paymentMethod": "COD"
	}`

	w, parsed := postOrder(t, body)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	fieldError(t, parsed, "email")
}
