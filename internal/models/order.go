package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status lifecycle. Only the initial transition is performed by this
// service; later states are set by fulfilment tooling.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
)

// OrderItem is a price snapshot taken at submission time. It is never
// recomputed when the catalog price changes.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Product   *Product           `bson:"-" json:"product,omitempty"`
}

// Address is immutable once embedded in an order.
type Address struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Company   string `bson:"company,omitempty" json:"company,omitempty"`
	Address1  string `bson:"address1" json:"address1"`
	Address2  string `bson:"address2,omitempty" json:"address2,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	ZipCode   string `bson:"zipCode" json:"zipCode"`
	Country   string `bson:"country" json:"country"`
}

// Order is the persisted order document. Items are embedded so the order and
// its lines land in a single atomic write. Totals are computed once at
// creation; total = subtotal + tax + shipping always holds.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Tax             float64            `bson:"tax" json:"tax"`
	Shipping        float64            `bson:"shipping" json:"shipping"`
	Total           float64            `bson:"total" json:"total"`
	ShippingAddress Address            `bson:"shippingAddress" json:"shippingAddress"`
	BillingAddress  Address            `bson:"billingAddress" json:"billingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
