package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/pricing"
)

/* =========================
   REQUEST DTOs
========================= */

type orderAddressRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Company   string `json:"company"`
	Address1  string `json:"address1" binding:"required"`
	Address2  string `json:"address2"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

type orderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	Price     float64 `json:"price" binding:"gte=0"`
}

type createOrderRequest struct {
	Email           string               `json:"email" binding:"required,email"`
	Phone           string               `json:"phone"`
	Items           []orderItemRequest   `json:"items" binding:"required,min=1,dive"`
	ShippingAddress orderAddressRequest  `json:"shippingAddress" binding:"required"`
	BillingAddress  *orderAddressRequest `json:"billingAddress"`
	// Only cash on delivery is supported; the acknowledgment must be explicit.
	PaymentMethod string `json:"paymentMethod" binding:"required,eq=COD"`
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(db *mongo.Database, dispatcher *notify.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		// Validation runs before any store access; a rejected submission must
		// never reach persistence.
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithBindingError(c, route, err)
			return
		}

		order, err := buildOrderFromRequest(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// The order document embeds its items, so one InsertOne is the
		// all-or-nothing write. The unique orderNumber index backs a single
		// regenerate-and-retry on the (unlikely) collision.
		var insertErr error
		for attempt := 0; attempt < 2; attempt++ {
			res, err := db.Collection("orders").InsertOne(ctx, order)
			if mongo.IsDuplicateKeyError(err) {
				log.Printf("[%s] order number collision on %s, regenerating", route, order.OrderNumber)
				order.OrderNumber = newOrderNumber()
				insertErr = err
				continue
			}
			if err != nil {
				insertErr = err
				break
			}
			insertErr = nil
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}
			break
		}
		if insertErr != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s created, total=%.2f", route, order.OrderNumber, order.Total)

		// Best-effort fan-out; the committed order never depends on it.
		if dispatcher != nil {
			firstName := order.ShippingAddress.FirstName
			go func(email, firstName, orderNumber string) {
				result := dispatcher.DispatchOrder(context.Background(), email, firstName, orderNumber)
				if !result.CustomerEmail.OK() {
					log.Printf("[%s] customer email for %s failed: %s", route, orderNumber, result.CustomerEmail.Err)
				}
				if !result.InternalEmail.OK() {
					log.Printf("[%s] internal email for %s failed: %s", route, orderNumber, result.InternalEmail.Err)
				}
			}(order.Email, firstName, order.OrderNumber)
		}

		c.JSON(http.StatusCreated, order)
	}
}

/* =========================
   GET ORDERS
========================= */

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		if err := attachOrderProducts(ctx, db, orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] returning %d orders", route, len(orders))
		c.JSON(http.StatusOK, orders)
	}
}

// attachOrderProducts joins each item's product in one $in lookup.
func attachOrderProducts(ctx context.Context, db *mongo.Database, orders []models.Order) error {
	seen := map[primitive.ObjectID]struct{}{}
	ids := make([]primitive.ObjectID, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range orders {
		for j := range orders[i].Items {
			if p, ok := byID[orders[i].Items[j].ProductID]; ok {
				product := p
				orders[i].Items[j].Product = &product
			}
		}
	}
	return nil
}

/* =========================
   BUILD ORDER
========================= */

// buildOrderFromRequest converts a validated submission into the persistable
// order: item prices are snapshotted as sent, totals are computed server-side
// (client-supplied totals are never trusted), billing falls back to the
// shipping address and the status starts at PENDING.
func buildOrderFromRequest(req createOrderRequest) (models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))

	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return models.Order{}, fmt.Errorf("invalid productId: %s", item.ProductID)
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		lines = append(lines, pricing.LineFromFloat(item.Price, item.Quantity))
	}

	totals := pricing.Calculate(lines)

	shippingAddress := models.Address(req.ShippingAddress)
	billingAddress := shippingAddress
	if req.BillingAddress != nil {
		billingAddress = models.Address(*req.BillingAddress)
	}

	return models.Order{
		OrderNumber:     newOrderNumber(),
		Email:           req.Email,
		Phone:           req.Phone,
		Items:           items,
		Subtotal:        totals.Subtotal.Round(2).InexactFloat64(),
		Tax:             totals.Tax.InexactFloat64(),
		Shipping:        totals.Shipping.InexactFloat64(),
		Total:           totals.Total.Round(2).InexactFloat64(),
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Now(),
	}, nil
}

// newOrderNumber builds a human-readable best-effort-unique number:
// prefix + millisecond timestamp + random base36 suffix. The unique index on
// orderNumber catches the rare collision.
func newOrderNumber() string {
	return "YT-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + randomBase36(9)
}
