package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/cart"
	"storefront/internal/models"
)

const cartSessionCookie = "cart_session"

// sessionCart resolves the caller's cart from the session cookie, minting a
// new session on first contact.
func sessionCart(c *gin.Context, carts *cart.Store) *cart.Cart {
	sessionID, err := c.Cookie(cartSessionCookie)
	if err != nil || sessionID == "" {
		sessionID = randomBase36(24)
		c.SetCookie(cartSessionCookie, sessionID, 0, "/", "", false, true)
	}
	return carts.Get(sessionID)
}

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func cartResponse(current *cart.Cart) gin.H {
	return gin.H{
		"items":      current.Items(),
		"totalItems": current.TotalItems(),
		"subtotal":   current.TotalPrice().Round(2).InexactFloat64(),
	}
}

// GET /api/cart
func GetCart(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		c.JSON(http.StatusOK, cartResponse(sessionCart(c, carts)))
	}
}

// POST /api/cart/items — snapshots name/price/image/slug from the catalog at
// add time.
func AddCartItem(db *mongo.Database, carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/items"
		defer handlePanic(c, route)

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithBindingError(c, route, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		current := sessionCart(c, carts)
		current.AddItem(cart.LineItem{
			ProductID: product.ID.Hex(),
			Name:      product.Name,
			Price:     product.Price,
			Image:     image,
			Slug:      product.Slug,
			Quantity:  req.Quantity,
		})

		c.JSON(http.StatusOK, cartResponse(current))
	}
}

// PUT /api/cart/items/:productId — the handler clamps quantities below 1, per
// the cart contract that the caller does the clamping.
func UpdateCartItem(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/items/:productId"
		defer handlePanic(c, route)

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithBindingError(c, route, err)
			return
		}

		quantity := req.Quantity
		if quantity < 1 {
			quantity = 1
		}

		current := sessionCart(c, carts)
		current.UpdateQuantity(c.Param("productId"), quantity)

		c.JSON(http.StatusOK, cartResponse(current))
	}
}

// DELETE /api/cart/items/:productId — removing an absent id is a no-op.
func RemoveCartItem(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/items/:productId"
		defer handlePanic(c, route)

		current := sessionCart(c, carts)
		current.RemoveItem(c.Param("productId"))

		c.JSON(http.StatusOK, cartResponse(current))
	}
}

// DELETE /api/cart
func ClearCart(carts *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"
		defer handlePanic(c, route)

		current := sessionCart(c, carts)
		current.Clear()

		c.JSON(http.StatusOK, cartResponse(current))
	}
}
