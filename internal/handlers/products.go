package handlers

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type createProductRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	Price          float64  `json:"price" binding:"required,gte=0"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	Images         []string `json:"images" binding:"required,min=1"`
	CategoryID     string   `json:"categoryId" binding:"required"`
	Inventory      *int     `json:"inventory" binding:"required,gte=0"`
	Featured       bool     `json:"featured"`
}

type updateProductRequest struct {
	Name           *string              `json:"name"`
	Description    *string              `json:"description"`
	Price          *float64             `json:"price"`
	CompareAtPrice models.OptionalFloat `json:"compareAtPrice"`
	Images         *[]string            `json:"images"`
	CategoryID     *string              `json:"categoryId"`
	Inventory      *int                 `json:"inventory"`
	Featured       *bool                `json:"featured"`
}

/*
GET /api/products
- featured, category (slug), search, sortBy, page, limit all optional
- pagination applies only when limit is present
*/
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit featured=%s category=%s search=%s sortBy=%s page=%s limit=%s",
			route,
			c.Query("featured"),
			c.Query("category"),
			c.Query("search"),
			c.Query("sortBy"),
			c.Query("page"),
			c.Query("limit"),
		)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		filter := bson.M{}

		if c.Query("featured") == "true" {
			filter["featured"] = true
		}

		if categorySlug := strings.TrimSpace(c.Query("category")); categorySlug != "" {
			var category models.Category
			err := db.Collection("categories").
				FindOne(ctx, bson.M{"slug": categorySlug}).
				Decode(&category)
			if err == mongo.ErrNoDocuments {
				// unmatched filter: empty result, never an error
				c.JSON(http.StatusOK, []models.Product{})
				return
			}
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			filter["categoryId"] = category.ID
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			substring := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
			filter["$or"] = bson.A{
				bson.M{"name": substring},
				bson.M{"description": substring},
				bson.M{"slug": search},
			}
		}

		findOptions := options.Find().SetSort(productSortOrder(c.Query("sortBy")))

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}
		if limit > 0 {
			findOptions.SetSkip((page - 1) * limit).SetLimit(limit)
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products, err := decodeProducts(ctx, cursor)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		if err := attachCategories(ctx, db, products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, products)
	}
}

// GET /api/products/:id
func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
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

		product.InStock = product.Inventory > 0

		products := []models.Product{product}
		if err := attachCategories(ctx, db, products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, products[0])
	}
}

// POST /api/products
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithBindingError(c, route, err)
			return
		}

		categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid categoryId")
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		product := models.Product{
			Name:           strings.TrimSpace(req.Name),
			Slug:           slugify(req.Name),
			Description:    req.Description,
			Price:          req.Price,
			CompareAtPrice: req.CompareAtPrice,
			Images:         models.StringList(req.Images),
			CategoryID:     categoryID,
			Inventory:      *req.Inventory,
			Featured:       req.Featured,
			CreatedAt:      time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if mongo.IsDuplicateKeyError(err) {
			respondWithError(c, http.StatusConflict, route, "a product with this slug already exists")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}
		product.InStock = product.Inventory > 0

		products := []models.Product{product}
		if err := attachCategories(ctx, db, products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] created product %s (%s)", route, product.ID.Hex(), product.Slug)
		c.JSON(http.StatusCreated, products[0])
	}
}

// PUT /api/products/:id — partial update: only supplied fields change.
// Renaming re-derives the slug; compareAtPrice can be cleared with null.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithBindingError(c, route, err)
			return
		}

		set, unset := resolveProductUpdate(req)
		if len(set) == 0 && len(unset) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		update := bson.M{}
		if len(set) > 0 {
			update["$set"] = set
		}
		if len(unset) > 0 {
			update["$unset"] = unset
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			respondWithError(c, http.StatusConflict, route, "a product with this slug already exists")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product.InStock = product.Inventory > 0

		products := []models.Product{product}
		if err := attachCategories(ctx, db, products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, products[0])
	}
}

// resolveProductUpdate translates the patch body into $set/$unset documents.
func resolveProductUpdate(req updateProductRequest) (bson.M, bson.M) {
	set := bson.M{}
	unset := bson.M{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		set["name"] = name
		set["slug"] = slugify(name)
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.CompareAtPrice.Set {
		if req.CompareAtPrice.Valid {
			set["compareAtPrice"] = req.CompareAtPrice.Value
		} else {
			unset["compareAtPrice"] = ""
		}
	}
	if req.Images != nil {
		set["images"] = *req.Images
	}
	if req.CategoryID != nil {
		if categoryID, err := primitive.ObjectIDFromHex(*req.CategoryID); err == nil {
			set["categoryId"] = categoryID
		}
	}
	if req.Inventory != nil {
		set["inventory"] = *req.Inventory
	}
	if req.Featured != nil {
		set["featured"] = *req.Featured
	}

	return set, unset
}

// DELETE /api/products/:id — always rejected while any order item references
// the product.
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		referencing, err := db.Collection("orders").CountDocuments(ctx, bson.M{"items.productId": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if referencing > 0 {
			respondWithError(c, http.StatusConflict, route, "Cannot delete product with existing orders.")
			return
		}

		result, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		log.Printf("[%s] deleted product %s", route, productID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
