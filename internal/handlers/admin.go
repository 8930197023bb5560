package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GET /api/admin/stats — dashboard stub: headline counts for the admin page.
func AdminStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/stats"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		totalProducts, err := db.Collection("products").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		totalOrders, err := db.Collection("orders").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("orders").Aggregate(ctx, mongo.Pipeline{
			{{Key: "$group", Value: bson.M{
				"_id":     nil,
				"revenue": bson.M{"$sum": "$total"},
			}}},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		totalRevenue := 0.0
		if cursor.Next(ctx) {
			var agg struct {
				Revenue float64 `bson:"revenue"`
			}
			if err := cursor.Decode(&agg); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "decode error")
				return
			}
			totalRevenue = agg.Revenue
		}

		customers, err := db.Collection("orders").Distinct(ctx, "email", bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"totalProducts":  totalProducts,
			"totalOrders":    totalOrders,
			"totalRevenue":   totalRevenue,
			"totalCustomers": len(customers),
		})
	}
}
