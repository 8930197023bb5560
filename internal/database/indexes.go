package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true),
	}

	log.Println("EnsureProductIndexes: creating slug_unique index")
	_, err := indexes.CreateOne(ctx, slugIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: slug index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: slug_unique index created")
	return nil
}

func EnsureCategoryIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("categories").Indexes()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true),
	}

	log.Println("EnsureCategoryIndexes: creating slug_unique index")
	_, err := indexes.CreateOne(ctx, slugIndex)
	if err != nil {
		log.Println("EnsureCategoryIndexes: slug index error:", err)
		return err
	}
	log.Println("EnsureCategoryIndexes: slug_unique index created")
	return nil
}

// EnsureOrderIndexes creates the unique orderNumber index the submission
// pipeline relies on for its regenerate-and-retry collision handling, plus a
// lookup index for the delete-product referential guard.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	orderNumberIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "orderNumber", Value: 1}},
		Options: options.Index().
			SetName("orderNumber_unique").
			SetUnique(true),
	}

	log.Println("EnsureOrderIndexes: creating orderNumber_unique index")
	if _, err := indexes.CreateOne(ctx, orderNumberIndex); err != nil {
		log.Println("EnsureOrderIndexes: orderNumber index error:", err)
		return err
	}

	itemProductIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "items.productId", Value: 1}},
		Options: options.Index().SetName("items_productId_index"),
	}

	log.Println("EnsureOrderIndexes: creating items_productId_index index")
	if _, err := indexes.CreateOne(ctx, itemProductIndex); err != nil {
		log.Println("EnsureOrderIndexes: items.productId index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}
