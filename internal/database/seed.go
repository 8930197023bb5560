package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

type seedProduct struct {
	name           string
	slug           string
	description    string
	price          float64
	compareAtPrice float64
	image          string
	categorySlug   string
	inventory      int
	featured       bool
}

// Seed inserts the starter catalog when the store is empty so the storefront
// renders out of the box. Safe to call repeatedly.
func Seed(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := db.Collection("products").CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Seed: products present, skipping")
		return nil
	}

	categories := []models.Category{
		{Name: "Electronics", Slug: "electronics", Description: "Latest gadgets and technology"},
		{Name: "Clothing", Slug: "clothing", Description: "Fashion and apparel for all"},
		{Name: "Home & Garden", Slug: "home-garden", Description: "Everything for your home"},
		{Name: "Books", Slug: "books", Description: "Educational and entertainment books"},
		{Name: "Sports", Slug: "sports", Description: "Sports equipment and gear"},
		{Name: "Beauty", Slug: "beauty", Description: "Cosmetics and personal care"},
	}

	categoryIDs := make(map[string]primitive.ObjectID, len(categories))
	for _, category := range categories {
		category.IsActive = true
		category.CreatedAt = time.Now()
		res, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			return err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			categoryIDs[category.Slug] = id
		}
	}

	seeds := []seedProduct{
		{
			name:           "Wireless Bluetooth Headphones",
			slug:           "wireless-bluetooth-headphones",
			description:    "Premium noise-cancelling wireless headphones with 30-hour battery life.",
			price:          199.99,
			compareAtPrice: 249.99,
			image:          "https://images.pexels.com/photos/3394650/pexels-photo-3394650.jpeg",
			categorySlug:   "electronics",
			inventory:      25,
			featured:       true,
		},
		{
			name:           "Smart Watch Series 5",
			slug:           "smart-watch-series-5",
			description:    "Advanced fitness tracking with heart rate monitor and GPS.",
			price:          299.99,
			compareAtPrice: 349.99,
			image:          "https://images.pexels.com/photos/437037/pexels-photo-437037.jpeg",
			categorySlug:   "electronics",
			inventory:      15,
			featured:       true,
		},
		{
			name:         "Portable Bluetooth Speaker",
			slug:         "portable-bluetooth-speaker",
			description:  "Waterproof speaker with 360-degree sound and 12-hour battery.",
			price:        79.99,
			image:        "https://images.pexels.com/photos/1649771/pexels-photo-1649771.jpeg",
			categorySlug: "electronics",
			inventory:    40,
		},
		{
			name:         "Classic Cotton T-Shirt",
			slug:         "classic-cotton-t-shirt",
			description:  "Comfortable 100% cotton t-shirt available in multiple colors.",
			price:        24.99,
			image:        "https://images.pexels.com/photos/1656684/pexels-photo-1656684.jpeg",
			categorySlug: "clothing",
			inventory:    100,
			featured:     true,
		},
		{
			name:           "Denim Jacket",
			slug:           "denim-jacket",
			description:    "Vintage-style denim jacket perfect for casual wear.",
			price:          89.99,
			compareAtPrice: 119.99,
			image:          "https://images.pexels.com/photos/1040945/pexels-photo-1040945.jpeg",
			categorySlug:   "clothing",
			inventory:      30,
		},
		{
			name:         "Running Shoes",
			slug:         "running-shoes",
			description:  "Lightweight running shoes with advanced cushioning technology.",
			price:        129.99,
			image:        "https://images.pexels.com/photos/2529148/pexels-photo-2529148.jpeg",
			categorySlug: "clothing",
			inventory:    50,
			featured:     true,
		},
	}

	documents := make([]interface{}, 0, len(seeds))
	for _, seed := range seeds {
		product := models.Product{
			Name:        seed.name,
			Slug:        seed.slug,
			Description: seed.description,
			Price:       seed.price,
			Images:      models.StringList{seed.image},
			CategoryID:  categoryIDs[seed.categorySlug],
			Inventory:   seed.inventory,
			Featured:    seed.featured,
			CreatedAt:   time.Now(),
		}
		if seed.compareAtPrice > 0 {
			compareAt := seed.compareAtPrice
			product.CompareAtPrice = &compareAt
		}
		documents = append(documents, product)
	}

	if _, err := db.Collection("products").InsertMany(ctx, documents); err != nil {
		return err
	}

	log.Printf("Seed: inserted %d categories and %d products", len(categories), len(documents))
	return nil
}
