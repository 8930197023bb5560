package handlers

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// slugify derives a URL-safe identifier from a display name: lower-cased,
// non-alphanumeric runs collapsed to single hyphens, no leading or trailing
// hyphen.
func slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// productSortOrder maps the storefront sort options onto the stored fields.
// Unknown values fall back to newest-first.
func productSortOrder(sortBy string) bson.D {
	switch sortBy {
	case "price":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "ratings":
		return bson.D{{Key: "ratings", Value: -1}}
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		p.InStock = p.Inventory > 0
		products = append(products, p)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// attachCategories resolves each product's category in one $in lookup.
func attachCategories(ctx context.Context, db *mongo.Database, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	seen := map[primitive.ObjectID]struct{}{}
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		if p.CategoryID.IsZero() {
			continue
		}
		if _, ok := seen[p.CategoryID]; ok {
			continue
		}
		seen[p.CategoryID] = struct{}{}
		ids = append(ids, p.CategoryID)
	}
	if len(ids) == 0 {
		return nil
	}

	cursor, err := db.Collection("categories").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]models.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}

	for i := range products {
		if category, ok := byID[products[i].CategoryID]; ok {
			c := category
			products[i].Category = &c
		}
	}
	return nil
}
