package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Slug           string             `bson:"slug" json:"slug"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64            `bson:"price" json:"price"`
	CompareAtPrice *float64           `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	Images         StringList         `bson:"images" json:"images"`
	CategoryID     primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	Category       *Category          `bson:"-" json:"category,omitempty"`
	Inventory      int                `bson:"inventory" json:"inventory"`
	InStock        bool               `bson:"-" json:"inStock"`
	Ratings        float64            `bson:"ratings" json:"ratings"`
	ReviewCount    int                `bson:"reviewCount" json:"reviewCount"`
	Featured       bool               `bson:"featured" json:"featured"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
