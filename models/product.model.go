package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents an item sold by a shop. Products of an unapproved shop
// remain manageable by the owner but are not publicly listed.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ShopID      primitive.ObjectID `bson:"shop_id" json:"shop_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
