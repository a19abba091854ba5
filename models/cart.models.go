package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one product in the cart. A cart holds at most one line per
// product; display fields are captured when the line is added.
type CartLine struct {
	ProductID primitive.ObjectID `json:"product_id"`
	ShopID    primitive.ObjectID `json:"shop_id"`
	ShopName  string             `json:"shop_name"`
	Name      string             `json:"name"`
	ImageURL  string             `json:"image_url,omitempty"`
	UnitPrice float64            `json:"unit_price"`
	Quantity  int                `json:"quantity"`
}

// Cart is an immutable snapshot of a shopper's cart. ItemCount and Total are
// derived by full reduction over Items after every mutation; they are never
// patched incrementally.
type Cart struct {
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"item_count"`
	Total     float64    `json:"total"`
}

// ShopBucket is the partition of cart lines belonging to one shop. Buckets
// seed an order's shop summaries at checkout.
type ShopBucket struct {
	ShopID   primitive.ObjectID `json:"shop_id"`
	ShopName string             `json:"shop_name"`
	Items    []CartLine         `json:"items"`
	Subtotal float64            `json:"subtotal"`
}
