// Package cart implements the cart aggregator: pure snapshot operations over
// an immutable cart, plus a redis-backed store for the persisted blob.
package cart

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/models"
)

// Recompute builds a fresh snapshot from items, deriving ItemCount and Total
// by full reduction. Every mutation funnels through here so the derived
// fields can never drift from the lines.
func Recompute(items []models.CartLine) models.Cart {
	c := models.Cart{Items: items}
	for _, line := range items {
		c.ItemCount += line.Quantity
		c.Total += line.UnitPrice * float64(line.Quantity)
	}
	return c
}

// AddItem returns a snapshot with line merged in. An existing line for the
// same product gains quantity 1; otherwise the line is appended with
// quantity 1. Line order is preserved.
func AddItem(c models.Cart, line models.CartLine) models.Cart {
	items := make([]models.CartLine, len(c.Items))
	copy(items, c.Items)

	for i := range items {
		if items[i].ProductID == line.ProductID {
			items[i].Quantity++
			return Recompute(items)
		}
	}

	line.Quantity = 1
	return Recompute(append(items, line))
}

// RemoveItem returns a snapshot without the line for productID.
func RemoveItem(c models.Cart, productID primitive.ObjectID) models.Cart {
	items := make([]models.CartLine, 0, len(c.Items))
	for _, line := range c.Items {
		if line.ProductID != productID {
			items = append(items, line)
		}
	}
	return Recompute(items)
}

// UpdateQuantity returns a snapshot with the line's quantity replaced by
// quantity exactly. A quantity of zero or less removes the line.
func UpdateQuantity(c models.Cart, productID primitive.ObjectID, quantity int) models.Cart {
	if quantity <= 0 {
		return RemoveItem(c, productID)
	}

	items := make([]models.CartLine, len(c.Items))
	copy(items, c.Items)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return Recompute(items)
}

// Clear returns an empty snapshot.
func Clear() models.Cart {
	return Recompute(nil)
}

// ClearShopItems returns a snapshot without any line belonging to shopID.
func ClearShopItems(c models.Cart, shopID primitive.ObjectID) models.Cart {
	items := make([]models.CartLine, 0, len(c.Items))
	for _, line := range c.Items {
		if line.ShopID != shopID {
			items = append(items, line)
		}
	}
	return Recompute(items)
}

// IsInCart reports whether a line for productID exists.
func IsInCart(c models.Cart, productID primitive.ObjectID) bool {
	for _, line := range c.Items {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}

// Buckets partitions the cart by shop, each bucket carrying its own subtotal.
// Buckets appear in order of each shop's first line; this partition seeds an
// order's shop summaries at checkout.
func Buckets(c models.Cart) []models.ShopBucket {
	var buckets []models.ShopBucket
	index := make(map[primitive.ObjectID]int)

	for _, line := range c.Items {
		i, ok := index[line.ShopID]
		if !ok {
			buckets = append(buckets, models.ShopBucket{
				ShopID:   line.ShopID,
				ShopName: line.ShopName,
			})
			i = len(buckets) - 1
			index[line.ShopID] = i
		}
		buckets[i].Items = append(buckets[i].Items, line)
		buckets[i].Subtotal += line.UnitPrice * float64(line.Quantity)
	}
	return buckets
}
