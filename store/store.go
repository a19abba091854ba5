// Package store defines the document-shaped persistence contracts the
// workflow layer depends on, and their MongoDB implementations. Consumers
// define these interfaces, not the MongoDB implementation.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/models"
)

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateEmail is returned when an account email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountStore persists accounts.
type AccountStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error
	SetShop(ctx context.Context, id, shopID primitive.ObjectID) error
}

// ShopStore persists shops. DecideFromPending and ResubmitRejected are
// single-document guarded updates: the filter re-checks the current status,
// so a concurrent decision degrades to matched=false instead of a hybrid
// write.
type ShopStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Shop, error)
	Create(ctx context.Context, shop *models.Shop) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, name, description string, location *models.GeoPoint) error
	ListByStatus(ctx context.Context, status models.ShopStatus) ([]models.Shop, error)
	Near(ctx context.Context, lng, lat, maxMeters float64) ([]models.Shop, error)
	DecideFromPending(ctx context.Context, id primitive.ObjectID, status models.ShopStatus, reason string) (bool, error)
	ResubmitRejected(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error)
	IncProductCount(ctx context.Context, id primitive.ObjectID, delta int) error
}

// OrderStore persists orders. Status mutations are guarded the same way as
// shop decisions: the final status always reflects one attempted transition.
type OrderStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)
	ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Order, error)
	// SetStatusFromActive moves the order to status unless it is already
	// delivered or cancelled. Returns false when the guard filter matched
	// nothing.
	SetStatusFromActive(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (bool, error)
	// CancelActive sets status to cancelled and replaces notes, only while
	// the order is still pending or processing.
	CancelActive(ctx context.Context, id primitive.ObjectID, notes string) (bool, error)
}

// ProductStore persists products.
type ProductStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Product, error)
	ListByShops(ctx context.Context, shopIDs []primitive.ObjectID) ([]models.Product, error)
}
