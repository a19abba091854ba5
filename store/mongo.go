package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"localmart/models"
)

// Mongo bundles the collection-backed implementations of every store
// interface over one database.
type Mongo struct {
	Accounts *mongoAccounts
	Shops    *mongoShops
	Orders   *mongoOrders
	Products *mongoProducts
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		Accounts: &mongoAccounts{collection: db.Collection("accounts")},
		Shops:    &mongoShops{collection: db.Collection("shops")},
		Orders:   &mongoOrders{collection: db.Collection("orders")},
		Products: &mongoProducts{collection: db.Collection("products")},
	}
}

type mongoAccounts struct {
	collection *mongo.Collection
}

func (m *mongoAccounts) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &user, nil
}

func (m *mongoAccounts) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &user, nil
}

func (m *mongoAccounts) Create(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return primitive.NilObjectID, ErrDuplicateEmail
	}

	res, err := m.collection.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create account: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (m *mongoAccounts) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoAccounts) SetShop(ctx context.Context, id, shopID primitive.ObjectID) error {
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"shop_id": shopID}})
	if err != nil {
		return fmt.Errorf("failed to set shop reference: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoShops struct {
	collection *mongo.Collection
}

func (m *mongoShops) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Shop, error) {
	var shop models.Shop
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&shop)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &shop, nil
}

func (m *mongoShops) Create(ctx context.Context, shop *models.Shop) (primitive.ObjectID, error) {
	shop.Status = models.ShopPending
	shop.CreatedAt = time.Now()
	res, err := m.collection.InsertOne(ctx, shop)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create shop: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (m *mongoShops) Update(ctx context.Context, id primitive.ObjectID, name, description string, location *models.GeoPoint) error {
	set := bson.M{"name": name, "description": description}
	if location != nil {
		set["location"] = location
	}
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoShops) ListByStatus(ctx context.Context, status models.ShopStatus) ([]models.Shop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	if err := cursor.All(ctx, &shops); err != nil {
		return nil, fmt.Errorf("failed to decode shops: %w", err)
	}
	return shops, nil
}

// Near returns approved shops within maxMeters of the point, nearest first.
// Requires a 2dsphere index on location.
func (m *mongoShops) Near(ctx context.Context, lng, lat, maxMeters float64) ([]models.Shop, error) {
	filter := bson.M{
		"status": models.ShopApproved,
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": maxMeters,
			},
		},
	}
	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby shops: %w", err)
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	if err := cursor.All(ctx, &shops); err != nil {
		return nil, fmt.Errorf("failed to decode nearby shops: %w", err)
	}
	return shops, nil
}

func (m *mongoShops) DecideFromPending(ctx context.Context, id primitive.ObjectID, status models.ShopStatus, reason string) (bool, error) {
	set := bson.M{"status": status}
	update := bson.M{"$set": set}
	if status == models.ShopRejected {
		set["rejection_reason"] = reason
	} else {
		update["$unset"] = bson.M{"rejection_reason": ""}
	}

	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": id, "status": models.ShopPending}, update)
	if err != nil {
		return false, fmt.Errorf("failed to decide shop: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (m *mongoShops) ResubmitRejected(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "owner_id": ownerID, "status": models.ShopRejected}
	update := bson.M{
		"$set":   bson.M{"status": models.ShopPending},
		"$unset": bson.M{"rejection_reason": ""},
	}
	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to resubmit shop: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (m *mongoShops) IncProductCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"product_count": delta}})
	if err != nil {
		return fmt.Errorf("failed to adjust product count: %w", err)
	}
	return nil
}

type mongoOrders struct {
	collection *mongo.Collection
}

func (m *mongoOrders) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (m *mongoOrders) Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := m.collection.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create order: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (m *mongoOrders) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	return m.list(ctx, bson.M{"customer_id": customerID})
}

func (m *mongoOrders) ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Order, error) {
	return m.list(ctx, bson.M{"shops.shop_id": shopID})
}

func (m *mongoOrders) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (m *mongoOrders) SetStatusFromActive(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$nin": bson.A{models.OrderDelivered, models.OrderCancelled}},
	}
	res, err := m.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return false, fmt.Errorf("failed to set order status: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (m *mongoOrders) CancelActive(ctx context.Context, id primitive.ObjectID, notes string) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": bson.A{models.OrderPending, models.OrderProcessing}},
	}
	update := bson.M{"$set": bson.M{"status": models.OrderCancelled, "notes": notes}}
	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}
	return res.MatchedCount > 0, nil
}

type mongoProducts struct {
	collection *mongo.Collection
}

func (m *mongoProducts) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (m *mongoProducts) Create(ctx context.Context, product *models.Product) (primitive.ObjectID, error) {
	product.CreatedAt = time.Now()
	res, err := m.collection.InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create product: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (m *mongoProducts) Update(ctx context.Context, product *models.Product) error {
	set := bson.M{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"image_url":   product.ImageURL,
		"category":    product.Category,
	}
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoProducts) ListByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Product, error) {
	return m.list(ctx, bson.M{"shop_id": shopID})
}

func (m *mongoProducts) ListByShops(ctx context.Context, shopIDs []primitive.ObjectID) ([]models.Product, error) {
	if len(shopIDs) == 0 {
		return nil, nil
	}
	return m.list(ctx, bson.M{"shop_id": bson.M{"$in": shopIDs}})
}

func (m *mongoProducts) list(ctx context.Context, filter bson.M) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
