package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is an order's lifecycle state. The happy path is
// pending -> processing -> shipped -> delivered; cancellation is reachable
// only from pending and processing. Delivered and cancelled are terminal.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Cancellable reports whether an order in state s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPending || s == OrderProcessing
}

// CanTransitionTo reports whether a status update from s to target is
// accepted. The forward path is deliberately permissive (a shopkeeper may
// skip intermediate states), but terminal states never move and cancellation
// goes through its own operation so a reason is always recorded.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	return target.Valid() && target != OrderCancelled
}

// OrderType distinguishes regular orders from pre-orders, which carry an
// expected delivery date.
type OrderType string

const (
	OrderTypeRegular  OrderType = "regular"
	OrderTypePreOrder OrderType = "pre-order"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	return t == OrderTypeRegular || t == OrderTypePreOrder
}

// PaymentStatus records whether payment was received. Settlement is out of
// scope; this is a bookkeeping value only.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// OrderItem is an immutable order line captured at checkout.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Subtotal  float64            `bson:"subtotal" json:"subtotal"`
}

// ShopSummary is a denormalized snapshot of one shop's share of an order.
// It is decoupled from the live shop document: deleting or re-deciding the
// shop later must not affect historical orders.
type ShopSummary struct {
	ShopID   primitive.ObjectID `bson:"shop_id" json:"shop_id"`
	ShopName string             `bson:"shop_name" json:"shop_name"`
	Subtotal float64            `bson:"subtotal" json:"subtotal"`
}

// Order is created atomically from a cart snapshot. Everything except Status
// and Notes is immutable after creation.
type Order struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID           primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	Items                []OrderItem        `bson:"items" json:"items"`
	Shops                []ShopSummary      `bson:"shops" json:"shops"`
	Subtotal             float64            `bson:"subtotal" json:"subtotal"`
	Tax                  float64            `bson:"tax" json:"tax"`
	DeliveryFee          float64            `bson:"delivery_fee" json:"delivery_fee"`
	Total                float64            `bson:"total" json:"total"`
	OrderType            OrderType          `bson:"order_type" json:"order_type"`
	ExpectedDeliveryDate *time.Time         `bson:"expected_delivery_date,omitempty" json:"expected_delivery_date,omitempty"`
	PaymentMethod        string             `bson:"payment_method" json:"payment_method"`
	PaymentStatus        PaymentStatus      `bson:"payment_status" json:"payment_status"`
	Status               OrderStatus        `bson:"status" json:"status"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	DeliveryAddress      Address            `bson:"delivery_address" json:"delivery_address"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
}

// ContainsShop reports whether the order has a shop summary for shopID.
func (o *Order) ContainsShop(shopID primitive.ObjectID) bool {
	for _, s := range o.Shops {
		if s.ShopID == shopID {
			return true
		}
	}
	return false
}
