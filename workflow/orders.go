// Package workflow ties the marketplace core together: it validates cart
// snapshots into orders and drives the two lifecycle state machines (order
// fulfillment, shop onboarding) under the authorization guard.
package workflow

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/authz"
	"localmart/cart"
	"localmart/models"
	"localmart/store"
)

// Pricing holds the server-side charges applied at checkout. The client's
// cart totals are informational; everything on the order is recomputed here.
type Pricing struct {
	TaxRate         float64 // fraction of the subtotal, e.g. 0.075
	DeliveryPerShop float64 // flat fee per shop bucket
}

// Orders orchestrates order creation and lifecycle transitions.
type Orders struct {
	store   store.OrderStore
	pricing Pricing
}

func NewOrders(s store.OrderStore, pricing Pricing) *Orders {
	return &Orders{store: s, pricing: pricing}
}

// CreateOrderInput is the payload assembled from a cart snapshot at checkout.
type CreateOrderInput struct {
	CustomerID           primitive.ObjectID
	Cart                 models.Cart
	DeliveryAddress      models.Address
	PaymentMethod        string
	OrderType            models.OrderType
	ExpectedDeliveryDate *time.Time
}

// Create validates the snapshot and persists a pending order. Line items,
// shop summaries and all money fields are computed here, never trusted from
// the client.
func (o *Orders) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Cart.Items) == 0 {
		return nil, validationf("cart is empty")
	}
	buckets := cart.Buckets(in.Cart)
	if len(buckets) == 0 {
		return nil, validationf("cart has no shop items")
	}
	if in.DeliveryAddress.IsZero() {
		return nil, validationf("delivery address is required")
	}
	if in.PaymentMethod == "" {
		return nil, validationf("payment method is required")
	}
	if in.OrderType == "" {
		in.OrderType = models.OrderTypeRegular
	}
	if !in.OrderType.Valid() {
		return nil, validationf("unknown order type %q", in.OrderType)
	}
	if in.OrderType == models.OrderTypePreOrder && in.ExpectedDeliveryDate == nil {
		return nil, validationf("pre-orders require an expected delivery date")
	}

	items := make([]models.OrderItem, 0, len(in.Cart.Items))
	subtotal := 0.0
	for _, line := range in.Cart.Items {
		lineSubtotal := round2(line.UnitPrice * float64(line.Quantity))
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  lineSubtotal,
		})
		subtotal += lineSubtotal
	}
	subtotal = round2(subtotal)

	shops := make([]models.ShopSummary, 0, len(buckets))
	for _, b := range buckets {
		shops = append(shops, models.ShopSummary{
			ShopID:   b.ShopID,
			ShopName: b.ShopName,
			Subtotal: round2(b.Subtotal),
		})
	}

	tax := round2(subtotal * o.pricing.TaxRate)
	deliveryFee := round2(o.pricing.DeliveryPerShop * float64(len(buckets)))

	order := &models.Order{
		CustomerID:           in.CustomerID,
		Items:                items,
		Shops:                shops,
		Subtotal:             subtotal,
		Tax:                  tax,
		DeliveryFee:          deliveryFee,
		Total:                round2(subtotal + tax + deliveryFee),
		OrderType:            in.OrderType,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		PaymentMethod:        in.PaymentMethod,
		PaymentStatus:        models.PaymentUnpaid,
		Status:               models.OrderPending,
		DeliveryAddress:      in.DeliveryAddress,
		CreatedAt:            time.Now(),
	}

	id, err := o.store.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	order.ID = id
	return order, nil
}

// Get returns the order when the guard permits actor to read it.
func (o *Orders) Get(ctx context.Context, id primitive.ObjectID, actor authz.Actor) (*models.Order, error) {
	order, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CheckOrder(actor, order, authz.ActionRead); !d.Allowed {
		return nil, &UnauthorizedError{Reason: d.Reason}
	}
	return order, nil
}

// ListForCustomer returns customerID's orders, newest first.
func (o *Orders) ListForCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	return o.store.ListByCustomer(ctx, customerID)
}

// ListForShop returns orders containing shopID in their shop summaries,
// newest first.
func (o *Orders) ListForShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Order, error) {
	return o.store.ListByShop(ctx, shopID)
}

// SetStatus moves the order to status. The forward path is permissive, but
// delivered and cancelled orders never move again, and cancellation must go
// through Cancel so a reason is recorded.
func (o *Orders) SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, actor authz.Actor) (*models.Order, error) {
	if !status.Valid() {
		return nil, validationf("unknown order status %q", status)
	}
	if status == models.OrderCancelled {
		return nil, validationf("use the cancel operation to cancel an order")
	}

	order, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CheckOrder(actor, order, authz.ActionUpdateStatus); !d.Allowed {
		return nil, &UnauthorizedError{Reason: d.Reason}
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, &InvalidTransitionError{Current: string(order.Status), Attempted: "set status to " + string(status)}
	}

	matched, err := o.store.SetStatusFromActive(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !matched {
		// Lost a race against a terminal transition; report what won.
		return nil, o.transitionConflict(ctx, id, "set status to "+string(status))
	}

	order.Status = status
	return order, nil
}

// Cancel moves a pending or processing order to cancelled, appending reason
// to the order's notes on a new line. Prior notes are preserved verbatim.
func (o *Orders) Cancel(ctx context.Context, id primitive.ObjectID, reason string, actor authz.Actor) (*models.Order, error) {
	order, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := authz.CheckOrder(actor, order, authz.ActionCancel); !d.Allowed {
		return nil, &UnauthorizedError{Reason: d.Reason}
	}
	if !order.Status.Cancellable() {
		return nil, &InvalidTransitionError{Current: string(order.Status), Attempted: "cancel"}
	}

	if reason == "" {
		reason = "no reason given"
	}
	notes := appendNote(order.Notes, "Cancelled: "+reason)

	matched, err := o.store.CancelActive(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, o.transitionConflict(ctx, id, "cancel")
	}

	order.Status = models.OrderCancelled
	order.Notes = notes
	return order, nil
}

func (o *Orders) load(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := o.store.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Resource: "order"}
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// transitionConflict re-reads the order after a guarded update matched
// nothing, so the error names the status that actually won the race.
func (o *Orders) transitionConflict(ctx context.Context, id primitive.ObjectID, attempted string) error {
	current := "unknown"
	if order, err := o.store.GetByID(ctx, id); err == nil {
		current = string(order.Status)
	}
	return &InvalidTransitionError{Current: current, Attempted: attempted}
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
