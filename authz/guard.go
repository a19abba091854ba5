// Package authz is the single authorization policy for the marketplace.
// Every mutating operation consults it before touching the store; handlers
// never check roles inline.
package authz

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/models"
)

// Action is an operation an actor attempts against a resource.
type Action string

const (
	ActionRead          Action = "read"
	ActionCancel        Action = "cancel"
	ActionUpdateStatus  Action = "update_status"
	ActionDecideShop    Action = "decide_shop"
	ActionMutateProduct Action = "mutate_product"
)

// Actor is the authenticated identity a check runs for.
type Actor struct {
	ID     primitive.ObjectID
	Role   models.Role
	ShopID *primitive.ObjectID
}

// Decision is the outcome of a check. Reason is set only on denial and is
// written so it never reveals whether the resource exists when ownership,
// not existence, failed.
type Decision struct {
	Allowed bool
	Reason  string
}

func permit() Decision            { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// CheckOrder decides whether actor may perform action on order. Customers
// reach only their own orders; shopkeepers reach orders containing their
// shop; admins reach everything.
func CheckOrder(actor Actor, order *models.Order, action Action) Decision {
	if actor.Role == models.RoleAdmin {
		return permit()
	}

	// An order's customer may always read or cancel it, whatever their role.
	if order.CustomerID == actor.ID {
		if action == ActionRead || action == ActionCancel {
			return permit()
		}
		return deny("customers cannot update order status")
	}

	if actor.Role == models.RoleShopkeeper {
		if actor.ShopID == nil {
			return deny("no shop")
		}
		if !order.ContainsShop(*actor.ShopID) {
			return deny("order does not involve your shop")
		}
		switch action {
		case ActionRead, ActionUpdateStatus, ActionCancel:
			return permit()
		}
		return deny("action not permitted for shopkeepers")
	}

	return deny("not your order")
}

// CheckShopOrders decides whether actor may list the orders routed to
// shopID.
func CheckShopOrders(actor Actor, shopID primitive.ObjectID) Decision {
	if actor.Role == models.RoleAdmin {
		return permit()
	}
	if actor.Role != models.RoleShopkeeper {
		return deny("only shopkeepers list shop orders")
	}
	if actor.ShopID == nil {
		return deny("no shop")
	}
	if *actor.ShopID != shopID {
		return deny("not your shop")
	}
	return permit()
}

// CheckShopDecision decides whether actor may approve or reject a shop.
// Shop onboarding decisions are admin-only regardless of ownership.
func CheckShopDecision(actor Actor) Decision {
	if actor.Role == models.RoleAdmin {
		return permit()
	}
	return deny("shop decisions require admin")
}

// CheckProduct decides whether actor may mutate product. The owner of the
// product's shop may manage it even while the shop is unapproved.
func CheckProduct(actor Actor, product *models.Product) Decision {
	if actor.Role == models.RoleAdmin {
		return permit()
	}
	if actor.Role != models.RoleShopkeeper && actor.Role != models.RolePendingShopkeeper {
		return deny("only shop owners manage products")
	}
	if actor.ShopID == nil {
		return deny("no shop")
	}
	if product.ShopID != *actor.ShopID {
		return deny("product belongs to another shop")
	}
	return permit()
}
