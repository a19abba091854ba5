package workflow

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/authz"
	"localmart/models"
	"localmart/notify"
	"localmart/store"
)

// defaultRejectionReason is persisted when an admin rejects without a reason.
const defaultRejectionReason = "Your shop application did not meet our requirements."

// Shops drives the onboarding state machine: pending -> approved|rejected,
// the owner's role promotion on approval, and the decoupled decision
// notification.
type Shops struct {
	shops    store.ShopStore
	accounts store.AccountStore
	notifier notify.Notifier
}

func NewShops(shops store.ShopStore, accounts store.AccountStore, notifier notify.Notifier) *Shops {
	return &Shops{shops: shops, accounts: accounts, notifier: notifier}
}

// Decide approves or rejects a pending shop. Only admins may decide.
// Approval promotes a pending_shopkeeper owner to shopkeeper; this is the
// only automatic role advance in the system. The notification is attempted
// after the status change commits and its failure never rolls anything back.
func (s *Shops) Decide(ctx context.Context, shopID primitive.ObjectID, decision models.ShopStatus, reason string, actor authz.Actor) (*models.Shop, error) {
	if d := authz.CheckShopDecision(actor); !d.Allowed {
		return nil, &UnauthorizedError{Reason: d.Reason}
	}
	if !decision.Decided() {
		return nil, validationf("decision must be %q or %q", models.ShopApproved, models.ShopRejected)
	}

	shop, err := s.loadShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.Status != models.ShopPending {
		return nil, &InvalidTransitionError{Current: string(shop.Status), Attempted: "decide"}
	}

	if decision == models.ShopRejected && reason == "" {
		reason = defaultRejectionReason
	}

	matched, err := s.shops.DecideFromPending(ctx, shopID, decision, reason)
	if err != nil {
		return nil, err
	}
	if !matched {
		// A concurrent decision got there first.
		current := "unknown"
		if fresh, err := s.shops.GetByID(ctx, shopID); err == nil {
			current = string(fresh.Status)
		}
		return nil, &InvalidTransitionError{Current: current, Attempted: "decide"}
	}

	shop.Status = decision
	if decision == models.ShopRejected {
		shop.RejectionReason = reason
	} else {
		shop.RejectionReason = ""
	}

	owner, err := s.accounts.GetByID(ctx, shop.OwnerID)
	if err != nil {
		// The decision is committed; a missing owner only suppresses the
		// promotion and notification.
		log.Printf("shop %s decided but owner %s not loadable: %v", shopID.Hex(), shop.OwnerID.Hex(), err)
		return shop, nil
	}

	if decision == models.ShopApproved && owner.Role == models.RolePendingShopkeeper {
		if err := s.accounts.SetRole(ctx, owner.ID, models.RoleShopkeeper); err != nil {
			return nil, err
		}
		owner.Role = models.RoleShopkeeper
	}

	s.notifyDecision(decision, shop, owner, reason)
	return shop, nil
}

// Resubmit flips a rejected shop back to pending after its owner edits it,
// clearing the stored rejection reason.
func (s *Shops) Resubmit(ctx context.Context, shopID primitive.ObjectID, actor authz.Actor) (*models.Shop, error) {
	shop, err := s.loadShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && shop.OwnerID != actor.ID {
		return nil, &UnauthorizedError{Reason: "not your shop"}
	}
	if shop.Status != models.ShopRejected {
		return nil, &InvalidTransitionError{Current: string(shop.Status), Attempted: "resubmit"}
	}

	matched, err := s.shops.ResubmitRejected(ctx, shopID, shop.OwnerID)
	if err != nil {
		return nil, err
	}
	if !matched {
		current := "unknown"
		if fresh, err := s.shops.GetByID(ctx, shopID); err == nil {
			current = string(fresh.Status)
		}
		return nil, &InvalidTransitionError{Current: current, Attempted: "resubmit"}
	}

	shop.Status = models.ShopPending
	shop.RejectionReason = ""
	return shop, nil
}

// notifyDecision fires the notification without blocking or failing the
// caller. The goroutine gets its own deadline; the request's context may be
// gone by the time delivery happens.
func (s *Shops) notifyDecision(decision models.ShopStatus, shop *models.Shop, owner *models.User, reason string) {
	kind := notify.KindShopApproved
	if decision == models.ShopRejected {
		kind = notify.KindShopRejected
	}

	shopCopy := *shop
	ownerCopy := *owner
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if res := s.notifier.Notify(ctx, kind, &shopCopy, &ownerCopy, reason); !res.Success {
			log.Printf("shop %s: %s notification failed: %v", shopCopy.ID.Hex(), kind, res.Err)
		}
	}()
}

func (s *Shops) loadShop(ctx context.Context, id primitive.ObjectID) (*models.Shop, error) {
	shop, err := s.shops.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Resource: "shop"}
	}
	if err != nil {
		return nil, err
	}
	return shop, nil
}
