// Package notify delivers shop-decision notifications. Delivery is
// best-effort and decoupled from the authoritative status change: a Notifier
// never panics and never blocks the caller beyond its own context, and a
// failed delivery is logged, not propagated.
package notify

import (
	"context"
	"log"

	"localmart/models"
)

// Kind identifies the notification being sent.
type Kind string

const (
	KindShopApproved Kind = "shop-approved"
	KindShopRejected Kind = "shop-rejected"
)

// Result is the outcome of one delivery attempt.
type Result struct {
	Success bool
	Err     error
}

// Notifier delivers one notification. Implementations return a Result rather
// than raising so callers can stay fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, shop *models.Shop, owner *models.User, reason string) Result
}

// Multi fans a notification out to several channels. It succeeds if every
// channel succeeds; per-channel failures are logged individually.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, kind Kind, shop *models.Shop, owner *models.User, reason string) Result {
	out := Result{Success: true}
	for _, n := range m {
		res := n.Notify(ctx, kind, shop, owner, reason)
		if !res.Success {
			log.Printf("notify %s for shop %s failed: %v", kind, shop.ID.Hex(), res.Err)
			out = Result{Success: false, Err: res.Err}
		}
	}
	return out
}
