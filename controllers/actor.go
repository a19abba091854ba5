package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/authz"
	"localmart/middleware"
	"localmart/models"
	"localmart/store"
)

// currentActor resolves the authenticated account and its authz actor.
// The account is re-read on every request so role changes (promotion,
// demotion) take effect without re-login. Writes the error response itself
// and returns ok=false on failure.
func currentActor(w http.ResponseWriter, r *http.Request, accounts store.AccountStore) (*models.User, authz.Actor, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return nil, authz.Actor{}, false
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return nil, authz.Actor{}, false
	}

	user, err := accounts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "account not found")
		} else {
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return nil, authz.Actor{}, false
	}

	return user, authz.Actor{ID: user.ID, Role: user.Role, ShopID: user.ShopID}, true
}
