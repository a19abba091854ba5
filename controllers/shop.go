package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"localmart/models"
	"localmart/store"
	"localmart/workflow"
)

// ShopController handles shop registration, browsing, editing and the admin
// onboarding decisions
type ShopController struct {
	Shops      store.ShopStore
	Accounts   store.AccountStore
	Onboarding *workflow.Shops
}

func NewShopController(shops store.ShopStore, accounts store.AccountStore, onboarding *workflow.Shops) *ShopController {
	return &ShopController{Shops: shops, Accounts: accounts, Onboarding: onboarding}
}

type shopInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Location    *models.GeoPoint `json:"location"`
}

// RegisterShop creates a pending shop for the authenticated account and
// marks the account a pending shopkeeper until an admin decides.
func (sc *ShopController) RegisterShop(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentActor(w, r, sc.Accounts)
	if !ok {
		return
	}
	if user.ShopID != nil {
		respondError(w, http.StatusBadRequest, "account already owns a shop")
		return
	}

	var input shopInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if input.Name == "" {
		respondError(w, http.StatusBadRequest, "shop name is required")
		return
	}

	shop := &models.Shop{
		OwnerID:     user.ID,
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
	}
	id, err := sc.Shops.Create(r.Context(), shop)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	shop.ID = id

	if err := sc.Accounts.SetShop(r.Context(), user.ID, id); err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user.Role == models.RoleCustomer {
		if err := sc.Accounts.SetRole(r.Context(), user.ID, models.RolePendingShopkeeper); err != nil {
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	respondJSON(w, http.StatusCreated, shop)
}

// ListShops returns approved shops
func (sc *ShopController) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := sc.Shops.ListByStatus(r.Context(), models.ShopApproved)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, shops)
}

// NearbyShops returns approved shops around a point, nearest first
func (sc *ShopController) NearbyShops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	if errLng != nil || errLat != nil {
		respondError(w, http.StatusBadRequest, "lng and lat query parameters are required")
		return
	}
	radius := 5000.0
	if v := q.Get("radius"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "invalid radius")
			return
		}
		radius = parsed
	}

	shops, err := sc.Shops.Near(r.Context(), lng, lat, radius)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, shops)
}

// GetShop returns one shop
func (sc *ShopController) GetShop(w http.ResponseWriter, r *http.Request) {
	shopID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	shop, err := sc.Shops.GetByID(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "shop not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, shop)
}

// UpdateShop lets the owner edit their shop. Editing a rejected shop
// resubmits it for approval.
func (sc *ShopController) UpdateShop(w http.ResponseWriter, r *http.Request) {
	user, actor, ok := currentActor(w, r, sc.Accounts)
	if !ok {
		return
	}
	shopID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	shop, err := sc.Shops.GetByID(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "shop not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user.Role != models.RoleAdmin && shop.OwnerID != user.ID {
		respondError(w, http.StatusForbidden, "not your shop")
		return
	}

	var input shopInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if input.Name == "" {
		input.Name = shop.Name
	}

	if err := sc.Shops.Update(r.Context(), shopID, input.Name, input.Description, input.Location); err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	shop.Name = input.Name
	shop.Description = input.Description
	if input.Location != nil {
		shop.Location = input.Location
	}

	if shop.Status == models.ShopRejected {
		resubmitted, err := sc.Onboarding.Resubmit(r.Context(), shopID, actor)
		if err != nil {
			respondWorkflowError(w, err)
			return
		}
		shop.Status = resubmitted.Status
		shop.RejectionReason = resubmitted.RejectionReason
	}

	respondJSON(w, http.StatusOK, shop)
}

// PendingShops lists shops awaiting a decision (admin)
func (sc *ShopController) PendingShops(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, sc.Accounts)
	if !ok {
		return
	}
	if actor.Role != models.RoleAdmin {
		respondError(w, http.StatusForbidden, "admin only")
		return
	}

	shops, err := sc.Shops.ListByStatus(r.Context(), models.ShopPending)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, shops)
}

// DecideShop approves or rejects a pending shop (admin)
func (sc *ShopController) DecideShop(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, sc.Accounts)
	if !ok {
		return
	}
	shopID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var input struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	shop, err := sc.Onboarding.Decide(r.Context(), shopID, models.ShopStatus(input.Decision), input.Reason, actor)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, shop)
}
