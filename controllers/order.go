package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"localmart/authz"
	"localmart/cart"
	"localmart/models"
	"localmart/store"
	"localmart/workflow"
)

// OrderController handles checkout and order lifecycle requests
type OrderController struct {
	Orders   *workflow.Orders
	Accounts store.AccountStore
	Carts    *cart.Store
}

func NewOrderController(orders *workflow.Orders, accounts store.AccountStore, carts *cart.Store) *OrderController {
	return &OrderController{Orders: orders, Accounts: accounts, Carts: carts}
}

// CreateOrder turns the device's cart snapshot into a pending order and
// clears the cart on success.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentActor(w, r, oc.Accounts)
	if !ok {
		return
	}
	key, ok := cartKey(w, r)
	if !ok {
		return
	}

	var input struct {
		DeliveryAddress      *models.Address `json:"delivery_address"`
		PaymentMethod        string          `json:"payment_method"`
		OrderType            string          `json:"order_type"`
		ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	snapshot, err := oc.Carts.Load(r.Context(), key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Fall back to the address on file when none is supplied.
	address := user.Address
	if input.DeliveryAddress != nil {
		address = *input.DeliveryAddress
	}

	order, err := oc.Orders.Create(r.Context(), workflow.CreateOrderInput{
		CustomerID:           user.ID,
		Cart:                 snapshot,
		DeliveryAddress:      address,
		PaymentMethod:        input.PaymentMethod,
		OrderType:            models.OrderType(input.OrderType),
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
	})
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	if err := oc.Carts.Delete(r.Context(), key); err != nil {
		// The order exists; a stale cart blob is only a nuisance.
		log.Printf("failed to clear cart %s after checkout: %v", key, err)
	}

	respondJSON(w, http.StatusCreated, order)
}

// GetMyOrders lists the authenticated customer's orders, newest first
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentActor(w, r, oc.Accounts)
	if !ok {
		return
	}

	orders, err := oc.Orders.ListForCustomer(r.Context(), user.ID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetShopOrders lists orders routed to a shop, newest first
func (oc *OrderController) GetShopOrders(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, oc.Accounts)
	if !ok {
		return
	}
	shopID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	if d := authz.CheckShopOrders(actor, shopID); !d.Allowed {
		respondError(w, http.StatusForbidden, d.Reason)
		return
	}

	orders, err := oc.Orders.ListForShop(r.Context(), shopID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order if the guard permits the caller to read it
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, oc.Accounts)
	if !ok {
		return
	}
	orderID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	order, err := oc.Orders.Get(r.Context(), orderID, actor)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus moves an order along its lifecycle
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, oc.Accounts)
	if !ok {
		return
	}
	orderID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	order, err := oc.Orders.SetStatus(r.Context(), orderID, models.OrderStatus(input.Status), actor)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// CancelOrder cancels a pending or processing order, recording the reason
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, oc.Accounts)
	if !ok {
		return
	}
	orderID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	order, err := oc.Orders.Cancel(r.Context(), orderID, input.Reason, actor)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
