package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/cart"
	"localmart/models"
	"localmart/store"
)

// CartController handles cart requests. The cart lives client-side, keyed by
// the X-Cart-ID header (a per-device identifier), and is mirrored into the
// cart store on every mutation so a reload reconstructs it.
type CartController struct {
	Carts    *cart.Store
	Products store.ProductStore
	Shops    store.ShopStore
}

func NewCartController(carts *cart.Store, products store.ProductStore, shops store.ShopStore) *CartController {
	return &CartController{Carts: carts, Products: products, Shops: shops}
}

func cartKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := r.Header.Get("X-Cart-ID")
	if key == "" {
		respondError(w, http.StatusBadRequest, "X-Cart-ID header is required")
		return "", false
	}
	return key, true
}

// GetCart returns the current snapshot
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKey(w, r)
	if !ok {
		return
	}

	snapshot, err := cc.Carts.Load(r.Context(), key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// AddToCart adds one unit of a product, merging with an existing line.
// Price and shop metadata come from the catalog, never from the client.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKey(w, r)
	if !ok {
		return
	}

	var input struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product_id")
		return
	}

	product, err := cc.Products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	shop, err := cc.Shops.GetByID(r.Context(), product.ShopID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if shop.Status != models.ShopApproved {
		respondError(w, http.StatusBadRequest, "shop is not accepting orders")
		return
	}

	line := models.CartLine{
		ProductID: product.ID,
		ShopID:    shop.ID,
		ShopName:  shop.Name,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		UnitPrice: product.Price,
	}

	cc.mutate(w, r, key, func(c models.Cart) models.Cart {
		return cart.AddItem(c, line)
	})
}

// UpdateQuantity replaces a line's quantity; zero or less removes the line
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKey(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, mux.Vars(r), "product_id")
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	cc.mutate(w, r, key, func(c models.Cart) models.Cart {
		return cart.UpdateQuantity(c, productID, input.Quantity)
	})
}

// RemoveFromCart removes a line
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKey(w, r)
	if !ok {
		return
	}
	productID, ok := pathID(w, mux.Vars(r), "product_id")
	if !ok {
		return
	}

	cc.mutate(w, r, key, func(c models.Cart) models.Cart {
		return cart.RemoveItem(c, productID)
	})
}

// ClearCart drops every line
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKey(w, r)
	if !ok {
		return
	}

	cc.mutate(w, r, key, func(models.Cart) models.Cart {
		return cart.Clear()
	})
}

// ClearShopItems drops every line belonging to one shop
func (cc *CartController) ClearShopItems(w http.ResponseWriter, r *http.Request) {
	key, ok := cartKey(w, r)
	if !ok {
		return
	}
	shopID, ok := pathID(w, mux.Vars(r), "shop_id")
	if !ok {
		return
	}

	cc.mutate(w, r, key, func(c models.Cart) models.Cart {
		return cart.ClearShopItems(c, shopID)
	})
}

// mutate loads the snapshot, applies fn and persists the result, responding
// with the new snapshot.
func (cc *CartController) mutate(w http.ResponseWriter, r *http.Request, key string, fn func(models.Cart) models.Cart) {
	snapshot, err := cc.Carts.Load(r.Context(), key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	snapshot = fn(snapshot)

	if err := cc.Carts.Save(r.Context(), key, snapshot); err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}
