package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/authz"
	"localmart/models"
	"localmart/store"
)

// ProductController handles catalog requests
type ProductController struct {
	Products store.ProductStore
	Shops    store.ShopStore
	Accounts store.AccountStore
}

func NewProductController(products store.ProductStore, shops store.ShopStore, accounts store.AccountStore) *ProductController {
	return &ProductController{Products: products, Shops: shops, Accounts: accounts}
}

// GetProducts lists products of approved shops only. Products of pending or
// rejected shops stay manageable by their owner but are never listed here.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	shops, err := pc.Shops.ListByStatus(r.Context(), models.ShopApproved)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	shopIDs := make([]primitive.ObjectID, 0, len(shops))
	for _, s := range shops {
		shopIDs = append(shopIDs, s.ID)
	}

	products, err := pc.Products.ListByShops(r.Context(), shopIDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GetProductByID returns one product
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	product, err := pc.Products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GetShopProducts lists one shop's products
func (pc *ProductController) GetShopProducts(w http.ResponseWriter, r *http.Request) {
	shopID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	products, err := pc.Products.ListByShop(r.Context(), shopID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

type productInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

// CreateProduct adds a product to the caller's shop
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, pc.Accounts)
	if !ok {
		return
	}
	if actor.ShopID == nil {
		respondError(w, http.StatusForbidden, "no shop")
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if input.Name == "" || input.Price <= 0 {
		respondError(w, http.StatusBadRequest, "name and a positive price are required")
		return
	}

	product := &models.Product{
		ShopID:      *actor.ShopID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
	}
	if d := authz.CheckProduct(actor, product); !d.Allowed {
		respondError(w, http.StatusForbidden, d.Reason)
		return
	}

	id, err := pc.Products.Create(r.Context(), product)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	product.ID = id

	if err := pc.Shops.IncProductCount(r.Context(), product.ShopID, 1); err != nil {
		// The count is a display value; log and move on.
		log.Printf("failed to bump product count for shop %s: %v", product.ShopID.Hex(), err)
	}

	respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct edits a product of the caller's shop
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, pc.Accounts)
	if !ok {
		return
	}
	productID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	product, err := pc.Products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if d := authz.CheckProduct(actor, product); !d.Allowed {
		respondError(w, http.StatusForbidden, d.Reason)
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	product.Description = input.Description
	product.ImageURL = input.ImageURL
	product.Category = input.Category

	if err := pc.Products.Update(r.Context(), product); err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product from the caller's shop
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r, pc.Accounts)
	if !ok {
		return
	}
	productID, ok := pathID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	product, err := pc.Products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if d := authz.CheckProduct(actor, product); !d.Allowed {
		respondError(w, http.StatusForbidden, d.Reason)
		return
	}

	if err := pc.Products.Delete(r.Context(), productID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := pc.Shops.IncProductCount(r.Context(), product.ShopID, -1); err != nil {
		log.Printf("failed to drop product count for shop %s: %v", product.ShopID.Hex(), err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
