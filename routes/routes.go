// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"localmart/controllers"
	"localmart/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController, shopController *controllers.ShopController) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")

	// Catalog
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")
	router.HandleFunc("/shops", shopController.ListShops).Methods("GET")
	router.HandleFunc("/shops/near", shopController.NearbyShops).Methods("GET")
	router.HandleFunc("/shops/{id}", shopController.GetShop).Methods("GET")
	router.HandleFunc("/shops/{id}/products", productController.GetShopProducts).Methods("GET")

	// Cart routes, keyed by the X-Cart-ID header; anonymous shoppers allowed
	router.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	router.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	router.HandleFunc("/cart/items", cartController.AddToCart).Methods("POST")
	router.HandleFunc("/cart/items/{product_id}", cartController.UpdateQuantity).Methods("PUT")
	router.HandleFunc("/cart/items/{product_id}", cartController.RemoveFromCart).Methods("DELETE")
	router.HandleFunc("/cart/shops/{shop_id}", cartController.ClearShopItems).Methods("DELETE")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")

	// Orders
	protected.HandleFunc("/orders", orderController.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders", orderController.GetMyOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", orderController.GetOrder).Methods("GET")
	protected.HandleFunc("/orders/{id}/status", orderController.UpdateOrderStatus).Methods("PATCH")
	protected.HandleFunc("/orders/{id}/cancel", orderController.CancelOrder).Methods("POST")

	// Shop management
	protected.HandleFunc("/shops", shopController.RegisterShop).Methods("POST")
	protected.HandleFunc("/shops/{id}", shopController.UpdateShop).Methods("PUT")
	protected.HandleFunc("/shops/{id}/orders", orderController.GetShopOrders).Methods("GET")
	protected.HandleFunc("/shop/products", productController.CreateProduct).Methods("POST")
	protected.HandleFunc("/shop/products/{id}", productController.UpdateProduct).Methods("PUT")
	protected.HandleFunc("/shop/products/{id}", productController.DeleteProduct).Methods("DELETE")

	// Admin routes; the onboarding workflow enforces the admin requirement
	protected.HandleFunc("/admin/shops/pending", shopController.PendingShops).Methods("GET")
	protected.HandleFunc("/admin/shops/{id}/decision", shopController.DecideShop).Methods("POST")
}
