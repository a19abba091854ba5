// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"localmart/cart"
	"localmart/controllers"
	"localmart/middleware"
	"localmart/notify"
	"localmart/routes"
	"localmart/store"
	"localmart/utils"
	"localmart/workflow"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Connect to MongoDB
	ctx := context.Background()
	client, err := utils.ConnectDB(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	stores := store.NewMongo(client.Database(getEnv("MONGO_DB_NAME", "localmart")))

	// Redis holds the persisted cart blobs
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer redisClient.Close()
	carts := cart.NewStore(redisClient)

	// Notification channels: email to the owner, plus a decision event
	// stream when kafka brokers are configured
	emailService := utils.NewEmailService()
	events := notify.NewEventPublisher(os.Getenv("KAFKA_BROKERS"), getEnv("KAFKA_TOPIC", "shop-decisions"))
	defer events.Close()
	notifier := notify.Multi{notify.NewEmailNotifier(emailService), events}

	// Workflows
	pricing := workflow.Pricing{
		TaxRate:         getEnvFloat("TAX_RATE", 0.075),
		DeliveryPerShop: getEnvFloat("DELIVERY_FEE_PER_SHOP", 5),
	}
	orders := workflow.NewOrders(stores.Orders, pricing)
	onboarding := workflow.NewShops(stores.Shops, stores.Accounts, notifier)

	// Initialize controllers
	userController := controllers.NewUserController(stores.Accounts, emailService)
	productController := controllers.NewProductController(stores.Products, stores.Shops, stores.Accounts)
	cartController := controllers.NewCartController(carts, stores.Products, stores.Shops)
	orderController := controllers.NewOrderController(orders, stores.Accounts, carts)
	shopController := controllers.NewShopController(stores.Shops, stores.Accounts, onboarding)

	// Set up the router
	router := mux.NewRouter()
	metrics := middleware.NewServerMetrics()
	router.Use(metrics.Middleware)
	router.Handle("/metrics", middleware.Handler()).Methods("GET")

	// Register routes
	routes.RegisterRoutes(router, userController, productController, cartController, orderController, shopController)

	// Start the server
	port := getEnv("PORT", "8000")
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s %q, using %v", key, v, fallback)
		return fallback
	}
	return parsed
}
