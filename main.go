package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/notify"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Printf("category index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	if config.AppEnv.Seed {
		if err := database.Seed(db); err != nil {
			log.Printf("seed warning: %v", err)
		}
	}

	dispatcher := notify.NewDispatcher(
		notify.NewResendSender(config.AppEnv.ResendAPIKey),
		config.AppEnv.EmailFrom,
		config.AppEnv.InternalEmail,
		config.AppEnv.SendTimeout,
	)

	carts := cart.NewStore()

	r := gin.Default()

	api := r.Group("/api")
	{
		api.GET("/products", handlers.GetProducts(db))
		api.POST("/products", handlers.CreateProduct(db))
		api.GET("/products/:id", handlers.GetProduct(db))
		api.PUT("/products/:id", handlers.UpdateProduct(db))
		api.DELETE("/products/:id", handlers.DeleteProduct(db))

		api.GET("/categories", handlers.GetCategories(db))

		api.GET("/orders", handlers.GetOrders(db))
		api.POST("/orders", handlers.CreateOrder(db, dispatcher))

		api.POST("/send", handlers.SendOrderEmails(dispatcher))

		api.GET("/cart", handlers.GetCart(carts))
		api.POST("/cart/items", handlers.AddCartItem(db, carts))
		api.PUT("/cart/items/:productId", handlers.UpdateCartItem(carts))
		api.DELETE("/cart/items/:productId", handlers.RemoveCartItem(carts))
		api.DELETE("/cart", handlers.ClearCart(carts))

		api.GET("/admin/stats", handlers.AdminStats(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
