package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/zora"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureCartIndexes(db); err != nil {
		log.Println("⚠️ cart index warning:", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.AppEnv.RedisAddr,
		Password: config.AppEnv.RedisPassword,
	})

	carts := cart.NewService(cart.NewMongoRepository(db), cart.NewRedisCache(redisClient))
	api := zora.NewClient(config.AppEnv.ZoraAPIURL, config.AppEnv.ZoraAPITimeout)
	workflow := checkout.NewService(carts, api)

	if err := handlers.RegisterValidations(); err != nil {
		log.Fatal(err)
	}

	r := gin.Default()

	session := r.Group("/")
	session.Use(middleware.CartSession(config.AppEnv.JWTSecret))
	{
		session.GET("/cart", handlers.GetCart(carts))
		session.POST("/cart/items", handlers.AddToCart(carts))
		session.POST("/cart/items/:productId/increase", handlers.IncreaseQuantity(carts))
		session.POST("/cart/items/:productId/decrease", handlers.DecreaseQuantity(carts))
		session.DELETE("/cart/items/:productId", handlers.RemoveFromCart(carts))
		session.DELETE("/cart", handlers.ClearCart(carts))
	}

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.POST("/checkout", handlers.Checkout(workflow))
		user.GET("/orders", handlers.ListOrders(api))
		user.GET("/orders/:id", handlers.GetOrder(api))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
