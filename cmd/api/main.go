package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/primetaxi/backend/internal/database"
	"github.com/primetaxi/backend/internal/handlers"
	"github.com/primetaxi/backend/internal/middleware"
	"github.com/primetaxi/backend/internal/models"
	"github.com/primetaxi/backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	gateway := services.NewStripeGateway(
		os.Getenv("STRIPE_SECRET_KEY"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
	)
	settings := services.NewSettingsStore(services.RedisClient)
	marker := services.NewEventMarker(services.RedisClient)
	dispatcher := services.NewNotificationDispatcher(services.NewMailer())
	bookingStore := services.NewBookingStore(db)
	bookingService := services.NewBookingService(bookingStore, gateway, dispatcher, marker, settings)

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		// Public routes
		api.POST("/bookings", handlers.CreateBooking(bookingService))
		api.GET("/bookings/:id", handlers.GetBooking(db))
		api.GET("/tours", handlers.ListTours(db))
		api.GET("/tours/:slug", handlers.GetTourBySlug(db))
		api.POST("/contact", handlers.SubmitContact(db))
		api.POST("/payments/intent", handlers.CreatePaymentIntent(gateway, settings))

		api.POST("/stripe/webhook", handlers.StripeWebhook(gateway, bookingService))

		api.POST("/auth/login", handlers.Login(db))
		api.POST("/setup", handlers.Setup(db))

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/dashboard", handlers.GetDashboardStats(db))
			admin.GET("/analytics", handlers.GetAnalytics(db))

			admin.GET("/bookings", handlers.ListBookings(db))
			admin.GET("/bookings/:id", handlers.GetAdminBooking(db))
			admin.PATCH("/bookings/:id", handlers.UpdateBooking(db))
			admin.POST("/bookings/:id/cancel", handlers.CancelBooking(db))

			admin.GET("/tours", handlers.ListAllTours(db))
			admin.POST("/tours", handlers.CreateTour(db))
			admin.PUT("/tours/:id", handlers.UpdateTour(db))
			admin.DELETE("/tours/:id", handlers.DeleteTour(db))

			admin.GET("/drivers", handlers.ListDrivers(db))
			admin.POST("/drivers", handlers.CreateDriver(db))
			admin.GET("/drivers/:id", handlers.GetDriver(db))
			admin.PATCH("/drivers/:id", handlers.UpdateDriver(db))
			admin.DELETE("/drivers/:id", handlers.DeleteDriver(db))

			admin.GET("/vehicles", handlers.ListVehicles(db))
			admin.POST("/vehicles", handlers.CreateVehicle(db))
			admin.GET("/vehicles/:id", handlers.GetVehicle(db))
			admin.PATCH("/vehicles/:id", handlers.UpdateVehicle(db))
			admin.DELETE("/vehicles/:id", handlers.DeleteVehicle(db))

			admin.GET("/messages", handlers.ListContactSubmissions(db))
			admin.GET("/messages/:id", handlers.GetContactSubmission(db))
			admin.PATCH("/messages/:id", handlers.UpdateContactSubmission(db))
			admin.DELETE("/messages/:id", handlers.DeleteContactSubmission(db))

			admin.GET("/settings", handlers.GetSettings(settings))
			admin.PUT("/settings", handlers.UpdateSettings(settings))

			admin.POST("/uploads", handlers.UploadImage())
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
