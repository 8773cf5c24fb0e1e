package main

import (
	"log"
	"os"
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/config"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/controllers"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/jobs"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/routes"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/services"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/utils"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	r := gin.Default()

	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("FRONTEND_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Database
	config.ConnectDB()
	config.DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Coupon{},
		&models.CouponCoverageArea{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCoupon{},
		&models.PaymentTransaction{},
	)

	// Redis untuk asynq + lock
	config.InitRedis()

	// Codec untuk id opaque
	if err := utils.InitIDCodec(os.Getenv("ID_SECRET")); err != nil {
		log.Fatal("Failed to initialize ID codec: ", err)
	}

	midtransCfg := config.LoadMidtrans()
	gateway := services.NewMidtransGateway(midtransCfg)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer asynqClient.Close()
	dispatcher := jobs.NewDispatcher(asynqClient)

	websocket.Manager.Start()

	orderService := services.NewOrderService(config.DB, gateway, dispatcher)
	notificationService := services.NewNotificationService(
		config.DB, gateway, midtransCfg, dispatcher, websocket.Broadcaster{})

	controllers.InitOrderController(orderService)
	controllers.InitWebhookController(notificationService)

	go startWorker()

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func startWorker() {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		asynq.Config{Concurrency: 5},
	)

	mailerCfg := jobs.MailerConfig{
		BaseURL: os.Getenv("MAILER_BASE_URL"),
		APIKey:  os.Getenv("MAILER_API_KEY"),
	}

	mux := asynq.NewServeMux()
	mux.Handle(jobs.TaskOrderConfirmation, jobs.NewEmailProcessor(config.DB, config.RDB, mailerCfg))

	if err := srv.Run(mux); err != nil {
		log.Fatal("Failed to start worker: ", err)
	}
}
