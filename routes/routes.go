package routes

import (
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/controllers"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/middleware"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/websocket"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// Webhook gateway: publik, autentisitas lewat signature.
	r.POST("/api/payments/midtrans/webhook", controllers.HandlePaymentWebhook)

	r.GET("/ws", websocket.HandleWebSocket)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/orders", controllers.CreateOrder)
		api.GET("/orders/:id", controllers.GetOrder)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	{
		admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
	}
}
