package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/requests"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/services"

	"github.com/gin-gonic/gin"
)

var notificationService *services.NotificationService

func InitWebhookController(s *services.NotificationService) {
	notificationService = s
}

// HandlePaymentWebhook menerima notifikasi pembayaran dari Midtrans.
// Endpoint publik; autentisitas dijamin oleh verifikasi signature di service.
// Gateway me-retry sampai dapat 200, jadi duplikat dijawab 200 juga.
func HandlePaymentWebhook(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var notification requests.MidtransNotification
	if err := json.Unmarshal(bodyBytes, &notification); err != nil {
		log.Printf("Error parsing webhook JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	result, err := notificationService.Process(c.Request.Context(), notification, bodyBytes)
	if err != nil {
		respondWebhookError(c, err)
		return
	}

	if result.Duplicate {
		c.JSON(http.StatusOK, gin.H{
			"message":         "Notification already processed",
			"previous_status": result.PreviousStatus,
			"new_status":      result.NewStatus,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Notification processed",
		"previous_status": result.PreviousStatus,
		"new_status":      result.NewStatus,
	})
}

func respondWebhookError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, services.ErrMerchantMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown merchant"})
	case errors.Is(err, services.ErrSignatureVerificationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
	default:
		log.Printf("webhook processing error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process notification"})
	}
}
