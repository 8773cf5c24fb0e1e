package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/requests"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/services"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/utils"

	"github.com/gin-gonic/gin"
)

var orderService *services.OrderService

// InitOrderController di-wire dari main setelah service siap.
func InitOrderController(s *services.OrderService) {
	orderService = s
}

func CreateOrder(c *gin.Context) {
	var req requests.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uint)

	items := make([]services.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := utils.DecryptID(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
			return
		}
		items = append(items, services.LineInput{
			ProductID: productID,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	result, err := orderService.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		UserID:          userID,
		Items:           items,
		CouponCodes:     req.CouponCodes,
		ShippingCost:    req.ShippingCost,
		ShippingCourier: req.ShippingCourier,
		ShippingService: req.ShippingService,
		ReceiverName:    req.ReceiverName,
		ReceiverPhone:   req.ReceiverPhone,
		Address:         req.Address,
		Province:        req.Province,
		City:            req.City,
		Subdistrict:     req.Subdistrict,
		PostalCode:      req.PostalCode,
		TotalPrice:      req.TotalPrice,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	orderToken, err := utils.EncryptID(result.Order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode order id"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created",
		"data": gin.H{
			"order_id":            orderToken,
			"subtotal":            result.Order.Subtotal,
			"shipping_cost":       result.Order.ShippingCost,
			"final_shipping_cost": result.Order.FinalShippingCost,
			"discount_amount":     result.Order.DiscountAmount,
			"grand_total":         result.Order.GrandTotal,
			"applied_coupons":     result.Applied,
			"payment": gin.H{
				"token":          result.Payment.Token,
				"redirect_url":   result.Payment.RedirectURL,
				"transaction_id": result.Payment.TransactionID,
			},
		},
	})
}

func GetOrder(c *gin.Context) {
	orderID, err := utils.DecryptID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	userID := c.MustGet("userID").(uint)

	order, err := orderService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orderView(order)})
}

// UpdateOrderStatus adalah jalur admin untuk memindahkan status order secara
// eksplisit (mis. shipped/delivered), terpisah dari rekonsiliasi webhook.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := utils.DecryptID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	var req requests.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, req.PaymentStatus)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "data": orderView(order)})
}

// orderView menyusun representasi order untuk response, dengan semua
// primary key diganti token opaque.
func orderView(order *models.Order) gin.H {
	orderToken, _ := utils.EncryptID(order.ID)

	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		productToken, _ := utils.EncryptID(item.ProductID)
		items = append(items, gin.H{
			"product_id":   productToken,
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"unit_price":   item.UnitPrice,
			"subtotal":     item.Subtotal,
		})
	}

	coupons := make([]gin.H, 0, len(order.Coupons))
	for _, oc := range order.Coupons {
		coupons = append(coupons, gin.H{
			"code":   oc.Code,
			"target": oc.Target,
			"amount": oc.Amount,
		})
	}

	return gin.H{
		"id":                  orderToken,
		"status":              order.Status,
		"payment_status":      order.PaymentStatus,
		"subtotal":            order.Subtotal,
		"shipping_cost":       order.ShippingCost,
		"final_shipping_cost": order.FinalShippingCost,
		"discount_amount":     order.DiscountAmount,
		"grand_total":         order.GrandTotal,
		"receiver_name":       order.ReceiverName,
		"address":             order.Address,
		"city":                order.City,
		"items":               items,
		"coupons":             coupons,
		"created_at":          order.CreatedAt,
	}
}

func respondOrderError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		priceErr      *services.PriceMismatchError
		stockErr      *services.InsufficientStockError
		couponErr     *services.CouponRejectedError
		totalErr      *services.TotalMismatchError
		gatewayErr    *services.GatewayError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &priceErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Price mismatch, please refresh your cart",
			"lines": priceErr.Lines,
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     stockErr.Error(),
			"product":   stockErr.ProductName,
			"available": stockErr.Available,
		})
	case errors.As(err, &couponErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  couponErr.Error(),
			"code":   couponErr.Code,
			"reason": couponErr.Reason,
		})
	case errors.Is(err, services.ErrOverDiscounted):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Applied coupons exceed order value"})
	case errors.As(err, &totalErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Total mismatch",
			"submitted": totalErr.Submitted,
			"computed":  totalErr.Computed,
		})
	case errors.As(err, &gatewayErr):
		log.Printf("payment gateway error: %v", gatewayErr)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable, please retry"})
	default:
		log.Printf("order error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
