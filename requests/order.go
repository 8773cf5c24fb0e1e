package requests

type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Price     int64  `json:"price" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	CouponCodes []string           `json:"coupon_code"`

	ShippingCost    int64  `json:"shipping_cost" binding:"gte=0"`
	ShippingCourier string `json:"shipping_courier"`
	ShippingService string `json:"shipping_service"`

	ReceiverName  string `json:"receiver_name" binding:"required"`
	ReceiverPhone string `json:"receiver_phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	Province      string `json:"province" binding:"required"`
	City          string `json:"city" binding:"required"`
	Subdistrict   string `json:"subdistrict"`
	PostalCode    string `json:"postal_code"`

	// Total versi client, direkonsiliasi terhadap hitungan server
	// dengan toleransi pembulatan 1 rupiah.
	TotalPrice int64 `json:"total_price" binding:"required,gt=0"`
}

type UpdateOrderStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	PaymentStatus string `json:"payment_status"`
}
