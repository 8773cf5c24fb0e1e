package models

import (
	"time"
)

// Status order
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Status pembayaran order
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusCancelled = "cancelled"
)

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"column:user_id;index;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"-"`

	Status        string `gorm:"column:status;size:20;not null;default:pending;index" json:"status"`
	PaymentStatus string `gorm:"column:payment_status;size:20;not null;default:pending;index" json:"payment_status"`

	// Ledger harga, semua dalam rupiah.
	Subtotal          int64 `gorm:"column:subtotal;not null" json:"subtotal"`
	ShippingCost      int64 `gorm:"column:shipping_cost;not null" json:"shipping_cost"`
	FinalShippingCost int64 `gorm:"column:final_shipping_cost;not null" json:"final_shipping_cost"`
	DiscountAmount    int64 `gorm:"column:discount_amount;not null;default:0" json:"discount_amount"`
	GrandTotal        int64 `gorm:"column:grand_total;not null" json:"grand_total"`

	// Alamat penerima
	ReceiverName     string `gorm:"column:receiver_name;size:255" json:"receiver_name"`
	ReceiverPhone    string `gorm:"column:receiver_phone;size:32" json:"receiver_phone"`
	Address          string `gorm:"column:address;type:text" json:"address"`
	Province         string `gorm:"column:province;size:100" json:"province"`
	City             string `gorm:"column:city;size:100" json:"city"`
	Subdistrict      string `gorm:"column:subdistrict;size:100" json:"subdistrict"`
	PostalCode       string `gorm:"column:postal_code;size:10" json:"postal_code"`
	ShippingCourier  string `gorm:"column:shipping_courier;size:50" json:"shipping_courier"`
	ShippingService  string `gorm:"column:shipping_service;size:50" json:"shipping_service"`

	// Transaction id dari gateway, diisi setelah payment intent dibuat.
	TransactionID *string `gorm:"column:transaction_id;index" json:"transaction_id"`

	Items   []OrderItem   `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Coupons []OrderCoupon `gorm:"foreignKey:OrderID" json:"coupons,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem menyimpan snapshot harga saat order dibuat.
// UnitPrice tidak pernah dihitung ulang setelahnya.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	OrderID   uint  `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID uint  `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int   `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice int64 `gorm:"column:unit_price;not null" json:"unit_price"`
	Subtotal  int64 `gorm:"column:subtotal;not null" json:"subtotal"`

	ProductName string `gorm:"column:product_name;size:255" json:"product_name"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderCoupon mencatat breakdown kupon yang diterapkan, urut sesuai input.
type OrderCoupon struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OrderID  uint   `gorm:"column:order_id;index;not null" json:"order_id"`
	CouponID uint   `gorm:"column:coupon_id;not null" json:"coupon_id"`
	Code     string `gorm:"column:code;size:64;not null" json:"code"`
	Target   string `gorm:"column:target;size:20;not null" json:"target"` // subtotal | shipping
	Amount   int64  `gorm:"column:amount;not null" json:"amount"`
	Position int    `gorm:"column:position;not null" json:"position"`
}

func (OrderCoupon) TableName() string {
	return "order_coupons"
}
