package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"

	"gorm.io/gorm"
)

// ConfirmationEnqueuer mengantre notifikasi konfirmasi order.
// Fire-and-forget: kegagalan enqueue tidak pernah membatalkan order.
type ConfirmationEnqueuer interface {
	EnqueueOrderConfirmation(orderID uint) error
}

type CreateOrderInput struct {
	UserID      uint
	Items       []LineInput
	CouponCodes []string

	ShippingCost    int64
	ShippingCourier string
	ShippingService string

	ReceiverName  string
	ReceiverPhone string
	Address       string
	Province      string
	City          string
	Subdistrict   string
	PostalCode    string

	// Total versi client untuk rekonsiliasi aritmetika.
	TotalPrice int64
}

type OrderResult struct {
	Order   *models.Order   `json:"order"`
	Applied []AppliedCoupon `json:"applied_coupons"`
	Payment *PaymentIntent  `json:"payment"`
}

type OrderService struct {
	db      *gorm.DB
	gateway PaymentGateway
	mailer  ConfirmationEnqueuer
}

func NewOrderService(db *gorm.DB, gateway PaymentGateway, mailer ConfirmationEnqueuer) *OrderService {
	return &OrderService{db: db, gateway: gateway, mailer: mailer}
}

// CreateOrder menjalankan seluruh pipeline pembuatan order dalam satu
// transaksi database: validasi harga/stok, kupon, rekonsiliasi total,
// penulisan order + decrement stok + increment pemakaian kupon, lalu
// pembuatan payment intent. Kegagalan di titik mana pun me-rollback
// semuanya; order setengah jadi tidak pernah terlihat.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Message: "order must contain at least one item"}
	}

	now := time.Now()
	var result *OrderResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		lines, subtotal, err := ReconcileLines(tx, in.Items, now)
		if err != nil {
			return err
		}

		byCode, err := loadCoupons(tx, in.CouponCodes)
		if err != nil {
			return err
		}

		dest := Destination{Province: in.Province, City: in.City, Subdistrict: in.Subdistrict}
		disc, err := ApplyCoupons(in.CouponCodes, byCode, subtotal, in.ShippingCost, dest, in.UserID, now)
		if err != nil {
			return err
		}

		grandTotal := disc.Subtotal + disc.ShippingCost
		if diff := grandTotal - in.TotalPrice; diff > 1 || diff < -1 {
			return &TotalMismatchError{Submitted: in.TotalPrice, Computed: grandTotal}
		}

		order := models.Order{
			UserID:            in.UserID,
			Status:            models.OrderStatusPending,
			PaymentStatus:     models.PaymentStatusPending,
			Subtotal:          subtotal,
			ShippingCost:      in.ShippingCost,
			FinalShippingCost: disc.ShippingCost,
			DiscountAmount:    disc.TotalDiscount,
			GrandTotal:        grandTotal,
			ReceiverName:      in.ReceiverName,
			ReceiverPhone:     in.ReceiverPhone,
			Address:           in.Address,
			Province:          in.Province,
			City:              in.City,
			Subdistrict:       in.Subdistrict,
			PostalCode:        in.PostalCode,
			ShippingCourier:   in.ShippingCourier,
			ShippingService:   in.ShippingService,
		}
		for _, line := range lines {
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   line.Product.ID,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Subtotal:    line.Subtotal,
				ProductName: line.Product.Name,
			})
		}
		for i, ac := range disc.Applied {
			order.Coupons = append(order.Coupons, models.OrderCoupon{
				CouponID: ac.CouponID,
				Code:     ac.Code,
				Target:   ac.Target,
				Amount:   ac.Amount,
				Position: i,
			})
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Decrement stok kondisional: dua order yang berebut unit terakhir
		// tidak mungkin dua-duanya lolos.
		for _, line := range lines {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.Product.ID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var current models.Product
				if err := tx.First(&current, line.Product.ID).Error; err != nil {
					current = line.Product
				}
				return &InsufficientStockError{
					ProductID:   line.Product.ID,
					ProductName: line.Product.Name,
					Requested:   line.Quantity,
					Available:   current.Stock,
				}
			}
		}

		// Increment pemakaian kupon, juga kondisional terhadap usage_limit.
		for _, ac := range disc.Applied {
			res := tx.Model(&models.Coupon{}).
				Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", ac.CouponID).
				UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &CouponRejectedError{Code: ac.Code, Reason: CouponReasonUsageLimit}
			}
		}

		intent, err := s.gateway.CreateIntent(ctx, tx, &order, &user, lines, disc.Applied)
		if err != nil {
			return err
		}

		if err := tx.Model(&order).Update("transaction_id", intent.TransactionID).Error; err != nil {
			return err
		}
		order.TransactionID = &intent.TransactionID

		result = &OrderResult{Order: &order, Applied: disc.Applied, Payment: intent}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Di luar transaksi: notifikasi konfirmasi best-effort.
	if s.mailer != nil {
		if err := s.mailer.EnqueueOrderConfirmation(result.Order.ID); err != nil {
			slog.Warn("failed to enqueue order confirmation", "order_id", result.Order.ID, "err", err)
		}
	}

	return result, nil
}

// GetOrder memuat satu order milik user, lengkap dengan item dan kuponnya.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Coupons").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotFound
	}
	return &order, nil
}

// UpdateOrderStatus adalah jalur admin eksplisit untuk memindahkan status order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status, paymentStatus string) (*models.Order, error) {
	if !validOrderStatus(status) {
		return nil, &ValidationError{Message: "invalid order status: " + status}
	}
	if paymentStatus != "" && !validPaymentStatus(paymentStatus) {
		return nil, &ValidationError{Message: "invalid payment status: " + paymentStatus}
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if paymentStatus != "" {
		updates["payment_status"] = paymentStatus
	}
	if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func loadCoupons(tx *gorm.DB, codes []string) (map[string]*models.Coupon, error) {
	byCode := make(map[string]*models.Coupon, len(codes))
	if len(codes) == 0 {
		return byCode, nil
	}

	var coupons []models.Coupon
	if err := tx.Preload("CoverageAreas").Where("code IN ?", codes).Find(&coupons).Error; err != nil {
		return nil, err
	}
	for i := range coupons {
		byCode[coupons[i].Code] = &coupons[i]
	}
	return byCode, nil
}

func validOrderStatus(s string) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}

func validPaymentStatus(s string) bool {
	switch s {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed,
		models.PaymentStatusRefunded, models.PaymentStatusCancelled:
		return true
	}
	return false
}
