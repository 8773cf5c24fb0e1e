package services

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/config"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/requests"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMerchantMismatch            = errors.New("merchant id does not match configured partner")
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
)

// StatusBroadcaster mendorong transisi status ke client yang subscribe.
type StatusBroadcaster interface {
	BroadcastPaymentStatus(orderID uint, transactionID, status string)
}

type NotificationResult struct {
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Duplicate      bool   `json:"duplicate"`
}

type NotificationService struct {
	db          *gorm.DB
	gateway     PaymentGateway
	cfg         config.MidtransConfig
	mailer      ConfirmationEnqueuer
	broadcaster StatusBroadcaster

	// Batas waktu cross-check status otoritatif; lewat dari ini
	// notifikasi tetap jalan tanpa cross-check.
	checkTimeout time.Duration
}

func NewNotificationService(
	db *gorm.DB,
	gateway PaymentGateway,
	cfg config.MidtransConfig,
	mailer ConfirmationEnqueuer,
	broadcaster StatusBroadcaster,
) *NotificationService {
	return &NotificationService{
		db:           db,
		gateway:      gateway,
		cfg:          cfg,
		mailer:       mailer,
		broadcaster:  broadcaster,
		checkTimeout: 5 * time.Second,
	}
}

// Process memproses satu notifikasi webhook. Aman dipanggil berulang untuk
// notifikasi yang sama: delivery duplikat jadi no-op dengan hasil identik.
// Setiap gate yang gagal menghentikan pemrosesan tanpa perubahan state.
func (s *NotificationService) Process(ctx context.Context, n requests.MidtransNotification, rawBody []byte) (*NotificationResult, error) {
	// Gate 1: kelengkapan field.
	if n.OrderID == "" || n.StatusCode == "" || n.GrossAmount == "" ||
		n.SignatureKey == "" || n.TransactionStatus == "" || n.MerchantID == "" {
		return nil, &ValidationError{Message: "incomplete notification payload"}
	}

	// Gate 2: identitas merchant, sebelum lookup apa pun.
	if n.MerchantID != s.cfg.MerchantID {
		return nil, ErrMerchantMismatch
	}

	// Gate 3: signature. Satu-satunya gate autentisitas; tidak ada yang
	// boleh dipercaya di bawah ini tanpa ini lolos.
	expected := computeSignature(n.OrderID, n.StatusCode, n.GrossAmount, s.cfg.ServerKey)
	if expected != n.SignatureKey {
		slog.Warn("webhook signature mismatch",
			"transaction_id", n.OrderID,
			"expected", expected,
			"received", n.SignatureKey)
		return nil, ErrSignatureVerificationFailed
	}

	// Cross-check otoritatif, best-effort dan di luar transaksi database.
	// Gateway yang tumbang tidak boleh menghentikan rekonsiliasi.
	s.crossCheck(ctx, n)

	mapped, known := MapGatewayStatus(n.TransactionStatus, n.FraudStatus)

	var result *NotificationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn models.PaymentTransaction
		err := tx.Where("transaction_id = ? AND merchant_id = ?", n.OrderID, n.MerchantID).
			First(&txn).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		prev := txn.Status

		// Idempotency: settlement/capture-sukses yang datang lagi setelah
		// transaksi sudah success adalah duplikat, bukan error.
		if prev == models.TxStatusSuccess && isSuccessNotification(n) {
			result = &NotificationResult{PreviousStatus: prev, NewStatus: prev, Duplicate: true}
			return nil
		}

		if !known {
			slog.Warn("unknown transaction status from gateway",
				"transaction_id", n.OrderID, "transaction_status", n.TransactionStatus)
			result = &NotificationResult{PreviousStatus: prev, NewStatus: prev}
			return nil
		}

		if stored, err := decimal.NewFromString(n.GrossAmount); err == nil {
			if !stored.Equal(txn.GrossAmount) {
				slog.Warn("gross amount differs from stored transaction",
					"transaction_id", n.OrderID,
					"stored", txn.GrossAmount, "notified", stored)
			}
		}

		updates := map[string]interface{}{
			"status":           mapped,
			"gateway_response": datatypes.JSON(rawBody),
		}
		if n.PaymentType != "" && (txn.PaymentType == nil || *txn.PaymentType == "") {
			updates["payment_type"] = n.PaymentType
		}
		var paidAt time.Time
		if mapped == models.TxStatusSuccess {
			paidAt = settlementTime(n)
			updates["paid_at"] = &paidAt
		}

		// Compare-and-swap pada status lama: dua delivery yang balapan
		// diserialisasi di sini, hanya satu yang menang.
		res := tx.Model(&models.PaymentTransaction{}).
			Where("id = ? AND status = ?", txn.ID, prev).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.PaymentTransaction
			if err := tx.First(&current, txn.ID).Error; err != nil {
				return err
			}
			result = &NotificationResult{
				PreviousStatus: current.Status,
				NewStatus:      current.Status,
				Duplicate:      true,
			}
			return nil
		}

		if mapped == models.TxStatusSuccess {
			err := tx.Model(&models.Order{}).
				Where("id = ?", txn.OrderID).
				Updates(map[string]interface{}{
					"payment_status": models.PaymentStatusPaid,
					"status":         models.OrderStatusProcessing,
				}).Error
			if err != nil {
				return err
			}
		} else if mapped == models.TxStatusFailed {
			err := tx.Model(&models.Order{}).
				Where("id = ? AND payment_status = ?", txn.OrderID, models.PaymentStatusPending).
				Update("payment_status", models.PaymentStatusFailed).Error
			if err != nil {
				return err
			}
		}

		result = &NotificationResult{PreviousStatus: prev, NewStatus: mapped}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Efek samping best-effort, di luar transaksi.
	if !result.Duplicate && result.NewStatus != result.PreviousStatus {
		s.notifyTransition(n)
	}

	return result, nil
}

func (s *NotificationService) crossCheck(ctx context.Context, n requests.MidtransNotification) {
	if s.gateway == nil {
		return
	}
	checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	data, err := s.gateway.CheckStatus(checkCtx, n.OrderID)
	if err != nil {
		slog.Warn("authoritative status check unavailable",
			"transaction_id", n.OrderID, "err", err)
		return
	}
	if status, _ := data["transaction_status"].(string); status != "" && status != n.TransactionStatus {
		slog.Warn("notification status differs from authoritative status",
			"transaction_id", n.OrderID,
			"notified", n.TransactionStatus, "authoritative", status)
	}
}

func (s *NotificationService) notifyTransition(n requests.MidtransNotification) {
	var txn models.PaymentTransaction
	if err := s.db.Where("transaction_id = ? AND merchant_id = ?", n.OrderID, n.MerchantID).
		First(&txn).Error; err != nil {
		return
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPaymentStatus(txn.OrderID, txn.TransactionID, txn.Status)
	}
	if txn.Status == models.TxStatusSuccess && s.mailer != nil {
		if err := s.mailer.EnqueueOrderConfirmation(txn.OrderID); err != nil {
			slog.Warn("failed to enqueue payment confirmation", "order_id", txn.OrderID, "err", err)
		}
	}
}

// MapGatewayStatus menerjemahkan status gateway ke status internal.
// known=false berarti status tak dikenal dan dibiarkan lewat tanpa transisi.
func MapGatewayStatus(transactionStatus, fraudStatus string) (status string, known bool) {
	switch transactionStatus {
	case "capture":
		switch fraudStatus {
		case "accept":
			return models.TxStatusSuccess, true
		case "challenge":
			return models.TxStatusChallenge, true
		default:
			return models.TxStatusPending, true
		}
	case "settlement":
		return models.TxStatusSuccess, true
	case "pending":
		return models.TxStatusPending, true
	case "deny", "cancel", "expire", "failure":
		return models.TxStatusFailed, true
	default:
		return "", false
	}
}

func isSuccessNotification(n requests.MidtransNotification) bool {
	if n.TransactionStatus == "settlement" {
		return true
	}
	return n.TransactionStatus == "capture" && n.FraudStatus == "accept"
}

func computeSignature(orderID, statusCode, grossAmount, serverKey string) string {
	hash := sha512.New()
	hash.Write([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(hash.Sum(nil))
}

// settlementTime memakai settlement_time dari gateway kalau bisa diparse,
// kalau tidak jatuh ke waktu sekarang.
func settlementTime(n requests.MidtransNotification) time.Time {
	if n.SettlementTime != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", n.SettlementTime, time.Local); err == nil {
			return t
		}
	}
	return time.Now()
}
