// jobs/order_email.go
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ─── Config ───────────────────────────────────────────────────────────────────

// MailerConfig menunjuk ke layanan pengirim notifikasi eksternal.
type MailerConfig struct {
	BaseURL string
	APIKey  string
}

// ─── Job ──────────────────────────────────────────────────────────────────────

// OrderConfirmationJob mengirim email konfirmasi untuk satu order.
// Seluruhnya best-effort: kegagalan hanya dilog dan di-retry oleh queue,
// tidak pernah menyentuh kembali state order.
type OrderConfirmationJob struct {
	OrderID uint
	db      *gorm.DB
	rdb     *redis.Client
	cfg     MailerConfig
}

func NewOrderConfirmationJob(orderID uint, db *gorm.DB, rdb *redis.Client, cfg MailerConfig) *OrderConfirmationJob {
	return &OrderConfirmationJob{OrderID: orderID, db: db, rdb: rdb, cfg: cfg}
}

func (j *OrderConfirmationJob) Handle(ctx context.Context) error {
	var order models.Order
	if err := j.db.WithContext(ctx).Preload("User").Preload("Items").
		First(&order, j.OrderID).Error; err != nil {
		slog.Error("Order not found for confirmation email", "order_id", j.OrderID, "err", err)
		return nil // jangan retry kalau order tidak ada
	}

	if order.User == nil || order.User.Email == "" {
		slog.Warn("Order has no recipient email", "order_id", j.OrderID)
		return nil
	}

	// Dedupe: satu email per (order, payment_status).
	lockKey := fmt.Sprintf("order_confirmation_%d_%s", order.ID, order.PaymentStatus)
	lock, err := j.acquireLock(ctx, lockKey, 10*time.Minute)
	if err != nil {
		slog.Warn("Confirmation already being sent", "order_id", order.ID)
		return nil
	}
	defer lock.Release(ctx)

	return j.send(ctx, &order)
}

func (j *OrderConfirmationJob) send(ctx context.Context, order *models.Order) error {
	payload := map[string]interface{}{
		"to":             order.User.Email,
		"template":       "order_confirmation",
		"order_status":   order.Status,
		"payment_status": order.PaymentStatus,
		"grand_total":    order.GrandTotal,
		"receiver_name":  order.ReceiverName,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		j.cfg.BaseURL+"/v1/send", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+j.cfg.APIKey)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailer returned %d: %s", resp.StatusCode, string(respBody))
	}

	slog.Info("Order confirmation sent", "order_id", order.ID, "email", order.User.Email)
	return nil
}

// ─── Lock ─────────────────────────────────────────────────────────────────────

type SimpleLock struct {
	key string
	rdb *redis.Client
}

func (l *SimpleLock) Release(ctx context.Context) {
	l.rdb.Del(ctx, l.key)
}

// acquireLock mengambil distributed lock via Redis SETNX.
func (j *OrderConfirmationJob) acquireLock(ctx context.Context, key string, ttl time.Duration) (*SimpleLock, error) {
	success, err := j.rdb.SetNX(ctx, key, "locked", ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if !success {
		return nil, fmt.Errorf("lock already acquired for key: %s", key)
	}
	return &SimpleLock{key: key, rdb: j.rdb}, nil
}
