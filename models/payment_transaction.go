package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Status transaksi pembayaran (hasil mapping notifikasi gateway).
const (
	TxStatusPending   = "pending"
	TxStatusSuccess   = "success"
	TxStatusChallenge = "challenge"
	TxStatusFailed    = "failed"
)

// PaymentTransaction adalah baris lokal untuk satu payment intent di gateway.
// (transaction_id, merchant_id) adalah idempotency key pemrosesan webhook.
// Baris ini tidak pernah dihapus.
type PaymentTransaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TransactionID string `gorm:"column:transaction_id;size:100;not null;uniqueIndex:idx_tx_merchant" json:"transaction_id"`
	MerchantID    string `gorm:"column:merchant_id;size:50;not null;uniqueIndex:idx_tx_merchant" json:"merchant_id"`

	OrderID uint   `gorm:"column:order_id;index;not null" json:"order_id"`
	Order   *Order `gorm:"foreignKey:OrderID" json:"-"`

	Status string `gorm:"column:status;size:20;not null;default:pending;index" json:"status"`

	GrossAmount decimal.Decimal `gorm:"column:gross_amount;type:decimal(16,2);not null" json:"gross_amount"`

	SnapToken   *string `gorm:"column:snap_token;size:255" json:"snap_token"`
	RedirectURL *string `gorm:"column:redirect_url;size:512" json:"redirect_url"`
	PaymentType *string `gorm:"column:payment_type;size:50" json:"payment_type"`

	// Snapshot mentah respons/notifikasi gateway terakhir.
	GatewayResponse datatypes.JSON `gorm:"column:gateway_response" json:"gateway_response"`

	PaidAt *time.Time `gorm:"column:paid_at" json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
