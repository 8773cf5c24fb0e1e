package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Coupon{},
		&models.CouponCoverageArea{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCoupon{},
		&models.PaymentTransaction{},
	))
	return db
}

// fakeGateway meniru kontrak MidtransGateway: membuat baris
// PaymentTransaction di dalam tx pemanggil lalu mengembalikan intent.
type fakeGateway struct {
	failCreate  bool
	failStatus  bool
	statusReply map[string]interface{}

	createCalls int
	statusCalls int
}

func (f *fakeGateway) CreateIntent(
	ctx context.Context,
	tx *gorm.DB,
	order *models.Order,
	customer *models.User,
	lines []ReconciledLine,
	applied []AppliedCoupon,
) (*PaymentIntent, error) {
	f.createCalls++
	if f.failCreate {
		return nil, &GatewayError{Op: "create_intent", Err: fmt.Errorf("connection refused")}
	}

	transactionID := fmt.Sprintf("M001234-1700000000-%d", order.ID)
	token := "snap-token-" + transactionID
	redirect := "https://app.sandbox.midtrans.com/snap/v4/redirection/" + token

	transaction := models.PaymentTransaction{
		TransactionID:   transactionID,
		MerchantID:      "M001234",
		OrderID:         order.ID,
		Status:          models.TxStatusPending,
		GrossAmount:     decimal.NewFromInt(order.GrandTotal),
		SnapToken:       &token,
		RedirectURL:     &redirect,
		GatewayResponse: datatypes.JSON([]byte(`{"token":"` + token + `"}`)),
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return nil, err
	}

	return &PaymentIntent{Token: token, RedirectURL: redirect, TransactionID: transactionID}, nil
}

func (f *fakeGateway) CheckStatus(ctx context.Context, transactionID string) (map[string]interface{}, error) {
	f.statusCalls++
	if f.failStatus {
		return nil, &GatewayError{Op: "check_status", Err: fmt.Errorf("timeout")}
	}
	if f.statusReply != nil {
		return f.statusReply, nil
	}
	return map[string]interface{}{"transaction_status": "settlement"}, nil
}

type fakeEnqueuer struct {
	orderIDs []uint
	fail     bool
}

func (f *fakeEnqueuer) EnqueueOrderConfirmation(orderID uint) error {
	if f.fail {
		return fmt.Errorf("queue unavailable")
	}
	f.orderIDs = append(f.orderIDs, orderID)
	return nil
}
