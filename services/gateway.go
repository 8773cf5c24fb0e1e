package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/config"
	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentIntent adalah hasil pembuatan intent di gateway.
type PaymentIntent struct {
	Token         string `json:"token"`
	RedirectURL   string `json:"redirect_url"`
	TransactionID string `json:"transaction_id"`
}

// PaymentGateway diabstraksi supaya orchestrator dan test tidak
// bergantung pada HTTP Midtrans sungguhan.
type PaymentGateway interface {
	// CreateIntent membuat Snap transaction di gateway dan menyimpan baris
	// PaymentTransaction (status pending) DI DALAM tx pemanggil, sehingga
	// rollback pemanggil ikut membatalkan baris itu.
	CreateIntent(ctx context.Context, tx *gorm.DB, order *models.Order, customer *models.User, lines []ReconciledLine, applied []AppliedCoupon) (*PaymentIntent, error)

	// CheckStatus menanyakan status otoritatif transaksi ke gateway.
	CheckStatus(ctx context.Context, transactionID string) (map[string]interface{}, error)
}

type MidtransGateway struct {
	cfg    config.MidtransConfig
	client *http.Client
}

func NewMidtransGateway(cfg config.MidtransConfig) *MidtransGateway {
	return &MidtransGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *MidtransGateway) CreateIntent(
	ctx context.Context,
	tx *gorm.DB,
	order *models.Order,
	customer *models.User,
	lines []ReconciledLine,
	applied []AppliedCoupon,
) (*PaymentIntent, error) {
	transactionID := fmt.Sprintf("%s-%d-%d", g.cfg.MerchantID, time.Now().Unix(), order.ID)

	// Ongkir jadi line item dan diskon jadi line item negatif supaya
	// penjumlahan yang dilihat gateway persis sama dengan grand_total.
	itemDetails := make([]map[string]interface{}, 0, len(lines)+1+len(applied))
	for _, line := range lines {
		itemDetails = append(itemDetails, map[string]interface{}{
			"id":       fmt.Sprintf("PRODUCT-%d", line.Product.ID),
			"price":    line.UnitPrice,
			"quantity": line.Quantity,
			"name":     line.Product.Name,
		})
	}
	if order.ShippingCost > 0 {
		itemDetails = append(itemDetails, map[string]interface{}{
			"id":       "SHIPPING",
			"price":    order.ShippingCost,
			"quantity": 1,
			"name":     "Ongkos Kirim",
		})
	}
	for _, ac := range applied {
		if ac.Amount == 0 {
			continue
		}
		itemDetails = append(itemDetails, map[string]interface{}{
			"id":       "DISCOUNT-" + ac.Code,
			"price":    -ac.Amount,
			"quantity": 1,
			"name":     "Diskon " + ac.Code,
		})
	}

	address := map[string]interface{}{
		"first_name":   order.ReceiverName,
		"phone":        order.ReceiverPhone,
		"address":      order.Address,
		"city":         order.City,
		"postal_code":  order.PostalCode,
		"country_code": "IDN",
	}

	payload := map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     transactionID,
			"gross_amount": order.GrandTotal,
		},
		"item_details": itemDetails,
		"customer_details": map[string]interface{}{
			"first_name":       customer.Name,
			"email":            customer.Email,
			"phone":            customer.Phone,
			"billing_address":  address,
			"shipping_address": address,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.SnapURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(g.cfg.ServerKey, "")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &GatewayError{
			Op:  "create_intent",
			Err: fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var snapResp struct {
		Token       string `json:"token"`
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.Unmarshal(respBody, &snapResp); err != nil {
		return nil, &GatewayError{Op: "create_intent", Err: err}
	}

	transaction := models.PaymentTransaction{
		TransactionID:   transactionID,
		MerchantID:      g.cfg.MerchantID,
		OrderID:         order.ID,
		Status:          models.TxStatusPending,
		GrossAmount:     decimal.NewFromInt(order.GrandTotal),
		SnapToken:       &snapResp.Token,
		RedirectURL:     &snapResp.RedirectURL,
		GatewayResponse: datatypes.JSON(respBody),
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return nil, err
	}

	return &PaymentIntent{
		Token:         snapResp.Token,
		RedirectURL:   snapResp.RedirectURL,
		TransactionID: transactionID,
	}, nil
}

func (g *MidtransGateway) CheckStatus(ctx context.Context, transactionID string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/v2/%s/status", g.cfg.APIBaseURL, transactionID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &GatewayError{Op: "check_status", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(g.cfg.ServerKey, "")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &GatewayError{Op: "check_status", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{
			Op:  "check_status",
			Err: fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body)),
		}
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &GatewayError{Op: "check_status", Err: err}
	}
	return data, nil
}
