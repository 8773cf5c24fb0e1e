package config

import "os"

// MidtransConfig memegang kredensial gateway. Dibaca sekali di main
// dan di-inject ke service supaya gampang di-test.
type MidtransConfig struct {
	ServerKey  string
	MerchantID string
	SnapURL    string
	APIBaseURL string
}

func LoadMidtrans() MidtransConfig {
	cfg := MidtransConfig{
		ServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
		MerchantID: os.Getenv("MIDTRANS_MERCHANT_ID"),
		SnapURL:    os.Getenv("MIDTRANS_SNAP_URL"),
		APIBaseURL: os.Getenv("MIDTRANS_API_BASE_URL"),
	}
	if cfg.SnapURL == "" {
		cfg.SnapURL = "https://app.sandbox.midtrans.com/snap/v1/transactions"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.sandbox.midtrans.com"
	}
	return cfg
}
