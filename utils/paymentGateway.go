package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"lms/config"
	"math"

	"github.com/go-resty/resty/v2"
)

// GatewayOrder is the subset of the gateway's order-create response we keep
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // smallest currency unit
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreatePaymentOrder opens an order with the payment gateway. Amount is in
// currency units; the gateway wants the smallest unit.
func CreatePaymentOrder(amount float64, receipt string) (*GatewayOrder, error) {
	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(config.AppConfig.PaymentApiKey, config.AppConfig.PaymentSecretKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"amount":   int64(math.Round(amount * 100)),
			"currency": config.AppConfig.PaymentCurrency,
			"receipt":  receipt,
		}).
		Post(config.AppConfig.PaymentApiURL + "orders")
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, fmt.Errorf("gateway error: %s", resp.String())
	}

	var order GatewayOrder
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	return &order, nil
}

// VerifyPaymentSignature checks the capture signature the gateway computes as
// HMAC-SHA256 over "orderId|paymentId" with the secret key.
func VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.PaymentSecretKey))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
