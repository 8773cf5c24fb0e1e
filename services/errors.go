package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrOverDiscounted = errors.New("applied coupons exceed order value")
)

// ValidationError: request salah bentuk sebelum menyentuh aturan bisnis.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PriceMismatchLine menunjuk satu line item yang harganya basi.
type PriceMismatchLine struct {
	ProductID      uint   `json:"product_id"`
	ProductName    string `json:"product_name"`
	SubmittedPrice int64  `json:"submitted_price"`
	CurrentPrice   int64  `json:"current_price"`
}

// PriceMismatchError menolak seluruh order dan melaporkan SEMUA line
// yang tidak cocok supaya client bisa refresh cart sekali jalan.
type PriceMismatchError struct {
	Lines []PriceMismatchLine
}

func (e *PriceMismatchError) Error() string {
	names := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		names = append(names, l.ProductName)
	}
	return fmt.Sprintf("price mismatch for: %s", strings.Join(names, ", "))
}

type InsufficientStockError struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// Alasan penolakan kupon, urut sesuai prioritas pengecekan.
const (
	CouponReasonDuplicate    = "duplicate_code"
	CouponReasonNotFound     = "not_found"
	CouponReasonUsageLimit   = "usage_limit_reached"
	CouponReasonNotOwned     = "not_owned"
	CouponReasonMinPurchase  = "below_min_purchase"
	CouponReasonOutOfArea    = "outside_coverage_area"
)

type CouponRejectedError struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func (e *CouponRejectedError) Error() string {
	return fmt.Sprintf("coupon %s rejected: %s", e.Code, e.Reason)
}

type TotalMismatchError struct {
	Submitted int64 `json:"submitted"`
	Computed  int64 `json:"computed"`
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total mismatch: submitted %d, computed %d", e.Submitted, e.Computed)
}

// GatewayError membungkus kegagalan upstream; satu-satunya error 5xx/retryable.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
