package services

import (
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"

	"github.com/shopspring/decimal"
)

// Target diskon per kupon.
const (
	DiscountTargetSubtotal = "subtotal"
	DiscountTargetShipping = "shipping"
)

type Destination struct {
	Province    string
	City        string
	Subdistrict string
}

type AppliedCoupon struct {
	CouponID uint   `json:"coupon_id"`
	Code     string `json:"code"`
	Target   string `json:"target"`
	Amount   int64  `json:"amount"`
}

type DiscountResult struct {
	Applied       []AppliedCoupon `json:"applied"`
	Subtotal      int64           `json:"subtotal"`
	ShippingCost  int64           `json:"shipping_cost"`
	TotalDiscount int64           `json:"total_discount"`
}

// ApplyCoupons menjalankan daftar kupon secara berurutan terhadap pasangan
// subtotal/ongkir. Murni: tidak ada I/O, tidak ada randomness, window validitas
// dievaluasi sekali terhadap `now`. Input sama selalu menghasilkan breakdown sama.
//
// Kupon shipping memotong ongkir DAN ikut mengurangi ledger subtotal internal
// (kompatibilitas dengan pembukuan lama); subtotal yang dilaporkan hanya
// mencerminkan diskon bertarget subtotal. Ledger atau ongkir yang jadi negatif
// setelah semua kupon berarti stacking abuse dan menolak seluruh order.
func ApplyCoupons(
	codes []string,
	byCode map[string]*models.Coupon,
	subtotal, shippingCost int64,
	dest Destination,
	userID uint,
	now time.Time,
) (*DiscountResult, error) {
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			return nil, &CouponRejectedError{Code: code, Reason: CouponReasonDuplicate}
		}
		seen[code] = true
	}

	// Ledger berjalan. ledgerSubtotal menyerap diskon shipping juga,
	// subtotalDiscount hanya diskon bertarget subtotal.
	ledgerSubtotal := subtotal
	shipping := shippingCost
	var subtotalDiscount, totalDiscount int64

	applied := make([]AppliedCoupon, 0, len(codes))

	for _, code := range codes {
		coupon := byCode[code]
		if coupon == nil || !coupon.IsValidAt(now) {
			return nil, &CouponRejectedError{Code: code, Reason: CouponReasonNotFound}
		}
		if coupon.UsageLimit > 0 && coupon.UsageCount >= coupon.UsageLimit {
			return nil, &CouponRejectedError{Code: code, Reason: CouponReasonUsageLimit}
		}
		if coupon.UserID != nil && *coupon.UserID != userID {
			return nil, &CouponRejectedError{Code: code, Reason: CouponReasonNotOwned}
		}
		if ledgerSubtotal < coupon.MinPurchase {
			return nil, &CouponRejectedError{Code: code, Reason: CouponReasonMinPurchase}
		}
		if coupon.Type == models.CouponTypeRegional && !coversDestination(coupon, dest) {
			return nil, &CouponRejectedError{Code: code, Reason: CouponReasonOutOfArea}
		}

		target := DiscountTargetSubtotal
		applicable := ledgerSubtotal
		if coupon.TargetsShipping() {
			target = DiscountTargetShipping
			applicable = shipping
		}

		discount := couponDiscount(coupon, applicable)
		if discount > applicable {
			discount = applicable
		}
		if discount < 0 {
			discount = 0
		}

		if target == DiscountTargetShipping {
			shipping -= discount
			ledgerSubtotal -= discount
		} else {
			ledgerSubtotal -= discount
			subtotalDiscount += discount
		}
		totalDiscount += discount

		applied = append(applied, AppliedCoupon{
			CouponID: coupon.ID,
			Code:     coupon.Code,
			Target:   target,
			Amount:   discount,
		})
	}

	if ledgerSubtotal < 0 || shipping < 0 {
		return nil, ErrOverDiscounted
	}

	return &DiscountResult{
		Applied:       applied,
		Subtotal:      subtotal - subtotalDiscount,
		ShippingCost:  shipping,
		TotalDiscount: totalDiscount,
	}, nil
}

func couponDiscount(coupon *models.Coupon, applicable int64) int64 {
	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		return decimal.NewFromInt(applicable).
			Mul(decimal.NewFromInt(coupon.DiscountPercentage)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case models.DiscountTypeFixed:
		if coupon.DiscountAmount < applicable {
			return coupon.DiscountAmount
		}
		return applicable
	default:
		return 0
	}
}

// Kupon regional tanpa baris cakupan tidak berlaku di mana pun.
func coversDestination(coupon *models.Coupon, dest Destination) bool {
	for i := range coupon.CoverageAreas {
		if coupon.CoverageAreas[i].Covers(dest.Province, dest.City, dest.Subdistrict) {
			return true
		}
	}
	return false
}
