package services

import (
	"testing"
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCoupon(code string) *models.Coupon {
	return &models.Coupon{
		ID:           1,
		Code:         code,
		Type:         models.CouponTypeGeneral,
		DiscountType: models.DiscountTypePercentage,
		IsActive:     true,
		ValidFrom:    time.Now().Add(-24 * time.Hour),
		ValidUntil:   time.Now().Add(24 * time.Hour),
	}
}

func TestApplyCouponsSubtotalThenShipping(t *testing.T) {
	now := time.Now()

	five := validCoupon("HEMAT5")
	five.ID = 10
	five.DiscountPercentage = 5

	freeShip := validCoupon("GRATISONGKIR")
	freeShip.ID = 11
	freeShip.Type = models.CouponTypeShipping
	freeShip.DiscountType = models.DiscountTypeFixed
	freeShip.DiscountAmount = 38500

	byCode := map[string]*models.Coupon{"HEMAT5": five, "GRATISONGKIR": freeShip}

	result, err := ApplyCoupons(
		[]string{"HEMAT5", "GRATISONGKIR"}, byCode,
		2160000, 38500, Destination{}, 1, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2052000), result.Subtotal)
	assert.Equal(t, int64(0), result.ShippingCost)
	assert.Equal(t, int64(146500), result.TotalDiscount)

	require.Len(t, result.Applied, 2)
	assert.Equal(t, int64(108000), result.Applied[0].Amount)
	assert.Equal(t, DiscountTargetSubtotal, result.Applied[0].Target)
	assert.Equal(t, int64(38500), result.Applied[1].Amount)
	assert.Equal(t, DiscountTargetShipping, result.Applied[1].Target)
}

func TestApplyCouponsDeterministic(t *testing.T) {
	now := time.Now()

	c := validCoupon("TUJUHBELAS")
	c.DiscountPercentage = 17

	byCode := map[string]*models.Coupon{"TUJUHBELAS": c}

	first, err := ApplyCoupons([]string{"TUJUHBELAS"}, byCode, 999999, 15000, Destination{}, 1, now)
	require.NoError(t, err)
	second, err := ApplyCoupons([]string{"TUJUHBELAS"}, byCode, 999999, 15000, Destination{}, 1, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestApplyCouponsDuplicateCode(t *testing.T) {
	c := validCoupon("DOBEL")
	byCode := map[string]*models.Coupon{"DOBEL": c}

	_, err := ApplyCoupons([]string{"DOBEL", "DOBEL"}, byCode, 100000, 10000, Destination{}, 1, time.Now())

	var rejected *CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, CouponReasonDuplicate, rejected.Reason)
}

func TestApplyCouponsUnknownAndExpired(t *testing.T) {
	expired := validCoupon("KADALUARSA")
	expired.ValidUntil = time.Now().Add(-time.Hour)

	inactive := validCoupon("NONAKTIF")
	inactive.IsActive = false

	byCode := map[string]*models.Coupon{"KADALUARSA": expired, "NONAKTIF": inactive}

	for _, code := range []string{"TIDAKADA", "KADALUARSA", "NONAKTIF"} {
		_, err := ApplyCoupons([]string{code}, byCode, 100000, 10000, Destination{}, 1, time.Now())

		var rejected *CouponRejectedError
		require.ErrorAs(t, err, &rejected, "code %s", code)
		assert.Equal(t, CouponReasonNotFound, rejected.Reason)
	}
}

func TestApplyCouponsUsageLimit(t *testing.T) {
	c := validCoupon("HABIS")
	c.UsageLimit = 3
	c.UsageCount = 3
	byCode := map[string]*models.Coupon{"HABIS": c}

	_, err := ApplyCoupons([]string{"HABIS"}, byCode, 100000, 10000, Destination{}, 1, time.Now())

	var rejected *CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, CouponReasonUsageLimit, rejected.Reason)
}

func TestApplyCouponsPersonalOwnership(t *testing.T) {
	owner := uint(7)
	c := validCoupon("PRIBADI")
	c.UserID = &owner
	byCode := map[string]*models.Coupon{"PRIBADI": c}

	_, err := ApplyCoupons([]string{"PRIBADI"}, byCode, 100000, 10000, Destination{}, 8, time.Now())

	var rejected *CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, CouponReasonNotOwned, rejected.Reason)

	// Pemilik sendiri boleh.
	_, err = ApplyCoupons([]string{"PRIBADI"}, byCode, 100000, 10000, Destination{}, 7, time.Now())
	assert.NoError(t, err)
}

func TestApplyCouponsMinPurchase(t *testing.T) {
	c := validCoupon("MINIMAL")
	c.MinPurchase = 150000
	byCode := map[string]*models.Coupon{"MINIMAL": c}

	_, err := ApplyCoupons([]string{"MINIMAL"}, byCode, 100000, 10000, Destination{}, 1, time.Now())

	var rejected *CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, CouponReasonMinPurchase, rejected.Reason)
}

func TestApplyCouponsRegionalCoverage(t *testing.T) {
	c := validCoupon("JABAR")
	c.Type = models.CouponTypeRegional
	c.DiscountPercentage = 10
	c.CoverageAreas = []models.CouponCoverageArea{
		{Province: "Jawa Barat", City: "Bandung"},
	}
	byCode := map[string]*models.Coupon{"JABAR": c}

	_, err := ApplyCoupons([]string{"JABAR"}, byCode, 100000, 10000,
		Destination{Province: "Jawa Timur", City: "Surabaya"}, 1, time.Now())

	var rejected *CouponRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, CouponReasonOutOfArea, rejected.Reason)

	result, err := ApplyCoupons([]string{"JABAR"}, byCode, 100000, 10000,
		Destination{Province: "Jawa Barat", City: "Bandung", Subdistrict: "Coblong"}, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), result.TotalDiscount)
}

func TestApplyCouponsFixedClampedToApplicable(t *testing.T) {
	c := validCoupon("GEDE")
	c.DiscountType = models.DiscountTypeFixed
	c.DiscountAmount = 500000
	byCode := map[string]*models.Coupon{"GEDE": c}

	result, err := ApplyCoupons([]string{"GEDE"}, byCode, 120000, 10000, Destination{}, 1, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(120000), result.TotalDiscount)
	assert.Equal(t, int64(0), result.Subtotal)
	assert.Equal(t, int64(10000), result.ShippingCost)
}

func TestApplyCouponsOverDiscounted(t *testing.T) {
	// Diskon ongkir ikut membebani ledger subtotal; kombinasi ini
	// membuat ledger negatif walau tiap kupon sendiri sudah di-clamp.
	freeShip := validCoupon("ONGKIR")
	freeShip.Type = models.CouponTypeShipping
	freeShip.DiscountType = models.DiscountTypeFixed
	freeShip.DiscountAmount = 200000

	byCode := map[string]*models.Coupon{"ONGKIR": freeShip}

	_, err := ApplyCoupons([]string{"ONGKIR"}, byCode, 100000, 200000, Destination{}, 1, time.Now())
	assert.ErrorIs(t, err, ErrOverDiscounted)
}

func TestApplyCouponsPercentageRounding(t *testing.T) {
	c := validCoupon("GANJIL")
	c.DiscountPercentage = 3
	byCode := map[string]*models.Coupon{"GANJIL": c}

	// 3% dari 33.333 = 999,99 → dibulatkan 1.000
	result, err := ApplyCoupons([]string{"GANJIL"}, byCode, 33333, 0, Destination{}, 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.TotalDiscount)
}

func TestApplyCouponsEmptyList(t *testing.T) {
	result, err := ApplyCoupons(nil, map[string]*models.Coupon{}, 50000, 9000, Destination{}, 1, time.Now())
	require.NoError(t, err)

	assert.Empty(t, result.Applied)
	assert.Equal(t, int64(50000), result.Subtotal)
	assert.Equal(t, int64(9000), result.ShippingCost)
	assert.Equal(t, int64(0), result.TotalDiscount)
}
