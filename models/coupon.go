package models

import (
	"time"
)

// Tipe kupon
const (
	CouponTypeGeneral  = "general"
	CouponTypeRegional = "regional"
	CouponTypeShipping = "shipping"
)

// Tipe diskon kupon
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

type Coupon struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Code unik dan case-sensitive (BINARY collation di MySQL).
	Code string `gorm:"column:code;size:64;not null;uniqueIndex" json:"code"`

	Type         string `gorm:"column:type;size:20;not null;default:general" json:"type"`
	DiscountType string `gorm:"column:discount_type;size:20;not null" json:"discount_type"`

	DiscountPercentage int64 `gorm:"column:discount_percentage;default:0" json:"discount_percentage"`
	DiscountAmount     int64 `gorm:"column:discount_amount;default:0" json:"discount_amount"`

	MinPurchase int64 `gorm:"column:min_purchase;default:0" json:"min_purchase"`

	// usage_count <= usage_limit; increment selalu lewat conditional UPDATE.
	UsageLimit int `gorm:"column:usage_limit;not null;default:0" json:"usage_limit"`
	UsageCount int `gorm:"column:usage_count;not null;default:0" json:"usage_count"`

	ValidFrom  time.Time `gorm:"column:valid_from" json:"valid_from"`
	ValidUntil time.Time `gorm:"column:valid_until" json:"valid_until"`

	IsActive bool `gorm:"column:is_active;default:true" json:"is_active"`

	// Kupon personal: hanya boleh dipakai user pemilik.
	UserID *uint `gorm:"column:user_id;index" json:"user_id"`

	CoverageAreas []CouponCoverageArea `gorm:"foreignKey:CouponID" json:"coverage_areas,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// TargetsShipping: kupon shipping memotong ongkir, sisanya memotong subtotal.
func (c *Coupon) TargetsShipping() bool {
	return c.Type == CouponTypeShipping
}

func (c *Coupon) IsValidAt(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.ValidFrom) {
		return false
	}
	return !now.After(c.ValidUntil)
}

// CouponCoverageArea membatasi kupon regional ke wilayah tertentu.
// Field kosong berarti wildcard untuk level itu.
type CouponCoverageArea struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CouponID    uint   `gorm:"column:coupon_id;index;not null" json:"coupon_id"`
	Province    string `gorm:"column:province;size:100" json:"province"`
	City        string `gorm:"column:city;size:100" json:"city"`
	Subdistrict string `gorm:"column:subdistrict;size:100" json:"subdistrict"`
}

func (CouponCoverageArea) TableName() string {
	return "coupon_coverage_areas"
}

// Covers mengecek apakah area cakupan cocok dengan tujuan pengiriman.
func (a *CouponCoverageArea) Covers(province, city, subdistrict string) bool {
	if a.Province != "" && a.Province != province {
		return false
	}
	if a.City != "" && a.City != city {
		return false
	}
	if a.Subdistrict != "" && a.Subdistrict != subdistrict {
		return false
	}
	return true
}
