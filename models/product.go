package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name string `gorm:"column:name;size:255;not null" json:"name"`
	Slug string `gorm:"column:slug;size:255;not null;uniqueIndex" json:"slug"`

	// Harga dalam rupiah, tanpa pecahan.
	Price int64 `gorm:"column:price;not null" json:"price"`

	// Stock tidak boleh negatif; decrement selalu lewat conditional UPDATE.
	Stock int `gorm:"column:stock;not null;default:0" json:"stock"`

	DiscountPercentage int64      `gorm:"column:discount_percentage;default:0" json:"discount_percentage"`
	DiscountExpiresAt  *time.Time `gorm:"column:discount_expires_at" json:"discount_expires_at"`

	Weight   int    `gorm:"column:weight;default:0" json:"weight"`
	IsActive bool   `gorm:"column:is_active;default:true" json:"is_active"`
	ImageURL string `gorm:"column:image_url;size:512" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// HasActiveDiscount: diskon aktif kalau persentase > 0 dan belum lewat expiry.
func (p *Product) HasActiveDiscount(now time.Time) bool {
	if p.DiscountPercentage <= 0 {
		return false
	}
	if p.DiscountExpiresAt == nil {
		return false
	}
	return now.Before(*p.DiscountExpiresAt)
}

// EffectivePrice mengembalikan harga otoritatif saat ini,
// sudah termasuk diskon produk yang aktif.
func (p *Product) EffectivePrice(now time.Time) int64 {
	if !p.HasActiveDiscount(now) {
		return p.Price
	}
	cut := decimal.NewFromInt(p.Price).
		Mul(decimal.NewFromInt(p.DiscountPercentage)).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return p.Price - cut.IntPart()
}
