package services

import (
	"errors"
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"

	"gorm.io/gorm"
)

// LineInput adalah satu baris cart dari client, harga versi client ikut dikirim.
type LineInput struct {
	ProductID uint
	Price     int64
	Quantity  int
}

// ReconciledLine adalah hasil validasi: harga snapshot otoritatif per baris.
type ReconciledLine struct {
	Product   models.Product
	Quantity  int
	UnitPrice int64
	Subtotal  int64
}

// ReconcileLines memvalidasi harga dan stok seluruh cart terhadap data produk
// otoritatif. Tidak ada side effect; decrement stok terjadi belakangan lewat
// conditional UPDATE di orchestrator.
//
// Semua mismatch harga dikumpulkan dulu sebelum ditolak, supaya client bisa
// memperbaiki seluruh cart dalam satu kali refresh.
func ReconcileLines(tx *gorm.DB, items []LineInput, now time.Time) ([]ReconciledLine, int64, error) {
	if len(items) == 0 {
		return nil, 0, &ValidationError{Message: "order must contain at least one item"}
	}

	lines := make([]ReconciledLine, 0, len(items))
	var mismatches []PriceMismatchLine
	var subtotal int64

	for _, item := range items {
		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrNotFound
			}
			return nil, 0, err
		}

		current := product.EffectivePrice(now)
		if current != item.Price {
			mismatches = append(mismatches, PriceMismatchLine{
				ProductID:      product.ID,
				ProductName:    product.Name,
				SubmittedPrice: item.Price,
				CurrentPrice:   current,
			})
			continue
		}

		lines = append(lines, ReconciledLine{
			Product:   product,
			Quantity:  item.Quantity,
			UnitPrice: current,
			Subtotal:  current * int64(item.Quantity),
		})
		subtotal += current * int64(item.Quantity)
	}

	if len(mismatches) > 0 {
		return nil, 0, &PriceMismatchError{Lines: mismatches}
	}

	for _, line := range lines {
		if line.Product.Stock < line.Quantity {
			return nil, 0, &InsufficientStockError{
				ProductID:   line.Product.ID,
				ProductName: line.Product.Name,
				Requested:   line.Quantity,
				Available:   line.Product.Stock,
			}
		}
	}

	return lines, subtotal, nil
}
