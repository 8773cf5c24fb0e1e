package services

import (
	"testing"
	"time"

	"github.com/efatasolutionsengineer/littledimple-ecommerce-backend-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileLinesHappyPath(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Product{Name: "Kemeja", Slug: "kemeja", Price: 150000, Stock: 10}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Celana", Slug: "celana", Price: 200000, Stock: 5}).Error)

	lines, subtotal, err := ReconcileLines(db, []LineInput{
		{ProductID: 1, Price: 150000, Quantity: 2},
		{ProductID: 2, Price: 200000, Quantity: 1},
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(500000), subtotal)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(150000), lines[0].UnitPrice)
	assert.Equal(t, int64(300000), lines[0].Subtotal)
}

func TestReconcileLinesReportsAllMismatches(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Product{Name: "Kemeja", Slug: "kemeja", Price: 150000, Stock: 10}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Celana", Slug: "celana", Price: 200000, Stock: 5}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Topi", Slug: "topi", Price: 50000, Stock: 3}).Error)

	_, _, err := ReconcileLines(db, []LineInput{
		{ProductID: 1, Price: 140000, Quantity: 1}, // basi
		{ProductID: 2, Price: 200000, Quantity: 1}, // cocok
		{ProductID: 3, Price: 45000, Quantity: 1},  // basi
	}, time.Now())

	var mismatch *PriceMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Len(t, mismatch.Lines, 2)
	assert.Equal(t, "Kemeja", mismatch.Lines[0].ProductName)
	assert.Equal(t, int64(150000), mismatch.Lines[0].CurrentPrice)
	assert.Equal(t, "Topi", mismatch.Lines[1].ProductName)
}

func TestReconcileLinesActiveProductDiscount(t *testing.T) {
	db := newTestDB(t)
	expiry := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.Product{
		Name: "Sepatu", Slug: "sepatu", Price: 300000, Stock: 4,
		DiscountPercentage: 10, DiscountExpiresAt: &expiry,
	}).Error)

	// Harga penuh ditolak karena diskon produk sedang aktif.
	_, _, err := ReconcileLines(db, []LineInput{{ProductID: 1, Price: 300000, Quantity: 1}}, time.Now())
	var mismatch *PriceMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(270000), mismatch.Lines[0].CurrentPrice)

	// Harga diskon diterima.
	_, subtotal, err := ReconcileLines(db, []LineInput{{ProductID: 1, Price: 270000, Quantity: 1}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(270000), subtotal)
}

func TestReconcileLinesExpiredDiscountIgnored(t *testing.T) {
	db := newTestDB(t)
	expiry := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.Product{
		Name: "Jaket", Slug: "jaket", Price: 400000, Stock: 2,
		DiscountPercentage: 25, DiscountExpiresAt: &expiry,
	}).Error)

	_, subtotal, err := ReconcileLines(db, []LineInput{{ProductID: 1, Price: 400000, Quantity: 1}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(400000), subtotal)
}

func TestReconcileLinesInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Product{Name: "Tas", Slug: "tas", Price: 100000, Stock: 2}).Error)

	_, _, err := ReconcileLines(db, []LineInput{{ProductID: 1, Price: 100000, Quantity: 3}}, time.Now())

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Tas", stockErr.ProductName)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
}

func TestReconcileLinesUnknownProduct(t *testing.T) {
	db := newTestDB(t)

	_, _, err := ReconcileLines(db, []LineInput{{ProductID: 99, Price: 1000, Quantity: 1}}, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconcileLinesEmptyItems(t *testing.T) {
	db := newTestDB(t)

	_, _, err := ReconcileLines(db, nil, time.Now())

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
