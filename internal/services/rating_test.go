package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/models"
)

func createShop(t *testing.T, db *gorm.DB) *models.LaundryShop {
	t.Helper()
	vendor := createAccount(t, db, "vendor@b.com")
	shop := models.LaundryShop{
		VendorID: vendor.ID,
		Name:     "Spin Cycle",
		District: "Ernakulam",
		State:    "Kerala",
		Zipcode:  "682001",
		IsActive: true,
	}
	require.NoError(t, db.Create(&shop).Error)
	return &shop
}

func addReview(t *testing.T, db *gorm.DB, shop *models.LaundryShop, rating int) *models.Review {
	t.Helper()
	aggregator := NewRatingAggregator()
	review := models.Review{ShopID: shop.ID, CustomerName: "walk-in", Rating: rating}
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return aggregator.Recompute(tx, shop.ID)
	}))
	return &review
}

func shopAggregate(t *testing.T, db *gorm.DB, shopID interface{}) (float64, int) {
	t.Helper()
	var shop models.LaundryShop
	require.NoError(t, db.First(&shop, "id = ?", shopID).Error)
	return shop.Rating, shop.TotalReviews
}

func TestRecomputeAverages(t *testing.T) {
	db := testDB(t)
	shop := createShop(t, db)

	for _, rating := range []int{5, 4, 3} {
		addReview(t, db, shop, rating)
	}

	rating, total := shopAggregate(t, db, shop.ID)
	assert.InDelta(t, 4.00, rating, 0.001)
	assert.Equal(t, 3, total)

	addReview(t, db, shop, 2)

	rating, total = shopAggregate(t, db, shop.ID)
	assert.InDelta(t, 3.50, rating, 0.001)
	assert.Equal(t, 4, total)
}

func TestRecomputeIncludesEarlierTransactionsReviews(t *testing.T) {
	db := testDB(t)
	shop := createShop(t, db)
	aggregator := NewRatingAggregator()

	// Each mutation runs in its own transaction, like concurrent request
	// handlers committing one after the other. The later recompute must
	// count the earlier transaction's committed review, never an older
	// snapshot of the review set.
	for _, rating := range []int{5, 2} {
		rating := rating
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			review := models.Review{ShopID: shop.ID, CustomerName: "walk-in", Rating: rating}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
			return aggregator.Recompute(tx, shop.ID)
		}))
	}

	rating, total := shopAggregate(t, db, shop.ID)
	assert.InDelta(t, 3.50, rating, 0.001)
	assert.Equal(t, 2, total)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	db := testDB(t)
	shop := createShop(t, db)
	aggregator := NewRatingAggregator()

	addReview(t, db, shop, 5)
	addReview(t, db, shop, 2)

	before, beforeTotal := shopAggregate(t, db, shop.ID)
	require.NoError(t, aggregator.Recompute(db, shop.ID))
	after, afterTotal := shopAggregate(t, db, shop.ID)

	assert.Equal(t, before, after)
	assert.Equal(t, beforeTotal, afterTotal)
}

func TestDeletingLastReviewResetsAggregate(t *testing.T) {
	db := testDB(t)
	shop := createShop(t, db)
	aggregator := NewRatingAggregator()

	review := addReview(t, db, shop, 5)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(review).Error; err != nil {
			return err
		}
		return aggregator.Recompute(tx, shop.ID)
	}))

	rating, total := shopAggregate(t, db, shop.ID)
	assert.Zero(t, rating)
	assert.Zero(t, total)
}

func TestRecomputeUnknownShop(t *testing.T) {
	db := testDB(t)
	aggregator := NewRatingAggregator()

	err := aggregator.Recompute(db, createAccount(t, db, "x@b.com").ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecomputeOnlyCountsOwnReviews(t *testing.T) {
	db := testDB(t)
	shop := createShop(t, db)

	other := models.LaundryShop{VendorID: shop.VendorID, Name: "Other Shop", Zipcode: "0"}
	require.NoError(t, db.Create(&other).Error)

	addReview(t, db, shop, 5)
	addReview(t, db, &other, 1)

	rating, total := shopAggregate(t, db, shop.ID)
	assert.InDelta(t, 5.00, rating, 0.001)
	assert.Equal(t, 1, total)
}
