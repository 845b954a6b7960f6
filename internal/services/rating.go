package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/laundrylink/internal/models"
)

// RatingAggregator owns the cached rating/total_reviews pair on shops.
// Every review mutation path goes through Recompute; the aggregate is
// never written anywhere else.
type RatingAggregator struct{}

// NewRatingAggregator constructs a RatingAggregator.
func NewRatingAggregator() RatingAggregator {
	return RatingAggregator{}
}

// Recompute refreshes the shop's cached aggregate from its current review
// set: rating = ROUND(AVG(rating), 2) and total_reviews = COUNT, or
// 0.00/0 when no reviews exist. It must run inside the same transaction
// as the triggering review mutation so a failure rolls the whole
// mutation back.
//
// The shop row is locked before the aggregate statement. Under READ
// COMMITTED, a writer that blocks inside the aggregate UPDATE itself
// would re-evaluate its subqueries against the statement's original
// snapshot and miss a review committed while it waited; taking the lock
// in a separate statement first means the aggregate statement begins
// after the lock and reads a snapshot that includes the other writer's
// committed rows. SQLite admits a single writer at a time and has no
// FOR UPDATE clause, so the lock is skipped there.
func (RatingAggregator) Recompute(tx *gorm.DB, shopID uuid.UUID) error {
	if tx.Dialector.Name() == "postgres" {
		var locked models.LaundryShop
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&locked, "id = ?", shopID).Error; err != nil {
			return err
		}
	}

	res := tx.Exec(`
		UPDATE laundry_shops SET
			rating = (SELECT COALESCE(ROUND(AVG(rating), 2), 0) FROM reviews WHERE shop_id = ?),
			total_reviews = (SELECT COUNT(*) FROM reviews WHERE shop_id = ?),
			updated_at = ?
		WHERE id = ?`,
		shopID, shopID, time.Now(), shopID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
