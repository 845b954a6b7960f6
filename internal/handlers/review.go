package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/middleware"
	"github.com/example/laundrylink/internal/models"
	"github.com/example/laundrylink/internal/services"
)

// ReviewHandler manages shop reviews. Every mutation recomputes the
// owning shop's cached rating inside the same transaction.
type ReviewHandler struct {
	db      *gorm.DB
	ratings services.RatingAggregator
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(db *gorm.DB, ratings services.RatingAggregator) *ReviewHandler {
	return &ReviewHandler{db: db, ratings: ratings}
}

// ListShopReviews returns a shop's reviews, newest first.
func (h *ReviewHandler) ListShopReviews(c *fiber.Ctx) error {
	shopID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var reviews []models.Review
	if err := h.db.Where("shop_id = ?", shopID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": reviews})
}

type createReviewRequest struct {
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CustomerName string `json:"customer_name"`
}

// CreateReview adds a review to a shop.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	shopID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}
	if req.CustomerName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "customer_name is required")
	}

	var shop models.LaundryShop
	if err := h.db.First(&shop, "id = ?", shopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "shop not found")
		}
		return err
	}

	userID := user.ID
	review := models.Review{
		ShopID:       shop.ID,
		UserID:       &userID,
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return h.ratings.Recompute(tx, shop.ID)
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": review})
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// UpdateReview changes the rating or comment of the caller's own review.
// Shop and author are immutable.
func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	review, err := h.ownReview(c, user)
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
		}
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(review).Updates(updates).Error; err != nil {
			return err
		}
		return h.ratings.Recompute(tx, review.ShopID)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": review})
}

// DeleteReview removes the caller's own review.
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	review, err := h.ownReview(c, user)
	if err != nil {
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(review).Error; err != nil {
			return err
		}
		return h.ratings.Recompute(tx, review.ShopID)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "message": "review deleted"})
}

func (h *ReviewHandler) ownReview(c *fiber.Ctx, user *models.User) (*models.Review, error) {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var review models.Review
	if err := h.db.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "review not found")
		}
		return nil, err
	}

	if review.UserID == nil || *review.UserID != user.ID {
		if !user.IsStaff {
			return nil, fiber.NewError(fiber.StatusForbidden, "not the review author")
		}
	}
	return &review, nil
}
