package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/middleware"
	"github.com/example/laundrylink/internal/models"
	"github.com/example/laundrylink/internal/utils"
)

// BookingHandler manages customer bookings and the vendor's view of them.
type BookingHandler struct {
	db *gorm.DB
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(db *gorm.DB) *BookingHandler {
	return &BookingHandler{db: db}
}

type createBookingRequest struct {
	ShopID             uuid.UUID   `json:"shop_id"`
	ServiceOfferingIDs []uuid.UUID `json:"service_offering_ids"`
}

// CreateBooking books offerings from a shop for the authenticated
// customer. The total price is computed server-side from the offerings.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.ServiceOfferingIDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "service_offering_ids is required")
	}

	var shop models.LaundryShop
	if err := h.db.First(&shop, "id = ? AND is_active = ?", req.ShopID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "shop not found")
		}
		return err
	}

	var offerings []models.ServiceOffering
	if err := h.db.Where("shop_id = ? AND id IN ?", shop.ID, req.ServiceOfferingIDs).
		Find(&offerings).Error; err != nil {
		return err
	}
	if len(offerings) != len(req.ServiceOfferingIDs) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown service offering for this shop")
	}

	total := 0.0
	for _, offering := range offerings {
		total += offering.Price
	}

	booking := models.Booking{
		UserID:           user.ID,
		ShopID:           shop.ID,
		ServiceOfferings: offerings,
		TotalPrice:       total,
		Status:           models.BookingStatusPending,
	}
	if err := h.db.Create(&booking).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": booking})
}

// ListBookings returns the caller's bookings, newest first.
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)

	var bookings []models.Booking
	if err := h.db.Preload("ServiceOfferings.ServiceType").Preload("Shop").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&bookings).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": bookings})
}

// GetBooking returns one of the caller's bookings.
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var booking models.Booking
	if err := h.db.Preload("ServiceOfferings.ServiceType").Preload("Shop").
		First(&booking, "id = ? AND user_id = ?", bookingID, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": booking})
}

// DeleteBooking removes one of the caller's bookings.
func (h *BookingHandler) DeleteBooking(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var booking models.Booking
	if err := h.db.First(&booking, "id = ? AND user_id = ?", bookingID, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&booking).Association("ServiceOfferings").Clear(); err != nil {
			return err
		}
		return tx.Delete(&booking).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "message": "booking deleted"})
}

// ListShopBookings returns bookings placed against the vendor's shops.
func (h *BookingHandler) ListShopBookings(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)

	var bookings []models.Booking
	if err := h.db.Preload("ServiceOfferings.ServiceType").Preload("User").Preload("Shop").
		Joins("JOIN laundry_shops ON laundry_shops.id = bookings.shop_id").
		Where("laundry_shops.vendor_id = ?", user.ID).
		Order("bookings.created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&bookings).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": bookings})
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateShopBookingStatus lets the owning vendor move a booking through
// its lifecycle.
func (h *BookingHandler) UpdateShopBookingStatus(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req bookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !validBookingStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	var booking models.Booking
	if err := h.db.Preload("Shop").First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "booking not found")
		}
		return err
	}
	if booking.Shop == nil || booking.Shop.VendorID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "not the shop owner")
	}

	if err := h.db.Model(&booking).Update("status", req.Status).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": booking})
}

func validBookingStatus(status string) bool {
	for _, candidate := range models.BookingStatuses {
		if status == candidate {
			return true
		}
	}
	return false
}
