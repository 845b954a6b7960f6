package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/middleware"
	"github.com/example/laundrylink/internal/models"
	"github.com/example/laundrylink/internal/utils"
)

// ShopHandler manages vendor shop listings.
type ShopHandler struct {
	db *gorm.DB
}

// NewShopHandler constructs a ShopHandler.
func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{db: db}
}

type offeringInput struct {
	ServiceTypeID    uuid.UUID `json:"service_type_id"`
	Price            float64   `json:"price"`
	Unit             string    `json:"unit"`
	EstimatedMinutes int       `json:"estimated_minutes"`
}

type operatingHourInput struct {
	DayOfWeek   int    `json:"day_of_week"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	IsClosed    bool   `json:"is_closed"`
}

type shopRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PhoneNumber string   `json:"phone_number"`
	Email       string   `json:"email"`
	Website     string   `json:"website"`
	LocationURL string   `json:"location_url"`
	Address     string   `json:"address"`
	District    string   `json:"district"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
	Zipcode     string   `json:"zipcode"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	PickupStartTime   string `json:"pickup_start_time"`
	PickupEndTime     string `json:"pickup_end_time"`
	DeliveryStartTime string `json:"delivery_start_time"`
	DeliveryEndTime   string `json:"delivery_end_time"`

	ServiceOfferings []offeringInput      `json:"service_offerings"`
	OperatingHours   []operatingHourInput `json:"operating_hours"`
}

func validateHours(hours []operatingHourInput) error {
	seen := map[int]bool{}
	for _, h := range hours {
		if h.DayOfWeek < models.Monday || h.DayOfWeek > models.Sunday {
			return fiber.NewError(fiber.StatusBadRequest, "day_of_week must be between 0 and 6")
		}
		if seen[h.DayOfWeek] {
			return fiber.NewError(fiber.StatusBadRequest, "duplicate day_of_week in operating hours")
		}
		seen[h.DayOfWeek] = true
	}
	return nil
}

// ListShops returns active shops with optional field filters, ordered by
// rating by default.
func (h *ShopHandler) ListShops(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	// Filters are case-insensitive substring matches; LOWER keeps the
	// behavior identical across postgres and sqlite.
	query := h.db.Model(&models.LaundryShop{}).Where("is_active = ?", true)
	if q := c.Query("q"); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if district := c.Query("district"); district != "" {
		query = query.Where("LOWER(district) LIKE ?", "%"+strings.ToLower(district)+"%")
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("LOWER(state) LIKE ?", "%"+strings.ToLower(state)+"%")
	}
	if zipcode := c.Query("zipcode"); zipcode != "" {
		query = query.Where("zipcode LIKE ?", "%"+zipcode+"%")
	}

	order := "rating desc, name"
	switch c.Query("ordering") {
	case "name":
		order = "name"
	case "created_at":
		order = "created_at desc"
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var shops []models.LaundryShop
	if err := query.Order(order).
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&shops).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   shops,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetShop returns one shop with offerings, hours and reviews attached.
func (h *ShopHandler) GetShop(c *fiber.Ctx) error {
	shopID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var shop models.LaundryShop
	err = h.db.
		Preload("ServiceOfferings.ServiceType").
		Preload("OperatingHours", func(tx *gorm.DB) *gorm.DB { return tx.Order("day_of_week") }).
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at desc") }).
		First(&shop, "id = ?", shopID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "shop not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": shop})
}

// CreateShop registers a listing for the authenticated vendor, with
// nested offerings and operating hours created in the same transaction.
func (h *ShopHandler) CreateShop(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if user.UserType != models.UserTypeVendor && !user.IsStaff {
		return fiber.NewError(fiber.StatusForbidden, "only vendors can create shops")
	}

	var req shopRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if err := validateHours(req.OperatingHours); err != nil {
		return err
	}

	shop := models.LaundryShop{
		VendorID:          user.ID,
		Name:              req.Name,
		Description:       req.Description,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		Website:           req.Website,
		LocationURL:       req.LocationURL,
		Address:           req.Address,
		District:          req.District,
		State:             req.State,
		Country:           req.Country,
		Zipcode:           req.Zipcode,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		PickupStartTime:   req.PickupStartTime,
		PickupEndTime:     req.PickupEndTime,
		DeliveryStartTime: req.DeliveryStartTime,
		DeliveryEndTime:   req.DeliveryEndTime,
		IsActive:          true,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}
		if err := createOfferings(tx, shop.ID, req.ServiceOfferings); err != nil {
			return err
		}
		return createHours(tx, shop.ID, req.OperatingHours)
	})
	if err != nil {
		return shopWriteError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": shop})
}

// UpdateShop updates a shop owned by the caller. Nested offerings and
// hours, when provided, replace the existing sets.
func (h *ShopHandler) UpdateShop(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	shop, err := h.ownedShop(c, user)
	if err != nil {
		return err
	}

	var req shopRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateHours(req.OperatingHours); err != nil {
		return err
	}

	// Rating and total_reviews are derived and stay untouched: only
	// client-editable columns appear in the update map.
	updates := map[string]interface{}{
		"description":         req.Description,
		"phone_number":        req.PhoneNumber,
		"email":               req.Email,
		"website":             req.Website,
		"location_url":        req.LocationURL,
		"address":             req.Address,
		"district":            req.District,
		"state":               req.State,
		"zipcode":             req.Zipcode,
		"latitude":            req.Latitude,
		"longitude":           req.Longitude,
		"pickup_start_time":   req.PickupStartTime,
		"pickup_end_time":     req.PickupEndTime,
		"delivery_start_time": req.DeliveryStartTime,
		"delivery_end_time":   req.DeliveryEndTime,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Country != "" {
		updates["country"] = req.Country
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(shop).Updates(updates).Error; err != nil {
			return err
		}

		if req.ServiceOfferings != nil {
			if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.ServiceOffering{}).Error; err != nil {
				return err
			}
			if err := createOfferings(tx, shop.ID, req.ServiceOfferings); err != nil {
				return err
			}
		}
		if req.OperatingHours != nil {
			if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.OperatingHour{}).Error; err != nil {
				return err
			}
			if err := createHours(tx, shop.ID, req.OperatingHours); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return shopWriteError(err)
	}

	return c.JSON(fiber.Map{"status": "success", "data": shop})
}

// DeleteShop removes a shop owned by the caller.
func (h *ShopHandler) DeleteShop(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	shop, err := h.ownedShop(c, user)
	if err != nil {
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.ServiceOffering{}, &models.OperatingHour{}, &models.Review{},
		} {
			if err := tx.Where("shop_id = ?", shop.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(shop).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "message": "shop deleted"})
}

// ListVendorShops returns the authenticated vendor's own listings.
func (h *ShopHandler) ListVendorShops(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var shops []models.LaundryShop
	if err := h.db.
		Preload("ServiceOfferings.ServiceType").
		Preload("OperatingHours").
		Where("vendor_id = ?", user.ID).
		Order("created_at desc").
		Find(&shops).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success", "data": shops})
}

// NearbyShops filters active shops with coordinates by haversine distance.
func (h *ShopHandler) NearbyShops(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat and lng are required")
	}

	radius := 10.0
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid radius")
		}
		radius = parsed
	}

	var candidates []models.LaundryShop
	if err := h.db.
		Where("is_active = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", true).
		Find(&candidates).Error; err != nil {
		return err
	}

	nearby := make([]models.LaundryShop, 0, len(candidates))
	for _, shop := range candidates {
		if utils.HaversineKm(lat, lng, *shop.Latitude, *shop.Longitude) <= radius {
			nearby = append(nearby, shop)
		}
	}

	return c.JSON(fiber.Map{"status": "success", "data": nearby})
}

func (h *ShopHandler) ownedShop(c *fiber.Ctx, user *models.User) (*models.LaundryShop, error) {
	shopID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var shop models.LaundryShop
	if err := h.db.First(&shop, "id = ?", shopID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "shop not found")
		}
		return nil, err
	}

	if shop.VendorID != user.ID && !user.IsStaff {
		return nil, fiber.NewError(fiber.StatusForbidden, "not the shop owner")
	}
	return &shop, nil
}

func createOfferings(tx *gorm.DB, shopID uuid.UUID, inputs []offeringInput) error {
	for _, in := range inputs {
		offering := models.ServiceOffering{
			ShopID:           shopID,
			ServiceTypeID:    in.ServiceTypeID,
			Price:            in.Price,
			Unit:             in.Unit,
			EstimatedMinutes: in.EstimatedMinutes,
		}
		if offering.Unit == "" {
			offering.Unit = "per item"
		}
		if err := tx.Create(&offering).Error; err != nil {
			return err
		}
	}
	return nil
}

func createHours(tx *gorm.DB, shopID uuid.UUID, inputs []operatingHourInput) error {
	for _, in := range inputs {
		hour := models.OperatingHour{
			ShopID:      shopID,
			DayOfWeek:   in.DayOfWeek,
			OpeningTime: in.OpeningTime,
			ClosingTime: in.ClosingTime,
			IsClosed:    in.IsClosed,
		}
		if err := tx.Create(&hour).Error; err != nil {
			return err
		}
	}
	return nil
}

func shopWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.NewError(fiber.StatusConflict, "shop name or nested entry already exists")
	}
	return err
}
