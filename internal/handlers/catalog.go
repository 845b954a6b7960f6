package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/middleware"
	"github.com/example/laundrylink/internal/models"
)

// CatalogHandler manages the service-type catalog. Reads are public,
// writes are staff-only.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListServiceTypes returns all service types.
func (h *CatalogHandler) ListServiceTypes(c *fiber.Ctx) error {
	var types []models.ServiceType
	if err := h.db.Order("name").Find(&types).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": types})
}

// GetServiceType returns one service type.
func (h *CatalogHandler) GetServiceType(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var serviceType models.ServiceType
	if err := h.db.First(&serviceType, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "service type not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": serviceType})
}

type serviceTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateServiceType adds a catalog entry.
func (h *CatalogHandler) CreateServiceType(c *fiber.Ctx) error {
	if err := requireStaff(c); err != nil {
		return err
	}

	var req serviceTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	serviceType := models.ServiceType{Name: req.Name, Description: req.Description}
	if err := h.db.Create(&serviceType).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "service type already exists")
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": serviceType})
}

// UpdateServiceType edits a catalog entry.
func (h *CatalogHandler) UpdateServiceType(c *fiber.Ctx) error {
	if err := requireStaff(c); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req serviceTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	res := h.db.Model(&models.ServiceType{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "service type not found")
	}
	return c.JSON(fiber.Map{"status": "success", "message": "service type updated"})
}

// DeleteServiceType removes a catalog entry.
func (h *CatalogHandler) DeleteServiceType(c *fiber.Ctx) error {
	if err := requireStaff(c); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Where("id = ?", id).Delete(&models.ServiceType{}).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "message": "service type deleted"})
}

func requireStaff(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.IsStaff {
		return fiber.NewError(fiber.StatusForbidden, "staff access required")
	}
	return nil
}
