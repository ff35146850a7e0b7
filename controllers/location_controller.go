package controllers

import (
	"factory-app/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LocationController struct {
	DB *gorm.DB
}

func NewLocationController(DB *gorm.DB) *LocationController {
	return &LocationController{DB: DB}
}

func (c *LocationController) GetAllLocations(ctx *fiber.Ctx) error {
	var locations []models.Location
	if err := c.DB.Where("is_active = ?", true).Order("location_code ASC").Find(&locations).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    locations,
	})
}

type CreateLocationPayload struct {
	LocationCode string `json:"location_code" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Type         string `json:"type" validate:"required,oneof=production curing store"`
}

func (c *LocationController) CreateLocation(ctx *fiber.Ctx) error {
	var payload CreateLocationPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	// Validasi menggunakan validator
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	location := models.Location{
		LocationCode: payload.LocationCode,
		Name:         payload.Name,
		Type:         payload.Type,
		IsActive:     true,
		CreatedBy:    getUserID(ctx),
	}

	if err := c.DB.Create(&location).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Location created",
		"data":    location,
	})
}
