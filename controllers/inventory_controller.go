package controllers

import (
	"factory-app/controllers/idgen"
	"factory-app/models"
	"factory-app/types"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(DB *gorm.DB) *InventoryController {
	return &InventoryController{DB: DB}
}

func (c *InventoryController) GetAllInventory(ctx *fiber.Ctx) error {
	category := ctx.Query("category")

	var items []models.InventoryItem
	query := c.DB.Order("name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Find(&items).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

type CreateItemPayload struct {
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category" validate:"required,oneof=raw_material finished_good"`
	Uom          string          `json:"uom" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	HsnCode      string          `json:"hsn_code"`
	GstRate      decimal.Decimal `json:"gst_rate"`
}

// CreateInventoryItem untuk input manual item, biasanya bahan baku.
// Item finished good umumnya terbentuk otomatis saat batch pertama dibuat.
func (c *InventoryController) CreateInventoryItem(ctx *fiber.Ctx) error {
	var payload CreateItemPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	// Validasi menggunakan validator
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	if payload.Quantity.IsNegative() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Quantity cannot be negative"})
	}

	item := models.InventoryItem{
		ID:           types.SnowflakeID(idgen.GenerateID()),
		Name:         payload.Name,
		Category:     payload.Category,
		Uom:          payload.Uom,
		Quantity:     models.Round2(payload.Quantity),
		CostPrice:    models.Round2(payload.CostPrice),
		SellingPrice: models.Round2(payload.SellingPrice),
		HsnCode:      payload.HsnCode,
		GstRate:      payload.GstRate,
		CreatedBy:    getUserID(ctx),
	}

	if err := c.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Inventory item created",
		"data":    item,
	})
}

type AdjustStockPayload struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// AdjustStock menimpa qty satu item, untuk koreksi stok manual
func (c *InventoryController) AdjustStock(ctx *fiber.Ctx) error {
	itemID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	var payload AdjustStockPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if payload.Quantity.IsNegative() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Quantity cannot be negative"})
	}

	var item models.InventoryItem
	err = c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", itemID).Take(&item).Error; err != nil {
			return err
		}
		item.Quantity = models.Round2(payload.Quantity)
		item.UpdatedBy = getUserID(ctx)
		return tx.Save(&item).Error
	})
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Stock adjusted",
		"data":    item,
	})
}
