package controllers

import (
	"errors"
	"strconv"

	"factory-app/repositories"
	"factory-app/types"
	"factory-app/utils"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type ProductionController struct {
	DB *gorm.DB
}

func NewProductionController(DB *gorm.DB) *ProductionController {
	return &ProductionController{DB: DB}
}

func getUserID(ctx *fiber.Ctx) int {
	userID, ok := ctx.Locals("userID").(float64)
	if !ok {
		return 0
	}
	return int(userID)
}

func parseRunID(ctx *fiber.Ctx, name string) (types.SnowflakeID, error) {
	id, err := strconv.ParseInt(ctx.Params(name), 10, 64)
	if err != nil {
		return 0, utils.NewValidationError("invalid id parameter")
	}
	return types.SnowflakeID(id), nil
}

// respondEngineError memetakan error bertipe dari engine ke status HTTP
func respondEngineError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	case utils.IsValidation(err), utils.IsPrecondition(err), utils.IsInsufficientStock(err):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
}

type CreateProductionPayload struct {
	ProductionDate string                        `json:"production_date" validate:"required"`
	LocationCode   string                        `json:"location_code"`
	Lines          []repositories.ProductionLine `json:"lines" validate:"required,min=1"`
}

// CreateProduction menyimpan satu batch multi-baris. Semua baris satu tanggal,
// stok material dicek terhadap total gabungan semua baris.
func (c *ProductionController) CreateProduction(ctx *fiber.Ctx) error {
	var payload CreateProductionPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	// Validasi menggunakan validator
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	prodRepo := repositories.NewProductionRepository(c.DB)
	runs, err := prodRepo.CreateRuns(payload.ProductionDate, payload.LocationCode, payload.Lines, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Production batch created",
		"data":    runs,
	})
}

// GetAllProduction memuat semua run plus angka flow turunannya. Setiap load
// juga menjalankan sinkronisasi payable. Satu-satunya jalur pembuatan
// payable ada di sini.
func (c *ProductionController) GetAllProduction(ctx *fiber.Ctx) error {
	prodRepo := repositories.NewProductionRepository(c.DB)
	payableRepo := repositories.NewPayableRepository(c.DB)

	runs, err := prodRepo.GetRunModels()
	if err != nil {
		return respondEngineError(ctx, err)
	}

	if err := payableRepo.SyncWithRuns(runs); err != nil {
		return respondEngineError(ctx, err)
	}

	list, err := prodRepo.GetAllRuns()
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    list,
	})
}

func (c *ProductionController) GetProductionByID(ctx *fiber.Ctx) error {
	runID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	prodRepo := repositories.NewProductionRepository(c.DB)
	run, err := prodRepo.GetRunByID(runID)
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    run,
	})
}

type MoveToCuringPayload struct {
	Quantity     int    `json:"quantity" validate:"required"`
	LocationCode string `json:"location_code"`
}

func (c *ProductionController) MoveToCuring(ctx *fiber.Ctx) error {
	runID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	var payload MoveToCuringPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	prodRepo := repositories.NewProductionRepository(c.DB)
	run, err := prodRepo.MoveToCuring(runID, payload.Quantity, payload.LocationCode, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Moved to curing",
		"data":    run,
	})
}

type CompleteCuringPayload struct {
	Passed       int    `json:"passed" validate:"required"`
	Damaged      int    `json:"damaged"`
	LocationCode string `json:"location_code"`
}

func (c *ProductionController) CompleteCuring(ctx *fiber.Ctx) error {
	runID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	var payload CompleteCuringPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	prodRepo := repositories.NewProductionRepository(c.DB)
	run, err := prodRepo.CompleteCuring(runID, payload.Passed, payload.Damaged, payload.LocationCode, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Curing result recorded",
		"data":    run,
	})
}

type AllocateInternalUsePayload struct {
	Quantity        int               `json:"quantity" validate:"required"`
	TargetProductID types.SnowflakeID `json:"target_product_id" validate:"required"`
	LocationCode    string            `json:"location_code"`
}

func (c *ProductionController) AllocateInternalUse(ctx *fiber.Ctx) error {
	runID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	var payload AllocateInternalUsePayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	prodRepo := repositories.NewProductionRepository(c.DB)
	derived, err := prodRepo.AllocateInternalUse(runID, payload.Quantity, payload.TargetProductID, payload.LocationCode, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Internal use allocated",
		"data":    derived,
	})
}

func (c *ProductionController) UpdateProduction(ctx *fiber.Ctx) error {
	runID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	var payload repositories.UpdateRunInput
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	prodRepo := repositories.NewProductionRepository(c.DB)
	run, err := prodRepo.UpdateRun(runID, payload, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Production batch updated",
		"data":    run,
	})
}

func (c *ProductionController) DeleteProduction(ctx *fiber.Ctx) error {
	runID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	prodRepo := repositories.NewProductionRepository(c.DB)
	if err := prodRepo.DeleteRun(runID, getUserID(ctx)); err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Production batch deleted",
	})
}
