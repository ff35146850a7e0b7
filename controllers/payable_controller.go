package controllers

import (
	"factory-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayableController struct {
	DB *gorm.DB
}

func NewPayableController(DB *gorm.DB) *PayableController {
	return &PayableController{DB: DB}
}

func (c *PayableController) GetAllPayables(ctx *fiber.Ctx) error {
	payableRepo := repositories.NewPayableRepository(c.DB)

	payables, err := payableRepo.GetAllPayables()
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    payables,
	})
}

func (c *PayableController) ApprovePayable(ctx *fiber.Ctx) error {
	payableID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	payableRepo := repositories.NewPayableRepository(c.DB)
	payable, err := payableRepo.Approve(payableID, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Payable approved",
		"data":    payable,
	})
}

type PayPayload struct {
	Amount decimal.Decimal `json:"amount"`
}

func (c *PayableController) PayPayable(ctx *fiber.Ctx) error {
	payableID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	var payload PayPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	payableRepo := repositories.NewPayableRepository(c.DB)
	payable, err := payableRepo.Pay(payableID, payload.Amount, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Payment recorded",
		"data":    payable,
	})
}

type ReversePayload struct {
	Reason string `json:"reason" validate:"required"`
}

func (c *PayableController) ReversePayable(ctx *fiber.Ctx) error {
	payableID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	var payload ReversePayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	payableRepo := repositories.NewPayableRepository(c.DB)
	payable, err := payableRepo.Reverse(payableID, payload.Reason, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Payment reversed",
		"data":    payable,
	})
}

type UpdateAmountPayload struct {
	Amount decimal.Decimal `json:"amount"`
}

func (c *PayableController) UpdatePayableAmount(ctx *fiber.Ctx) error {
	payableID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	var payload UpdateAmountPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	payableRepo := repositories.NewPayableRepository(c.DB)
	payable, err := payableRepo.UpdateAmountDue(payableID, payload.Amount, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Amount due updated",
		"data":    payable,
	})
}

func (c *PayableController) DeletePayable(ctx *fiber.Ctx) error {
	payableID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	payableRepo := repositories.NewPayableRepository(c.DB)
	payable, err := payableRepo.SoftDelete(payableID, getUserID(ctx))
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Payable deleted",
		"data":    payable,
	})
}

func (c *PayableController) GetPayablePayments(ctx *fiber.Ctx) error {
	payableID, err := parseRunID(ctx, "id")
	if err != nil {
		return respondEngineError(ctx, err)
	}

	payableRepo := repositories.NewPayableRepository(c.DB)
	payments, err := payableRepo.GetPayments(payableID)
	if err != nil {
		return respondEngineError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    payments,
	})
}
