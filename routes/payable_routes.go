package routes

import (
	"factory-app/config"
	"factory-app/controllers"
	"factory-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPayableRoutes(app *fiber.App, db *gorm.DB) {
	payableController := controllers.NewPayableController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/payables",
		middleware.AuthMiddleware,
	)

	api.Get("/", payableController.GetAllPayables)
	api.Put("/:id/approve", payableController.ApprovePayable)
	api.Post("/:id/pay", payableController.PayPayable)
	api.Post("/:id/reverse", payableController.ReversePayable)
	api.Put("/:id/amount", payableController.UpdatePayableAmount)
	api.Delete("/:id", payableController.DeletePayable)
	api.Get("/:id/payments", payableController.GetPayablePayments)
}
