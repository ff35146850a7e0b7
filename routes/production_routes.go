package routes

import (
	"factory-app/config"
	"factory-app/controllers"
	"factory-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProductionRoutes(app *fiber.App, db *gorm.DB) {
	productionController := controllers.NewProductionController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/production",
		middleware.AuthMiddleware,
	)

	api.Post("/", productionController.CreateProduction)
	api.Get("/", productionController.GetAllProduction)
	api.Get("/:id", productionController.GetProductionByID)
	api.Put("/:id", productionController.UpdateProduction)
	api.Delete("/:id", productionController.DeleteProduction)
	api.Post("/:id/curing", productionController.MoveToCuring)
	api.Post("/:id/curing/complete", productionController.CompleteCuring)
	api.Post("/:id/internal-use", productionController.AllocateInternalUse)
}
