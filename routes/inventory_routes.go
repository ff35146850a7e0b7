package routes

import (
	"factory-app/config"
	"factory-app/controllers"
	"factory-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupInventoryRoutes(app *fiber.App, db *gorm.DB) {
	inventoryController := controllers.NewInventoryController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/inventory",
		middleware.AuthMiddleware,
	)

	api.Get("/", inventoryController.GetAllInventory)
	api.Post("/", inventoryController.CreateInventoryItem)
	api.Put("/:id/adjust", inventoryController.AdjustStock)
}
