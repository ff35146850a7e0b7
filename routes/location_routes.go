package routes

import (
	"factory-app/config"
	"factory-app/controllers"
	"factory-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupLocationRoutes(app *fiber.App, db *gorm.DB) {
	locationController := controllers.NewLocationController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/locations",
		middleware.AuthMiddleware,
	)

	api.Get("/", locationController.GetAllLocations)
	api.Post("/", locationController.CreateLocation)
}
