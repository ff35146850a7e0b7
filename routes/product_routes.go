package routes

import (
	"factory-app/config"
	"factory-app/controllers"
	"factory-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProductRoutes(app *fiber.App, db *gorm.DB) {
	productController := controllers.NewProductController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/products",
		middleware.AuthMiddleware,
	)

	api.Get("/", productController.GetAllProducts)
	api.Post("/", productController.CreateProduct)
	api.Post("/upload", productController.CreateProductsFromExcel)
}
