package main

import (
	"log"

	"factory-app/config"
	"factory-app/controllers/idgen"
	"factory-app/database"
	"factory-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	app := fiber.New()

	// Pastikan database ada
	database.EnsureDatabaseExists(config.DBName)

	// Connect to database
	db, err := database.OpenDatabaseConnection(config.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate models
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	// Setup CORS middleware
	config.SetupCORS(app)

	// Setup routes
	routes.SetupProductRoutes(app, db)
	routes.SetupInventoryRoutes(app, db)
	routes.SetupLocationRoutes(app, db)
	routes.SetupProductionRoutes(app, db)
	routes.SetupPayableRoutes(app, db)

	log.Fatal(app.Listen(":" + config.APP_PORT))
}
