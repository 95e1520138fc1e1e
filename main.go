package main

import (
	"fmt"
	"log"

	"printrove-wms/config"
	"printrove-wms/controllers/idgen"
	"printrove-wms/database"
	"printrove-wms/notifier"
	"printrove-wms/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()

	app := fiber.New()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupBinRoutes(app, db)
	routes.SetupTransferRoutes(app, db)
	routes.SetupPickingRoutes(app, db)
	routes.SetupReportRoutes(app, db)

	capacityNotifier := notifier.NewCapacityNotifier(db)
	capacityNotifier.Start()
	defer capacityNotifier.Stop()

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
