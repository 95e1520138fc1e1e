package routes

import (
	"printrove-wms/config"
	"printrove-wms/controllers"
	"printrove-wms/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTransferRoutes(app *fiber.App, db *gorm.DB) {
	transferController := controllers.NewTransferController(db)
	api := app.Group(config.MAIN_ROUTES+"/bin-transfers", middleware.AuthMiddleware)

	api.Post("/", transferController.CreateTransfer)
	api.Get("/location-history/:productId", transferController.GetLocationHistory)
}
