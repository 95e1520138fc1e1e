package routes

import (
	"printrove-wms/config"
	"printrove-wms/controllers"
	"printrove-wms/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReportRoutes(app *fiber.App, db *gorm.DB) {
	reportController := controllers.NewReportController(db)
	api := app.Group(config.MAIN_ROUTES+"/reports", middleware.AuthMiddleware)

	api.Get("/bin-utilization/excel", reportController.ExportBinUtilization)
	api.Get("/location-history/:productId/excel", reportController.ExportLocationHistory)
}
