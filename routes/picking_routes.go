package routes

import (
	"printrove-wms/config"
	"printrove-wms/controllers"
	"printrove-wms/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPickingRoutes(app *fiber.App, db *gorm.DB) {
	pickingController := controllers.NewPickingController(db)
	api := app.Group(config.MAIN_ROUTES+"/picking", middleware.AuthMiddleware)

	api.Post("/", pickingController.CreatePicking)
	api.Get("/:id", pickingController.GetPicking)
	api.Get("/:id/status", pickingController.GetPickingStatus)
	api.Post("/:id/pick", pickingController.Pick)
	api.Post("/:id/complete", pickingController.Complete)
}
