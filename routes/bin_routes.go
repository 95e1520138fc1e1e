package routes

import (
	"printrove-wms/config"
	"printrove-wms/controllers"
	"printrove-wms/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupBinRoutes(app *fiber.App, db *gorm.DB) {
	binController := controllers.NewBinController(db)
	api := app.Group(config.MAIN_ROUTES+"/bins", middleware.AuthMiddleware)

	api.Get("/all", binController.GetAllBins)
	api.Get("/utilization/all", binController.GetAllUtilization)
	api.Get("/products-with-stock", binController.GetProductsWithStock)
	api.Get("/product/:productId", binController.GetBinsForProduct)
	api.Post("/:binId/validate-capacity", binController.ValidateCapacity)
	api.Post("/:binId/putaway", binController.Putaway)
	api.Post("/:binId/adjust", binController.Adjust)
	api.Post("/", binController.CreateBin)
	api.Put("/:id", binController.UpdateBin)
	api.Delete("/:id", binController.DeleteBin)
}
