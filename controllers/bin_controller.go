package controllers

import (
	"strconv"

	"printrove-wms/apperr"
	"printrove-wms/middleware"
	"printrove-wms/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BinController struct {
	DB *gorm.DB
}

func NewBinController(DB *gorm.DB) *BinController {
	return &BinController{DB: DB}
}

func parseUintParam(ctx *fiber.Ctx, name string) (uint, error) {
	raw := ctx.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

func (c *BinController) CreateBin(ctx *fiber.Ctx) error {
	var input repositories.BinInput
	if err := ctx.BodyParser(&input); err != nil {
		return fail(ctx, apperr.Validation("invalid request body"))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return fail(ctx, apperr.Validation("%s", err.Error()))
	}

	repo := repositories.NewBinRepository(c.DB)
	bin, err := repo.Create(input, middleware.Username(ctx, ""))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Bin created successfully",
		"data":    bin,
	})
}

func (c *BinController) UpdateBin(ctx *fiber.Ctx) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	var input repositories.BinInput
	if err := ctx.BodyParser(&input); err != nil {
		return fail(ctx, apperr.Validation("invalid request body"))
	}

	repo := repositories.NewBinRepository(c.DB)
	bin, err := repo.Update(id, input, middleware.Username(ctx, ""))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Bin updated successfully",
		"data":    bin,
	})
}

func (c *BinController) DeleteBin(ctx *fiber.Ctx) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return fail(ctx, err)
	}

	repo := repositories.NewBinRepository(c.DB)
	if err := repo.Delete(id); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Bin deleted successfully",
	})
}

func (c *BinController) GetAllBins(ctx *fiber.Ctx) error {
	repo := repositories.NewBinRepository(c.DB)
	bins, err := repo.List()
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": bins})
}

func (c *BinController) GetAllUtilization(ctx *fiber.Ctx) error {
	repo := repositories.NewBinRepository(c.DB)
	utilizations, err := repo.ListUtilization()
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": utilizations})
}

func (c *BinController) GetProductsWithStock(ctx *fiber.Ctx) error {
	repo := repositories.NewStockRepository(c.DB)
	summaries, err := repo.ProductsWithStock()
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": summaries})
}

func (c *BinController) GetBinsForProduct(ctx *fiber.Ctx) error {
	productID, err := parseUintParam(ctx, "productId")
	if err != nil {
		return fail(ctx, err)
	}

	repo := repositories.NewStockRepository(c.DB)
	stocks, err := repo.BinsHoldingProduct(productID)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": stocks})
}

func (c *BinController) ValidateCapacity(ctx *fiber.Ctx) error {
	binID, err := parseUintParam(ctx, "binId")
	if err != nil {
		return fail(ctx, err)
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return fail(ctx, apperr.Validation("invalid request body"))
	}

	repo := repositories.NewTransferRepository(c.DB)
	preview, err := repo.ValidateCapacity(binID, input.Quantity)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": preview})
}

func (c *BinController) Putaway(ctx *fiber.Ctx) error {
	binID, err := parseUintParam(ctx, "binId")
	if err != nil {
		return fail(ctx, err)
	}

	var input struct {
		ProductID uint   `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,min=1"`
		Notes     string `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return fail(ctx, apperr.Validation("invalid request body"))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return fail(ctx, apperr.Validation("%s", err.Error()))
	}

	repo := repositories.NewStockRepository(c.DB)
	if err := repo.Putaway(input.ProductID, binID, input.Quantity, input.Notes, middleware.Username(ctx, "")); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Stock placed successfully",
	})
}

func (c *BinController) Adjust(ctx *fiber.Ctx) error {
	binID, err := parseUintParam(ctx, "binId")
	if err != nil {
		return fail(ctx, err)
	}

	var input struct {
		ProductID uint   `json:"productId" validate:"required"`
		Delta     int    `json:"delta"`
		Notes     string `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return fail(ctx, apperr.Validation("invalid request body"))
	}

	repo := repositories.NewStockRepository(c.DB)
	if err := repo.Adjust(input.ProductID, binID, input.Delta, input.Notes, middleware.Username(ctx, "")); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Stock adjusted successfully",
	})
}
