package controllers

import (
	"strconv"

	"printrove-wms/apperr"
	"printrove-wms/middleware"
	"printrove-wms/repositories"
	"printrove-wms/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PickingController struct {
	DB *gorm.DB
}

func NewPickingController(DB *gorm.DB) *PickingController {
	return &PickingController{DB: DB}
}

func parsePickingID(ctx *fiber.Ctx) (types.SnowflakeID, error) {
	raw := ctx.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid picking id %q", raw)
	}
	return types.SnowflakeID(id), nil
}

func (c *PickingController) CreatePicking(ctx *fiber.Ctx) error {
	var input struct {
		BatchID uint `json:"batchId" validate:"required"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return fail(ctx, apperr.Validation("invalid request body"))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return fail(ctx, apperr.Validation("%s", err.Error()))
	}

	repo := repositories.NewPickingRepository(c.DB)
	record, err := repo.CreateFromBatch(input.BatchID, middleware.Username(ctx, ""))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Picking record created",
		"data":    record,
	})
}

func (c *PickingController) GetPicking(ctx *fiber.Ctx) error {
	id, err := parsePickingID(ctx)
	if err != nil {
		return fail(ctx, err)
	}

	repo := repositories.NewPickingRepository(c.DB)
	record, err := repo.Get(id)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": record})
}

func (c *PickingController) GetPickingStatus(ctx *fiber.Ctx) error {
	id, err := parsePickingID(ctx)
	if err != nil {
		return fail(ctx, err)
	}

	repo := repositories.NewPickingRepository(c.DB)
	statuses, err := repo.Status(id)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": statuses})
}

func (c *PickingController) Pick(ctx *fiber.Ctx) error {
	id, err := parsePickingID(ctx)
	if err != nil {
		return fail(ctx, err)
	}

	var input repositories.PickInput
	if err := ctx.BodyParser(&input); err != nil {
		return fail(ctx, apperr.Validation("invalid request body"))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return fail(ctx, apperr.Validation("%s", err.Error()))
	}

	input.PickedBy = middleware.Username(ctx, input.PickedBy)

	repo := repositories.NewPickingRepository(c.DB)
	status, err := repo.Pick(id, input)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"productStatus": status},
	})
}

func (c *PickingController) Complete(ctx *fiber.Ctx) error {
	id, err := parsePickingID(ctx)
	if err != nil {
		return fail(ctx, err)
	}

	var input struct {
		Force bool `json:"force"`
	}
	// Body is optional for a clean completion.
	_ = ctx.BodyParser(&input)

	repo := repositories.NewPickingRepository(c.DB)
	detached, err := repo.Complete(id, input.Force, middleware.Username(ctx, ""))
	if err != nil {
		return fail(ctx, err)
	}

	message := "Picking completed"
	if len(detached) > 0 {
		message = "Picking completed with shortfall; affected orders removed from batch"
	}

	return ctx.JSON(fiber.Map{
		"success":        true,
		"message":        message,
		"detachedOrders": detached,
	})
}
