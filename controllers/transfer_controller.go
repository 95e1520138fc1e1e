package controllers

import (
	"time"

	"printrove-wms/apperr"
	"printrove-wms/middleware"
	"printrove-wms/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TransferController struct {
	DB *gorm.DB
}

func NewTransferController(DB *gorm.DB) *TransferController {
	return &TransferController{DB: DB}
}

func (c *TransferController) CreateTransfer(ctx *fiber.Ctx) error {
	var input repositories.TransferInput
	if err := ctx.BodyParser(&input); err != nil {
		return fail(ctx, apperr.Validation("invalid request body"))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return fail(ctx, apperr.Validation("%s", err.Error()))
	}

	input.TransferredBy = middleware.Username(ctx, input.TransferredBy)

	repo := repositories.NewTransferRepository(c.DB)
	if err := repo.Transfer(input); err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Transfer completed successfully",
	})
}

func (c *TransferController) GetLocationHistory(ctx *fiber.Ctx) error {
	productID, err := parseUintParam(ctx, "productId")
	if err != nil {
		return fail(ctx, err)
	}

	filter := repositories.HistoryFilter{
		Action:        ctx.Query("action"),
		ReferenceType: ctx.Query("referenceType"),
		Page:          ctx.QueryInt("page", 1),
		Limit:         ctx.QueryInt("limit", 20),
	}

	if raw := ctx.Query("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fail(ctx, apperr.Validation("invalid startDate %q, expected YYYY-MM-DD", raw))
		}
		filter.StartDate = &t
	}
	if raw := ctx.Query("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fail(ctx, apperr.Validation("invalid endDate %q, expected YYYY-MM-DD", raw))
		}
		// Inclusive end of day
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}

	repo := repositories.NewHistoryRepository(c.DB)
	entries, total, summary, err := repo.Query(productID, filter)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"history": entries,
		"total":   total,
		"summary": summary,
	})
}
