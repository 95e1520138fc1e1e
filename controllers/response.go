package controllers

import (
	"printrove-wms/apperr"

	"github.com/gofiber/fiber/v2"
)

// fail renders any error in the standard envelope. Business-rule violations
// keep their code and status; anything else surfaces as UNAVAILABLE.
func fail(ctx *fiber.Ctx, err error) error {
	appErr := apperr.From(err)
	return ctx.Status(appErr.HTTPStatus).JSON(fiber.Map{
		"success": false,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
