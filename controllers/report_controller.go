package controllers

import (
	"fmt"
	"net/http"

	"printrove-wms/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(DB *gorm.DB) *ReportController {
	return &ReportController{DB: DB}
}

// ExportBinUtilization generates the bin utilization report as an Excel file.
func (c *ReportController) ExportBinUtilization(ctx *fiber.Ctx) error {
	repo := repositories.NewBinRepository(c.DB)
	utilizations, err := repo.ListUtilization()
	if err != nil {
		return fail(ctx, err)
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Bin")
	f.SetCellValue(sheet, "B1", "Category")
	f.SetCellValue(sheet, "C1", "Capacity")
	f.SetCellValue(sheet, "D1", "Current Qty")
	f.SetCellValue(sheet, "E1", "Available")
	f.SetCellValue(sheet, "F1", "Utilization %")
	f.SetCellValue(sheet, "G1", "Status")

	for i, u := range utilizations {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), u.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), u.Category)
		if u.Unbounded {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "unbounded")
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), u.Capacity)
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), u.CurrentQuantity)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), u.AvailableSpace)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("%.1f", u.UtilizationPercent))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), u.Status)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="bin-utilization.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}

// ExportLocationHistory exports a product's full movement history.
func (c *ReportController) ExportLocationHistory(ctx *fiber.Ctx) error {
	productID, err := parseUintParam(ctx, "productId")
	if err != nil {
		return fail(ctx, err)
	}

	repo := repositories.NewHistoryRepository(c.DB)
	entries, _, _, err := repo.Query(productID, repositories.HistoryFilter{Page: 1, Limit: 10000})
	if err != nil {
		return fail(ctx, err)
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Performed At")
	f.SetCellValue(sheet, "B1", "Action")
	f.SetCellValue(sheet, "C1", "Bin ID")
	f.SetCellValue(sheet, "D1", "Quantity")
	f.SetCellValue(sheet, "E1", "Reference Type")
	f.SetCellValue(sheet, "F1", "Reference ID")
	f.SetCellValue(sheet, "G1", "Performed By")
	f.SetCellValue(sheet, "H1", "Notes")

	for i, e := range entries {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.PerformedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e.Action)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.BinID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.ReferenceType)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), e.ReferenceID)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), e.PerformedBy)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), e.Notes)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="location-history.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}
