package handler

import (
	"bytes"
	"encoding/csv"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/pkg/apperr"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func reportQuery(c *fiber.Ctx) service.ReportQuery {
	return service.ReportQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Search:    c.Query("search"),
		Page:      c.Query("page"),
		PerPage:   c.Query("per_page"),
	}
}

func (h *ReportHandler) StockIn(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	report, err := h.service.StockInReport(caller, reportQuery(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Stock-in report generated successfully", report)
}

func (h *ReportHandler) StockOut(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	report, err := h.service.StockOutReport(caller, reportQuery(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Stock-out report generated successfully", report)
}

func (h *ReportHandler) StockSummary(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	summary, err := h.service.StockSummary(caller, reportQuery(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, fiber.StatusOK, "Stock summary generated successfully", summary)
}

func (h *ReportHandler) ExportStockIn(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	export, err := h.service.ExportStockIn(caller, reportQuery(c))
	if err != nil {
		return response.Error(c, err)
	}
	return writeCSV(c, export)
}

func (h *ReportHandler) ExportStockOut(c *fiber.Ctx) error {
	caller, err := auth.FromFiber(c)
	if err != nil {
		return response.Error(c, err)
	}

	export, err := h.service.ExportStockOut(caller, reportQuery(c))
	if err != nil {
		return response.Error(c, err)
	}
	return writeCSV(c, export)
}

func writeCSV(c *fiber.Ctx, export *service.CSVExport) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(export.Rows); err != nil {
		return response.Error(c, apperr.Internal("Failed to render CSV export", err))
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.Send(buf.Bytes())
}
