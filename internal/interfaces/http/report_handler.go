package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/application/report"
)

// ReportHandler reportes de stock, conciliación y reposición (solo lectura).
type ReportHandler struct {
	reports       *report.ReportUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *report.ReportUseCase, replenishment *inventory.ReplenishmentUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, replenishment: replenishment}
}

// Stock godoc
// @Summary      Reporte de stock valorizado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockReportDTO
// @Router       /api/reports/stock [get]
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	out, err := h.reports.GenerateStockReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockByLocation godoc
// @Summary      Reporte de stock de una ubicación
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200         {object}  dto.StockReportDTO
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/reports/stock/location/{locationId} [get]
func (h *ReportHandler) StockByLocation(c *fiber.Ctx) error {
	out, err := h.reports.GenerateStockReportByLocation(c.UserContext(), c.Params("locationId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        location_id  query  string  false  "Restringir a una ubicación"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/stock/pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	pdf, err := h.reports.StockReportPDF(c.UserContext(), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="reporte-stock.pdf"`)
	return c.Send(pdf)
}

// Reconciliation godoc
// @Summary      Conciliación de un artículo contra su historial
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200     {object}  dto.ReconciliationDTO
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/reports/reconciliation/{itemId} [get]
func (h *ReportHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.reports.Reconcile(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Artículos bajo el umbral con la cantidad sugerida de pedido, priorizados por salidas de los últimos 90 días.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral (vacío = configurado)"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/replenishment [get]
func (h *ReportHandler) Replenishment(c *fiber.Ctx) error {
	threshold, err := optionalInt64Query(c, "threshold")
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
