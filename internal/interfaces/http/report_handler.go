package http

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/application/combine"
	"github.com/skyefoods/skye-ledger/internal/application/dto"
	"github.com/skyefoods/skye-ledger/internal/application/reconcile"
	"github.com/skyefoods/skye-ledger/internal/application/summary"
	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/internal/domain/repository"
	"github.com/skyefoods/skye-ledger/internal/infrastructure/excel"
	"github.com/skyefoods/skye-ledger/internal/infrastructure/pdf"
	"github.com/skyefoods/skye-ledger/pkg/moneyfmt"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler maneja las corridas del pipeline y sus artefactos.
type ReportHandler struct {
	reconcileUC *reconcile.UseCase
	summaryUC   *summary.UseCase
	reports     repository.ReportRepository
	ledgers     repository.LedgerRepository
	pdfGen      *pdf.SummaryPDFGenerator
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(
	reconcileUC *reconcile.UseCase,
	summaryUC *summary.UseCase,
	reports repository.ReportRepository,
	ledgers repository.LedgerRepository,
	pdfGen *pdf.SummaryPDFGenerator,
) *ReportHandler {
	return &ReportHandler{
		reconcileUC: reconcileUC,
		summaryUC:   summaryUC,
		reports:     reports,
		ledgers:     ledgers,
		pdfGen:      pdfGen,
	}
}

// RunPipeline godoc
// @Summary      Correr el pipeline de un periodo
// @Description  Recibe el export de pedidos (CSV) y la planilla 3PL (xlsx),
// @Description  concilia, resume y persiste el reporte del periodo.
// @Tags         reports
// @Accept       multipart/form-data
// @Produce      json
// @Param        orders             formData  file    true   "export CSV de pedidos"
// @Param        threepl            formData  file    true   "planilla xlsx del 3PL"
// @Param        name               formData  string  false  "nombre del reporte (con rango YYYY-MM-DD_to_YYYY-MM-DD)"
// @Param        starting_inventory formData  string  true   "inventario inicial en barras"
// @Success      201  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) RunPipeline(c *fiber.Ctx) error {
	orders, err := h.readOrdersFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ORDERS", Message: err.Error()})
	}
	shipments, err := h.readShipmentsFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_3PL", Message: err.Error()})
	}

	in, err := pipelineInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	ledger := h.reconcileUC.Reconcile(orders, shipments)
	s, err := h.summaryUC.Build(ledger, shipments, in.scalars)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyLedger) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EMPTY_LEDGER", Message: "la conciliación no produjo filas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	start, end := combine.PeriodRange(in.name)
	report := &entity.PeriodReport{
		Name:        in.name,
		PeriodStart: start,
		PeriodEnd:   end,
		Summary:     s,
		RowCount:    len(ledger),
	}
	if err := h.reports.CreateWithLedger(c.Context(), report, ledger); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NAME_EXISTS", Message: "ya existe un reporte con ese nombre"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReport(*report))
}

// List godoc
// @Summary      Listar reportes persistidos
// @Tags         reports
// @Produce      json
// @Success      200  {array}  dto.ReportResponse
// @Router       /api/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()

	reports, err := h.reports.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, dto.FromReport(*r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un reporte
// @Tags         reports
// @Produce      json
// @Param        id   path      string  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	report, err := h.reports.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondLoadErr(c, err)
	}
	return c.JSON(dto.FromReport(*report))
}

// Delete godoc
// @Summary      Borrar un reporte y su master log
// @Tags         reports
// @Param        id  path  string  true  "ID del reporte"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [delete]
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	if err := h.reports.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reporte no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Workbook godoc
// @Summary      Descargar el workbook xlsx de un reporte
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id  path  string  true  "ID del reporte"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/workbook [get]
func (h *ReportHandler) Workbook(c *fiber.Ctx) error {
	report, err := h.reports.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondLoadErr(c, err)
	}
	ledger, err := h.ledgers.ListByReport(c.Context(), report.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, ledger, report.Summary); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Name+".xlsx"))
	return c.Send(buf.Bytes())
}

// SummaryPDF godoc
// @Summary      Descargar el resumen del periodo en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del reporte"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	report, err := h.reports.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondLoadErr(c, err)
	}
	data, err := h.pdfGen.GenerateSummaryPDF(report, excel.BuildSummaryLines(report.Summary))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Name+".pdf"))
	return c.Send(data)
}

// ── helpers ───────────────────────────────────────────────────────────

// respondLoadErr traduce un error de carga de reporte a su respuesta HTTP.
func respondLoadErr(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reporte no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func (h *ReportHandler) readOrdersFile(c *fiber.Ctx) ([]entity.LineItem, error) {
	fh, err := c.FormFile("orders")
	if err != nil {
		return nil, fmt.Errorf("archivo orders requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir orders: %w", err)
	}
	defer f.Close()
	return excel.ReadOrders(f)
}

func (h *ReportHandler) readShipmentsFile(c *fiber.Ctx) ([]entity.ShipmentRecord, error) {
	fh, err := c.FormFile("threepl")
	if err != nil {
		return nil, fmt.Errorf("archivo threepl requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir threepl: %w", err)
	}
	defer f.Close()
	return excel.ReadShipments(f)
}

type pipelineForm struct {
	name    string
	scalars summary.Input
}

// pipelineInput arma los escalares del periodo desde los campos del
// multipart. Los montos aceptan la misma sintaxis que las planillas
// ($, comas, paréntesis).
func pipelineInput(c *fiber.Ctx) (pipelineForm, error) {
	var form pipelineForm

	form.name = c.FormValue("name")
	if form.name == "" {
		form.name = "Skye_Period_Report_" + time.Now().Format("2006-01-02")
	}

	starting := moneyfmt.Parse(c.FormValue("starting_inventory"))
	if starting == nil {
		return form, fmt.Errorf("starting_inventory es requerido y debe ser numérico")
	}
	fee := decimal.Zero
	if v := moneyfmt.Parse(c.FormValue("payment_processing_fee")); v != nil {
		fee = *v
	}
	form.scalars = summary.Input{
		PaymentProcessingFee: fee,
		StartingInventory:    *starting,
		POSBarsGiven:         moneyfmt.Parse(c.FormValue("pos_bars_given")),
		POSBarsToSell:        moneyfmt.Parse(c.FormValue("pos_bars_to_sell")),
	}
	return form, nil
}
