package http

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/skyefoods/skye-ledger/internal/application/combine"
	"github.com/skyefoods/skye-ledger/internal/application/dto"
	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/internal/domain/repository"
	"github.com/skyefoods/skye-ledger/internal/infrastructure/excel"
	"github.com/skyefoods/skye-ledger/pkg/logger"
)

const combinedReportName = "Skye_Combined_Report"

// CombineHandler une reportes persistidos en un reporte acumulado.
type CombineHandler struct {
	uc      *combine.UseCase
	reports repository.ReportRepository
	ledgers repository.LedgerRepository
	log     *logger.Logger
}

// NewCombineHandler construye el handler de combinación.
func NewCombineHandler(
	uc *combine.UseCase,
	reports repository.ReportRepository,
	ledgers repository.LedgerRepository,
	log *logger.Logger,
) *CombineHandler {
	return &CombineHandler{uc: uc, reports: reports, ledgers: ledgers, log: log}
}

// Combine godoc
// @Summary      Combinar reportes de periodo
// @Description  Une los reportes indicados en un workbook acumulado. Un
// @Description  reporte ilegible se salta con advertencia, no aborta la
// @Description  combinación. Con ?format=json devuelve el resumen en vez
// @Description  del archivo.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CombineRequest  true  "IDs de reportes"
// @Success      200  {object}  dto.CombineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/reports/combine [post]
func (h *CombineHandler) Combine(c *fiber.Ctx) error {
	var in dto.CombineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.ReportIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "report_ids no puede estar vacío"})
	}
	if in.DedupeKey != "" && in.DedupeKey != "order_id" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dedupe_key debe ser order_id"})
	}

	var (
		artifacts []entity.PeriodArtifact
		loadWarns []string
	)
	for _, id := range in.ReportIDs {
		art, err := h.loadArtifact(c, id)
		if err != nil {
			warn := fmt.Sprintf("WARNING: could not read report %s: %v", id, err)
			loadWarns = append(loadWarns, warn)
			h.log.Warn().Str("report_id", id).Err(err).Msg("reporte saltado en la combinación")
			continue
		}
		artifacts = append(artifacts, art)
	}

	res, err := h.uc.Combine(artifacts, combine.Options{DedupeByOrderID: in.DedupeKey == "order_id"})
	if err != nil {
		if errors.Is(err, domain.ErrNoArtifacts) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NO_ARTIFACTS", Message: "ningún reporte pudo cargarse"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	warnings := append(loadWarns, res.Warnings...)

	if c.Query("format") == "json" {
		return c.JSON(dto.CombineResponse{
			Name:     combinedReportName,
			Periods:  res.Periods,
			RowCount: len(res.Ledger),
			Warnings: warnings,
		})
	}

	var buf bytes.Buffer
	if err := excel.WriteCombined(&buf, res.Ledger, res.Lines); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", combinedReportName+".xlsx"))
	return c.Send(buf.Bytes())
}

// loadArtifact reconstruye el artefacto de un reporte persistido: su
// master log y las métricas publicadas del resumen.
func (h *CombineHandler) loadArtifact(c *fiber.Ctx, id string) (entity.PeriodArtifact, error) {
	var art entity.PeriodArtifact
	report, err := h.reports.GetByID(c.Context(), id)
	if err != nil {
		return art, err
	}
	ledger, err := h.ledgers.ListByReport(c.Context(), id)
	if err != nil {
		return art, err
	}
	return entity.PeriodArtifact{
		Name:    report.Name,
		Ledger:  ledger,
		Summary: report.Summary.MetricValues(),
	}, nil
}
