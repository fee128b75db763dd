package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/pkg/moneyfmt"
)

// ReadArtifact relee un reporte de periodo ya generado (propio o de la
// planilla histórica) y lo deja listo para el combinador. Las hojas se
// buscan por nombre aproximado: reportes viejos usan variantes como
// "MasterLog" o "Summary".
func ReadArtifact(r io.Reader, name string) (entity.PeriodArtifact, error) {
	var art entity.PeriodArtifact
	f, err := excelize.OpenReader(r)
	if err != nil {
		return art, fmt.Errorf("report %s: abrir workbook: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return art, fmt.Errorf("report %s: workbook sin hojas: %w", name, domain.ErrMissingSheet)
	}

	masterSheet := findSheet(sheets, "master", "log")
	summarySheet := findSheet(sheets, "financial", "summary")
	if summarySheet == "" {
		summarySheet = findSheet(sheets, "summary")
	}
	// última carta: reconocer la hoja de resumen por su contenido
	if summarySheet == "" {
		summarySheet = sheetWithMetricColumn(f, sheets, masterSheet)
	}
	if masterSheet == "" && summarySheet == "" {
		return art, fmt.Errorf("report %s: sin hoja de master log ni de resumen: %w", name, domain.ErrMissingSheet)
	}

	art.Name = name
	if masterSheet != "" {
		art.Ledger, err = readMasterLog(f, masterSheet)
		if err != nil {
			return art, fmt.Errorf("report %s: %w", name, err)
		}
	}
	if summarySheet != "" {
		art.Summary, err = readSummary(f, summarySheet)
		if err != nil {
			return art, fmt.Errorf("report %s: %w", name, err)
		}
	} else {
		art.Summary = entity.MetricValues{}
	}
	return art, nil
}

// findSheet devuelve la primera hoja cuyo nombre contiene todas las
// palabras clave, sin distinguir mayúsculas.
func findSheet(sheets []string, kws ...string) string {
	for _, s := range sheets {
		lower := strings.ToLower(s)
		ok := true
		for _, kw := range kws {
			if !strings.Contains(lower, kw) {
				ok = false
				break
			}
		}
		if ok {
			return s
		}
	}
	return ""
}

// sheetWithMetricColumn busca una hoja que parezca un resumen: encabezado
// "Metric" o alguna fila con la métrica de gross revenue.
func sheetWithMetricColumn(f *excelize.File, sheets []string, skip string) string {
	for _, s := range sheets {
		if s == skip {
			continue
		}
		rows, err := f.GetRows(s)
		if err != nil {
			continue
		}
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			head := strings.ToLower(strings.TrimSpace(row[0]))
			if head == "metric" || entity.MatchMetric(row[0]) == entity.MetricGrossRevenue {
				return s
			}
		}
	}
	return ""
}

func readMasterLog(f *excelize.File, sheet string) ([]entity.LedgerRow, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cols := indexColumns(rows[0])
	if _, ok := cols["order_id"]; !ok {
		return nil, fmt.Errorf("hoja %q: columna %q: %w", sheet, "order_ID", domain.ErrMissingColumn)
	}
	var ledger []entity.LedgerRow
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		cell := func(name string) string { return cellAt(row, cols, name) }
		// box_or_bar_or_case reemplazó a la columna legada box_or_bar;
		// en hojas parcialmente migradas conviven y la legada rellena
		// las celdas vacías de la nueva.
		unitType := cell("box_or_bar_or_case")
		if unitType == "" {
			unitType = cell("box_or_bar")
		}
		ledger = append(ledger, entity.LedgerRow{
			OrderID:           strings.TrimPrefix(cell("order_id"), "'"),
			OrderDate:         cell("order_date"),
			Email:             cell("email"),
			UnitType:          unitType,
			Source:            cell("source"),
			Quantity:          moneyfmt.Parse(cell("line_item_quantity")),
			BarsEquivalent:    moneyfmt.ParseOrZero(cell("total_bars_sold")),
			Price:             moneyfmt.Parse(cell("line_item_price")),
			Subtotal:          moneyfmt.Parse(cell("subtotal")),
			Discount:          moneyfmt.Parse(cell("discount")),
			Shipping:          moneyfmt.Parse(cell("shipping")),
			Tax:               moneyfmt.Parse(cell("tax")),
			Total:             moneyfmt.Parse(cell("total")),
			COGS:              moneyfmt.ParseOrZero(cell("bar_cogs")),
			TotalShippingCost: moneyfmt.Parse(cell("total_shipping_cost")),
			SourcePeriod:      cell("source_period_report"),
		})
	}
	return ledger, nil
}

func readSummary(f *excelize.File, sheet string) (entity.MetricValues, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	metricCol, valueCol := 0, 1
	start := 0
	if len(rows) > 0 {
		cols := indexColumns(rows[0])
		if m, ok := cols["metric"]; ok {
			metricCol = m
			start = 1
			if v, ok := cols["value"]; ok {
				valueCol = v
			}
		}
	}

	vals := entity.MetricValues{}
	for _, row := range rows[start:] {
		if metricCol >= len(row) {
			continue
		}
		kind := entity.MatchMetric(row[metricCol])
		if kind == entity.MetricUnknown || valueCol >= len(row) {
			continue
		}
		if v := moneyfmt.Parse(row[valueCol]); v != nil {
			vals.Set(kind, *v)
		}
	}
	return vals, nil
}
