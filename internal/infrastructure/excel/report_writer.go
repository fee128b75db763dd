package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
)

// Hojas del reporte de periodo.
const (
	SheetMasterLog = "Master Log"
	SheetSummary   = "Financial Summary"
)

// Encabezados del master log. El combinado agrega source_period_report.
var masterLogHeader = []string{
	"order_ID", "order_date", "email", "box_or_bar_or_case", "source",
	"line_item_quantity", "total_bars_sold", "line_item_price", "subtotal",
	"discount", "shipping", "tax", "total", "bar_cogs", "total_shipping_cost",
}

// Banners y separador de la hoja Financial Summary. Se conservan tal cual
// los produce la planilla histórica para que reportes viejos y nuevos se
// relean igual.
const (
	bannerFinancials = "============== Cumulative Period Financials ====================="
	bannerInventory  = "===============Inventory / Units======================="
	bannerPOS        = "=============== POS / Sales Team ======================"
	summaryDivider   = "------------------------------------------------------"
)

// Formatos numéricos de celda.
const (
	fmtCurrency   = `"$"#,##0.00`
	fmtPercent    = `0.00%`
	fmtInteger    = `#,##0`
	fmtAccounting = `_($* #,##0.00_);_($* (#,##0.00);_($* "-"_);_(@_)`
)

// WriteReport escribe el workbook de un periodo: el master log conciliado
// y la hoja Financial Summary derivada del resumen.
func WriteReport(w io.Writer, ledger []entity.LedgerRow, s entity.PeriodSummary) error {
	return writeWorkbook(w, ledger, BuildSummaryLines(s), false)
}

// WriteCombined escribe el workbook combinado: el master log unificado
// (con columna de periodo de origen) y las líneas ya armadas por el
// combinador. Los montos usan formato contable, con negativos entre
// paréntesis.
func WriteCombined(w io.Writer, ledger []entity.LedgerRow, lines []entity.SummaryLine) error {
	return writeWorkbook(w, ledger, lines, true)
}

// BuildSummaryLines arma la tabla Metric/Value de un periodo. COGS y los
// costos 3PL se publican en positivo: el signo lo lleva la etiqueta
// ("- COGS"); el combinador los vuelve a leer con valor absoluto.
func BuildSummaryLines(s entity.PeriodSummary) []entity.SummaryLine {
	val := func(label string, v decimal.Decimal) entity.SummaryLine {
		return entity.SummaryLine{Label: label, Value: &v}
	}
	lines := []entity.SummaryLine{
		{Label: bannerFinancials},
		val("Revenue", s.GrossRevenue),
		val("+ Shipping collected", s.ShippingCollected),
		val("Gross Revenue", s.GrossRevenue.Add(s.ShippingCollected)),
		val("+ Taxes Collected", s.TaxesCollected),
		{Label: summaryDivider},
		val("- COGS", s.COGSTotal),
		val("- 3PL Shipping Costs (orders)", s.ShippingCostsOrders),
		val("- 3PL Extra Costs", s.ExtraCosts3PL),
		val("- Payment Processing Fee", s.PaymentProcessingFee),
		val("- Total 3PL Costs (shipping, receiving, payment processing fee)", s.ShippingCostsTotal),
		{Label: summaryDivider},
		val("Gross Profit", s.GrossProfit),
	}
	if s.GrossMargin != nil {
		lines = append(lines, val("Gross Margin", *s.GrossMargin))
	} else {
		lines = append(lines, entity.SummaryLine{Label: "Gross Margin", Text: "N/A"})
	}
	lines = append(lines,
		entity.SummaryLine{},
		entity.SummaryLine{Label: bannerInventory},
		val("Starting Inventory (bars)", s.StartingInventoryBars),
		val("Cases Sold (units)", s.CasesSold),
		val("Boxes Sold (units)", s.BoxesSold),
		val("Single Bars Sold (units)", s.SingleBarsSold),
		entity.SummaryLine{Label: summaryDivider},
		val("Case Bars Sold (168 each)", s.CaseBarsSold),
		val("+ Box Bars Sold (7 each)", s.BoxBarsSold),
		val("+ Single Bars Sold (1 each)", s.SingleBarsSold),
		val("Total Inventory Sold (bars)", s.TotalBarsSold),
		val("Ending Inventory (bars)", s.EndingInventoryBars),
	)
	if s.POSBarsGiven != nil {
		lines = append(lines,
			entity.SummaryLine{},
			entity.SummaryLine{Label: bannerPOS},
			val("Total POS Bars Given to Sales Members", *s.POSBarsGiven),
		)
		if s.POSBarsToSell != nil {
			lines = append(lines, val("Bars to be Sold (POS)", *s.POSBarsToSell))
		}
		if s.POSBarsOutstanding != nil {
			lines = append(lines, val("Bars Outstanding (POS)", *s.POSBarsOutstanding))
		}
		if s.POSBarsLeftAt3PL != nil {
			lines = append(lines, val("Bars Left at 3PL", *s.POSBarsLeftAt3PL))
		}
	}
	return lines
}

func writeWorkbook(w io.Writer, ledger []entity.LedgerRow, lines []entity.SummaryLine, combined bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMasterLog); err != nil {
		return fmt.Errorf("workbook: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("workbook: crear hoja %q: %w", SheetSummary, err)
	}

	if err := writeMasterLog(f, ledger, combined); err != nil {
		return err
	}
	if err := writeSummarySheet(f, lines, combined); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("workbook: escribir salida: %w", err)
	}
	return nil
}

func writeMasterLog(f *excelize.File, ledger []entity.LedgerRow, combined bool) error {
	header := masterLogHeader
	if combined {
		header = append(append([]string{}, masterLogHeader...), "source_period_report")
	}
	widths := make([]int, len(header))
	for c, name := range header {
		if err := setCell(f, SheetMasterLog, c, 0, name, widths); err != nil {
			return err
		}
	}

	currency, err := numStyle(f, fmtCurrency)
	if err != nil {
		return err
	}
	integer, err := numStyle(f, fmtInteger)
	if err != nil {
		return err
	}

	for i, row := range ledger {
		r := i + 1
		cells := []any{
			EscapeFormula(row.OrderID), row.OrderDate, row.Email,
			row.UnitType, row.Source,
			decValue(row.Quantity), row.BarsEquivalent.InexactFloat64(),
			decValue(row.Price), decValue(row.Subtotal), decValue(row.Discount),
			decValue(row.Shipping), decValue(row.Tax), decValue(row.Total),
			row.COGS.InexactFloat64(), decValue(row.TotalShippingCost),
		}
		if combined {
			cells = append(cells, row.SourcePeriod)
		}
		for c, v := range cells {
			if err := setCell(f, SheetMasterLog, c, r, v, widths); err != nil {
				return err
			}
		}
	}

	if len(ledger) > 0 {
		// columnas de cantidad en entero, montos en moneda
		if err := styleColumn(f, SheetMasterLog, 5, len(ledger), integer); err != nil {
			return err
		}
		if err := styleColumn(f, SheetMasterLog, 6, len(ledger), integer); err != nil {
			return err
		}
		for _, c := range []int{7, 8, 9, 10, 11, 12, 13, 14} {
			if err := styleColumn(f, SheetMasterLog, c, len(ledger), currency); err != nil {
				return err
			}
		}
	}
	return applyWidths(f, SheetMasterLog, widths)
}

func writeSummarySheet(f *excelize.File, lines []entity.SummaryLine, combined bool) error {
	widths := make([]int, 3)
	for c, name := range []string{"Metric", "Value", "Note"} {
		if err := setCell(f, SheetSummary, c, 0, name, widths); err != nil {
			return err
		}
	}

	moneyFmt := fmtCurrency
	if combined {
		moneyFmt = fmtAccounting
	}
	money, err := numStyle(f, moneyFmt)
	if err != nil {
		return err
	}
	percent, err := numStyle(f, fmtPercent)
	if err != nil {
		return err
	}
	integer, err := numStyle(f, fmtInteger)
	if err != nil {
		return err
	}

	for i, line := range lines {
		r := i + 1
		if err := setCell(f, SheetSummary, 0, r, EscapeFormula(line.Label), widths); err != nil {
			return err
		}
		switch {
		case line.Value != nil:
			if err := setCell(f, SheetSummary, 1, r, line.Value.InexactFloat64(), widths); err != nil {
				return err
			}
			cell, err := excelize.CoordinatesToCellName(2, r+1)
			if err != nil {
				return fmt.Errorf("workbook: coordenada: %w", err)
			}
			style := money
			switch valueFormat(line.Label) {
			case fmtPercent:
				style = percent
			case fmtInteger:
				style = integer
			}
			if err := f.SetCellStyle(SheetSummary, cell, cell, style); err != nil {
				return fmt.Errorf("workbook: estilo de celda: %w", err)
			}
		case line.Text != "":
			if err := setCell(f, SheetSummary, 1, r, line.Text, widths); err != nil {
				return err
			}
		}
		if line.Note != "" {
			if err := setCell(f, SheetSummary, 2, r, EscapeFormula(line.Note), widths); err != nil {
				return err
			}
		}
	}
	return applyWidths(f, SheetSummary, widths)
}

// valueFormat elige el formato numérico de una métrica según su etiqueta:
// márgenes en porcentaje, conteos de inventario/barras en entero, el
// resto en moneda.
func valueFormat(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "margin"):
		return fmtPercent
	case strings.Contains(l, "bars"), strings.Contains(l, "inventory"),
		strings.Contains(l, "units"), strings.Contains(l, "cases sold"),
		strings.Contains(l, "boxes sold"):
		return fmtInteger
	default:
		return fmtCurrency
	}
}

// EscapeFormula antepone un apóstrofe a textos que Excel interpretaría
// como fórmula (=, + o - inicial). Las etiquetas del resumen empiezan
// con esos signos a propósito.
func EscapeFormula(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-':
		return "'" + s
	}
	return s
}

func setCell(f *excelize.File, sheet string, col, row int, v any, widths []int) error {
	if v == nil {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("workbook: coordenada: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("workbook: celda %s: %w", cell, err)
	}
	if col < len(widths) {
		if n := displayLen(v); n > widths[col] {
			widths[col] = n
		}
	}
	return nil
}

func displayLen(v any) int {
	switch t := v.(type) {
	case string:
		return len(t)
	case float64:
		return len(fmt.Sprintf("%.2f", t))
	default:
		return len(fmt.Sprint(t))
	}
}

// applyWidths autoajusta cada columna al contenido más largo, con tope
// para las notas de advertencia, que pueden ser muy largas.
func applyWidths(f *excelize.File, sheet string, widths []int) error {
	for c, w := range widths {
		if w == 0 {
			continue
		}
		if w > 48 {
			w = 48
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("workbook: columna: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, float64(w+2)); err != nil {
			return fmt.Errorf("workbook: ancho de columna: %w", err)
		}
	}
	return nil
}

func styleColumn(f *excelize.File, sheet string, col, rows, style int) error {
	top, err := excelize.CoordinatesToCellName(col+1, 2)
	if err != nil {
		return fmt.Errorf("workbook: coordenada: %w", err)
	}
	bottom, err := excelize.CoordinatesToCellName(col+1, rows+1)
	if err != nil {
		return fmt.Errorf("workbook: coordenada: %w", err)
	}
	if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
		return fmt.Errorf("workbook: estilo de columna: %w", err)
	}
	return nil
}

func numStyle(f *excelize.File, format string) (int, error) {
	id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return 0, fmt.Errorf("workbook: crear estilo: %w", err)
	}
	return id, nil
}

func decValue(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}
