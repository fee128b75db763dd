// Package pdf genera la versión imprimible del resumen de un periodo:
// una página con las mismas líneas Metric/Value de la hoja Financial
// Summary, pensada para circular por correo sin abrir el workbook.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Skye Foods  │  Nombre del reporte + rango de fechas │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SECCIÓN: Cumulative Period Financials                       │
//	│    Metric ............................ Value                 │
//	│  SECCIÓN: Inventory / Units                                  │
//	│  SECCIÓN: POS / Sales Team (si hay datos)                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: advertencias de balance + fecha de generación       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 183, Green: 28, Blue: 28}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// SummaryPDFGenerator produce el PDF de resumen usando Maroto v2.
type SummaryPDFGenerator struct{}

// NewSummaryPDFGenerator construye el generador.
func NewSummaryPDFGenerator() *SummaryPDFGenerator { return &SummaryPDFGenerator{} }

// GenerateSummaryPDF genera el PDF y devuelve sus bytes. Las líneas son
// las mismas que van a la hoja Financial Summary del workbook, así ambas
// salidas nunca divergen.
func (g *SummaryPDFGenerator) GenerateSummaryPDF(
	report *entity.PeriodReport,
	lines []entity.SummaryLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Skye Foods Period Report", true).
		WithAuthor("Skye Foods", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	var warnings []string
	for _, l := range lines {
		if l.Note != "" {
			warnings = append(warnings, l.Note)
		}
		switch {
		case isBanner(l.Label):
			m.AddRows(sectionRow(bannerTitle(l.Label)))
		case isDivider(l.Label):
			m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
		case l.Label == "" && l.Value == nil && l.Text == "":
			m.AddRows(row.New(3))
		default:
			m.AddRows(metricRow(l))
		}
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(warnings, report.RowCount) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: marca (izq) y nombre del reporte + rango del periodo (der).
func headerRow(report *entity.PeriodReport) core.Row {
	rango := "—"
	if report.PeriodStart != nil && report.PeriodEnd != nil {
		rango = report.PeriodStart.Format("01/02/06") + " – " + report.PeriodEnd.Format("01/02/06")
	}
	return row.New(18).Add(
		col.New(6).Add(
			text.New("SKYE FOODS", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Order / 3PL Reconciliation", props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("PERIOD REPORT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(report.Name, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
			text.New(rango, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// sectionRow: título de sección en lugar del banner "=====" de la hoja.
func sectionRow(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3,
		}),
	))
}

// metricRow: etiqueta a la izquierda, valor formateado a la derecha.
func metricRow(l entity.SummaryLine) core.Row {
	value := l.Text
	if l.Value != nil {
		value = formatValue(l.Label, *l.Value)
	}
	labelStyle := props.Text{Size: 9, Top: 1}
	valueStyle := props.Text{Size: 9, Align: align.Right, Top: 1}
	if isKeyMetric(l.Label) {
		labelStyle.Style = fontstyle.Bold
		valueStyle.Style = fontstyle.Bold
	}
	return row.New(6).Add(
		col.New(8).Add(text.New(l.Label, labelStyle)),
		col.New(4).Add(text.New(value, valueStyle)),
	)
}

// footerRows: advertencias de los chequeos de balance y pie de página.
func footerRows(warnings []string, rowCount int) []core.Row {
	var rows []core.Row
	for _, w := range warnings {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(w, props.Text{Size: 7, Color: colorWarning, Top: 1}),
		)))
	}
	rows = append(rows, row.New(7).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Master log: %d filas   |   Generado: %s",
			rowCount, time.Now().Format("2006-01-02 15:04")),
			props.Text{Size: 7, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func isBanner(label string) bool  { return strings.HasPrefix(strings.TrimSpace(label), "=") }
func isDivider(label string) bool { return strings.HasPrefix(strings.TrimSpace(label), "---") }

func bannerTitle(label string) string {
	return strings.TrimSpace(strings.Trim(label, "= "))
}

func isKeyMetric(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "gross profit") || strings.Contains(l, "gross revenue") ||
		strings.Contains(l, "ending inventory")
}

// formatValue replica los formatos del workbook: porcentaje para
// márgenes, entero para conteos de barras/unidades, moneda para el resto.
func formatValue(label string, v decimal.Decimal) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "margin"):
		return v.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
	case strings.Contains(l, "bars"), strings.Contains(l, "inventory"),
		strings.Contains(l, "units"), strings.Contains(l, "cases sold"),
		strings.Contains(l, "boxes sold"):
		return groupThousands(v.StringFixed(0))
	default:
		return "$" + groupThousands(v.StringFixed(2))
	}
}

// groupThousands inserta comas de miles en un string numérico, con o sin
// parte decimal. Ej: "25000.00" → "25,000.00"
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	n := len(intPart)
	if n > 3 {
		var b strings.Builder
		rem := n % 3
		if rem > 0 {
			b.WriteString(intPart[:rem])
		}
		for i := rem; i < n; i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	if neg {
		return "-" + intPart + frac
	}
	return intPart + frac
}
