// Package combine une N reportes de periodo en un reporte acumulado: un
// master log etiquetado por periodo y un resumen re-derivado de las cifras
// publicadas de cada periodo, con chequeos de balance no fatales.
package combine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/pkg/logger"
)

const sectionDivider = "------------------------------------------------------"

// balanceTolerance holgura de los chequeos de inventario: las planillas
// fuente son externas y una barra de descuadre es ruido, no error.
var balanceTolerance = decimal.NewFromInt(1)

// Options opciones de la combinación.
type Options struct {
	// DedupeByOrderID descarta filas repetidas del ledger combinado por
	// identificador de pedido (gana la primera aparición).
	DedupeByOrderID bool
}

// Totals cifras financieras acumuladas, sumadas de los resúmenes
// publicados de cada periodo (no recalculadas del ledger unido: cada
// periodo ya validó las suyas).
type Totals struct {
	Revenue           decimal.Decimal
	ShippingCollected decimal.Decimal
	GrossRevenue      decimal.Decimal
	TaxesCollected    decimal.Decimal
	COGSTotal         decimal.Decimal
	ShippingCosts3PL  decimal.Decimal
	GrossProfit       decimal.Decimal
	GrossMargin       *decimal.Decimal // Σprofit / Σgross revenue; nil si el denominador es cero
}

// Result el reporte combinado: ledger unido, filas del resumen listas para
// la hoja Financial Summary y las advertencias de balance acumuladas.
type Result struct {
	Ledger   []entity.LedgerRow
	Lines    []entity.SummaryLine
	Totals   Totals
	Periods  []string
	Warnings []string
}

// UseCase combina artefactos de periodo ya parseados. Los artefactos
// ilegibles los filtra el llamador (con su advertencia); aquí solo se
// exige que quede al menos uno.
type UseCase struct {
	log *logger.Logger
}

// New construye el caso de uso.
func New(log *logger.Logger) *UseCase {
	return &UseCase{log: log}
}

// Combine ejecuta las cuatro re-agregaciones: unión de ledgers,
// financieros, inventario y POS/equipo de ventas.
func (uc *UseCase) Combine(artifacts []entity.PeriodArtifact, opts Options) (*Result, error) {
	if len(artifacts) == 0 {
		return nil, domain.ErrNoArtifacts
	}

	views := make([]periodView, 0, len(artifacts))
	res := &Result{}
	for _, a := range artifacts {
		label, start := parsePeriod(a.Name)
		views = append(views, periodView{artifact: a, label: label, start: start})
		res.Periods = append(res.Periods, label)
	}

	res.Ledger = uc.unionLedgers(views, opts)
	res.Lines = append(res.Lines, uc.financialSection(views, res)...)
	res.Lines = append(res.Lines, uc.inventorySection(views, res)...)
	res.Lines = append(res.Lines, uc.posSection(views, res)...)

	uc.log.Info().
		Int("periods", len(views)).
		Int("ledger_rows", len(res.Ledger)).
		Int("warnings", len(res.Warnings)).
		Msg("reportes de periodo combinados")
	return res, nil
}

// unionLedgers concatena los ledgers en orden de llegada, etiquetando cada
// fila con su periodo de origen.
func (uc *UseCase) unionLedgers(views []periodView, opts Options) []entity.LedgerRow {
	var out []entity.LedgerRow
	seen := make(map[string]bool)
	for _, v := range views {
		for _, row := range v.artifact.Ledger {
			if opts.DedupeByOrderID && row.OrderID != "" {
				if seen[row.OrderID] {
					continue
				}
				seen[row.OrderID] = true
			}
			row.SourcePeriod = v.label
			out = append(out, row)
		}
	}
	return out
}

// financialSection suma las cifras publicadas de cada periodo y arma el
// bloque "Cumulative Period Financials". El margen se recalcula sobre los
// acumulados; COGS y costos 3PL se muestran en negativo.
func (uc *UseCase) financialSection(views []periodView, res *Result) []entity.SummaryLine {
	t := &res.Totals
	for _, v := range views {
		s := v.artifact.Summary
		t.Revenue = t.Revenue.Add(s.GetOrZero(entity.MetricRevenue))
		t.ShippingCollected = t.ShippingCollected.Add(s.GetOrZero(entity.MetricShippingCollected))
		t.GrossRevenue = t.GrossRevenue.Add(s.GetOrZero(entity.MetricGrossRevenue))
		t.TaxesCollected = t.TaxesCollected.Add(s.GetOrZero(entity.MetricTaxesCollected))
		t.COGSTotal = t.COGSTotal.Add(s.GetOrZero(entity.MetricCOGS).Abs())
		t.ShippingCosts3PL = t.ShippingCosts3PL.Add(s.GetOrZero(entity.MetricTotal3PLCosts).Abs())
		t.GrossProfit = t.GrossProfit.Add(s.GetOrZero(entity.MetricGrossProfit))
	}
	if !t.GrossRevenue.IsZero() {
		margin := t.GrossProfit.Div(t.GrossRevenue)
		t.GrossMargin = &margin
	}

	lines := []entity.SummaryLine{
		{Label: "============== Cumulative Period Financials ====================="},
		{Label: "Revenue", Value: ptr(t.Revenue)},
		{Label: "+ Shipping collected", Value: ptr(t.ShippingCollected)},
		{Label: sectionDivider},
		{Label: "Gross Revenue", Value: ptr(t.GrossRevenue)},
		{Label: "+ Taxes Collected", Value: ptr(t.TaxesCollected)},
		{Label: "- COGS", Value: ptr(t.COGSTotal.Neg())},
		{Label: "- Total 3PL Costs (shipping, receiving, payment processing fee)", Value: ptr(t.ShippingCosts3PL.Neg())},
		{Label: sectionDivider},
		{Label: "Gross Profit", Value: ptr(t.GrossProfit)},
	}
	if t.GrossMargin != nil {
		lines = append(lines, entity.SummaryLine{Label: "Gross Margin", Value: ptr(*t.GrossMargin)})
	} else {
		lines = append(lines, entity.SummaryLine{Label: "Gross Margin", Text: "N/A"})
	}
	return lines
}

// inventorySection re-agrega el inventario: inicial del periodo más
// antiguo, final del más reciente, ventas sumadas, y los dos chequeos de
// balance como anotaciones.
func (uc *UseCase) inventorySection(views []periodView, res *Result) []entity.SummaryLine {
	sorted := make([]periodView, len(views))
	copy(sorted, views)
	sortChronological(sorted)

	var starting decimal.Decimal
	for _, v := range sorted {
		if s, ok := v.artifact.Summary.Get(entity.MetricStartingInventory); ok {
			starting = s
			break
		}
	}

	var cases, boxes, singles, caseBars, boxBars, singleBars, totalSold decimal.Decimal
	for _, v := range sorted {
		s := v.artifact.Summary
		cases = cases.Add(s.GetOrZero(entity.MetricCasesSold))
		boxes = boxes.Add(s.GetOrZero(entity.MetricBoxesSold))
		singles = singles.Add(s.GetOrZero(entity.MetricSingleBarsSold))
		caseBars = caseBars.Add(s.GetOrZero(entity.MetricCaseBarsSold))
		boxBars = boxBars.Add(s.GetOrZero(entity.MetricBoxBarsSold))
		totalSold = totalSold.Add(s.GetOrZero(entity.MetricTotalInventorySold))
		// Desglose en barras: los reportes viejos no publican la línea
		// "(1 each)"; se usa el conteo de barras sueltas en su lugar.
		if each, ok := s.Get(entity.MetricSingleBarsEach); ok {
			singleBars = singleBars.Add(each)
		} else {
			singleBars = singleBars.Add(s.GetOrZero(entity.MetricSingleBarsSold))
		}
	}

	ending := starting.Sub(totalSold)
	for i := len(sorted) - 1; i >= 0; i-- {
		if e, ok := sorted[i].artifact.Summary.Get(entity.MetricEndingInventory); ok {
			ending = e
			break
		}
	}

	barsFromUnits := caseBars.Add(boxBars).Add(singleBars)
	barsNote := ""
	if diff := barsFromUnits.Sub(totalSold); diff.Abs().GreaterThanOrEqual(balanceTolerance) {
		barsNote = fmt.Sprintf("WARNING: Bars sum mismatch! Calculated=%s, Total=%s, Diff=%s",
			barsFromUnits, totalSold, diff)
		res.Warnings = append(res.Warnings, barsNote)
	}

	balanceNote := ""
	calcEnding := starting.Sub(totalSold)
	if diff := calcEnding.Sub(ending); diff.Abs().GreaterThanOrEqual(balanceTolerance) {
		balanceNote = fmt.Sprintf("WARNING: Inventory balance mismatch! Starting(%s) - Sold(%s) = %s, but Ending=%s, Diff=%s",
			starting, totalSold, calcEnding, ending, diff)
		res.Warnings = append(res.Warnings, balanceNote)
	}

	return []entity.SummaryLine{
		{},
		{Label: "===============Inventory / Units======================="},
		{Label: "Starting Inventory (bars)", Value: ptr(starting)},
		{},
		{Label: "Cases Sold (units)", Value: ptr(cases)},
		{Label: "Boxes Sold (units)", Value: ptr(boxes)},
		{Label: "Single Bars Sold (units)", Value: ptr(singles)},
		{Label: sectionDivider},
		{Label: "Bars from Cases (168 each)", Value: ptr(caseBars)},
		{Label: "+ Bars from Boxes (7 each)", Value: ptr(boxBars)},
		{Label: "+ Bars from Singles (1 each)", Value: ptr(singleBars)},
		{Label: sectionDivider},
		{Label: "Total Inventory Sold (bars)", Value: ptr(totalSold), Note: barsNote},
		{},
		{Label: "Starting Inventory (bars)", Value: ptr(starting)},
		{Label: "- Total Inventory Sold (bars)", Value: ptr(totalSold.Abs().Neg())},
		{Label: sectionDivider},
		{Label: "Ending Inventory (bars)", Value: ptr(ending), Note: balanceNote},
	}
}

// posSection re-agrega las barras en manos del equipo de ventas contra las
// que quedan en bodega del 3PL. Se omite cuando ningún periodo publicó
// datos POS: no hay nada que cuadrar.
func (uc *UseCase) posSection(views []periodView, res *Result) []entity.SummaryLine {
	sorted := make([]periodView, len(views))
	copy(sorted, views)
	sortChronological(sorted)

	anyPOS := false
	var singlesSold decimal.Decimal
	for _, v := range sorted {
		s := v.artifact.Summary
		if _, ok := s.Get(entity.MetricPOSBarsGiven); ok {
			anyPOS = true
		}
		singlesSold = singlesSold.Add(s.GetOrZero(entity.MetricSingleBarsSold))
	}
	if !anyPOS {
		return nil
	}

	latest := sorted[len(sorted)-1].artifact.Summary
	given := latest.GetOrZero(entity.MetricPOSBarsGiven)
	outstanding := latest.GetOrZero(entity.MetricBarsOutstanding)
	ending := latest.GetOrZero(entity.MetricEndingInventory)
	leftAt3PL := latest.GetOrZero(entity.MetricBarsLeftAt3PL)

	posNote := ""
	calcRemaining := given.Sub(singlesSold)
	if diff := calcRemaining.Sub(outstanding); diff.Abs().GreaterThanOrEqual(balanceTolerance) {
		posNote = fmt.Sprintf("WARNING: POS balance mismatch! Given(%s) - Sold(%s) = %s, but Remaining=%s, Diff=%s",
			given, singlesSold, calcRemaining, outstanding, diff)
		res.Warnings = append(res.Warnings, posNote)
	}

	warehouseNote := ""
	calc3PL := ending.Sub(given)
	if diff := calc3PL.Sub(leftAt3PL); diff.Abs().GreaterThanOrEqual(balanceTolerance) {
		warehouseNote = fmt.Sprintf("WARNING: Warehouse balance mismatch! Ending(%s) - Given(%s) = %s, but 3PL=%s, Diff=%s",
			ending, given, calc3PL, leftAt3PL, diff)
		res.Warnings = append(res.Warnings, warehouseNote)
	}
	if leftAt3PL.IsNegative() {
		negNote := fmt.Sprintf("WARNING: Negative bars at 3PL: %s", leftAt3PL)
		res.Warnings = append(res.Warnings, negNote)
		if warehouseNote != "" {
			warehouseNote = warehouseNote + " | " + negNote
		} else {
			warehouseNote = negNote
		}
	}

	return []entity.SummaryLine{
		{},
		{Label: "=============== POS / Sales Team Inventory ============"},
		{Label: "POS Bars Sent to Sales Team", Value: ptr(given), Note: "Cumulative total"},
		{Label: "Single Bars Sold by Sales Team", Value: ptr(singlesSold), Note: "Cumulative total"},
		{Label: sectionDivider},
		{Label: "POS Bars Remaining", Value: ptr(outstanding), Note: posNote},
		{},
		{},
		{Label: "=============== Warehouse Inventory ===================="},
		{Label: "Ending Inventory (bars)", Value: ptr(ending)},
		{Label: "- POS Bars Sent to Sales Team", Value: ptr(given.Abs().Neg())},
		{Label: sectionDivider},
		{Label: "Bars Remaining at 3PL", Value: ptr(leftAt3PL), Note: warehouseNote},
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
