package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MetricKind identifica una métrica de la hoja "Financial Summary".
//
// Las etiquetas de esa hoja son texto para humanos ("+ Taxes Collected",
// "- COGS", separadores "====="), pero el combinador las vuelve a leer:
// aquí se cierra el vocabulario en un enum con sus palabras clave, en vez
// de repetir búsquedas de substring en cada punto de uso.
type MetricKind int

const (
	MetricUnknown MetricKind = iota
	MetricRevenue
	MetricShippingCollected
	MetricGrossRevenue
	MetricTaxesCollected
	MetricCOGS
	MetricShippingCostsOrders
	MetricExtraCosts3PL
	MetricPaymentProcessingFee
	MetricBarsLeftAt3PL
	MetricTotal3PLCosts
	MetricGrossProfit
	MetricGrossMargin
	MetricStartingInventory
	MetricCaseBarsSold
	MetricBoxBarsSold
	MetricSingleBarsEach
	MetricCasesSold
	MetricBoxesSold
	MetricSingleBarsSold
	MetricTotalInventorySold
	MetricEndingInventory
	MetricPOSBarsGiven
	MetricPOSBarsToSell
	MetricBarsOutstanding
)

// metricKeywords asocia cada métrica con las palabras que deben aparecer
// todas en la etiqueta normalizada. El orden importa: se evalúan de más
// específica a más genérica (ej. "bars left at 3pl" antes que "3pl",
// "gross revenue" antes que "revenue").
var metricKeywords = []struct {
	kind MetricKind
	kws  []string
}{
	{MetricGrossMargin, []string{"gross margin"}},
	{MetricGrossProfit, []string{"gross profit"}},
	{MetricGrossRevenue, []string{"gross revenue"}},
	{MetricStartingInventory, []string{"starting inventory"}},
	{MetricTotalInventorySold, []string{"total inventory sold"}},
	{MetricEndingInventory, []string{"ending inventory"}},
	{MetricCaseBarsSold, []string{"case bars sold"}},
	{MetricBoxBarsSold, []string{"box bars sold"}},
	// variantes del reporte combinado
	{MetricCaseBarsSold, []string{"bars from cases"}},
	{MetricBoxBarsSold, []string{"bars from boxes"}},
	{MetricSingleBarsEach, []string{"bars from singles"}},
	{MetricSingleBarsEach, []string{"single bars sold", "each"}},
	{MetricSingleBarsSold, []string{"single bars sold"}},
	{MetricCasesSold, []string{"cases sold"}},
	{MetricBoxesSold, []string{"boxes sold"}},
	{MetricShippingCollected, []string{"shipping", "collected"}},
	{MetricTaxesCollected, []string{"taxes", "collected"}},
	{MetricCOGS, []string{"cogs"}},
	// "Total 3PL Costs (shipping, receiving, payment processing fee)"
	// contiene la frase del fee; la forma específica va primero.
	{MetricTotal3PLCosts, []string{"total 3pl"}},
	{MetricPaymentProcessingFee, []string{"payment processing fee"}},
	{MetricPOSBarsGiven, []string{"pos bars", "sales members"}},
	{MetricPOSBarsGiven, []string{"pos bars sent"}},
	{MetricPOSBarsToSell, []string{"bars to be sold"}},
	{MetricBarsOutstanding, []string{"bars outstanding"}},
	{MetricBarsOutstanding, []string{"pos bars remaining"}},
	{MetricBarsLeftAt3PL, []string{"bars left", "3pl"}},
	{MetricBarsLeftAt3PL, []string{"bars remaining", "3pl"}},
	{MetricShippingCostsOrders, []string{"shipping costs", "orders"}},
	{MetricExtraCosts3PL, []string{"extra costs", "3pl"}},
	{MetricTotal3PLCosts, []string{"3pl"}},
	// etiqueta legada "Bars Sold This Week (single bars)"
	{MetricSingleBarsSold, []string{"bars sold", "single"}},
	{MetricRevenue, []string{"revenue"}},
}

// NormalizeMetricLabel limpia una etiqueta: recorta espacios, descarta el
// apóstrofe de escape de Excel y los marcadores de signo iniciales
// (+/-/=), y pasa a minúsculas. Es la clave de búsqueda del vocabulario.
func NormalizeMetricLabel(label string) string {
	s := strings.TrimSpace(label)
	s = strings.TrimLeft(s, "'")
	s = strings.TrimLeft(s, "+-= ")
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchMetric clasifica una etiqueta normalizada; separadores y banners
// devuelven MetricUnknown.
func MatchMetric(label string) MetricKind {
	norm := NormalizeMetricLabel(label)
	if norm == "" || strings.HasPrefix(norm, "---") {
		return MetricUnknown
	}
	for _, m := range metricKeywords {
		ok := true
		for _, kw := range m.kws {
			if !strings.Contains(norm, kw) {
				ok = false
				break
			}
		}
		if ok {
			return m.kind
		}
	}
	return MetricUnknown
}

// MetricValues es el mapeo tipado métrica → valor de una hoja Financial
// Summary ya parseada. La primera aparición de cada métrica gana.
type MetricValues map[MetricKind]decimal.Decimal

// Get devuelve el valor de la métrica y si está presente.
func (m MetricValues) Get(kind MetricKind) (decimal.Decimal, bool) {
	v, ok := m[kind]
	return v, ok
}

// GetOrZero devuelve el valor o cero si la métrica no está.
func (m MetricValues) GetOrZero(kind MetricKind) decimal.Decimal {
	return m[kind]
}

// Set registra el valor solo si la métrica aún no tiene uno.
func (m MetricValues) Set(kind MetricKind, v decimal.Decimal) {
	if kind == MetricUnknown {
		return
	}
	if _, ok := m[kind]; !ok {
		m[kind] = v
	}
}

// SummaryLine es una fila Metric/Value/Note de la hoja Financial Summary.
// Value nil con Text vacío es una fila separadora o banner.
type SummaryLine struct {
	Label string
	Value *decimal.Decimal
	Text  string // valor textual (ej. "N/A" para margen indefinido)
	Note  string // anotación de advertencia de los chequeos de balance
}

// PeriodArtifact es un reporte de periodo ya parseado, insumo del
// combinador: su master log más las métricas publicadas del resumen.
type PeriodArtifact struct {
	Name    string // nombre del archivo o de la hoja; de aquí se extrae el rango de fechas
	Ledger  []LedgerRow
	Summary MetricValues
}
