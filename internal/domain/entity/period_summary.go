package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSummary es el resumen financiero e inventario de un periodo:
// una función pura del master log más los escalares que aporta el operador
// (fee de procesamiento de pagos, inventario inicial, barras POS).
type PeriodSummary struct {
	// Financieros
	GrossRevenue         decimal.Decimal // solo producto: Σ(total − tax − shipping)
	ShippingCollected    decimal.Decimal
	TaxesCollected       decimal.Decimal
	COGSTotal            decimal.Decimal
	ShippingCostsOrders  decimal.Decimal // Σ total_shipping_cost del master log
	ExtraCosts3PL        decimal.Decimal // filas 3PL que no son Shipment Order
	PaymentProcessingFee decimal.Decimal
	ShippingCostsTotal   decimal.Decimal // orders + extra + fee
	GrossProfit          decimal.Decimal
	GrossMargin          *decimal.Decimal // nil cuando revenue + shipping == 0

	// Inventario (en unidades y en barras). Las filas sales_team quedan
	// fuera de los conteos de venta.
	StartingInventoryBars decimal.Decimal
	CasesSold             decimal.Decimal
	BoxesSold             decimal.Decimal
	SingleBarsSold        decimal.Decimal
	CaseBarsSold          decimal.Decimal
	BoxBarsSold           decimal.Decimal
	TotalBarsSold         decimal.Decimal // Σ bars_equivalent del master log
	EndingInventoryBars   decimal.Decimal // starting − total bars sold

	// POS / equipo de ventas (opcionales; nil si el operador no los aportó)
	POSBarsGiven      *decimal.Decimal // barras entregadas físicamente al equipo
	POSBarsToSell     *decimal.Decimal
	POSBarsOutstanding *decimal.Decimal // given − single bars sold
	POSBarsLeftAt3PL  *decimal.Decimal // ending − given
}

// MetricValues publica el resumen con el mismo vocabulario que la hoja
// Financial Summary, para que un reporte persistido alimente al
// combinador igual que uno releído de un workbook.
func (s PeriodSummary) MetricValues() MetricValues {
	m := MetricValues{
		MetricRevenue:              s.GrossRevenue,
		MetricShippingCollected:    s.ShippingCollected,
		MetricGrossRevenue:         s.GrossRevenue.Add(s.ShippingCollected),
		MetricTaxesCollected:       s.TaxesCollected,
		MetricCOGS:                 s.COGSTotal,
		MetricShippingCostsOrders:  s.ShippingCostsOrders,
		MetricExtraCosts3PL:        s.ExtraCosts3PL,
		MetricPaymentProcessingFee: s.PaymentProcessingFee,
		MetricTotal3PLCosts:        s.ShippingCostsTotal,
		MetricGrossProfit:          s.GrossProfit,
		MetricStartingInventory:    s.StartingInventoryBars,
		MetricCasesSold:            s.CasesSold,
		MetricBoxesSold:            s.BoxesSold,
		MetricSingleBarsSold:       s.SingleBarsSold,
		MetricSingleBarsEach:       s.SingleBarsSold,
		MetricCaseBarsSold:         s.CaseBarsSold,
		MetricBoxBarsSold:          s.BoxBarsSold,
		MetricTotalInventorySold:   s.TotalBarsSold,
		MetricEndingInventory:      s.EndingInventoryBars,
	}
	if s.GrossMargin != nil {
		m[MetricGrossMargin] = *s.GrossMargin
	}
	if s.POSBarsGiven != nil {
		m[MetricPOSBarsGiven] = *s.POSBarsGiven
	}
	if s.POSBarsToSell != nil {
		m[MetricPOSBarsToSell] = *s.POSBarsToSell
	}
	if s.POSBarsOutstanding != nil {
		m[MetricBarsOutstanding] = *s.POSBarsOutstanding
	}
	if s.POSBarsLeftAt3PL != nil {
		m[MetricBarsLeftAt3PL] = *s.POSBarsLeftAt3PL
	}
	return m
}

// PeriodReport es la cabecera persistida de una corrida del pipeline.
type PeriodReport struct {
	ID          string
	Name        string // ej. "Skye_Period_Report_2025-11-17_to_2025-11-23"
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Summary     PeriodSummary
	RowCount    int
	CreatedAt   time.Time
}
