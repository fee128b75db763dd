package entity

import "github.com/shopspring/decimal"

// Tipos de unidad clasificados para una línea del master log.
const (
	UnitTypeBar  = "bar"  // barra suelta
	UnitTypeBox  = "box"  // caja de 7 barras
	UnitTypeCase = "case" // estiba de 168 barras (24 cajas)
	// UnitTypeNone: la línea quedó sin clasificar (zona ambigua de precio
	// o datos ilegibles); se excluye de barras vendidas y de COGS.
	UnitTypeNone = ""
)

// Fuentes sintéticas asignadas por la conciliación a filas que no vienen
// de un pedido de la tienda.
const (
	SourceFreeSample = "free_sample"
	SourceSalesTeam  = "sales_team"
)

// Emails centinela para filas sin cliente real.
const (
	EmailFreeSample = "FREE SAMPLE BOX"
	EmailSalesTeam  = "SENT TO SALES TEAM"
)

// LedgerRow es una línea conciliada del master log: un pedido de la tienda
// casado con su fila de costos 3PL, o un envío 3PL suelto (muestra gratis /
// remesa al equipo de ventas).
//
// TotalShippingCost es nil únicamente cuando no hubo match 3PL (los tres
// componentes ausentes); con match, los componentes faltantes suman cero.
type LedgerRow struct {
	OrderID           string
	OrderDate         string
	Email             string
	UnitType          string // bar | box | case | "" (sin clasificar)
	Source            string
	Quantity          *decimal.Decimal
	BarsEquivalent    decimal.Decimal // Quantity convertida a barras; 0 si no clasifica
	Price             *decimal.Decimal
	Subtotal          *decimal.Decimal
	Discount          *decimal.Decimal
	Shipping          *decimal.Decimal
	Tax               *decimal.Decimal
	Total             *decimal.Decimal
	COGS              decimal.Decimal
	TotalShippingCost *decimal.Decimal
	SourcePeriod      string // etiqueta MM/DD/YY-MM/DD/YY; solo en ledgers combinados
}
