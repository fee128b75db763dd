// Package classify contiene los servicios de dominio que deciden el tipo
// de unidad de una línea (bar, box, case) y su equivalente en barras.
package classify

import (
	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
)

// Contenido de barras por presentación.
var (
	BarsPerBox  = decimal.NewFromInt(7)
	BarsPerCase = decimal.NewFromInt(168)
)

// Umbrales de precio para clasificar por línea. El piso de caja es fijo;
// el techo de barra es configurable porque el precio de la barra cambió
// entre periodos (5 y luego 6.5).
var (
	boxPriceFloor    = decimal.NewFromInt(20)
	sampleBarCeiling = decimal.NewFromInt(10)
)

// Direct clasifica una línea de orden por su precio unitario publicado:
// precio > 20 es caja, precio < techo es barra, la franja intermedia
// queda sin clasificar. Precio ausente tampoco clasifica.
func Direct(price *decimal.Decimal, barCeiling decimal.Decimal) string {
	if price == nil {
		return entity.UnitTypeNone
	}
	switch {
	case price.GreaterThan(boxPriceFloor):
		return entity.UnitTypeBox
	case price.LessThan(barCeiling):
		return entity.UnitTypeBar
	default:
		return entity.UnitTypeNone
	}
}

// Sample clasifica un registro 3PL sin orden asociada a partir del precio
// unitario implícito (precio total / cantidad): > 20 es caja, < 10 es
// barra. Sin precio, o con cantidad cero o negativa (ajustes y
// devoluciones del tercero), no hay clasificación.
func Sample(totalPrice, quantity *decimal.Decimal) string {
	if totalPrice == nil || quantity == nil || quantity.Sign() <= 0 {
		return entity.UnitTypeNone
	}
	unit := totalPrice.Div(*quantity)
	switch {
	case unit.GreaterThan(boxPriceFloor):
		return entity.UnitTypeBox
	case unit.LessThan(sampleBarCeiling):
		return entity.UnitTypeBar
	default:
		return entity.UnitTypeNone
	}
}
