package classify

import (
	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
)

// BarsEquivalent convierte una cantidad vendida a barras según la
// presentación: case = 168, box = 7, bar = 1. Sin clasificación, cero.
func BarsEquivalent(unitType string, quantity decimal.Decimal) decimal.Decimal {
	switch unitType {
	case entity.UnitTypeCase:
		return quantity.Mul(BarsPerCase)
	case entity.UnitTypeBox:
		return quantity.Mul(BarsPerBox)
	case entity.UnitTypeBar:
		return quantity
	default:
		return decimal.Zero
	}
}

// COGS calcula el costo de mercancía de la línea: barras equivalentes por
// el costo unitario por barra.
func COGS(unitType string, quantity, perBarCost decimal.Decimal) decimal.Decimal {
	return BarsEquivalent(unitType, quantity).Mul(perBarCost)
}
