// Package summary agrega el master log de un periodo en su resumen
// financiero e inventario.
package summary

import (
	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/classify"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/pkg/logger"
)

// Input escalares del periodo que no salen del master log: los aporta el
// operador en cada corrida (no hay estado entre corridas).
type Input struct {
	PaymentProcessingFee decimal.Decimal
	StartingInventory    decimal.Decimal // en barras
	POSBarsGiven         *decimal.Decimal
	POSBarsToSell        *decimal.Decimal
}

// UseCase calcula el PeriodSummary: función pura de un ledger más los
// escalares del periodo y las filas de costo extra del 3PL.
type UseCase struct {
	log *logger.Logger
}

// New construye el caso de uso.
func New(log *logger.Logger) *UseCase {
	return &UseCase{log: log}
}

// Build agrega el ledger. Un ledger vacío es error explícito
// (domain.ErrEmptyLedger): el resumen nunca se fabrica en cero en
// silencio. Con filas, las sumas sobre campos nil cuentan cero y el margen
// queda nil cuando el denominador es cero.
func (uc *UseCase) Build(ledger []entity.LedgerRow, shipments []entity.ShipmentRecord, in Input) (entity.PeriodSummary, error) {
	if len(ledger) == 0 {
		return entity.PeriodSummary{}, domain.ErrEmptyLedger
	}

	var s entity.PeriodSummary

	// 1–4: ingresos y costos directos del ledger.
	for _, row := range ledger {
		if row.Total != nil {
			s.GrossRevenue = s.GrossRevenue.Add(row.Total.Sub(orZero(row.Tax)).Sub(orZero(row.Shipping)))
		}
		s.ShippingCollected = s.ShippingCollected.Add(orZero(row.Shipping))
		s.TaxesCollected = s.TaxesCollected.Add(orZero(row.Tax))
		s.COGSTotal = s.COGSTotal.Add(row.COGS)
		s.ShippingCostsOrders = s.ShippingCostsOrders.Add(orZero(row.TotalShippingCost))
	}

	// 5: líneas de costo del 3PL que no son envíos (recepción, almacenaje,
	// devoluciones, fletes...).
	for _, rec := range shipments {
		if rec.IsShipmentOrder() {
			continue
		}
		s.ExtraCosts3PL = s.ExtraCosts3PL.Add(rec.ExtraCost())
	}

	// 6–8: costo 3PL total, utilidad y margen.
	s.PaymentProcessingFee = in.PaymentProcessingFee
	s.ShippingCostsTotal = s.ShippingCostsOrders.Add(s.ExtraCosts3PL).Add(s.PaymentProcessingFee)
	s.GrossProfit = s.GrossRevenue.Add(s.ShippingCollected).Sub(s.COGSTotal).Sub(s.ShippingCostsTotal)
	if denom := s.GrossRevenue.Add(s.ShippingCollected); !denom.IsZero() {
		margin := s.GrossProfit.Div(denom)
		s.GrossMargin = &margin
	}

	// 9–10: unidades vendidas por tipo (las remesas al equipo de ventas no
	// cuentan como venta) y total de barras.
	for _, row := range ledger {
		s.TotalBarsSold = s.TotalBarsSold.Add(row.BarsEquivalent)
		if row.Source == entity.SourceSalesTeam {
			continue
		}
		qty := orZero(row.Quantity)
		switch row.UnitType {
		case entity.UnitTypeCase:
			s.CasesSold = s.CasesSold.Add(qty)
		case entity.UnitTypeBox:
			s.BoxesSold = s.BoxesSold.Add(qty)
		case entity.UnitTypeBar:
			s.SingleBarsSold = s.SingleBarsSold.Add(qty)
		}
	}
	s.CaseBarsSold = s.CasesSold.Mul(classify.BarsPerCase)
	s.BoxBarsSold = s.BoxesSold.Mul(classify.BarsPerBox)

	// 11: movimiento de inventario.
	s.StartingInventoryBars = in.StartingInventory
	s.EndingInventoryBars = s.StartingInventoryBars.Sub(s.TotalBarsSold)

	// POS: barras en manos del equipo de ventas, si el operador las aportó.
	s.POSBarsGiven = in.POSBarsGiven
	s.POSBarsToSell = in.POSBarsToSell
	if in.POSBarsGiven != nil {
		outstanding := in.POSBarsGiven.Sub(s.SingleBarsSold)
		leftAt3PL := s.EndingInventoryBars.Sub(*in.POSBarsGiven)
		s.POSBarsOutstanding = &outstanding
		s.POSBarsLeftAt3PL = &leftAt3PL
	}

	uc.log.Info().
		Str("gross_revenue", s.GrossRevenue.StringFixed(2)).
		Str("gross_profit", s.GrossProfit.StringFixed(2)).
		Str("total_bars_sold", s.TotalBarsSold.String()).
		Str("ending_inventory", s.EndingInventoryBars.String()).
		Msg("resumen de periodo calculado")
	return s, nil
}

func orZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
