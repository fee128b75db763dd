// Package reconcile casa las líneas de pedido de la tienda con las filas
// de costo del 3PL y produce el master log del periodo.
package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/domain/classify"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/pkg/logger"
)

// salesTeamKeywords marca remesas internas (GTM / equipo de ventas) en la
// descripción libre del 3PL. Búsqueda en minúsculas.
var salesTeamKeywords = []string{"gtm", "sales team", "marketing"}

// UseCase concilia pedidos contra envíos 3PL. Determinista: mismo input,
// mismo ledger byte a byte.
type UseCase struct {
	barCeiling decimal.Decimal
	perBarCost decimal.Decimal
	log        *logger.Logger
}

// New construye el caso de uso con los parámetros calibrables del negocio:
// techo de precio de barra (cambió entre periodos) y costo por barra.
func New(barCeiling, perBarCost decimal.Decimal, log *logger.Logger) *UseCase {
	return &UseCase{barCeiling: barCeiling, perBarCost: perBarCost, log: log}
}

// Reconcile ejecuta la conciliación completa:
//
//  1. Filtra la planilla 3PL a filas "Shipment Order".
//  2. Particiona en ligadas (con número de pedido) y sueltas.
//  3. Left join de cada línea de pedido contra su envío (primer match por
//     número de pedido; duplicados del lado 3PL se ignoran).
//  4. Clasifica, convierte a barras y calcula COGS y costo de envío.
//  5. Las filas sueltas entran como muestras gratis, y las que mencionan
//     al equipo de ventas se reclasifican con sus montos anulados.
//
// Ninguna fila se descarta por montos ilegibles: esos campos degradan a
// nil/cero. El orden de salida es estable: pedidos primero, luego sueltas,
// cada grupo en su orden original.
func (uc *UseCase) Reconcile(orders []entity.LineItem, shipments []entity.ShipmentRecord) []entity.LedgerRow {
	linked := make(map[string]*entity.ShipmentRecord)
	var unlinked []entity.ShipmentRecord
	for i := range shipments {
		rec := &shipments[i]
		if !rec.IsShipmentOrder() {
			continue
		}
		if rec.IsLinked() {
			// Primer match gana: filas 3PL duplicadas por pedido son un
			// problema de calidad de datos, no se abren en abanico.
			if _, ok := linked[rec.StoreOrderNumber]; !ok {
				linked[rec.StoreOrderNumber] = rec
			}
			continue
		}
		unlinked = append(unlinked, *rec)
	}

	ledger := make([]entity.LedgerRow, 0, len(orders)+len(unlinked))
	for _, item := range orders {
		ledger = append(ledger, uc.orderRow(item, linked[item.OrderID]))
	}
	for _, rec := range unlinked {
		ledger = append(ledger, uc.sampleRow(rec))
	}

	uc.log.Info().
		Int("orders", len(orders)).
		Int("linked_shipments", len(linked)).
		Int("unlinked_shipments", len(unlinked)).
		Int("ledger_rows", len(ledger)).
		Msg("conciliación completada")
	return ledger
}

// orderRow arma la fila del master log de una línea de pedido, casada (o
// no) con su envío 3PL.
func (uc *UseCase) orderRow(item entity.LineItem, match *entity.ShipmentRecord) entity.LedgerRow {
	unitType := classify.Direct(item.Price, uc.barCeiling)
	bars := uc.bars(unitType, item.Quantity)
	return entity.LedgerRow{
		OrderID:           item.OrderID,
		OrderDate:         item.PaidAt,
		Email:             item.Email,
		UnitType:          unitType,
		Source:            item.Source,
		Quantity:          item.Quantity,
		BarsEquivalent:    bars,
		Price:             item.Price,
		Subtotal:          item.Subtotal,
		Discount:          item.Discount,
		Shipping:          item.Shipping,
		Tax:               item.Tax,
		Total:             item.Total,
		COGS:              bars.Mul(uc.perBarCost),
		TotalShippingCost: shippingCost(match),
	}
}

// sampleRow arma la fila de un envío 3PL sin pedido asociado: muestra
// gratis, o remesa al equipo de ventas si la descripción lo delata.
func (uc *UseCase) sampleRow(rec entity.ShipmentRecord) entity.LedgerRow {
	unitType := classify.Sample(rec.TotalPrice, rec.TotalQuantity)
	bars := uc.bars(unitType, rec.TotalQuantity)

	var unitPrice *decimal.Decimal
	if rec.TotalPrice != nil && rec.TotalQuantity != nil && !rec.TotalQuantity.IsZero() {
		p := rec.TotalPrice.Div(*rec.TotalQuantity)
		unitPrice = &p
	}

	row := entity.LedgerRow{
		OrderID:           rec.OrderCode,
		OrderDate:         rec.ActualShipDate,
		Email:             entity.EmailFreeSample,
		UnitType:          unitType,
		Source:            entity.SourceFreeSample,
		Quantity:          rec.TotalQuantity,
		BarsEquivalent:    bars,
		Price:             unitPrice,
		Discount:          rec.CustomDiscount,
		Tax:               rec.TotalTax,
		COGS:              bars.Mul(uc.perBarCost),
		TotalShippingCost: shippingCost(&rec),
	}
	if isSalesTeam(rec.Description) {
		reclassifySalesTeam(&row)
	}
	return row
}

// bars convierte la cantidad (posiblemente nil) a barras equivalentes.
func (uc *UseCase) bars(unitType string, qty *decimal.Decimal) decimal.Decimal {
	if qty == nil {
		return decimal.Zero
	}
	return classify.BarsEquivalent(unitType, *qty)
}

// shippingCost suma Handling Fee + Total Shipping Cost + Packaging del
// envío casado. Devuelve nil solo cuando los tres componentes faltan (o no
// hubo match): una fila con datos parciales nunca queda en blanco, los
// componentes ausentes cuentan cero.
func shippingCost(rec *entity.ShipmentRecord) *decimal.Decimal {
	if rec == nil {
		return nil
	}
	components := []*decimal.Decimal{rec.HandlingFee, rec.ShippingCost, rec.Packaging}
	sum := decimal.Zero
	present := false
	for _, v := range components {
		if v != nil {
			sum = sum.Add(*v)
			present = true
		}
	}
	if !present {
		return nil
	}
	return &sum
}

// isSalesTeam detecta remesas internas por palabras clave en la
// descripción del 3PL.
func isSalesTeam(description string) bool {
	desc := strings.ToLower(description)
	for _, kw := range salesTeamKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// reclassifySalesTeam anula la "venta": la remesa al equipo no cuenta como
// inventario vendido ni como ingreso, pero su costo de envío sí se incurre
// y se conserva.
func reclassifySalesTeam(row *entity.LedgerRow) {
	row.Source = entity.SourceSalesTeam
	row.Email = entity.EmailSalesTeam
	row.BarsEquivalent = decimal.Zero
	row.COGS = decimal.Zero

	zero := decimal.Zero
	row.Price = &zero
	row.Subtotal = &zero
	row.Discount = &zero
	row.Shipping = &zero
	row.Tax = &zero
	row.Total = &zero
}
