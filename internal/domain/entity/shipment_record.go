package entity

import "github.com/shopspring/decimal"

// Tipos de registro en la planilla del 3PL. Solo los "Shipment Order"
// entran al master log; el resto son líneas de costo del periodo
// (recepción, almacenaje, devoluciones, etc.).
const RecordTypeShipmentOrder = "Shipment Order"

// ShipmentRecord es una fila de la planilla del 3PL.
//
// StoreOrderNumber presente ⇒ envío ligado a un pedido de la tienda.
// StoreOrderNumber vacío ⇒ envío suelto: muestra gratis o remesa al
// equipo de ventas; OrderCode actúa de identificador sustituto.
type ShipmentRecord struct {
	Type             string
	StoreOrderNumber string
	OrderCode        string
	TotalQuantity    *decimal.Decimal
	TotalPrice       *decimal.Decimal
	HandlingFee      *decimal.Decimal
	ShippingCost     *decimal.Decimal // columna "Total Shipping Cost"
	Packaging        *decimal.Decimal
	CustomDiscount   *decimal.Decimal
	TotalTax         *decimal.Decimal
	LTLFreight       *decimal.Decimal
	LabelFee         *decimal.Decimal
	Receiving        *decimal.Decimal
	Returns          *decimal.Decimal
	Storage          *decimal.Decimal
	ActualShipDate   string // fecha de despacho cruda
	Description      string // texto libre; aquí se detectan remesas GTM / sales team
}

// IsShipmentOrder indica si la fila es un envío (y no una línea de costo).
func (r ShipmentRecord) IsShipmentOrder() bool {
	return r.Type == RecordTypeShipmentOrder
}

// IsLinked indica si el envío referencia un pedido de la tienda.
func (r ShipmentRecord) IsLinked() bool {
	return r.StoreOrderNumber != ""
}

// ExtraCost suma todas las columnas de costo de una fila que no es envío.
// Columnas ausentes cuentan cero.
func (r ShipmentRecord) ExtraCost() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range []*decimal.Decimal{
		r.HandlingFee, r.ShippingCost, r.LTLFreight, r.Packaging,
		r.LabelFee, r.Receiving, r.Returns, r.Storage,
	} {
		if v != nil {
			sum = sum.Add(*v)
		}
	}
	return sum
}
