package entity

import "github.com/shopspring/decimal"

// LineItem es una línea de pedido de la tienda (export CSV de Shopify).
// El export trae una fila por pedido; los montos llegan como texto y los
// que no parsean quedan en nil — la conciliación degrada, nunca descarta.
type LineItem struct {
	OrderID  string // columna "Name" del export; clave del join contra el 3PL
	PaidAt   string // timestamp crudo de pago, se conserva tal cual
	Email    string
	Source   string // canal de origen reportado por la tienda (web, pos, ...)
	Quantity *decimal.Decimal
	Price    *decimal.Decimal // precio unitario de la línea
	Subtotal *decimal.Decimal
	Discount *decimal.Decimal
	Shipping *decimal.Decimal // envío cobrado al cliente
	Tax      *decimal.Decimal
	Total    *decimal.Decimal
}
