// Package excel implementa la E/S de planillas del pipeline: lectura del
// export de pedidos y de la planilla 3PL, escritura del reporte de periodo
// de dos pestañas, y relectura de reportes para la combinación.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/pkg/moneyfmt"
)

// Columnas del export CSV de la tienda. Solo "Name" es obligatoria: es la
// clave del join contra el 3PL. El resto degrada a vacío/nil.
const (
	colOrderName      = "name"
	colPaidAt         = "paid at"
	colEmail          = "email"
	colSource         = "source"
	colLineQuantity   = "lineitem quantity"
	colLinePrice      = "lineitem price"
	colSubtotal       = "subtotal"
	colDiscountAmount = "discount amount"
	colShipping       = "shipping"
	colTaxes          = "taxes"
	colTotal          = "total"
)

// ReadOrders lee el export CSV de pedidos de la tienda. Montos ilegibles
// quedan en nil; filas con menos celdas que el encabezado se completan
// vacías en lugar de fallar.
func ReadOrders(r io.Reader) ([]entity.LineItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("orders: leer encabezado: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols[colOrderName]; !ok {
		return nil, fmt.Errorf("orders: columna %q: %w", "Name", domain.ErrMissingColumn)
	}

	var items []entity.LineItem
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("orders: leer fila: %w", err)
		}
		cell := func(name string) string { return cellAt(record, cols, name) }
		items = append(items, entity.LineItem{
			OrderID:  cell(colOrderName),
			PaidAt:   cell(colPaidAt),
			Email:    cell(colEmail),
			Source:   cell(colSource),
			Quantity: moneyfmt.Parse(cell(colLineQuantity)),
			Price:    moneyfmt.Parse(cell(colLinePrice)),
			Subtotal: moneyfmt.Parse(cell(colSubtotal)),
			Discount: moneyfmt.Parse(cell(colDiscountAmount)),
			Shipping: moneyfmt.Parse(cell(colShipping)),
			Tax:      moneyfmt.Parse(cell(colTaxes)),
			Total:    moneyfmt.Parse(cell(colTotal)),
		})
	}
	return items, nil
}

// indexColumns mapea nombre de columna normalizado → índice.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

// cellAt devuelve la celda de la columna, o vacío si la columna no existe
// o la fila llega corta.
func cellAt(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
