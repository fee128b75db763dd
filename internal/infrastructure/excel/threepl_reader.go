package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/pkg/moneyfmt"
)

// Columnas de la planilla 3PL. "Type" es obligatoria: distingue envíos
// de líneas de costo. El resto degrada a vacío/nil.
const (
	col3plType           = "type"
	col3plStoreOrder     = "store order number"
	col3plOrderCode      = "order code"
	col3plTotalQuantity  = "total quantity"
	col3plTotalPrice     = "total price"
	col3plHandlingFee    = "handling fee"
	col3plShippingCost   = "total shipping cost"
	col3plPackaging      = "packaging"
	col3plCustomDiscount = "custom discount"
	col3plTotalTax       = "total tax"
	col3plLTLFreight     = "ltl freight"
	col3plLabelFee       = "label fee"
	col3plReceiving      = "receiving"
	col3plReturns        = "returns"
	col3plStorage        = "storage"
	col3plShipDate       = "actual shipment date"
	col3plDescription    = "description"
)

// ReadShipments lee la planilla xlsx del 3PL (primera hoja, encabezado en
// la primera fila). Filas completamente vacías se descartan.
func ReadShipments(r io.Reader) ([]entity.ShipmentRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("3pl: abrir planilla: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("3pl: planilla sin hojas: %w", domain.ErrMissingSheet)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("3pl: leer hoja %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("3pl: hoja %q vacía: %w", sheets[0], domain.ErrMissingColumn)
	}
	cols := indexColumns(rows[0])
	if _, ok := cols[col3plType]; !ok {
		return nil, fmt.Errorf("3pl: columna %q: %w", "Type", domain.ErrMissingColumn)
	}

	var records []entity.ShipmentRecord
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		cell := func(name string) string { return cellAt(row, cols, name) }
		records = append(records, entity.ShipmentRecord{
			Type:             cell(col3plType),
			StoreOrderNumber: cell(col3plStoreOrder),
			OrderCode:        cell(col3plOrderCode),
			TotalQuantity:    moneyfmt.Parse(cell(col3plTotalQuantity)),
			TotalPrice:       moneyfmt.Parse(cell(col3plTotalPrice)),
			HandlingFee:      moneyfmt.Parse(cell(col3plHandlingFee)),
			ShippingCost:     moneyfmt.Parse(cell(col3plShippingCost)),
			Packaging:        moneyfmt.Parse(cell(col3plPackaging)),
			CustomDiscount:   moneyfmt.Parse(cell(col3plCustomDiscount)),
			TotalTax:         moneyfmt.Parse(cell(col3plTotalTax)),
			LTLFreight:       moneyfmt.Parse(cell(col3plLTLFreight)),
			LabelFee:         moneyfmt.Parse(cell(col3plLabelFee)),
			Receiving:        moneyfmt.Parse(cell(col3plReceiving)),
			Returns:          moneyfmt.Parse(cell(col3plReturns)),
			Storage:          moneyfmt.Parse(cell(col3plStorage)),
			ActualShipDate:   cell(col3plShipDate),
			Description:      cell(col3plDescription),
		})
	}
	return records, nil
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
