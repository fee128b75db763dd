package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo persiste las filas del master log de una corrida.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// CreateBatch inserta las filas en bloque preservando su posición: el
// orden del master log es parte del contrato del reporte.
func (r *LedgerRepo) CreateBatch(ctx context.Context, reportID string, ledger []entity.LedgerRow) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO ledger_rows (
			report_id, position, order_id, order_date, email, unit_type, source,
			quantity, bars_equivalent, price, subtotal, discount, shipping, tax,
			total, cogs, total_shipping_cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	for i, row := range ledger {
		batch.Queue(query,
			reportID, i, row.OrderID, row.OrderDate, row.Email, row.UnitType, row.Source,
			row.Quantity, row.BarsEquivalent, row.Price, row.Subtotal, row.Discount,
			row.Shipping, row.Tax, row.Total, row.COGS, row.TotalShippingCost,
		)
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()
	for range ledger {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert ledger row: %w", err)
		}
	}
	return nil
}

// ListByReport devuelve las filas en su orden original.
func (r *LedgerRepo) ListByReport(ctx context.Context, reportID string) ([]entity.LedgerRow, error) {
	query := `
		SELECT order_id, order_date, email, unit_type, source, quantity,
		       bars_equivalent, price, subtotal, discount, shipping, tax, total,
		       cogs, total_shipping_cost
		FROM ledger_rows WHERE report_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("list ledger rows: %w", err)
	}
	defer rows.Close()

	var ledger []entity.LedgerRow
	for rows.Next() {
		var row entity.LedgerRow
		if err := rows.Scan(
			&row.OrderID, &row.OrderDate, &row.Email, &row.UnitType, &row.Source,
			&row.Quantity, &row.BarsEquivalent, &row.Price, &row.Subtotal,
			&row.Discount, &row.Shipping, &row.Tax, &row.Total,
			&row.COGS, &row.TotalShippingCost,
		); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		ledger = append(ledger, row)
	}
	return ledger, rows.Err()
}
