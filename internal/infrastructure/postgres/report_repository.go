package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación de ReportRepository sobre PostgreSQL (usable
// con pool o tx).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const reportColumns = `
	id, name, period_start, period_end, row_count, created_at,
	gross_revenue, shipping_collected, taxes_collected, cogs_total,
	shipping_costs_orders, extra_costs_3pl, payment_processing_fee,
	shipping_costs_total, gross_profit, gross_margin,
	starting_inventory_bars, cases_sold, boxes_sold, single_bars_sold,
	case_bars_sold, box_bars_sold, total_bars_sold, ending_inventory_bars,
	pos_bars_given, pos_bars_to_sell, pos_bars_outstanding, pos_bars_left_3pl`

// Create persiste la cabecera de la corrida con su resumen.
func (r *ReportRepo) Create(ctx context.Context, report *entity.PeriodReport) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO period_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`
	s := report.Summary
	_, err := r.q.Exec(ctx, query,
		report.ID, report.Name, report.PeriodStart, report.PeriodEnd, report.RowCount, report.CreatedAt,
		s.GrossRevenue, s.ShippingCollected, s.TaxesCollected, s.COGSTotal,
		s.ShippingCostsOrders, s.ExtraCosts3PL, s.PaymentProcessingFee,
		s.ShippingCostsTotal, s.GrossProfit, s.GrossMargin,
		s.StartingInventoryBars, s.CasesSold, s.BoxesSold, s.SingleBarsSold,
		s.CaseBarsSold, s.BoxBarsSold, s.TotalBarsSold, s.EndingInventoryBars,
		s.POSBarsGiven, s.POSBarsToSell, s.POSBarsOutstanding, s.POSBarsLeftAt3PL,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("report name already exists: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert period report: %w", err)
	}
	return nil
}

// CreateWithLedger persiste la cabecera y las filas del master log en una
// transacción: un fallo en el batch revierte también la cabecera.
func (r *ReportRepo) CreateWithLedger(ctx context.Context, report *entity.PeriodReport, rows []entity.LedgerRow) error {
	b, ok := r.q.(TxBeginner)
	if !ok {
		// Ya estamos dentro de una tx: el llamador controla el commit.
		if err := r.Create(ctx, report); err != nil {
			return err
		}
		return NewLedgerRepository(r.q).CreateBatch(ctx, report.ID, rows)
	}

	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := NewReportRepository(tx).Create(ctx, report); err != nil {
		return err
	}
	if err := NewLedgerRepository(tx).CreateBatch(ctx, report.ID, rows); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID recupera una corrida por su identificador.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.PeriodReport, error) {
	query := `SELECT ` + reportColumns + ` FROM period_reports WHERE id = $1`
	report, err := scanReport(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select period report: %w", err)
	}
	return report, nil
}

// List devuelve las corridas más recientes primero.
func (r *ReportRepo) List(ctx context.Context, limit, offset int) ([]*entity.PeriodReport, error) {
	query := `SELECT ` + reportColumns + `
		FROM period_reports ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list period reports: %w", err)
	}
	defer rows.Close()

	var reports []*entity.PeriodReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Delete elimina la corrida; las filas del ledger caen por cascada.
func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM period_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete period report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (*entity.PeriodReport, error) {
	var report entity.PeriodReport
	s := &report.Summary
	err := row.Scan(
		&report.ID, &report.Name, &report.PeriodStart, &report.PeriodEnd, &report.RowCount, &report.CreatedAt,
		&s.GrossRevenue, &s.ShippingCollected, &s.TaxesCollected, &s.COGSTotal,
		&s.ShippingCostsOrders, &s.ExtraCosts3PL, &s.PaymentProcessingFee,
		&s.ShippingCostsTotal, &s.GrossProfit, &s.GrossMargin,
		&s.StartingInventoryBars, &s.CasesSold, &s.BoxesSold, &s.SingleBarsSold,
		&s.CaseBarsSold, &s.BoxBarsSold, &s.TotalBarsSold, &s.EndingInventoryBars,
		&s.POSBarsGiven, &s.POSBarsToSell, &s.POSBarsOutstanding, &s.POSBarsLeftAt3PL,
	)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
