package repository

import (
	"context"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
)

// ReportRepository define el puerto de persistencia para las corridas del
// pipeline (cabecera + resumen).
type ReportRepository interface {
	Create(ctx context.Context, report *entity.PeriodReport) error
	// CreateWithLedger persiste cabecera y master log como una sola
	// operación: si falla la escritura de las filas no queda cabecera
	// huérfana.
	CreateWithLedger(ctx context.Context, report *entity.PeriodReport, rows []entity.LedgerRow) error
	GetByID(ctx context.Context, id string) (*entity.PeriodReport, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PeriodReport, error)
	Delete(ctx context.Context, id string) error
}

// LedgerRepository define el puerto de persistencia para las filas del
// master log de una corrida.
type LedgerRepository interface {
	CreateBatch(ctx context.Context, reportID string, rows []entity.LedgerRow) error
	ListByReport(ctx context.Context, reportID string) ([]entity.LedgerRow, error)
}
