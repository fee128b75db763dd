package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
)

// RunPipelineRequest escalares del periodo que acompañan los archivos
// subidos (orders CSV + planilla 3PL) en el multipart.
type RunPipelineRequest struct {
	Name                 string           `form:"name"`
	PaymentProcessingFee decimal.Decimal  `form:"payment_processing_fee"`
	StartingInventory    decimal.Decimal  `form:"starting_inventory"`
	POSBarsGiven         *decimal.Decimal `form:"pos_bars_given"`
	POSBarsToSell        *decimal.Decimal `form:"pos_bars_to_sell"`
}

// SummaryResponse resumen financiero e inventario de un periodo.
type SummaryResponse struct {
	GrossRevenue         decimal.Decimal  `json:"gross_revenue"`
	ShippingCollected    decimal.Decimal  `json:"shipping_collected"`
	TaxesCollected       decimal.Decimal  `json:"taxes_collected"`
	COGSTotal            decimal.Decimal  `json:"cogs_total"`
	ShippingCostsOrders  decimal.Decimal  `json:"shipping_costs_orders"`
	ExtraCosts3PL        decimal.Decimal  `json:"extra_costs_3pl"`
	PaymentProcessingFee decimal.Decimal  `json:"payment_processing_fee"`
	ShippingCostsTotal   decimal.Decimal  `json:"shipping_costs_total"`
	GrossProfit          decimal.Decimal  `json:"gross_profit"`
	GrossMargin          *decimal.Decimal `json:"gross_margin"` // nil: margen indefinido

	StartingInventoryBars decimal.Decimal `json:"starting_inventory_bars"`
	CasesSold             decimal.Decimal `json:"cases_sold"`
	BoxesSold             decimal.Decimal `json:"boxes_sold"`
	SingleBarsSold        decimal.Decimal `json:"single_bars_sold"`
	TotalBarsSold         decimal.Decimal `json:"total_bars_sold"`
	EndingInventoryBars   decimal.Decimal `json:"ending_inventory_bars"`

	POSBarsGiven       *decimal.Decimal `json:"pos_bars_given,omitempty"`
	POSBarsToSell      *decimal.Decimal `json:"pos_bars_to_sell,omitempty"`
	POSBarsOutstanding *decimal.Decimal `json:"pos_bars_outstanding,omitempty"`
	POSBarsLeftAt3PL   *decimal.Decimal `json:"pos_bars_left_at_3pl,omitempty"`
}

// ReportResponse cabecera de una corrida persistida.
type ReportResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	PeriodStart *time.Time      `json:"period_start,omitempty"`
	PeriodEnd   *time.Time      `json:"period_end,omitempty"`
	RowCount    int             `json:"row_count"`
	CreatedAt   time.Time       `json:"created_at"`
	Summary     SummaryResponse `json:"summary"`
}

// CombineRequest IDs de reportes persistidos a combinar.
type CombineRequest struct {
	ReportIDs []string `json:"report_ids" validate:"required,min=1"`
	// DedupeKey opcional: "order_id" elimina filas repetidas del ledger
	// combinado por identificador de pedido.
	DedupeKey string `json:"dedupe_key" validate:"omitempty,oneof=order_id"`
}

// CombineResponse resultado de la combinación: advertencias de balance y
// nombre del workbook generado.
type CombineResponse struct {
	Name     string   `json:"name"`
	Periods  []string `json:"periods"`
	RowCount int      `json:"row_count"`
	Warnings []string `json:"warnings,omitempty"`
}

// FromSummary convierte la entidad de dominio al DTO de respuesta.
func FromSummary(s entity.PeriodSummary) SummaryResponse {
	return SummaryResponse{
		GrossRevenue:          s.GrossRevenue,
		ShippingCollected:     s.ShippingCollected,
		TaxesCollected:        s.TaxesCollected,
		COGSTotal:             s.COGSTotal,
		ShippingCostsOrders:   s.ShippingCostsOrders,
		ExtraCosts3PL:         s.ExtraCosts3PL,
		PaymentProcessingFee:  s.PaymentProcessingFee,
		ShippingCostsTotal:    s.ShippingCostsTotal,
		GrossProfit:           s.GrossProfit,
		GrossMargin:           s.GrossMargin,
		StartingInventoryBars: s.StartingInventoryBars,
		CasesSold:             s.CasesSold,
		BoxesSold:             s.BoxesSold,
		SingleBarsSold:        s.SingleBarsSold,
		TotalBarsSold:         s.TotalBarsSold,
		EndingInventoryBars:   s.EndingInventoryBars,
		POSBarsGiven:          s.POSBarsGiven,
		POSBarsToSell:         s.POSBarsToSell,
		POSBarsOutstanding:    s.POSBarsOutstanding,
		POSBarsLeftAt3PL:      s.POSBarsLeftAt3PL,
	}
}

// FromReport convierte la cabecera persistida al DTO de respuesta.
func FromReport(r entity.PeriodReport) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		Name:        r.Name,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		RowCount:    r.RowCount,
		CreatedAt:   r.CreatedAt,
		Summary:     FromSummary(r.Summary),
	}
}
