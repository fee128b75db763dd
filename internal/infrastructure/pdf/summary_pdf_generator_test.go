package pdf_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/internal/infrastructure/pdf"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestGenerateSummaryPDF(t *testing.T) {
	start := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 23, 0, 0, 0, 0, time.UTC)
	report := &entity.PeriodReport{
		Name:        "Skye_Period_Report_2025-11-17_to_2025-11-23",
		PeriodStart: &start,
		PeriodEnd:   &end,
		RowCount:    42,
	}
	lines := []entity.SummaryLine{
		{Label: "============== Cumulative Period Financials ====================="},
		{Label: "Gross Revenue", Value: decPtr("880")},
		{Label: "- COGS", Value: decPtr("375")},
		{Label: "------------------------------------------------------"},
		{Label: "Gross Profit", Value: decPtr("345")},
		{Label: "Gross Margin", Text: "N/A"},
		{Label: "Ending Inventory (bars)", Value: decPtr("900"),
			Note: "WARNING: Inventory balance mismatch! Diff=50"},
	}

	g := pdf.NewSummaryPDFGenerator()
	data, err := g.GenerateSummaryPDF(report, lines)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]), "la salida es un PDF válido")
}

func TestGenerateSummaryPDF_SinRangoDeFechas(t *testing.T) {
	report := &entity.PeriodReport{Name: "combinado"}

	g := pdf.NewSummaryPDFGenerator()
	data, err := g.GenerateSummaryPDF(report, []entity.SummaryLine{
		{Label: "Gross Revenue", Value: decPtr("100")},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
