package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/skyefoods/skye-ledger/internal/application/auth"
	"github.com/skyefoods/skye-ledger/internal/application/combine"
	"github.com/skyefoods/skye-ledger/internal/application/reconcile"
	"github.com/skyefoods/skye-ledger/internal/application/summary"
	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/internal/infrastructure/pdf"
	apphttp "github.com/skyefoods/skye-ledger/internal/interfaces/http"
	"github.com/skyefoods/skye-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	reports   map[string]*entity.PeriodReport
	ledgers   map[string][]entity.LedgerRow
	seq       int
	ledgerErr error // fuerza el fallo de la escritura del master log
}

func newMemStore() *memStore {
	return &memStore{
		reports: map[string]*entity.PeriodReport{},
		ledgers: map[string][]entity.LedgerRow{},
	}
}

func (m *memStore) Create(_ context.Context, r *entity.PeriodReport) error {
	for _, existing := range m.reports {
		if existing.Name == r.Name {
			return fmt.Errorf("nombre duplicado: %w", domain.ErrInvalidInput)
		}
	}
	if r.ID == "" {
		m.seq++
		r.ID = fmt.Sprintf("report-%d", m.seq)
	}
	m.reports[r.ID] = r
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*entity.PeriodReport, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *memStore) List(_ context.Context, limit, offset int) ([]*entity.PeriodReport, error) {
	out := make([]*entity.PeriodReport, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.reports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.reports, id)
	delete(m.ledgers, id)
	return nil
}

func (m *memStore) CreateWithLedger(ctx context.Context, r *entity.PeriodReport, rows []entity.LedgerRow) error {
	// Atómico como la implementación real: si el batch falla no queda
	// cabecera huérfana.
	if m.ledgerErr != nil {
		return m.ledgerErr
	}
	if err := m.Create(ctx, r); err != nil {
		return err
	}
	return m.CreateBatch(ctx, r.ID, rows)
}

func (m *memStore) CreateBatch(_ context.Context, reportID string, rows []entity.LedgerRow) error {
	if m.ledgerErr != nil {
		return m.ledgerErr
	}
	m.ledgers[reportID] = rows
	return nil
}

func (m *memStore) ListByReport(_ context.Context, reportID string) ([]entity.LedgerRow, error) {
	return m.ledgers[reportID], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// App de prueba con el pipeline completo cableado
// ──────────────────────────────────────────────────────────────────────────────

func buildPipelineApp(t *testing.T) (*fiber.App, *memStore) {
	t.Helper()
	log := logger.Nop()
	store := newMemStore()

	reconcileUC := reconcile.New(decimal.NewFromFloat(6.5), decimal.NewFromFloat(2.5), log)
	summaryUC := summary.New(log)
	combineUC := combine.New(log)
	authUC := auth.New(auth.Operator{}, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	reportH := apphttp.NewReportHandler(reconcileUC, summaryUC, store, store, pdf.NewSummaryPDFGenerator())
	combineH := apphttp.NewCombineHandler(combineUC, store, store, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		Reports:   reportH,
		Combine:   combineH,
		JWTSecret: testJWTSecret,
	})
	return app, store
}

func pipelineRequest(t *testing.T, name string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	ordersPart, err := mw.CreateFormFile("orders", "orders.csv")
	require.NoError(t, err)
	_, err = ordersPart.Write([]byte(
		"Name,Paid at,Email,Source,Lineitem quantity,Lineitem price,Subtotal,Discount Amount,Shipping,Taxes,Total\n" +
			"#1001,2025-11-17,ana@example.com,web,2,25.00,50.00,0.00,6.00,4.00,60.00\n"))
	require.NoError(t, err)

	xf := excelize.NewFile()
	for c, v := range []string{"Type", "Store Order Number", "Order Code", "Handling Fee", "Total Shipping Cost"} {
		cell, cerr := excelize.CoordinatesToCellName(c+1, 1)
		require.NoError(t, cerr)
		require.NoError(t, xf.SetCellValue("Sheet1", cell, v))
	}
	for c, v := range []any{"Shipment Order", "#1001", "SO-1", 3.0, 7.0} {
		cell, cerr := excelize.CoordinatesToCellName(c+1, 2)
		require.NoError(t, cerr)
		require.NoError(t, xf.SetCellValue("Sheet1", cell, v))
	}
	threeplPart, err := mw.CreateFormFile("threepl", "threepl.xlsx")
	require.NoError(t, err)
	require.NoError(t, xf.Write(threeplPart))
	require.NoError(t, xf.Close())

	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.WriteField("starting_inventory", "1000"))
	require.NoError(t, mw.WriteField("payment_processing_fee", "5"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRunPipeline_SinTokenRetorna401(t *testing.T) {
	app, _ := buildPipelineApp(t)

	resp, err := app.Test(pipelineRequest(t, "Skye_Period_Report_2025-11-17_to_2025-11-23"), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRunPipeline_CorridaCompleta(t *testing.T) {
	app, store := buildPipelineApp(t)

	req := pipelineRequest(t, "Skye_Period_Report_2025-11-17_to_2025-11-23")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		ID       string `json:"id"`
		RowCount int    `json:"row_count"`
		Summary  struct {
			GrossRevenue      string `json:"gross_revenue"`
			TotalBarsSold     string `json:"total_bars_sold"`
			ShippingCostTotal string `json:"shipping_costs_total"`
		} `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.RowCount)
	// total 60 − tax 4 − shipping 6 = 50 de producto
	assert.True(t, decimal.RequireFromString(out.Summary.GrossRevenue).Equal(decimal.NewFromInt(50)))
	// 2 cajas de 7 barras
	assert.True(t, decimal.RequireFromString(out.Summary.TotalBarsSold).Equal(decimal.NewFromInt(14)))
	// 3PL 10 + fee 5
	assert.True(t, decimal.RequireFromString(out.Summary.ShippingCostTotal).Equal(decimal.NewFromInt(15)))

	// las fechas del periodo se derivan del nombre
	require.Contains(t, store.reports, out.ID)
	require.NotNil(t, store.reports[out.ID].PeriodStart)
	assert.Equal(t, "2025-11-17", store.reports[out.ID].PeriodStart.Format("2006-01-02"))
}

func TestRunPipeline_FalloDelLedgerNoDejaCabeceraHuerfana(t *testing.T) {
	app, store := buildPipelineApp(t)
	store.ledgerErr = fmt.Errorf("batch rechazado")

	req := pipelineRequest(t, "Skye_Period_Report_2025-11-17_to_2025-11-23")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, store.reports, "la cabecera del reporte debe revertirse con el ledger")
}

func TestRunPipeline_NombreDuplicadoRetorna409(t *testing.T) {
	app, _ := buildPipelineApp(t)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := pipelineRequest(t, "Skye_Period_Report_2025-11-17_to_2025-11-23")
		req.Header.Set("Authorization", tokenForRole(t, "admin"))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, "intento %d", i+1)
	}
}

func TestWorkbook_DescargaXlsxLegible(t *testing.T) {
	app, _ := buildPipelineApp(t)

	req := pipelineRequest(t, "Skye_Period_Report_2025-11-17_to_2025-11-23")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	dl := httptest.NewRequest(http.MethodGet, "/api/reports/"+created.ID+"/workbook", nil)
	dl.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err = app.Test(dl, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err, "la descarga debe ser un xlsx válido")
	defer wb.Close()
	assert.Contains(t, wb.GetSheetList(), "Master Log")
	assert.Contains(t, wb.GetSheetList(), "Financial Summary")
}

func TestCombine_UneReportesPersistidos(t *testing.T) {
	app, _ := buildPipelineApp(t)

	var ids []string
	for _, name := range []string{
		"Skye_Period_Report_2025-11-17_to_2025-11-23",
		"Skye_Period_Report_2025-11-24_to_2025-11-30",
	} {
		req := pipelineRequest(t, name)
		req.Header.Set("Authorization", tokenForRole(t, "admin"))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		resp.Body.Close()
		ids = append(ids, created.ID)
	}

	body, _ := json.Marshal(map[string]any{"report_ids": ids})
	req := httptest.NewRequest(http.MethodPost, "/api/reports/combine?format=json", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Periods  []string `json:"periods"`
		RowCount int      `json:"row_count"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []string{"11/17/25-11/23/25", "11/24/25-11/30/25"}, out.Periods)
	assert.Equal(t, 2, out.RowCount)
}

func TestCombine_ReporteIlegibleSeSaltaConAdvertencia(t *testing.T) {
	app, _ := buildPipelineApp(t)

	req := pipelineRequest(t, "Skye_Period_Report_2025-11-17_to_2025-11-23")
	req.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	body, _ := json.Marshal(map[string]any{"report_ids": []string{created.ID, "no-existe"}})
	creq := httptest.NewRequest(http.MethodPost, "/api/reports/combine?format=json", bytes.NewReader(body))
	creq.Header.Set("Content-Type", "application/json")
	creq.Header.Set("Authorization", tokenForRole(t, "admin"))
	resp, err = app.Test(creq, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "un reporte ilegible no aborta la combinación")
	var out struct {
		Periods  []string `json:"periods"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Periods, 1)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[0], "could not read report no-existe")
}
