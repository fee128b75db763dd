package summary_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyefoods/skye-ledger/internal/application/summary"
	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBuild_LedgerVacioEsErrorExplicito(t *testing.T) {
	uc := summary.New(logger.Nop())

	_, err := uc.Build(nil, nil, summary.Input{})
	require.ErrorIs(t, err, domain.ErrEmptyLedger,
		"el resumen no se fabrica en cero con un ledger vacío")
}

func TestBuild_FinancierosEInventario(t *testing.T) {
	uc := summary.New(logger.Nop())

	ledger := []entity.LedgerRow{
		{
			// Pedido de 2 cajas: total 60, tax 4, shipping 6.
			UnitType: entity.UnitTypeBox, Source: "web",
			Quantity: decPtr("2"), BarsEquivalent: dec("14"),
			Shipping: decPtr("6"), Tax: decPtr("4"), Total: decPtr("60"),
			COGS: dec("35"), TotalShippingCost: decPtr("10"),
		},
		{
			// Pedido de 3 barras sueltas sin match 3PL.
			UnitType: entity.UnitTypeBar, Source: "web",
			Quantity: decPtr("3"), BarsEquivalent: dec("3"),
			Total: decPtr("10.5"), COGS: dec("7.5"),
		},
		{
			// Muestra gratis: sin total, solo costo de envío.
			UnitType: entity.UnitTypeBar, Source: entity.SourceFreeSample,
			Quantity: decPtr("2"), BarsEquivalent: dec("2"),
			COGS: dec("5"), TotalShippingCost: decPtr("4"),
		},
	}
	shipments := []entity.ShipmentRecord{
		{Type: "Receiving", Receiving: decPtr("120")},
		{Type: entity.RecordTypeShipmentOrder, HandlingFee: decPtr("999")}, // no cuenta como extra
	}

	s, err := uc.Build(ledger, shipments, summary.Input{
		PaymentProcessingFee: dec("12.5"),
		StartingInventory:    dec("1000"),
	})
	require.NoError(t, err)

	// Ingresos: (60−4−6) + 10.5 = 60.5; la muestra sin total no aporta.
	assert.True(t, dec("60.5").Equal(s.GrossRevenue))
	assert.True(t, dec("6").Equal(s.ShippingCollected))
	assert.True(t, dec("4").Equal(s.TaxesCollected))
	assert.True(t, dec("47.5").Equal(s.COGSTotal))
	assert.True(t, dec("14").Equal(s.ShippingCostsOrders), "10 + nil + 4")
	assert.True(t, dec("120").Equal(s.ExtraCosts3PL),
		"solo las filas que no son Shipment Order suman al extra")
	assert.True(t, dec("146.5").Equal(s.ShippingCostsTotal), "14 + 120 + 12.5")

	// Utilidad: 60.5 + 6 − 47.5 − 146.5 = −127.5.
	assert.True(t, dec("-127.5").Equal(s.GrossProfit))
	require.NotNil(t, s.GrossMargin)
	assert.True(t, dec("-127.5").Div(dec("66.5")).Equal(*s.GrossMargin))

	// Inventario: la muestra gratis sí cuenta como vendida.
	assert.True(t, dec("2").Equal(s.BoxesSold))
	assert.True(t, dec("5").Equal(s.SingleBarsSold), "3 del pedido + 2 de la muestra")
	assert.True(t, dec("19").Equal(s.TotalBarsSold))
	assert.True(t, dec("981").Equal(s.EndingInventoryBars))
	assert.True(t, dec("14").Equal(s.BoxBarsSold))
	assert.True(t, s.CaseBarsSold.IsZero())
}

// Invariante del agregador: profit = revenue + shipping − COGS − costo 3PL
// total, para cualquier ledger.
func TestBuild_InvarianteDeUtilidad(t *testing.T) {
	uc := summary.New(logger.Nop())

	ledger := []entity.LedgerRow{
		{UnitType: entity.UnitTypeCase, Quantity: decPtr("1"), BarsEquivalent: dec("168"),
			Shipping: decPtr("25"), Tax: decPtr("30"), Total: decPtr("455"),
			COGS: dec("423"), TotalShippingCost: decPtr("60")},
		{UnitType: entity.UnitTypeBar, Quantity: decPtr("7"), BarsEquivalent: dec("7"),
			Total: decPtr("24.5"), COGS: dec("17.6")},
	}

	s, err := uc.Build(ledger, nil, summary.Input{PaymentProcessingFee: dec("9.3")})
	require.NoError(t, err)

	want := s.GrossRevenue.Add(s.ShippingCollected).Sub(s.COGSTotal).Sub(s.ShippingCostsTotal)
	assert.True(t, want.Equal(s.GrossProfit))
	assert.True(t, dec("1").Equal(s.CasesSold))
}

func TestBuild_RemesasEquipoDeVentasNoCuentanComoVenta(t *testing.T) {
	uc := summary.New(logger.Nop())

	zero := decimal.Zero
	ledger := []entity.LedgerRow{
		{UnitType: entity.UnitTypeBox, Source: entity.SourceSalesTeam,
			Quantity: decPtr("5"), BarsEquivalent: decimal.Zero,
			Total: &zero, COGS: decimal.Zero, TotalShippingCost: decPtr("18")},
		{UnitType: entity.UnitTypeBox, Source: "web",
			Quantity: decPtr("1"), BarsEquivalent: dec("7"),
			Total: decPtr("30"), COGS: dec("17.5"), TotalShippingCost: decPtr("9")},
	}

	s, err := uc.Build(ledger, nil, summary.Input{StartingInventory: dec("100")})
	require.NoError(t, err)

	assert.True(t, dec("1").Equal(s.BoxesSold),
		"las 5 cajas del equipo de ventas quedan fuera del conteo")
	assert.True(t, dec("7").Equal(s.TotalBarsSold))
	assert.True(t, dec("27").Equal(s.ShippingCostsOrders),
		"el costo de envío de la remesa sí se incurre")
	assert.True(t, dec("93").Equal(s.EndingInventoryBars))
}

func TestBuild_MargenNilConDenominadorCero(t *testing.T) {
	uc := summary.New(logger.Nop())

	// Solo remesas anuladas: revenue y shipping quedan en cero.
	zero := decimal.Zero
	ledger := []entity.LedgerRow{
		{Source: entity.SourceSalesTeam, Total: &zero, Shipping: &zero, TotalShippingCost: decPtr("10")},
	}

	s, err := uc.Build(ledger, nil, summary.Input{})
	require.NoError(t, err)
	assert.Nil(t, s.GrossMargin, "margen indefinido cuando revenue + shipping = 0")
}

func TestBuild_DerivacionesPOS(t *testing.T) {
	uc := summary.New(logger.Nop())

	ledger := []entity.LedgerRow{
		{UnitType: entity.UnitTypeBar, Source: "pos",
			Quantity: decPtr("40"), BarsEquivalent: dec("40"),
			Total: decPtr("140"), COGS: dec("100")},
	}

	s, err := uc.Build(ledger, nil, summary.Input{
		StartingInventory: dec("500"),
		POSBarsGiven:      decPtr("120"),
		POSBarsToSell:     decPtr("200"),
	})
	require.NoError(t, err)

	require.NotNil(t, s.POSBarsOutstanding)
	assert.True(t, dec("80").Equal(*s.POSBarsOutstanding), "120 entregadas − 40 vendidas")
	require.NotNil(t, s.POSBarsLeftAt3PL)
	assert.True(t, dec("340").Equal(*s.POSBarsLeftAt3PL), "inventario final 460 − 120 entregadas")
}

func TestBuild_SinEscalaresPOSLosCamposQuedanNil(t *testing.T) {
	uc := summary.New(logger.Nop())

	s, err := uc.Build([]entity.LedgerRow{{Total: decPtr("10")}}, nil, summary.Input{})
	require.NoError(t, err)
	assert.Nil(t, s.POSBarsGiven)
	assert.Nil(t, s.POSBarsOutstanding)
	assert.Nil(t, s.POSBarsLeftAt3PL)
}
