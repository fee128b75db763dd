// Command pipeline corre la conciliación de un periodo de punta a punta
// sin servidor ni base de datos: lee el export de pedidos y la planilla
// 3PL, concilia, resume y escribe el workbook del periodo.
//
// Uso:
//
//	pipeline -orders "orders_export.csv" -threepl "11.17.25 to 11.23.25.xlsx" \
//	  -starting-inventory 1000 -fee 25.40 -out reports/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skyefoods/skye-ledger/internal/application/reconcile"
	"github.com/skyefoods/skye-ledger/internal/application/summary"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/internal/infrastructure/excel"
	"github.com/skyefoods/skye-ledger/pkg/config"
	"github.com/skyefoods/skye-ledger/pkg/logger"
	"github.com/skyefoods/skye-ledger/pkg/moneyfmt"
)

// fileDates reconoce el rango "M.D.YY to M.D.YY" con que llegan nombradas
// las planillas del 3PL.
var fileDates = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{2})\s*to\s*(\d{1,2})\.(\d{1,2})\.(\d{2})`)

func main() {
	var (
		ordersPath  = flag.String("orders", "", "export CSV de pedidos de la tienda")
		threeplPath = flag.String("threepl", "", "planilla xlsx del 3PL")
		outDir      = flag.String("out", ".", "directorio de salida del workbook")
		name        = flag.String("name", "", "nombre del reporte; por defecto se infiere del nombre de la planilla 3PL")
		fee         = flag.String("fee", "0", "fee de procesamiento de pagos del periodo")
		starting    = flag.String("starting-inventory", "", "inventario inicial en barras (requerido)")
		posGiven    = flag.String("pos-given", "", "barras POS entregadas al equipo de ventas (acumulado)")
		posToSell   = flag.String("pos-to-sell", "", "barras POS por vender")
		ceilingFlag = flag.String("bar-ceiling", "", "techo de precio unitario para clasificar barras; por defecto BAR_PRICE_CEILING")
	)
	flag.Parse()

	if *ordersPath == "" || *threeplPath == "" || *starting == "" {
		fmt.Fprintln(os.Stderr, "uso: pipeline -orders <csv> -threepl <xlsx> -starting-inventory <n> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log := logger.New(logger.Config{Env: "development", Level: "info"})

	ceiling, perBarCost, err := pipelineParams(*ceilingFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("parámetros del pipeline")
	}

	orders, err := readOrders(*ordersPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *ordersPath).Msg("leer pedidos")
	}
	shipments, err := readShipments(*threeplPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *threeplPath).Msg("leer planilla 3PL")
	}

	in := summary.Input{
		PaymentProcessingFee: moneyfmt.ParseOrZero(*fee),
		StartingInventory:    moneyfmt.ParseOrZero(*starting),
		POSBarsGiven:         moneyfmt.Parse(*posGiven),
		POSBarsToSell:        moneyfmt.Parse(*posToSell),
	}

	ledger := reconcile.New(ceiling, perBarCost, log).Reconcile(orders, shipments)
	s, err := summary.New(log).Build(ledger, shipments, in)
	if err != nil {
		log.Fatal().Err(err).Msg("construir resumen")
	}

	reportName := *name
	if reportName == "" {
		reportName = inferName(*threeplPath)
	}
	outPath := filepath.Join(*outDir, reportName+".xlsx")

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("crear workbook")
	}
	defer f.Close()
	if err := excel.WriteReport(f, ledger, s); err != nil {
		log.Fatal().Err(err).Msg("escribir workbook")
	}

	log.Info().
		Str("report", outPath).
		Int("ledger_rows", len(ledger)).
		Str("gross_profit", s.GrossProfit.StringFixed(2)).
		Str("total_bars_sold", s.TotalBarsSold.String()).
		Msg("reporte de periodo generado")
}

// pipelineParams resuelve el techo de precio y el COGS por barra. La
// configuración se carga siempre (PER_BAR_COST y el resto aplican igual);
// el flag solo pisa el techo. Como BAR_PRICE_CEILING es obligatorio, el
// valor del flag se publica en el entorno antes de cargar.
func pipelineParams(ceilingFlag string) (ceiling, perBarCost decimal.Decimal, err error) {
	if ceilingFlag != "" {
		if _, err = decimal.NewFromString(ceilingFlag); err != nil {
			return ceiling, perBarCost, fmt.Errorf("bar-ceiling inválido %q: %w", ceilingFlag, err)
		}
		os.Setenv("BAR_PRICE_CEILING", ceilingFlag)
	}
	cfg, err := config.Load()
	if err != nil {
		return ceiling, perBarCost, err
	}
	return cfg.Pipeline.BarPriceCeiling, cfg.Pipeline.PerBarCost, nil
}

func readOrders(path string) ([]entity.LineItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return excel.ReadOrders(f)
}

func readShipments(path string) ([]entity.ShipmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return excel.ReadShipments(f)
}

// inferName deriva Skye_Period_Report_YYYY-MM-DD_to_YYYY-MM-DD del nombre
// de la planilla 3PL ("11.17.25 to 11.23.25.xlsx"). Sin rango reconocible,
// usa la fecha de corrida.
func inferName(threeplPath string) string {
	base := filepath.Base(threeplPath)
	m := fileDates.FindStringSubmatch(base)
	if m == nil {
		return "Skye_Period_Report_" + time.Now().Format("2006-01-02")
	}
	start, err1 := time.Parse("1.2.06", fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3]))
	end, err2 := time.Parse("1.2.06", fmt.Sprintf("%s.%s.%s", m[4], m[5], m[6]))
	if err1 != nil || err2 != nil {
		return "Skye_Period_Report_" + time.Now().Format("2006-01-02")
	}
	return fmt.Sprintf("Skye_Period_Report_%s_to_%s",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
}
