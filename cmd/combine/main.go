// Command combine une N workbooks de periodo ya generados en un reporte
// acumulado. Los archivos ilegibles se saltan con advertencia; basta con
// que uno sea legible.
//
// Uso:
//
//	combine -out Skye_Combined_Report.xlsx reports/*.xlsx
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skyefoods/skye-ledger/internal/application/combine"
	"github.com/skyefoods/skye-ledger/internal/domain/entity"
	"github.com/skyefoods/skye-ledger/internal/infrastructure/excel"
	"github.com/skyefoods/skye-ledger/pkg/logger"
)

func main() {
	var (
		outPath = flag.String("out", "Skye_Combined_Report.xlsx", "ruta del workbook combinado")
		dedupe  = flag.Bool("dedupe", false, "descartar filas repetidas por order_ID (gana la primera)")
	)
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "uso: combine [-out <xlsx>] [-dedupe] <reporte.xlsx> [reporte.xlsx ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log := logger.New(logger.Config{Env: "development", Level: "info"})

	var artifacts []entity.PeriodArtifact
	for _, path := range paths {
		art, err := readArtifact(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: could not read %s: %v\n", path, err)
			continue
		}
		artifacts = append(artifacts, art)
	}

	res, err := combine.New(log).Combine(artifacts, combine.Options{DedupeByOrderID: *dedupe})
	if err != nil {
		log.Fatal().Err(err).Msg("combinar reportes")
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("crear workbook combinado")
	}
	defer f.Close()
	if err := excel.WriteCombined(f, res.Ledger, res.Lines); err != nil {
		log.Fatal().Err(err).Msg("escribir workbook combinado")
	}

	log.Info().
		Str("report", *outPath).
		Strs("periods", res.Periods).
		Int("ledger_rows", len(res.Ledger)).
		Int("warnings", len(res.Warnings)).
		Msg("reporte combinado generado")
}

func readArtifact(path string) (entity.PeriodArtifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.PeriodArtifact{}, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return excel.ReadArtifact(f, name)
}
