package combine

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/skyefoods/skye-ledger/internal/domain/entity"
)

// periodToken busca un rango YYYY-MM-DD_to_YYYY-MM-DD en el nombre del
// artefacto (nombre de archivo o de hoja).
var periodToken = regexp.MustCompile(`(?i)(\d{4}-\d{2}-\d{2})\s*_?to\s*_?(\d{4}-\d{2}-\d{2})`)

// periodView es un artefacto anotado con su etiqueta de periodo y su fecha
// de inicio parseada (nil si el nombre no trae un rango reconocible).
type periodView struct {
	artifact entity.PeriodArtifact
	label    string
	start    *time.Time
}

// parsePeriod deriva la etiqueta MM/DD/YY-MM/DD/YY y la fecha de inicio a
// partir del nombre. Sin token de fechas, la etiqueta es el nombre crudo.
func parsePeriod(name string) (string, *time.Time) {
	start, end := PeriodRange(name)
	if start == nil {
		return name, nil
	}
	label := fmt.Sprintf("%s-%s", start.Format("01/02/06"), end.Format("01/02/06"))
	return label, start
}

// PeriodRange extrae las fechas de inicio y fin del rango embebido en un
// nombre de reporte, o (nil, nil) si no trae uno reconocible.
func PeriodRange(name string) (start, end *time.Time) {
	m := periodToken.FindStringSubmatch(name)
	if m == nil {
		return nil, nil
	}
	s, err1 := time.Parse("2006-01-02", m[1])
	e, err2 := time.Parse("2006-01-02", m[2])
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &s, &e
}

// sortChronological ordena de periodo más antiguo a más reciente; los
// artefactos sin fecha parseable van al final, en su orden de llegada.
func sortChronological(views []periodView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].start, views[j].start
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}
