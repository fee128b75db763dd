// Package moneyfmt parsea y formatea celdas numéricas de hojas de cálculo
// financieras. Las planillas de los reportes de periodo traen montos como
// números planos, texto moneda ("$1,234.56"), negativos entre paréntesis
// ("(45.00)") o porcentajes ("12.50%"); Parse acepta todas esas formas con
// semántica total: nunca retorna error, lo no parseable es nil.
package moneyfmt

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Parse convierte el texto de una celda a decimal.
//
// Reglas, en orden:
//   - espacios (incluido NBSP), "$" y separadores de miles se descartan
//   - "(x)" equivale a -x
//   - sufijo "%" divide entre 100
//   - vacío o no numérico → nil
func Parse(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	pct := false
	if strings.HasSuffix(s, "%") {
		pct = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	s = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	if pct {
		d = d.Div(hundred)
	}
	if neg {
		d = d.Neg()
	}
	return &d
}

// ParseOrZero es Parse con cero en lugar de nil para celdas no numéricas.
func ParseOrZero(s string) decimal.Decimal {
	if d := Parse(s); d != nil {
		return *d
	}
	return decimal.Zero
}
