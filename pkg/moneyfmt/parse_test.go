package moneyfmt_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyefoods/skye-ledger/pkg/moneyfmt"
)

func assertParsed(t *testing.T, want string, raw string) {
	t.Helper()
	got := moneyfmt.Parse(raw)
	require.NotNil(t, got, "Parse(%q)", raw)
	assert.True(t, decimal.RequireFromString(want).Equal(*got),
		"Parse(%q) = %s, esperado %s", raw, got, want)
}

func TestParse_FormasDeCelda(t *testing.T) {
	assertParsed(t, "1234.56", "$1,234.56")
	assertParsed(t, "-375", "(375.00)")
	assertParsed(t, "0.392", "39.20%")
	assertParsed(t, "1000", "1,000")
	assertParsed(t, "-45.5", "($45.50)")
}

func TestParse_EspaciosInternosYNBSP(t *testing.T) {
	// Los exports traen el símbolo separado del monto, a veces con
	// espacio duro (U+00A0).
	assertParsed(t, "1234.56", "$ 1,234.56")
	assertParsed(t, "1234.56", "$ 1,234.56")
	assertParsed(t, "60.48", " $60.48 ")
}

func TestParse_NoNumericoEsNil(t *testing.T) {
	assert.Nil(t, moneyfmt.Parse(""))
	assert.Nil(t, moneyfmt.Parse("   "))
	assert.Nil(t, moneyfmt.Parse("N/A"))
	assert.Nil(t, moneyfmt.Parse("$"))
}

func TestParseOrZero_CeldaVacia(t *testing.T) {
	assert.True(t, moneyfmt.ParseOrZero("").IsZero())
	assert.True(t, decimal.RequireFromString("7").Equal(moneyfmt.ParseOrZero("7")))
}
