package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── pipelineParams ──────────────────────────────────────────────────────

func TestPipelineParams_FlagSoloPisaElTecho(t *testing.T) {
	// El flag -bar-ceiling no debe suprimir el resto de la configuración:
	// PER_BAR_COST del entorno sigue aplicando.
	t.Setenv("PER_BAR_COST", "2.75")

	ceiling, perBar, err := pipelineParams("6.5")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("6.5").Equal(ceiling))
	assert.True(t, decimal.RequireFromString("2.75").Equal(perBar),
		"PER_BAR_COST configurado debe respetarse aunque el techo venga por flag")
}

func TestPipelineParams_SinFlagUsaConfiguracion(t *testing.T) {
	t.Setenv("BAR_PRICE_CEILING", "5")

	ceiling, _, err := pipelineParams("")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("5").Equal(ceiling))
}

func TestPipelineParams_FlagInvalido(t *testing.T) {
	_, _, err := pipelineParams("cinco")
	require.Error(t, err)
}

// ── inferName ───────────────────────────────────────────────────────────

func TestInferName_RangoDelNombreDeLaPlanilla(t *testing.T) {
	got := inferName("/tmp/11.17.25 to 11.23.25.xlsx")
	assert.Equal(t, "Skye_Period_Report_2025-11-17_to_2025-11-23", got)
}

func TestInferName_SinRangoUsaFechaDeCorrida(t *testing.T) {
	got := inferName("planilla.xlsx")
	assert.Contains(t, got, "Skye_Period_Report_")
}
