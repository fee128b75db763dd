package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrMissingColumn: el archivo fuente no trae una columna obligatoria
	// (ej. "Type" en la planilla 3PL). Fatal para la corrida de un periodo.
	ErrMissingColumn = errors.New("columna obligatoria ausente en el archivo fuente")

	// ErrMissingSheet: el reporte de periodo no trae una de las dos hojas
	// del contrato (Master Log / Financial Summary).
	ErrMissingSheet = errors.New("hoja obligatoria ausente en el reporte")

	// ErrEmptyLedger: no hay filas que agregar; el resumen de periodo no se
	// fabrica en cero silenciosamente.
	ErrEmptyLedger = errors.New("master log vacío: nada que agregar")

	// ErrNoArtifacts: ningún reporte de periodo pudo leerse al combinar.
	ErrNoArtifacts = errors.New("ningún reporte de periodo utilizable")
)
