package dto

import "github.com/shopspring/decimal"

// AsignarArmaClienteRequest is the coordinator entry point: reserve quota,
// optionally pin a concrete serial, and persist the binding — or roll
// everything back.
type AsignarArmaClienteRequest struct {
	GrupoID      string          `json:"grupo_id" validate:"required,uuid"`
	ClienteID    string          `json:"cliente_id" validate:"required,uuid"`
	ArmaModeloID string          `json:"arma_modelo_id" validate:"required,uuid"`
	Precio       decimal.Decimal `json:"precio" validate:"required"`
	Cantidad     int             `json:"cantidad" validate:"min=1"`
	// NumeroSerie is optional: the serial can be attached later via
	// POST /arma-serie/asignar.
	NumeroSerie string  `json:"numero_serie,omitempty"`
	UsuarioID   *string `json:"usuario_id,omitempty" validate:"omitempty,uuid"`
}

type ReservaResponse struct {
	ID           string          `json:"id"`
	GrupoID      string          `json:"grupo_id"`
	ClienteID    string          `json:"cliente_id"`
	ArmaModeloID string          `json:"arma_modelo_id"`
	NumeroSerie  string          `json:"numero_serie,omitempty"`
	Precio       decimal.Decimal `json:"precio"`
	Cantidad     int             `json:"cantidad"`
	Estado       string          `json:"estado"`
	CreatedAt    string          `json:"created_at"`
}
