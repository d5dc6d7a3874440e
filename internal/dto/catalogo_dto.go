package dto

import "github.com/shopspring/decimal"

// CrearClienteRequest registra un cliente ya validado por el sistema de alta.
type CrearClienteRequest struct {
	Nombre    string `json:"nombre" validate:"required"`
	Documento string `json:"documento" validate:"required"`
	Categoria string `json:"categoria" validate:"required,oneof=CIVIL UNIFORMADO EMPRESA DEPORTISTA"`
}

type ClienteResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Documento string `json:"documento"`
	Categoria string `json:"categoria"`
}

type CrearArmaRequest struct {
	Nombre    string          `json:"nombre" validate:"required"`
	Marca     string          `json:"marca" validate:"required"`
	Calibre   string          `json:"calibre,omitempty"`
	Categoria string          `json:"categoria" validate:"required"`
	Precio    decimal.Decimal `json:"precio" validate:"min=0"`
}

type ArmaResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Marca     string          `json:"marca"`
	Calibre   string          `json:"calibre,omitempty"`
	Categoria string          `json:"categoria"`
	Precio    decimal.Decimal `json:"precio"`
	Activo    bool            `json:"activo"`
}
