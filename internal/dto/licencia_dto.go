package dto

// CrearLicenciaRequest registra una licencia con sus cupos por categoría.
type CrearLicenciaRequest struct {
	Numero         string `json:"numero" validate:"required"`
	CupoCivil      int    `json:"cupo_civil" validate:"min=0"`
	CupoUniformado int    `json:"cupo_uniformado" validate:"min=0"`
	CupoEmpresa    int    `json:"cupo_empresa" validate:"min=0"`
	CupoDeportista int    `json:"cupo_deportista" validate:"min=0"`
}

type LicenciaResponse struct {
	ID                   string `json:"id"`
	Numero               string `json:"numero"`
	CupoTotal            int    `json:"cupo_total"`
	CupoCivil            int    `json:"cupo_civil"`
	CupoUniformado       int    `json:"cupo_uniformado"`
	CupoEmpresa          int    `json:"cupo_empresa"`
	CupoDeportista       int    `json:"cupo_deportista"`
	DisponibleCivil      int    `json:"disponible_civil"`
	DisponibleUniformado int    `json:"disponible_uniformado"`
	DisponibleEmpresa    int    `json:"disponible_empresa"`
	DisponibleDeportista int    `json:"disponible_deportista"`
	Activa               bool   `json:"activa"`
}
