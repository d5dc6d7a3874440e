package handler

// catalogo.go — thin CRUD over clientes and modelos de arma. These entities
// are administered upstream; the engine only needs enough surface to register
// them and look them up, so the handler talks to the repositories directly.

import (
	"net/http"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/model"
	"github.com/Gmarm-org/gmarm-sub002/internal/repository"

	"github.com/gin-gonic/gin"
)

type CatalogoHandler struct {
	clienteRepo repository.ClienteRepository
	armaRepo    repository.ArmaRepository
}

func NewCatalogoHandler(clienteRepo repository.ClienteRepository, armaRepo repository.ArmaRepository) *CatalogoHandler {
	return &CatalogoHandler{clienteRepo: clienteRepo, armaRepo: armaRepo}
}

// CrearCliente godoc
// @Summary      Registrar cliente
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearClienteRequest true "Datos del cliente"
// @Success      201 {object} dto.ClienteResponse
// @Router       /v1/clientes [post]
func (h *CatalogoHandler) CrearCliente(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente := &model.Cliente{
		Nombre:    req.Nombre,
		Documento: req.Documento,
		Categoria: req.Categoria,
	}
	if err := h.clienteRepo.Crear(c.Request.Context(), cliente); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ClienteResponse{
		ID:        cliente.ID.String(),
		Nombre:    cliente.Nombre,
		Documento: cliente.Documento,
		Categoria: cliente.Categoria,
	})
}

// ObtenerCliente godoc
// @Summary      Obtener cliente
// @Tags         catalogo
// @Produce      json
// @Param        id path string true "UUID del cliente"
// @Success      200 {object} dto.ClienteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/clientes/{id} [get]
func (h *CatalogoHandler) ObtenerCliente(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	cliente, err := h.clienteRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ClienteResponse{
		ID:        cliente.ID.String(),
		Nombre:    cliente.Nombre,
		Documento: cliente.Documento,
		Categoria: cliente.Categoria,
	})
}

// CrearArma godoc
// @Summary      Registrar modelo de arma
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearArmaRequest true "Datos del modelo"
// @Success      201 {object} dto.ArmaResponse
// @Router       /v1/armas [post]
func (h *CatalogoHandler) CrearArma(c *gin.Context) {
	var req dto.CrearArmaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	arma := &model.ArmaModelo{
		Nombre:    req.Nombre,
		Marca:     req.Marca,
		Calibre:   req.Calibre,
		Categoria: req.Categoria,
		Precio:    req.Precio,
		Activo:    true,
	}
	if err := h.armaRepo.Crear(c.Request.Context(), arma); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, armaToResponse(arma))
}

// ListarArmas godoc
// @Summary      Listar modelos de arma activos
// @Tags         catalogo
// @Produce      json
// @Success      200 {array} dto.ArmaResponse
// @Router       /v1/armas [get]
func (h *CatalogoHandler) ListarArmas(c *gin.Context) {
	armas, err := h.armaRepo.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.ArmaResponse, 0, len(armas))
	for i := range armas {
		out = append(out, armaToResponse(&armas[i]))
	}
	c.JSON(http.StatusOK, out)
}

func armaToResponse(a *model.ArmaModelo) dto.ArmaResponse {
	return dto.ArmaResponse{
		ID:        a.ID.String(),
		Nombre:    a.Nombre,
		Marca:     a.Marca,
		Calibre:   a.Calibre,
		Categoria: a.Categoria,
		Precio:    a.Precio,
		Activo:    a.Activo,
	}
}
