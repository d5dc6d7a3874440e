package service

import "errors"

// Typed allocation errors. Handlers map these to HTTP status + machine codes;
// the coordinator recovers the first three locally via compensation and only
// the final, user-meaningful error crosses the API boundary.
var (
	// ErrCupoExcedido: la categoría agotó su capacidad — recuperable, el
	// vendedor elige otra categoría u otro grupo.
	ErrCupoExcedido = errors.New("cupo excedido para la categoria")

	// ErrSerieNoDisponible: la serie ya no está DISPONIBLE al momento de
	// asignar (otra venta la tomó primero).
	ErrSerieNoDisponible = errors.New("la serie no esta disponible")

	// ErrConflictoSerie: el coordinador perdió la carrera por la serie y ya
	// compensó el cupo; el llamador debe re-listar series y reintentar.
	ErrConflictoSerie = errors.New("conflicto de serie: vuelva a listar las series disponibles")

	// ErrSerieDuplicada: fila de carga masiva rechazada; el lote continúa.
	ErrSerieDuplicada = errors.New("numero de serie duplicado")

	ErrSerieNoEncontrada = errors.New("serie no encontrada")

	// ErrSerieVendida: VENDIDA es terminal, no admite liberación ni reasignación.
	ErrSerieVendida = errors.New("la serie ya fue vendida")

	// ErrTransicionInvalida: violación del grafo de etapas — se rechaza de
	// plano, nunca se corrige en silencio, para que la auditoría del grupo
	// siga siendo confiable.
	ErrTransicionInvalida = errors.New("transicion de estado invalida")

	// ErrGrupoCerrado: el grupo ya no acepta clientes nuevos.
	ErrGrupoCerrado = errors.New("el grupo no acepta nuevos clientes en su etapa actual")

	// ErrGrupoSinPedido: no se pueden cargar series contra un grupo que aún
	// no definió su pedido a fábrica.
	ErrGrupoSinPedido = errors.New("el grupo aun no tiene pedido definido")

	ErrGrupoAnulado = errors.New("el grupo esta anulado")

	// ErrLicenciaSinCupo: la licencia no tiene capacidad disponible para
	// respaldar el grupo nuevo.
	ErrLicenciaSinCupo = errors.New("la licencia no tiene cupo disponible")

	ErrReservaNoEncontrada = errors.New("reserva no encontrada")
)
