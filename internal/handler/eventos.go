package handler

import (
	"net/http"

	"gestoreventos/internal/dto"
	"gestoreventos/internal/service"

	"github.com/gin-gonic/gin"
)

type EventosHandler struct{ svc service.EventoService }

func NewEventosHandler(svc service.EventoService) *EventosHandler {
	return &EventosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear evento
// @Description  Registra un evento en cotización. Si tiene plan, siembra el checklist desde el catálogo.
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearEventoRequest true "Datos del evento"
// @Success      201  {object} dto.EventoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/eventos [post]
func (h *EventosHandler) Crear(c *gin.Context) {
	var req dto.CrearEventoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Obtener evento
// @Tags         eventos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del evento"
// @Success      200 {object} dto.EventoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/eventos/{id} [get]
func (h *EventosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarTotal godoc
// @Summary      Actualizar total del evento
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                     true "UUID del evento"
// @Param        body body     dto.ActualizarTotalRequest true "Nuevo total"
// @Success      200  {object} dto.EventoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/eventos/{id}/total [put]
func (h *EventosHandler) ActualizarTotal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarTotalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarTotal(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary      Cambiar estado del evento
// @Description  Avanza el estado (sin retroceder) o cancela. Completar tiene su propia operación.
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                   true "UUID del evento"
// @Param        body body     dto.CambiarEstadoRequest true "Estado destino"
// @Success      200  {object} dto.EventoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/eventos/{id}/estado [patch]
func (h *EventosHandler) CambiarEstado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Completar godoc
// @Summary      Completar evento
// @Description  Requiere saldo pendiente en cero. Acepta una declaración de daños opcional.
// @Tags         eventos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                     true  "UUID del evento"
// @Param        body body     dto.CompletarEventoRequest false "Daños"
// @Success      200  {object} dto.EventoResponse
// @Failure      412  {object} apierror.APIError
// @Router       /v1/eventos/{id}/completar [post]
func (h *EventosHandler) Completar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CompletarEventoRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Completar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar evento
// @Description  Solo cuando no quedan cobros aprobados sin reembolsar.
// @Tags         eventos
// @Security     BearerAuth
// @Param        id  path string true "UUID del evento"
// @Success      204
// @Failure      412 {object} apierror.APIError
// @Router       /v1/eventos/{id} [delete]
func (h *EventosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegistrarPagoDanos godoc
// @Summary      Registrar pago de daños
// @Tags         danos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string               true "UUID del evento"
// @Param        body body     dto.PagoDanosRequest true "Pago"
// @Success      201  {object} dto.PagoDanosResultado
// @Failure      422  {object} apierror.APIError
// @Router       /v1/eventos/{id}/danos/pagos [post]
func (h *EventosHandler) RegistrarPagoDanos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PagoDanosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPagoDanos(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarPagosDanos godoc
// @Summary      Historial de pagos de daños
// @Tags         danos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del evento"
// @Success      200 {array}  dto.PagoDanosResponse
// @Router       /v1/eventos/{id}/danos/pagos [get]
func (h *EventosHandler) ListarPagosDanos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPagosDanos(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
