package handler

import (
	"net/http"

	"gestoreventos/internal/dto"
	"gestoreventos/internal/service"

	"github.com/gin-gonic/gin"
)

type ServiciosHandler struct{ svc service.ServicioService }

func NewServiciosHandler(svc service.ServicioService) *ServiciosHandler {
	return &ServiciosHandler{svc: svc}
}

// Listar godoc
// @Summary      Checklist de servicios
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del evento"
// @Success      200 {object} dto.ChecklistResponse
// @Router       /v1/eventos/{id}/servicios [get]
func (h *ServiciosHandler) Listar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), id)
	h.responder(c, http.StatusOK, resp, err)
}

// GenerarDesdePlan godoc
// @Summary      Generar checklist desde el plan
// @Description  Agrega los servicios del plan que falten. Los existentes conservan su estado.
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del evento"
// @Success      200 {object} dto.ChecklistResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/eventos/{id}/servicios/generar [post]
func (h *ServiciosHandler) GenerarDesdePlan(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GenerarDesdePlan(c.Request.Context(), id)
	h.responder(c, http.StatusOK, resp, err)
}

// Agregar godoc
// @Summary      Agregar servicio personalizado
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                     true "UUID del evento"
// @Param        body body     dto.AgregarServicioRequest true "Servicio"
// @Success      201  {object} dto.ChecklistResponse
// @Router       /v1/eventos/{id}/servicios [post]
func (h *ServiciosHandler) Agregar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AgregarServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarPersonalizado(c.Request.Context(), id, req)
	h.responder(c, http.StatusCreated, resp, err)
}

// Eliminar godoc
// @Summary      Eliminar servicio personalizado
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del servicio"
// @Success      200 {object} dto.ChecklistResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/servicios/{id} [delete]
func (h *ServiciosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	h.responder(c, http.StatusOK, resp, err)
}

// MarcarCompletado godoc
// @Summary      Marcar servicio completado
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                    true "UUID del servicio"
// @Param        body body     dto.MarcarServicioRequest true "valor"
// @Success      200  {object} dto.ChecklistResponse
// @Router       /v1/servicios/{id}/completado [patch]
func (h *ServiciosHandler) MarcarCompletado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MarcarServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarcarCompletado(c.Request.Context(), id, *req.Valor)
	h.responder(c, http.StatusOK, resp, err)
}

// MarcarDescartado godoc
// @Summary      Descartar o reactivar servicio
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                    true "UUID del servicio"
// @Param        body body     dto.MarcarServicioRequest true "valor"
// @Success      200  {object} dto.ChecklistResponse
// @Router       /v1/servicios/{id}/descartado [patch]
func (h *ServiciosHandler) MarcarDescartado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MarcarServicioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarcarDescartado(c.Request.Context(), id, *req.Valor)
	h.responder(c, http.StatusOK, resp, err)
}

func (h *ServiciosHandler) responder(c *gin.Context, status int, resp *dto.ChecklistResponse, err error) {
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(status, resp)
}
