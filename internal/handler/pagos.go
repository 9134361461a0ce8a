package handler

import (
	"net/http"

	"gestoreventos/internal/apierror"
	"gestoreventos/internal/dto"
	"gestoreventos/internal/middleware"
	"gestoreventos/internal/service"

	"github.com/gin-gonic/gin"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler { return &PagosHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar pago
// @Description  Crea un pago en revisión. El tipo (abono / pago_completo) se deriva del saldo pendiente.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                   true "UUID del evento"
// @Param        body body     dto.RegistrarPagoRequest true "Pago"
// @Success      201  {object} dto.MovimientoLedgerResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/eventos/{id}/pagos [post]
func (h *PagosHandler) Registrar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPago(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar pagos del evento
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id              path   string true  "UUID del evento"
// @Param        estado_revision query  string false "en_revision | aprobado | rechazado"
// @Success      200 {array} dto.PagoResponse
// @Router       /v1/eventos/{id}/pagos [get]
func (h *PagosHandler) Listar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var filtro dto.PagoFilter
	if err := c.ShouldBindQuery(&filtro); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return
	}
	resp, err := h.svc.ListarPagos(c.Request.Context(), id, filtro)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary      Resumen financiero del evento
// @Description  Totales recalculados, pagos en revisión y estado de las compuertas de completar / eliminar.
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del evento"
// @Success      200 {object} dto.ResumenFinancieroResponse
// @Router       /v1/eventos/{id}/resumen [get]
func (h *PagosHandler) Resumen(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ResumenFinanciero(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProponerReembolso godoc
// @Summary      Proponer reembolso
// @Description  Valida el monto contra el saldo reembolsable sin persistir nada.
// @Tags         reembolsos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                       true "UUID del evento"
// @Param        body body     dto.ProponerReembolsoRequest true "Reembolso"
// @Success      200  {object} dto.PropuestaReembolsoResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/eventos/{id}/reembolsos/propuesta [post]
func (h *PagosHandler) ProponerReembolso(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProponerReembolsoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ProponerReembolso(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmarReembolso godoc
// @Summary      Confirmar reembolso
// @Description  Revalida contra el saldo vigente y registra el reembolso en revisión.
// @Tags         reembolsos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                        true "UUID del evento"
// @Param        body body     dto.ConfirmarReembolsoRequest true "Propuesta confirmada"
// @Success      201  {object} dto.MovimientoLedgerResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/eventos/{id}/reembolsos [post]
func (h *PagosHandler) ConfirmarReembolso(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ConfirmarReembolsoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmarReembolso(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Aprobar godoc
// @Summary      Aprobar pago
// @Tags         revision
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "UUID del pago"
// @Param        body body     dto.AprobarPagoRequest true "Cuenta de liquidación"
// @Success      200  {object} dto.MovimientoLedgerResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pagos/{id}/aprobar [post]
func (h *PagosHandler) Aprobar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AprobarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Aprobar(c.Request.Context(), id, middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rechazar godoc
// @Summary      Rechazar pago
// @Tags         revision
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                  true  "UUID del pago"
// @Param        body body     dto.RechazarPagoRequest false "Motivo"
// @Success      200  {object} dto.MovimientoLedgerResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pagos/{id}/rechazar [post]
func (h *PagosHandler) Rechazar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RechazarPagoRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Rechazar(c.Request.Context(), id, middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
