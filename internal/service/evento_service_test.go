package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gestoreventos/internal/dto"
	"gestoreventos/internal/infra"
	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) completarConDanos(t *testing.T, id uuid.UUID, costo string, cobrar bool) {
	t.Helper()
	_, err := h.eventoSvc.Completar(context.Background(), id, dto.CompletarEventoRequest{
		Danos: &dto.DanosRequest{Descripcion: "Mantel quemado y copa rota", Costo: d(costo), CobrarCliente: cobrar},
	})
	require.NoError(t, err)
}

func TestCompletar_ConSaldoPendiente(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "1000.00", model.EventoEnProceso)
	h.aprobar(t, h.pagar(t, id, "999.99").Pago.ID)

	_, err := h.eventoSvc.Completar(context.Background(), id, dto.CompletarEventoRequest{})
	var pf *ledger.PreconditionFailedError
	require.ErrorAs(t, err, &pf)
	assert.Contains(t, err.Error(), "$0.01")
}

func TestCompletar_PagosEnRevisionNoCuentan(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "1000.00", model.EventoConfirmado)
	h.pagar(t, id, "1000.00")

	_, err := h.eventoSvc.Completar(context.Background(), id, dto.CompletarEventoRequest{})
	var pf *ledger.PreconditionFailedError
	assert.ErrorAs(t, err, &pf)
}

func TestCompletar_EstadoIncorrecto(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "0", model.EventoCotizacion)

	_, err := h.eventoSvc.Completar(context.Background(), id, dto.CompletarEventoRequest{})
	var is *ledger.InvalidStateError
	assert.ErrorAs(t, err, &is)
}

func TestCompletar_EsDefinitivo(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "500.00", model.EventoConfirmado)
	h.aprobar(t, h.pagar(t, id, "500.00").Pago.ID)

	res, err := h.eventoSvc.Completar(context.Background(), id, dto.CompletarEventoRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.EventoCompletado, res.Estado)
	require.NotNil(t, res.CompletadoAt)
	assert.Equal(t, model.NotifEventoCompletado, h.notif.enviadas[len(h.notif.enviadas)-1].tipo)

	_, err = h.eventoSvc.CambiarEstado(context.Background(), id, dto.CambiarEstadoRequest{Estado: model.EventoEnProceso})
	var is *ledger.InvalidStateError
	assert.ErrorAs(t, err, &is)
	_, err = h.eventoSvc.Completar(context.Background(), id, dto.CompletarEventoRequest{})
	assert.ErrorAs(t, err, &is)
	_, err = h.eventoSvc.ActualizarTotal(context.Background(), id, dto.ActualizarTotalRequest{Total: d("900")})
	assert.ErrorAs(t, err, &is)
}

func TestCompletar_PagoConcurrenteProvocaConflicto(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "0", model.EventoConfirmado)
	svc := h.eventoSvc.(*eventoService)

	// A payment lands between reading the ledger and saving the completion.
	svc.now = func() time.Time {
		h.pagar(t, id, "50.00")
		return relojFijo()
	}
	_, err := h.eventoSvc.Completar(context.Background(), id, dto.CompletarEventoRequest{})
	var is *ledger.InvalidStateError
	require.ErrorAs(t, err, &is)

	e, _ := h.eventos.FindByID(context.Background(), id)
	assert.Equal(t, model.EventoConfirmado, e.Estado)
}

func TestCompletar_DeclaracionDanosInvalida(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "0", model.EventoConfirmado)

	_, err := h.eventoSvc.Completar(context.Background(), id, dto.CompletarEventoRequest{
		Danos: &dto.DanosRequest{Descripcion: "  ", Costo: d("100")},
	})
	var ve *ledger.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "descripcion_danos", ve.Campo)

	e, _ := h.eventos.FindByID(context.Background(), id)
	assert.Equal(t, model.EventoConfirmado, e.Estado, "nothing applied")
}

func TestDanos_PagosParciales(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "0", model.EventoConfirmado)
	h.completarConDanos(t, id, "200.00", true)

	r1, err := h.eventoSvc.RegistrarPagoDanos(context.Background(), id, dto.PagoDanosRequest{Monto: d("150.00"), Metodo: "efectivo"})
	require.NoError(t, err)
	assert.False(t, r1.Danos.DanosPagados)
	assertDec(t, "50.00", r1.Danos.SaldoDanos, "after first")

	r2, err := h.eventoSvc.RegistrarPagoDanos(context.Background(), id, dto.PagoDanosRequest{Monto: d("50.00"), Metodo: "tarjeta"})
	require.NoError(t, err)
	assert.True(t, r2.Danos.DanosPagados)
	assertDec(t, "0", r2.Danos.SaldoDanos, "after second")
	require.NotNil(t, r2.Danos.MetodoPagoDanos)
	assert.Equal(t, "tarjeta", *r2.Danos.MetodoPagoDanos)

	historial, err := h.eventoSvc.ListarPagosDanos(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, historial, 2)

	pagos, _ := h.pagos.ListByEvento(context.Background(), id, "")
	assert.Empty(t, pagos, "damage payments never touch the main ledger")
}

func TestDanos_Rechazos(t *testing.T) {
	h := newHarness()

	sinDanos := h.evento(t, "0", model.EventoConfirmado)
	_, err := h.eventoSvc.RegistrarPagoDanos(context.Background(), sinDanos, dto.PagoDanosRequest{Monto: d("10"), Metodo: "efectivo"})
	var is *ledger.InvalidStateError
	assert.ErrorAs(t, err, &is)

	asumidos := h.evento(t, "0", model.EventoConfirmado)
	h.completarConDanos(t, asumidos, "80.00", false)
	_, err = h.eventoSvc.RegistrarPagoDanos(context.Background(), asumidos, dto.PagoDanosRequest{Monto: d("10"), Metodo: "efectivo"})
	assert.ErrorAs(t, err, &is)

	cobrables := h.evento(t, "0", model.EventoConfirmado)
	h.completarConDanos(t, cobrables, "80.00", true)
	_, err = h.eventoSvc.RegistrarPagoDanos(context.Background(), cobrables, dto.PagoDanosRequest{Monto: d("80.01"), Metodo: "efectivo"})
	var ib *ledger.InsufficientBalanceError
	require.ErrorAs(t, err, &ib)
	assertDec(t, "80.00", ib.Disponible, "damage balance")

	_, err = h.eventoSvc.RegistrarPagoDanos(context.Background(), cobrables, dto.PagoDanosRequest{Monto: d("-5"), Metodo: "efectivo"})
	var ve *ledger.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEliminar_ConCobrosSinReembolsar(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "1000.00", model.EventoConfirmado)
	h.aprobar(t, h.pagar(t, id, "300.00").Pago.ID)

	err := h.eventoSvc.Eliminar(context.Background(), id)
	var pf *ledger.PreconditionFailedError
	require.ErrorAs(t, err, &pf)
	assert.Contains(t, err.Error(), "$300.00")

	err = h.eventoSvc.Eliminar(context.Background(), uuid.New())
	var nf *ledger.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestEliminar_SoloPagosEnRevision(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "1000.00", model.EventoCotizacion)
	h.pagar(t, id, "300.00")
	assert.NoError(t, h.eventoSvc.Eliminar(context.Background(), id))
}

func TestCambiarEstado(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "0", model.EventoCotizacion)

	res, err := h.eventoSvc.CambiarEstado(context.Background(), id, dto.CambiarEstadoRequest{Estado: model.EventoEnProceso})
	require.NoError(t, err)
	assert.Equal(t, model.EventoEnProceso, res.Estado)

	_, err = h.eventoSvc.CambiarEstado(context.Background(), id, dto.CambiarEstadoRequest{Estado: model.EventoConfirmado})
	var is *ledger.InvalidStateError
	assert.ErrorAs(t, err, &is, "no going back")
}

func TestActualizarTotal_SaldoNoNegativo(t *testing.T) {
	h := newHarness()
	id := h.evento(t, "1000.00", model.EventoConfirmado)
	h.aprobar(t, h.pagar(t, id, "800.00").Pago.ID)

	_, err := h.eventoSvc.ActualizarTotal(context.Background(), id, dto.ActualizarTotalRequest{Total: d("500.00")})
	require.NoError(t, err)

	r, err := h.pagoSvc.ResumenFinanciero(context.Background(), id)
	require.NoError(t, err)
	assertDec(t, "0", r.Totales.SaldoPendiente, "floors at zero")
	assert.True(t, r.PuedeCompletar)
}

func TestCrear_SiembraChecklistDelPlan(t *testing.T) {
	h := newHarness()
	h.plantillas.planes["premium"] = []infra.ServicioPlantilla{
		{Nombre: "Banquete", Orden: 1}, {Nombre: "DJ", Orden: 2}, {Nombre: "Decoración", Orden: 3},
	}
	plan := "premium"
	res, err := h.eventoSvc.Crear(context.Background(), dto.CrearEventoRequest{
		Nombre: "Boda Soto", ClienteNombre: "Luis Soto", FechaEvento: relojFijo(), PlanID: &plan, Total: d("25000"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.EventoCotizacion, res.Estado)

	cl, err := h.servicioSvc.Listar(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, err)
	require.Len(t, cl.Servicios, 3)
	assert.Equal(t, "Banquete", cl.Servicios[0].Nombre)
	assert.Equal(t, model.ServicioPlan, cl.Servicios[0].Origen)
}

func TestCrear_CatalogoCaidoNoBloquea(t *testing.T) {
	h := newHarness()
	h.plantillas.err = errors.New("catalogo: unreachable")
	plan := "premium"
	res, err := h.eventoSvc.Crear(context.Background(), dto.CrearEventoRequest{
		Nombre: "Bautizo", ClienteNombre: "Eva", FechaEvento: relojFijo(), PlanID: &plan, Total: d("100"),
	})
	require.NoError(t, err)

	cl, err := h.servicioSvc.Listar(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, err)
	assert.Empty(t, cl.Servicios)
}

func TestMontos_MasDeDosDecimalesSonValidacion(t *testing.T) {
	ctx := context.Background()
	for _, monto := range []string{"0.004", "49.999", "100.005"} {
		h := newHarness()
		id := h.evento(t, "1000.00", model.EventoConfirmado)
		h.aprobar(t, h.pagar(t, id, "300.00").Pago.ID)
		var ve *ledger.ValidationError

		_, err := h.pagoSvc.RegistrarPago(ctx, id, dto.RegistrarPagoRequest{Monto: d(monto), Metodo: "efectivo"})
		assert.ErrorAs(t, err, &ve, "pago %s", monto)

		_, err = h.pagoSvc.ProponerReembolso(ctx, id, dto.ProponerReembolsoRequest{Monto: d(monto), Metodo: "efectivo"})
		assert.ErrorAs(t, err, &ve, "propuesta %s", monto)
		_, err = h.pagoSvc.ConfirmarReembolso(ctx, id, dto.ConfirmarReembolsoRequest{Monto: d(monto), Metodo: "efectivo"})
		assert.ErrorAs(t, err, &ve, "reembolso %s", monto)

		_, err = h.eventoSvc.ActualizarTotal(ctx, id, dto.ActualizarTotalRequest{Total: d(monto)})
		assert.ErrorAs(t, err, &ve, "total %s", monto)

		_, err = h.eventoSvc.Crear(ctx, dto.CrearEventoRequest{
			Nombre: "Boda Vega", ClienteNombre: "Inés Vega", FechaEvento: relojFijo(), Total: d(monto),
		})
		assert.ErrorAs(t, err, &ve, "crear %s", monto)

		pagos, _ := h.pagos.ListByEvento(ctx, id, "")
		assert.Len(t, pagos, 1, "nothing persisted for %s", monto)
		e, _ := h.eventos.FindByID(ctx, id)
		assertDec(t, "1000.00", e.Total, "total untouched")
	}
}

func TestDanos_MontoConMasDeDosDecimales(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	id := h.evento(t, "0", model.EventoConfirmado)

	_, err := h.eventoSvc.Completar(ctx, id, dto.CompletarEventoRequest{
		Danos: &dto.DanosRequest{Descripcion: "Vitral roto", Costo: d("100.005"), CobrarCliente: true},
	})
	var ve *ledger.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "costo_danos", ve.Campo)

	h.completarConDanos(t, id, "200.00", true)
	_, err = h.eventoSvc.RegistrarPagoDanos(ctx, id, dto.PagoDanosRequest{Monto: d("150.00"), Metodo: "efectivo"})
	require.NoError(t, err)
	_, err = h.eventoSvc.RegistrarPagoDanos(ctx, id, dto.PagoDanosRequest{Monto: d("49.999"), Metodo: "efectivo"})
	require.ErrorAs(t, err, &ve)

	// the balance stays payable with an exact amount
	r, err := h.eventoSvc.RegistrarPagoDanos(ctx, id, dto.PagoDanosRequest{Monto: d("50.00"), Metodo: "efectivo"})
	require.NoError(t, err)
	assert.True(t, r.Danos.DanosPagados)
}
