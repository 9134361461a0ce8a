package ledger

import (
	"errors"
	"testing"
	"time"

	"gestoreventos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ahora = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

// ── Refund guard ─────────────────────────────────────────────────────────────

func TestValidarReembolso_ExcedeSaldo(t *testing.T) {
	tot := Resumir(dec("1000"), []model.Pago{pago(model.PagoCompleto, model.RevisionAprobado, "1000")})

	err := ValidarReembolso(dec("1200"), tot.SaldoPorReembolsar)

	var ins *InsufficientBalanceError
	require.True(t, errors.As(err, &ins))
	assert.Equal(t, "1000.00", ins.Disponible.StringFixed(2))
	assert.Contains(t, err.Error(), "$1000.00")
}

func TestValidarReembolso(t *testing.T) {
	assert.NoError(t, ValidarReembolso(dec("1000"), dec("1000")))
	assert.NoError(t, ValidarReembolso(dec("0.01"), dec("1000")))

	var v *ValidationError
	assert.True(t, errors.As(ValidarReembolso(decimal.Zero, dec("1000")), &v))
	assert.True(t, errors.As(ValidarReembolso(dec("-1"), dec("1000")), &v))
}

func TestProponer(t *testing.T) {
	id := uuid.New()
	tot := Totales{SaldoPorReembolsar: dec("500")}

	p, err := Proponer(id, dec("200"), "transferencia", tot, ahora)
	require.NoError(t, err)
	assert.Equal(t, id, p.EventoID)
	assert.Equal(t, "500.00", p.SaldoPorReembolsar.StringFixed(2))

	_, err = Proponer(id, dec("501"), "transferencia", tot, ahora)
	var ins *InsufficientBalanceError
	assert.True(t, errors.As(err, &ins))
}

// ── Review state machine ────────────────────────────────────────────────────

func TestAprobar_RequiereCuenta(t *testing.T) {
	p := pago(model.PagoAbono, model.RevisionPendiente, "100")

	err := Aprobar(&p, "  ", nil, ahora)

	var v *ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, model.RevisionPendiente, p.EstadoRevision)
}

func TestAprobar_DosVecesFalla(t *testing.T) {
	p := pago(model.PagoAbono, model.RevisionPendiente, "100")
	revisor := uuid.New()

	require.NoError(t, Aprobar(&p, "cuenta-A", &revisor, ahora))
	assert.Equal(t, model.RevisionAprobado, p.EstadoRevision)
	assert.Equal(t, "cuenta-A", *p.CuentaLiquidacion)
	assert.Equal(t, revisor, *p.RevisadoPor)

	err := Aprobar(&p, "cuenta-B", &revisor, ahora)
	var inv *InvalidStateError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "cuenta-A", *p.CuentaLiquidacion)
}

func TestRechazar_Terminal(t *testing.T) {
	p := pago(model.PagoAbono, model.RevisionPendiente, "100")
	motivo := "comprobante ilegible"

	require.NoError(t, Rechazar(&p, &motivo, nil, ahora))
	assert.Equal(t, model.RevisionRechazado, p.EstadoRevision)

	var inv *InvalidStateError
	assert.True(t, errors.As(Rechazar(&p, nil, nil, ahora), &inv))
	assert.True(t, errors.As(Aprobar(&p, "cuenta-A", nil, ahora), &inv))
}

func TestRechazar_NoCambiaTotales(t *testing.T) {
	pagos := []model.Pago{
		pago(model.PagoAbono, model.RevisionAprobado, "300"),
		pago(model.PagoReembolso, model.RevisionAprobado, "100"),
		pago(model.PagoAbono, model.RevisionPendiente, "450"),
		pago(model.PagoReembolso, model.RevisionPendiente, "80"),
	}
	antes := Resumir(dec("1000"), pagos)

	require.NoError(t, Rechazar(&pagos[2], nil, nil, ahora))
	require.NoError(t, Rechazar(&pagos[3], nil, nil, ahora))

	assertMismosTotales(t, antes, Resumir(dec("1000"), pagos))
}

// ── Damage sub-ledger ───────────────────────────────────────────────────────

func eventoConDanos(costo string, cobrar bool) *model.Evento {
	e := &model.Evento{Estado: model.EventoCompletado}
	_ = DeclararDanos(e, DeclaracionDanos{Descripcion: "mantel quemado", Costo: dec(costo), CobrarCliente: cobrar})
	return e
}

func TestAplicarPagoDanos_Escenario(t *testing.T) {
	e := eventoConDanos("200.00", true)

	require.NoError(t, AplicarPagoDanos(e, dec("150.00"), "efectivo", ahora))
	assert.False(t, e.DanosPagados)
	assert.Equal(t, "50.00", SaldoDanos(e).StringFixed(2))

	require.NoError(t, AplicarPagoDanos(e, dec("50.00"), "transferencia", ahora))
	assert.True(t, e.DanosPagados)
	assert.True(t, SaldoDanos(e).IsZero())
	assert.Equal(t, "transferencia", *e.MetodoPagoDanos)
}

func TestAplicarPagoDanos_Rechazos(t *testing.T) {
	var v *ValidationError
	var inv *InvalidStateError
	var ins *InsufficientBalanceError

	e := eventoConDanos("200", true)
	assert.True(t, errors.As(AplicarPagoDanos(e, decimal.Zero, "efectivo", ahora), &v))
	assert.True(t, errors.As(AplicarPagoDanos(e, dec("-10"), "efectivo", ahora), &v))
	assert.True(t, errors.As(AplicarPagoDanos(e, dec("200.01"), "efectivo", ahora), &ins))
	assert.True(t, e.MontoPagadoDanos.IsZero())

	asumidos := eventoConDanos("200", false)
	assert.True(t, errors.As(AplicarPagoDanos(asumidos, dec("10"), "efectivo", ahora), &inv))

	sinDanos := &model.Evento{Estado: model.EventoCompletado}
	assert.True(t, errors.As(AplicarPagoDanos(sinDanos, dec("10"), "efectivo", ahora), &inv))

	require.NoError(t, AplicarPagoDanos(e, dec("200"), "efectivo", ahora))
	assert.True(t, errors.As(AplicarPagoDanos(e, dec("1"), "efectivo", ahora), &inv))
}

func TestAplicarPagoDanos_NuncaAntesDeCubrirCosto(t *testing.T) {
	e := eventoConDanos("100", true)
	for i := 0; i < 9; i++ {
		require.NoError(t, AplicarPagoDanos(e, dec("11.11"), "efectivo", ahora))
		assert.False(t, e.DanosPagados)
	}
	require.NoError(t, AplicarPagoDanos(e, dec("0.01"), "efectivo", ahora))
	assert.True(t, e.DanosPagados)
}

func TestDeclararDanos_DescripcionObligatoria(t *testing.T) {
	e := &model.Evento{}
	var v *ValidationError

	assert.True(t, errors.As(DeclararDanos(e, DeclaracionDanos{Costo: dec("10")}), &v))
	assert.Equal(t, "descripcion_danos", v.Campo)
	assert.True(t, errors.As(DeclararDanos(e, DeclaracionDanos{Descripcion: "x"}), &v))
	assert.Equal(t, "costo_danos", v.Campo)
}

// ── Lifecycle gate ──────────────────────────────────────────────────────────

func TestPuedeCompletar_Escenario(t *testing.T) {
	e := &model.Evento{Total: dec("1000.00"), Estado: model.EventoConfirmado}

	tot := Resumir(e.Total, nil)
	var pre *PreconditionFailedError
	assert.True(t, errors.As(PuedeCompletar(e, tot), &pre))

	p := model.Pago{Monto: dec("1000.00"), EstadoRevision: model.RevisionPendiente}
	p.Tipo = Clasificar(p.Monto, tot.SaldoPendiente)
	assert.Equal(t, model.PagoCompleto, p.Tipo)
	require.NoError(t, Aprobar(&p, "cuenta-A", nil, ahora))

	tot = Resumir(e.Total, []model.Pago{p})
	assert.Equal(t, "1000.00", tot.TotalPagado.StringFixed(2))
	assert.True(t, tot.SaldoPendiente.IsZero())
	assert.NoError(t, PuedeCompletar(e, tot))
}

func TestPuedeCompletar_Estados(t *testing.T) {
	saldado := Totales{}
	var inv *InvalidStateError
	for _, estado := range []string{model.EventoCotizacion, model.EventoCompletado, model.EventoCancelado} {
		e := &model.Evento{Estado: estado}
		assert.True(t, errors.As(PuedeCompletar(e, saldado), &inv), estado)
	}
	assert.NoError(t, PuedeCompletar(&model.Evento{Estado: model.EventoEnProceso}, saldado))
}

func TestPuedeEliminar(t *testing.T) {
	var pre *PreconditionFailedError
	cobrado := []model.Pago{pago(model.PagoAbono, model.RevisionAprobado, "1000")}
	assert.True(t, errors.As(PuedeEliminar(Resumir(dec("1000"), cobrado)), &pre))

	parcial := append(cobrado, pago(model.PagoReembolso, model.RevisionAprobado, "500"))
	assert.True(t, errors.As(PuedeEliminar(Resumir(dec("1000"), parcial)), &pre))

	total := append(cobrado, pago(model.PagoReembolso, model.RevisionAprobado, "1000"))
	assert.NoError(t, PuedeEliminar(Resumir(dec("1000"), total)))
	assert.NoError(t, PuedeEliminar(Resumir(dec("1000"), nil)))
}

func TestValidarTransicion(t *testing.T) {
	assert.NoError(t, ValidarTransicion(model.EventoCotizacion, model.EventoConfirmado))
	assert.NoError(t, ValidarTransicion(model.EventoCotizacion, model.EventoEnProceso))
	assert.NoError(t, ValidarTransicion(model.EventoEnProceso, model.EventoCancelado))

	var inv *InvalidStateError
	var v *ValidationError
	assert.True(t, errors.As(ValidarTransicion(model.EventoEnProceso, model.EventoConfirmado), &inv))
	assert.True(t, errors.As(ValidarTransicion(model.EventoConfirmado, model.EventoCompletado), &inv))
	assert.True(t, errors.As(ValidarTransicion(model.EventoCancelado, model.EventoConfirmado), &inv))
	assert.True(t, errors.As(ValidarTransicion(model.EventoCompletado, model.EventoCancelado), &inv))
	assert.True(t, errors.As(ValidarTransicion(model.EventoConfirmado, "archivado"), &v))
}

func TestExigirLedgerAbierto(t *testing.T) {
	var inv *InvalidStateError
	cancelado := &model.Evento{Estado: model.EventoCancelado}
	completado := &model.Evento{Estado: model.EventoCompletado}

	assert.True(t, errors.As(ExigirLedgerAbierto(cancelado, false), &inv))
	assert.NoError(t, ExigirLedgerAbierto(cancelado, true))
	assert.True(t, errors.As(ExigirLedgerAbierto(completado, true), &inv))
	assert.NoError(t, ExigirLedgerAbierto(&model.Evento{Estado: model.EventoConfirmado}, false))
}

// ── Checklist progress ──────────────────────────────────────────────────────

func TestProgreso(t *testing.T) {
	items := []model.ServicioEvento{
		{Completado: true},
		{Completado: false},
		{Completado: true, Descartado: true},
		{Completado: false, Descartado: true},
		{Completado: true},
	}
	assert.Equal(t, 67, Progreso(items, model.EventoEnProceso))
	assert.Equal(t, 0, Progreso(items, model.EventoCancelado))
	assert.Equal(t, 100, Progreso(items, model.EventoCompletado))
	assert.Equal(t, 0, Progreso(nil, model.EventoConfirmado))
	assert.Equal(t, 0, Progreso([]model.ServicioEvento{{Descartado: true, Completado: true}}, model.EventoConfirmado))
}

func TestExigirChecklistEditable(t *testing.T) {
	var inv *InvalidStateError
	assert.True(t, errors.As(ExigirChecklistEditable(&model.Evento{Estado: model.EventoCompletado}), &inv))
	assert.True(t, errors.As(ExigirChecklistEditable(&model.Evento{Estado: model.EventoCancelado}), &inv))
	assert.NoError(t, ExigirChecklistEditable(&model.Evento{Estado: model.EventoConfirmado}))
}
