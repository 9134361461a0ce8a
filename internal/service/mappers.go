package service

import (
	"time"

	"gestoreventos/internal/dto"
	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"

	"github.com/shopspring/decimal"
)

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toTotalesResponse(total decimal.Decimal, t ledger.Totales) dto.TotalesResponse {
	return dto.TotalesResponse{
		Total:              total,
		TotalCobrado:       t.TotalCobrado,
		TotalReembolsos:    t.TotalReembolsos,
		TotalPagado:        t.TotalPagado,
		SaldoPendiente:     t.SaldoPendiente,
		SaldoPorReembolsar: t.SaldoPorReembolsar,
	}
}

func toPagoResponse(p *model.Pago) dto.PagoResponse {
	return dto.PagoResponse{
		ID:                p.ID.String(),
		EventoID:          p.EventoID.String(),
		Monto:             p.Monto,
		Tipo:              p.Tipo,
		Metodo:            p.Metodo,
		Fecha:             p.Fecha.Format(time.RFC3339),
		Referencia:        p.Referencia,
		Nota:              p.Nota,
		Origen:            p.Origen,
		EstadoRevision:    p.EstadoRevision,
		CuentaLiquidacion: p.CuentaLiquidacion,
		MotivoRechazo:     p.MotivoRechazo,
		RevisadoAt:        fmtTime(p.RevisadoAt),
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}

func toDanosResponse(e *model.Evento) dto.DanosResponse {
	return dto.DanosResponse{
		Descripcion:      e.DescripcionDanos,
		CostoDanos:       e.CostoDanos,
		MontoPagadoDanos: e.MontoPagadoDanos,
		SaldoDanos:       ledger.SaldoDanos(e),
		CobrarDanos:      e.CobrarDanos,
		DanosPagados:     e.DanosPagados,
		FechaPagoDanos:   fmtTime(e.FechaPagoDanos),
		MetodoPagoDanos:  e.MetodoPagoDanos,
	}
}

func toEventoResponse(e *model.Evento) *dto.EventoResponse {
	return &dto.EventoResponse{
		ID:            e.ID.String(),
		Nombre:        e.Nombre,
		ClienteNombre: e.ClienteNombre,
		ClienteEmail:  e.ClienteEmail,
		FechaEvento:   e.FechaEvento.Format(time.RFC3339),
		PlanID:        e.PlanID,
		Total:         e.Total,
		Estado:        e.Estado,
		Danos:         toDanosResponse(e),
		CompletadoAt:  fmtTime(e.CompletadoAt),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

func toServicioResponse(s *model.ServicioEvento) dto.ServicioResponse {
	return dto.ServicioResponse{
		ID:         s.ID.String(),
		Nombre:     s.Nombre,
		Completado: s.Completado,
		Descartado: s.Descartado,
		Origen:     s.Origen,
		Orden:      s.Orden,
	}
}

func toPagoDanosResponse(p *model.PagoDanos) dto.PagoDanosResponse {
	return dto.PagoDanosResponse{
		ID:        p.ID.String(),
		Monto:     p.Monto,
		Metodo:    p.Metodo,
		Nota:      p.Nota,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
