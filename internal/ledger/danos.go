package ledger

import (
	"time"

	"gestoreventos/internal/model"

	"github.com/shopspring/decimal"
)

// DeclaracionDanos is the optional damage report supplied at completion.
type DeclaracionDanos struct {
	Descripcion   string
	Costo         decimal.Decimal
	CobrarCliente bool
}

// SaldoDanos is what the client still owes for damages.
func SaldoDanos(e *model.Evento) decimal.Decimal {
	return noNegativo(e.CostoDanos.Sub(e.MontoPagadoDanos))
}

// ValidarDeclaracion requires a description and a positive cost.
func ValidarDeclaracion(d DeclaracionDanos) error {
	if d.Descripcion == "" {
		return invalido("descripcion_danos", "es obligatoria al declarar daños")
	}
	if err := ValidarMonto("costo_danos", d.Costo, true); err != nil {
		return err
	}
	return nil
}

// DeclararDanos stores the damage declaration on the event.
func DeclararDanos(e *model.Evento, d DeclaracionDanos) error {
	if err := ValidarDeclaracion(d); err != nil {
		return err
	}
	desc := d.Descripcion
	e.DescripcionDanos = &desc
	e.CostoDanos = d.Costo
	e.MontoPagadoDanos = decimal.Zero
	e.CobrarDanos = d.CobrarCliente
	e.DanosPagados = false
	return nil
}

// AplicarPagoDanos accrues a damage payment. danos_pagados flips once the
// accumulated amount reaches the cost (>=, to avoid rounding deadlock).
func AplicarPagoDanos(e *model.Evento, monto decimal.Decimal, metodo string, now time.Time) error {
	if err := ValidarMonto("monto", monto, true); err != nil {
		return err
	}
	if !e.CostoDanos.IsPositive() {
		return &InvalidStateError{Entidad: "evento", Estado: e.Estado, Motivo: "no tiene daños declarados"}
	}
	if !e.CobrarDanos {
		return &InvalidStateError{Entidad: "evento", Estado: e.Estado, Motivo: "los daños fueron asumidos por el negocio y no se cobran al cliente"}
	}
	saldo := SaldoDanos(e)
	if e.DanosPagados || !saldo.IsPositive() {
		return &InvalidStateError{Entidad: "evento", Estado: e.Estado, Motivo: "los daños ya están pagados"}
	}
	if monto.GreaterThan(saldo) {
		return &InsufficientBalanceError{Concepto: "el pago de daños", Solicitado: monto, Disponible: saldo}
	}
	e.MontoPagadoDanos = e.MontoPagadoDanos.Add(monto)
	e.FechaPagoDanos = &now
	e.MetodoPagoDanos = &metodo
	if e.MontoPagadoDanos.GreaterThanOrEqual(e.CostoDanos) {
		e.DanosPagados = true
	}
	return nil
}
