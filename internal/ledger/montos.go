package ledger

import "github.com/shopspring/decimal"

// Amounts are stored as DECIMAL(12,2).
var montoMaximo = decimal.New(1, 10)

// ValidarMonto rejects amounts the money columns cannot hold exactly: more
// than two decimals, negatives, or ten integer digits. positivo also rejects
// zero. Rules must run on the same value that gets persisted.
func ValidarMonto(campo string, monto decimal.Decimal, positivo bool) error {
	if !monto.Equal(monto.Round(2)) {
		return invalido(campo, "admite como máximo 2 decimales")
	}
	if monto.IsNegative() {
		return invalido(campo, "no puede ser negativo")
	}
	if positivo && monto.IsZero() {
		return invalido(campo, "debe ser mayor a cero")
	}
	if monto.GreaterThanOrEqual(montoMaximo) {
		return invalido(campo, "excede el máximo admitido")
	}
	return nil
}
