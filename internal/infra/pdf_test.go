package infra

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerarReciboPDF(t *testing.T) {
	ref := "SPEI-0042"
	evento := &model.Evento{
		ID:            uuid.New(),
		Nombre:        "Boda García–Núñez",
		ClienteNombre: "María García",
		FechaEvento:   time.Date(2026, 11, 21, 0, 0, 0, 0, time.UTC),
		Total:         decimal.NewFromInt(1000),
	}
	pago := &model.Pago{
		ID:             uuid.New(),
		EventoID:       evento.ID,
		Monto:          decimal.NewFromInt(400),
		Tipo:           model.PagoAbono,
		Metodo:         "transferencia",
		Fecha:          time.Date(2026, 10, 1, 10, 30, 0, 0, time.UTC),
		Referencia:     &ref,
		EstadoRevision: model.RevisionAprobado,
	}
	totales := ledger.Resumir(evento.Total, []model.Pago{*pago})

	dir := filepath.Join(t.TempDir(), "recibos")
	path, err := GenerarReciboPDF("Salón Jardín", evento, pago, totales, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "recibo_"+pago.ID.String()+".pdf"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")), "output should be a PDF document")
}
