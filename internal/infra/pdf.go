package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"

	"github.com/go-pdf/fpdf"
)

var etiquetaTipo = map[string]string{
	model.PagoAbono:     "Abono",
	model.PagoCompleto:  "Pago completo",
	model.PagoReembolso: "Reembolso",
}

// GenerarReciboPDF writes a half-letter receipt for an approved pago and
// returns its path: storagePath/recibo_{pago_id}.pdf. The balance block
// reflects the totals after the pago was applied.
func GenerarReciboPDF(negocio string, evento *model.Evento, pago *model.Pago, t ledger.Totales, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("recibo_%s.pdf", pago.ID))

	pdf := fpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	ancho := pageW - 24
	linea := func() {
		pdf.Ln(2)
		pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
		pdf.Ln(3)
	}
	fila := func(etiqueta, valor string, negrita bool) {
		estilo := ""
		if negrita {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 9)
		pdf.CellFormat(ancho*0.6, 6, tr(etiqueta), "", 0, "L", false, 0, "")
		pdf.CellFormat(ancho*0.4, 6, tr(valor), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(ancho, 8, tr(negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	titulo := "Recibo de pago"
	if pago.Tipo == model.PagoReembolso {
		titulo = "Comprobante de reembolso"
	}
	pdf.CellFormat(ancho, 5, tr(titulo), "", 1, "C", false, 0, "")
	linea()

	fila("Evento", evento.Nombre, false)
	fila("Cliente", evento.ClienteNombre, false)
	fila("Fecha del evento", evento.FechaEvento.Format("02/01/2006"), false)
	linea()

	fila("Folio", strings.ToUpper(pago.ID.String()[:8]), false)
	fila("Fecha", pago.Fecha.Format("02/01/2006 15:04"), false)
	fila("Concepto", etiquetaTipo[pago.Tipo], false)
	fila("Método", pago.Metodo, false)
	if pago.Referencia != nil && *pago.Referencia != "" {
		fila("Referencia", *pago.Referencia, false)
	}
	fila("Monto", moneda(pago.Monto.StringFixed(2)), true)
	linea()

	fila("Total del evento", moneda(evento.Total.StringFixed(2)), false)
	fila("Total pagado", moneda(t.TotalPagado.StringFixed(2)), false)
	fila("Saldo pendiente", moneda(t.SaldoPendiente.StringFixed(2)), true)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(ancho, 4, tr("Gracias por su preferencia"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func moneda(s string) string { return "$" + s }
