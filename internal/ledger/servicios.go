package ledger

import (
	"gestoreventos/internal/model"

	"github.com/shopspring/decimal"
)

// Progreso is the completion percentage of the checklist, over non-discarded
// items only. Cancelled events report 0 and completed events 100.
func Progreso(items []model.ServicioEvento, estadoEvento string) int {
	switch estadoEvento {
	case model.EventoCancelado:
		return 0
	case model.EventoCompletado:
		return 100
	}
	total, hechos := 0, 0
	for _, it := range items {
		if it.Descartado {
			continue
		}
		total++
		if it.Completado {
			hechos++
		}
	}
	if total == 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(hechos * 100)).Div(decimal.NewFromInt(int64(total)))
	return int(pct.Round(0).IntPart())
}

// ExigirChecklistEditable refuses checklist edits on terminal events.
func ExigirChecklistEditable(e *model.Evento) error {
	if e.Terminal() {
		return &InvalidStateError{Entidad: "evento", Estado: e.Estado, Motivo: "el checklist de un evento cerrado no se puede modificar"}
	}
	return nil
}
