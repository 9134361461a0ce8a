package service

import (
	"context"
	"errors"

	"gestoreventos/internal/ledger"
	"gestoreventos/internal/model"
	"gestoreventos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Notificador hands a client notification to the async pipeline. It is called
// after commit; its failure never undoes the ledger write.
type Notificador interface {
	Notificar(ctx context.Context, tipo string, eventoID uuid.UUID, pagoID *uuid.UUID) error
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func notificar(ctx context.Context, n Notificador, tipo string, eventoID uuid.UUID, pagoID *uuid.UUID) {
	if n == nil {
		return
	}
	if err := n.Notificar(ctx, tipo, eventoID, pagoID); err != nil {
		ev := log.Warn().Err(err).Str("tipo", tipo).Str("evento_id", eventoID.String())
		if pagoID != nil {
			ev = ev.Str("pago_id", pagoID.String())
		}
		ev.Msg("notificacion no encolada")
	}
}

// traducir maps repository sentinels to ledger errors the HTTP layer knows.
func traducir(entidad string, id uuid.UUID, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &ledger.NotFoundError{Entidad: entidad, ID: id.String()}
	case errors.Is(err, repository.ErrConflicto):
		return &ledger.InvalidStateError{
			Entidad: entidad,
			Estado:  "modificado",
			Motivo:  "otra operación lo modificó al mismo tiempo, intente de nuevo",
		}
	}
	return err
}

// cargarEvento loads the event and every pago of it, the input of all ledger
// decisions. Totals are never read from storage.
func cargarEvento(ctx context.Context, eventos repository.EventoRepository, pagos repository.PagoRepository, id uuid.UUID) (*model.Evento, []model.Pago, error) {
	e, err := eventos.FindByID(ctx, id)
	if err != nil {
		return nil, nil, traducir("evento", id, err)
	}
	ps, err := pagos.ListByEvento(ctx, id, "")
	if err != nil {
		return nil, nil, err
	}
	return e, ps, nil
}
