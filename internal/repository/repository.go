package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrConflicto is returned when an optimistic version check or a guarded
// state transition matched no row: another writer got there first.
var ErrConflicto = errors.New("el registro fue modificado por otra operación")

// conn picks the transaction when one is running, the pool otherwise.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
