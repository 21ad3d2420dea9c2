package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx ejecuta fn dentro de una transacción GORM cuando hay base, o con
// tx nil cuando no la hay (modo test unitario con repos en memoria).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
