package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a unit of work inside a single database transaction.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// Repositories used inside fn must be bound to tx with WithTx.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
