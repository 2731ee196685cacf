package postgres

import (
	"context"

	"github.com/go-pg/pg/v10"
)

type txKey struct{}

// TxManager runs functions inside a go-pg transaction. The *pg.Tx travels in
// the context so repositories called with that context join it.
type TxManager struct {
	db *pg.DB
}

func NewTxManager(db *pg.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Nested calls
// reuse the outer transaction.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*pg.Tx); ok {
		return fn(ctx)
	}
	return m.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *pg.DB) pg.DBI {
	if tx, ok := ctx.Value(txKey{}).(*pg.Tx); ok {
		return tx
	}
	return db
}
