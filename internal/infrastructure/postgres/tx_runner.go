package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// NewRepos arma los repos sobre q (pool o tx).
func NewRepos(q Querier) ports.Repos {
	return ports.Repos{
		Items:         NewItemRepository(q),
		Movements:     NewMovementRepository(q),
		Batches:       NewBatchRepository(q),
		PurchaseLists: NewPurchaseListRepository(q),
		Suggestions:   NewSuggestionRepository(q),
		Configs:       NewConfigRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La serialización de escrituras sobre un ítem la dan los SELECT ... FOR UPDATE de los repos.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", mapError(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}
