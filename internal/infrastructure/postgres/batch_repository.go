package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, tenant_id, item_id, batch_number, quantity, remaining_qty, cost_per_unit,
	expiration_date, received_at, created_at, updated_at`

// BatchRepo lotes sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.TenantID, &b.ItemID, &b.BatchNumber, &b.Quantity, &b.RemainingQty,
		&b.CostPerUnit, &b.ExpirationDate, &b.ReceivedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", mapError(err))
	}
	defer rows.Close()
	out := make([]*entity.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `INSERT INTO batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, b.ID, b.TenantID, b.ItemID, b.BatchNumber, b.Quantity, b.RemainingQty,
		b.CostPerUnit, b.ExpirationDate, b.ReceivedAt, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create batch: %w", mapError(err))
	}
	return nil
}

// GetForUpdate obtiene el lote y bloquea la fila.
func (r *BatchRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFound(err, "get batch for update")
	}
	return b, nil
}

// ListOpenByItemForUpdate bloquea los lotes con saldo del ítem en orden estable.
func (r *BatchRepo) ListOpenByItemForUpdate(ctx context.Context, tenantID, itemID string) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches
		WHERE tenant_id = $1 AND item_id = $2 AND remaining_qty > 0
		ORDER BY received_at, id
		FOR UPDATE`, tenantID, itemID)
}

// UpdateRemaining guarda el saldo; el CHECK de la tabla lo mantiene entre 0 y quantity.
func (r *BatchRepo) UpdateRemaining(ctx context.Context, b *entity.Batch) error {
	tag, err := r.q.Exec(ctx, `UPDATE batches SET remaining_qty = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`,
		b.TenantID, b.ID, b.RemainingQty, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update batch: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) ListByItem(ctx context.Context, tenantID, itemID string) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches
		WHERE tenant_id = $1 AND item_id = $2
		ORDER BY received_at, id`, tenantID, itemID)
}

func (r *BatchRepo) ListExpiring(ctx context.Context, tenantID string, until time.Time) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches
		WHERE tenant_id = $1 AND remaining_qty > 0 AND expiration_date IS NOT NULL AND expiration_date <= $2
		ORDER BY expiration_date, received_at`, tenantID, until)
}
