package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.PurchaseListRepository = (*PurchaseListRepo)(nil)

const (
	listColumns     = `id, tenant_id, name, description, trigger_type, status, created_by, created_at, updated_at`
	listItemColumns = `id, list_id, tenant_id, item_id, product_name, unit, reorder_point, current_stock,
		suggested_quantity, confirmed_quantity, status, confirmed_by, confirmed_at, created_at, updated_at`
)

// PurchaseListRepo listas de compras y sus ítems sobre PostgreSQL.
type PurchaseListRepo struct {
	q Querier
}

func NewPurchaseListRepository(q Querier) *PurchaseListRepo {
	return &PurchaseListRepo{q: q}
}

func scanList(row pgx.Row) (*entity.PurchaseList, error) {
	var l entity.PurchaseList
	if err := row.Scan(&l.ID, &l.TenantID, &l.Name, &l.Description, &l.TriggerType, &l.Status,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListItem(row pgx.Row) (*entity.PurchaseListItem, error) {
	var it entity.PurchaseListItem
	if err := row.Scan(&it.ID, &it.ListID, &it.TenantID, &it.ItemID, &it.ProductName, &it.Unit,
		&it.ReorderPoint, &it.CurrentStock, &it.SuggestedQuantity, &it.ConfirmedQuantity, &it.Status,
		&it.ConfirmedBy, &it.ConfirmedAt, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserta cabecera e ítems en un solo round-trip (pgx.Batch); position conserva el orden.
func (r *PurchaseListRepo) Create(ctx context.Context, l *entity.PurchaseList) error {
	b := &pgx.Batch{}
	b.Queue(`INSERT INTO purchase_lists (`+listColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.TenantID, l.Name, l.Description, l.TriggerType, l.Status, l.CreatedBy, l.CreatedAt, l.UpdatedAt)
	for i, it := range l.Items {
		b.Queue(`INSERT INTO purchase_list_items (`+listItemColumns+`, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			it.ID, it.ListID, it.TenantID, it.ItemID, it.ProductName, it.Unit, it.ReorderPoint, it.CurrentStock,
			it.SuggestedQuantity, it.ConfirmedQuantity, it.Status, it.ConfirmedBy, it.ConfirmedAt,
			it.CreatedAt, it.UpdatedAt, i)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("create purchase list: %w", mapError(err))
	}
	return nil
}

func (r *PurchaseListRepo) load(ctx context.Context, tenantID, id string, lock bool) (*entity.PurchaseList, error) {
	query := `SELECT ` + listColumns + ` FROM purchase_lists WHERE tenant_id = $1 AND id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	l, err := scanList(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFound(err, "get purchase list")
	}
	rows, err := r.q.Query(ctx, `SELECT `+listItemColumns+` FROM purchase_list_items
		WHERE list_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase list items: %w", err)
	}
	defer rows.Close()
	l.Items = make([]*entity.PurchaseListItem, 0)
	for rows.Next() {
		it, err := scanListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase list item: %w", err)
		}
		l.Items = append(l.Items, it)
	}
	return l, rows.Err()
}

func (r *PurchaseListRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseList, error) {
	return r.load(ctx, tenantID, id, false)
}

// GetForUpdate bloquea la cabecera; los ítems quedan serializados por ese bloqueo.
func (r *PurchaseListRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseList, error) {
	return r.load(ctx, tenantID, id, true)
}

func (r *PurchaseListRepo) List(ctx context.Context, tenantID string, f repository.PurchaseListFilter) ([]*entity.PurchaseList, error) {
	query := `SELECT ` + listColumns + ` FROM purchase_lists WHERE tenant_id = $1`
	args := []any{tenantID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	query, args = pageClause(query, args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase lists: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.PurchaseList, 0)
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase list: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PurchaseListRepo) GetItem(ctx context.Context, tenantID, itemID string) (*entity.PurchaseListItem, error) {
	query := `SELECT ` + listItemColumns + ` FROM purchase_list_items WHERE tenant_id = $1 AND id = $2`
	it, err := scanListItem(r.q.QueryRow(ctx, query, tenantID, itemID))
	if err != nil {
		return nil, notFound(err, "get purchase list item")
	}
	return it, nil
}

func (r *PurchaseListRepo) UpdateItem(ctx context.Context, it *entity.PurchaseListItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_list_items SET confirmed_quantity = $3, status = $4, confirmed_by = $5,
			confirmed_at = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`,
		it.TenantID, it.ID, it.ConfirmedQuantity, it.Status, it.ConfirmedBy, it.ConfirmedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase list item: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseListRepo) UpdateStatus(ctx context.Context, l *entity.PurchaseList) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_lists SET status = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`,
		l.TenantID, l.ID, l.Status, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase list: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
