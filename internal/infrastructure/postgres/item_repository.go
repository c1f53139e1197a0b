package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, tenant_id, name, normalized_name, category, kind, base_unit,
	current_stock, avg_cost, last_purchase_price, last_purchase_date,
	reorder_point, manual_reorder_point, lead_time_days, is_perishable, is_active, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.TenantID, &it.Name, &it.NormalizedName, &it.Category, &it.Kind, &it.BaseUnit,
		&it.CurrentStock, &it.AvgCost, &it.LastPurchasePrice, &it.LastPurchaseDate,
		&it.ReorderPoint, &it.ManualReorderPoint, &it.LeadTimeDays, &it.IsPerishable, &it.IsActive,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func collectItems(rows pgx.Rows, err error) ([]*entity.Item, error) {
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Create persiste un ítem nuevo. Un nombre normalizado repetido en el tenant es ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.TenantID, it.Name, it.NormalizedName, it.Category, it.Kind, it.BaseUnit,
		it.CurrentStock, it.AvgCost, it.LastPurchasePrice, it.LastPurchaseDate,
		it.ReorderPoint, it.ManualReorderPoint, it.LeadTimeDays, it.IsPerishable, it.IsActive,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem del tenant.
func (r *ItemRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1 AND id = $2`
	it, err := scanItem(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFound(err, "get item")
	}
	return it, nil
}

// GetForUpdate obtiene el ítem y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	it, err := scanItem(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFound(err, "get item for update")
	}
	return it, nil
}

func (r *ItemRepo) FindByNormalizedName(ctx context.Context, tenantID, normalizedName string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1 AND normalized_name = $2`
	it, err := scanItem(r.q.QueryRow(ctx, query, tenantID, normalizedName))
	if err != nil {
		return nil, notFound(err, "find item by name")
	}
	return it, nil
}

// Update guarda datos descriptivos y de reorden; no toca stock ni costos.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET name = $3, normalized_name = $4, category = $5, kind = $6, base_unit = $7,
			manual_reorder_point = $8, lead_time_days = $9, is_perishable = $10, is_active = $11, updated_at = $12
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, it.TenantID, it.ID, it.Name, it.NormalizedName, it.Category, it.Kind,
		it.BaseUnit, it.ManualReorderPoint, it.LeadTimeDays, it.IsPerishable, it.IsActive, it.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStockAndCost guarda stock y costos; el CHECK de la tabla impide stock negativo.
func (r *ItemRepo) UpdateStockAndCost(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET current_stock = $3, avg_cost = $4, last_purchase_price = $5,
			last_purchase_date = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, it.TenantID, it.ID, it.CurrentStock, it.AvgCost,
		it.LastPurchasePrice, it.LastPurchaseDate, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item stock: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) UpdateReorderPoint(ctx context.Context, tenantID, id string, reorderPoint decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET reorder_point = $3 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, reorderPoint)
	if err != nil {
		return fmt.Errorf("update reorder point: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ítems del tenant ordenados por nombre.
func (r *ItemRepo) List(ctx context.Context, tenantID string, f repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE tenant_id = $1`
	args := []any{tenantID}
	if f.ActiveOnly {
		query += ` AND is_active`
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += ` ORDER BY name, id`
	query, args = pageClause(query, args, f.Limit, f.Offset)
	return collectItems(r.q.Query(ctx, query, args...))
}

func (r *ItemRepo) ListReplenishable(ctx context.Context, tenantID string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE tenant_id = $1 AND is_active AND (manual_reorder_point > 0 OR reorder_point > 0)
		ORDER BY name, id`
	return collectItems(r.q.Query(ctx, query, tenantID))
}

func (r *ItemRepo) ListActiveRawMaterials(ctx context.Context, tenantID string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE tenant_id = $1 AND is_active AND kind IN ('', $2)
		ORDER BY name, id`
	return collectItems(r.q.Query(ctx, query, tenantID, entity.ItemKindRawMaterial))
}
