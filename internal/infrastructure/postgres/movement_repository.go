package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, tenant_id, item_id, type, direction, quantity, unit, cost_per_unit, total_cost,
	stock_before, stock_after, COALESCE(batch_id, ''), supplier_id, reference_type, reference_id, notes,
	user_id, occurred_at, created_at`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.TenantID, &m.ItemID, &m.Type, &m.Direction, &m.Quantity, &m.Unit,
		&m.CostPerUnit, &m.TotalCost, &m.StockBefore, &m.StockAfter, &m.BatchID, &m.SupplierID,
		&m.ReferenceType, &m.ReferenceID, &m.Notes, &m.UserID, &m.OccurredAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMovements(rows pgx.Rows, err error) ([]*entity.Movement, error) {
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create persiste un movimiento del ledger.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (id, tenant_id, item_id, type, direction, quantity, unit, cost_per_unit,
			total_cost, stock_before, stock_after, batch_id, supplier_id, reference_type, reference_id, notes,
			user_id, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, m.ItemID, m.Type, m.Direction, m.Quantity, m.Unit, m.CostPerUnit,
		m.TotalCost, m.StockBefore, m.StockAfter, nullIfEmpty(m.BatchID), m.SupplierID, m.ReferenceType,
		m.ReferenceID, m.Notes, m.UserID, m.OccurredAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", mapError(err))
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE tenant_id = $1 AND id = $2`
	m, err := scanMovement(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFound(err, "get movement")
	}
	return m, nil
}

// ListByItem lista movimientos de un ítem en un rango de fechas, el último registrado primero.
// Ordena por seq y no por occurred_at para que stock_before/stock_after encadenen aunque haya fechas retroactivas.
func (r *MovementRepo) ListByItem(ctx context.Context, tenantID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE tenant_id = $1 AND item_id = $2`
	args := []any{tenantID, itemID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}
	query += ` ORDER BY seq DESC`
	query, args = pageClause(query, args, limit, offset)
	return collectMovements(r.q.Query(ctx, query, args...))
}

func (r *MovementRepo) ListByReference(ctx context.Context, tenantID, referenceType, referenceID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE tenant_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY seq`
	return collectMovements(r.q.Query(ctx, query, tenantID, referenceType, referenceID))
}

// SumConsumptionByItem suma las salidas OUT y PRODUCTION desde since, por ítem.
func (r *MovementRepo) SumConsumptionByItem(ctx context.Context, tenantID string, since time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT item_id, SUM(quantity)
		FROM inventory_movements
		WHERE tenant_id = $1 AND direction = $2 AND type IN ($3, $4) AND occurred_at >= $5
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, tenantID, entity.DirectionOut,
		entity.MovementTypeOUT, entity.MovementTypePRODUCTION, since)
	if err != nil {
		return nil, fmt.Errorf("sum consumption: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var itemID string
		var total decimal.Decimal
		if err := rows.Scan(&itemID, &total); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		out[itemID] = total
	}
	return out, rows.Err()
}
