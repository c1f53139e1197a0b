package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SuggestionRepository = (*SuggestionRepo)(nil)

const suggestionColumns = `id, tenant_id, item_id, item_name, current_stock, avg_daily_consumption,
	suggested_quantity, reorder_point, lead_time_days, priority, estimated_runout_date, confidence,
	is_accepted, decided_by, decided_at, created_at`

// SuggestionRepo sugerencias de compra sobre PostgreSQL.
type SuggestionRepo struct {
	q Querier
}

func NewSuggestionRepository(q Querier) *SuggestionRepo {
	return &SuggestionRepo{q: q}
}

func scanSuggestion(row pgx.Row) (*entity.PurchaseSuggestion, error) {
	var s entity.PurchaseSuggestion
	if err := row.Scan(&s.ID, &s.TenantID, &s.ItemID, &s.ItemName, &s.CurrentStock, &s.AvgDailyConsumption,
		&s.SuggestedQuantity, &s.ReorderPoint, &s.LeadTimeDays, &s.Priority, &s.EstimatedRunoutDate,
		&s.Confidence, &s.IsAccepted, &s.DecidedBy, &s.DecidedAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SuggestionRepo) DeletePending(ctx context.Context, tenantID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_suggestions WHERE tenant_id = $1 AND is_accepted IS NULL`, tenantID); err != nil {
		return fmt.Errorf("delete pending suggestions: %w", err)
	}
	return nil
}

func (r *SuggestionRepo) CreateMany(ctx context.Context, suggestions []*entity.PurchaseSuggestion) error {
	b := &pgx.Batch{}
	for i, s := range suggestions {
		b.Queue(`INSERT INTO purchase_suggestions (`+suggestionColumns+`, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			s.ID, s.TenantID, s.ItemID, s.ItemName, s.CurrentStock, s.AvgDailyConsumption,
			s.SuggestedQuantity, s.ReorderPoint, s.LeadTimeDays, s.Priority, s.EstimatedRunoutDate,
			s.Confidence, s.IsAccepted, s.DecidedBy, s.DecidedAt, s.CreatedAt, i)
	}
	if err := r.q.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("create suggestions: %w", mapError(err))
	}
	return nil
}

// List más recientes primero; dentro de una misma generación, en el orden de prioridad con que se guardaron.
func (r *SuggestionRepo) List(ctx context.Context, tenantID string, pendingOnly bool) ([]*entity.PurchaseSuggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM purchase_suggestions WHERE tenant_id = $1`
	if pendingOnly {
		query += ` AND is_accepted IS NULL`
	}
	query += ` ORDER BY created_at DESC, position`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.PurchaseSuggestion, 0)
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SuggestionRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseSuggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM purchase_suggestions WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	s, err := scanSuggestion(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, notFound(err, "get suggestion")
	}
	return s, nil
}

func (r *SuggestionRepo) UpdateDecision(ctx context.Context, s *entity.PurchaseSuggestion) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_suggestions SET is_accepted = $3, decided_by = $4, decided_at = $5
		WHERE tenant_id = $1 AND id = $2`,
		s.TenantID, s.ID, s.IsAccepted, s.DecidedBy, s.DecidedAt)
	if err != nil {
		return fmt.Errorf("update suggestion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
