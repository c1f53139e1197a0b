package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ReplenishmentConfigRepository = (*ConfigRepo)(nil)

// ConfigRepo política de reposición por tenant (una fila por tenant).
type ConfigRepo struct {
	q Querier
}

func NewConfigRepository(q Querier) *ConfigRepo {
	return &ConfigRepo{q: q}
}

func (r *ConfigRepo) Get(ctx context.Context, tenantID string) (*entity.ReplenishmentConfig, error) {
	var c entity.ReplenishmentConfig
	err := r.q.QueryRow(ctx, `
		SELECT tenant_id, post_inventory_enabled, critical_stock_enabled, critical_stock_percentage,
			schedule_enabled, schedule_frequency, schedule_weekday, schedule_month_day,
			consumption_window_days, safety_factor, cover_days, confidence, updated_by, updated_at
		FROM replenishment_configs WHERE tenant_id = $1`, tenantID).Scan(
		&c.TenantID, &c.PostInventoryEnabled, &c.CriticalStockEnabled, &c.CriticalStockPercentage,
		&c.ScheduleEnabled, &c.ScheduleFrequency, &c.ScheduleWeekday, &c.ScheduleMonthDay,
		&c.ConsumptionWindowDays, &c.SafetyFactor, &c.CoverDays, &c.Confidence, &c.UpdatedBy, &c.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "get replenishment config")
	}
	return &c, nil
}

// Upsert inserta o reemplaza la política del tenant.
func (r *ConfigRepo) Upsert(ctx context.Context, c *entity.ReplenishmentConfig) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO replenishment_configs (tenant_id, post_inventory_enabled, critical_stock_enabled,
			critical_stock_percentage, schedule_enabled, schedule_frequency, schedule_weekday, schedule_month_day,
			consumption_window_days, safety_factor, cover_days, confidence, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (tenant_id) DO UPDATE SET
			post_inventory_enabled = EXCLUDED.post_inventory_enabled,
			critical_stock_enabled = EXCLUDED.critical_stock_enabled,
			critical_stock_percentage = EXCLUDED.critical_stock_percentage,
			schedule_enabled = EXCLUDED.schedule_enabled,
			schedule_frequency = EXCLUDED.schedule_frequency,
			schedule_weekday = EXCLUDED.schedule_weekday,
			schedule_month_day = EXCLUDED.schedule_month_day,
			consumption_window_days = EXCLUDED.consumption_window_days,
			safety_factor = EXCLUDED.safety_factor,
			cover_days = EXCLUDED.cover_days,
			confidence = EXCLUDED.confidence,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`,
		c.TenantID, c.PostInventoryEnabled, c.CriticalStockEnabled, c.CriticalStockPercentage,
		c.ScheduleEnabled, c.ScheduleFrequency, c.ScheduleWeekday, c.ScheduleMonthDay,
		c.ConsumptionWindowDays, c.SafetyFactor, c.CoverDays, c.Confidence, c.UpdatedBy, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert replenishment config: %w", err)
	}
	return nil
}
