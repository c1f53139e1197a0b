package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ReplenishmentConfigRepository define el puerto para la política de reposición por tenant.
type ReplenishmentConfigRepository interface {
	// Get devuelve domain.ErrNotFound si el tenant nunca guardó configuración.
	Get(ctx context.Context, tenantID string) (*entity.ReplenishmentConfig, error)
	Upsert(ctx context.Context, cfg *entity.ReplenishmentConfig) error
}
