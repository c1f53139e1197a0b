package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type configRepo struct{ with access }

var _ repository.ReplenishmentConfigRepository = (*configRepo)(nil)

func (r *configRepo) Get(_ context.Context, tenantID string) (*entity.ReplenishmentConfig, error) {
	var out *entity.ReplenishmentConfig
	err := r.with(func(st *state) error {
		c, ok := st.configs[tenantID]
		if !ok {
			return domain.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *configRepo) Upsert(_ context.Context, cfg *entity.ReplenishmentConfig) error {
	return r.with(func(st *state) error {
		st.configs[cfg.TenantID] = *cfg
		return nil
	})
}
