package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type movementRepo struct{ with access }

var _ repository.MovementRepository = (*movementRepo)(nil)

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.with(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.with(func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id && m.TenantID == tenantID {
				out = &m
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

// ListByItem en orden inverso de registro en el ledger; occurred_at solo filtra.
func (r *movementRepo) ListByItem(_ context.Context, tenantID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0)
	err := r.with(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.TenantID != tenantID || m.ItemID != itemID {
				continue
			}
			if from != nil && m.OccurredAt.Before(*from) {
				continue
			}
			if to != nil && m.OccurredAt.After(*to) {
				continue
			}
			out = append(out, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paginate(out, limit, offset), nil
}

func (r *movementRepo) ListByReference(_ context.Context, tenantID, referenceType, referenceID string) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0)
	err := r.with(func(st *state) error {
		for _, m := range st.movements {
			if m.TenantID == tenantID && m.ReferenceType == referenceType && m.ReferenceID == referenceID {
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r *movementRepo) SumConsumptionByItem(_ context.Context, tenantID string, since time.Time) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	err := r.with(func(st *state) error {
		for _, m := range st.movements {
			if m.TenantID != tenantID || m.Direction != entity.DirectionOut || m.OccurredAt.Before(since) {
				continue
			}
			if m.Type != entity.MovementTypeOUT && m.Type != entity.MovementTypePRODUCTION {
				continue
			}
			out[m.ItemID] = out[m.ItemID].Add(m.Quantity)
		}
		return nil
	})
	return out, err
}
