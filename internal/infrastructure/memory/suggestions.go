package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type suggestionRepo struct{ with access }

var _ repository.SuggestionRepository = (*suggestionRepo)(nil)

func (r *suggestionRepo) DeletePending(_ context.Context, tenantID string) error {
	return r.with(func(st *state) error {
		kept := st.suggestions[:0:0]
		for _, s := range st.suggestions {
			if s.TenantID == tenantID && s.Pending() {
				continue
			}
			kept = append(kept, s)
		}
		st.suggestions = kept
		return nil
	})
}

func (r *suggestionRepo) CreateMany(_ context.Context, suggestions []*entity.PurchaseSuggestion) error {
	return r.with(func(st *state) error {
		for _, s := range suggestions {
			st.suggestions = append(st.suggestions, *s)
		}
		return nil
	})
}

// List más recientes primero; dentro de una misma generación se respeta el orden de inserción.
func (r *suggestionRepo) List(_ context.Context, tenantID string, pendingOnly bool) ([]*entity.PurchaseSuggestion, error) {
	out := make([]*entity.PurchaseSuggestion, 0)
	err := r.with(func(st *state) error {
		for _, s := range st.suggestions {
			if s.TenantID != tenantID || (pendingOnly && !s.Pending()) {
				continue
			}
			out = append(out, &s)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *suggestionRepo) GetForUpdate(_ context.Context, tenantID, id string) (*entity.PurchaseSuggestion, error) {
	var out *entity.PurchaseSuggestion
	err := r.with(func(st *state) error {
		for _, s := range st.suggestions {
			if s.ID == id && s.TenantID == tenantID {
				out = &s
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *suggestionRepo) UpdateDecision(_ context.Context, s *entity.PurchaseSuggestion) error {
	return r.with(func(st *state) error {
		for i := range st.suggestions {
			cur := &st.suggestions[i]
			if cur.ID == s.ID && cur.TenantID == s.TenantID {
				cur.IsAccepted = s.IsAccepted
				cur.DecidedBy = s.DecidedBy
				cur.DecidedAt = s.DecidedAt
				return nil
			}
		}
		return domain.ErrNotFound
	})
}
