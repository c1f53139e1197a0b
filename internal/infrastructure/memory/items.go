package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type itemRepo struct{ with access }

var _ repository.ItemRepository = (*itemRepo)(nil)

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.with(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, it := range st.items {
			if it.TenantID == item.TenantID && it.NormalizedName == item.NormalizedName {
				return domain.ErrDuplicate
			}
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepo) get(tenantID, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.with(func(st *state) error {
		it, ok := st.items[id]
		if !ok || it.TenantID != tenantID {
			return domain.ErrNotFound
		}
		out = &it
		return nil
	})
	return out, err
}

func (r *itemRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Item, error) {
	return r.get(tenantID, id)
}

func (r *itemRepo) GetForUpdate(_ context.Context, tenantID, id string) (*entity.Item, error) {
	return r.get(tenantID, id)
}

func (r *itemRepo) FindByNormalizedName(_ context.Context, tenantID, normalizedName string) (*entity.Item, error) {
	var out *entity.Item
	err := r.with(func(st *state) error {
		for _, it := range st.items {
			if it.TenantID == tenantID && it.NormalizedName == normalizedName {
				out = &it
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *itemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.with(func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok || cur.TenantID != item.TenantID {
			return domain.ErrNotFound
		}
		cur.Name = item.Name
		cur.NormalizedName = item.NormalizedName
		cur.Category = item.Category
		cur.Kind = item.Kind
		cur.BaseUnit = item.BaseUnit
		cur.ManualReorderPoint = item.ManualReorderPoint
		cur.LeadTimeDays = item.LeadTimeDays
		cur.IsPerishable = item.IsPerishable
		cur.IsActive = item.IsActive
		cur.UpdatedAt = item.UpdatedAt
		st.items[item.ID] = cur
		return nil
	})
}

func (r *itemRepo) UpdateStockAndCost(_ context.Context, item *entity.Item) error {
	return r.with(func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok || cur.TenantID != item.TenantID {
			return domain.ErrNotFound
		}
		if item.CurrentStock.IsNegative() {
			return domain.ErrInsufficientStock
		}
		cur.CurrentStock = item.CurrentStock
		cur.AvgCost = item.AvgCost
		cur.LastPurchasePrice = item.LastPurchasePrice
		cur.LastPurchaseDate = item.LastPurchaseDate
		cur.UpdatedAt = item.UpdatedAt
		st.items[item.ID] = cur
		return nil
	})
}

func (r *itemRepo) UpdateReorderPoint(_ context.Context, tenantID, id string, reorderPoint decimal.Decimal) error {
	return r.with(func(st *state) error {
		cur, ok := st.items[id]
		if !ok || cur.TenantID != tenantID {
			return domain.ErrNotFound
		}
		cur.ReorderPoint = reorderPoint
		st.items[id] = cur
		return nil
	})
}

func (r *itemRepo) filter(tenantID string, keep func(entity.Item) bool) ([]*entity.Item, error) {
	out := make([]*entity.Item, 0)
	err := r.with(func(st *state) error {
		for _, it := range st.items {
			if it.TenantID == tenantID && keep(it) {
				out = append(out, &it)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *itemRepo) List(_ context.Context, tenantID string, f repository.ItemFilter) ([]*entity.Item, error) {
	out, err := r.filter(tenantID, func(it entity.Item) bool {
		if f.ActiveOnly && !it.IsActive {
			return false
		}
		if f.Category != "" && it.Category != f.Category {
			return false
		}
		return f.Kind == "" || it.Kind == f.Kind
	})
	if err != nil {
		return nil, err
	}
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *itemRepo) ListReplenishable(_ context.Context, tenantID string) ([]*entity.Item, error) {
	return r.filter(tenantID, func(it entity.Item) bool {
		if !it.IsActive {
			return false
		}
		manual := it.ManualReorderPoint != nil && it.ManualReorderPoint.GreaterThan(decimal.Zero)
		return manual || it.ReorderPoint.GreaterThan(decimal.Zero)
	})
}

func (r *itemRepo) ListActiveRawMaterials(_ context.Context, tenantID string) ([]*entity.Item, error) {
	return r.filter(tenantID, func(it entity.Item) bool {
		return it.IsActive && it.IsRawMaterial()
	})
}
