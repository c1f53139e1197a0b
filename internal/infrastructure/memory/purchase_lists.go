package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type purchaseListRepo struct{ with access }

var _ repository.PurchaseListRepository = (*purchaseListRepo)(nil)

func (r *purchaseListRepo) Create(_ context.Context, list *entity.PurchaseList) error {
	return r.with(func(st *state) error {
		if _, ok := st.lists[list.ID]; ok {
			return domain.ErrDuplicate
		}
		header := *list
		header.Items = nil
		st.lists[list.ID] = header
		order := make([]string, 0, len(list.Items))
		for _, it := range list.Items {
			st.listItems[it.ID] = *it
			order = append(order, it.ID)
		}
		st.listOrder[list.ID] = order
		return nil
	})
}

func (r *purchaseListRepo) load(tenantID, id string) (*entity.PurchaseList, error) {
	var out *entity.PurchaseList
	err := r.with(func(st *state) error {
		l, ok := st.lists[id]
		if !ok || l.TenantID != tenantID {
			return domain.ErrNotFound
		}
		l.Items = make([]*entity.PurchaseListItem, 0, len(st.listOrder[id]))
		for _, itemID := range st.listOrder[id] {
			it := st.listItems[itemID]
			l.Items = append(l.Items, &it)
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *purchaseListRepo) GetByID(_ context.Context, tenantID, id string) (*entity.PurchaseList, error) {
	return r.load(tenantID, id)
}

func (r *purchaseListRepo) GetForUpdate(_ context.Context, tenantID, id string) (*entity.PurchaseList, error) {
	return r.load(tenantID, id)
}

func (r *purchaseListRepo) List(_ context.Context, tenantID string, f repository.PurchaseListFilter) ([]*entity.PurchaseList, error) {
	out := make([]*entity.PurchaseList, 0)
	err := r.with(func(st *state) error {
		for _, l := range st.lists {
			if l.TenantID != tenantID || (f.Status != "" && l.Status != f.Status) {
				continue
			}
			out = append(out, &l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *purchaseListRepo) GetItem(_ context.Context, tenantID, itemID string) (*entity.PurchaseListItem, error) {
	var out *entity.PurchaseListItem
	err := r.with(func(st *state) error {
		it, ok := st.listItems[itemID]
		if !ok || it.TenantID != tenantID {
			return domain.ErrNotFound
		}
		out = &it
		return nil
	})
	return out, err
}

func (r *purchaseListRepo) UpdateItem(_ context.Context, item *entity.PurchaseListItem) error {
	return r.with(func(st *state) error {
		cur, ok := st.listItems[item.ID]
		if !ok || cur.TenantID != item.TenantID {
			return domain.ErrNotFound
		}
		cur.ConfirmedQuantity = item.ConfirmedQuantity
		cur.Status = item.Status
		cur.ConfirmedBy = item.ConfirmedBy
		cur.ConfirmedAt = item.ConfirmedAt
		cur.UpdatedAt = item.UpdatedAt
		st.listItems[item.ID] = cur
		return nil
	})
}

func (r *purchaseListRepo) UpdateStatus(_ context.Context, list *entity.PurchaseList) error {
	return r.with(func(st *state) error {
		cur, ok := st.lists[list.ID]
		if !ok || cur.TenantID != list.TenantID {
			return domain.ErrNotFound
		}
		cur.Status = list.Status
		cur.UpdatedAt = list.UpdatedAt
		st.lists[list.ID] = cur
		return nil
	})
}
