package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

type batchRepo struct{ with access }

var _ repository.BatchRepository = (*batchRepo)(nil)

func (r *batchRepo) Create(_ context.Context, b *entity.Batch) error {
	return r.with(func(st *state) error {
		if _, ok := st.batches[b.ID]; ok {
			return domain.ErrDuplicate
		}
		st.batches[b.ID] = *b
		return nil
	})
}

func (r *batchRepo) GetForUpdate(_ context.Context, tenantID, id string) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.with(func(st *state) error {
		b, ok := st.batches[id]
		if !ok || b.TenantID != tenantID {
			return domain.ErrNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *batchRepo) collect(keep func(entity.Batch) bool) ([]*entity.Batch, error) {
	out := make([]*entity.Batch, 0)
	err := r.with(func(st *state) error {
		for _, b := range st.batches {
			if keep(b) {
				out = append(out, &b)
			}
		}
		return nil
	})
	return out, err
}

func (r *batchRepo) ListOpenByItemForUpdate(_ context.Context, tenantID, itemID string) ([]*entity.Batch, error) {
	out, err := r.collect(func(b entity.Batch) bool {
		return b.TenantID == tenantID && b.ItemID == itemID && b.RemainingQty.GreaterThan(decimal.Zero)
	})
	sortByReceipt(out)
	return out, err
}

func (r *batchRepo) UpdateRemaining(_ context.Context, b *entity.Batch) error {
	return r.with(func(st *state) error {
		cur, ok := st.batches[b.ID]
		if !ok || cur.TenantID != b.TenantID {
			return domain.ErrNotFound
		}
		if b.RemainingQty.IsNegative() || b.RemainingQty.GreaterThan(cur.Quantity) {
			return fmt.Errorf("%w: saldo de lote fuera de rango", domain.ErrInvalidMovement)
		}
		cur.RemainingQty = b.RemainingQty
		cur.UpdatedAt = b.UpdatedAt
		st.batches[b.ID] = cur
		return nil
	})
}

func (r *batchRepo) ListByItem(_ context.Context, tenantID, itemID string) ([]*entity.Batch, error) {
	out, err := r.collect(func(b entity.Batch) bool {
		return b.TenantID == tenantID && b.ItemID == itemID
	})
	sortByReceipt(out)
	return out, err
}

func (r *batchRepo) ListExpiring(_ context.Context, tenantID string, until time.Time) ([]*entity.Batch, error) {
	out, err := r.collect(func(b entity.Batch) bool {
		return b.TenantID == tenantID && b.RemainingQty.GreaterThan(decimal.Zero) &&
			b.ExpirationDate != nil && !b.ExpirationDate.After(until)
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpirationDate.Equal(*out[j].ExpirationDate) {
			return out[i].ExpirationDate.Before(*out[j].ExpirationDate)
		}
		return out[i].ReceivedAt.Before(out[j].ReceivedAt)
	})
	return out, err
}

func sortByReceipt(bs []*entity.Batch) {
	sort.Slice(bs, func(i, j int) bool {
		if !bs[i].ReceivedAt.Equal(bs[j].ReceivedAt) {
			return bs[i].ReceivedAt.Before(bs[j].ReceivedAt)
		}
		return bs[i].ID < bs[j].ID
	})
}
