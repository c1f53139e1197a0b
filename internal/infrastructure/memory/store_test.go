package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func newItem(id, tenant, name string) *entity.Item {
	return &entity.Item{ID: id, TenantID: tenant, Name: name, NormalizedName: name, IsActive: true}
}

func TestStore_RollbackDescartaCambios(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Repos().Items.Create(ctx, newItem("i1", "t1", "harina")))

	boom := errors.New("boom")
	err := s.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		it, err := r.Items.GetForUpdate(ctx, "t1", "i1")
		require.NoError(t, err)
		it.CurrentStock = decimal.NewFromInt(10)
		require.NoError(t, r.Items.UpdateStockAndCost(ctx, it))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	it, err := s.Repos().Items.GetByID(ctx, "t1", "i1")
	require.NoError(t, err)
	assert.True(t, it.CurrentStock.IsZero())
}

func TestStore_CommitYContextoCancelado(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Repos().Items.Create(ctx, newItem("i1", "t1", "harina")))

	require.NoError(t, s.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		return r.Items.UpdateReorderPoint(ctx, "t1", "i1", decimal.NewFromInt(5))
	}))

	cctx, cancel := context.WithCancel(ctx)
	err := s.Run(cctx, func(ctx context.Context, r ports.Repos) error {
		cancel()
		return r.Items.UpdateReorderPoint(ctx, "t1", "i1", decimal.NewFromInt(99))
	})
	assert.ErrorIs(t, err, context.Canceled)

	it, err := s.Repos().Items.GetByID(ctx, "t1", "i1")
	require.NoError(t, err)
	assert.True(t, it.ReorderPoint.Equal(decimal.NewFromInt(5)))
}

func TestItems_AisladosPorTenant(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	repos := s.Repos()
	require.NoError(t, repos.Items.Create(ctx, newItem("i1", "t1", "harina")))

	_, err := repos.Items.GetByID(ctx, "t2", "i1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repos.Items.Create(ctx, newItem("i2", "t1", "harina"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	require.NoError(t, repos.Items.Create(ctx, newItem("i3", "t2", "harina")))

	list, err := repos.Items.List(ctx, "t1", repository.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBatches_ListExpiringOrdenado(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	repos := s.Repos()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	at := func(d int) *time.Time { x := now.AddDate(0, 0, d); return &x }

	mk := func(id string, exp *time.Time, remaining int64) *entity.Batch {
		return &entity.Batch{ID: id, TenantID: "t1", ItemID: "i1", Quantity: decimal.NewFromInt(10),
			RemainingQty: decimal.NewFromInt(remaining), ExpirationDate: exp, ReceivedAt: now}
	}
	require.NoError(t, repos.Batches.Create(ctx, mk("b3", at(3), 5)))
	require.NoError(t, repos.Batches.Create(ctx, mk("b1", at(1), 5)))
	require.NoError(t, repos.Batches.Create(ctx, mk("gone", at(1), 0)))
	require.NoError(t, repos.Batches.Create(ctx, mk("far", at(30), 5)))
	require.NoError(t, repos.Batches.Create(ctx, mk("none", nil, 5)))

	got, err := repos.Batches.ListExpiring(ctx, "t1", now.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "b3", got[1].ID)

	b := got[0]
	b.RemainingQty = decimal.NewFromInt(11)
	assert.Error(t, repos.Batches.UpdateRemaining(ctx, b))
}

func TestMovements_SumConsumptionSoloSalidas(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	repos := s.Repos()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	add := func(typ, dir string, qty int64, at time.Time) {
		require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{
			ID: typ + dir + at.String(), TenantID: "t1", ItemID: "i1", Type: typ, Direction: dir,
			Quantity: decimal.NewFromInt(qty), OccurredAt: at,
		}))
	}
	add(entity.MovementTypeOUT, entity.DirectionOut, 4, now)
	add(entity.MovementTypePRODUCTION, entity.DirectionOut, 6, now)
	add(entity.MovementTypePRODUCTION, entity.DirectionIn, 100, now)
	add(entity.MovementTypeWASTE, entity.DirectionOut, 50, now)
	add(entity.MovementTypeIN, entity.DirectionIn, 70, now)
	add(entity.MovementTypeOUT, entity.DirectionOut, 9, now.AddDate(0, 0, -40))

	sums, err := repos.Movements.SumConsumptionByItem(ctx, "t1", now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.True(t, sums["i1"].Equal(decimal.NewFromInt(10)), "got %s", sums["i1"])
}
