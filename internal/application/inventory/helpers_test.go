package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/alert"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var scope = entity.Scope{TenantID: "tenant-1", UserID: "user-1"}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal { x := d(s); return &x }

// recordingPublisher guarda las alertas publicadas.
type recordingPublisher struct {
	mu     sync.Mutex
	alerts []entity.Alert
}

func (p *recordingPublisher) Publish(_ context.Context, a entity.Alert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, a)
	return nil
}

func (p *recordingPublisher) all() []entity.Alert {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.Alert(nil), p.alerts...)
}

// stepClock avanza un segundo en cada lectura para que el historial tenga orden estable.
func stepClock(start time.Time) ports.Clock {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
	items  *inventory.ItemUseCase
	batch  *inventory.BatchUseCase
	pub    *recordingPublisher
	now    ports.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	pub := &recordingPublisher{}
	clock := stepClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	emitter := alert.NewEmitter(store.Repos(), pub, nil, logger.Nop(), clock)
	return &fixture{
		store:  store,
		ledger: inventory.NewLedgerUseCase(store, store.Repos(), emitter, logger.Nop(), inventory.WithClock(clock)),
		items:  inventory.NewItemUseCase(store.Repos(), inventory.WithClock(clock)),
		batch:  inventory.NewBatchUseCase(store.Repos(), inventory.WithClock(clock)),
		pub:    pub,
		now:    clock,
	}
}

func (f *fixture) newItem(t *testing.T, name string, manualReorder *decimal.Decimal) *entity.Item {
	t.Helper()
	it, err := f.items.Create(context.Background(), scope, inventory.CreateItemInput{
		Name:               name,
		BaseUnit:           "KG",
		ManualReorderPoint: manualReorder,
		LeadTimeDays:       2,
	})
	require.NoError(t, err)
	return it
}

func (f *fixture) record(t *testing.T, in inventory.MovementInput) *entity.Movement {
	t.Helper()
	m, err := f.ledger.RecordMovement(context.Background(), scope, in)
	require.NoError(t, err)
	return m
}

func (f *fixture) item(t *testing.T, id string) *entity.Item {
	t.Helper()
	it, err := f.items.Get(context.Background(), scope, id)
	require.NoError(t, err)
	return it
}

func repositoryFilterAll() repository.ItemFilter { return repository.ItemFilter{} }
