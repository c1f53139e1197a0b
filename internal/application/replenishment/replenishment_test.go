package replenishment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/alert"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/replenishment"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var scope = entity.Scope{TenantID: "tenant-1", UserID: "buyer-1"}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal { x := d(s); return &x }

type clock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func (c *clock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = t
}

type fixture struct {
	clock  *clock
	ledger *inventory.LedgerUseCase
	items  *inventory.ItemUseCase
	uc     *replenishment.UseCase
}

func newFixture(t *testing.T, opts ...replenishment.Option) *fixture {
	t.Helper()
	store := memory.New()
	c := &clock{cur: time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)} // lunes
	emitter := alert.NewEmitter(store.Repos(), nil, nil, logger.Nop(), c.now)
	ledger := inventory.NewLedgerUseCase(store, store.Repos(), emitter, logger.Nop(), inventory.WithClock(c.now))
	opts = append([]replenishment.Option{replenishment.WithClock(c.now)}, opts...)
	return &fixture{
		clock:  c,
		ledger: ledger,
		items:  inventory.NewItemUseCase(store.Repos(), inventory.WithClock(c.now)),
		uc:     replenishment.NewUseCase(store, store.Repos(), ledger, lock.NewKeyedLocker(), logger.Nop(), opts...),
	}
}

func (f *fixture) item(t *testing.T, name string, stock string, manual *decimal.Decimal, lead int) *entity.Item {
	t.Helper()
	it, err := f.items.Create(context.Background(), scope, inventory.CreateItemInput{
		Name: name, BaseUnit: "KG", ManualReorderPoint: manual, LeadTimeDays: lead,
	})
	require.NoError(t, err)
	if q := d(stock); q.IsPositive() {
		_, err = f.ledger.RecordMovement(context.Background(), scope, inventory.MovementInput{
			ItemID: it.ID, Type: entity.MovementTypeIN, Quantity: q, CostPerUnit: dp("2"),
		})
		require.NoError(t, err)
	}
	got, err := f.items.Get(context.Background(), scope, it.ID)
	require.NoError(t, err)
	return got
}

// ──────────────────────────────────────────────────────────────────────────────
// Lista por punto de reorden
// ──────────────────────────────────────────────────────────────────────────────

func TestGeneratePurchaseList_UmbralYOrden(t *testing.T) {
	f := newFixture(t)
	a := f.item(t, "Harina", "5", dp("20"), 2) // falta 15
	b := f.item(t, "Azúcar", "8", dp("10"), 2) // falta 2
	f.item(t, "Sal", "10", dp("10"), 2)        // justo en el punto: no entra
	f.item(t, "Pimienta", "0", nil, 2)         // sin punto de reorden
	f.item(t, "Aceite", "50", dp("10"), 2)     // sobra

	list, err := f.uc.GeneratePurchaseList(context.Background(), scope, entity.TriggerManual, "semanal")
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Equal(t, entity.ListStatusPending, list.Status)
	assert.Equal(t, entity.TriggerManual, list.TriggerType)
	assert.Equal(t, scope.UserID, list.CreatedBy)
	require.Len(t, list.Items, 2)

	first, second := list.Items[0], list.Items[1]
	assert.Equal(t, a.ID, first.ItemID)
	assert.True(t, first.SuggestedQuantity.Equal(d("15")))
	assert.True(t, first.ReorderPoint.Equal(d("20")))
	assert.True(t, first.CurrentStock.Equal(d("5")))
	assert.Equal(t, "Harina", first.ProductName)
	assert.Equal(t, "KG", first.Unit)
	assert.Equal(t, b.ID, second.ItemID)
	assert.True(t, second.SuggestedQuantity.Equal(d("2")))

	stored, err := f.uc.GetPurchaseList(context.Background(), scope, list.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestGeneratePurchaseList_NadaQueComprarDevuelveNil(t *testing.T) {
	f := newFixture(t)
	f.item(t, "Sal", "30", dp("10"), 2)

	list, err := f.uc.GeneratePurchaseList(context.Background(), scope, "", "")
	require.NoError(t, err)
	assert.Nil(t, list)

	lists, err := f.uc.ListPurchaseLists(context.Background(), scope, repository.PurchaseListFilter{})
	require.NoError(t, err)
	assert.Empty(t, lists)

	_, err = f.uc.GeneratePurchaseList(context.Background(), scope, "CADA_HORA", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida: 2 ítems pendientes → EM_ANDAMENTO → CONCLUIDA
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirmItemArrival_CicloDeVida(t *testing.T) {
	f := newFixture(t)
	a := f.item(t, "Harina", "5", dp("20"), 2)
	f.item(t, "Azúcar", "8", dp("10"), 2)

	list, err := f.uc.GeneratePurchaseList(context.Background(), scope, entity.TriggerManual, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	res, err := f.uc.ConfirmItemArrival(context.Background(), scope, list.Items[0].ID, d("15"), dp("3"))
	require.NoError(t, err)
	assert.Equal(t, entity.ListItemArrived, res.Item.Status)
	assert.Equal(t, entity.ListStatusInProgress, res.List.Status)
	assert.Equal(t, entity.MovementTypeIN, res.Movement.Type)
	assert.Equal(t, entity.ReferencePurchaseList, res.Movement.ReferenceType)
	assert.Equal(t, list.ID, res.Movement.ReferenceID)
	assert.True(t, res.Movement.Quantity.Equal(d("15")))

	harina, err := f.items.Get(context.Background(), scope, a.ID)
	require.NoError(t, err)
	assert.True(t, harina.CurrentStock.Equal(d("20")))
	assert.True(t, harina.LastPurchasePrice.Equal(d("3")))
	// (5×2 + 15×3) / 20
	assert.True(t, harina.AvgCost.Equal(d("2.75")), "avg %s", harina.AvgCost)

	res, err = f.uc.ConfirmItemArrival(context.Background(), scope, list.Items[1].ID, d("2"), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.ListStatusCompleted, res.List.Status)

	stored, err := f.uc.GetPurchaseList(context.Background(), scope, list.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ListStatusCompleted, stored.Status)
}

func TestConfirmItemArrival_ParcialAcumulaYNoSeRepite(t *testing.T) {
	f := newFixture(t)
	a := f.item(t, "Harina", "0", dp("10"), 2)
	list, err := f.uc.GeneratePurchaseList(context.Background(), scope, entity.TriggerManual, "")
	require.NoError(t, err)
	lineID := list.Items[0].ID

	res, err := f.uc.ConfirmItemArrival(context.Background(), scope, lineID, d("4"), dp("2"))
	require.NoError(t, err)
	assert.Equal(t, entity.ListItemPartial, res.Item.Status)
	// sin ítems PENDENTE la lista queda concluida aunque haya parciales
	assert.Equal(t, entity.ListStatusCompleted, res.List.Status)

	res, err = f.uc.ConfirmItemArrival(context.Background(), scope, lineID, d("6"), dp("2"))
	require.NoError(t, err)
	assert.Equal(t, entity.ListItemArrived, res.Item.Status)
	assert.True(t, res.Item.ConfirmedQuantity.Equal(d("10")))

	_, err = f.uc.ConfirmItemArrival(context.Background(), scope, lineID, d("1"), nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)

	// exactamente un IN por confirmación
	movs, err := f.ledger.ListMovements(context.Background(), scope, a.ID, nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 2)
	got, err := f.items.Get(context.Background(), scope, a.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(d("10")))

	_, err = f.uc.ConfirmItemArrival(context.Background(), scope, lineID, decimal.Zero, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.ConfirmItemArrival(context.Background(), scope, "no-existe", d("1"), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelItem(t *testing.T) {
	f := newFixture(t)
	f.item(t, "Harina", "0", dp("10"), 2)
	f.item(t, "Azúcar", "0", dp("5"), 2)
	list, err := f.uc.GeneratePurchaseList(context.Background(), scope, entity.TriggerManual, "")
	require.NoError(t, err)

	got, err := f.uc.CancelItem(context.Background(), scope, list.Items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ListStatusInProgress, got.Status)

	_, err = f.uc.ConfirmItemArrival(context.Background(), scope, list.Items[1].ID, d("1"), nil)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.ConfirmItemArrival(context.Background(), scope, list.Items[0].ID, d("10"), nil)
	require.NoError(t, err)
	_, err = f.uc.CancelItem(context.Background(), scope, list.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := f.uc.GetPurchaseList(context.Background(), scope, list.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ListStatusCompleted, stored.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sugerencias por velocidad de consumo
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateSuggestions_PrioridadYReemplazo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// 325 entran, 300 salen en la ventana → 10/día, stock 25
	a := f.item(t, "Harina", "325", nil, 3)
	_, err := f.ledger.RecordMovement(ctx, scope, inventory.MovementInput{ItemID: a.ID, Type: entity.MovementTypeOUT, Quantity: d("200")})
	require.NoError(t, err)
	_, err = f.ledger.RecordMovement(ctx, scope, inventory.MovementInput{ItemID: a.ID, Type: entity.MovementTypePRODUCTION, Direction: entity.DirectionOut, Quantity: d("100")})
	require.NoError(t, err)
	// merma no cuenta como consumo
	b := f.item(t, "Leche", "50", nil, 3)
	_, err = f.ledger.RecordMovement(ctx, scope, inventory.MovementInput{ItemID: b.ID, Type: entity.MovementTypeWASTE, Quantity: d("45")})
	require.NoError(t, err)

	got, err := f.uc.GenerateSuggestions(ctx, scope)
	require.NoError(t, err)
	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, a.ID, s.ItemID)
	assert.True(t, s.AvgDailyConsumption.Equal(d("10")))
	assert.True(t, s.SuggestedQuantity.Equal(d("45")))
	assert.Equal(t, entity.PriorityHigh, s.Priority)
	assert.True(t, s.Confidence.Equal(d("0.8")))
	assert.True(t, s.Pending())

	harina, err := f.items.Get(ctx, scope, a.ID)
	require.NoError(t, err)
	assert.True(t, harina.ReorderPoint.Equal(d("36")), "reorder %s", harina.ReorderPoint)

	// decidir y regenerar: la aceptada se conserva, la pendiente se reemplaza
	_, err = f.uc.DecideSuggestion(ctx, scope, s.ID, true)
	require.NoError(t, err)
	_, err = f.uc.DecideSuggestion(ctx, scope, s.ID, false)
	assert.ErrorIs(t, err, domain.ErrConflict)

	again, err := f.uc.GenerateSuggestions(ctx, scope)
	require.NoError(t, err)
	require.Len(t, again, 1)
	again, err = f.uc.GenerateSuggestions(ctx, scope)
	require.NoError(t, err)
	require.Len(t, again, 1)

	all, err := f.uc.ListSuggestions(ctx, scope, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	pending, err := f.uc.ListSuggestions(ctx, scope, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, again[0].ID, pending[0].ID)
}

func TestGenerateSuggestions_ParametrosDelTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.item(t, "Harina", "325", nil, 3)
	_, err := f.ledger.RecordMovement(ctx, scope, inventory.MovementInput{ItemID: a.ID, Type: entity.MovementTypeOUT, Quantity: d("300")})
	require.NoError(t, err)

	cover, window := 14, 30
	_, err = f.uc.UpdateConfig(ctx, scope, replenishment.ConfigInput{
		CoverDays: &cover, ConsumptionWindowDays: &window, SafetyFactor: dp("1"), Confidence: dp("0.5"),
	})
	require.NoError(t, err)

	got, err := f.uc.GenerateSuggestions(ctx, scope)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].SuggestedQuantity.Equal(d("115")))
	assert.True(t, got[0].ReorderPoint.Equal(d("30")))
	assert.True(t, got[0].Confidence.Equal(d("0.5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración y disparadores
// ──────────────────────────────────────────────────────────────────────────────

func TestConfig_DefaultsYValidacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cfg, err := f.uc.GetConfig(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.ConsumptionWindowDays)
	assert.Equal(t, 7, cfg.CoverDays)
	assert.True(t, cfg.SafetyFactor.Equal(d("1.2")))
	assert.False(t, cfg.PostInventoryEnabled)

	bad := 9
	_, err = f.uc.UpdateConfig(ctx, scope, replenishment.ConfigInput{ScheduleWeekday: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.UpdateConfig(ctx, scope, replenishment.ConfigInput{CriticalStockPercentage: dp("120")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	freq := "DAILY"
	_, err = f.uc.UpdateConfig(ctx, scope, replenishment.ConfigInput{ScheduleFrequency: &freq})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	on := true
	saved, err := f.uc.UpdateConfig(ctx, scope, replenishment.ConfigInput{PostInventoryEnabled: &on})
	require.NoError(t, err)
	assert.Equal(t, scope.UserID, saved.UpdatedBy)

	cfg, err = f.uc.GetConfig(ctx, scope)
	require.NoError(t, err)
	assert.True(t, cfg.PostInventoryEnabled)
}

func TestOnInventoryCounted_RespetaToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.item(t, "Harina", "0", dp("10"), 2)

	list, err := f.uc.OnInventoryCounted(ctx, scope)
	require.NoError(t, err)
	assert.Nil(t, list)

	on := true
	_, err = f.uc.UpdateConfig(ctx, scope, replenishment.ConfigInput{PostInventoryEnabled: &on})
	require.NoError(t, err)
	list, err = f.uc.OnInventoryCounted(ctx, scope)
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Equal(t, entity.TriggerPostInventory, list.TriggerType)
}

func TestRunTriggers_CriticoYProgramado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.item(t, "Harina", "4", dp("10"), 2)

	on := true
	weekday := int(time.Monday)
	_, err := f.uc.UpdateConfig(ctx, scope, replenishment.ConfigInput{
		CriticalStockEnabled: &on, CriticalStockPercentage: dp("50"),
		ScheduleEnabled: &on, ScheduleWeekday: &weekday,
	})
	require.NoError(t, err)

	lists, err := f.uc.RunTriggers(ctx, scope)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, entity.TriggerCriticalStock, lists[0].TriggerType)
	assert.Equal(t, entity.TriggerScheduled, lists[1].TriggerType)

	f.clock.set(time.Date(2026, 4, 7, 9, 0, 0, 0, time.UTC)) // martes
	lists, err = f.uc.RunTriggers(ctx, scope)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, entity.TriggerCriticalStock, lists[0].TriggerType)
}

func TestScheduleDue_FinDeMes(t *testing.T) {
	cfg := &entity.ReplenishmentConfig{ScheduleEnabled: true, ScheduleFrequency: entity.ScheduleMonthly, ScheduleMonthDay: 31}
	assert.True(t, replenishment.ScheduleDue(cfg, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, replenishment.ScheduleDue(cfg, time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)))
	assert.True(t, replenishment.ScheduleDue(cfg, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
	cfg.ScheduleEnabled = false
	assert.False(t, replenishment.ScheduleDue(cfg, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación
// ──────────────────────────────────────────────────────────────────────────────

type fakeRenderer struct{ rendered string }

func (r *fakeRenderer) Render(_ context.Context, l *entity.PurchaseList) ([]byte, error) {
	r.rendered = l.ID
	return []byte("doc"), nil
}
func (r *fakeRenderer) ContentType() string { return "application/x-test" }
func (r *fakeRenderer) Extension() string   { return "tst" }

func TestExportPurchaseList(t *testing.T) {
	rend := &fakeRenderer{}
	f := newFixture(t, replenishment.WithRenderer("tst", rend))
	f.item(t, "Harina", "0", dp("10"), 2)
	list, err := f.uc.GeneratePurchaseList(context.Background(), scope, entity.TriggerManual, "")
	require.NoError(t, err)

	doc, err := f.uc.ExportPurchaseList(context.Background(), scope, list.ID, "TST")
	require.NoError(t, err)
	assert.Equal(t, list.ID, rend.rendered)
	assert.Equal(t, "application/x-test", doc.ContentType)
	assert.Equal(t, "lista-compras-"+list.ID+".tst", doc.Filename)

	_, err = f.uc.ExportPurchaseList(context.Background(), scope, list.ID, "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
