package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/alert"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininventory "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// MovementInput datos de entrada de un movimiento del ledger.
type MovementInput struct {
	ItemID        string
	Type          string
	// Direction obligatoria para PRODUCTION y ADJUSTMENT; ignorada en el resto.
	Direction     string
	Quantity      decimal.Decimal
	Unit          string
	CostPerUnit   *decimal.Decimal
	// Batch abre un lote; solo válido en IN.
	Batch         *entity.BatchInfo
	// BatchID lote a consumir primero en una salida; debe cubrir la cantidad.
	BatchID       string
	SupplierID    string
	ReferenceType string
	ReferenceID   string
	Notes         string
	OccurredAt    *time.Time
}

// BulkInput varias líneas aplicadas en una sola transacción.
type BulkInput struct {
	Entries    []MovementInput
	SupplierID string // se aplica a las líneas que no traen proveedor
}

// StockChange resultado de aplicar movimientos a un ítem, pendiente de evaluar stock bajo tras el commit.
type StockChange struct {
	Item       entity.Item
	MovementID string
	Before     decimal.Decimal
	After      decimal.Decimal
}

// LedgerUseCase punto de entrada único de toda mutación de stock y costo.
type LedgerUseCase struct {
	tx      ports.TxRunner
	repos   ports.Repos
	alerts  *alert.Emitter
	log     *logger.Logger
	now     ports.Clock
	metrics ports.Metrics
}

// NewLedgerUseCase construye el caso de uso del ledger.
func NewLedgerUseCase(tx ports.TxRunner, repos ports.Repos, alerts *alert.Emitter, log *logger.Logger, opts ...Option) *LedgerUseCase {
	o := buildOptions(opts)
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{tx: tx, repos: repos, alerts: alerts, log: log, now: o.now, metrics: o.metrics}
}

// RecordMovement registra un movimiento en una transacción con bloqueo de fila del ítem.
// Tras el commit evalúa si el ítem cruzó su punto de reorden.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, scope entity.Scope, in MovementInput) (*entity.Movement, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var (
		mov    *entity.Movement
		change *StockChange
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		var err error
		mov, change, err = uc.ApplyInTx(ctx, r, scope, in)
		return err
	})
	if err != nil {
		uc.reject(scope, in, err)
		return nil, err
	}
	uc.recorded([]*entity.Movement{mov})
	uc.Notify(ctx, change)
	return mov, nil
}

// ApplyInTx bloquea el ítem y aplica el movimiento dentro de una tx abierta por el llamador.
// El llamador debe invocar Notify con el StockChange después del commit.
func (uc *LedgerUseCase) ApplyInTx(ctx context.Context, r ports.Repos, scope entity.Scope, in MovementInput) (*entity.Movement, *StockChange, error) {
	if in.ItemID == "" {
		return nil, nil, fmt.Errorf("%w: item_id requerido", domain.ErrInvalidMovement)
	}
	item, err := r.Items.GetForUpdate(ctx, scope.TenantID, in.ItemID)
	if err != nil {
		return nil, nil, err
	}
	before := item.CurrentStock
	mov, err := uc.apply(ctx, r, scope, item, in, uc.now())
	if err != nil {
		return nil, nil, err
	}
	return mov, &StockChange{Item: *item, MovementID: mov.ID, Before: before, After: item.CurrentStock}, nil
}

// RecordMovementsBulk aplica todas las líneas en una sola transacción (todo o nada).
func (uc *LedgerUseCase) RecordMovementsBulk(ctx context.Context, scope entity.Scope, in BulkInput) ([]*entity.Movement, error) {
	if !scope.Valid() || len(in.Entries) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var (
		movs    []*entity.Movement
		changes []*StockChange
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		var err error
		movs, changes, err = uc.applyBulk(ctx, r, scope, in)
		return err
	})
	if err != nil {
		uc.reject(scope, MovementInput{}, err)
		return nil, err
	}
	uc.recorded(movs)
	uc.Notify(ctx, changes...)
	return movs, nil
}

// applyBulk bloquea de antemano los ítems en orden ascendente de ID (evita deadlocks entre cargas
// concurrentes) y aplica las líneas en secuencia sobre el estado en memoria, de modo que varias
// líneas del mismo ítem se componen.
func (uc *LedgerUseCase) applyBulk(ctx context.Context, r ports.Repos, scope entity.Scope, in BulkInput) ([]*entity.Movement, []*StockChange, error) {
	ids := make([]string, 0, len(in.Entries))
	seen := make(map[string]bool, len(in.Entries))
	for i, e := range in.Entries {
		if e.ItemID == "" {
			return nil, nil, fmt.Errorf("línea %d: %w: item_id requerido", i+1, domain.ErrInvalidMovement)
		}
		if !seen[e.ItemID] {
			seen[e.ItemID] = true
			ids = append(ids, e.ItemID)
		}
	}
	sort.Strings(ids)

	items := make(map[string]*entity.Item, len(ids))
	before := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		item, err := r.Items.GetForUpdate(ctx, scope.TenantID, id)
		if err != nil {
			return nil, nil, fmt.Errorf("ítem %s: %w", id, err)
		}
		items[id] = item
		before[id] = item.CurrentStock
	}

	now := uc.now()
	movs := make([]*entity.Movement, 0, len(in.Entries))
	last := make(map[string]string, len(ids))
	for i, e := range in.Entries {
		if e.SupplierID == "" {
			e.SupplierID = in.SupplierID
		}
		mov, err := uc.apply(ctx, r, scope, items[e.ItemID], e, now)
		if err != nil {
			return nil, nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		movs = append(movs, mov)
		last[e.ItemID] = mov.ID
	}

	changes := make([]*StockChange, 0, len(ids))
	for _, id := range ids {
		changes = append(changes, &StockChange{Item: *items[id], MovementID: last[id], Before: before[id], After: items[id].CurrentStock})
	}
	return movs, changes, nil
}

// Reconcile ajusta el stock al conteo físico. Diferencia cero no genera movimiento (nil, nil).
// El ajuste usa el costo promedio vigente y referencia INVENTORY_COUNT.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, scope entity.Scope, itemID string, counted decimal.Decimal, notes string) (*entity.Movement, error) {
	if !scope.Valid() || itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if counted.IsNegative() {
		return nil, fmt.Errorf("%w: conteo negativo", domain.ErrInvalidInput)
	}
	var (
		mov    *entity.Movement
		change *StockChange
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		item, err := r.Items.GetForUpdate(ctx, scope.TenantID, itemID)
		if err != nil {
			return err
		}
		diff := counted.Sub(item.CurrentStock)
		if diff.IsZero() {
			return nil
		}
		dir := entity.DirectionIn
		if diff.IsNegative() {
			dir = entity.DirectionOut
		}
		cost := item.AvgCost
		before := item.CurrentStock
		mov, err = uc.apply(ctx, r, scope, item, MovementInput{
			ItemID:        itemID,
			Type:          entity.MovementTypeADJUSTMENT,
			Direction:     dir,
			Quantity:      diff.Abs(),
			Unit:          item.BaseUnit,
			CostPerUnit:   &cost,
			ReferenceType: entity.ReferenceInventoryCount,
			Notes:         notes,
		}, uc.now())
		if err != nil {
			return err
		}
		change = &StockChange{Item: *item, MovementID: mov.ID, Before: before, After: item.CurrentStock}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, nil
	}
	uc.recorded([]*entity.Movement{mov})
	uc.Notify(ctx, change)
	return mov, nil
}

// CountLine una línea de conteo físico.
type CountLine struct {
	ItemID  string
	Counted decimal.Decimal
	Notes   string
}

// ReconcileCount concilia un conteo completo. Cada ítem se concilia en su propia transacción;
// devuelve solo los ajustes generados.
func (uc *LedgerUseCase) ReconcileCount(ctx context.Context, scope entity.Scope, lines []CountLine) ([]*entity.Movement, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make([]*entity.Movement, 0, len(lines))
	for i, l := range lines {
		mov, err := uc.Reconcile(ctx, scope, l.ItemID, l.Counted, l.Notes)
		if err != nil {
			return out, fmt.Errorf("línea %d: %w", i+1, err)
		}
		if mov != nil {
			out = append(out, mov)
		}
	}
	return out, nil
}

// ListMovements historial de un ítem, más reciente primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, scope entity.Scope, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.repos.Items.GetByID(ctx, scope.TenantID, itemID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repos.Movements.ListByItem(ctx, scope.TenantID, itemID, from, to, limit, offset)
}

// Notify evalúa stock bajo para cada cambio ya confirmado y emite la alerta si el umbral se cruzó.
func (uc *LedgerUseCase) Notify(ctx context.Context, changes ...*StockChange) {
	if uc.alerts == nil {
		return
	}
	now := uc.now()
	for _, c := range changes {
		if c == nil {
			continue
		}
		threshold := c.Item.EffectiveReorderPoint()
		if !alert.CrossedLowStock(c.Before, c.After, threshold) {
			continue
		}
		uc.alerts.Emit(ctx, alert.OnLowStock(&c.Item, c.MovementID, c.After, threshold, now))
	}
}

// apply valida y aplica un movimiento sobre item (ya bloqueado) y persiste movimiento, lote e ítem.
// item queda con el estado posterior, por lo que llamadas sucesivas se componen.
func (uc *LedgerUseCase) apply(ctx context.Context, r ports.Repos, scope entity.Scope, item *entity.Item, in MovementInput, now time.Time) (*entity.Movement, error) {
	if !entity.IsValidMovementType(in.Type) {
		return nil, fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidMovement, in.Type)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidMovement)
	}
	direction, err := domaininventory.ResolveDirection(in.Type, in.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %s requiere dirección IN u OUT", err, in.Type)
	}
	if !in.Batch.Empty() && in.Type != entity.MovementTypeIN {
		return nil, fmt.Errorf("%w: solo las entradas abren lotes", domain.ErrInvalidMovement)
	}
	if in.BatchID != "" && direction != entity.DirectionOut {
		return nil, fmt.Errorf("%w: batch_id solo aplica a salidas", domain.ErrInvalidMovement)
	}
	if in.CostPerUnit != nil && in.CostPerUnit.IsNegative() {
		return nil, fmt.Errorf("%w: costo negativo", domain.ErrInvalidMovement)
	}
	if !item.IsActive {
		return nil, fmt.Errorf("%w: ítem inactivo", domain.ErrInvalidMovement)
	}

	occurred := now
	if in.OccurredAt != nil {
		occurred = in.OccurredAt.UTC()
	}

	before := item.CurrentStock
	after := before.Add(in.Quantity)
	if direction == entity.DirectionOut {
		after = before.Sub(in.Quantity)
	}
	if after.IsNegative() {
		return nil, fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, before.String(), in.Quantity.String())
	}

	isPurchase := in.Type == entity.MovementTypeIN
	cost := domaininventory.ResolveCost(in.CostPerUnit, isPurchase, item.LastPurchasePrice, item.AvgCost)

	unit := in.Unit
	if unit == "" {
		unit = item.BaseUnit
	}
	mov := &entity.Movement{
		ID:            uuid.New().String(),
		TenantID:      scope.TenantID,
		ItemID:        item.ID,
		Type:          in.Type,
		Direction:     direction,
		Quantity:      in.Quantity,
		Unit:          unit,
		CostPerUnit:   cost,
		TotalCost:     in.Quantity.Mul(cost),
		StockBefore:   before,
		StockAfter:    after,
		SupplierID:    in.SupplierID,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
		UserID:        scope.UserID,
		OccurredAt:    occurred,
		CreatedAt:     now,
	}

	switch {
	case isPurchase && !in.Batch.Empty():
		batch := &entity.Batch{
			ID:             uuid.New().String(),
			TenantID:       scope.TenantID,
			ItemID:         item.ID,
			BatchNumber:    in.Batch.BatchNumber,
			Quantity:       in.Quantity,
			RemainingQty:   in.Quantity,
			CostPerUnit:    cost,
			ExpirationDate: in.Batch.ExpirationDate,
			ReceivedAt:     occurred,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.Batches.Create(ctx, batch); err != nil {
			return nil, fmt.Errorf("crear lote: %w", err)
		}
		mov.BatchID = batch.ID
	case direction == entity.DirectionOut:
		if err := consumeBatches(ctx, r, scope.TenantID, item.ID, in.Quantity, in.BatchID, now); err != nil {
			return nil, err
		}
		mov.BatchID = in.BatchID
	}

	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("crear movimiento: %w", err)
	}

	if isPurchase {
		if after.GreaterThan(decimal.Zero) {
			item.AvgCost = domaininventory.CostCalculator(before, item.AvgCost, in.Quantity, cost)
		}
		item.LastPurchasePrice = cost
		item.LastPurchaseDate = &occurred
	}
	item.CurrentStock = after
	item.UpdatedAt = now
	if err := r.Items.UpdateStockAndCost(ctx, item); err != nil {
		return nil, fmt.Errorf("actualizar stock: %w", err)
	}
	return mov, nil
}

func (uc *LedgerUseCase) recorded(movs []*entity.Movement) {
	for _, m := range movs {
		uc.metrics.MovementRecorded(m.Type, m.Direction)
	}
}

func (uc *LedgerUseCase) reject(scope entity.Scope, in MovementInput, err error) {
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidMovement):
		reason = "invalid_movement"
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		reason = "concurrency_conflict"
	}
	uc.metrics.MovementRejected(reason)
	uc.log.ForTenant(scope.TenantID).Debug().Err(err).Str("item_id", in.ItemID).
		Str("type", in.Type).Msg("movimiento rechazado")
}
