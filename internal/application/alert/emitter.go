package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// CrossedLowStock indica si el movimiento acaba de cruzar el umbral (antes sobre, ahora en o bajo)
// o acaba de dejar el ítem sin stock. No se repite en cada salida mientras el ítem sigue bajo.
func CrossedLowStock(before, after, threshold decimal.Decimal) bool {
	if after.LessThanOrEqual(threshold) && before.GreaterThan(threshold) {
		return true
	}
	return !after.IsPositive() && before.IsPositive()
}

// OnLowStock deriva la alerta de stock bajo. CRITICAL si el stock llegó a cero.
func OnLowStock(item *entity.Item, movementID string, newStock, threshold decimal.Decimal, now time.Time) entity.Alert {
	a := entity.Alert{
		Type:       entity.AlertLowStock,
		Severity:   entity.SeverityHigh,
		TenantID:   item.TenantID,
		ItemID:     item.ID,
		MovementID: movementID,
		Stock:      newStock,
		Threshold:  threshold,
		CreatedAt:  now,
	}
	if newStock.LessThanOrEqual(decimal.Zero) {
		a.Type = entity.AlertOutOfStock
		a.Severity = entity.SeverityCritical
		a.Message = fmt.Sprintf("%s sin stock", item.Name)
		return a
	}
	a.Message = fmt.Sprintf("%s bajo el punto de reorden: %s %s (umbral %s)",
		item.Name, newStock.String(), item.BaseUnit, threshold.String())
	return a
}

// OnExpiringBatch deriva la alerta de un lote por vencer o vencido.
// Vencido → CRITICAL; ≤1 día → HIGH; ≤3 días → MEDIUM; resto LOW.
func OnExpiringBatch(batch *entity.Batch, itemName string, now time.Time) entity.Alert {
	a := entity.Alert{
		Type:           entity.AlertExpiringBatch,
		TenantID:       batch.TenantID,
		ItemID:         batch.ItemID,
		BatchID:        batch.ID,
		Stock:          batch.RemainingQty,
		ExpirationDate: batch.ExpirationDate,
		CreatedAt:      now,
	}
	label := batch.BatchNumber
	if label == "" {
		label = batch.ID
	}
	if batch.ExpirationDate == nil {
		a.Severity = entity.SeverityLow
		a.Message = fmt.Sprintf("lote %s de %s sin fecha de vencimiento", label, itemName)
		return a
	}
	if !batch.ExpirationDate.After(now) {
		a.Type = entity.AlertExpiredBatch
		a.Severity = entity.SeverityCritical
		a.Message = fmt.Sprintf("lote %s de %s vencido el %s", label, itemName, batch.ExpirationDate.Format("2006-01-02"))
		return a
	}
	left := batch.ExpirationDate.Sub(now)
	switch {
	case left <= 24*time.Hour:
		a.Severity = entity.SeverityHigh
	case left <= 72*time.Hour:
		a.Severity = entity.SeverityMedium
	default:
		a.Severity = entity.SeverityLow
	}
	a.Message = fmt.Sprintf("lote %s de %s vence el %s", label, itemName, batch.ExpirationDate.Format("2006-01-02"))
	return a
}

// Emitter entrega alertas al publicador configurado.
type Emitter struct {
	repos   ports.Repos
	pub     ports.AlertPublisher
	metrics ports.Metrics
	log     *logger.Logger
	now     ports.Clock
}

// NewEmitter construye el emisor. repos solo se usa para ScanExpiring.
func NewEmitter(repos ports.Repos, pub ports.AlertPublisher, metrics ports.Metrics, log *logger.Logger, now ports.Clock) *Emitter {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = ports.SystemClock
	}
	return &Emitter{repos: repos, pub: pub, metrics: metrics, log: log, now: now}
}

// Emit publica la alerta. Los fallos de entrega se registran y no se propagan.
func (e *Emitter) Emit(ctx context.Context, a entity.Alert) {
	if e.pub == nil {
		return
	}
	if err := e.pub.Publish(ctx, a); err != nil {
		e.log.ForTenant(a.TenantID).Warn().Err(err).Str("item_id", a.ItemID).
			Str("type", a.Type).Msg("no se pudo publicar la alerta")
		return
	}
	e.metrics.AlertPublished(a.Type, a.Severity)
}

// ScanExpiring publica una alerta por cada lote con saldo que vence dentro de withinDays.
// Lo invoca un scheduler externo. Devuelve las alertas emitidas.
func (e *Emitter) ScanExpiring(ctx context.Context, scope entity.Scope, withinDays int) ([]entity.Alert, error) {
	if !scope.Valid() || withinDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := e.now()
	batches, err := e.repos.Batches.ListExpiring(ctx, scope.TenantID, now.AddDate(0, 0, withinDays))
	if err != nil {
		return nil, fmt.Errorf("listar lotes por vencer: %w", err)
	}
	names := make(map[string]string)
	alerts := make([]entity.Alert, 0, len(batches))
	for _, b := range batches {
		name, ok := names[b.ItemID]
		if !ok {
			item, err := e.repos.Items.GetByID(ctx, scope.TenantID, b.ItemID)
			if err != nil {
				return nil, fmt.Errorf("obtener ítem %s: %w", b.ItemID, err)
			}
			name = item.Name
			names[b.ItemID] = name
		}
		a := OnExpiringBatch(b, name, now)
		e.Emit(ctx, a)
		alerts = append(alerts, a)
	}
	return alerts, nil
}
