package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininventory "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// BatchUseCase consultas de lotes. La apertura y el consumo ocurren dentro del ledger.
type BatchUseCase struct {
	repos ports.Repos
	now   ports.Clock
}

// NewBatchUseCase construye el caso de uso de lotes.
func NewBatchUseCase(repos ports.Repos, opts ...Option) *BatchUseCase {
	o := buildOptions(opts)
	return &BatchUseCase{repos: repos, now: o.now}
}

// ListExpiringBatches lotes con saldo que vencen dentro de withinDays, el más próximo primero.
// Incluye los ya vencidos que aún tienen saldo.
func (uc *BatchUseCase) ListExpiringBatches(ctx context.Context, scope entity.Scope, withinDays int) ([]*entity.Batch, error) {
	if !scope.Valid() || withinDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.repos.Batches.ListExpiring(ctx, scope.TenantID, uc.now().AddDate(0, 0, withinDays))
}

// ListByItem todos los lotes de un ítem (incluidos los agotados).
func (uc *BatchUseCase) ListByItem(ctx context.Context, scope entity.Scope, itemID string) ([]*entity.Batch, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.repos.Items.GetByID(ctx, scope.TenantID, itemID); err != nil {
		return nil, err
	}
	return uc.repos.Batches.ListByItem(ctx, scope.TenantID, itemID)
}

// consumeBatches descuenta qty de los lotes del ítem. Con preferredID se consume solo ese lote,
// que debe cubrir la cantidad; si no, FEFO. El stock sin lote (saldos iniciales) no se rastrea.
func consumeBatches(ctx context.Context, r ports.Repos, tenantID, itemID string, qty decimal.Decimal, preferredID string, now time.Time) error {
	if preferredID != "" {
		b, err := r.Batches.GetForUpdate(ctx, tenantID, preferredID)
		if err != nil {
			return err
		}
		if b.ItemID != itemID {
			return fmt.Errorf("%w: el lote no pertenece al ítem", domain.ErrInvalidMovement)
		}
		if b.RemainingQty.LessThan(qty) {
			return fmt.Errorf("%w: lote con saldo %s", domain.ErrInsufficientStock, b.RemainingQty.String())
		}
		b.RemainingQty = b.RemainingQty.Sub(qty)
		b.UpdatedAt = now
		return r.Batches.UpdateRemaining(ctx, b)
	}

	open, err := r.Batches.ListOpenByItemForUpdate(ctx, tenantID, itemID)
	if err != nil {
		return fmt.Errorf("listar lotes: %w", err)
	}
	draws, _ := domaininventory.PlanConsumption(open, qty)
	for _, d := range draws {
		d.Batch.RemainingQty = d.Batch.RemainingQty.Sub(d.Quantity)
		d.Batch.UpdatedAt = now
		if err := r.Batches.UpdateRemaining(ctx, d.Batch); err != nil {
			return fmt.Errorf("consumir lote %s: %w", d.Batch.ID, err)
		}
	}
	return nil
}
