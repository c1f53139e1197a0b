package replenishment

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininventory "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

var priorityRank = map[string]int{
	entity.PriorityUrgent: 0,
	entity.PriorityHigh:   1,
	entity.PriorityMedium: 2,
	entity.PriorityLow:    3,
}

// GenerateSuggestions recalcula las sugerencias por velocidad de consumo del tenant.
// Reemplaza las pendientes anteriores; las ya decididas se conservan. No corre en paralelo
// consigo misma para un mismo tenant.
func (uc *UseCase) GenerateSuggestions(ctx context.Context, scope entity.Scope) ([]*entity.PurchaseSuggestion, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, "suggestions:"+scope.TenantID)
		if err != nil {
			return nil, fmt.Errorf("bloqueo de sugerencias: %w", err)
		}
		defer unlock()
	}

	var out []*entity.PurchaseSuggestion
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		cfg, err := uc.loadConfig(ctx, r.Configs, scope.TenantID)
		if err != nil {
			return err
		}
		params := paramsFrom(cfg)
		now := uc.now()

		// 1. Consumo de la ventana por ítem
		items, err := r.Items.ListActiveRawMaterials(ctx, scope.TenantID)
		if err != nil {
			return fmt.Errorf("listar insumos: %w", err)
		}
		consumption, err := r.Movements.SumConsumptionByItem(ctx, scope.TenantID, now.AddDate(0, 0, -params.WindowDays))
		if err != nil {
			return fmt.Errorf("sumar consumo: %w", err)
		}

		out = make([]*entity.PurchaseSuggestion, 0)
		for _, it := range items {
			total, ok := consumption[it.ID]
			if !ok || !total.GreaterThan(decimal.Zero) {
				continue
			}
			// 2. Punto de reorden calculado, se guarda aunque no haya sugerencia
			avgDaily := domaininventory.AvgDailyConsumption(total, params.WindowDays)
			rp := domaininventory.SafetyReorderPoint(avgDaily, it.LeadTimeDays, params.SafetyFactor)
			if !rp.Equal(it.ReorderPoint) {
				if err := r.Items.UpdateReorderPoint(ctx, scope.TenantID, it.ID, rp); err != nil {
					return fmt.Errorf("guardar punto de reorden: %w", err)
				}
			}
			// 3-6. Cantidad, prioridad y fecha estimada de quiebre
			calc, ok := domaininventory.ComputeSuggestion(it.CurrentStock, total, it.LeadTimeDays, params, now)
			if !ok {
				continue
			}
			out = append(out, &entity.PurchaseSuggestion{
				ID:                  uuid.New().String(),
				TenantID:            scope.TenantID,
				ItemID:              it.ID,
				ItemName:            it.Name,
				CurrentStock:        it.CurrentStock,
				AvgDailyConsumption: calc.AvgDaily,
				SuggestedQuantity:   calc.SuggestedQuantity,
				ReorderPoint:        calc.ReorderPoint,
				LeadTimeDays:        it.LeadTimeDays,
				Priority:            calc.Priority,
				EstimatedRunoutDate: calc.RunoutDate,
				Confidence:          params.Confidence,
				CreatedAt:           now,
			})
		}
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if priorityRank[a.Priority] != priorityRank[b.Priority] {
				return priorityRank[a.Priority] < priorityRank[b.Priority]
			}
			return a.EstimatedRunoutDate.Before(b.EstimatedRunoutDate)
		})

		// 7. Reemplazar las pendientes
		if err := r.Suggestions.DeletePending(ctx, scope.TenantID); err != nil {
			return fmt.Errorf("borrar sugerencias pendientes: %w", err)
		}
		if len(out) == 0 {
			return nil
		}
		return r.Suggestions.CreateMany(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.SuggestionsGenerated(len(out))
	uc.log.ForTenant(scope.TenantID).Info().Int("suggestions", len(out)).Msg("sugerencias de compra regeneradas")
	return out, nil
}

// ListSuggestions sugerencias del tenant; pendingOnly filtra las no decididas.
func (uc *UseCase) ListSuggestions(ctx context.Context, scope entity.Scope, pendingOnly bool) ([]*entity.PurchaseSuggestion, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.repos.Suggestions.List(ctx, scope.TenantID, pendingOnly)
}

// DecideSuggestion acepta o rechaza una sugerencia pendiente. Decidir dos veces es conflicto.
func (uc *UseCase) DecideSuggestion(ctx context.Context, scope entity.Scope, id string, accept bool) (*entity.PurchaseSuggestion, error) {
	if !scope.Valid() || id == "" {
		return nil, domain.ErrInvalidInput
	}
	var s *entity.PurchaseSuggestion
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		var err error
		s, err = r.Suggestions.GetForUpdate(ctx, scope.TenantID, id)
		if err != nil {
			return err
		}
		if !s.Pending() {
			return fmt.Errorf("%w: la sugerencia ya fue decidida", domain.ErrConflict)
		}
		now := uc.now()
		s.IsAccepted = &accept
		s.DecidedBy = scope.UserID
		s.DecidedAt = &now
		return r.Suggestions.UpdateDecision(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
