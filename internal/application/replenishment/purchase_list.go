package replenishment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininventory "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ConfirmationResult estado tras confirmar la llegada de un ítem de la lista.
type ConfirmationResult struct {
	List     *entity.PurchaseList
	Item     *entity.PurchaseListItem
	Movement *entity.Movement
}

// GeneratePurchaseList arma una lista con los ítems activos bajo su punto de reorden efectivo.
// Devuelve nil (sin error) si ningún ítem califica; no se persisten listas vacías.
func (uc *UseCase) GeneratePurchaseList(ctx context.Context, scope entity.Scope, triggerType, description string) (*entity.PurchaseList, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if triggerType == "" {
		triggerType = entity.TriggerManual
	}
	if !entity.IsValidTrigger(triggerType) {
		return nil, fmt.Errorf("%w: disparador %q", domain.ErrInvalidInput, triggerType)
	}

	var list *entity.PurchaseList
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		// 1. Ítems con punto de reorden manual o calculado
		items, err := r.Items.ListReplenishable(ctx, scope.TenantID)
		if err != nil {
			return fmt.Errorf("listar ítems: %w", err)
		}

		now := uc.now()
		listID := uuid.New().String()
		lines := make([]*entity.PurchaseListItem, 0, len(items))
		for _, it := range items {
			// 2. Punto de reorden efectivo (manual gana)
			rp := it.EffectiveReorderPoint()
			if !rp.GreaterThan(decimal.Zero) {
				continue
			}
			// 3. Faltante
			missing := domaininventory.MissingQuantity(it)
			if !missing.GreaterThan(decimal.Zero) {
				continue
			}
			// 4. Foto del producto
			lines = append(lines, &entity.PurchaseListItem{
				ID:                uuid.New().String(),
				ListID:            listID,
				TenantID:          scope.TenantID,
				ItemID:            it.ID,
				ProductName:       it.Name,
				Unit:              it.BaseUnit,
				ReorderPoint:      rp,
				CurrentStock:      it.CurrentStock,
				SuggestedQuantity: missing,
				Status:            entity.ListItemPending,
				CreatedAt:         now,
				UpdatedAt:         now,
			})
		}
		// 5. Nada que comprar
		if len(lines) == 0 {
			return nil
		}
		sort.SliceStable(lines, func(i, j int) bool {
			return lines[i].SuggestedQuantity.GreaterThan(lines[j].SuggestedQuantity)
		})

		// 6. Persistir cabecera e ítems en la misma tx
		list = &entity.PurchaseList{
			ID:          listID,
			TenantID:    scope.TenantID,
			Name:        fmt.Sprintf("Lista de compras %s", now.Format("2006-01-02 15:04")),
			Description: description,
			TriggerType: triggerType,
			Status:      entity.ListStatusPending,
			CreatedBy:   scope.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
			Items:       lines,
		}
		return r.PurchaseLists.Create(ctx, list)
	})
	if err != nil {
		return nil, err
	}
	if list != nil {
		uc.metrics.PurchaseListGenerated(triggerType)
		uc.log.ForTenant(scope.TenantID).Info().Str("list_id", list.ID).
			Str("trigger", triggerType).Int("items", len(list.Items)).Msg("lista de compras generada")
	}
	return list, nil
}

// GetPurchaseList devuelve la lista con sus ítems.
func (uc *UseCase) GetPurchaseList(ctx context.Context, scope entity.Scope, listID string) (*entity.PurchaseList, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.repos.PurchaseLists.GetByID(ctx, scope.TenantID, listID)
}

// ListPurchaseLists cabeceras de las listas del tenant, más recientes primero.
func (uc *UseCase) ListPurchaseLists(ctx context.Context, scope entity.Scope, f repository.PurchaseListFilter) ([]*entity.PurchaseList, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.repos.PurchaseLists.List(ctx, scope.TenantID, f)
}

// ConfirmItemArrival registra la llegada (total o parcial) de un ítem de la lista.
// La entrada al stock se registra por el ledger en la misma transacción, así cada cantidad
// confirmada queda reflejada exactamente una vez como movimiento IN.
func (uc *UseCase) ConfirmItemArrival(ctx context.Context, scope entity.Scope, listItemID string, quantity decimal.Decimal, purchasePrice *decimal.Decimal) (*ConfirmationResult, error) {
	if !scope.Valid() || listItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: la cantidad confirmada debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if purchasePrice != nil && purchasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}

	var (
		res    *ConfirmationResult
		change *inventory.StockChange
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		list, line, err := lockListItem(ctx, r, scope.TenantID, listItemID)
		if err != nil {
			return err
		}
		switch line.Status {
		case entity.ListItemArrived:
			return domain.ErrAlreadyConfirmed
		case entity.ListItemCancelled:
			return fmt.Errorf("%w: el ítem fue cancelado", domain.ErrConflict)
		}

		mov, ch, err := uc.ledger.ApplyInTx(ctx, r, scope, inventory.MovementInput{
			ItemID:        line.ItemID,
			Type:          entity.MovementTypeIN,
			Quantity:      quantity,
			Unit:          line.Unit,
			CostPerUnit:   purchasePrice,
			ReferenceType: entity.ReferencePurchaseList,
			ReferenceID:   list.ID,
			Notes:         list.Name,
		})
		if err != nil {
			return err
		}

		now := uc.now()
		confirmed := quantity
		if line.ConfirmedQuantity != nil {
			confirmed = line.ConfirmedQuantity.Add(quantity)
		}
		line.ConfirmedQuantity = &confirmed
		line.Status = entity.ListItemPartial
		if confirmed.GreaterThanOrEqual(line.SuggestedQuantity) {
			line.Status = entity.ListItemArrived
		}
		line.ConfirmedBy = scope.UserID
		line.ConfirmedAt = &now
		line.UpdatedAt = now
		if err := r.PurchaseLists.UpdateItem(ctx, line); err != nil {
			return fmt.Errorf("actualizar ítem de la lista: %w", err)
		}

		list.RecomputeStatus()
		list.UpdatedAt = now
		if err := r.PurchaseLists.UpdateStatus(ctx, list); err != nil {
			return fmt.Errorf("actualizar lista: %w", err)
		}
		res = &ConfirmationResult{List: list, Item: line, Movement: mov}
		change = ch
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Notify(ctx, change)
	return res, nil
}

// CancelItem marca un ítem de la lista como cancelado. Lo ya recibido (PARCIAL) se conserva.
// Cancelar un ítem cancelado no hace nada; uno ya llegado es conflicto.
func (uc *UseCase) CancelItem(ctx context.Context, scope entity.Scope, listItemID string) (*entity.PurchaseList, error) {
	if !scope.Valid() || listItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	var list *entity.PurchaseList
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		l, line, err := lockListItem(ctx, r, scope.TenantID, listItemID)
		if err != nil {
			return err
		}
		list = l
		switch line.Status {
		case entity.ListItemCancelled:
			return nil
		case entity.ListItemArrived:
			return fmt.Errorf("%w: el ítem ya llegó", domain.ErrConflict)
		}
		now := uc.now()
		line.Status = entity.ListItemCancelled
		line.UpdatedAt = now
		if err := r.PurchaseLists.UpdateItem(ctx, line); err != nil {
			return err
		}
		list.RecomputeStatus()
		list.UpdatedAt = now
		return r.PurchaseLists.UpdateStatus(ctx, list)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// OnInventoryCounted genera una lista POS_INVENTARIO si el tenant lo tiene habilitado.
// Devuelve nil si está deshabilitado o si nada califica.
func (uc *UseCase) OnInventoryCounted(ctx context.Context, scope entity.Scope) (*entity.PurchaseList, error) {
	cfg, err := uc.GetConfig(ctx, scope)
	if err != nil {
		return nil, err
	}
	if !cfg.PostInventoryEnabled {
		return nil, nil
	}
	return uc.GeneratePurchaseList(ctx, scope, entity.TriggerPostInventory, "Generada tras conteo de inventario")
}

// RunTriggers evalúa los disparadores automáticos del tenant (lo invoca un scheduler externo):
// stock crítico y programación semanal/mensual. Devuelve las listas generadas.
func (uc *UseCase) RunTriggers(ctx context.Context, scope entity.Scope) ([]*entity.PurchaseList, error) {
	cfg, err := uc.GetConfig(ctx, scope)
	if err != nil {
		return nil, err
	}
	var out []*entity.PurchaseList
	if cfg.CriticalStockEnabled {
		items, err := uc.repos.Items.ListReplenishable(ctx, scope.TenantID)
		if err != nil {
			return nil, err
		}
		if CriticalStockReached(cfg, items) {
			l, err := uc.GeneratePurchaseList(ctx, scope, entity.TriggerCriticalStock, "Stock crítico")
			if err != nil {
				return nil, err
			}
			if l != nil {
				out = append(out, l)
			}
		}
	}
	if ScheduleDue(cfg, uc.now()) {
		l, err := uc.GeneratePurchaseList(ctx, scope, entity.TriggerScheduled, "Reposición programada")
		if err != nil {
			return out, err
		}
		if l != nil {
			out = append(out, l)
		}
	}
	return out, nil
}

// CriticalStockReached indica si algún ítem está en o bajo el porcentaje crítico de su punto de reorden.
func CriticalStockReached(cfg *entity.ReplenishmentConfig, items []*entity.Item) bool {
	pct := cfg.CriticalStockPercentage.Div(decimal.NewFromInt(100))
	for _, it := range items {
		rp := it.EffectiveReorderPoint()
		if !rp.GreaterThan(decimal.Zero) {
			continue
		}
		if it.CurrentStock.LessThanOrEqual(rp.Mul(pct)) {
			return true
		}
	}
	return false
}

// ScheduleDue indica si la programación del tenant toca en la fecha de now.
// En meses cortos el día 29-31 se corre al último día del mes.
func ScheduleDue(cfg *entity.ReplenishmentConfig, now time.Time) bool {
	if !cfg.ScheduleEnabled {
		return false
	}
	switch cfg.ScheduleFrequency {
	case entity.ScheduleWeekly:
		return int(now.Weekday()) == cfg.ScheduleWeekday
	case entity.ScheduleMonthly:
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
		day := cfg.ScheduleMonthDay
		if day > last {
			day = last
		}
		return now.Day() == day
	}
	return false
}

// lockListItem bloquea la cabecera de la lista (orden fijo: lista antes que ítem) y devuelve
// el ítem leído después del bloqueo.
func lockListItem(ctx context.Context, r ports.Repos, tenantID, listItemID string) (*entity.PurchaseList, *entity.PurchaseListItem, error) {
	probe, err := r.PurchaseLists.GetItem(ctx, tenantID, listItemID)
	if err != nil {
		return nil, nil, err
	}
	list, err := r.PurchaseLists.GetForUpdate(ctx, tenantID, probe.ListID)
	if err != nil {
		return nil, nil, err
	}
	for _, it := range list.Items {
		if it.ID == listItemID {
			return list, it, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}
