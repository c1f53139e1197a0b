package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ImportRow fila normalizada que entrega el importador de planillas.
type ImportRow struct {
	ItemName     string
	CategoryHint string
	Quantity     decimal.Decimal
	Unit         string
	CostPerUnit  *decimal.Decimal
	Timestamp    time.Time
	// Type por defecto IN (compras).
	Type         string
}

// ImportResult movimientos generados e ítems creados durante la importación.
type ImportResult struct {
	Movements    []*entity.Movement
	CreatedItems []*entity.Item
}

// ImportMovements resuelve cada fila contra los ítems del tenant por nombre normalizado
// (sin acentos ni mayúsculas), crea los que falten y registra todo como una carga masiva.
func (uc *LedgerUseCase) ImportMovements(ctx context.Context, scope entity.Scope, rows []ImportRow) (*ImportResult, error) {
	if !scope.Valid() || len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var (
		res     *ImportResult
		changes []*StockChange
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, r ports.Repos) error {
		res = &ImportResult{}
		byName := make(map[string]string)
		entries := make([]MovementInput, 0, len(rows))
		now := uc.now()
		for i, row := range rows {
			key := NormalizeName(row.ItemName)
			if key == "" {
				return fmt.Errorf("fila %d: %w: nombre de ítem vacío", i+1, domain.ErrInvalidInput)
			}
			itemID, ok := byName[key]
			if !ok {
				item, err := r.Items.FindByNormalizedName(ctx, scope.TenantID, key)
				switch {
				case errors.Is(err, domain.ErrNotFound):
					item, err = newItem(scope, CreateItemInput{
						Name:     strings.TrimSpace(row.ItemName),
						Category: row.CategoryHint,
						BaseUnit: row.Unit,
					}, now)
					if err != nil {
						return fmt.Errorf("fila %d: %w", i+1, err)
					}
					if err := r.Items.Create(ctx, item); err != nil {
						return fmt.Errorf("fila %d: crear ítem: %w", i+1, err)
					}
					res.CreatedItems = append(res.CreatedItems, item)
				case err != nil:
					return fmt.Errorf("fila %d: %w", i+1, err)
				}
				itemID = item.ID
				byName[key] = itemID
			}
			typ := row.Type
			if typ == "" {
				typ = entity.MovementTypeIN
			}
			in := MovementInput{
				ItemID:        itemID,
				Type:          typ,
				Quantity:      row.Quantity,
				Unit:          row.Unit,
				CostPerUnit:   row.CostPerUnit,
				ReferenceType: entity.ReferenceImport,
			}
			if !row.Timestamp.IsZero() {
				ts := row.Timestamp
				in.OccurredAt = &ts
			}
			entries = append(entries, in)
		}
		movs, ch, err := uc.applyBulk(ctx, r, scope, BulkInput{Entries: entries})
		if err != nil {
			return err
		}
		res.Movements = movs
		changes = ch
		return nil
	})
	if err != nil {
		uc.reject(scope, MovementInput{}, err)
		return nil, err
	}
	uc.recorded(res.Movements)
	uc.Notify(ctx, changes...)
	return res, nil
}
