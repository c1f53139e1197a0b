package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// BatchDraw cantidad a descontar de un lote.
type BatchDraw struct {
	Batch    *entity.Batch
	Quantity decimal.Decimal
}

// SortFEFO ordena lotes por vencimiento más próximo; sin vencimiento al final.
// Empates por fecha de recepción (FIFO).
func SortFEFO(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpirationDate != nil && b.ExpirationDate == nil:
			return true
		case a.ExpirationDate == nil && b.ExpirationDate != nil:
			return false
		case a.ExpirationDate != nil && b.ExpirationDate != nil && !a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.ExpirationDate.Before(*b.ExpirationDate)
		}
		return a.ReceivedAt.Before(b.ReceivedAt)
	})
}

// PlanConsumption reparte qty entre los lotes con saldo siguiendo FEFO.
// Lo que los lotes no cubren (stock sin lote, ej. saldo inicial) queda en uncovered.
// No modifica los lotes.
func PlanConsumption(batches []*entity.Batch, qty decimal.Decimal) (draws []BatchDraw, uncovered decimal.Decimal) {
	open := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.HasStock() {
			open = append(open, b)
		}
	}
	SortFEFO(open)

	remaining := qty
	for _, b := range open {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, b.RemainingQty)
		draws = append(draws, BatchDraw{Batch: b, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return draws, remaining
}
