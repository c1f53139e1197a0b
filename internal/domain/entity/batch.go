package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote perecible recibido en una entrada (IN).
// RemainingQty baja con las salidas y nunca supera Quantity. No se elimina.
type Batch struct {
	ID             string
	TenantID       string
	ItemID         string
	BatchNumber    string
	Quantity       decimal.Decimal
	RemainingQty   decimal.Decimal
	CostPerUnit    decimal.Decimal
	ExpirationDate *time.Time
	ReceivedAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasStock indica si al lote le queda cantidad.
func (b *Batch) HasStock() bool {
	return b.RemainingQty.GreaterThan(decimal.Zero)
}

// DaysUntilExpiration devuelve los días completos hasta el vencimiento (negativo si ya venció).
// ok es false si el lote no tiene fecha de vencimiento.
func (b *Batch) DaysUntilExpiration(now time.Time) (days int, ok bool) {
	if b.ExpirationDate == nil {
		return 0, false
	}
	return int(b.ExpirationDate.Sub(now).Hours() / 24), true
}

// BatchInfo datos de lote que acompañan una entrada.
type BatchInfo struct {
	BatchNumber    string
	ExpirationDate *time.Time
}

// Empty indica que no trae ni número de lote ni vencimiento.
func (b *BatchInfo) Empty() bool {
	return b == nil || (b.BatchNumber == "" && b.ExpirationDate == nil)
}
