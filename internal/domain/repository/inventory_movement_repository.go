package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos del ledger.
// Solo inserción y lectura: los movimientos son inmutables.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Movement, error)
	ListByItem(ctx context.Context, tenantID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByReference(ctx context.Context, tenantID, referenceType, referenceID string) ([]*entity.Movement, error)
	// SumConsumptionByItem suma las salidas OUT y PRODUCTION (dirección OUT) ocurridas desde since.
	SumConsumptionByItem(ctx context.Context, tenantID string, since time.Time) (map[string]decimal.Decimal, error)
}
