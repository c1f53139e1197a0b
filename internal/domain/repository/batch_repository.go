package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Batch, error)
	// ListOpenByItemForUpdate lotes con saldo del ítem, bloqueados para consumo.
	ListOpenByItemForUpdate(ctx context.Context, tenantID, itemID string) ([]*entity.Batch, error)
	UpdateRemaining(ctx context.Context, batch *entity.Batch) error
	ListByItem(ctx context.Context, tenantID, itemID string) ([]*entity.Batch, error)
	// ListExpiring lotes con saldo que vencen hasta until, el más próximo primero.
	ListExpiring(ctx context.Context, tenantID string, until time.Time) ([]*entity.Batch, error)
}
