package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ItemFilter filtros del listado de ítems.
type ItemFilter struct {
	Category   string
	Kind       string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item.
// Todas las lecturas filtran por tenant; un ítem de otro tenant es ErrNotFound.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Item, error)
	FindByNormalizedName(ctx context.Context, tenantID, normalizedName string) (*entity.Item, error)
	// Update guarda datos descriptivos y de reorden; no toca stock ni costos.
	Update(ctx context.Context, item *entity.Item) error
	// UpdateStockAndCost guarda los campos que solo el ledger modifica.
	UpdateStockAndCost(ctx context.Context, item *entity.Item) error
	UpdateReorderPoint(ctx context.Context, tenantID, id string, reorderPoint decimal.Decimal) error
	List(ctx context.Context, tenantID string, f ItemFilter) ([]*entity.Item, error)
	// ListReplenishable ítems activos con punto de reorden manual o calculado > 0.
	ListReplenishable(ctx context.Context, tenantID string) ([]*entity.Item, error)
	ListActiveRawMaterials(ctx context.Context, tenantID string) ([]*entity.Item, error)
}
