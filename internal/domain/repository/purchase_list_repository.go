package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// PurchaseListFilter filtros del listado de listas de compras.
type PurchaseListFilter struct {
	Status string
	Limit  int
	Offset int
}

// PurchaseListRepository define el puerto de persistencia para listas de compras y sus ítems.
type PurchaseListRepository interface {
	// Create persiste la lista con todos sus ítems.
	Create(ctx context.Context, list *entity.PurchaseList) error
	// GetByID devuelve la lista con sus ítems.
	GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseList, error)
	// GetForUpdate bloquea la cabecera de la lista y la devuelve con sus ítems.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseList, error)
	// List devuelve cabeceras sin ítems, más recientes primero.
	List(ctx context.Context, tenantID string, f PurchaseListFilter) ([]*entity.PurchaseList, error)
	GetItem(ctx context.Context, tenantID, itemID string) (*entity.PurchaseListItem, error)
	UpdateItem(ctx context.Context, item *entity.PurchaseListItem) error
	UpdateStatus(ctx context.Context, list *entity.PurchaseList) error
}
