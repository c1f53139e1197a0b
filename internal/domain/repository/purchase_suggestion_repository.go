package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SuggestionRepository define el puerto de persistencia para sugerencias de compra.
type SuggestionRepository interface {
	// DeletePending borra las sugerencias sin decidir del tenant.
	DeletePending(ctx context.Context, tenantID string) error
	CreateMany(ctx context.Context, suggestions []*entity.PurchaseSuggestion) error
	List(ctx context.Context, tenantID string, pendingOnly bool) ([]*entity.PurchaseSuggestion, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseSuggestion, error)
	UpdateDecision(ctx context.Context, s *entity.PurchaseSuggestion) error
}
