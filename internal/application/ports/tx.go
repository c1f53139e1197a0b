package ports

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Repos agrupa los repositorios del núcleo. Dentro de TxRunner.Run están atados a la tx;
// fuera de ella (lecturas) al pool.
type Repos struct {
	Items         repository.ItemRepository
	Movements     repository.MovementRepository
	Batches       repository.BatchRepository
	PurchaseLists repository.PurchaseListRepository
	Suggestions   repository.SuggestionRepository
	Configs       repository.ReplenishmentConfigRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto se cancela) se hace rollback; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
