package ports

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// PurchaseListRenderer genera un documento (PDF, XLSX) de una lista de compras para el proveedor.
type PurchaseListRenderer interface {
	Render(ctx context.Context, list *entity.PurchaseList) ([]byte, error)
	ContentType() string
	Extension() string
}
