package ports

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AlertPublisher puerto de salida para entregar alertas (log, cola, push).
// Se invoca después del commit; un error de entrega no revierte el movimiento.
type AlertPublisher interface {
	Publish(ctx context.Context, alert entity.Alert) error
}
