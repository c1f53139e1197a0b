package notify

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Fanout entrega la alerta a todos los publicadores; un fallo no impide los demás.
type Fanout []ports.AlertPublisher

func (f Fanout) Publish(ctx context.Context, a entity.Alert) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
