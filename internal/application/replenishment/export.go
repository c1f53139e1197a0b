package replenishment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Document archivo generado para descarga.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportPurchaseList genera el documento de la lista en el formato pedido ("pdf", "xlsx").
func (uc *UseCase) ExportPurchaseList(ctx context.Context, scope entity.Scope, listID, format string) (*Document, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	r, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, format)
	}
	list, err := uc.GetPurchaseList(ctx, scope, listID)
	if err != nil {
		return nil, err
	}
	data, err := r.Render(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("generar %s: %w", format, err)
	}
	return &Document{
		Filename:    fmt.Sprintf("lista-compras-%s.%s", list.ID, r.Extension()),
		ContentType: r.ContentType(),
		Data:        data,
	}, nil
}
