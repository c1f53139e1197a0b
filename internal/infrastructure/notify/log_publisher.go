package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var _ ports.AlertPublisher = (*LogPublisher)(nil)

// LogPublisher escribe cada alerta como un evento estructurado. Es el publicador por defecto.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, a entity.Alert) error {
	var ev *zerolog.Event
	switch a.Severity {
	case entity.SeverityCritical, entity.SeverityHigh:
		ev = p.log.Warn()
	default:
		ev = p.log.Info()
	}
	ev = ev.Str("alert_type", a.Type).Str("severity", a.Severity).
		Str("tenant_id", a.TenantID).Str("item_id", a.ItemID)
	if a.BatchID != "" {
		ev = ev.Str("batch_id", a.BatchID)
	}
	if a.MovementID != "" {
		ev = ev.Str("movement_id", a.MovementID)
	}
	if a.ExpirationDate != nil {
		ev = ev.Time("expiration_date", *a.ExpirationDate)
	}
	ev.Str("stock", a.Stock.String()).Str("threshold", a.Threshold.String()).Msg(a.Message)
	return nil
}
