package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ ports.AlertPublisher = (*RedisPublisher)(nil)

// alertMessage payload publicado en el canal del tenant.
type alertMessage struct {
	Type           string          `json:"type"`
	Severity       string          `json:"severity"`
	Message        string          `json:"message"`
	TenantID       string          `json:"tenant_id"`
	ItemID         string          `json:"item_id"`
	BatchID        string          `json:"batch_id,omitempty"`
	MovementID     string          `json:"movement_id,omitempty"`
	Stock          decimal.Decimal `json:"stock"`
	Threshold      decimal.Decimal `json:"threshold"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RedisPublisher publica alertas en Redis Pub/Sub, canal <prefix><tenant_id>.
// Los suscriptores (email, push, dashboards) quedan fuera de este servicio.
type RedisPublisher struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisPublisher(rdb *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "alerts:"
	}
	return &RedisPublisher{rdb: rdb, prefix: prefix}
}

// Channel canal de alertas del tenant.
func (p *RedisPublisher) Channel(tenantID string) string {
	return p.prefix + tenantID
}

func (p *RedisPublisher) Publish(ctx context.Context, a entity.Alert) error {
	payload, err := json.Marshal(alertMessage{
		Type:           a.Type,
		Severity:       a.Severity,
		Message:        a.Message,
		TenantID:       a.TenantID,
		ItemID:         a.ItemID,
		BatchID:        a.BatchID,
		MovementID:     a.MovementID,
		Stock:          a.Stock,
		Threshold:      a.Threshold,
		ExpirationDate: a.ExpirationDate,
		CreatedAt:      a.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("serializar alerta: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.Channel(a.TenantID), payload).Err(); err != nil {
		return fmt.Errorf("publicar alerta en redis: %w", err)
	}
	return nil
}
