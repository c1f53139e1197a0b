package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func sampleAlert() entity.Alert {
	return entity.Alert{
		Type:       entity.AlertOutOfStock,
		Severity:   entity.SeverityCritical,
		Message:    "Harina sin stock",
		TenantID:   "tenant-1",
		ItemID:     "item-1",
		MovementID: "mov-1",
		Stock:      decimal.Zero,
		Threshold:  decimal.NewFromInt(10),
		CreatedAt:  time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC),
	}
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := notify.NewLogPublisher(logger.NewWithWriter(&buf, logger.Config{Level: "info"}))

	require.NoError(t, pub.Publish(context.Background(), sampleAlert()))

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "warn", ev["level"])
	assert.Equal(t, "OUT_OF_STOCK", ev["alert_type"])
	assert.Equal(t, "mov-1", ev["movement_id"])
	assert.Equal(t, "10", ev["threshold"])
	assert.Equal(t, "Harina sin stock", ev["message"])
	assert.NotContains(t, ev, "batch_id")
}

type failing struct{ calls int }

func (f *failing) Publish(context.Context, entity.Alert) error {
	f.calls++
	return errors.New("canal caído")
}

type counting struct{ got []entity.Alert }

func (c *counting) Publish(_ context.Context, a entity.Alert) error {
	c.got = append(c.got, a)
	return nil
}

func TestFanout_ContinuaTrasUnFallo(t *testing.T) {
	bad, good := &failing{}, &counting{}
	err := notify.Fanout{bad, nil, good}.Publish(context.Background(), sampleAlert())
	assert.EqualError(t, err, "canal caído")
	assert.Equal(t, 1, bad.calls)
	assert.Len(t, good.got, 1)

	assert.NoError(t, notify.Fanout{good}.Publish(context.Background(), sampleAlert()))
}

func TestRedisPublisher(t *testing.T) {
	addr := os.Getenv("LEDGER_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEDGER_REDIS_ADDR no definido")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	pub := notify.NewRedisPublisher(rdb, "test-alerts:")
	sub := rdb.Subscribe(ctx, pub.Channel("tenant-1"))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, sampleAlert()))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	assert.Equal(t, "OUT_OF_STOCK", payload["type"])
	assert.Equal(t, "10", payload["threshold"])
}
