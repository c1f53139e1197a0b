package lock_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/lock"
)

func exerciseExclusion(t *testing.T, l ports.TenantLocker) {
	t.Helper()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "tenant-1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestKeyedLocker_Exclusion(t *testing.T) {
	exerciseExclusion(t, lock.NewKeyedLocker())
}

func TestKeyedLocker_ClavesIndependientesYCancelacion(t *testing.T) {
	l := lock.NewKeyedLocker()
	unlockA, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)

	unlockB, err := l.Lock(context.Background(), "b")
	require.NoError(t, err)
	unlockB()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlockA()
	unlockA() // liberar dos veces no bloquea
	again, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	again()
}

func TestKeyedLocker_LiberaClavesSinUso(t *testing.T) {
	l := lock.NewKeyedLocker()
	exerciseExclusion(t, l)
	assert.Equal(t, 0, l.Len())

	unlock, err := l.Lock(context.Background(), "tenant-2")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "tenant-2")
	require.Error(t, err)
	assert.Equal(t, 1, l.Len(), "la espera cancelada no retiene la clave")

	unlock()
	assert.Equal(t, 0, l.Len())
}

// Requiere un Redis accesible: LEDGER_REDIS_ADDR=localhost:6379 go test ./internal/infrastructure/lock
func TestRedisLocker_Exclusion(t *testing.T) {
	addr := os.Getenv("LEDGER_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEDGER_REDIS_ADDR no definido")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(context.Background()).Err())

	exerciseExclusion(t, lock.NewRedisLocker(rdb, "ledger-test:", time.Minute, nil))
}
