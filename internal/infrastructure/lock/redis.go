package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Libera solo si el token coincide, para no soltar un candado ajeno tras expirar el TTL.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker candado distribuido (SET NX PX) para varias réplicas de la API.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	log    *logger.Logger
}

var _ ports.TenantLocker = (*RedisLocker)(nil)

// NewRedisLocker crea el locker. ttl acota cuánto dura un candado si el proceso muere.
func NewRedisLocker(rdb *redis.Client, prefix string, ttl time.Duration, log *logger.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisLocker{rdb: rdb, prefix: prefix, ttl: ttl, retry: 100 * time.Millisecond, log: log}
}

// Lock reintenta SET NX hasta obtener el candado o hasta que ctx se cancele.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	full := l.prefix + key
	token := uuid.New().String()
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, full, token, l.ttl).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("redis lock %s: %w", full, err)
		}
		if ok {
			return func() {
				// contexto propio: el del request puede estar cancelado al liberar
				rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := releaseScript.Run(rctx, l.rdb, []string{full}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
					l.log.Warn().Err(err).Str("key", full).Msg("no se pudo liberar el candado")
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
