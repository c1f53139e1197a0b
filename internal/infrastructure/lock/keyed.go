// Package lock implementa ports.TenantLocker en proceso y sobre Redis.
package lock

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
)

// KeyedLocker mutex por clave dentro del proceso. Sirve cuando hay una sola réplica de la API.
// Una clave sin dueño ni esperas se elimina del mapa.
type KeyedLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int // dueño + esperando
}

var _ ports.TenantLocker = (*KeyedLocker)(nil)

// NewKeyedLocker crea el locker en proceso.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{slots: make(map[string]*slot)}
}

func (l *KeyedLocker) acquire(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *KeyedLocker) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Lock espera el candado de key o la cancelación de ctx.
func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	s := l.acquire(key)
	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.release(key, s)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, s)
		return nil, ctx.Err()
	}
}

// Len claves retenidas (dueño o esperas).
func (l *KeyedLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
