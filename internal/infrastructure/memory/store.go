// Package memory implementa los repositorios del núcleo en memoria.
// Cada transacción trabaja sobre una copia del estado protegida por un mutex global;
// el commit reemplaza el estado y el rollback descarta la copia.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

type state struct {
	items       map[string]entity.Item
	movements   []entity.Movement
	batches     map[string]entity.Batch
	lists       map[string]entity.PurchaseList
	listItems   map[string]entity.PurchaseListItem
	listOrder   map[string][]string
	suggestions []entity.PurchaseSuggestion
	configs     map[string]entity.ReplenishmentConfig
}

func newState() *state {
	return &state{
		items:     make(map[string]entity.Item),
		batches:   make(map[string]entity.Batch),
		lists:     make(map[string]entity.PurchaseList),
		listItems: make(map[string]entity.PurchaseListItem),
		listOrder: make(map[string][]string),
		configs:   make(map[string]entity.ReplenishmentConfig),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:       make(map[string]entity.Item, len(s.items)),
		movements:   append([]entity.Movement(nil), s.movements...),
		batches:     make(map[string]entity.Batch, len(s.batches)),
		lists:       make(map[string]entity.PurchaseList, len(s.lists)),
		listItems:   make(map[string]entity.PurchaseListItem, len(s.listItems)),
		listOrder:   make(map[string][]string, len(s.listOrder)),
		suggestions: append([]entity.PurchaseSuggestion(nil), s.suggestions...),
		configs:     make(map[string]entity.ReplenishmentConfig, len(s.configs)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.lists {
		c.lists[k] = v
	}
	for k, v := range s.listItems {
		c.listItems[k] = v
	}
	for k, v := range s.listOrder {
		c.listOrder[k] = v
	}
	for k, v := range s.configs {
		c.configs[k] = v
	}
	return c
}

// Store almacén en memoria. Implementa ports.TxRunner.
type Store struct {
	mu sync.Mutex
	st *state
}

var _ ports.TxRunner = (*Store)(nil)

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// Repos repositorios fuera de transacción: cada llamada toma el mutex y opera sobre el estado vigente.
func (s *Store) Repos() ports.Repos {
	return reposFor(func(fn func(*state) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.st)
	})
}

// Run ejecuta fn con repositorios sobre una copia del estado. Las transacciones se serializan.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos ports.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	staged := s.st.clone()
	repos := reposFor(func(f func(*state) error) error { return f(staged) })
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = staged
	return nil
}

type access func(fn func(*state) error) error

func reposFor(a access) ports.Repos {
	return ports.Repos{
		Items:         &itemRepo{with: a},
		Movements:     &movementRepo{with: a},
		Batches:       &batchRepo{with: a},
		PurchaseLists: &purchaseListRepo{with: a},
		Suggestions:   &suggestionRepo{with: a},
		Configs:       &configRepo{with: a},
	}
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
