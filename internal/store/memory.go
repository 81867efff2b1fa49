// Package store provides an in-memory implementation of the escrow
// storage handle. It backs the engine in tests and in the memory
// driver mode of the server, where no MySQL instance is available.
package store

import (
	"context"
	"sync"

	"github.com/Vaishnavi024/escrow-marketplace/internal/escrow"
	"github.com/Vaishnavi024/escrow-marketplace/internal/model"
)

// Memory holds items and balances in maps guarded by a single mutex.
// Update stages all mutations on copies and swaps them in only when
// the unit of work returns nil, so a failed call leaves no partial
// effect, the same all-or-nothing visibility the MySQL store gets
// from transactions.
type Memory struct {
	mu       sync.Mutex
	items    map[string]model.Item
	balances map[string]uint64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		items:    make(map[string]model.Item),
		balances: make(map[string]uint64),
	}
}

func (m *Memory) Update(ctx context.Context, fn func(tx escrow.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{
		items:    cloneItems(m.items),
		balances: cloneBalances(m.balances),
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.items = tx.items
	m.balances = tx.balances
	return nil
}

func (m *Memory) View(ctx context.Context, fn func(tx escrow.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Reads run against copies as well; any stray mutation is discarded.
	tx := &memTx{
		items:    cloneItems(m.items),
		balances: cloneBalances(m.balances),
	}
	return fn(tx)
}

func cloneItems(src map[string]model.Item) map[string]model.Item {
	dst := make(map[string]model.Item, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneBalances(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type memTx struct {
	items    map[string]model.Item
	balances map[string]uint64
}

func (t *memTx) GetItem(ctx context.Context, name string) (*model.Item, error) {
	item, ok := t.items[name]
	if !ok {
		return nil, escrow.ErrNotFound
	}
	return &item, nil
}

func (t *memTx) CreateItem(ctx context.Context, item *model.Item) error {
	if _, ok := t.items[item.Name]; ok {
		return escrow.ErrAlreadyListed
	}
	t.items[item.Name] = *item
	return nil
}

func (t *memTx) UpdateItem(ctx context.Context, item *model.Item) error {
	if _, ok := t.items[item.Name]; !ok {
		return escrow.ErrNotFound
	}
	t.items[item.Name] = *item
	return nil
}

func (t *memTx) GetBalance(ctx context.Context, owner string) (uint64, error) {
	return t.balances[owner], nil
}

func (t *memTx) CreditBalance(ctx context.Context, owner string, amount uint64) error {
	t.balances[owner] += amount
	return nil
}

func (t *memTx) DrainBalance(ctx context.Context, owner string) (uint64, error) {
	amount := t.balances[owner]
	delete(t.balances, owner)
	return amount, nil
}
