package store

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store/db"
)

var _ ProductStore = (*MemoryStore)(nil)

// MemoryStore is an in-process ProductStore. Ids come from a counter that
// never goes back, also across rolled back transactions. Transactions are
// serialised; a failed one restores the products it saw at its start.
type MemoryStore struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	products map[int64]db.Product
	lastID   int64
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]db.Product),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (m *MemoryStore) FindByID(_ context.Context, id int64) (*db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	return clone(p), nil
}

func (m *MemoryStore) FindByNameIgnoreCase(_ context.Context, name string) (*db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.findByNameLocked(name, 0); ok {
		return clone(p), nil
	}
	return nil, catalogerrors.ErrProductNotFound
}

func (m *MemoryStore) ExistsByNameIgnoreCase(_ context.Context, name string, excludeID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.findByNameLocked(name, excludeID)
	return ok, nil
}

func (m *MemoryStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.products[id]
	return ok, nil
}

func (m *MemoryStore) Create(_ context.Context, params db.CreateProductParams) (*db.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.findByNameLocked(params.Name, 0); taken {
		return nil, &catalogerrors.DuplicateNameError{Name: params.Name}
	}
	m.lastID++
	now := m.now()
	p := db.Product{
		ID:          m.lastID,
		Name:        params.Name,
		Price:       params.Price,
		Description: copyString(params.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.products[p.ID] = p
	return clone(p), nil
}

func (m *MemoryStore) Update(_ context.Context, params db.UpdateProductParams) (*db.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[params.ID]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	if _, taken := m.findByNameLocked(params.Name, params.ID); taken {
		return nil, &catalogerrors.DuplicateNameError{Name: params.Name}
	}
	now := m.now()
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Microsecond)
	}
	p.Name = params.Name
	p.Price = params.Price
	p.Description = copyString(params.Description)
	p.UpdatedAt = now
	m.products[p.ID] = p
	return clone(p), nil
}

func (m *MemoryStore) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return catalogerrors.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MemoryStore) FindPage(_ context.Context, offset, limit int32) ([]db.Product, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.sortedLocked(nil)
	total := int64(len(all))
	start := min(max(int(offset), 0), len(all))
	end := min(start+max(int(limit), 0), len(all))
	return all[start:end], total, nil
}

func (m *MemoryStore) FindAll(_ context.Context) ([]db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(nil), nil
}

func (m *MemoryStore) SearchByName(_ context.Context, fragment string) ([]db.Product, error) {
	needle := strings.ToLower(fragment)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(func(p db.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (m *MemoryStore) WithinTx(_ context.Context, fn func(tx ProductStore) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.RLock()
	snapshot := maps.Clone(m.products)
	m.mu.RUnlock()

	if err := fn(memoryTx{m}); err != nil {
		m.mu.Lock()
		m.products = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// memoryTx is the store handed to a WithinTx callback; nested calls join the running transaction.
type memoryTx struct {
	*MemoryStore
}

func (t memoryTx) WithinTx(_ context.Context, fn func(tx ProductStore) error) error {
	return fn(t)
}

func (m *MemoryStore) findByNameLocked(name string, excludeID int64) (db.Product, bool) {
	lower := strings.ToLower(name)
	for id, p := range m.products {
		if id != excludeID && strings.ToLower(p.Name) == lower {
			return p, true
		}
	}
	return db.Product{}, false
}

func (m *MemoryStore) sortedLocked(keep func(db.Product) bool) []db.Product {
	ids := slices.Sorted(maps.Keys(m.products))
	out := make([]db.Product, 0, len(ids))
	for _, id := range ids {
		p := m.products[id]
		if keep == nil || keep(p) {
			out = append(out, *clone(p))
		}
	}
	return out
}

func clone(p db.Product) *db.Product {
	p.Description = copyString(p.Description)
	return &p
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
