package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
)

// table keeps rows in insertion order. All tables of a Store share one lock
// so multi-table operations are atomic.
type table[T any, K comparable] struct {
	mu     *sync.RWMutex
	schema store.Schema[T, K]
	rows   map[K]T
	order  []K
	next   func() K
}

func newTable[T any, K comparable](mu *sync.RWMutex, s store.Schema[T, K], next func() K) *table[T, K] {
	return &table[T, K]{mu: mu, schema: s, rows: make(map[K]T), next: next}
}

func serial() func() int64 {
	var n int64
	return func() int64 {
		n++
		return n
	}
}

func (t *table[T, K]) Name() string      { return t.schema.Name }
func (t *table[T, K]) Columns() []string { return t.schema.Columns }

// all returns a snapshot; the caller holds the lock.
func (t *table[T, K]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.rows[k])
	}
	return out
}

func (t *table[T, K]) byOwner(userID uuid.UUID) []T {
	var out []T
	for _, k := range t.order {
		v := t.rows[k]
		if t.schema.Owner(&v) == userID {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T, K]) remove(k K) bool {
	if _, ok := t.rows[k]; !ok {
		return false
	}
	delete(t.rows, k)
	for i, o := range t.order {
		if o == k {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T, K]) GetAll(ctx context.Context) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.all(), nil
}

func (t *table[T, K]) ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byOwner(userID), nil
}

func (t *table[T, K]) Get(ctx context.Context, id K) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, apperr.NotFound(t.schema.Table + " record")
	}
	return &v, nil
}

func (t *table[T, K]) Insert(ctx context.Context, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.next != nil {
		t.schema.SetKey(v, t.next())
	}
	k := t.schema.Key(v)
	if _, exists := t.rows[k]; exists {
		return apperr.Conflict("%s record already exists", t.schema.Name)
	}
	t.rows[k] = *v
	t.order = append(t.order, k)
	return nil
}

func (t *table[T, K]) Update(ctx context.Context, v *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := t.schema.Key(v)
	if _, ok := t.rows[k]; !ok {
		return apperr.NotFound(t.schema.Table + " record")
	}
	t.rows[k] = *v
	return nil
}

func (t *table[T, K]) Delete(ctx context.Context, id K) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remove(id), nil
}

func (t *table[T, K]) Dump(ctx context.Context) ([][]any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rows := t.all()
	out := make([][]any, len(rows))
	for i := range rows {
		out[i] = t.schema.Values(&rows[i])
	}
	return out, nil
}
