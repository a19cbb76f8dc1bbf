package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// QueryOptions configures a Query cache.
type QueryOptions struct {
	// Size bounds the number of cached keys.
	Size int
	// TTL is how long a cached result is served without refetching.
	TTL time.Duration
}

// Query fetches data for a key, caches it per key and keeps the last
// successful data visible while a newer key loads or fails.
type Query[K comparable, T any] struct {
	fetch func(context.Context, K) (T, error)
	cache *expirable.LRU[K, T]
	group singleflight.Group

	mu     sync.Mutex
	key    K
	hasKey bool
	state  State[T]
}

// NewQuery creates a Query around fetch.
func NewQuery[K comparable, T any](fetch func(context.Context, K) (T, error), opts QueryOptions) *Query[K, T] {
	if opts.Size <= 0 {
		opts.Size = 32
	}
	return &Query[K, T]{
		fetch: fetch,
		cache: expirable.NewLRU[K, T](opts.Size, nil, opts.TTL),
	}
}

// Fetch returns the data for key, from cache when fresh. Concurrent fetches
// of the same key share one request.
func (q *Query[K, T]) Fetch(ctx context.Context, key K) (T, error) {
	if cached, ok := q.cache.Get(key); ok {
		q.mu.Lock()
		q.key, q.hasKey = key, true
		q.state = State[T]{Status: StatusSuccess, Data: cached, HasData: true, UpdatedAt: time.Now()}
		q.mu.Unlock()
		return cached, nil
	}

	q.mu.Lock()
	q.key, q.hasKey = key, true
	q.state.Status = StatusPending
	q.state.Err = nil
	q.state.Placeholder = q.state.HasData
	q.mu.Unlock()

	// The shared request is detached from any one caller's context: a caller
	// that gives up stops waiting without failing the others. The client
	// timeout still bounds it.
	detached := context.WithoutCancel(ctx)
	ch := q.group.DoChan(fmt.Sprintf("%#v", key), func() (interface{}, error) {
		data, err := q.fetch(detached, key)
		if err == nil {
			q.cache.Add(key, data)
		}
		q.settle(key, data, err)
		if err != nil {
			return nil, err
		}
		return data, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// settle records the outcome of a fetch when key is still the latest one
// requested.
func (q *Query[K, T]) settle(key K, data T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.key != key {
		return
	}
	if err != nil {
		q.state.Status = StatusError
		q.state.Err = err
		q.state.UpdatedAt = time.Now()
		return
	}
	q.state = State[T]{Status: StatusSuccess, Data: data, HasData: true, UpdatedAt: time.Now()}
}

// State returns the state of the most recently requested key.
func (q *Query[K, T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Key returns the most recently requested key.
func (q *Query[K, T]) Key() (K, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.key, q.hasKey
}

// Invalidate drops every cached result. The visible state is kept.
func (q *Query[K, T]) Invalidate() {
	q.cache.Purge()
}
