// Package feed fans whole-collection snapshots out to per-user subscribers.
//
// Every Subscribe returns a Subscription that the caller must Close when the
// consumer goes away (sign-out, page teardown, websocket close). Delivery is
// synchronous and ordered per key: a Publish returns only after every
// current subscriber for the key has seen the snapshot. Keys never wait on
// each other. Callbacks must not
// call back into the broker.
package feed

import (
	"sync"
)

// Broker delivers snapshots of type T keyed by user ID.
type Broker[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]func(T)
	// per-key locks serializing callbacks so snapshots arrive in publish order
	deliver map[string]*sync.Mutex
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs:    make(map[string]map[uint64]func(T)),
		deliver: make(map[string]*sync.Mutex),
	}
}

func (b *Broker[T]) deliverLock(key string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	lock, ok := b.deliver[key]
	if !ok {
		lock = &sync.Mutex{}
		b.deliver[key] = lock
	}
	return lock
}

// Subscription is the handle returned by Subscribe. Close detaches the
// callback; after Close returns the callback is never invoked again.
type Subscription struct {
	once  sync.Once
	close func()
}

func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.close)
}

// Subscribe registers fn for key.
func (b *Broker[T]) Subscribe(key string, fn func(T)) *Subscription {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[key] == nil {
		b.subs[key] = make(map[uint64]func(T))
	}
	b.subs[key][id] = fn
	b.mu.Unlock()

	return &Subscription{close: func() {
		// taking the key's lock guarantees no in-flight callback after Close
		lock := b.deliverLock(key)
		lock.Lock()
		defer lock.Unlock()

		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[key], id)
		if len(b.subs[key]) == 0 {
			delete(b.subs, key)
		}
	}}
}

// SubscribeWith registers fn and hands it the snapshot returned by load
// before any later Publish or Refresh can reach it.
func (b *Broker[T]) SubscribeWith(key string, fn func(T), load func() (T, error)) (*Subscription, error) {
	lock := b.deliverLock(key)
	lock.Lock()
	snapshot, err := load()
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	sub := b.Subscribe(key, fn)
	fn(snapshot)
	lock.Unlock()
	return sub, nil
}

// Publish delivers snapshot to every subscriber of key.
func (b *Broker[T]) Publish(key string, snapshot T) {
	lock := b.deliverLock(key)
	lock.Lock()
	defer lock.Unlock()
	b.publishLocked(key, snapshot)
}

// Refresh loads a fresh snapshot and publishes it. Loading happens under the
// key's delivery lock, so subscribers never see an older snapshot after a
// newer one. load is skipped when nobody is subscribed.
func (b *Broker[T]) Refresh(key string, load func() (T, error)) error {
	lock := b.deliverLock(key)
	lock.Lock()
	defer lock.Unlock()

	if b.Subscribers(key) == 0 {
		return nil
	}
	snapshot, err := load()
	if err != nil {
		return err
	}
	b.publishLocked(key, snapshot)
	return nil
}

func (b *Broker[T]) publishLocked(key string, snapshot T) {
	b.mu.Lock()
	fns := make([]func(T), 0, len(b.subs[key]))
	for _, fn := range b.subs[key] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// Subscribers returns how many subscriptions are open for key.
func (b *Broker[T]) Subscribers(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[key])
}

// Close drops every subscription. Handles already returned become no-ops.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	locks := make([]*sync.Mutex, 0, len(b.deliver))
	for _, lock := range b.deliver {
		locks = append(locks, lock)
	}
	b.mu.Unlock()

	// Wait out in-flight deliveries
	for _, lock := range locks {
		lock.Lock()
	}
	defer func() {
		for _, lock := range locks {
			lock.Unlock()
		}
	}()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string]map[uint64]func(T))
}
