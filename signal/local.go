package signal

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// LocalBus is an in-process [Bus] with synchronous delivery. It is the
// default bus and the standard fake in tests.
type LocalBus struct {
	mu   sync.RWMutex
	subs map[Kind]map[string]func(Kind)
}

// NewLocalBus creates an empty in-process bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[Kind]map[string]func(Kind))}
}

// Publish implements [Bus]. Every subscriber for kind is invoked before
// Publish returns.
func (b *LocalBus) Publish(_ context.Context, kind Kind) error {
	b.mu.RLock()
	fns := make([]func(Kind), 0, len(b.subs[kind]))
	for _, fn := range b.subs[kind] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(kind)
	}
	return nil
}

// Subscribe implements [Bus].
func (b *LocalBus) Subscribe(kind Kind, fn func(Kind)) (cancel func()) {
	id := uuid.NewString()

	b.mu.Lock()
	if b.subs[kind] == nil {
		b.subs[kind] = make(map[string]func(Kind))
	}
	b.subs[kind][id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[kind], id)
			b.mu.Unlock()
		})
	}
}
