package lock

import (
	"context"
	"sync"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/google/uuid"
)

// LocalInvoiceLocker serializes invoice operations within one process. Each
// held invoice owns a one-slot channel; waiters block on it or on ctx.
type LocalInvoiceLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch      chan struct{}
	waiters int
}

// NewLocalInvoiceLocker creates a new LocalInvoiceLocker
func NewLocalInvoiceLocker() *LocalInvoiceLocker {
	return &LocalInvoiceLocker{slots: make(map[string]*slot)}
}

// Lock blocks until the invoice is free or ctx ends
func (l *LocalInvoiceLocker) Lock(ctx context.Context, tenantID, invoiceID uuid.UUID) (func(), error) {
	key := lockKey(tenantID, invoiceID)

	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.waiters++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.leave(key, s)
		})
	}, nil
}

// leave drops the slot once nobody holds or waits for it
func (l *LocalInvoiceLocker) leave(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.waiters--
	if s.waiters == 0 {
		delete(l.slots, key)
	}
}

// Ensure LocalInvoiceLocker implements InvoiceLocker
var _ trade.InvoiceLocker = (*LocalInvoiceLocker)(nil)
