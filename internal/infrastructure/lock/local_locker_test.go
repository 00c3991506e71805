package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalInvoiceLocker_Serializes(t *testing.T) {
	l := NewLocalInvoiceLocker()
	tenantID, invoiceID := uuid.New(), uuid.New()

	var mu sync.Mutex
	inside, maxInside := 0, 0
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), tenantID, invoiceID)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			maxInside = max(maxInside, inside)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
	assert.Empty(t, l.slots, "slots are dropped once free")
}

func TestLocalInvoiceLocker_DifferentInvoicesDoNotBlock(t *testing.T) {
	l := NewLocalInvoiceLocker()
	tenantID := uuid.New()

	unlockA, err := l.Lock(context.Background(), tenantID, uuid.New())
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, tenantID, uuid.New())
	require.NoError(t, err)
	unlockB()
}

func TestLocalInvoiceLocker_ContextCancelled(t *testing.T) {
	l := NewLocalInvoiceLocker()
	tenantID, invoiceID := uuid.New(), uuid.New()

	unlock, err := l.Lock(context.Background(), tenantID, invoiceID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, tenantID, invoiceID)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op

	again, err := l.Lock(context.Background(), tenantID, invoiceID)
	require.NoError(t, err)
	again()
	assert.Empty(t, l.slots)
}
