// Package lock serializes mutations of a single invoice across requests.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultLockTTL   = 30 * time.Second
	defaultLockWait  = 5 * time.Second
	lockRetryBackoff = 50 * time.Millisecond
)

// RedisInvoiceLocker holds a Redis lock per invoice for the length of an operation,
// so Update, Delete and RecordPayment on one invoice queue up across instances
type RedisInvoiceLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisInvoiceLocker creates a locker on client
func NewRedisInvoiceLocker(client *redis.Client, logger *zap.Logger) *RedisInvoiceLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisInvoiceLocker{
		locker: redislock.New(client),
		ttl:    defaultLockTTL,
		wait:   defaultLockWait,
		logger: logger,
	}
}

// SetTTL bounds how long a lock survives a crashed holder
func (l *RedisInvoiceLocker) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		l.ttl = ttl
	}
}

// Lock obtains the invoice's lock, retrying until the wait budget or ctx runs out
func (l *RedisInvoiceLocker) Lock(ctx context.Context, tenantID, invoiceID uuid.UUID) (func(), error) {
	key := lockKey(tenantID, invoiceID)

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lk, err := l.locker.Obtain(waitCtx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(lockRetryBackoff),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, shared.NewDomainErrorf(shared.CodeConcurrencyConflict,
			"Invoice %s is being modified by another request", invoiceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain invoice lock: %w", err)
	}

	return func() {
		if err := lk.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release invoice lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func lockKey(tenantID, invoiceID uuid.UUID) string {
	return fmt.Sprintf("lock:invoice:%s:%s", tenantID, invoiceID)
}

// Ensure RedisInvoiceLocker implements InvoiceLocker
var _ trade.InvoiceLocker = (*RedisInvoiceLocker)(nil)
