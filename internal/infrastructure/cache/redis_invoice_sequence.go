package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// A period counter outlives its month long enough for late retries.
const invoiceSequenceTTL = 40 * 24 * time.Hour

// seedAndIncr starts the counter at ARGV[1] when it does not exist yet, then
// increments it. Running it as one script keeps concurrent first calls from
// both seeding.
var seedAndIncr = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])
end
return redis.call('INCR', KEYS[1])
`)

// SequenceSeeder reports how many numbers a period already used, so a fresh
// Redis counter continues after invoices numbered by the database
type SequenceSeeder func(ctx context.Context, tenantID uuid.UUID, period string) (int64, error)

// RedisInvoiceSequence allocates invoice sequence numbers with INCR. Numbers
// taken by a transaction that later rolls back are not returned, so the
// series can have gaps.
type RedisInvoiceSequence struct {
	client    *redis.Client
	keyPrefix string
	seeder    SequenceSeeder
}

// NewRedisInvoiceSequence creates a sequence on client. seeder may be nil.
func NewRedisInvoiceSequence(client *redis.Client, seeder SequenceSeeder) *RedisInvoiceSequence {
	return &RedisInvoiceSequence{
		client:    client,
		keyPrefix: "invoice:seq:",
		seeder:    seeder,
	}
}

// Next returns the next number of tenantID's period
func (s *RedisInvoiceSequence) Next(ctx context.Context, tenantID uuid.UUID, period string) (int64, error) {
	if tenantID == uuid.Nil {
		return 0, fmt.Errorf("invoice sequence: tenant ID cannot be empty")
	}
	key := fmt.Sprintf("%s%s:%s", s.keyPrefix, tenantID, period)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("invoice sequence: %w", err)
	}
	if exists > 0 {
		return s.client.Incr(ctx, key).Result()
	}

	var base int64
	if s.seeder != nil {
		if base, err = s.seeder(ctx, tenantID, period); err != nil {
			return 0, fmt.Errorf("invoice sequence: seed %s: %w", period, err)
		}
	}
	n, err := seedAndIncr.Run(ctx, s.client, []string{key}, base, int64(invoiceSequenceTTL/time.Second)).Int64()
	if err != nil {
		return 0, fmt.Errorf("invoice sequence: %w", err)
	}
	return n, nil
}

// Ensure RedisInvoiceSequence implements InvoiceSequence
var _ trade.InvoiceSequence = (*RedisInvoiceSequence)(nil)
