package status

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"chargepay/internal/gateway"
)

// SnapshotCache keeps the latest snapshot per transaction id in Redis so
// status reads can be served without a gateway round trip. It is a Sink:
// every snapshot a session applies lands here.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSnapshotCache(rdb *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SnapshotCache{rdb: rdb, ttl: ttl}
}

func cacheKey(transactionID string) string {
	return "chargepay:snapshot:" + transactionID
}

// OnSnapshot stores snap as the latest state for its transaction. Cache
// writes are best effort; a failed write only costs a later gateway hit.
func (c *SnapshotCache) OnSnapshot(ctx context.Context, snap gateway.TransactionSnapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", snap.ID).Msg("snapshot cache: marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(snap.ID), b, c.ttl).Err(); err != nil {
		log.Error().Err(err).Str("transaction_id", snap.ID).Msg("snapshot cache: write failed")
	}
}

// Get returns the cached snapshot for transactionID, ok=false on a miss.
func (c *SnapshotCache) Get(ctx context.Context, transactionID string) (gateway.TransactionSnapshot, bool) {
	b, err := c.rdb.Get(ctx, cacheKey(transactionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Error().Err(err).Str("transaction_id", transactionID).Msg("snapshot cache: read failed")
		}
		return gateway.TransactionSnapshot{}, false
	}
	var snap gateway.TransactionSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("snapshot cache: bad payload")
		return gateway.TransactionSnapshot{}, false
	}
	return snap, true
}
