package geolock

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Submissions for nearby points must serialize through the same dedup
// decision, otherwise two concurrent first reports of one issue can both
// miss each other and double-create. The lock key is a coarse grid cell
// derived from the point, held only for the resolve-then-commit window.

const (
	// ~550m of latitude per cell, comfortably above the dedup radius.
	defaultCellDegrees = 0.005
	defaultTTL         = 15 * time.Second
	retryInterval      = 50 * time.Millisecond
)

// CellLock is a short-lived advisory mutex per spatial grid cell, backed by
// redis SETNX. Losing redis degrades to lock-free operation; the race the
// lock closes is an accepted race in the base design, not a safety issue.
type CellLock struct {
	client *redis.Client
	cell   float64
	ttl    time.Duration
}

func New(client *redis.Client) *CellLock {
	return &CellLock{client: client, cell: defaultCellDegrees, ttl: defaultTTL}
}

// CellKey maps a point onto its grid cell lock key.
func (l *CellLock) CellKey(lat, lon float64) string {
	return fmt.Sprintf("geolock:%d:%d",
		int64(math.Floor(lat/l.cell)),
		int64(math.Floor(lon/l.cell)))
}

// Acquire blocks until the cell lock is held or ctx expires. The returned
// release function is always safe to call. When redis is unreachable the
// lock degrades to a no-op with a warning.
func (l *CellLock) Acquire(ctx context.Context, lat, lon float64) (func(), error) {
	key := l.CellKey(lat, lon)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			log.Warnf("cell lock unavailable, continuing without: %v", err)
			return func() {}, nil
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// release deletes the lock only if we still own it; an expired lock may have
// been re-acquired by another submission.
func (l *CellLock) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	val, err := l.client.Get(ctx, key).Result()
	if err != nil || val != token {
		return
	}
	if err := l.client.Del(ctx, key).Err(); err != nil {
		log.Warnf("cell lock release failed for %s: %v", key, err)
	}
}
