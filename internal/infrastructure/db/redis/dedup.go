package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// dedupTTL is how long a booking submission is considered a duplicate.
const dedupTTL = 2 * time.Minute

// DedupChecker absorbs duplicate booking submissions using short-lived
// Redis keys. Key format: booking:<guest>:<listing>:<check_in>:<check_out>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether the same guest already submitted this exact
// booking request recently.
func (d *DedupChecker) IsDuplicate(ctx context.Context, guestID, listingID string, checkIn, checkOut time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(guestID, listingID, checkIn, checkOut)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the submission (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, guestID, listingID string, checkIn, checkOut time.Time) error {
	return d.client.Set(ctx, d.key(guestID, listingID, checkIn, checkOut), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(guestID, listingID string, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("booking:%s:%s:%d:%d", guestID, listingID, checkIn.Unix(), checkOut.Unix())
}
