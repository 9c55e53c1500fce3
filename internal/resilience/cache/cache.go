// Package cache provides keyed memoization of expensive external-call
// results with time-based expiry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Store is the result cache contract. A read past the entry's expiry
// behaves as a miss. Implementations must never surface backend failures
// to the caller; an unavailable cache degrades to a guaranteed miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// Key derives a deterministic cache key from the semantically relevant
// call inputs. Parts are JSON-encoded so that identical requests collapse
// to the same key regardless of incidental differences; map keys are
// sorted by encoding/json.
func Key(prefix string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		// Encoding basic values and structs cannot fail here.
		_ = enc.Encode(p)
	}
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(h.Sum(nil)))
}
