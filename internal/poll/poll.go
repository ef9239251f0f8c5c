// Package poll retries a check on a fixed interval while it stays relevant.
package poll

import (
	"context"
	"time"
)

// DefaultInterval is roughly one display frame.
const DefaultInterval = 16 * time.Millisecond

// Until calls attempt immediately and then every interval until it returns
// true. valid is checked before every attempt; Until gives up as soon as it
// returns false or ctx is done, and reports whether attempt succeeded.
func Until(ctx context.Context, interval time.Duration, attempt func() bool, valid func() bool) bool {
	if valid != nil && !valid() {
		return false
	}
	if attempt() {
		return true
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
		if valid != nil && !valid() {
			return false
		}
		if attempt() {
			return true
		}
	}
}
