package timer

import (
	"context"
	"time"
)

// Drive calls tick immediately and then on every interval, from the calling
// goroutine, until tick reports done or ctx ends. The ticker is stopped
// before Drive returns, so no tick can arrive afterwards.
func Drive(ctx context.Context, interval time.Duration, tick func() (done bool)) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		if tick() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
