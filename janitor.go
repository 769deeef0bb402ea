package memocache

import "time"

/*
This file implements the optional cleanup janitor.

Expiration in this cache is lazy: a stale entry is discovered when its key is
looked up again. That is cheap, but a cache full of one-shot keys with a TTL
would hold dead entries until capacity pressure pushes them out. The janitor
closes that gap by sweeping on a timer.

The ticker runs on wall-clock time even when a manual clock is injected; the
injected clock decides WHETHER entries are stale, the ticker only decides how
often anyone asks.
*/

// startJanitor runs sweep every interval until the returned stop function is
// called. Stop is idempotent only through the caller (Close's once guard).
func startJanitor(interval time.Duration, sweep func()) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
