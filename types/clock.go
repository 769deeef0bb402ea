package types

import "time"

/*
Clock abstracts the time source.

Everything interesting in this cache is a function of timestamps: whether an
entry is expired, which entry is least recently used, which one is oldest.
Production code uses the system clock; tests inject a manual clock so time only
advances when the test says it does, and expiry becomes exactly reproducible.
*/
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock: plain time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
