package expiration

import (
	"time"

	"github.com/memocache/memocache/types"
)

/*
ExpireAfterAccess implements the cache behavior called "expire after access" or
"sliding TTL". Every time someone reads the entry, the expiration timer is
pushed forward, because the engine refreshes LastAccessedAt on each hit. As
long as the data keeps getting used, it stays alive. If nobody touches it for
TTL, it expires.

Note the consequence: an entry that is read often enough NEVER expires, no
matter how old its value is. That is the opposite guarantee from the default
ExpireAfterWrite, so this strategy has to be selected explicitly.
*/
type ExpireAfterAccess struct {

	// TTL defines how long the entry remains valid AFTER its last read.
	TTL time.Duration
}

func (e ExpireAfterAccess) IsExpired(ent *types.CacheEntry, now time.Time) bool {
	return e.TTL > 0 && now.Sub(ent.LastAccessedAt) >= e.TTL
}
