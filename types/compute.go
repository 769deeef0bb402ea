package types

import "context"

/*
ComputeFunc produces the value for a cache miss.

1. Cache checks memory for the derived key -> nothing usable found
2. Cache calls the ComputeFunc
3. The function does the expensive work (DB query, API call, heavy computation)
4. Cache stores the result in memory
5. Cache returns the value

The function runs outside the cache lock, so it may be arbitrarily slow without
stalling other keys. If it returns an error, nothing is stored: the error goes
straight back to the caller and the next lookup computes again.
*/
type ComputeFunc func(ctx context.Context) (any, error)
