package memocache

import (
	"context"
	"fmt"
)

/*
Wrap turns a one-argument function into a memoized version of itself, backed
by c. The wrapped function and the original are interchangeable: same
signature, same results. The difference is that repeated calls with an equal
argument return the cached result instead of running fn again.

	lookup := memocache.Wrap(c, fetchUser)
	u, err := lookup(ctx, "user-42") // computes
	u, err = lookup(ctx, "user-42")  // cached

The argument must be derivable by the cache's key deriver. Functions with
more than one argument memoize through GetOrCompute directly, passing all
arguments as the input sequence.

Several wrapped functions can share one cache; if their argument types are
ambiguous to the deriver (say, both take plain strings), give each its own
cache or they will read each other's results.
*/
func Wrap[A any, R any](c Cache, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		v, err := c.GetOrCompute(ctx, []any{arg}, func(ctx context.Context) (any, error) {
			return fn(ctx, arg)
		})
		if err != nil {
			var zero R
			return zero, err
		}
		r, ok := v.(R)
		if !ok {
			var zero R
			return zero, fmt.Errorf("memocache: cached value is %T, not %T", v, zero)
		}
		return r, nil
	}
}
