package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	memocache "github.com/memocache/memocache"
	"github.com/memocache/memocache/eviction"
	"github.com/memocache/memocache/types"
)

// This is a walkthrough of the cache's behavior, scenario by scenario.
// Run it with: go run ./cmd

func main() {
	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("EVICTION POLICY : LRU")
	fmt.Println("CAPACITY        : 3 entries")
	fmt.Println("TTL             : 2s after write")

	computations := atomic.NewInt32(0)

	cache, err := memocache.New(
		memocache.WithMaxSize(3),
		memocache.WithTTL(2*time.Second),
		memocache.WithEvictionPolicy(eviction.LRU),
		memocache.WithOnEvict(func(key string, value any, reason types.EvictReason) {
			fmt.Printf("OBSERVER  → removed %s = %v (%s)\n", key, value, reason)
		}),
	)
	if err != nil {
		panic(err)
	}

	// square pretends to be an expensive computation worth memoizing.
	square := func(n int) memocache.ComputeFunc {
		return func(ctx context.Context) (any, error) {
			computations.Inc()
			fmt.Println("COMPUTE   → square", n)
			time.Sleep(50 * time.Millisecond)
			return n * n, nil
		}
	}

	// ====================================================
	fmt.Println("\n==================== 1) CACHE MISS ====================")
	v, _ := cache.GetOrCompute(ctx, []any{"square", 7}, square(7))
	fmt.Println("CACHE     → square(7) =", v)

	// ====================================================
	fmt.Println("\n==================== 2) CACHE HIT ====================")
	v, _ = cache.GetOrCompute(ctx, []any{"square", 7}, square(7))
	fmt.Println("CACHE     → square(7) =", v, "(no computation)")

	// ====================================================
	fmt.Println("\n==================== 3) KEY SENSITIVITY ====================")
	v, _ = cache.GetOrCompute(ctx, []any{"square", 8}, square(8))
	fmt.Println("CACHE     → square(8) =", v)
	fmt.Println("CACHE     → contains [square 7]?", cache.Contains([]any{"square", 7}))
	fmt.Println("CACHE     → contains [7 square]?", cache.Contains([]any{7, "square"}), "(order matters)")

	// ====================================================
	fmt.Println("\n==================== 4) TTL EXPIRATION ====================")
	time.Sleep(2100 * time.Millisecond)
	v, _ = cache.GetOrCompute(ctx, []any{"square", 7}, square(7))
	fmt.Println("CACHE     → square(7) after TTL =", v, "(recomputed)")

	// ====================================================
	fmt.Println("\n==================== 5) CAPACITY EVICTION ====================")
	for i := 1; i <= 5; i++ {
		_, _ = cache.GetOrCompute(ctx, []any{"square", i}, square(i))
	}
	fmt.Println("CACHE     → size after 5 inserts =", cache.Size())

	// ====================================================
	fmt.Println("\n==================== 6) FAILED COMPUTATION ====================")
	_, err = cache.GetOrCompute(ctx, []any{"broken"}, func(ctx context.Context) (any, error) {
		return nil, errors.New("upstream unavailable")
	})
	fmt.Println("CACHE     → error surfaced:", err)
	fmt.Println("CACHE     → contains [broken]?", cache.Contains([]any{"broken"}), "(failures are not cached)")

	// ====================================================
	fmt.Println("\n==================== 7) SINGLE-FLIGHT ====================")

	sfCache, err := memocache.New(memocache.WithSingleFlight())
	if err != nil {
		panic(err)
	}

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, _ := sfCache.GetOrCompute(ctx, []any{"report", "2026-08"}, func(ctx context.Context) (any, error) {
				fmt.Println("COMPUTE   → monthly report (should print once)")
				time.Sleep(100 * time.Millisecond)
				return "report-ready", nil
			})
			fmt.Printf("GOROUTINE-%d → report = %v\n", id, val)
		}(i)
	}
	wg.Wait()

	// ====================================================
	fmt.Println("\n==================== 8) MEMOIZED FUNCTION ====================")

	greet := memocache.Wrap(sfCache, func(ctx context.Context, name string) (string, error) {
		if name == "" {
			return "", errors.New("empty name")
		}
		fmt.Println("COMPUTE   → greeting for", name)
		return "hello, " + name, nil
	})

	g, _ := greet(ctx, "ada")
	fmt.Println("WRAP      →", g)
	g, _ = greet(ctx, "ada")
	fmt.Println("WRAP      →", g, "(cached)")

	// ====================================================
	fmt.Println("\n==================== 9) INVALIDATE ====================")
	fmt.Println("CACHE     → invalidated?", cache.Invalidate([]any{"square", 5}))
	fmt.Println("CACHE     → invalidated again?", cache.Invalidate([]any{"square", 5}), "(idempotent)")

	// ====================================================
	stats := cache.Stats()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS         : %d\n", stats.Hits)
	fmt.Printf("MISSES       : %d\n", stats.Misses)
	fmt.Printf("EVICTIONS    : %d\n", stats.Evictions)
	fmt.Printf("EXPIRED      : %d\n", stats.Expirations)
	fmt.Printf("HIT RATE     : %.2f\n", stats.HitRate())
	fmt.Printf("COMPUTATIONS : %d\n", computations.Load())

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	cache.Close()
	sfCache.Close()
	fmt.Println("SYSTEM    → caches closed cleanly")
}
