package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	memocache "github.com/memocache/memocache"
	"github.com/memocache/memocache/eviction"
	cachemetrics "github.com/memocache/memocache/metrics"
)

/*
This binary hammers the cache with a configurable workload and reports
throughput and hit rate. Configuration comes from the environment (or a .env
file in the working directory):

	BENCH_SHARDS        number of shards, 1 = single-store cache (default 1)
	BENCH_CAPACITY      max entries (default 100000)
	BENCH_KEYSPACE      distinct keys the workload cycles through (default 150000)
	BENCH_GOROUTINES    concurrent workers (default 200)
	BENCH_OPS           operations per worker (default 5000)
	BENCH_POLICY        LRU | LFU | FIFO (default LRU)
	BENCH_TTL           entry lifetime, e.g. 60s, 0 = no expiry (default 0)
	BENCH_COMPUTE_COST  simulated computation latency (default 0)
	BENCH_RATE_LIMIT    global ops/sec cap, 0 = unlimited (default 0)
	BENCH_SINGLE_FLIGHT 1 = deduplicate concurrent computations (default 0)
	METRICS_ADDR        serve Prometheus metrics here, e.g. :9091 (default off)

A keyspace larger than capacity keeps eviction constantly active, which is the
interesting regime.
*/

type benchConfig struct {
	shards       int
	capacity     int
	keyspace     int
	goroutines   int
	opsPerWorker int
	policy       eviction.PolicyType
	ttl          time.Duration
	computeCost  time.Duration
	rateLimit    int
	singleFlight bool
	metricsAddr  string
}

func loadConfig() benchConfig {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	return benchConfig{
		shards:       envInt("BENCH_SHARDS", 1),
		capacity:     envInt("BENCH_CAPACITY", 100000),
		keyspace:     envInt("BENCH_KEYSPACE", 150000),
		goroutines:   envInt("BENCH_GOROUTINES", 200),
		opsPerWorker: envInt("BENCH_OPS", 5000),
		policy:       eviction.PolicyType(envString("BENCH_POLICY", "LRU")),
		ttl:          envDuration("BENCH_TTL", 0),
		computeCost:  envDuration("BENCH_COMPUTE_COST", 0),
		rateLimit:    envInt("BENCH_RATE_LIMIT", 0),
		singleFlight: envInt("BENCH_SINGLE_FLIGHT", 0) == 1,
		metricsAddr:  envString("METRICS_ADDR", ""),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := loadConfig()
	ctx := context.Background()

	logger.Info("benchmark starting",
		"shards", cfg.shards,
		"capacity", cfg.capacity,
		"keyspace", cfg.keyspace,
		"goroutines", cfg.goroutines,
		"ops_per_worker", cfg.opsPerWorker,
		"policy", string(cfg.policy),
		"ttl", cfg.ttl,
		"single_flight", cfg.singleFlight,
	)

	// Export live counters while the benchmark runs, if asked to.
	reg := prometheus.NewRegistry()
	promSink := cachemetrics.NewPrometheus(reg, "memocache", "bench")
	if cfg.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("metrics endpoint up", "addr", cfg.metricsAddr)
	}

	opts := []memocache.Option{
		memocache.WithMaxSize(cfg.capacity),
		memocache.WithEvictionPolicy(cfg.policy),
		memocache.WithMetrics(promSink),
	}
	if cfg.ttl > 0 {
		opts = append(opts, memocache.WithTTL(cfg.ttl))
	}
	if cfg.singleFlight {
		opts = append(opts, memocache.WithSingleFlight())
	}

	var c memocache.Cache
	var err error
	if cfg.shards > 1 {
		c, err = memocache.NewSharded(cfg.shards, opts...)
	} else {
		c, err = memocache.New(opts...)
	}
	if err != nil {
		logger.Error("cache construction failed", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	// One global limiter shared by all workers, so BENCH_RATE_LIMIT caps the
	// whole process rather than each goroutine.
	var limiter *rate.Limiter
	if cfg.rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.rateLimit), cfg.rateLimit)
	}

	compute := func(n int) memocache.ComputeFunc {
		return func(ctx context.Context) (any, error) {
			if cfg.computeCost > 0 {
				time.Sleep(cfg.computeCost)
			}
			return n * n, nil
		}
	}

	logger.Info("running workload")
	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(cfg.goroutines)
	for w := 0; w < cfg.goroutines; w++ {
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < cfg.opsPerWorker; i++ {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}
				// Offsetting by worker spreads the walk so workers are not in
				// lockstep on the same key.
				n := (worker*7919 + i) % cfg.keyspace
				if _, err := c.GetOrCompute(ctx, []any{"bench", n}, compute(n)); err != nil {
					logger.Error("lookup failed", "key", n, "error", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)
	totalOps := cfg.goroutines * cfg.opsPerWorker
	stats := c.Stats()

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", elapsed)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/elapsed.Seconds())
	fmt.Printf("Hits             : %d\n", stats.Hits)
	fmt.Printf("Misses           : %d\n", stats.Misses)
	fmt.Printf("Evictions        : %d\n", stats.Evictions)
	fmt.Printf("Hit Rate         : %.2f%%\n", stats.HitRate()*100)
	fmt.Printf("Final Size       : %d\n", stats.Size)
	fmt.Println("=========================================")
}
