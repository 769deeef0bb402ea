package shard

import "hash/fnv"

/*
This file decides HOW a cache key is assigned to a shard.

A sharded cache is only useful if keys spread evenly: if every request landed
on the same shard, its lock would become the bottleneck the sharding was meant
to remove. Shard selection is about:
- Load balancing
- Avoiding hot spots
- Keeping a key on the SAME shard every time, so lookups find what earlier
  lookups stored
*/

/*
Selector is the interface that decides which of n shards handles a given key.
The cache does not care HOW this decision is made, only that it is
deterministic per key. Different strategies can be plugged in.
*/
type Selector interface {
	Pick(key string, n int) int
}

/*
FNVSelector routes by hashing the key with FNV-1a and taking the result modulo
the shard count. FNV is a fast, non-cryptographic hash commonly used in
systems like this; derived cache keys have enough structure that it spreads
them evenly.
*/
type FNVSelector struct{}

func (FNVSelector) Pick(key string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
