package keys

// This file implements the default key derivation scheme.

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
)

/*
StructuralDeriver encodes the whole input sequence as one canonical JSON array
and uses the encoding (or a digest of it) as the key.

Why JSON?
---------
- The array form preserves order and inserts separators, so ["ab"] and
  ["a","b"] can never collide the way naive concatenation would.
- Map keys are sorted during marshalling, so two structurally equal maps
  always encode identically no matter how they were built.
- Type information survives where it matters: the string "1" encodes as "\"1\""
  while the number 1 encodes as "1".

Inputs the encoder rejects (functions, channels, cycles) come back as a
*DerivationError. That is deterministic too: the same bad input always fails,
it never silently maps to a shared key.
*/
type StructuralDeriver struct {
	// MaxRawLen bounds how long a key may stay in readable encoded form.
	// Longer encodings are replaced by an xxhash-64 digest so huge argument
	// lists do not bloat the store. Zero means DefaultMaxRawLen.
	MaxRawLen int
}

// DefaultMaxRawLen is the raw-form cutoff used by NewDeriver.
const DefaultMaxRawLen = 128

// digestPrefix marks digested keys. Raw keys always start with '[', so the
// two forms can never collide with each other.
const digestPrefix = "x:"

func NewDeriver() *StructuralDeriver {
	return &StructuralDeriver{MaxRawLen: DefaultMaxRawLen}
}

// Derive implements Deriver.
func (d *StructuralDeriver) Derive(inputs []any) (string, error) {
	if inputs == nil {
		inputs = []any{}
	}
	enc, err := json.Marshal(inputs)
	if err != nil {
		return "", &DerivationError{Err: err}
	}

	limit := d.MaxRawLen
	if limit <= 0 {
		limit = DefaultMaxRawLen
	}
	if len(enc) <= limit {
		return string(enc), nil
	}
	return digestPrefix + strconv.FormatUint(xxhash.Sum64(enc), 16), nil
}
