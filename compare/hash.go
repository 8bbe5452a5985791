package compare

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zeebo/blake3"

	"github.com/xtalgo/xtal/crystal"
)

// AmountQuantum is the resolution at which fractional amounts are quantized
// before hashing. Two compositions whose fractional amounts agree within
// this quantum fingerprint identically; the matcher uses the same quantum
// when it verifies composition equality after a hash match.
const AmountQuantum = 1e-8

// fingerprint hashes a composition under the comparator's canonical key.
//
// Construction:
//  1. Fold amounts under key (ElementComparator merges oxidation states).
//  2. Normalize to fractional amounts (supercell ≡ unit cell).
//  3. Quantize each amount to AmountQuantum.
//  4. Hash each "key=quantized" entry with BLAKE3, take the first 8 bytes.
//  5. Sum per-entry digests mod 2⁶⁴ — addition commutes, so the result is
//     independent of iteration order without any sorting.
func fingerprint(c crystal.Composition, key func(crystal.Species) string) uint64 {
	merged := make(map[string]float64, len(c))
	var total float64
	for sp, amt := range c {
		if amt <= 0 {
			continue
		}
		merged[key(sp)] += amt
		total += amt
	}
	if total == 0 {
		return 0
	}

	var sum uint64
	for k, amt := range merged {
		q := int64(math.Round(amt / total / AmountQuantum))
		d := blake3.Sum256([]byte(fmt.Sprintf("%s=%d", k, q)))
		sum += binary.LittleEndian.Uint64(d[:8])
	}

	return sum
}
