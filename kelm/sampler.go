package kelm

import "math/rand"

// sampleSupport draws k row indices in [0, n), independently and
// uniformly, WITH replacement. Duplicate indices are a documented
// property of the model, not a bug: the support set is a uniform
// resample of the training rows, so the same row may back more than one
// hidden neuron (and hence duplicate columns in the Gram matrix).
// Deduplicating would silently shrink the effective support size.
//
// The caller owns rng; the same seed and (n, k) reproduce the identical
// sequence.
func sampleSupport(rng *rand.Rand, n, k int) []int {
	support := make([]int, k)
	for i := range support {
		support[i] = rng.Intn(n)
	}
	return support
}
