package kelm

import (
	"math/rand"
	"testing"
)

func TestSampleSupportReproducibility(t *testing.T) {
	const (
		n = 500
		k = 64
	)

	first := sampleSupport(rand.New(rand.NewSource(42)), n, k)
	second := sampleSupport(rand.New(rand.NewSource(42)), n, k)

	if len(first) != k || len(second) != k {
		t.Fatalf("sampled lengths = %d, %d, want %d", len(first), len(second), k)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("index %d differs: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestSampleSupportRange(t *testing.T) {
	const n = 37
	support := sampleSupport(rand.New(rand.NewSource(1)), n, 200)
	for i, idx := range support {
		if idx < 0 || idx >= n {
			t.Errorf("support[%d] = %d, out of [0, %d)", i, idx, n)
		}
	}
}

func TestSampleSupportWithReplacement(t *testing.T) {
	// 100 draws from 3 rows must repeat; absence of duplicates would
	// mean the sampler deduplicates, which changes the meaning of the
	// hidden-neuron count.
	support := sampleSupport(rand.New(rand.NewSource(3)), 3, 100)

	seen := map[int]bool{}
	for _, idx := range support {
		seen[idx] = true
	}
	if len(seen) == len(support) {
		t.Error("no duplicate index in 100 draws from 3 rows; sampling must be with replacement")
	}
}

func TestSampleSupportSeedsDiffer(t *testing.T) {
	a := sampleSupport(rand.New(rand.NewSource(1)), 1000, 50)
	b := sampleSupport(rand.New(rand.NewSource(2)), 1000, 50)

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical support sequences")
	}
}
