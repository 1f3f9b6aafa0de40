package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gokelm/core/parallel"
	gokelmErrors "github.com/YuminosukeSato/gokelm/pkg/errors"
)

// Row counts below this are filled sequentially.
const parallelThreshold = 200

// Matrix computes the Gram matrix between two row-sets: the result has
// shape a×b with K[i,j] = k(A row i, B row j).
//
// Rows of the result are filled independently, in parallel above
// parallelThreshold rows. The per-element arithmetic is identical in the
// sequential and parallel paths, so the result does not depend on the
// degree of parallelism. Squared norms and row sums are cached per row,
// which turns the RBF distance into ‖a‖²+‖b‖²-2·a·b with one dot product
// per pair.
func (f Function) Matrix(A, B mat.Matrix) (*mat.Dense, error) {
	if len(f.params) < f.typ.MinParams() {
		return nil, gokelmErrors.NewValidationError("kernel_params", "kernel is not initialized; use kernel.New", f.params)
	}

	ra, ca := A.Dims()
	rb, cb := B.Dims()
	if ra == 0 || rb == 0 || ca == 0 {
		return nil, gokelmErrors.NewModelError("kernel.Matrix", "empty data", gokelmErrors.ErrEmptyData)
	}
	if ca != cb {
		return nil, gokelmErrors.NewDimensionError("kernel.Matrix", ca, cb, 1)
	}

	a := asDense(A)
	b := asDense(B)

	// Per-row caches shared by every pair evaluation.
	var sqA, sqB, sumA, sumB []float64
	if f.typ == RBF || f.typ == Wavelet {
		sqA = rowSquares(a, ra)
		sqB = rowSquares(b, rb)
	}
	if f.typ == Wavelet {
		sumA = rowSums(a, ra)
		sumB = rowSums(b, rb)
	}

	k := mat.NewDense(ra, rb, nil)
	parallel.ParallelizeWithThreshold(ra, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ai := a.RawRowView(i)
			out := k.RawRowView(i)
			switch f.typ {
			case Linear:
				for j := 0; j < rb; j++ {
					out[j] = floats.Dot(ai, b.RawRowView(j))
				}
			case Polynomial:
				for j := 0; j < rb; j++ {
					out[j] = f.pow(floats.Dot(ai, b.RawRowView(j)) + f.params[0])
				}
			case RBF:
				for j := 0; j < rb; j++ {
					d2 := sqA[i] + sqB[j] - 2*floats.Dot(ai, b.RawRowView(j))
					out[j] = math.Exp(-d2 / f.params[0])
				}
			case Wavelet:
				for j := 0; j < rb; j++ {
					d2 := sqA[i] + sqB[j] - 2*floats.Dot(ai, b.RawRowView(j))
					out[j] = math.Cos(f.params[2]*(sumA[i]-sumB[j])/f.params[1]) * math.Exp(-d2/f.params[0])
				}
			}
		}
	})

	return k, nil
}

// asDense returns m itself when it already is a *mat.Dense, otherwise a copy.
func asDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}

func rowSquares(m *mat.Dense, rows int) []float64 {
	out := make([]float64, rows)
	for i := range out {
		row := m.RawRowView(i)
		out[i] = floats.Dot(row, row)
	}
	return out
}

func rowSums(m *mat.Dense, rows int) []float64 {
	out := make([]float64, rows)
	for i := range out {
		out[i] = floats.Sum(m.RawRowView(i))
	}
	return out
}
