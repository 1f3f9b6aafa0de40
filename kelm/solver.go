package kelm

import (
	"gonum.org/v1/gonum/mat"

	gokelmErrors "github.com/YuminosukeSato/gokelm/pkg/errors"
	"github.com/YuminosukeSato/gokelm/pkg/log"
)

// solveRidge computes the output weights W (k×m) for the regularized
// least-squares problem min ‖Ω·W − Y‖² + ‖W‖²/λ, choosing between two
// algebraically equivalent closed forms by relative dimension so the
// smaller of the two Gram-like matrices is inverted:
//
//	n ≥ k (primal): W = (I/λ + ΩᵀΩ)⁻¹ ΩᵀY   with I the k×k identity
//	n < k  (dual):  W = Ωᵀ (I/λ + ΩΩᵀ)⁻¹ Y  with I the n×n identity
//
// The branches are Woodbury-equivalent; callers observe only a
// performance difference. The returned string names the path taken.
func solveRidge(omega, y *mat.Dense, lambda float64) (*mat.Dense, string, error) {
	n, k := omega.Dims()
	if n >= k {
		w, err := solvePrimal(omega, y, lambda)
		return w, log.SolvePathPrimal, err
	}
	w, err := solveDual(omega, y, lambda)
	return w, log.SolvePathDual, err
}

// solvePrimal computes (I/λ + ΩᵀΩ)⁻¹ ΩᵀY, inverting k×k.
func solvePrimal(omega, y *mat.Dense, lambda float64) (*mat.Dense, error) {
	_, k := omega.Dims()

	var gram mat.Dense
	gram.Mul(omega.T(), omega)
	addDiag(&gram, 1/lambda, k)

	inv, err := invert(&gram, "solve_primal")
	if err != nil {
		return nil, err
	}

	var oty, w mat.Dense
	oty.Mul(omega.T(), y)
	w.Mul(inv, &oty)
	return &w, nil
}

// solveDual computes Ωᵀ (I/λ + ΩΩᵀ)⁻¹ Y, inverting n×n.
func solveDual(omega, y *mat.Dense, lambda float64) (*mat.Dense, error) {
	n, _ := omega.Dims()

	var gram mat.Dense
	gram.Mul(omega, omega.T())
	addDiag(&gram, 1/lambda, n)

	inv, err := invert(&gram, "solve_dual")
	if err != nil {
		return nil, err
	}

	var invY, w mat.Dense
	invY.Mul(inv, y)
	w.Mul(omega.T(), &invY)
	return &w, nil
}

// addDiag adds v to the first k diagonal entries of m.
func addDiag(m *mat.Dense, v float64, k int) {
	for i := 0; i < k; i++ {
		m.Set(i, i, m.At(i, i)+v)
	}
}

// invert computes a⁻¹, mapping gonum's failure modes onto the
// library's error types: an ill-conditioning report
// carries the condition number, an outright singular matrix (which the
// ridge term makes unreachable for valid λ) maps to ErrSingularMatrix.
func invert(a *mat.Dense, op string) (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		var cond mat.Condition
		if gokelmErrors.As(err, &cond) {
			return nil, gokelmErrors.NewIllConditionedError(op, float64(cond))
		}
		return nil, gokelmErrors.NewModelError(op, "singular matrix", gokelmErrors.ErrSingularMatrix)
	}
	return &inv, nil
}
