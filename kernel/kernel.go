// Package kernel implements the kernel families used by kernel extreme
// learning machines and other kernel regression methods.
//
// A kernel is constructed once with its family and parameter vector,
// validated eagerly, and then evaluated either pairwise with Eval or for
// whole row-sets with Matrix. Four families are supported:
//
//   - RBF:        exp(-‖a-b‖² / p[0])
//   - Linear:     a·b
//   - Polynomial: (a·b + p[0])^p[1]
//   - Wavelet:    cos(p[2]·(sum(a)-sum(b))/p[1]) · exp(-‖a-b‖² / p[0])
//
// All four satisfy k(a,b) = k(b,a), so Matrix(A, A) is symmetric and
// Matrix(A, B) equals the transpose of Matrix(B, A).
package kernel

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	gokelmErrors "github.com/YuminosukeSato/gokelm/pkg/errors"
)

// Type identifies a kernel family.
type Type int

const (
	// RBF is the Gaussian radial basis function kernel.
	RBF Type = iota
	// Linear is the plain inner-product kernel.
	Linear
	// Polynomial is the inhomogeneous polynomial kernel.
	Polynomial
	// Wavelet is a Morlet-style wavelet kernel combining a squared-distance
	// envelope with a frequency term over row sums.
	Wavelet
)

// String returns the lower-case name of the kernel family.
func (t Type) String() string {
	switch t {
	case RBF:
		return "rbf"
	case Linear:
		return "linear"
	case Polynomial:
		return "polynomial"
	case Wavelet:
		return "wavelet"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// MinParams returns the minimum parameter count the family requires.
// Linear does not read its parameter but one must still be supplied,
// matching the configuration contract of the other families.
func (t Type) MinParams() int {
	switch t {
	case Polynomial:
		return 2
	case Wavelet:
		return 3
	default:
		return 1
	}
}

// ParseType converts a kernel family name to its Type.
// Matching is case-insensitive. Unknown names are a validation error.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rbf":
		return RBF, nil
	case "linear":
		return Linear, nil
	case "polynomial":
		return Polynomial, nil
	case "wavelet":
		return Wavelet, nil
	default:
		return 0, gokelmErrors.NewValidationError("kernel_type", "unknown kernel type", name)
	}
}

// MaxParams is the largest parameter vector any family accepts.
const MaxParams = 3

// Function is a kernel family with a validated parameter vector bound to it.
// The zero value is not usable; construct with New.
type Function struct {
	typ    Type
	params []float64
}

// New creates a kernel Function after validating the parameter vector:
// at least Type.MinParams and at most MaxParams values, all positive and
// finite. An out-of-range Type is rejected here rather than at first use.
func New(t Type, params ...float64) (Function, error) {
	switch t {
	case RBF, Linear, Polynomial, Wavelet:
	default:
		return Function{}, gokelmErrors.NewValidationError("kernel_type", "unknown kernel type", int(t))
	}

	if len(params) < t.MinParams() {
		reason := fmt.Sprintf("%s kernel requires at least %d parameter(s)", t, t.MinParams())
		return Function{}, gokelmErrors.NewValidationError("kernel_params", reason, params)
	}
	if len(params) > MaxParams {
		reason := fmt.Sprintf("at most %d parameters are supported", MaxParams)
		return Function{}, gokelmErrors.NewValidationError("kernel_params", reason, params)
	}
	for _, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			return Function{}, gokelmErrors.NewValidationError("kernel_params", "parameters must be positive and finite", params)
		}
	}

	bound := make([]float64, len(params))
	copy(bound, params)
	return Function{typ: t, params: bound}, nil
}

// MustNew is like New but panics on invalid input.
// Intended for tests and package-level defaults with known-good literals.
func MustNew(t Type, params ...float64) Function {
	f, err := New(t, params...)
	if err != nil {
		panic(err)
	}
	return f
}

// Type returns the kernel family.
func (f Function) Type() Type {
	return f.typ
}

// Params returns a copy of the bound parameter vector.
func (f Function) Params() []float64 {
	out := make([]float64, len(f.params))
	copy(out, f.params)
	return out
}

// String returns a compact description such as "rbf[0.5]".
func (f Function) String() string {
	parts := make([]string, len(f.params))
	for i, p := range f.params {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return fmt.Sprintf("%s[%s]", f.typ, strings.Join(parts, " "))
}

// Eval computes the kernel value for a single pair of rows.
// Both rows must have the same length; mismatched rows panic in the
// underlying dot product exactly as they would in Matrix.
//
// The squared distance of the RBF and Wavelet families is computed by the
// expansion ‖a‖²+‖b‖²-2·a·b, the same arithmetic Matrix uses, so Eval and
// Matrix agree bitwise. The expansion can go slightly negative for nearly
// identical rows; the value is used as computed, not clamped.
func (f Function) Eval(a, b []float64) float64 {
	switch f.typ {
	case Linear:
		return floats.Dot(a, b)
	case Polynomial:
		return f.pow(floats.Dot(a, b) + f.params[0])
	case RBF:
		d2 := floats.Dot(a, a) + floats.Dot(b, b) - 2*floats.Dot(a, b)
		return math.Exp(-d2 / f.params[0])
	case Wavelet:
		d2 := floats.Dot(a, a) + floats.Dot(b, b) - 2*floats.Dot(a, b)
		return math.Cos(f.params[2]*(floats.Sum(a)-floats.Sum(b))/f.params[1]) * math.Exp(-d2/f.params[0])
	default:
		return math.NaN()
	}
}

// pow raises base to the polynomial exponent, using binary exponentiation
// for integral exponents and math.Pow otherwise.
func (f Function) pow(base float64) float64 {
	exp := f.params[1]
	if exp == math.Floor(exp) && exp <= 1<<30 {
		return powi(base, int(exp))
	}
	return math.Pow(base, exp)
}

// powi computes base^times for non-negative integer exponents by
// squaring, the conventional kernel-machine fast path.
func powi(base float64, times int) float64 {
	tmp := base
	ret := 1.0
	for t := times; t > 0; t /= 2 {
		if t%2 == 1 {
			ret *= tmp
		}
		tmp = tmp * tmp
	}
	return ret
}
