package kelm

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gokelm/kernel"
	gokelmErrors "github.com/YuminosukeSato/gokelm/pkg/errors"
)

// rowSumDataset builds the end-to-end scenario: X uniform in [0,1],
// y the row sums of X.
func rowSumDataset(rows, cols int, seed int64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			v := rng.Float64()
			x.Set(i, j, v)
			sum += v
		}
		y.Set(i, 0, sum)
	}
	return x, y
}

func TestNewELMRegressorValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{
			name:    "defaults",
			opts:    nil,
			wantErr: false,
		},
		{
			name: "full configuration",
			opts: []Option{
				WithKernel(kernel.Wavelet, 1, 2, 3),
				WithRegularization(100),
				WithHiddenNeurons(20),
				WithSeed(7),
			},
			wantErr: false,
		},
		{
			name:    "zero regularization",
			opts:    []Option{WithRegularization(0)},
			wantErr: true,
		},
		{
			name:    "negative regularization",
			opts:    []Option{WithRegularization(-1)},
			wantErr: true,
		},
		{
			name:    "NaN regularization",
			opts:    []Option{WithRegularization(math.NaN())},
			wantErr: true,
		},
		{
			name:    "infinite regularization",
			opts:    []Option{WithRegularization(math.Inf(1))},
			wantErr: true,
		},
		{
			name:    "zero hidden neurons",
			opts:    []Option{WithHiddenNeurons(0)},
			wantErr: true,
		},
		{
			name:    "negative hidden neurons",
			opts:    []Option{WithHiddenNeurons(-5)},
			wantErr: true,
		},
		{
			name:    "underspecified wavelet kernel",
			opts:    []Option{WithKernel(kernel.Wavelet, 1, 2)},
			wantErr: true,
		},
		{
			name:    "non-positive kernel parameter",
			opts:    []Option{WithKernel(kernel.RBF, -0.5)},
			wantErr: true,
		},
		{
			name:    "unknown kernel type",
			opts:    []Option{WithKernel(kernel.Type(42), 1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewELMRegressor(tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewELMRegressor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var valErr *gokelmErrors.ValidationError
				if !gokelmErrors.As(err, &valErr) {
					t.Errorf("error should be castable to *ValidationError, got %T", err)
				}
				return
			}
			if reg.IsFitted() {
				t.Error("fresh regressor reports fitted")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	reg, err := NewELMRegressor()
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if got := reg.Kernel().Type(); got != kernel.RBF {
		t.Errorf("default kernel = %v, want RBF", got)
	}
	if got := reg.Kernel().Params(); len(got) != 1 || got[0] != 0.1 {
		t.Errorf("default kernel params = %v, want [0.1]", got)
	}
	if got := reg.Regularization(); got != 1000 {
		t.Errorf("default regularization = %v, want 1000", got)
	}
	if got := reg.HiddenNeurons(); got != 1000 {
		t.Errorf("default hidden neurons = %v, want 1000", got)
	}
	if got := reg.Seed(); got != 42 {
		t.Errorf("default seed = %v, want 42", got)
	}
}

func TestPredictNotFitted(t *testing.T) {
	reg, err := NewELMRegressor()
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}

	_, err = reg.Predict(mat.NewDense(3, 2, nil))
	if err == nil {
		t.Fatal("Predict on an unfitted model succeeded")
	}
	var notFitted *gokelmErrors.NotFittedError
	if !gokelmErrors.As(err, &notFitted) {
		t.Errorf("error should be castable to *NotFittedError, got %T", err)
	}
}

func TestScoreNotFitted(t *testing.T) {
	reg, _ := NewELMRegressor()
	_, err := reg.Score(mat.NewDense(3, 2, nil), mat.NewDense(3, 1, nil))
	var notFitted *gokelmErrors.NotFittedError
	if !gokelmErrors.As(err, &notFitted) {
		t.Errorf("Score on unfitted model: error = %v, want NotFittedError", err)
	}
}

func TestFitValidation(t *testing.T) {
	x, y := rowSumDataset(10, 5, 1)

	t.Run("row count mismatch", func(t *testing.T) {
		reg, _ := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 5, 0)...)
		err := reg.Fit(x, mat.NewDense(8, 1, nil))
		var dimErr *gokelmErrors.DimensionError
		if !gokelmErrors.As(err, &dimErr) {
			t.Errorf("error = %v, want DimensionError", err)
		}
	})

	t.Run("hidden neurons exceed samples", func(t *testing.T) {
		reg, _ := NewELMRegressor(WithHiddenNeurons(11))
		err := reg.Fit(x, y)
		var valErr *gokelmErrors.ValidationError
		if !gokelmErrors.As(err, &valErr) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})

	t.Run("failed fit leaves model unfitted", func(t *testing.T) {
		reg, _ := NewELMRegressor(WithHiddenNeurons(11))
		_ = reg.Fit(x, y)
		if reg.IsFitted() {
			t.Error("model reports fitted after a failed Fit")
		}
	})
}

// testOptions bundles the common test configuration into the option slice.
func testOptions(t kernel.Type, param, lambda float64, neurons int, seed int64) []Option {
	return []Option{
		WithKernel(t, param),
		WithRegularization(lambda),
		WithHiddenNeurons(neurons),
		WithSeed(seed),
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	x, y := rowSumDataset(30, 5, 2)
	reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 10, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err = reg.Predict(mat.NewDense(4, 4, nil))
	var dimErr *gokelmErrors.DimensionError
	if !gokelmErrors.As(err, &dimErr) {
		t.Fatalf("error = %v, want DimensionError", err)
	}
	if dimErr.Expected != 5 || dimErr.Got != 4 {
		t.Errorf("DimensionError = %d/%d, want expected 5, got 4", dimErr.Expected, dimErr.Got)
	}
}

func TestFitReproducibility(t *testing.T) {
	x, y := rowSumDataset(60, 4, 3)

	fit := func() *ELMRegressor {
		reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 15, 42)...)
		if err != nil {
			t.Fatalf("NewELMRegressor() failed: %v", err)
		}
		if err := reg.Fit(x, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		return reg
	}

	first := fit()
	second := fit()

	supA, supB := first.Support(), second.Support()
	for i := range supA {
		if supA[i] != supB[i] {
			t.Fatalf("support index %d differs: %d vs %d", i, supA[i], supB[i])
		}
	}

	wA, wB := first.OutputWeight(), second.OutputWeight()
	r, c := wA.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if wA.At(i, j) != wB.At(i, j) {
				t.Fatalf("outputWeight[%d,%d] differs: %v vs %v", i, j, wA.At(i, j), wB.At(i, j))
			}
		}
	}
}

func TestEndToEndRowSum(t *testing.T) {
	x, y := rowSumDataset(100, 5, 42)

	reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 20, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if reg.FitDuration() <= 0 {
		t.Error("FitDuration() should be positive after Fit")
	}
	if got := len(reg.Support()); got != 20 {
		t.Errorf("len(Support()) = %d, want 20", got)
	}

	pred, err := reg.Predict(x)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	mae := 0.0
	for i := 0; i < 100; i++ {
		mae += math.Abs(pred.At(i, 0) - y.At(i, 0))
	}
	mae /= 100
	if mae >= 0.2 {
		t.Errorf("training MAE = %v, want < 0.2", mae)
	}

	// The model is a pure function of its trained state.
	again, err := reg.Predict(x)
	if err != nil {
		t.Fatalf("second Predict failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		if pred.At(i, 0) != again.At(i, 0) {
			t.Fatalf("repeated Predict differs at row %d: %v vs %v", i, pred.At(i, 0), again.At(i, 0))
		}
	}

	score, err := reg.Score(x, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.9 {
		t.Errorf("Score() = %v, want >= 0.9", score)
	}
}

func TestLinearKernelClosedForm(t *testing.T) {
	// With the linear kernel, outputWeight must equal the ridge
	// solution computed directly on Ω = X·Xsᵀ.
	const lambda = 1e6
	x, y := rowSumDataset(50, 3, 9)

	reg, err := NewELMRegressor(testOptions(kernel.Linear, 0.1, lambda, 12, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	supportX := reg.SupportVectors()
	var omega mat.Dense
	omega.Mul(x, supportX.T())

	var gram mat.Dense
	gram.Mul(omega.T(), &omega)
	for i := 0; i < 12; i++ {
		gram.Set(i, i, gram.At(i, i)+1/lambda)
	}
	var rhs mat.Dense
	rhs.Mul(omega.T(), y)
	var want mat.Dense
	if err := want.Solve(&gram, &rhs); err != nil {
		t.Fatalf("reference solve failed: %v", err)
	}

	if diff := maxAbsDiff(reg.OutputWeight(), &want); diff > 1e-6 {
		t.Errorf("outputWeight differs from direct ridge solution by %g", diff)
	}
}

func TestMultiOutput(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	x := mat.NewDense(40, 3, nil)
	y := mat.NewDense(40, 2, nil)
	for i := 0; i < 40; i++ {
		sum, prod := 0.0, 1.0
		for j := 0; j < 3; j++ {
			v := rng.Float64()
			x.Set(i, j, v)
			sum += v
			prod *= v
		}
		y.Set(i, 0, sum)
		y.Set(i, 1, prod)
	}

	reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 10, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred, err := reg.Predict(x)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if r, c := pred.Dims(); r != 40 || c != 2 {
		t.Errorf("prediction shape = %d×%d, want 40×2", r, c)
	}

	if _, err := reg.Score(x, y); err != nil {
		t.Errorf("Score on multi-output model failed: %v", err)
	}
}

func TestRefitReplacesState(t *testing.T) {
	x1, y1 := rowSumDataset(30, 5, 4)
	x2, y2 := rowSumDataset(25, 3, 5)

	reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 8, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x1, y1); err != nil {
		t.Fatalf("first Fit failed: %v", err)
	}
	if err := reg.Fit(x2, y2); err != nil {
		t.Fatalf("second Fit failed: %v", err)
	}

	if reg.NFeatures() != 3 {
		t.Errorf("NFeatures() = %d after refit, want 3", reg.NFeatures())
	}
	if _, err := reg.Predict(x2); err != nil {
		t.Errorf("Predict after refit failed: %v", err)
	}
	if _, err := reg.Predict(x1); err == nil {
		t.Error("Predict with the old feature count should fail after refit")
	}
}

func TestFailedFitKeepsTrainedState(t *testing.T) {
	x, y := rowSumDataset(30, 5, 6)

	reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 8, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	before, err := reg.Predict(x)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	// Mismatched y rows: the fit must fail without touching the
	// committed state.
	if err := reg.Fit(x, mat.NewDense(7, 1, nil)); err == nil {
		t.Fatal("Fit with mismatched y succeeded")
	}

	after, err := reg.Predict(x)
	if err != nil {
		t.Fatalf("Predict after failed refit: %v", err)
	}
	for i := 0; i < 30; i++ {
		if before.At(i, 0) != after.At(i, 0) {
			t.Fatalf("prediction changed after failed refit at row %d", i)
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	x, y := rowSumDataset(30, 4, 8)
	reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 6, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	support := reg.Support()
	support[0] = -999
	if reg.Support()[0] == -999 {
		t.Error("mutating the returned support slice reached the model")
	}

	sv := reg.SupportVectors()
	sv.Set(0, 0, math.NaN())
	if math.IsNaN(reg.SupportVectors().At(0, 0)) {
		t.Error("mutating the returned support vectors reached the model")
	}

	w := reg.OutputWeight()
	w.Set(0, 0, math.NaN())
	if math.IsNaN(reg.OutputWeight().At(0, 0)) {
		t.Error("mutating the returned output weights reached the model")
	}
}

func TestConcurrentPredict(t *testing.T) {
	x, y := rowSumDataset(50, 4, 10)
	reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 10, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	want, err := reg.Predict(x)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	done := make(chan error, 8)
	for g := 0; g < 8; g++ {
		go func() {
			pred, err := reg.Predict(x)
			if err != nil {
				done <- err
				return
			}
			for i := 0; i < 50; i++ {
				if pred.At(i, 0) != want.At(i, 0) {
					done <- gokelmErrors.Newf("concurrent prediction differs at row %d", i)
					return
				}
			}
			done <- nil
		}()
	}
	for g := 0; g < 8; g++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}

// Hyperparameter accessors must synchronize with ImportWeights, which
// rewrites the configuration under the write lock. Run under -race.
func TestConcurrentAccessorsDuringImport(t *testing.T) {
	x, y := rowSumDataset(40, 4, 10)
	reg, err := NewELMRegressor(testOptions(kernel.RBF, 0.5, 100, 10, 42)...)
	if err != nil {
		t.Fatalf("NewELMRegressor() failed: %v", err)
	}
	if err := reg.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	weights, err := reg.ExportWeights()
	if err != nil {
		t.Fatalf("ExportWeights failed: %v", err)
	}

	done := make(chan error, 4)
	for g := 0; g < 4; g++ {
		go func() {
			for i := 0; i < 50; i++ {
				params := reg.GetParams()
				if params["kernel_type"] != "rbf" {
					done <- gokelmErrors.Newf("unexpected kernel type %v", params["kernel_type"])
					return
				}
				if len(reg.Kernel().Params()) == 0 || reg.Regularization() <= 0 {
					done <- gokelmErrors.Newf("accessor observed unset hyperparameters")
					return
				}
				_ = reg.HiddenNeurons()
				_ = reg.Seed()
			}
			done <- nil
		}()
	}
	for i := 0; i < 50; i++ {
		if err := reg.ImportWeights(weights); err != nil {
			t.Fatalf("ImportWeights failed: %v", err)
		}
	}
	for g := 0; g < 4; g++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}
