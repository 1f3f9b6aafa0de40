package kelm

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gokelm/core/model"
	"github.com/YuminosukeSato/gokelm/kernel"
	"github.com/YuminosukeSato/gokelm/metrics"
	gokelmErrors "github.com/YuminosukeSato/gokelm/pkg/errors"
	"github.com/YuminosukeSato/gokelm/pkg/log"
)

// ELMRegressor is a Reduced Kernel Extreme Learning Machine for
// regression. Hyperparameters are fixed at construction; Fit samples the
// support set and solves for the output weights, Predict applies them to
// unseen inputs.
//
// The regressor is safe for concurrent use: Fit assembles all learned
// state in locals and commits it under the write lock, so concurrent
// Predict calls never observe a partially trained model.
type ELMRegressor struct {
	model.BaseEstimator

	mu sync.RWMutex

	// Hyperparameters, immutable after NewELMRegressor.
	kernelType     kernel.Type
	kernelParams   []float64
	kern           kernel.Function
	regularization float64
	hiddenNeurons  int
	seed           int64

	// Learned attributes, present only after a successful Fit.
	support_      []int
	supportX_     *mat.Dense
	outputWeight_ *mat.Dense
	nFeatures_    int
	nOutputs_     int
	nSamples_     int
	fitDuration_  time.Duration
}

var (
	_ model.Regressor       = (*ELMRegressor)(nil)
	_ model.ParameterGetter = (*ELMRegressor)(nil)
	_ model.Persistable     = (*ELMRegressor)(nil)
)

// NewELMRegressor creates an ELMRegressor, applying the given options
// over the defaults (RBF kernel with parameter 0.1, regularization 1000,
// 1000 hidden neurons, seed 42). Every hyperparameter is validated here;
// an invalid configuration never reaches Fit.
func NewELMRegressor(opts ...Option) (*ELMRegressor, error) {
	e := &ELMRegressor{
		kernelType:     kernel.RBF,
		kernelParams:   []float64{0.1},
		regularization: 1000,
		hiddenNeurons:  1000,
		seed:           42,
	}
	for _, opt := range opts {
		opt(e)
	}

	kern, err := kernel.New(e.kernelType, e.kernelParams...)
	if err != nil {
		return nil, err
	}
	e.kern = kern
	e.kernelParams = kern.Params()

	if math.IsNaN(e.regularization) || math.IsInf(e.regularization, 0) || e.regularization <= 0 {
		return nil, gokelmErrors.NewValidationError("regularization", "must be positive and finite", e.regularization)
	}
	if e.hiddenNeurons <= 0 {
		return nil, gokelmErrors.NewValidationError("hidden_neurons", "must be a positive integer", e.hiddenNeurons)
	}
	return e, nil
}

// Fit trains the regressor on X (samples×features) and y
// (samples×targets). It samples the support rows with the configured
// seed, builds the training Gram matrix and solves the regularized
// least-squares problem for the output weights. On success all learned
// state is replaced atomically; on failure the previous trained state,
// if any, is left intact.
func (e *ELMRegressor) Fit(X, y mat.Matrix) (err error) {
	defer gokelmErrors.Recover(&err, "ELMRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 || cols == 0 {
		return gokelmErrors.NewModelError("ELMRegressor.Fit", "empty data", gokelmErrors.ErrEmptyData)
	}
	if yRows != rows {
		return gokelmErrors.NewDimensionError("ELMRegressor.Fit", rows, yRows, 0)
	}
	if yCols < 1 {
		return gokelmErrors.NewValueError("ELMRegressor.Fit", "y must have at least one column")
	}
	if e.hiddenNeurons > rows {
		return gokelmErrors.NewValidationError("hidden_neurons",
			"must not exceed the number of training samples", e.hiddenNeurons)
	}

	logger := log.GetLoggerWithName("kelm.regressor")
	logger.Debug("fitting ELMRegressor",
		log.ModelNameKey, "ELMRegressor",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.TargetsKey, yCols,
		log.KernelTypeKey, e.kernelType.String(),
		log.HiddenNeuronsKey, e.hiddenNeurons,
		log.RegularizationKey, e.regularization,
		log.RandomSeedKey, e.seed)

	start := time.Now()

	// Randomness is scoped to this one call: a fresh generator is built
	// from the configured seed, so repeated fits resample identically
	// and Predict never touches the stream.
	support := sampleSupport(e.newRand(), rows, e.hiddenNeurons)

	supportX := mat.NewDense(e.hiddenNeurons, cols, nil)
	for i, idx := range support {
		for j := 0; j < cols; j++ {
			supportX.Set(i, j, X.At(idx, j))
		}
	}

	omega, err := e.kern.Matrix(X, supportX)
	if err != nil {
		return err
	}

	yDense := mat.DenseCopyOf(y)
	weights, path, err := solveRidge(omega, yDense, e.regularization)
	if err != nil {
		return err
	}
	if err := gokelmErrors.CheckMatrix("ELMRegressor.Fit", weights, e.hiddenNeurons, yCols); err != nil {
		return err
	}

	elapsed := time.Since(start)

	e.mu.Lock()
	e.support_ = support
	e.supportX_ = supportX
	e.outputWeight_ = weights
	e.nFeatures_ = cols
	e.nOutputs_ = yCols
	e.nSamples_ = rows
	e.fitDuration_ = elapsed
	e.SetFitted()
	e.mu.Unlock()

	logger.Info("fit completed",
		log.ModelNameKey, "ELMRegressor",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.HiddenNeuronsKey, e.hiddenNeurons,
		log.SolvePathKey, path,
		log.DurationMsKey, float64(elapsed.Nanoseconds())/1e6)

	return nil
}

// Predict returns the model output for X (samples×features). It builds
// the Gram matrix between X and the stored support rows and applies the
// output weights. The model must have been fitted or loaded; trained
// state is never mutated.
func (e *ELMRegressor) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer gokelmErrors.Recover(&err, "ELMRegressor.Predict")

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.IsFitted() {
		return nil, gokelmErrors.NewNotFittedError("ELMRegressor", "Predict")
	}

	rows, cols := X.Dims()
	if cols != e.nFeatures_ {
		return nil, gokelmErrors.NewDimensionError("ELMRegressor.Predict", e.nFeatures_, cols, 1)
	}

	start := time.Now()
	omega, err := e.kern.Matrix(X, e.supportX_)
	if err != nil {
		return nil, err
	}

	var yHat mat.Dense
	yHat.Mul(omega, e.outputWeight_)

	log.GetLoggerWithName("kelm.regressor").Debug("predict completed",
		log.ModelNameKey, "ELMRegressor",
		log.OperationKey, log.OperationPredict,
		log.SamplesKey, rows,
		log.DurationMsKey, float64(time.Since(start).Nanoseconds())/1e6)

	return &yHat, nil
}

// Score returns the coefficient of determination R² of the prediction
// on X against y. For multi-target models the score is averaged across
// the target columns.
func (e *ELMRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !e.IsFitted() {
		return 0, gokelmErrors.NewNotFittedError("ELMRegressor", "Score")
	}

	pred, err := e.Predict(X)
	if err != nil {
		return 0, err
	}

	rows, cols := y.Dims()
	pRows, pCols := pred.Dims()
	if pRows != rows || pCols != cols {
		return 0, gokelmErrors.NewDimensionError("ELMRegressor.Score", rows, pRows, 0)
	}

	total := 0.0
	yVec := mat.NewVecDense(rows, nil)
	predVec := mat.NewVecDense(rows, nil)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			yVec.SetVec(i, y.At(i, j))
			predVec.SetVec(i, pred.At(i, j))
		}
		r2, err := metrics.R2Score(yVec, predVec)
		if err != nil {
			return 0, err
		}
		total += r2
	}
	return total / float64(cols), nil
}

// newRand builds the sampler's generator from the configured seed,
// following the estimator convention of treating a negative seed as a
// request for time-based, non-reproducible randomness.
func (e *ELMRegressor) newRand() *rand.Rand {
	if e.seed >= 0 {
		return rand.New(rand.NewSource(e.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Kernel returns the configured kernel function.
func (e *ELMRegressor) Kernel() kernel.Function {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.kern
}

// Regularization returns the ridge penalty λ.
func (e *ELMRegressor) Regularization() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.regularization
}

// HiddenNeurons returns the configured support-set size.
func (e *ELMRegressor) HiddenNeurons() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hiddenNeurons
}

// Seed returns the configured sampler seed.
func (e *ELMRegressor) Seed() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seed
}

// Support returns a copy of the sampled support-row indices, or nil for
// an unfitted model. Indices may repeat: sampling is with replacement.
func (e *ELMRegressor) Support() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.support_ == nil {
		return nil
	}
	out := make([]int, len(e.support_))
	copy(out, e.support_)
	return out
}

// SupportVectors returns a copy of the support rows (hiddenNeurons×features),
// or nil for an unfitted model.
func (e *ELMRegressor) SupportVectors() *mat.Dense {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.supportX_ == nil {
		return nil
	}
	return mat.DenseCopyOf(e.supportX_)
}

// OutputWeight returns a copy of the trained output weights
// (hiddenNeurons×targets), or nil for an unfitted model.
func (e *ELMRegressor) OutputWeight() *mat.Dense {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.outputWeight_ == nil {
		return nil
	}
	return mat.DenseCopyOf(e.outputWeight_)
}

// FitDuration returns the wall-clock duration of the last successful
// Fit. Zero for an unfitted model. Purely observational.
func (e *ELMRegressor) FitDuration() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fitDuration_
}

// NFeatures returns the feature count the model was trained on, zero
// for an unfitted model.
func (e *ELMRegressor) NFeatures() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nFeatures_
}

// GetParams returns the model's hyperparameters.
func (e *ELMRegressor) GetParams() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return map[string]interface{}{
		"kernel_type":    e.kernelType.String(),
		"kernel_params":  e.kern.Params(),
		"regularization": e.regularization,
		"hidden_neurons": e.hiddenNeurons,
		"seed":           e.seed,
	}
}
