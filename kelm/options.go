package kelm

import "github.com/YuminosukeSato/gokelm/kernel"

// Option is a function that configures an ELMRegressor.
// All options are applied by NewELMRegressor before validation, so an
// invalid value is reported from the constructor, not from Fit.
type Option func(*ELMRegressor)

// WithKernel selects the kernel family and its parameter vector.
// Parameter count and positivity are validated against the family on
// construction; see the kernel package for the per-family meaning of
// each slot.
func WithKernel(t kernel.Type, params ...float64) Option {
	return func(e *ELMRegressor) {
		e.kernelType = t
		e.kernelParams = params
	}
}

// WithRegularization sets the ridge penalty λ. Must be positive and finite.
func WithRegularization(lambda float64) Option {
	return func(e *ELMRegressor) {
		e.regularization = lambda
	}
}

// WithHiddenNeurons sets the size of the sampled support set. Must be
// positive and, at fit time, no larger than the number of training rows.
func WithHiddenNeurons(k int) Option {
	return func(e *ELMRegressor) {
		e.hiddenNeurons = k
	}
}

// WithSeed sets the seed of the support sampler. A non-negative seed
// makes sampling fully deterministic; a negative seed selects a
// time-based source and forfeits reproducibility.
func WithSeed(seed int64) Option {
	return func(e *ELMRegressor) {
		e.seed = seed
	}
}
