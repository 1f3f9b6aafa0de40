package linear

// Option is a function that configures RidgeRegression
type Option func(*RidgeRegression)

// WithAlpha sets the L2 regularization strength
func WithAlpha(alpha float64) Option {
	return func(rr *RidgeRegression) {
		rr.alpha = alpha
	}
}

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) Option {
	return func(rr *RidgeRegression) {
		rr.fitIntercept = fit
	}
}
