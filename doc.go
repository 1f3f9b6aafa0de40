// Package gokelm provides a Reduced Kernel Extreme Learning Machine
// (RKELM) library for Go, built for fast closed-form training and
// inference on small numeric feature sets such as sediment-transport
// prediction.
//
// GoKELM offers a scikit-learn-like API: models are constructed with
// validated options, trained with Fit and evaluated with Predict/Score,
// and can be persisted and reloaded for inference without the original
// training data.
//
// # Features
//
// - Four kernel families: RBF, Linear, Polynomial and Wavelet
// - Closed-form ridge training with automatic primal/dual solve selection
// - Reproducible support sampling from an explicit seed
// - Robust Error Handling: structured, typed errors with stack traces
// - Parallel kernel-matrix construction for larger datasets
//
// # Installation
//
// Install GoKELM using go get:
//
//	go get github.com/YuminosukeSato/gokelm
//
// # Quick Start
//
// Here's a simple example of kernel regression:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gokelm/kelm"
//	    "github.com/YuminosukeSato/gokelm/kernel"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // Create training data
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    // Create and train model
//	    model, err := kelm.NewELMRegressor(
//	        kelm.WithKernel(kernel.RBF, 0.5),
//	        kelm.WithHiddenNeurons(4),
//	        kelm.WithRegularization(100),
//	        kelm.WithSeed(42),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Make predictions
//	    X_test := mat.NewDense(2, 1, []float64{5, 6})
//	    predictions, err := model.Predict(X_test)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("Predictions:", predictions)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - kelm: the ELMRegressor (support sampling, training, prediction, persistence)
//   - kernel: kernel families and Gram-matrix construction
//   - linear: closed-form ridge regression baseline
//   - metrics: evaluation metrics (MSE, RMSE, MAE, MAPE, R²)
//   - preprocessing: min-max normalization with exact inverse transform
//   - core/model: core interfaces, fitted-state tracking and gob persistence
//   - core/parallel: parallel processing utilities
//   - pkg/errors: structured error types and panic recovery
//   - pkg/log: structured logging facade backed by zerolog
//
// # Performance
//
// Training is a single regularized linear solve; no iterations, no
// learning rates. Kernel-matrix rows are filled in parallel above a
// size threshold, with bitwise-identical results to the sequential
// path.
//
// # License
//
// GoKELM is released under the MIT License.
package gokelm
