// Package kelm implements a Reduced Kernel Extreme Learning Machine
// (RKELM) regressor.
//
// An RKELM is a single-hidden-layer kernel regression model: a random
// subset of the training rows is sampled as the kernel's reference
// ("support") set, the Gram matrix between the training data and the
// support rows is built under one of four kernel families, and the
// output weights are obtained in closed form from a ridge-regularized
// least-squares solve on that matrix. Prediction builds the Gram matrix
// between new inputs and the stored support rows and applies the
// weights.
//
// Basic usage:
//
//	reg, err := kelm.NewELMRegressor(
//		kelm.WithKernel(kernel.RBF, 0.5),
//		kelm.WithHiddenNeurons(20),
//		kelm.WithRegularization(100),
//		kelm.WithSeed(42),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := reg.Fit(X, y); err != nil {
//		log.Fatal(err)
//	}
//	yPred, err := reg.Predict(XTest)
//
// Trained models can be persisted with Save/Load (gob) or exchanged as
// JSON weight documents with ExportWeights/ImportWeights; a loaded
// model predicts without access to the original training data.
package kelm
