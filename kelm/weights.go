package kelm

import (
	"encoding/json"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gokelm/kernel"
	gokelmErrors "github.com/YuminosukeSato/gokelm/pkg/errors"
)

// WeightsVersion is the current JSON weight document version.
const WeightsVersion = "1.0"

// Weights is the JSON interchange form of a trained ELMRegressor.
// Unlike the gob form it is readable outside Go, at the cost of a less
// compact encoding. A round-trip through Export/ImportWeights
// reproduces predictions exactly.
type Weights struct {
	ModelType string `json:"model_type"`
	Version   string `json:"version"`

	KernelType     string    `json:"kernel_type"`
	KernelParams   []float64 `json:"kernel_params"`
	Regularization float64   `json:"regularization"`
	HiddenNeurons  int       `json:"hidden_neurons"`
	Seed           int64     `json:"seed"`

	Support        []int       `json:"support"`
	SupportVectors [][]float64 `json:"support_vectors"`
	OutputWeight   [][]float64 `json:"output_weight"`
	NFeatures      int         `json:"n_features"`
	NOutputs       int         `json:"n_outputs"`
}

// ToJSON serializes the weight document with indentation.
func (w *Weights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(w, "", "  ")
}

// FromJSON deserializes a weight document.
func (w *Weights) FromJSON(data []byte) error {
	return json.Unmarshal(data, w)
}

// Validate checks the internal consistency of the document before it is
// turned back into a model.
func (w *Weights) Validate() error {
	if w.ModelType != "ELMRegressor" {
		return gokelmErrors.NewValidationError("model_type", "document is not an ELMRegressor", w.ModelType)
	}
	if w.Version == "" {
		return gokelmErrors.NewValidationError("version", "version is required", w.Version)
	}
	if w.HiddenNeurons <= 0 {
		return gokelmErrors.NewValidationError("hidden_neurons", "must be a positive integer", w.HiddenNeurons)
	}
	if w.NFeatures <= 0 {
		return gokelmErrors.NewValidationError("n_features", "must be a positive integer", w.NFeatures)
	}
	if w.NOutputs <= 0 {
		return gokelmErrors.NewValidationError("n_outputs", "must be a positive integer", w.NOutputs)
	}
	if len(w.Support) != w.HiddenNeurons {
		return gokelmErrors.NewDimensionError("Weights.Validate", w.HiddenNeurons, len(w.Support), 0)
	}
	if len(w.SupportVectors) != w.HiddenNeurons {
		return gokelmErrors.NewDimensionError("Weights.Validate", w.HiddenNeurons, len(w.SupportVectors), 0)
	}
	for _, row := range w.SupportVectors {
		if len(row) != w.NFeatures {
			return gokelmErrors.NewDimensionError("Weights.Validate", w.NFeatures, len(row), 1)
		}
	}
	if len(w.OutputWeight) != w.HiddenNeurons {
		return gokelmErrors.NewDimensionError("Weights.Validate", w.HiddenNeurons, len(w.OutputWeight), 0)
	}
	for _, row := range w.OutputWeight {
		if len(row) != w.NOutputs {
			return gokelmErrors.NewDimensionError("Weights.Validate", w.NOutputs, len(row), 1)
		}
	}
	return nil
}

// ExportWeights returns the trained model as a JSON-ready weight
// document. The model must have been fitted or loaded.
func (e *ELMRegressor) ExportWeights() (*Weights, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.IsFitted() {
		return nil, gokelmErrors.NewNotFittedError("ELMRegressor", "ExportWeights")
	}

	support := make([]int, len(e.support_))
	copy(support, e.support_)

	return &Weights{
		ModelType:      "ELMRegressor",
		Version:        WeightsVersion,
		KernelType:     e.kernelType.String(),
		KernelParams:   e.kern.Params(),
		Regularization: e.regularization,
		HiddenNeurons:  e.hiddenNeurons,
		Seed:           e.seed,
		Support:        support,
		SupportVectors: toRows(e.supportX_),
		OutputWeight:   toRows(e.outputWeight_),
		NFeatures:      e.nFeatures_,
		NOutputs:       e.nOutputs_,
	}, nil
}

// ImportWeights replaces the model's configuration and trained state
// with the content of a validated weight document. The resulting model
// predicts exactly as the exporting one did.
func (e *ELMRegressor) ImportWeights(w *Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}

	typ, err := kernel.ParseType(w.KernelType)
	if err != nil {
		return err
	}
	kern, err := kernel.New(typ, w.KernelParams...)
	if err != nil {
		return err
	}
	if w.Regularization <= 0 {
		return gokelmErrors.NewValidationError("regularization", "must be positive and finite", w.Regularization)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.kernelType = typ
	e.kernelParams = kern.Params()
	e.kern = kern
	e.regularization = w.Regularization
	e.hiddenNeurons = w.HiddenNeurons
	e.seed = w.Seed
	support := make([]int, len(w.Support))
	copy(support, w.Support)
	e.support_ = support
	e.supportX_ = fromRows(w.SupportVectors, w.HiddenNeurons, w.NFeatures)
	e.outputWeight_ = fromRows(w.OutputWeight, w.HiddenNeurons, w.NOutputs)
	e.nFeatures_ = w.NFeatures
	e.nOutputs_ = w.NOutputs
	e.nSamples_ = 0
	e.fitDuration_ = 0
	e.SetFitted()
	return nil
}

// toRows copies m into a row-per-slice representation for JSON.
func toRows(m *mat.Dense) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		copy(out[i], m.RawRowView(i))
	}
	return out
}

// fromRows rebuilds a dense matrix from its row-per-slice form.
func fromRows(rows [][]float64, r, c int) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m
}
