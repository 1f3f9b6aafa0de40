package kelm

import (
	"bytes"
	"encoding/gob"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gokelm/core/model"
	"github.com/YuminosukeSato/gokelm/kernel"
	gokelmErrors "github.com/YuminosukeSato/gokelm/pkg/errors"
)

// modelState is the gob wire form of a trained ELMRegressor. It carries
// everything inference needs, so a loaded model predicts without access
// to the original training data.
type modelState struct {
	KernelType     string
	KernelParams   []float64
	Regularization float64
	HiddenNeurons  int
	Seed           int64

	Support       []int
	SupportXData  []float64
	OutputWData   []float64
	NFeatures     int
	NOutputs      int
	NSamples      int
	FitDurationNs int64
}

// GobEncode implements gob.GobEncoder. Only a fitted model can be
// serialized: persisting an empty model is a caller error, not an empty
// document.
func (e *ELMRegressor) GobEncode() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.IsFitted() {
		return nil, gokelmErrors.NewNotFittedError("ELMRegressor", "GobEncode")
	}

	state := modelState{
		KernelType:     e.kernelType.String(),
		KernelParams:   e.kern.Params(),
		Regularization: e.regularization,
		HiddenNeurons:  e.hiddenNeurons,
		Seed:           e.seed,
		Support:        e.support_,
		SupportXData:   rawCopy(e.supportX_),
		OutputWData:    rawCopy(e.outputWeight_),
		NFeatures:      e.nFeatures_,
		NOutputs:       e.nOutputs_,
		NSamples:       e.nSamples_,
		FitDurationNs:  e.fitDuration_.Nanoseconds(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, gokelmErrors.Wrap(err, "failed to encode ELMRegressor")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder, rebuilding a fitted model from
// its wire form. The kernel configuration is re-validated, so a
// corrupted document is rejected rather than producing a model that
// fails at first Predict.
func (e *ELMRegressor) GobDecode(data []byte) error {
	var state modelState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return gokelmErrors.Wrap(err, "failed to decode ELMRegressor")
	}

	typ, err := kernel.ParseType(state.KernelType)
	if err != nil {
		return err
	}
	kern, err := kernel.New(typ, state.KernelParams...)
	if err != nil {
		return err
	}
	if state.Regularization <= 0 {
		return gokelmErrors.NewValidationError("regularization", "must be positive and finite", state.Regularization)
	}
	if state.HiddenNeurons <= 0 || len(state.Support) != state.HiddenNeurons {
		return gokelmErrors.NewValidationError("hidden_neurons",
			"support length must equal the hidden neuron count", state.HiddenNeurons)
	}
	if state.NFeatures <= 0 {
		return gokelmErrors.NewValidationError("n_features", "must be a positive integer", state.NFeatures)
	}
	if state.NOutputs <= 0 {
		return gokelmErrors.NewValidationError("n_outputs", "must be a positive integer", state.NOutputs)
	}
	if len(state.SupportXData) != state.HiddenNeurons*state.NFeatures {
		return gokelmErrors.NewDimensionError("ELMRegressor.GobDecode",
			state.HiddenNeurons*state.NFeatures, len(state.SupportXData), 0)
	}
	if len(state.OutputWData) != state.HiddenNeurons*state.NOutputs {
		return gokelmErrors.NewDimensionError("ELMRegressor.GobDecode",
			state.HiddenNeurons*state.NOutputs, len(state.OutputWData), 0)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.kernelType = typ
	e.kernelParams = kern.Params()
	e.kern = kern
	e.regularization = state.Regularization
	e.hiddenNeurons = state.HiddenNeurons
	e.seed = state.Seed
	e.support_ = state.Support
	e.supportX_ = mat.NewDense(state.HiddenNeurons, state.NFeatures, state.SupportXData)
	e.outputWeight_ = mat.NewDense(state.HiddenNeurons, state.NOutputs, state.OutputWData)
	e.nFeatures_ = state.NFeatures
	e.nOutputs_ = state.NOutputs
	e.nSamples_ = state.NSamples
	e.fitDuration_ = time.Duration(state.FitDurationNs)
	e.SetFitted()
	return nil
}

// Save persists the trained model to path as gob.
func (e *ELMRegressor) Save(path string) error {
	if !e.IsFitted() {
		return gokelmErrors.NewNotFittedError("ELMRegressor", "Save")
	}
	return model.SaveModel(e, path)
}

// Load restores a trained model from a gob file written by Save.
// The loaded model predicts without retraining.
func (e *ELMRegressor) Load(path string) error {
	return model.LoadModel(e, path)
}

// rawCopy flattens m row-major into a fresh slice.
func rawCopy(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	out := make([]float64, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		copy(out[i*raw.Cols:(i+1)*raw.Cols], raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols])
	}
	return out
}
