package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "gokelm: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "gokelm: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			// ModelError型にキャスト可能か確認
			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	tests := []struct {
		name string
		op   string
		exp  int
		got  int
		axis int
		want string
	}{
		{
			name: "row mismatch",
			op:   "Fit",
			exp:  100,
			got:  90,
			axis: 0,
			want: "gokelm: Fit: dimension mismatch on axis 0 (rows). Expected 100, got 90",
		},
		{
			name: "feature mismatch",
			op:   "Predict",
			exp:  5,
			got:  4,
			axis: 1,
			want: "gokelm: Predict: dimension mismatch on axis 1 (features). Expected 5, got 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError(tt.op, tt.exp, tt.got, tt.axis)

			if err.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.want)
			}

			// DimensionError型にキャスト可能か確認
			var dimErr *DimensionError
			if !As(err, &dimErr) {
				t.Error("Error should be castable to *DimensionError")
			}
			if dimErr.Axis != tt.axis {
				t.Errorf("Axis = %d, want %d", dimErr.Axis, tt.axis)
			}
		})
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("ELMRegressor", "Predict")

	// 基本的なエラーメッセージの確認
	want := "gokelm: ELMRegressor: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// NotFittedError型にキャスト可能か確認
	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("regularization", "must be positive", -5.0)

	// 基本的なエラーメッセージの確認
	want := "gokelm: validation failed for parameter 'regularization': must be positive (got: -5)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// ValidationError型にキャスト可能か確認
	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValidationError")
	}
	if valErr.ParamName != "regularization" {
		t.Errorf("ParamName = %q, want %q", valErr.ParamName, "regularization")
	}
}

func TestNewValueError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		param   string
		value   interface{}
		message string
		wantMsg string
	}{
		{
			name:    "with message",
			op:      "SetParam",
			param:   "hidden_neurons",
			value:   -20,
			message: "must be positive",
			wantMsg: "gokelm: SetParam: hidden_neurons: -20 (must be positive)",
		},
		{
			name:    "without message",
			op:      "SetParam",
			param:   "kernel_params",
			value:   0,
			message: "",
			wantMsg: "gokelm: SetParam: kernel_params: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.message != "" {
				err = NewValueError(tt.op, fmt.Sprintf("%s: %v (%s)", tt.param, tt.value, tt.message))
			} else {
				err = NewValueError(tt.op, fmt.Sprintf("%s: %v", tt.param, tt.value))
			}

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// ValueError型にキャスト可能か確認
			var valErr *ValueError
			if !As(err, &valErr) {
				t.Error("Error should be castable to *ValueError")
			}
		})
	}
}

func TestNewNumericalInstabilityError(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		values    []float64
		wantMsg   string
	}{
		{
			name:      "few values",
			operation: "solve_primal",
			values:    []float64{1.5, 2.5},
			wantMsg:   "gokelm: numerical instability detected in solve_primal. Values: [1.5, 2.5]",
		},
		{
			name:      "truncated values",
			operation: "kernel_matrix",
			values:    []float64{1, 2, 3, 4, 5, 6, 7},
			wantMsg:   "gokelm: numerical instability detected in kernel_matrix. Values: [1, 2, 3, 4, 5, ...]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNumericalInstabilityError(tt.operation, tt.values)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var numErr *NumericalInstabilityError
			if !As(err, &numErr) {
				t.Error("Error should be castable to *NumericalInstabilityError")
			}
		})
	}
}

func TestNewIllConditionedError(t *testing.T) {
	err := NewIllConditionedError("solve_dual", 3.2e17)

	want := "gokelm: numerical instability detected in solve_dual (condition number 3.2e+17). Values: [3.2e+17]"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Error("Error should be castable to *NumericalInstabilityError")
	}
	if len(numErr.Values) != 1 || numErr.Values[0] != 3.2e17 {
		t.Errorf("Values = %v, want [3.2e+17]", numErr.Values)
	}
}

func TestNewUndefinedMetricWarning(t *testing.T) {
	warn := NewUndefinedMetricWarning("MAPE", "zero values in y_true", 0)

	want := "'MAPE' is ill-defined and being set to 0.000000 due to zero values in y_true."
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}

	// UndefinedMetricWarning型へのキャストのみ確認
	var undefWarn *UndefinedMetricWarning
	if !As(warn, &undefWarn) {
		t.Error("Warning should be castable to *UndefinedMetricWarning")
	}
}

func TestWarnHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) {
		captured = w
	})
	defer SetWarningHandler(func(w error) {})

	warn := NewUndefinedMetricWarning("R2Score", "constant y_true", 0)
	Warn(warn)

	if captured == nil {
		t.Fatal("Expected warning handler to be invoked")
	}
	if captured != warn {
		t.Errorf("Captured warning = %v, want %v", captured, warn)
	}
}

func TestWrapAndIs(t *testing.T) {
	// 元のエラー
	baseErr := ErrNotImplemented

	// ラップ
	wrapped := Wrap(baseErr, "in ELMRegressor.Predict")

	// Is関数でチェック
	if !Is(wrapped, ErrNotImplemented) {
		t.Error("Expected Is(wrapped, ErrNotImplemented) to be true")
	}

	// エラーメッセージの確認
	if !strings.Contains(wrapped.Error(), "in ELMRegressor.Predict") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	// 元のエラー
	baseErr := ErrEmptyData

	// フォーマット付きラップ
	wrapped := Wrapf(baseErr, "in %s: expected %d, got %d", "Predict", 10, 5)

	// Is関数でチェック
	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	// エラーメッセージの確認
	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	// エラーチェーンの作成
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	// チェーン全体を確認
	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	// スタックトレースの確認（詳細表示）
	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}

func TestSingularMatrixSentinel(t *testing.T) {
	err := NewModelError("solve_primal", "singular matrix", ErrSingularMatrix)

	if !Is(err, ErrSingularMatrix) {
		t.Error("Expected Is(err, ErrSingularMatrix) to be true")
	}

	want := "gokelm: solve_primal: singular matrix: singular matrix"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}
