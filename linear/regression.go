// Package linear は閉形式で解ける線形回帰モデルを提供する。
// KELMのカーネル回帰に対する非カーネルのベースラインとして使う。
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gokelm/core/model"
	"github.com/YuminosukeSato/gokelm/core/parallel"
	"github.com/YuminosukeSato/gokelm/metrics"
	"github.com/YuminosukeSato/gokelm/pkg/errors"
)

// RidgeRegression はL2正則化付きの線形回帰モデル
// 正規方程式 w = (X^T X + αI)^(-1) X^T y を閉形式で解く
// 切片項は正則化の対象にしない
type RidgeRegression struct {
	model.BaseEstimator

	alpha        float64 // 正則化の強さ
	fitIntercept bool    // 切片を学習するかどうか

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数
}

var _ model.Regressor = (*RidgeRegression)(nil)

// NewRidgeRegression は新しいRidgeRegressionを作成する
// デフォルトは alpha=1.0, fitIntercept=true
// alphaが正の有限値でない場合はValidationErrorを返す
func NewRidgeRegression(opts ...Option) (*RidgeRegression, error) {
	rr := &RidgeRegression{
		alpha:        1.0,
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(rr)
	}
	if math.IsNaN(rr.alpha) || math.IsInf(rr.alpha, 0) || rr.alpha <= 0 {
		return nil, errors.NewValidationError("alpha", "must be positive and finite", rr.alpha)
	}
	return rr, nil
}

// Alpha は正則化の強さを返す
func (rr *RidgeRegression) Alpha() float64 {
	return rr.alpha
}

// Fit はモデルを訓練データで学習させる
//
// パラメータ:
//   - X: 訓練データ (n_samples × n_features)
//   - y: 目的変数 (n_samples × 1)
//
// 戻り値:
//   - error: エラーが発生した場合
func (rr *RidgeRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("RidgeRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("RidgeRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("RidgeRegression.Fit", "y must be a column vector")
	}

	rr.NFeatures = c

	// 切片項のために X に 1 の列を追加する
	cols := c
	offset := 0
	if rr.fitIntercept {
		cols = c + 1
		offset = 1
	}
	design := mat.NewDense(r, cols, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if rr.fitIntercept {
				design.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	// 正規方程式の左辺 X^T X + αI を組み立てる
	// 切片（先頭列）の対角には正則化を加えない
	var gram mat.Dense
	gram.Mul(design.T(), design)
	for j := offset; j < cols; j++ {
		gram.Set(j, j, gram.At(j, j)+rr.alpha)
	}

	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return errors.NewModelError("RidgeRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}
	var xty mat.VecDense
	xty.MulVec(design.T(), yVec)

	solution := mat.NewVecDense(cols, nil)
	solution.MulVec(&gramInv, &xty)

	if rr.fitIntercept {
		rr.Intercept = solution.AtVec(0)
		rr.Weights = mat.NewVecDense(c, nil)
		for j := 0; j < c; j++ {
			rr.Weights.SetVec(j, solution.AtVec(j+1))
		}
	} else {
		rr.Intercept = 0
		rr.Weights = solution
	}

	rr.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
//
// パラメータ:
//   - X: 入力データ (n_samples × n_features)
//
// 戻り値:
//   - mat.Matrix: 予測値 (n_samples × 1)
//   - error: エラーが発生した場合
func (rr *RidgeRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rr.IsFitted() {
		return nil, errors.NewNotFittedError("RidgeRegression", "Predict")
	}

	r, c := X.Dims()
	if c != rr.NFeatures {
		return nil, errors.NewDimensionError("RidgeRegression.Predict", rr.NFeatures, c, 1)
	}

	result := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := rr.Intercept
		for j := 0; j < c; j++ {
			sum += X.At(i, j) * rr.Weights.AtVec(j)
		}
		result.Set(i, 0, sum)
	}
	return result, nil
}

// Score はモデルの決定係数（R²）を計算する
func (rr *RidgeRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	yVec := mat.NewVecDense(r, nil)
	predVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
		predVec.SetVec(i, pred.At(i, 0))
	}
	return metrics.R2Score(yVec, predVec)
}

// GetParams はモデルのハイパーパラメータを取得する
func (rr *RidgeRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         rr.alpha,
		"fit_intercept": rr.fitIntercept,
	}
}
