// Package metrics implements the regression evaluation metrics reported by
// the study: mean squared error, its root, mean absolute error and the
// coefficient of determination, plus the residual vector used for the
// diagnostic plots.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/pkg/errors"
)

// MSE computes the mean squared error between observed and predicted values.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score computes the coefficient of determination, 1 - RSS/TSS. Identical
// vectors score 1; predicting the observed mean everywhere scores 0.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	// All observed values identical: R² is undefined.
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - rss/tss, nil
}

// Residuals returns the per-observation residual yTrue - yPred.
func Residuals(yTrue, yPred *mat.VecDense) (*mat.VecDense, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("Residuals", "empty vector")
	}

	if yPred.Len() != n {
		return nil, errors.NewDimensionError("Residuals", n, yPred.Len(), 0)
	}

	res := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		res.SetVec(i, yTrue.AtVec(i)-yPred.AtVec(i))
	}
	return res, nil
}

// ColumnVec converts an n×1 matrix into a VecDense so matrix-shaped model
// outputs can be fed to the vector metrics.
func ColumnVec(m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if r == 0 {
		return nil, errors.NewValueError("ColumnVec", "empty matrix")
	}
	if c != 1 {
		return nil, errors.NewValueError("ColumnVec", "must be a column vector (n×1 matrix)")
	}

	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}

// MSEMatrix computes MSE for n×1 matrix inputs.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, err := ColumnVec(yTrue)
	if err != nil {
		return 0, err
	}
	pv, err := ColumnVec(yPred)
	if err != nil {
		return 0, err
	}
	return MSE(tv, pv)
}

// R2ScoreMatrix computes R² for n×1 matrix inputs.
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, err := ColumnVec(yTrue)
	if err != nil {
		return 0, err
	}
	pv, err := ColumnVec(yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(tv, pv)
}
