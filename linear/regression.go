// Package linear implements the ordinary least squares model used as the
// study's baseline predictor of systolic blood pressure.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/core/model"
	"github.com/nhanesgo/bpstudy/core/parallel"
	"github.com/nhanesgo/bpstudy/metrics"
	"github.com/nhanesgo/bpstudy/pkg/errors"
)

// Regression is an ordinary least squares linear model fitted via the normal
// equations w = (X^T X)^(-1) X^T y.
type Regression struct {
	model.BaseEstimator

	weights   *mat.VecDense
	intercept float64
	nFeatures int
}

// NewRegression creates an unfitted linear regression model.
func NewRegression() *Regression {
	return &Regression{}
}

// Fit estimates the coefficients and intercept from training data. y must be
// an n×1 column matrix aligned with the rows of X.
func (lr *Regression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("Regression.Fit", "empty data", errors.ErrEmptyData)
	}

	if ry != r {
		return errors.NewDimensionError("Regression.Fit", r, ry, 0)
	}

	if cy != 1 {
		return errors.NewValueError("Regression.Fit", "y must be a column vector")
	}

	lr.nFeatures = c

	// Augment X with a leading column of ones for the intercept term.
	XWithIntercept := mat.NewDense(r, c+1, nil)

	const parallelThreshold = 1000

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	var XT mat.Dense
	XT.CloneFrom(XWithIntercept.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XWithIntercept)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("Regression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	weights := mat.NewVecDense(c+1, nil)
	weights.MulVec(&XTXInv, &XTy)

	lr.intercept = weights.AtVec(0)
	lr.weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		lr.weights.SetVec(i, weights.AtVec(i+1))
	}

	lr.SetFitted()

	return nil
}

// Predict returns the fitted linear combination for each row of X.
func (lr *Regression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("Regression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.nFeatures {
		return nil, errors.NewDimensionError("Regression.Predict", lr.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)

	for i := 0; i < r; i++ {
		pred := lr.intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// Coefficients returns the fitted per-feature coefficients.
func (lr *Regression) Coefficients() []float64 {
	if lr.weights == nil {
		return nil
	}

	coefs := make([]float64, lr.weights.Len())
	for i := 0; i < lr.weights.Len(); i++ {
		coefs[i] = lr.weights.AtVec(i)
	}
	return coefs
}

// Intercept returns the fitted intercept, or 0 before Fit.
func (lr *Regression) Intercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.intercept
}

// Score computes R² of the model's predictions on X against y.
func (lr *Regression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("Regression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}
