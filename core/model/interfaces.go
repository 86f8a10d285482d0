package model

import (
	"gonum.org/v1/gonum/mat"
)

// Estimator is the interface for anything that learns from data.
type Estimator interface {
	// Fit trains the estimator on features X and response y.
	Fit(X, y mat.Matrix) error

	// IsFitted reports whether Fit has completed successfully.
	IsFitted() bool
}

// Predictor is the interface for models that produce predictions.
type Predictor interface {
	// Predict returns an n×1 matrix of predicted responses for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R² of the prediction.
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces every regression model implements.
type Regressor interface {
	Estimator
	Predictor
	Scorer
}

// Transformer is the interface for fitted feature transformations.
type Transformer interface {
	// Fit learns the transformation statistics from X.
	Fit(X mat.Matrix) error

	// Transform applies the fitted transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and transforms the same X.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter is the interface for estimators that expose their
// hyperparameters.
type ParameterGetter interface {
	// GetParams returns the estimator's hyperparameters.
	GetParams() map[string]interface{}
}
