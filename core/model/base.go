// Package model defines the estimator protocol shared by every fitted thing
// in bpstudy: scalers, regressors and the grid-search selector.
package model

// EstimatorState tracks whether an estimator has been fitted.
type EstimatorState int

const (
	// NotFitted is the state before Fit has succeeded.
	NotFitted EstimatorState = iota
	// Fitted is the state after Fit has succeeded.
	Fitted
)

// BaseEstimator is embedded by every estimator to carry its fitted state.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether Fit has completed successfully.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
