// Package analysis wires the study end to end: load, clean, filter, split,
// standardize, fit the linear and forest models, score them on the held-out
// partition, and emit the report artifacts.
package analysis

import (
	"github.com/nhanesgo/bpstudy/pkg/errors"
	"github.com/nhanesgo/bpstudy/selection"
)

// Config holds every knob of an analysis run.
type Config struct {
	// InputPath is the delimited survey table.
	InputPath string

	// ResponseColumn is the predicted column.
	ResponseColumn string

	// DropColumns are removed before modeling; in the NHANES study these
	// are the columns found collinear with retained predictors.
	DropColumns []string

	// OutlierThreshold drops rows with any |z| at or above this value.
	OutlierThreshold float64

	// TestRatio is the fraction of rows held out for testing.
	TestRatio float64

	// Seed drives the split shuffle, the cross-validation shuffle and the
	// forest's bootstrap sampling.
	Seed int64

	// CVFolds is the fold count of the grid search.
	CVFolds int

	// NumTrees is the forest size.
	NumTrees int

	// Grid is the searched hyperparameter grid.
	Grid selection.ParamGrid

	// OutputDir receives the plot artifacts. Empty disables plotting.
	OutputDir string
}

// DefaultConfig returns the study's configuration for an input table.
func DefaultConfig(inputPath string) Config {
	return Config{
		InputPath:        inputPath,
		ResponseColumn:   "BPSysAve",
		DropColumns:      []string{"BMI", "HHIncomeMid"},
		OutlierThreshold: 3,
		TestRatio:        0.2,
		Seed:             123,
		CVFolds:          10,
		NumTrees:         100,
		Grid:             selection.DefaultParamGrid(),
	}
}

// Validate checks the configuration before a run.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.NewValidationError("input", "must not be empty", c.InputPath)
	}
	if c.ResponseColumn == "" {
		return errors.NewValidationError("response", "must not be empty", c.ResponseColumn)
	}
	if c.OutlierThreshold <= 0 {
		return errors.NewValidationError("outlier_threshold", "must be positive", c.OutlierThreshold)
	}
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return errors.NewValidationError("test_ratio", "must be in (0, 1)", c.TestRatio)
	}
	if c.CVFolds < 2 {
		return errors.NewValidationError("cv_folds", "must be at least 2", c.CVFolds)
	}
	if c.NumTrees < 1 {
		return errors.NewValidationError("n_trees", "must be positive", c.NumTrees)
	}
	if len(c.Grid.Combinations()) == 0 {
		return errors.NewValidationError("grid", "must contain at least one combination", c.Grid)
	}
	return nil
}
