package ensemble

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/core/model"
	"github.com/nhanesgo/bpstudy/core/parallel"
	"github.com/nhanesgo/bpstudy/metrics"
	"github.com/nhanesgo/bpstudy/pkg/errors"
)

// MaxFeatures selects how many candidate features each split considers.
type MaxFeatures string

const (
	// MaxFeaturesAuto considers every feature (sklearn's regression default).
	MaxFeaturesAuto MaxFeatures = "auto"
	// MaxFeaturesSqrt considers ⌈√p⌉ features.
	MaxFeaturesSqrt MaxFeatures = "sqrt"
	// MaxFeaturesLog2 considers max(1, ⌊log₂p⌋) features.
	MaxFeaturesLog2 MaxFeatures = "log2"
)

// FeatureCount resolves the option to a concrete count for p features.
func (m MaxFeatures) FeatureCount(p int) (int, error) {
	switch m {
	case MaxFeaturesAuto, "":
		return p, nil
	case MaxFeaturesSqrt:
		return int(math.Ceil(math.Sqrt(float64(p)))), nil
	case MaxFeaturesLog2:
		k := int(math.Log2(float64(p)))
		if k < 1 {
			k = 1
		}
		return k, nil
	default:
		return 0, errors.NewValidationError("max_features", "must be auto, sqrt or log2", string(m))
	}
}

// RandomForestRegressor averages the predictions of NumTrees regression
// trees, each grown on a bootstrap sample of the training rows with
// per-split feature subsampling.
type RandomForestRegressor struct {
	model.BaseEstimator

	// Hyperparameters
	NumTrees       int         // Number of trees in the forest
	MaxDepth       int         // Maximum tree depth, 0 means unlimited
	MaxFeatures    MaxFeatures // Features considered per split
	MinSamplesLeaf int         // Minimum rows per leaf
	RandomState    int64       // Seed for bootstrap and feature sampling

	trees     []*regressionTree
	nFeatures int
}

// NewRandomForestRegressor creates a forest with the study's defaults.
func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{
		NumTrees:       100,
		MaxDepth:       0,
		MaxFeatures:    MaxFeaturesAuto,
		MinSamplesLeaf: 1,
		RandomState:    42,
	}
}

// WithNumTrees sets the number of trees.
func (rf *RandomForestRegressor) WithNumTrees(n int) *RandomForestRegressor {
	rf.NumTrees = n
	return rf
}

// WithMaxDepth sets the maximum tree depth. 0 means unlimited.
func (rf *RandomForestRegressor) WithMaxDepth(d int) *RandomForestRegressor {
	rf.MaxDepth = d
	return rf
}

// WithMaxFeatures sets the per-split feature sampling mode.
func (rf *RandomForestRegressor) WithMaxFeatures(m MaxFeatures) *RandomForestRegressor {
	rf.MaxFeatures = m
	return rf
}

// WithMinSamplesLeaf sets the minimum rows per leaf.
func (rf *RandomForestRegressor) WithMinSamplesLeaf(n int) *RandomForestRegressor {
	rf.MinSamplesLeaf = n
	return rf
}

// WithRandomState sets the seed.
func (rf *RandomForestRegressor) WithRandomState(seed int64) *RandomForestRegressor {
	rf.RandomState = seed
	return rf
}

// Clone returns an unfitted copy with the same hyperparameters. Used by the
// grid search to fit one forest per fold.
func (rf *RandomForestRegressor) Clone() *RandomForestRegressor {
	return &RandomForestRegressor{
		NumTrees:       rf.NumTrees,
		MaxDepth:       rf.MaxDepth,
		MaxFeatures:    rf.MaxFeatures,
		MinSamplesLeaf: rf.MinSamplesLeaf,
		RandomState:    rf.RandomState,
	}
}

// Fit grows the forest on training data. Each tree draws its own seeded
// bootstrap sample and random generator, so a fitted forest is identical
// across runs for the same RandomState regardless of scheduling.
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("RandomForestRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("RandomForestRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("RandomForestRegressor.Fit", "y must be a column vector")
	}
	if rf.NumTrees <= 0 {
		return errors.NewValidationError("n_trees", "must be positive", rf.NumTrees)
	}
	if rf.MinSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", rf.MinSamplesLeaf)
	}

	maxFeatures, err := rf.MaxFeatures.FeatureCount(c)
	if err != nil {
		return err
	}

	rf.nFeatures = c

	yVals := make([]float64, r)
	for i := 0; i < r; i++ {
		yVals[i] = y.At(i, 0)
	}

	cfg := treeConfig{
		maxDepth:       rf.MaxDepth,
		minSamplesLeaf: rf.MinSamplesLeaf,
		maxFeatures:    maxFeatures,
	}

	rf.trees = make([]*regressionTree, rf.NumTrees)

	parallel.Parallelize(rf.NumTrees, func(start, end int) {
		for i := start; i < end; i++ {
			seed := uint64(rf.RandomState) + uint64(i)
			rng := rand.New(rand.NewPCG(seed, seed))

			indices := make([]int, r)
			for j := range indices {
				indices[j] = rng.IntN(r)
			}

			rf.trees[i] = growTree(X, yVals, indices, cfg, rng)
		}
	})

	rf.SetFitted()

	return nil
}

// Predict returns the mean of all trees' predictions for each row of X.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestRegressor", "Predict")
	}

	r, c := X.Dims()
	if c != rf.nFeatures {
		return nil, errors.NewDimensionError("RandomForestRegressor.Predict", rf.nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)

	parallel.ParallelizeWithThreshold(r, 100, func(start, end int) {
		for i := start; i < end; i++ {
			sum := 0.0
			for _, tree := range rf.trees {
				sum += tree.predict(X, i)
			}
			predictions.Set(i, 0, sum/float64(len(rf.trees)))
		}
	})

	return predictions, nil
}

// Score computes R² of the forest's predictions on X against y.
func (rf *RandomForestRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !rf.IsFitted() {
		return 0, errors.NewNotFittedError("RandomForestRegressor", "Score")
	}

	yPred, err := rf.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}

// NumLeaves returns the total leaf count across the forest. Exposed for
// inspection and tests.
func (rf *RandomForestRegressor) NumLeaves() int {
	total := 0
	for _, tree := range rf.trees {
		total += tree.numLeaves()
	}
	return total
}

// GetParams returns the forest's hyperparameters.
func (rf *RandomForestRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_trees":          rf.NumTrees,
		"max_depth":        rf.MaxDepth,
		"max_features":     string(rf.MaxFeatures),
		"min_samples_leaf": rf.MinSamplesLeaf,
		"random_state":     rf.RandomState,
	}
}
