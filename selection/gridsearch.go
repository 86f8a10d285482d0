package selection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/core/model"
	"github.com/nhanesgo/bpstudy/ensemble"
	"github.com/nhanesgo/bpstudy/metrics"
	"github.com/nhanesgo/bpstudy/pkg/errors"
	"github.com/nhanesgo/bpstudy/pkg/log"
)

// Params is one hyperparameter combination of the forest grid.
type Params struct {
	MaxFeatures ensemble.MaxFeatures
	MaxDepth    int // 0 means unlimited
}

// String renders the combination for logs and the printed report.
func (p Params) String() string {
	depth := "none"
	if p.MaxDepth > 0 {
		depth = fmt.Sprintf("%d", p.MaxDepth)
	}
	return fmt.Sprintf("max_features=%s max_depth=%s", p.MaxFeatures, depth)
}

// ParamGrid is the cross product of candidate hyperparameter values.
type ParamGrid struct {
	MaxFeatures []ensemble.MaxFeatures
	MaxDepth    []int
}

// DefaultParamGrid returns the grid searched by the study.
func DefaultParamGrid() ParamGrid {
	return ParamGrid{
		MaxFeatures: []ensemble.MaxFeatures{ensemble.MaxFeaturesAuto, ensemble.MaxFeaturesSqrt, ensemble.MaxFeaturesLog2},
		MaxDepth:    []int{0, 5, 3, 1},
	}
}

// Combinations enumerates the grid in declaration order. Ties during search
// resolve to the earlier combination.
func (g ParamGrid) Combinations() []Params {
	combos := make([]Params, 0, len(g.MaxFeatures)*len(g.MaxDepth))
	for _, mf := range g.MaxFeatures {
		for _, md := range g.MaxDepth {
			combos = append(combos, Params{MaxFeatures: mf, MaxDepth: md})
		}
	}
	return combos
}

// ComboResult is the cross-validated outcome of one grid combination.
type ComboResult struct {
	Params     Params
	FoldScores []float64
	MeanScore  float64
	StdScore   float64
}

// GridSearchCV selects forest hyperparameters by exhaustive k-fold
// cross-validated search over a grid, scored by mean R², then refits the
// winning combination on the full training data.
type GridSearchCV struct {
	model.BaseEstimator

	Base *ensemble.RandomForestRegressor
	Grid ParamGrid
	CV   *KFold

	BestParams    Params
	BestScore     float64
	BestEstimator *ensemble.RandomForestRegressor
	Results       []ComboResult
}

// NewGridSearchCV creates a grid search around a template forest. The
// template's NumTrees, MinSamplesLeaf and RandomState are shared by every
// candidate; MaxFeatures and MaxDepth come from the grid.
func NewGridSearchCV(base *ensemble.RandomForestRegressor, grid ParamGrid, cv *KFold) *GridSearchCV {
	return &GridSearchCV{
		Base: base,
		Grid: grid,
		CV:   cv,
	}
}

// Fit runs the search and refits the best combination.
func (gs *GridSearchCV) Fit(X, y mat.Matrix) error {
	if gs.Base == nil {
		return errors.NewValueError("GridSearchCV.Fit", "base estimator is nil")
	}

	combos := gs.Grid.Combinations()
	if len(combos) == 0 {
		return errors.NewValueError("GridSearchCV.Fit", "empty parameter grid")
	}
	if gs.CV == nil {
		gs.CV = NewKFold(5, true, 0)
	}

	folds, err := gs.CV.Split(X)
	if err != nil {
		return err
	}

	logger := log.For("selection")

	gs.Results = make([]ComboResult, 0, len(combos))
	bestIdx := -1
	bestScore := math.Inf(-1)

	for ci, combo := range combos {
		scores := make([]float64, len(folds))

		for fi, fold := range folds {
			trainX, trainY := extractSubset(X, y, fold.TrainIndices)
			testX, testY := extractSubset(X, y, fold.TestIndices)

			rf := gs.Base.Clone().
				WithMaxFeatures(combo.MaxFeatures).
				WithMaxDepth(combo.MaxDepth)

			if err := rf.Fit(trainX, trainY); err != nil {
				return errors.Wrapf(err, "grid search: fold %d of %s failed", fi, combo)
			}

			pred, err := rf.Predict(testX)
			if err != nil {
				return errors.Wrapf(err, "grid search: fold %d of %s failed", fi, combo)
			}

			score, err := metrics.R2ScoreMatrix(testY, pred)
			if err != nil {
				return errors.Wrapf(err, "grid search: fold %d of %s failed", fi, combo)
			}
			scores[fi] = score
		}

		result := ComboResult{
			Params:     combo,
			FoldScores: scores,
			MeanScore:  mean(scores),
			StdScore:   stdDev(scores),
		}
		gs.Results = append(gs.Results, result)

		logger.Debug().
			Str("params", combo.String()).
			Float64("mean_r2", result.MeanScore).
			Float64("std_r2", result.StdScore).
			Msg("evaluated grid combination")

		// Strict comparison keeps the earliest combination on ties.
		if result.MeanScore > bestScore {
			bestScore = result.MeanScore
			bestIdx = ci
		}
	}

	gs.BestParams = combos[bestIdx]
	gs.BestScore = bestScore

	gs.BestEstimator = gs.Base.Clone().
		WithMaxFeatures(gs.BestParams.MaxFeatures).
		WithMaxDepth(gs.BestParams.MaxDepth)
	if err := gs.BestEstimator.Fit(X, y); err != nil {
		return errors.Wrap(err, "grid search: refit of best combination failed")
	}

	logger.Info().
		Str("best_params", gs.BestParams.String()).
		Float64("best_cv_r2", gs.BestScore).
		Msg("grid search complete")

	gs.SetFitted()

	return nil
}

// Predict delegates to the refitted best estimator.
func (gs *GridSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gs.IsFitted() {
		return nil, errors.NewNotFittedError("GridSearchCV", "Predict")
	}
	return gs.BestEstimator.Predict(X)
}

// Score delegates to the refitted best estimator.
func (gs *GridSearchCV) Score(X, y mat.Matrix) (float64, error) {
	if !gs.IsFitted() {
		return 0, errors.NewNotFittedError("GridSearchCV", "Score")
	}
	return gs.BestEstimator.Score(X, y)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
