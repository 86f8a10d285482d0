package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/ensemble"
	"github.com/nhanesgo/bpstudy/pkg/errors"
)

// rampData is a noiseless linear ramp: deeper trees approximate it much
// better than a single split.
func rampData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i+1))
		y.Set(i, 0, float64(i+1))
	}
	return X, y
}

func TestParamGrid_Combinations(t *testing.T) {
	grid := DefaultParamGrid()
	combos := grid.Combinations()

	require.Len(t, combos, 12)
	// Declaration order: MaxFeatures outer, MaxDepth inner.
	assert.Equal(t, Params{MaxFeatures: ensemble.MaxFeaturesAuto, MaxDepth: 0}, combos[0])
	assert.Equal(t, Params{MaxFeatures: ensemble.MaxFeaturesAuto, MaxDepth: 5}, combos[1])
	assert.Equal(t, Params{MaxFeatures: ensemble.MaxFeaturesLog2, MaxDepth: 1}, combos[11])
}

func TestParams_String(t *testing.T) {
	p := Params{MaxFeatures: ensemble.MaxFeaturesSqrt, MaxDepth: 0}
	assert.Equal(t, "max_features=sqrt max_depth=none", p.String())

	p.MaxDepth = 5
	assert.Equal(t, "max_features=sqrt max_depth=5", p.String())
}

func TestGridSearchCV_SelectsDeeperTreesOnRamp(t *testing.T) {
	X, y := rampData(30)

	base := ensemble.NewRandomForestRegressor().
		WithNumTrees(30).
		WithRandomState(7)

	grid := ParamGrid{
		MaxFeatures: []ensemble.MaxFeatures{ensemble.MaxFeaturesAuto},
		MaxDepth:    []int{0, 1},
	}

	gs := NewGridSearchCV(base, grid, NewKFold(5, true, 7))
	require.NoError(t, gs.Fit(X, y))

	require.Len(t, gs.Results, 2)
	assert.Equal(t, 0, gs.BestParams.MaxDepth, "unlimited depth should beat a single split on a ramp")

	for _, result := range gs.Results {
		assert.LessOrEqual(t, result.MeanScore, gs.BestScore)
		assert.Len(t, result.FoldScores, 5)
	}

	require.NotNil(t, gs.BestEstimator)
	assert.True(t, gs.BestEstimator.IsFitted(), "winner must be refit on the full training data")

	pred, err := gs.Predict(mat.NewDense(1, 1, []float64{15}))
	require.NoError(t, err)
	assert.InDelta(t, 15.0, pred.At(0, 0), 4.0)

	score, err := gs.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.8)
}

func TestGridSearchCV_NotFitted(t *testing.T) {
	gs := NewGridSearchCV(ensemble.NewRandomForestRegressor(), DefaultParamGrid(), NewKFold(3, false, 0))

	_, err := gs.Predict(mat.NewDense(1, 1, []float64{1}))
	require.Error(t, err)

	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestGridSearchCV_InvalidSetup(t *testing.T) {
	X, y := rampData(10)

	gs := NewGridSearchCV(nil, DefaultParamGrid(), NewKFold(3, false, 0))
	require.Error(t, gs.Fit(X, y))

	gs = NewGridSearchCV(ensemble.NewRandomForestRegressor(), ParamGrid{}, NewKFold(3, false, 0))
	require.Error(t, gs.Fit(X, y))
}
