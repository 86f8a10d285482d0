package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/pkg/errors"
)

// stepData is a single-feature step function: easy for trees, hopeless for a
// single linear split evaluation to get wrong.
func stepData() (*mat.Dense, *mat.Dense) {
	n := 20
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i+1))
		if i < n/2 {
			y.Set(i, 0, 10)
		} else {
			y.Set(i, 0, 20)
		}
	}
	return X, y
}

func TestRandomForest_FitPredict(t *testing.T) {
	X, y := stepData()

	rf := NewRandomForestRegressor().
		WithNumTrees(50).
		WithRandomState(7)

	require.NoError(t, rf.Fit(X, y))

	pred, err := rf.Predict(mat.NewDense(2, 1, []float64{3, 17}))
	require.NoError(t, err)

	assert.InDelta(t, 10.0, pred.At(0, 0), 2.5)
	assert.InDelta(t, 20.0, pred.At(1, 0), 2.5)

	score, err := rf.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.8)
}

func TestRandomForest_Deterministic(t *testing.T) {
	X, y := stepData()
	probe := mat.NewDense(5, 1, []float64{2, 6, 11, 14, 19})

	predict := func(seed int64) []float64 {
		rf := NewRandomForestRegressor().WithNumTrees(20).WithRandomState(seed)
		require.NoError(t, rf.Fit(X, y))
		pred, err := rf.Predict(probe)
		require.NoError(t, err)
		out := make([]float64, 5)
		for i := range out {
			out[i] = pred.At(i, 0)
		}
		return out
	}

	assert.Equal(t, predict(123), predict(123), "same seed must reproduce the forest exactly")
	assert.NotEqual(t, predict(123), predict(100), "different seeds should grow different forests")
}

func TestRandomForest_MaxDepthLimitsLeaves(t *testing.T) {
	X, y := stepData()

	rf := NewRandomForestRegressor().
		WithNumTrees(10).
		WithMaxDepth(1).
		WithRandomState(3)

	require.NoError(t, rf.Fit(X, y))

	// A depth-1 tree is a single split, so at most two leaves per tree.
	assert.LessOrEqual(t, rf.NumLeaves(), 2*rf.NumTrees)
}

func TestMaxFeatures_FeatureCount(t *testing.T) {
	tests := []struct {
		name    string
		mode    MaxFeatures
		p       int
		want    int
		wantErr bool
	}{
		{name: "auto uses all", mode: MaxFeaturesAuto, p: 7, want: 7},
		{name: "empty defaults to all", mode: "", p: 4, want: 4},
		{name: "sqrt", mode: MaxFeaturesSqrt, p: 9, want: 3},
		{name: "sqrt rounds up", mode: MaxFeaturesSqrt, p: 5, want: 3},
		{name: "log2", mode: MaxFeaturesLog2, p: 8, want: 3},
		{name: "log2 floor of one", mode: MaxFeaturesLog2, p: 1, want: 1},
		{name: "unknown mode", mode: "third", p: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.mode.FeatureCount(tt.p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRandomForest_NotFitted(t *testing.T) {
	rf := NewRandomForestRegressor()
	_, err := rf.Predict(mat.NewDense(1, 1, []float64{1}))
	require.Error(t, err)

	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestRandomForest_InvalidInputs(t *testing.T) {
	X, y := stepData()

	rf := NewRandomForestRegressor().WithNumTrees(0)
	require.Error(t, rf.Fit(X, y))

	rf = NewRandomForestRegressor()
	require.Error(t, rf.Fit(X, mat.NewDense(3, 1, []float64{1, 2, 3})), "row mismatch")

	rf = NewRandomForestRegressor().WithMaxFeatures("bogus")
	require.Error(t, rf.Fit(X, y))

	require.NoError(t, NewRandomForestRegressor().WithNumTrees(5).Fit(X, y))
}

func TestRandomForest_PredictDimensionMismatch(t *testing.T) {
	X, y := stepData()

	rf := NewRandomForestRegressor().WithNumTrees(5).WithRandomState(1)
	require.NoError(t, rf.Fit(X, y))

	_, err := rf.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	require.Error(t, err)

	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}
