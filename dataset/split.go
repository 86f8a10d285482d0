package dataset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/pkg/errors"
)

// SplitResult holds the four row-disjoint pieces of a train/test split. The
// response column is removed from both feature matrices.
type SplitResult struct {
	XTrain *mat.Dense
	XTest  *mat.Dense
	YTrain *mat.VecDense
	YTest  *mat.VecDense

	// FeatureNames are the feature columns in matrix order.
	FeatureNames []string

	// TrainRows and TestRows are the source row indices of each partition.
	TrainRows []int
	TestRows  []int
}

// Split partitions the table into train and test sets. testRatio is the
// fraction of rows assigned to the test partition, rounded to the nearest
// row. The shuffle is seeded, so the partition is identical across runs with
// the same seed and ratio, and every row lands in exactly one partition.
func Split(t *Table, response string, testRatio float64, seed int64) (*SplitResult, error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, errors.NewValidationError("testRatio", "must be in (0, 1)", testRatio)
	}
	if !t.HasColumn(response) {
		return nil, errors.NewSchemaMismatchError("dataset.Split", response, "response column not found")
	}

	n := t.NumRows()
	if n == 0 {
		return nil, errors.NewModelError("dataset.Split", "empty data", errors.ErrEmptyData)
	}

	nTest := int(math.Round(float64(n) * testRatio))
	if nTest == 0 {
		return nil, errors.NewEmptyPartitionError("dataset.Split", "test", n)
	}
	if nTest == n {
		return nil, errors.NewEmptyPartitionError("dataset.Split", "train", n)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	testRows := append([]int(nil), indices[:nTest]...)
	trainRows := append([]int(nil), indices[nTest:]...)

	featureNames := make([]string, 0, t.NumCols()-1)
	featureCols := make([]int, 0, t.NumCols()-1)
	responseCol := -1
	for j, name := range t.Columns() {
		if name == response {
			responseCol = j
			continue
		}
		featureNames = append(featureNames, name)
		featureCols = append(featureCols, j)
	}
	if len(featureCols) == 0 {
		return nil, errors.NewSchemaMismatchError("dataset.Split", response, "table has no feature columns")
	}

	extract := func(rows []int) (*mat.Dense, *mat.VecDense) {
		X := mat.NewDense(len(rows), len(featureCols), nil)
		y := mat.NewVecDense(len(rows), nil)
		for i, row := range rows {
			for k, col := range featureCols {
				X.Set(i, k, t.df.Elem(row, col).Float())
			}
			y.SetVec(i, t.df.Elem(row, responseCol).Float())
		}
		return X, y
	}

	XTrain, yTrain := extract(trainRows)
	XTest, yTest := extract(testRows)

	return &SplitResult{
		XTrain:       XTrain,
		XTest:        XTest,
		YTrain:       yTrain,
		YTest:        yTest,
		FeatureNames: featureNames,
		TrainRows:    trainRows,
		TestRows:     testRows,
	}, nil
}
