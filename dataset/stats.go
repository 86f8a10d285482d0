package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/nhanesgo/bpstudy/core/model"
	"github.com/nhanesgo/bpstudy/pkg/errors"
)

// CorrelationMatrix computes the Pearson correlation matrix over all columns,
// returned with the column names in matrix order. The matrix is for
// inspection only; nothing downstream depends on it.
func (t *Table) CorrelationMatrix() (*mat.SymDense, []string, error) {
	r, c := t.NumRows(), t.NumCols()
	if r == 0 || c == 0 {
		return nil, nil, errors.NewModelError("Table.CorrelationMatrix", "empty data", errors.ErrEmptyData)
	}

	for _, name := range t.Columns() {
		if err := t.checkVariance("Table.CorrelationMatrix", name); err != nil {
			return nil, nil, err
		}
	}

	corr := mat.NewSymDense(c, nil)
	stat.CorrelationMatrix(corr, t.Matrix(), nil)
	return corr, t.Columns(), nil
}

// OutlierFilter drops rows whose absolute z-score reaches Threshold in any
// column. The per-column statistics are computed once by Fit and applied
// unchanged by Transform, so transforming already-filtered rows again removes
// nothing. Recomputing statistics on the filtered rows instead would shrink
// the standard deviations and let a repeat pass remove further rows.
type OutlierFilter struct {
	model.BaseEstimator

	// Threshold is the absolute z-score at which a row is dropped.
	Threshold float64

	// Columns, Mean and Std hold the fitted per-column statistics.
	Columns []string
	Mean    []float64
	Std     []float64
}

// NewOutlierFilter creates an unfitted filter for the given threshold.
func NewOutlierFilter(threshold float64) *OutlierFilter {
	return &OutlierFilter{Threshold: threshold}
}

// Fit computes per-column mean and sample standard deviation from t.
func (f *OutlierFilter) Fit(t *Table) error {
	if f.Threshold <= 0 {
		return errors.NewValidationError("threshold", "must be positive", f.Threshold)
	}

	r, c := t.NumRows(), t.NumCols()
	if r == 0 || c == 0 {
		return errors.NewModelError("OutlierFilter.Fit", "empty data", errors.ErrEmptyData)
	}

	f.Columns = t.Columns()
	f.Mean = make([]float64, c)
	f.Std = make([]float64, c)
	for j, name := range f.Columns {
		col := t.df.Col(name).Float()
		f.Mean[j] = stat.Mean(col, nil)
		f.Std[j] = stat.StdDev(col, nil)
		if f.Std[j] == 0 || math.IsNaN(f.Std[j]) {
			return errors.NewDegenerateColumnError("OutlierFilter.Fit", name)
		}
	}

	f.SetFitted()
	return nil
}

// Transform returns the rows of t whose absolute z-score is below the
// threshold in every column, using the fitted statistics. The columns of t
// must match the columns seen during Fit.
func (f *OutlierFilter) Transform(t *Table) (*Table, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError("OutlierFilter", "Transform")
	}

	names := t.Columns()
	if len(names) != len(f.Columns) {
		return nil, errors.NewSchemaMismatchError("OutlierFilter.Transform", "", "column count differs from fitted table")
	}
	for j, name := range names {
		if name != f.Columns[j] {
			return nil, errors.NewSchemaMismatchError("OutlierFilter.Transform", name, "column not seen during fit")
		}
	}

	r := t.NumRows()
	keep := make([]int, 0, r)
	for i := 0; i < r; i++ {
		inlier := true
		for j := range f.Columns {
			z := (t.df.Elem(i, j).Float() - f.Mean[j]) / f.Std[j]
			if math.Abs(z) >= f.Threshold {
				inlier = false
				break
			}
		}
		if inlier {
			keep = append(keep, i)
		}
	}

	if len(keep) == 0 {
		return nil, errors.NewEmptyPartitionError("OutlierFilter.Transform", "filtered", r)
	}

	return &Table{df: t.df.Subset(keep)}, nil
}

// FitTransform fits the filter on t and returns the filtered rows.
func (f *OutlierFilter) FitTransform(t *Table) (*Table, error) {
	if err := f.Fit(t); err != nil {
		return nil, err
	}
	return f.Transform(t)
}

// checkVariance returns a DegenerateColumnError if the named column is
// constant.
func (t *Table) checkVariance(op, name string) error {
	col := t.df.Col(name).Float()
	sd := stat.StdDev(col, nil)
	if sd == 0 || math.IsNaN(sd) {
		return errors.NewDegenerateColumnError(op, name)
	}
	return nil
}
