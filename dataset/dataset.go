// Package dataset implements loading and cleaning of the delimited survey
// table: reading numeric columns with NA detection, dropping incomplete rows,
// dropping collinear columns, summary statistics and the correlation matrix,
// z-score outlier filtering, and the seeded train/test split.
package dataset

import (
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/nhanesgo/bpstudy/pkg/errors"
)

// Table is a numeric observation table: rows are survey participants,
// columns are predictors plus the response. Cleaning operations return new
// tables and leave the receiver untouched.
type Table struct {
	df dataframe.DataFrame
}

// Load reads a delimited table with a header row from path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewMissingFileError(path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read reads a delimited table with a header row. Every column is parsed as
// float; unparseable cells become missing values. A column with no numeric
// cells at all is rejected as non-numeric.
func Read(r io.Reader) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.NaNValues([]string{"NA", "NaN", "<NA>", ""}),
	)
	if df.Err != nil {
		return nil, errors.NewSchemaMismatchError("dataset.Read", "", df.Err.Error())
	}

	t := &Table{df: df}

	if df.Nrow() > 0 {
		for j, name := range df.Names() {
			allMissing := true
			for i := 0; i < df.Nrow(); i++ {
				if !math.IsNaN(t.df.Elem(i, j).Float()) {
					allMissing = false
					break
				}
			}
			if allMissing {
				return nil, errors.NewSchemaMismatchError("dataset.Read", name, "column has no numeric values")
			}
		}
	}

	return t, nil
}

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return t.df.Names()
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.df.Nrow()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return t.df.Ncol()
}

// HasColumn reports whether the table contains a column with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the values of a named column.
func (t *Table) Column(name string) ([]float64, error) {
	if !t.HasColumn(name) {
		return nil, errors.NewSchemaMismatchError("Table.Column", name, "no such column")
	}
	return t.df.Col(name).Float(), nil
}

// DropMissing returns a table containing only the rows with no missing
// values in any column.
func (t *Table) DropMissing() *Table {
	keep := make([]int, 0, t.df.Nrow())
	for i := 0; i < t.df.Nrow(); i++ {
		complete := true
		for j := 0; j < t.df.Ncol(); j++ {
			if math.IsNaN(t.df.Elem(i, j).Float()) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}

	return &Table{df: t.df.Subset(keep)}
}

// DropColumns returns a table without the named columns. Every name must
// exist.
func (t *Table) DropColumns(names ...string) (*Table, error) {
	for _, name := range names {
		if !t.HasColumn(name) {
			return nil, errors.NewSchemaMismatchError("Table.DropColumns", name, "no such column")
		}
	}
	if len(names) == 0 {
		return t, nil
	}

	df := t.df.Drop(names)
	if df.Err != nil {
		return nil, errors.NewSchemaMismatchError("Table.DropColumns", "", df.Err.Error())
	}
	return &Table{df: df}, nil
}

// Matrix returns the table as a dense numeric matrix in column order.
func (t *Table) Matrix() *mat.Dense {
	r, c := t.df.Nrow(), t.df.Ncol()
	m := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		col := t.df.Col(t.df.Names()[j]).Float()
		for i := 0; i < r; i++ {
			m.Set(i, j, col[i])
		}
	}
	return m
}

// ColumnSummary holds the per-column descriptive statistics printed in the
// report.
type ColumnSummary struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Describe computes descriptive statistics for every column, ignoring
// missing values.
func (t *Table) Describe() []ColumnSummary {
	summaries := make([]ColumnSummary, 0, t.df.Ncol())
	for _, name := range t.df.Names() {
		values := t.df.Col(name).Float()

		present := make([]float64, 0, len(values))
		for _, v := range values {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}

		s := ColumnSummary{Name: name, Count: len(present)}
		if len(present) > 0 {
			s.Mean = stat.Mean(present, nil)
			s.Min = present[0]
			s.Max = present[0]
			for _, v := range present {
				s.Min = math.Min(s.Min, v)
				s.Max = math.Max(s.Max, v)
			}
		}
		if len(present) > 1 {
			s.StdDev = stat.StdDev(present, nil)
		}
		summaries = append(summaries, s)
	}
	return summaries
}
