package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/dataset"
)

// WriteSummary prints the per-column descriptive statistics as an aligned
// table.
func WriteSummary(w io.Writer, summaries []dataset.ColumnSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\tmax")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
			s.Name, s.Count, s.Mean, s.StdDev, s.Min, s.Max)
	}

	return tw.Flush()
}

// WriteCorrelation prints the correlation matrix with column headers.
func WriteCorrelation(w io.Writer, names []string, corr *mat.SymDense) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "\t")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t", name)
	}
	fmt.Fprintln(tw)

	for i, name := range names {
		fmt.Fprintf(tw, "%s\t", name)
		for j := range names {
			fmt.Fprintf(tw, "%.3f\t", corr.At(i, j))
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

// ModelScore is one fitted model's held-out evaluation.
type ModelScore struct {
	Name string
	R2   float64
	MSE  float64
}

// WriteScores prints the held-out test scores of the fitted models.
func WriteScores(w io.Writer, scores []ModelScore) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "model\ttest R²\ttest MSE")
	for _, s := range scores {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", s.Name, s.R2, s.MSE)
	}

	return tw.Flush()
}
