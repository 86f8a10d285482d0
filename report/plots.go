// Package report renders the study's output artifacts: distribution
// histograms, predicted-vs-observed scatter plots, residual plots, and the
// printed summary and correlation tables.
package report

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/nhanesgo/bpstudy/pkg/errors"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// Histogram saves a histogram of values to path.
func Histogram(values []float64, title, xLabel, path string) error {
	if len(values) == 0 {
		return errors.NewValueError("report.Histogram", "no values to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(plotter.Values(values), 20)
	if err != nil {
		return errors.Wrap(err, "report: building histogram")
	}
	p.Add(h)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "report: saving histogram to %s", path)
	}
	return nil
}

// PredictedObserved saves a scatter plot of predicted against observed
// responses, with the identity line a perfect model would follow.
func PredictedObserved(observed, predicted *mat.VecDense, title, path string) error {
	n := observed.Len()
	if n == 0 {
		return errors.NewValueError("report.PredictedObserved", "no values to plot")
	}
	if predicted.Len() != n {
		return errors.NewDimensionError("report.PredictedObserved", n, predicted.Len(), 0)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Observed"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, n)
	lo, hi := observed.AtVec(0), observed.AtVec(0)
	for i := 0; i < n; i++ {
		pts[i].X = observed.AtVec(i)
		pts[i].Y = predicted.AtVec(i)
		if pts[i].X < lo {
			lo = pts[i].X
		}
		if pts[i].X > hi {
			hi = pts[i].X
		}
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report: building scatter")
	}
	p.Add(s)

	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "report: building identity line")
	}
	p.Add(identity)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "report: saving scatter to %s", path)
	}
	return nil
}

// ResidualPlot saves residuals against predicted values with a zero line.
// Structure in this plot is the usual sign of a violated model assumption.
func ResidualPlot(predicted, residuals *mat.VecDense, title, path string) error {
	n := predicted.Len()
	if n == 0 {
		return errors.NewValueError("report.ResidualPlot", "no values to plot")
	}
	if residuals.Len() != n {
		return errors.NewDimensionError("report.ResidualPlot", n, residuals.Len(), 0)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Residual"

	pts := make(plotter.XYs, n)
	lo, hi := predicted.AtVec(0), predicted.AtVec(0)
	for i := 0; i < n; i++ {
		pts[i].X = predicted.AtVec(i)
		pts[i].Y = residuals.AtVec(i)
		if pts[i].X < lo {
			lo = pts[i].X
		}
		if pts[i].X > hi {
			hi = pts[i].X
		}
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "report: building scatter")
	}
	p.Add(s)

	zero, err := plotter.NewLine(plotter.XYs{{X: lo, Y: 0}, {X: hi, Y: 0}})
	if err != nil {
		return errors.Wrap(err, "report: building zero line")
	}
	p.Add(zero)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "report: saving residual plot to %s", path)
	}
	return nil
}
