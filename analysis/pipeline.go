package analysis

import (
	"context"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/nhanesgo/bpstudy/dataset"
	"github.com/nhanesgo/bpstudy/ensemble"
	"github.com/nhanesgo/bpstudy/linear"
	"github.com/nhanesgo/bpstudy/metrics"
	"github.com/nhanesgo/bpstudy/pkg/errors"
	"github.com/nhanesgo/bpstudy/pkg/log"
	"github.com/nhanesgo/bpstudy/preprocessing"
	"github.com/nhanesgo/bpstudy/report"
	"github.com/nhanesgo/bpstudy/selection"
)

// ModelResult holds the held-out test evaluation of one fitted model.
type ModelResult struct {
	Name      string
	R2        float64
	MSE       float64
	Predicted *mat.VecDense
	Residuals *mat.VecDense
}

// Report is the outcome of a full analysis run.
type Report struct {
	RowsLoaded    int
	RowsComplete  int
	RowsFiltered  int
	FeatureNames  []string
	Summaries     []dataset.ColumnSummary
	CorrNames     []string
	Correlation   *mat.SymDense
	YTest         *mat.VecDense
	Linear        ModelResult
	Coefficients  []float64
	Intercept     float64
	Forest        ModelResult
	BestParams    selection.Params
	BestCVScore   float64
	ArtifactPaths []string
}

// Scores returns the report's model scores in presentation order.
func (r *Report) Scores() []report.ModelScore {
	return []report.ModelScore{
		{Name: r.Linear.Name, R2: r.Linear.R2, MSE: r.Linear.MSE},
		{Name: r.Forest.Name, R2: r.Forest.R2, MSE: r.Forest.MSE},
	}
}

// Run executes the full study: load the table, keep complete rows, drop the
// configured columns, inspect summaries and correlations, remove outlier rows,
// split, standardize on the training partition, fit the linear baseline and
// the grid-searched forest, and score both on the held-out partition.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.For("pipeline")

	tbl, err := dataset.Load(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	rep := &Report{RowsLoaded: tbl.NumRows()}
	logger.Info().Str("path", cfg.InputPath).Int("rows", tbl.NumRows()).Int("cols", tbl.NumCols()).Msg("table loaded")

	tbl = tbl.DropMissing()
	rep.RowsComplete = tbl.NumRows()
	logger.Info().Int("rows", tbl.NumRows()).Msg("incomplete rows dropped")

	if len(cfg.DropColumns) > 0 {
		tbl, err = tbl.DropColumns(cfg.DropColumns...)
		if err != nil {
			return nil, err
		}
		logger.Info().Strs("columns", cfg.DropColumns).Msg("collinear columns dropped")
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pipeline interrupted")
	}

	rep.Summaries = tbl.Describe()
	rep.Correlation, rep.CorrNames, err = tbl.CorrelationMatrix()
	if err != nil {
		return nil, err
	}

	filter := dataset.NewOutlierFilter(cfg.OutlierThreshold)
	tbl, err = filter.FitTransform(tbl)
	if err != nil {
		return nil, err
	}
	rep.RowsFiltered = tbl.NumRows()
	logger.Info().Int("rows", tbl.NumRows()).Float64("threshold", cfg.OutlierThreshold).Msg("outlier rows removed")

	split, err := dataset.Split(tbl, cfg.ResponseColumn, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return nil, err
	}
	rep.FeatureNames = split.FeatureNames
	rep.YTest = split.YTest
	logger.Info().Int("train", len(split.TrainRows)).Int("test", len(split.TestRows)).Msg("partitions built")

	scaler := preprocessing.NewStandardScaler()
	xTrainStd, err := scaler.FitTransform(split.XTrain)
	if err != nil {
		return nil, err
	}
	xTestStd, err := scaler.Transform(split.XTest)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pipeline interrupted")
	}

	rep.Linear, rep.Coefficients, rep.Intercept, err = fitLinear(xTrainStd, xTestStd, split)
	if err != nil {
		return nil, err
	}
	logger.Info().Float64("r2", rep.Linear.R2).Float64("mse", rep.Linear.MSE).Msg("linear model scored")

	if err := fitForest(cfg, split, rep); err != nil {
		return nil, err
	}
	logger.Info().
		Str("params", rep.BestParams.String()).
		Float64("cv_r2", rep.BestCVScore).
		Float64("r2", rep.Forest.R2).
		Float64("mse", rep.Forest.MSE).
		Msg("forest scored")

	if cfg.OutputDir != "" {
		if err := writeArtifacts(cfg, rep); err != nil {
			return nil, err
		}
	}
	return rep, nil
}

// fitLinear fits the ordinary least squares baseline on the standardized
// training partition and evaluates it on the standardized test partition.
func fitLinear(xTrain, xTest mat.Matrix, split *dataset.SplitResult) (res ModelResult, coefs []float64, intercept float64, err error) {
	defer errors.Recover(&err, "fit linear model")

	lr := linear.NewRegression()
	if err = lr.Fit(xTrain, split.YTrain); err != nil {
		return res, nil, 0, err
	}
	pred, err := lr.Predict(xTest)
	if err != nil {
		return res, nil, 0, err
	}
	res, err = evaluate("linear regression", split.YTest, pred)
	if err != nil {
		return res, nil, 0, err
	}
	return res, lr.Coefficients(), lr.Intercept(), nil
}

// fitForest grid-searches the forest's hyperparameters by cross-validation on
// the training partition and evaluates the refit winner on the test partition.
// Trees split on raw feature values, so the unstandardized partitions are used.
func fitForest(cfg Config, split *dataset.SplitResult, rep *Report) error {
	base := ensemble.NewRandomForestRegressor().
		WithNumTrees(cfg.NumTrees).
		WithRandomState(cfg.Seed)
	cv := selection.NewKFold(cfg.CVFolds, true, cfg.Seed)
	gs := selection.NewGridSearchCV(base, cfg.Grid, cv)

	if err := gs.Fit(split.XTrain, split.YTrain); err != nil {
		return err
	}
	pred, err := gs.Predict(split.XTest)
	if err != nil {
		return err
	}
	res, err := evaluate("random forest", split.YTest, pred)
	if err != nil {
		return err
	}
	rep.Forest = res
	rep.BestParams = gs.BestParams
	rep.BestCVScore = gs.BestScore
	return nil
}

func evaluate(name string, yTrue *mat.VecDense, pred mat.Matrix) (ModelResult, error) {
	predVec, err := metrics.ColumnVec(pred)
	if err != nil {
		return ModelResult{}, err
	}
	r2, err := metrics.R2Score(yTrue, predVec)
	if err != nil {
		return ModelResult{}, err
	}
	mse, err := metrics.MSE(yTrue, predVec)
	if err != nil {
		return ModelResult{}, err
	}
	resid, err := metrics.Residuals(yTrue, predVec)
	if err != nil {
		return ModelResult{}, err
	}
	return ModelResult{Name: name, R2: r2, MSE: mse, Predicted: predVec, Residuals: resid}, nil
}

// writeArtifacts saves the response histogram and the per-model diagnostic
// plots into cfg.OutputDir, recording each path on the report.
func writeArtifacts(cfg Config, rep *Report) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return errors.Wrapf(err, "create output directory %s", cfg.OutputDir)
	}

	response := make([]float64, rep.YTest.Len())
	for i := range response {
		response[i] = rep.YTest.AtVec(i)
	}
	plots := []struct {
		name string
		save func(path string) error
	}{
		{"response_hist.png", func(p string) error {
			return report.Histogram(response, "Held-out "+cfg.ResponseColumn, cfg.ResponseColumn, p)
		}},
		{"linear_pred_obs.png", func(p string) error {
			return report.PredictedObserved(rep.YTest, rep.Linear.Predicted, "Linear regression", p)
		}},
		{"linear_residuals.png", func(p string) error {
			return report.ResidualPlot(rep.Linear.Predicted, rep.Linear.Residuals, "Linear regression residuals", p)
		}},
		{"forest_pred_obs.png", func(p string) error {
			return report.PredictedObserved(rep.YTest, rep.Forest.Predicted, "Random forest", p)
		}},
		{"forest_residuals.png", func(p string) error {
			return report.ResidualPlot(rep.Forest.Predicted, rep.Forest.Residuals, "Random forest residuals", p)
		}},
	}
	for _, pl := range plots {
		path := filepath.Join(cfg.OutputDir, pl.name)
		// Plot rendering can panic on pathological inputs.
		if err := errors.SafeExecute("save "+pl.name, func() error { return pl.save(path) }); err != nil {
			return err
		}
		rep.ArtifactPaths = append(rep.ArtifactPaths, path)
	}
	return nil
}
