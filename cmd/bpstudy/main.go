// Command bpstudy runs the blood-pressure survey analysis: it loads a
// delimited survey table, cleans it, fits a linear baseline and a
// grid-searched random forest, and prints both models' held-out scores.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nhanesgo/bpstudy/analysis"
	"github.com/nhanesgo/bpstudy/pkg/log"
	"github.com/nhanesgo/bpstudy/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bpstudy:", err)
		os.Exit(1)
	}
}

func run() error {
	defaults := analysis.DefaultConfig("")

	pflag.String("input", "", "path to the survey table (CSV)")
	pflag.String("response", defaults.ResponseColumn, "response column")
	pflag.StringSlice("drop", defaults.DropColumns, "columns dropped before modeling")
	pflag.Float64("outlier-threshold", defaults.OutlierThreshold, "absolute z-score cutoff for row removal")
	pflag.Float64("test-ratio", defaults.TestRatio, "held-out fraction")
	pflag.Int64("seed", defaults.Seed, "random seed for the split, cross-validation and forest")
	pflag.Int("cv-folds", defaults.CVFolds, "cross-validation fold count")
	pflag.Int("trees", defaults.NumTrees, "forest size")
	pflag.String("output-dir", "", "directory for plot artifacts (empty disables)")
	pflag.String("log-level", "info", "log level (debug, info, warn, error)")
	pflag.Bool("pretty", false, "human-readable log output")
	configFile := pflag.String("config", "", "optional config file")
	pflag.Parse()

	v, err := newConfigStore(pflag.CommandLine, *configFile)
	if err != nil {
		return err
	}

	log.Setup(v.GetString("log-level"), v.GetBool("pretty"))

	cfg := analysis.Config{
		InputPath:        v.GetString("input"),
		ResponseColumn:   v.GetString("response"),
		DropColumns:      v.GetStringSlice("drop"),
		OutlierThreshold: v.GetFloat64("outlier-threshold"),
		TestRatio:        v.GetFloat64("test-ratio"),
		Seed:             v.GetInt64("seed"),
		CVFolds:          v.GetInt("cv-folds"),
		NumTrees:         v.GetInt("trees"),
		Grid:             defaults.Grid,
		OutputDir:        v.GetString("output-dir"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := analysis.Run(ctx, cfg)
	if err != nil {
		return err
	}
	return printReport(os.Stdout, cfg, rep)
}

// newConfigStore layers flag values, BPSTUDY_* environment variables and an
// optional config file. Dashed keys map to underscored variable names, so
// --test-ratio is overridable as BPSTUDY_TEST_RATIO.
func newConfigStore(fs *pflag.FlagSet, configFile string) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	v.SetEnvPrefix("BPSTUDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func printReport(w io.Writer, cfg analysis.Config, rep *analysis.Report) error {
	fmt.Fprintf(w, "rows: %d loaded, %d complete, %d after outlier removal\n\n",
		rep.RowsLoaded, rep.RowsComplete, rep.RowsFiltered)

	if err := report.WriteSummary(w, rep.Summaries); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := report.WriteCorrelation(w, rep.CorrNames, rep.Correlation); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nlinear model for %s (standardized predictors):\n", cfg.ResponseColumn)
	fmt.Fprintf(w, "  intercept: %.4f\n", rep.Intercept)
	for i, name := range rep.FeatureNames {
		fmt.Fprintf(w, "  %-12s %+.4f\n", name, rep.Coefficients[i])
	}

	fmt.Fprintf(w, "\nbest forest parameters: %s (cv r2 %.4f)\n\n", rep.BestParams, rep.BestCVScore)

	if err := report.WriteScores(w, rep.Scores()); err != nil {
		return err
	}
	for _, p := range rep.ArtifactPaths {
		fmt.Fprintf(w, "wrote %s\n", p)
	}
	return nil
}
