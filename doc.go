// Package bpstudy analyzes systolic blood pressure in NHANES-style survey
// tables: it cleans a delimited table, removes collinear columns and outlier
// rows, and compares an ordinary least squares baseline against a
// cross-validated random forest on a held-out partition.
//
// # Quick Start
//
// The whole study runs through the analysis package:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/nhanesgo/bpstudy/analysis"
//	)
//
//	func main() {
//	    cfg := analysis.DefaultConfig("nhanes.csv")
//	    rep, err := analysis.Run(context.Background(), cfg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("forest r2 %.3f (params %s)\n", rep.Forest.R2, rep.BestParams)
//	}
//
// # Packages
//
//   - dataset: delimited table loading, cleaning, outlier removal, splitting
//   - preprocessing: train-partition standardization
//   - linear: ordinary least squares regression
//   - ensemble: random forest regression
//   - selection: k-fold cross-validation and grid search
//   - metrics: regression scoring (MSE, R², residuals)
//   - report: textual summaries and diagnostic plots
//   - analysis: the end-to-end pipeline and its configuration
//
// The individual packages compose freely; analysis.Run is just the study's
// canonical wiring of them.
package bpstudy
