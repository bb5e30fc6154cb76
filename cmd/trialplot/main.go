package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"jointtrial/pkg/data"
	"jointtrial/pkg/metrics"
	"jointtrial/pkg/plotting"
	"jointtrial/pkg/report"
	"jointtrial/pkg/stats"
)

//
// ---------------------- CLI FLAGS ----------------------
//
// -f, --file_path : Path to the trial CSV. Default = trial_1.csv
// --time-col      : Time column name. Default = time
// --joints        : Generalized coordinates to plot and score (1-6). Default = 6
// --plot          : Output image for the 3x2 joint grid. Empty disables plotting
// --report        : Optional .csv or .xlsx export of summary and errors
// --log-level     : debug, info, warn, error
//
// Example:
//   go run ./cmd/trialplot -f trial_1.csv --plot trial_1.png --report trial_1.xlsx
//
// -------------------------------------------------------
//

var errNoData = errors.New("no data loaded")

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)
	if err := run(cfg, os.Stdout, logger); err != nil {
		if !errors.Is(err, errNoData) {
			logger.Error("trialplot failed", "error", err)
		}
		os.Exit(1)
	}
}

// run loads the trial, prints its summary, plots the joints and prints the
// integrated average error of each joint's commanded trajectory.
func run(cfg *config, out io.Writer, logger *slog.Logger) error {
	ds := data.LoadOrNil(cfg.FilePath, logger)
	if ds == nil {
		return errNoData
	}

	summary := stats.Summarize(out, ds)

	if cfg.PlotPath != "" {
		groups := plotting.JointColumns(cfg.Joints)
		if err := plotting.Save(cfg.PlotPath, ds, cfg.TimeCol, groups, plotting.DefaultOptions()); err != nil {
			logger.Error("plot failed", "path", cfg.PlotPath, "error", err)
		} else {
			logger.Info("saved joint plot", "path", cfg.PlotPath)
		}
	}

	errs, err := metrics.JointErrors(ds, cfg.Joints, metrics.ActualPattern, metrics.CommandedPattern)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	for _, e := range errs {
		if e.Err != nil {
			logger.Warn("skipping generalized coordinate", "joint", e.Joint, "error", e.Err)
			continue
		}
		fmt.Fprintf(out, "Integrated average error for generalized coordinate %d: %.4f\n", e.Joint, e.Value)
		logger.Debug("joint error", "joint", e.Joint, "rmse", e.RMSE, "max_abs", e.MaxAbs)
	}
	fmt.Fprintln(out, "\n                      Summary of Integrated Average Errors:")
	fmt.Fprintf(out, "Integrated average error for all trials: %.4f\n", metrics.Mean(errs))

	if cfg.Report != "" {
		if err := report.Write(cfg.Report, summary, errs); err != nil {
			return fmt.Errorf("report: %w", err)
		}
		logger.Info("saved report", "path", cfg.Report)
	}
	return nil
}
