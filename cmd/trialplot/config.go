package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"jointtrial/pkg/plotting"
	"jointtrial/pkg/report"
)

const defaultFilePath = "trial_1.csv"

// config holds the parsed command line.
type config struct {
	FilePath string `validate:"required"`
	TimeCol  string `validate:"required"`
	Joints   int    `validate:"min=1,max=6"`
	PlotPath string `validate:"omitempty,imagefile"`
	Report   string `validate:"omitempty,reportfile"`
	LogLevel string `validate:"oneof=debug info warn error"`
}

// parseFlags reads args into a config. -f and --file_path name the same flag.
// Every rejection is reported on stderr.
func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("trialplot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.FilePath, "file_path", defaultFilePath, "Path to the CSV file")
	fs.StringVar(&cfg.FilePath, "f", defaultFilePath, "Path to the CSV file (shorthand)")
	fs.StringVar(&cfg.TimeCol, "time-col", "time", "Name of the time column")
	fs.IntVar(&cfg.Joints, "joints", plotting.MaxGroups, "Number of generalized coordinates to plot and score (1-6)")
	fs.StringVar(&cfg.PlotPath, "plot", "joint_angles.png", "Image file for the joint plot (png, jpg, tiff, svg, pdf); empty to skip")
	fs.StringVar(&cfg.Report, "report", "", "Optional .csv or .xlsx export of the summary and errors")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintln(stderr, err)
		fs.PrintDefaults()
		return nil, err
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("imagefile", func(fl validator.FieldLevel) bool {
		return plotting.Supported(plotting.Format(fl.Field().String()))
	})
	v.RegisterValidation("reportfile", func(fl validator.FieldLevel) bool {
		return report.Supported(fl.Field().String())
	})
	return v
}

func (c *config) validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}
