package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trialCSV = `time,q_0,q_des_0,q_cmd_0,q_1,q_des_1,q_cmd_1
0.0,1.0,1.0,1.0,0.0,0.0,0.5
0.1,2.0,2.1,2.0,0.0,0.1,0.5
0.2,3.0,3.2,5.0,0.0,0.2,0.5
`

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, defaultFilePath, cfg.FilePath)
	assert.Equal(t, "time", cfg.TimeCol)
	assert.Equal(t, 6, cfg.Joints)
	assert.Equal(t, "joint_angles.png", cfg.PlotPath)
	assert.NoError(t, cfg.validate())
}

func TestParseFlagsFilePathAliases(t *testing.T) {
	for _, args := range [][]string{
		{"-f", "a.csv"},
		{"--f", "a.csv"},
		{"--file_path", "a.csv"},
		{"--file_path=a.csv"},
	} {
		cfg, err := parseFlags(args, io.Discard)
		require.NoError(t, err, args)
		assert.Equal(t, "a.csv", cfg.FilePath, args)
	}
}

func TestParseFlagsRejectsPositional(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"-f", "a.csv", "extra"}, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "unexpected arguments: extra")

	stderr.Reset()
	_, err = parseFlags([]string{"--nope"}, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "flag provided but not defined: -nope")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
		ok   bool
	}{
		{"too many joints", []string{"--joints", "7"}, false},
		{"zero joints", []string{"--joints", "0"}, false},
		{"bad image", []string{"--plot", "out.gif"}, false},
		{"no plot", []string{"--plot", ""}, true},
		{"svg plot", []string{"--plot", "out.svg"}, true},
		{"xlsx report", []string{"--report", "r.xlsx"}, true},
		{"json report", []string{"--report", "r.json"}, false},
		{"upper-case report", []string{"--report", "R.XLSX"}, true},
		{"upper-case csv report", []string{"--report", "out/R.Csv"}, true},
		{"no extension report", []string{"--report", "xlsx"}, false},
		{"level", []string{"--log-level", "DEBUG"}, true},
		{"bad level", []string{"--log-level", "trace"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args, io.Discard)
			require.NoError(t, err)
			if tt.ok {
				assert.NoError(t, cfg.validate())
			} else {
				assert.Error(t, cfg.validate())
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "trial_1.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(trialCSV), 0o644))

	cfg := &config{
		FilePath: csvPath,
		TimeCol:  "time",
		Joints:   3,
		PlotPath: filepath.Join(dir, "joints.png"),
		Report:   filepath.Join(dir, "report.xlsx"),
		LogLevel: "info",
	}
	var out, logs bytes.Buffer
	require.NoError(t, run(cfg, &out, newLogger(&logs, cfg.LogLevel)))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Data Summary:\n"))
	assert.Contains(t, text, "Integrated average error for generalized coordinate 0: 0.6667\n")
	assert.Contains(t, text, "Integrated average error for generalized coordinate 1: 0.5000\n")
	assert.NotContains(t, text, "generalized coordinate 2:")
	assert.Contains(t, text, "Integrated average error for all trials: 0.5833\n")

	assert.Contains(t, logs.String(), "skipping generalized coordinate")
	assert.FileExists(t, cfg.PlotPath)
	assert.FileExists(t, cfg.Report)
}

func TestRunMissingFile(t *testing.T) {
	cfg := &config{FilePath: filepath.Join(t.TempDir(), "missing.csv"), TimeCol: "time", Joints: 6}
	var out, logs bytes.Buffer
	err := run(cfg, &out, newLogger(&logs, "info"))
	assert.ErrorIs(t, err, errNoData)
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "Error loading CSV data")
}

func TestRunPlotFailureStillScoresJoints(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "trial.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("t,q_0,q_cmd_0\n0,1,1\n1,2,4\n"), 0o644))

	cfg := &config{FilePath: csvPath, TimeCol: "time", Joints: 1, PlotPath: filepath.Join(dir, "p.png")}
	var out, logs bytes.Buffer
	require.NoError(t, run(cfg, &out, newLogger(&logs, "info")))

	assert.Contains(t, logs.String(), "plot failed")
	assert.NoFileExists(t, cfg.PlotPath)
	assert.Contains(t, out.String(), "Integrated average error for generalized coordinate 0: 1.0000\n")
	assert.Contains(t, out.String(), "Integrated average error for all trials: 1.0000\n")
}

func TestRunByteOrderMarkHeader(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "trial.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("\ufeff"+trialCSV), 0o644))

	cfg := &config{FilePath: csvPath, TimeCol: "time", Joints: 2, PlotPath: filepath.Join(dir, "p.png")}
	var out, logs bytes.Buffer
	require.NoError(t, run(cfg, &out, newLogger(&logs, "info")))

	assert.NotContains(t, logs.String(), "plot failed")
	assert.FileExists(t, cfg.PlotPath)
	assert.Contains(t, out.String(), "Integrated average error for generalized coordinate 0: 0.6667\n")
}
