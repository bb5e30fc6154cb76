package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"jointtrial/pkg/metrics"
	"jointtrial/pkg/stats"
)

const (
	SummarySheet = "Summary"
	ErrorsSheet  = "Errors"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

// Write exports the summary table and the per-joint errors to path. The
// format follows the extension: .csv or .xlsx. Either input may be nil.
func Write(path string, summary *stats.Summary, errs []metrics.JointError) error {
	switch ext(path) {
	case ".csv":
		return writeCSV(path, summary, errs)
	case ".xlsx":
		return writeXLSX(path, summary, errs)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Supported reports whether path names a format Write can produce.
func Supported(path string) bool {
	switch ext(path) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// summaryRows lays the summary out as header + one row per statistic.
func summaryRows(s *stats.Summary) [][]any {
	if s == nil {
		return nil
	}
	header := []any{"statistic"}
	for _, c := range s.Columns {
		header = append(header, c)
	}
	rows := [][]any{header}
	for i, name := range stats.Statistics {
		row := []any{name}
		for _, v := range s.Values[i] {
			row = append(row, cellValue(v))
		}
		rows = append(rows, row)
	}
	return rows
}

func errorRows(errs []metrics.JointError) [][]any {
	if errs == nil {
		return nil
	}
	rows := [][]any{{"joint", "reference", "observed", "integrated_average_error", "rmse", "max_abs_error"}}
	for _, e := range errs {
		rows = append(rows, []any{e.Joint, e.Reference, e.Observed,
			cellValue(e.Value), cellValue(e.RMSE), cellValue(e.MaxAbs)})
	}
	rows = append(rows, []any{"all", "", "", cellValue(metrics.Mean(errs)), "", ""})
	return rows
}

// cellValue keeps NaN out of numeric cells.
func cellValue(v float64) any {
	if math.IsNaN(v) {
		return "NaN"
	}
	return v
}

func writeXLSX(path string, summary *stats.Summary, errs []metrics.JointError) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if err := fillSheet(f, SummarySheet, summaryRows(summary)); err != nil {
		return err
	}
	if _, err := f.NewSheet(ErrorsSheet); err != nil {
		return err
	}
	if err := fillSheet(f, ErrorsSheet, errorRows(errs)); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func fillSheet(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// writeCSV stacks the summary table and the error table, separated by a blank record.
func writeCSV(path string, summary *stats.Summary, errs []metrics.JointError) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	sections := [][][]any{summaryRows(summary), errorRows(errs)}
	first := true
	for _, rows := range sections {
		if rows == nil {
			continue
		}
		if !first {
			if err := writer.Write(nil); err != nil {
				return err
			}
		}
		first = false
		for _, row := range rows {
			if err := writer.Write(formatRow(row)); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

func formatRow(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch v := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', 6, 64)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
