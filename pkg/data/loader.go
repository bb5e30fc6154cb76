package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var (
	ErrNoHeader        = errors.New("csv has no header row")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrTooManyFields   = errors.New("row has more fields than header")
	ErrNoColumn        = errors.New("no such column")
	ErrNotNumeric      = errors.New("column is not numeric")
)

// missing cell markers, matched case-sensitively after trimming
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"null": {},
}

func isMissing(s string) bool {
	_, ok := missingMarkers[strings.TrimSpace(s)]
	return ok
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

// Load reads a CSV file with a header row into a Dataset.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ds, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// LoadOrNil is Load for callers that only care whether data is present:
// failures are logged and reported as a nil Dataset.
func LoadOrNil(path string, logger *slog.Logger) *Dataset {
	ds, err := Load(path)
	if err != nil {
		logger.Error("Error loading CSV data", "path", path, "error", err)
		return nil
	}
	logger.Debug("loaded csv", "path", path, "rows", ds.NumRows(), "cols", ds.NumCols())
	return ds
}

// skipBOM drops a leading UTF-8 byte order mark, as spreadsheet exports
// often write one.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if rn, _, err := br.ReadRune(); err == nil && rn != '\ufeff' {
		_ = br.UnreadRune()
	}
	return br
}

// Read parses CSV from r. Short rows are padded with missing cells; long rows
// are rejected.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	var cells [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > len(names) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w (%d > %d)", line, ErrTooManyFields, len(rec), len(names))
		}
		row := make([]string, len(names))
		copy(row, rec)
		cells = append(cells, row)
	}

	return newDataset(names, cells)
}
