package data

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trialCSV = `time,q_0,q_des_0,q_cmd_0,note
0.0,0.10,0.12,0.11,start
0.1,0.20,0.22,0.21,
0.2,0.30,NaN,0.31,end
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trial.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadShape(t *testing.T) {
	ds, err := Load(writeTemp(t, trialCSV))
	require.NoError(t, err)

	assert.Equal(t, 5, ds.NumCols())
	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, []string{"time", "q_0", "q_des_0", "q_cmd_0", "note"}, ds.Names())
}

func TestColumnKinds(t *testing.T) {
	ds, err := Read(strings.NewReader(trialCSV))
	require.NoError(t, err)

	q, ok := ds.Column("q_0")
	require.True(t, ok)
	assert.Equal(t, Numeric, q.Kind)
	assert.Equal(t, []float64{0.10, 0.20, 0.30}, q.Floats)

	des, err := ds.Floats("q_des_0")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(des[2]))

	note, ok := ds.Column("note")
	require.True(t, ok)
	assert.Equal(t, Text, note.Kind)
	assert.Nil(t, note.Floats)
	assert.Equal(t, []string{"start", "", "end"}, note.Strings)

	_, err = ds.Floats("note")
	assert.ErrorIs(t, err, ErrNotNumeric)
	_, err = ds.Floats("q_9")
	assert.ErrorIs(t, err, ErrNoColumn)

	assert.Len(t, ds.NumericColumns(), 4)
	assert.True(t, ds.Has("time"))
	assert.False(t, ds.Has("q_1"))
}

func TestReadShortRowsArePadded(t *testing.T) {
	ds, err := Read(strings.NewReader("a,b,c\n1,2\n4,5,6\n"))
	require.NoError(t, err)

	c, err := ds.Floats("c")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(c[0]))
	assert.Equal(t, 6.0, c[1])
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrNoHeader},
		{"long row", "a,b\n1,2,3\n", ErrTooManyFields},
		{"duplicate header", "a,a\n1,2\n", ErrDuplicateColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadStripsByteOrderMark(t *testing.T) {
	ds, err := Read(strings.NewReader("\ufefftime,q_0\n0,1\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"time", "q_0"}, ds.Names())
	assert.True(t, ds.Has("time"))
	times, err := ds.Floats("time")
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, times)

	ds, err = Read(strings.NewReader("\ufeff\"time\",q_0\n0,1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "q_0"}, ds.Names())
}

func TestHeaderOnly(t *testing.T) {
	ds, err := Read(strings.NewReader("time,q_0\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumCols())
	assert.Equal(t, 0, ds.NumRows())
}

func TestLoadOrNilMissingFile(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ds := LoadOrNil(filepath.Join(t.TempDir(), "nope.csv"), logger)
	assert.Nil(t, ds)
	assert.Contains(t, buf.String(), "Error loading CSV data")
}

func TestLoadOrNilSuccess(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ds := LoadOrNil(writeTemp(t, trialCSV), logger)
	require.NotNil(t, ds)
	assert.Equal(t, 3, ds.NumRows())
}
