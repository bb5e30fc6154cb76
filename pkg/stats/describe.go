package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"jointtrial/pkg/data"
)

// Statistic names, in the row order of a Summary.
const (
	StatCount = "count"
	StatMean  = "mean"
	StatStd   = "std"
	StatMin   = "min"
	StatP25   = "25%"
	StatP50   = "50%"
	StatP75   = "75%"
	StatMax   = "max"
)

// Statistics lists the Summary rows in order.
var Statistics = []string{StatCount, StatMean, StatStd, StatMin, StatP25, StatP50, StatP75, StatMax}

// Summary holds descriptive statistics: one row per statistic, one column per
// numeric column of the described Dataset.
type Summary struct {
	Columns []string
	// Values[i][j] is Statistics[i] for Columns[j].
	Values [][]float64
}

// Describe computes count, mean, sample std, min, quartiles and max for every
// numeric column of ds, ignoring missing values.
func Describe(ds *data.Dataset) *Summary {
	cols := ds.NumericColumns()
	s := &Summary{
		Columns: make([]string, len(cols)),
		Values:  make([][]float64, len(Statistics)),
	}
	for i := range s.Values {
		s.Values[i] = make([]float64, len(cols))
	}
	for j, c := range cols {
		s.Columns[j] = c.Name
		for i, v := range describeColumn(c.Floats) {
			s.Values[i][j] = v
		}
	}
	return s
}

func describeColumn(x []float64) []float64 {
	vals := DropNaN(x)
	if len(vals) == 0 {
		nan := math.NaN()
		return []float64{0, nan, nan, nan, nan, nan, nan, nan}
	}
	min, max := MinMax(vals)
	return []float64{
		float64(len(vals)),
		Mean(vals),
		SampleStd(vals),
		min,
		Percentile(vals, 25),
		Percentile(vals, 50),
		Percentile(vals, 75),
		max,
	}
}

// Value returns a single statistic for a column.
func (s *Summary) Value(stat, column string) (float64, bool) {
	row := -1
	for i, name := range Statistics {
		if name == stat {
			row = i
			break
		}
	}
	if row < 0 {
		return 0, false
	}
	for j, name := range s.Columns {
		if name == column {
			return s.Values[row][j], true
		}
	}
	return 0, false
}

// Write prints the summary as an aligned table.
func (s *Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t", c)
	}
	fmt.Fprintln(tw)
	for i, name := range Statistics {
		fmt.Fprintf(tw, "%s\t", name)
		for _, v := range s.Values[i] {
			fmt.Fprintf(tw, "%s\t", FormatValue(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func (s *Summary) String() string {
	var b strings.Builder
	_ = s.Write(&b)
	return b.String()
}

// FormatValue renders a statistic with six decimals, NaN as "NaN".
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Summarize prints and returns the summary of ds. A nil ds prints a notice and
// yields nil.
func Summarize(w io.Writer, ds *data.Dataset) *Summary {
	if ds == nil {
		fmt.Fprintln(w, "No data to summarize.")
		return nil
	}
	s := Describe(ds)
	fmt.Fprintln(w, "Data Summary:")
	_ = s.Write(w)
	return s
}
