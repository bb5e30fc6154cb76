package data

import (
	"fmt"
	"math"
)

// Kind classifies a column after loading.
type Kind int

const (
	Numeric Kind = iota
	Text
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "text"
}

// Column is one named column of a Dataset. Strings always holds the raw cells;
// Floats is only populated for Numeric columns, with NaN marking missing cells.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// Dataset is an ordered set of columns sharing one row count. It is not
// modified after Load returns it.
type Dataset struct {
	cols  []*Column
	index map[string]int
	rows  int
}

func newDataset(names []string, cells [][]string) (*Dataset, error) {
	ds := &Dataset{
		cols:  make([]*Column, len(names)),
		index: make(map[string]int, len(names)),
		rows:  len(cells),
	}
	for j, name := range names {
		if _, dup := ds.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		ds.index[name] = j
		ds.cols[j] = buildColumn(name, cells, j)
	}
	return ds, nil
}

// buildColumn pulls column j out of the row-major cells and infers its kind.
func buildColumn(name string, cells [][]string, j int) *Column {
	col := &Column{Name: name, Kind: Numeric, Strings: make([]string, len(cells))}
	floats := make([]float64, len(cells))
	for i, row := range cells {
		s := row[j]
		col.Strings[i] = s
		if isMissing(s) {
			floats[i] = math.NaN()
			continue
		}
		v, ok := parseFloat(s)
		if !ok {
			col.Kind = Text
			continue
		}
		floats[i] = v
	}
	if col.Kind == Numeric {
		col.Floats = floats
	}
	return col
}

// NumRows returns the shared row count.
func (d *Dataset) NumRows() int { return d.rows }

// NumCols returns the number of columns.
func (d *Dataset) NumCols() int { return len(d.cols) }

// Names returns the column names in file order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Has reports whether a column with the given name exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	j, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.cols[j], true
}

// Floats returns the numeric values of the named column.
func (d *Dataset) Floats(name string) ([]float64, error) {
	c, ok := d.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	if c.Kind != Numeric {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return c.Floats, nil
}

// NumericColumns returns the numeric columns in file order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.cols {
		if c.Kind == Numeric {
			out = append(out, c)
		}
	}
	return out
}
