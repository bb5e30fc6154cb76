package plotting

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"jointtrial/pkg/data"
	"jointtrial/pkg/metrics"
)

const (
	gridRows = 3
	gridCols = 2
	// MaxGroups is the number of tiles in the grid.
	MaxGroups = gridRows * gridCols
	// MaxRoles is the number of columns drawn per group.
	MaxRoles = 3
)

var (
	ErrNoTimeColumn      = errors.New("time column not found")
	ErrTooManyGroups     = fmt.Errorf("more than %d column groups", MaxGroups)
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Role is the position of a column inside a Group.
type Role int

const (
	Actual Role = iota
	Desired
	Commanded
)

var roleColors = [MaxRoles]color.Color{
	color.NRGBA{B: 255, A: 204},
	color.NRGBA{R: 255, A: 204},
	color.NRGBA{G: 128, A: 204},
}

var roleLabels = [MaxRoles]string{
	"Actual (q_)",
	"Desired (q_des_)",
	"Commanded (q_cmd_)",
}

func (r Role) Color() color.Color { return roleColors[r] }

func (r Role) String() string { return roleLabels[r] }

// Group is the set of columns drawn on one tile, ordered actual, desired,
// commanded. Columns past MaxRoles are ignored.
type Group []string

// JointColumns returns the actual/desired/commanded group of each joint.
func JointColumns(joints int) []Group {
	groups := make([]Group, joints)
	for i := 0; i < joints; i++ {
		groups[i] = Group{
			fmt.Sprintf(metrics.ActualPattern, i),
			fmt.Sprintf(metrics.DesiredPattern, i),
			fmt.Sprintf(metrics.CommandedPattern, i),
		}
	}
	return groups
}

// Options controls the figure size and labels.
type Options struct {
	Width, Height vg.Length
	// LegendHeight is the strip reserved above the grid for the shared legend.
	LegendHeight vg.Length
	YLabel       string
}

// DefaultOptions gives a 14x12 inch figure.
func DefaultOptions() Options {
	return Options{
		Width:        14 * vg.Inch,
		Height:       12 * vg.Inch,
		LegendHeight: 0.8 * vg.Inch,
		YLabel:       "Radians",
	}
}

// TileTitle names tile i: two tiles per joint, alternating u and v.
func TileTitle(i int) string {
	axis := "u"
	if i%2 == 1 {
		axis = "v"
	}
	return fmt.Sprintf("Joint %d (%s)", i/2, axis)
}

// Figure is a laid-out grid of joint plots ready to be drawn.
type Figure struct {
	tiles  [MaxGroups]*plot.Plot
	legend [MaxRoles]plot.Thumbnailer
	opts   Options
}

// Build plots every group against the time column. Columns that are missing
// or not numeric are skipped; tiles past len(groups) stay empty.
func Build(ds *data.Dataset, timeCol string, groups []Group, opts Options) (*Figure, error) {
	if len(groups) > MaxGroups {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyGroups, len(groups))
	}
	if !ds.Has(timeCol) {
		return nil, fmt.Errorf("%w: %q", ErrNoTimeColumn, timeCol)
	}
	times, err := ds.Floats(timeCol)
	if err != nil {
		return nil, err
	}

	fig := &Figure{opts: opts}
	for i, group := range groups {
		p := plot.New()
		p.Title.Text = TileTitle(i)
		p.X.Label.Text = timeCol
		p.Y.Label.Text = opts.YLabel

		grid := plotter.NewGrid()
		grid.Vertical.Color = color.Gray{Y: 210}
		grid.Horizontal.Color = color.Gray{Y: 210}
		p.Add(grid)

		for k, name := range group {
			if k >= MaxRoles {
				break
			}
			ys, err := ds.Floats(name)
			if err != nil {
				continue
			}
			for _, seg := range segments(times, ys) {
				line, err := plotter.NewLine(seg)
				if err != nil {
					return nil, fmt.Errorf("plot %s: %w", name, err)
				}
				line.Color = Role(k).Color()
				p.Add(line)
				if fig.legend[k] == nil {
					fig.legend[k] = line
				}
			}
		}
		fig.tiles[i] = p
	}
	return fig, nil
}

// segments pairs x and y into runs of present points. A missing value in
// either series ends the current run, so lines break across gaps.
func segments(x, y []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Tiles returns the number of tiles that will be drawn.
func (f *Figure) Tiles() int {
	n := 0
	for _, p := range f.tiles {
		if p != nil {
			n++
		}
	}
	return n
}

// HasLegend reports whether any column was drawn.
func (f *Figure) HasLegend() bool {
	for _, th := range f.legend {
		if th != nil {
			return true
		}
	}
	return false
}

// Draw renders the legend strip and the grid onto c.
func (f *Figure) Draw(c vg.CanvasSizer) {
	dc := draw.New(c)
	body := draw.Crop(dc, 0, 0, 0, -f.opts.LegendHeight)
	strip := draw.Crop(dc, 0, 0, body.Max.Y-dc.Min.Y, 0)

	if f.HasLegend() {
		cells := draw.Tiles{Rows: 1, Cols: MaxRoles, PadLeft: vg.Inch, PadRight: vg.Inch, PadTop: vg.Centimeter}
		for k, th := range f.legend {
			if th == nil {
				continue
			}
			l := plot.NewLegend()
			l.Top = true
			l.Left = true
			l.TextStyle.Font.Size = vg.Points(12)
			l.Add(Role(k).String(), th)
			l.Draw(cells.At(strip, k, 0))
		}
	}

	tiles := draw.Tiles{
		Rows:      gridRows,
		Cols:      gridCols,
		PadX:      vg.Centimeter,
		PadY:      vg.Centimeter,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 5,
		PadLeft:   vg.Millimeter * 5,
		PadRight:  vg.Millimeter * 5,
	}
	for i, p := range f.tiles {
		if p == nil {
			continue
		}
		p.Draw(tiles.At(body, i%gridCols, i/gridCols))
	}
}

// WriteTo renders the figure in the given format ("png", "jpg", "tiff", "svg", "pdf").
func (f *Figure) WriteTo(w io.Writer, format string) (int64, error) {
	c, err := newCanvas(format, f.opts.Width, f.opts.Height)
	if err != nil {
		return 0, err
	}
	f.Draw(c)
	return c.WriteTo(w)
}

// Format returns the lower-cased extension of path without the dot.
func Format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Supported reports whether format can be rendered.
func Supported(format string) bool {
	switch strings.ToLower(format) {
	case "png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf":
		return true
	}
	return false
}

func newCanvas(format string, w, h vg.Length) (vg.CanvasWriterTo, error) {
	switch strings.ToLower(format) {
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.New(w, h)}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: vgimg.New(w, h)}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: vgimg.New(w, h)}, nil
	case "svg":
		return vgsvg.New(w, h), nil
	case "pdf":
		return vgpdf.New(w, h), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Save builds the figure and writes it to path, picking the format from the
// file extension.
func Save(path string, ds *data.Dataset, timeCol string, groups []Group, opts Options) error {
	format := Format(path)
	if !Supported(format) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	fig, err := Build(ds, timeCol, groups, opts)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := fig.WriteTo(file, format); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
