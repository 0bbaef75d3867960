package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/c3sdr/plot"
	"github.com/c3sdr/plot/source"
)

// Config describes a figure and the data drawn in it.
type Config struct {
	Title           string
	Output          string
	Width           int
	Height          int
	Layout          *plot.Layout
	VerticalSpacing float64 `yaml:"vertical_spacing"`
	HorizSpacing    float64 `yaml:"horizontal_spacing"`
	SubplotTitles   []string `yaml:"subplot_titles"`
	Legend          *bool
	WhiteBackground bool `yaml:"white_background"`
	Font            plot.FontStyle
	MatchX          bool `yaml:"match_x"`
	MatchY          bool `yaml:"match_y"`

	Sources map[string]SourceConfig
	Plots   []PlotConfig
}

// SourceConfig names a CSV file or an SQLite database with a query.
// Relative paths are relative to the config file.
type SourceConfig struct {
	CSV    string
	Comma  string
	SQLite string
	Query  string
}

// PlotConfig is one CreatePlot call.
type PlotConfig struct {
	Row, Col int

	XLabel   string     `yaml:"xlabel"`
	YLabel   string     `yaml:"ylabel"`
	XRange   []float64  `yaml:"xrange"`
	YRange   []float64  `yaml:"yrange"`
	Center   []float64
	Zoom     float64
	Robust   bool
	Outliers float64
	MinN     int `yaml:"min_n"`

	XAxis plot.AxisStyle `yaml:"xaxis"`
	YAxis plot.AxisStyle `yaml:"yaxis"`

	Series []SeriesConfig
}

// SeriesConfig selects the columns of a series and its options.
type SeriesConfig struct {
	Source string
	Type   string

	// X, Y, Z and E are column names.
	X, Y, Z, E string

	// Flags maps flag column names to the bits tested in them.
	Flags map[string]uint64

	Label  string
	Color  string
	Mode   string
	Marker plot.Marker

	NBins  int `yaml:"nbins"`
	NBinsY int `yaml:"nbins_y"`
	CMin   *float64
	CMax   *float64
	Radius int

	Selected         []int
	SelectedMarker   plot.Marker `yaml:"selected_marker"`
	UnselectedMarker plot.Marker `yaml:"unselected_marker"`
}

// LoadConfig reads the YAML figure description at path.
func LoadConfig(path string) (config Config, err error) {
	configFile, err := os.Open(path)
	if err != nil {
		return
	}
	defer configFile.Close()
	configYaml, err := io.ReadAll(configFile)
	if err != nil {
		return
	}
	err = yaml.UnmarshalStrict(configYaml, &config)
	if err != nil {
		err = errors.Wrapf(err, "config %s", path)
		return
	}
	dir := filepath.Dir(path)
	for name, src := range config.Sources {
		src.CSV = relativeTo(dir, src.CSV)
		src.SQLite = relativeTo(dir, src.SQLite)
		config.Sources[name] = src
	}
	return
}

func relativeTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// LoadSources reads all sources concurrently.
func (c *Config) LoadSources(ctx context.Context) (map[string]*plot.DataFrame, error) {
	frames := make([]*plot.DataFrame, 0, len(c.Sources))
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
		frames = append(frames, nil)
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name, src := i, name, c.Sources[name]
		g.Go(func() error {
			df, err := src.load(ctx, name)
			frames[i] = df
			return errors.Wrapf(err, "source %s", name)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byName := make(map[string]*plot.DataFrame, len(names))
	for i, name := range names {
		byName[name] = frames[i]
	}
	return byName, nil
}

func (s SourceConfig) load(ctx context.Context, name string) (*plot.DataFrame, error) {
	switch {
	case s.CSV != "" && s.SQLite != "":
		return nil, errors.New("csv and sqlite are exclusive")
	case s.CSV != "":
		opts := source.CSVOptions{}
		if r := []rune(s.Comma); len(r) == 1 {
			opts.Comma = r[0]
		}
		df, err := source.ReadCSVFile(s.CSV, opts)
		if df != nil {
			df.Name = name
		}
		return df, err
	case s.SQLite != "":
		if s.Query == "" {
			return nil, errors.New("sqlite source without query")
		}
		return source.ReadSQLite(ctx, s.SQLite, name, s.Query)
	}
	return nil, errors.New("neither csv nor sqlite given")
}

// Figure builds the figure from the loaded data frames.
func (c *Config) Figure(frames map[string]*plot.DataFrame, logger *slog.Logger) (*plot.Figure, error) {
	fig, err := plot.NewFigure(plot.FigureOptions{
		Layout:            c.Layout,
		VerticalSpacing:   c.VerticalSpacing,
		HorizontalSpacing: c.HorizSpacing,
		Title:             c.Title,
		SubplotTitles:     c.SubplotTitles,
		Legend:            c.Legend,
		WhiteBackground:   c.WhiteBackground,
		Font:              c.Font,
		MatchX:            c.MatchX,
		MatchY:            c.MatchY,
		Export:            plot.ExportConfig{Width: c.Width, Height: c.Height},
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}

	for i, pc := range c.Plots {
		opts, err := pc.options()
		if err != nil {
			return nil, errors.Wrapf(err, "plot %d", i)
		}
		var series []plot.Series
		for j, sc := range pc.Series {
			s, err := sc.series(frames)
			if err != nil {
				return nil, errors.Wrapf(err, "plot %d series %d", i, j)
			}
			series = append(series, s)
		}
		if err := fig.CreatePlot(plot.Position{Row: pc.Row, Col: pc.Col}, opts, series...); err != nil {
			return nil, errors.Wrapf(err, "plot %d", i)
		}
	}
	return fig, nil
}

func (pc PlotConfig) options() (plot.PanelOptions, error) {
	opts := plot.PanelOptions{
		XLabel:   pc.XLabel,
		YLabel:   pc.YLabel,
		Zoom:     pc.Zoom,
		Robust:   pc.Robust,
		Outliers: pc.Outliers,
		MinN:     pc.MinN,
		XAxis:    pc.XAxis,
		YAxis:    pc.YAxis,
	}
	var err error
	if opts.XRange, err = rangeOf("xrange", pc.XRange); err != nil {
		return opts, err
	}
	if opts.YRange, err = rangeOf("yrange", pc.YRange); err != nil {
		return opts, err
	}
	switch len(pc.Center) {
	case 0:
	case 2:
		opts.Center = &orb.Point{pc.Center[0], pc.Center[1]}
	default:
		return opts, errors.Newf("center needs lon and lat, got %v", pc.Center)
	}
	return opts, nil
}

func rangeOf(name string, r []float64) (*plot.Range, error) {
	switch len(r) {
	case 0:
		return nil, nil
	case 2:
		return &plot.Range{Low: r[0], High: r[1]}, nil
	}
	return nil, errors.Newf("%s needs two values, got %v", name, r)
}

func (sc SeriesConfig) series(frames map[string]*plot.DataFrame) (plot.Series, error) {
	df, ok := frames[sc.Source]
	if !ok {
		return plot.Series{}, errors.Newf("unknown source %q", sc.Source)
	}
	kind, err := plot.ParseKind(sc.Type)
	if err != nil {
		return plot.Series{}, err
	}
	mode, err := plot.ParseLineMode(sc.Mode)
	if err != nil {
		return plot.Series{}, err
	}
	s, err := df.Series(kind, sc.X, sc.Y)
	if err != nil {
		return plot.Series{}, err
	}
	for _, col := range []struct {
		name string
		dst  *[]float64
	}{{sc.Z, &s.Z}, {sc.E, &s.E}} {
		if col.name == "" {
			continue
		}
		if *col.dst, _, err = df.Column(col.name); err != nil {
			return plot.Series{}, err
		}
	}
	for _, name := range sortedKeys(sc.Flags) {
		values, _, err := df.Column(name)
		if err != nil {
			return plot.Series{}, err
		}
		row := make([]uint64, len(values))
		for i, v := range values {
			if v > 0 {
				row[i] = uint64(v)
			}
		}
		s.DataFlags = append(s.DataFlags, row)
		s.Flags = append(s.Flags, sc.Flags[name])
	}

	s.Label = sc.Label
	s.Color = sc.Color
	s.Mode = mode
	s.Marker = sc.Marker
	s.NBins, s.NBinsY = sc.NBins, sc.NBinsY
	s.CMin, s.CMax = sc.CMin, sc.CMax
	s.Radius = sc.Radius
	s.Selected = sc.Selected
	s.SelectedMarker, s.UnselectedMarker = sc.SelectedMarker, sc.UnselectedMarker
	return s, nil
}
