package plot

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoSuchField is returned when a data frame lacks a requested column.
var ErrNoSuchField = errors.New("no such field")

// DataFrame is a set of equally long, named float columns, each with an
// optional mask.
type DataFrame struct {
	Name string
	N    int

	Columns map[string][]float64
	Masks   map[string][]bool

	order []string
}

// NewDataFrame returns an empty data frame.
func NewDataFrame(name string) *DataFrame {
	return &DataFrame{
		Name:    name,
		Columns: make(map[string][]float64),
		Masks:   make(map[string][]bool),
	}
}

// NewDataFrameFrom constructs a data frame from a slice of structs.
// Every numeric or boolean field and every method without arguments
// returning a single number becomes a column.
func NewDataFrameFrom(data interface{}) (*DataFrame, error) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return nil, errors.Newf("cannot convert %T to data frame", data)
	}
	t := v.Type().Elem()
	if t.Kind() != reflect.Struct {
		return nil, errors.Newf("cannot convert slice of %s to data frame", t)
	}
	df := NewDataFrame(t.Name())
	n := v.Len()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" || !isNumeric(f.Type.Kind()) {
			continue
		}
		col := make([]float64, n)
		for j := range col {
			col[j] = toFloat(v.Index(j).Field(i))
		}
		df.add(f.Name, col, nil)
	}

	// The same for methods.
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		mt := m.Type
		if mt.NumIn() != 1 || mt.NumOut() != 1 || !isNumeric(mt.Out(0).Kind()) {
			continue
		}
		col := make([]float64, n)
		for j := range col {
			col[j] = toFloat(m.Func.Call([]reflect.Value{v.Index(j)})[0])
		}
		df.add(m.Name, col, nil)
	}
	df.N = n
	return df, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	}
	return v.Float()
}

// Add adds (or replaces) the column name. A nil mask masks nothing.
// All columns must have the same length.
func (df *DataFrame) Add(name string, values []float64, mask []bool) error {
	if len(df.order) > 0 && len(values) != df.N {
		return errors.Wrapf(ErrInvalidSeries, "column %s has %d values, want %d", name, len(values), df.N)
	}
	if mask != nil && len(mask) != len(values) {
		return errors.Wrapf(ErrInvalidSeries, "mask of column %s has %d values, want %d", name, len(mask), len(values))
	}
	df.add(name, values, mask)
	df.N = len(values)
	return nil
}

func (df *DataFrame) add(name string, values []float64, mask []bool) {
	if !df.Has(name) {
		df.order = append(df.order, name)
	}
	df.Columns[name] = values
	if mask != nil {
		df.Masks[name] = mask
	} else {
		delete(df.Masks, name)
	}
}

// Has checks if df has a column with the given name.
func (df *DataFrame) Has(name string) bool {
	_, ok := df.Columns[name]
	return ok
}

// Column returns the values and the mask (possibly nil) of a column.
func (df *DataFrame) Column(name string) ([]float64, []bool, error) {
	col, ok := df.Columns[name]
	if !ok {
		return nil, nil, errors.Wrapf(ErrNoSuchField, "%s in %s", name, df.Name)
	}
	return col, df.Masks[name], nil
}

// FieldNames returns the column names in insertion order.
func (df *DataFrame) FieldNames() []string {
	return append([]string(nil), df.order...)
}

// Series returns a series of the given kind plotting column y over
// column x. A row masked in either column is masked in both.
func (df *DataFrame) Series(kind Kind, x, y string) (Series, error) {
	xs, xm, err := df.Column(x)
	if err != nil {
		return Series{}, err
	}
	ys, ym, err := df.Column(y)
	if err != nil {
		return Series{}, err
	}
	var mask []bool
	switch {
	case xm == nil:
		mask = ym
	case ym == nil:
		mask = xm
	default:
		mask = orMask(xm, ym)
	}
	return Series{Kind: kind, X: xs, Y: ys, XMask: mask, YMask: mask}, nil
}

// Filter returns a new data frame with all rows for which keep is true.
func (df *DataFrame) Filter(keep func(i int) bool) *DataFrame {
	var rows []int
	for i := 0; i < df.N; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	result := NewDataFrame(df.Name)
	for _, name := range df.order {
		col, mask := df.Columns[name], df.Masks[name]
		fcol := make([]float64, len(rows))
		var fmask []bool
		if mask != nil {
			fmask = make([]bool, len(rows))
		}
		for j, i := range rows {
			fcol[j] = col[i]
			if mask != nil {
				fmask[j] = mask[i]
			}
		}
		result.add(name, fcol, fmask)
	}
	result.N = len(rows)
	return result
}

// MinMax determines the minimum and maximum of the unmasked, non-NaN
// values of a column and their indices. The indices are -1 if there is
// no such value.
func (df *DataFrame) MinMax(name string) (min, max float64, mini, maxi int) {
	min, max, mini, maxi = math.Inf(+1), math.Inf(-1), -1, -1
	col, mask := df.Columns[name], df.Masks[name]
	for i, v := range col {
		if math.IsNaN(v) || (mask != nil && mask[i]) {
			continue
		}
		if v < min {
			min, mini = v, i
		}
		if v > max {
			max, maxi = v, i
		}
	}
	return min, max, mini, maxi
}

// Print writes df as a table; masked values show as "--".
func (df *DataFrame) Print(out io.Writer) {
	fmt.Fprintf(out, "Data Frame %q: %d rows\n", df.Name, df.N)
	fmt.Fprintln(out, strings.Join(df.order, "\t"))
	row := make([]string, len(df.order))
	for i := 0; i < df.N; i++ {
		for j, name := range df.order {
			if m := df.Masks[name]; m != nil && m[i] {
				row[j] = "--"
				continue
			}
			row[j] = fmt.Sprintf("%g", df.Columns[name][i])
		}
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}
}
