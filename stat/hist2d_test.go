package stat

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram2D(t *testing.T) {
	x := Sample{Values: []float64{0.1, 0.2, 1.5, 1.9, 2.0, 5}}
	y := Sample{Values: []float64{0.1, 0.9, 0.2, 1.9, 2.0, 0}}

	g, err := Histogram2D(x, y, nil, Hist2DOptions{
		NX: 2, NY: 2,
		XRange: &Range{0, 2},
		YRange: &Range{0, 2},
	})
	require.NoError(t, err)
	require.Equal(t, 2, g.Cols())
	require.Equal(t, 2, g.Rows())
	assert.Equal(t, [][]float64{
		{2, 1},
		{0, 2},
	}, g.Values)
	assert.Equal(t, 0.5, g.XCenter(0))
	assert.Equal(t, 1.5, g.YCenter(1))
}

func TestHistogram2DWeightsAndMask(t *testing.T) {
	mask := []bool{false, true, false}
	x := Sample{[]float64{0, 0.5, 1}, mask}
	y := Sample{[]float64{0, 0.5, 1}, mask}

	g, err := Histogram2D(x, y, []float64{10, 100, 1}, Hist2DOptions{NX: 1, NY: 1})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{11}}, g.Values)

	_, err = Histogram2D(x, Sample{Values: y.Values}, nil, Hist2DOptions{})
	assert.True(t, errors.IsAssertionFailure(err))

	_, err = Histogram2D(x, y, []float64{1}, Hist2DOptions{})
	assert.True(t, errors.IsAssertionFailure(err))
}

func TestGrid2DSmooth(t *testing.T) {
	g := &Grid2D{
		XEdges: []float64{0, 1, 2, 3},
		YEdges: []float64{0, 1, 2},
		Values: [][]float64{
			{0, 6, 0},
			{0, 0, 0},
		},
	}
	g.Smooth(0)
	assert.Equal(t, 6.0, g.Values[0][1])

	g.Smooth(1)
	assert.Equal(t, [][]float64{
		{1.5, 1, 1.5},
		{1.5, 1, 1.5},
	}, g.Values)
}
