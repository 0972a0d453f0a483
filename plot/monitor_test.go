package plot

import (
	"testing"

	"github.com/flurry-cfd/flurry/basis"
	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/flux"
	"github.com/flurry-cfd/flurry/geometry"
	"github.com/flurry-cfd/flurry/operators"
	"github.com/flurry-cfd/flurry/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquareNodes() []geometry.Point {
	return []geometry.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
}

func newEulerElement(t *testing.T, order int) *element.Element {
	b, err := operators.NewBundle(2, order, basis.GaussLegendre)
	require.NoError(t, err)
	params := &element.Params{
		Equation:    flux.EulerNS,
		NDims:       2,
		Gamma:       1.4,
		RiemannType: flux.Rusanov,
		CFL:         0.1,
	}
	el, err := element.New(utils.Quad, order, b, params, unitSquareNodes())
	require.NoError(t, err)
	require.NoError(t, el.SetupAllGeometry())
	for i := range el.USpts {
		el.USpts[i][0] = 1.0
		el.USpts[i][1] = 0.1
		el.USpts[i][2] = 0.0
		el.USpts[i][3] = 2.5
	}
	el.ExtrapolateToMpts()
	return el
}

func TestBuildTriMeshCoversEveryPlotPoint(t *testing.T) {
	el := newEulerElement(t, 2)
	tm, err := BuildTriMesh([]*element.Element{el})
	require.NoError(t, err)
	assert.Equal(t, el.Bundle.NMpts*2, len(tm.XY))

	n := 0
	for x := 0; x < len(tm.XY); x += 2 {
		n++
	}
	assert.Equal(t, el.Bundle.NMpts, n)
	assert.NotEmpty(t, tm.TriVerts)
	assert.Equal(t, 0, len(tm.TriVerts)%3)
}

func TestBuildTriMeshRejects3D(t *testing.T) {
	b, err := operators.NewBundle(3, 1, basis.GaussLegendre)
	require.NoError(t, err)
	params := &element.Params{Equation: flux.EulerNS, NDims: 3, Gamma: 1.4, RiemannType: flux.Rusanov}
	nodes := []geometry.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	el, err := element.New(utils.Hex, 1, b, params, nodes)
	require.NoError(t, err)
	require.NoError(t, el.SetupAllGeometry())

	_, err = BuildTriMesh([]*element.Element{el})
	assert.Error(t, err)
}

func TestScalarFieldDensityMatchesPrimitivesPlot(t *testing.T) {
	el := newEulerElement(t, 1)
	vals := ScalarField([]*element.Element{el}, Density)
	prims := el.PrimitivesPlot()
	require.Len(t, vals, len(prims))
	for i, p := range prims {
		assert.InDelta(t, p[0], float64(vals[i]), 1e-9)
	}
}
