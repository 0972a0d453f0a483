package ic

import (
	"math"
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

func squareNodes(x0, y0 float64) []geometry.Point {
	return []geometry.Point{
		{X: x0, Y: y0}, {X: x0 + 1, Y: y0}, {X: x0 + 1, Y: y0 + 1}, {X: x0, Y: y0 + 1},
	}
}

func newEulerElement(t *testing.T, x0, y0 float64) *element.Element {
	b, err := operators.NewBundle(2, 3, basis.GaussLegendre)
	require.NoError(t, err)
	params := &element.Params{Equation: flux.EulerNS, NDims: 2, Gamma: 1.4, RiemannType: flux.Rusanov, CFL: 0.1}
	el, err := element.New(utils.Quad, 3, b, params, squareNodes(x0, y0))
	require.NoError(t, err)
	require.NoError(t, el.SetupAllGeometry())
	return el
}

func newAdvDiffElement(t *testing.T) *element.Element {
	b, err := operators.NewBundle(2, 2, basis.GaussLegendre)
	require.NoError(t, err)
	params := &element.Params{Equation: flux.AdvectionDiffusion, NDims: 2, AdvectV: []float64{1, 0}, Lambda: 1, CFL: 0.1}
	el, err := element.New(utils.Quad, 2, b, params, squareNodes(0, 0))
	require.NoError(t, err)
	require.NoError(t, el.SetupAllGeometry())
	return el
}

func TestApplyEulerFreestreamFillsUniformState(t *testing.T) {
	el := newEulerElement(t, 0, 0)
	fs := FreestreamState{Rho: 1.0, U: 2.0, V: 0.0, P: 1.0 / 1.4, Gamma: 1.4}
	require.NoError(t, Apply([]*element.Element{el}, flux.EulerNS, Freestream, fs, VortexParams{}))
	for _, row := range el.USpts {
		assert.InDelta(t, 1.0, row[0], 1e-12)
		assert.InDelta(t, 2.0, row[1], 1e-12)
		assert.InDelta(t, 0.0, row[2], 1e-12)
	}
}

func TestApplyEulerVortexMatchesFreestreamFarFromCenter(t *testing.T) {
	el := newEulerElement(t, 100, 100)
	fs := FreestreamState{Rho: 1.0, U: 1.0, Gamma: 1.4}
	vp := VortexParams{Beta: 5.0, X0: 5.0, Y0: 0.0}
	require.NoError(t, Apply([]*element.Element{el}, flux.EulerNS, Vortex, fs, vp))
	for _, row := range el.USpts {
		assert.InDelta(t, 1.0, row[0], 1e-6)
	}
}

func TestApplyAdvectionDiffusionGaussianPeaksAtOrigin(t *testing.T) {
	el := newAdvDiffElement(t)
	require.NoError(t, Apply([]*element.Element{el}, flux.AdvectionDiffusion, Freestream, FreestreamState{}, VortexParams{}))
	for i, x := range el.XSpts {
		r2 := x.X*x.X + x.Y*x.Y
		assert.InDelta(t, math.Exp(-r2), el.USpts[i][0], 1e-9)
	}
}

func TestApplyAdvectionDiffusionVortexBIsPeriodicField(t *testing.T) {
	el := newAdvDiffElement(t)
	require.NoError(t, Apply([]*element.Element{el}, flux.AdvectionDiffusion, VortexB, FreestreamState{}, VortexParams{}))
	for i, x := range el.XSpts {
		want := math.Cos(2*math.Pi*x.X/6.) * math.Cos(2*math.Pi*x.Y/6.) * math.Cos(2*math.Pi*x.Z/6.)
		assert.InDelta(t, want, el.USpts[i][0], 1e-9)
	}
}
