package multigrid

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

func newAdvDiffElement(t *testing.T, order int) *element.Element {
	b, err := operators.NewBundle(2, order, basis.GaussLegendre)
	require.NoError(t, err)
	params := &element.Params{
		Equation: flux.AdvectionDiffusion,
		NDims:    2,
		AdvectV:  []float64{1.0, 0.5},
		Lambda:   1.0,
		CFL:      0.1,
	}
	el, err := element.New(utils.Quad, order, b, params, unitSquareNodes())
	require.NoError(t, err)
	require.NoError(t, el.SetupAllGeometry())
	return el
}

func TestTransferUSameOrderCopies(t *testing.T) {
	fine := newAdvDiffElement(t, 2)
	coarse := newAdvDiffElement(t, 2)
	for i := range fine.USpts {
		fine.USpts[i][0] = float64(i) + 1
	}
	cache := operators.NewRestartInterpCache(basis.GaussLegendre)
	require.NoError(t, transferU(cache, fine, coarse))
	for i, row := range coarse.USpts {
		assert.Equal(t, fine.USpts[i][0], row[0])
	}
}

func TestRestrictThenProlongRoundTripsConstantField(t *testing.T) {
	fine := newAdvDiffElement(t, 3)
	coarse := newAdvDiffElement(t, 1)
	for i := range fine.USpts {
		fine.USpts[i][0] = 7.0
	}
	cache := operators.NewRestartInterpCache(basis.GaussLegendre)
	c := &Controller{Cache: cache}

	fineLevel := &Level{Order: 3, Elements: []*element.Element{fine}}
	coarseLevel := &Level{Order: 1, Elements: []*element.Element{coarse}}

	require.NoError(t, c.Restrict(fineLevel, coarseLevel))
	for _, row := range coarse.USpts {
		assert.InDelta(t, 7.0, row[0], 1e-9)
	}

	for i := range fine.USpts {
		fine.USpts[i][0] = -1
	}
	require.NoError(t, c.Prolong(coarseLevel, fineLevel))
	for _, row := range fine.USpts {
		assert.InDelta(t, 7.0, row[0], 1e-9)
	}
}

func TestRestrictRejectsMismatchedElementCount(t *testing.T) {
	fine := newAdvDiffElement(t, 2)
	c := &Controller{Cache: operators.NewRestartInterpCache(basis.GaussLegendre)}
	fineLevel := &Level{Elements: []*element.Element{fine, fine}}
	coarseLevel := &Level{Elements: []*element.Element{fine}}
	assert.Error(t, c.Restrict(fineLevel, coarseLevel))
}
