package element

import (
	"testing"

	"github.com/flurry-cfd/flurry/basis"
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

func newAdvDiffElement(t *testing.T, order int) *Element {
	b, err := operators.NewBundle(2, order, basis.GaussLegendre)
	require.NoError(t, err)
	params := &Params{
		Equation: flux.AdvectionDiffusion,
		NDims:    2,
		AdvectV:  []float64{1.0, 0.5},
		Lambda:   1.0,
		CFL:      0.1,
	}
	el, err := New(utils.Quad, order, b, params, unitSquareNodes())
	require.NoError(t, err)
	require.NoError(t, el.SetupAllGeometry())
	return el
}

func newEulerElement(t *testing.T, order int) *Element {
	b, err := operators.NewBundle(2, order, basis.GaussLegendre)
	require.NoError(t, err)
	params := &Params{
		Equation:    flux.EulerNS,
		NDims:       2,
		Gamma:       1.4,
		RiemannType: flux.Rusanov,
		CFL:         0.1,
		Squeeze:     true,
		Exps0:       1.0,
	}
	el, err := New(utils.Quad, order, b, params, unitSquareNodes())
	require.NoError(t, err)
	require.NoError(t, el.SetupAllGeometry())
	return el
}

func TestSetupAllGeometryUnitSquareJacobian(t *testing.T) {
	el := newAdvDiffElement(t, 2)
	for i, detJ := range el.DetJacSpts {
		assert.InDelta(t, 0.25, detJ, 1e-10, "spt %d", i)
	}
}

func TestNormFptsMagnitudeMatchesDAFpts(t *testing.T) {
	el := newAdvDiffElement(t, 3)
	for i := range el.NormFpts {
		var mag float64
		for _, v := range el.NormFpts[i] {
			mag += v * v
		}
		assert.InDelta(t, el.DAFpts[i]*el.DAFpts[i], mag, 1e-9)
	}
}

func TestDivergenceZeroForUniformState(t *testing.T) {
	el := newAdvDiffElement(t, 2)
	for i := range el.USpts {
		el.USpts[i][0] = 3.0
	}
	el.ExtrapolateToFpts()
	el.ComputeInviscidFlux()
	el.ExtrapolateNormalFlux()
	copyRows(el.FnFpts, el.DisFnFpts)

	el.DivergenceStandard(0)
	el.ApplyFluxCorrection(0)
	for i, row := range el.DivFSpts[0] {
		for k, v := range row {
			assert.InDelta(t, 0.0, v, 1e-9, "spt %d field %d", i, k)
		}
	}
}

func TestDivergenceChainRuleMatchesStandardWhenStatic(t *testing.T) {
	el := newAdvDiffElement(t, 2)
	for i := range el.USpts {
		el.USpts[i][0] = float64(i) * 0.1
	}
	el.ExtrapolateToFpts()
	el.ComputeInviscidFlux()
	el.ExtrapolateNormalFlux()
	copyRows(el.FnFpts, el.DisFnFpts)

	el.DivergenceStandard(0)
	el.ApplyFluxCorrection(0)
	want := make([][]float64, len(el.DivFSpts[0]))
	for i, row := range el.DivFSpts[0] {
		want[i] = append([]float64{}, row...)
	}

	el.DivergenceChainRule(1)
	el.ApplyFluxCorrection(1)
	for i, row := range el.DivFSpts[1] {
		for k, v := range row {
			assert.InDelta(t, want[i][k], v, 1e-9)
		}
	}
}

func TestTimeStepAIsIdentityWhenDivergenceZero(t *testing.T) {
	el := newAdvDiffElement(t, 1)
	for i := range el.USpts {
		el.USpts[i][0] = 2.5
	}
	el.SnapshotU0()
	el.DtLocal = 0.01
	el.TimeStepA(0, 0.5)
	for i, row := range el.USpts {
		assert.InDelta(t, 2.5, row[0], 1e-12, "spt %d", i)
	}
}

func TestComputeLocalDtPositive(t *testing.T) {
	el := newEulerElement(t, 2)
	for i := range el.USpts {
		el.USpts[i][0] = 1.0
		el.USpts[i][1] = 0.3
		el.USpts[i][2] = 0.1
		el.USpts[i][3] = 2.5
	}
	el.ExtrapolateToFpts()
	el.ComputeLocalDt()
	assert.Greater(t, el.DtLocal, 0.0)
}

func TestSqueezeRestoresPositiveDensity(t *testing.T) {
	el := newEulerElement(t, 1)
	for i := range el.USpts {
		el.USpts[i][0] = 1.0
		el.USpts[i][1] = 0.0
		el.USpts[i][2] = 0.0
		el.USpts[i][3] = 2.5
	}
	el.USpts[0][0] = -0.01
	el.ExtrapolateToFpts()
	el.ExtrapolateToMpts()

	el.Squeeze()

	for i, row := range el.USpts {
		assert.GreaterOrEqual(t, row[0], 0.0, "spt %d", i)
	}
	assert.Equal(t, 1, el.SqueezeCount)
}

func TestSqueezeNoOpWhenDisabled(t *testing.T) {
	el := newAdvDiffElement(t, 1)
	el.USpts[0][0] = -5.0
	el.ExtrapolateToFpts()
	el.ExtrapolateToMpts()
	el.Squeeze()
	assert.Equal(t, -5.0, el.USpts[0][0])
}

func TestExtrapolateToFptsConstantStatePreserved(t *testing.T) {
	el := newAdvDiffElement(t, 3)
	for i := range el.USpts {
		el.USpts[i][0] = 7.0
	}
	el.ExtrapolateToFpts()
	for i, row := range el.UFpts {
		assert.InDelta(t, 7.0, row[0], 1e-9, "fpt %d", i)
	}
}

func TestRefLocRoundTripsOnUnitSquare(t *testing.T) {
	el := newAdvDiffElement(t, 2)
	r, ok := el.RefLoc(geometry.Point{X: 0.75, Y: 0.25})
	require.True(t, ok)
	assert.InDelta(t, 0.5, r[0], 1e-8)
	assert.InDelta(t, -0.5, r[1], 1e-8)
}
