package restart

import (
	"bytes"
	"testing"

	"github.com/flurry-cfd/flurry/basis"
	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/flux"
	"github.com/flurry-cfd/flurry/geometry"
	"github.com/flurry-cfd/flurry/mesh"
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
		el.USpts[i][0] = 1.0 + 0.1*float64(i)
		el.USpts[i][1] = 0.2
		el.USpts[i][2] = 0.05
		el.USpts[i][3] = 2.5 + 0.01*float64(i)
	}
	el.ExtrapolateToMpts()
	el.ExtrapolateEntropyToMpts()
	return el
}

func TestWriteReadApplyRoundTripSameOrder(t *testing.T) {
	el := newEulerElement(t, 2)
	wantU := make([][]float64, len(el.USpts))
	for i, row := range el.USpts {
		wantU[i] = append([]float64{}, row...)
	}

	var buf bytes.Buffer
	require.NoError(t, WritePiece(&buf, []*element.Element{el}, nil, 1.25))

	pd, warnings, err := ReadPiece(&buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, pd.HasTime)
	assert.InDelta(t, 1.25, pd.Time, 1e-12)

	for i := range el.USpts {
		for k := range el.USpts[i] {
			el.USpts[i][k] = -999
		}
	}
	cache := operators.NewRestartInterpCache(basis.GaussLegendre)
	applyWarnings := Apply(pd, []*element.Element{el}, cache)
	assert.Empty(t, applyWarnings)

	for i, row := range el.USpts {
		for k, v := range row {
			assert.InDelta(t, wantU[i][k], v, 1e-12, "spt %d field %d", i, k)
		}
	}
}

func TestApplyFillsDistinctiveValueWhenElementMissing(t *testing.T) {
	el := newEulerElement(t, 1)

	var buf bytes.Buffer
	require.NoError(t, WritePiece(&buf, nil, nil, 0.0))

	pd, _, err := ReadPiece(&buf)
	require.NoError(t, err)

	warnings := Apply(pd, []*element.Element{el}, operators.NewRestartInterpCache(basis.GaussLegendre))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "not present in restart file")
	for _, row := range el.USpts {
		for _, v := range row {
			assert.Equal(t, DistinctiveFillValue, v)
		}
	}
}

func TestReadPieceSoftWarnsOnMalformedTime(t *testing.T) {
	el := newEulerElement(t, 1)
	var buf bytes.Buffer
	require.NoError(t, WritePiece(&buf, []*element.Element{el}, nil, 2.0))

	body := buf.String()
	lines := splitFirstLine(body)
	garbled := "<!-- TIME notanumber -->\n" + lines.rest

	pd, warnings, err := ReadPiece(bytes.NewBufferString(garbled))
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "malformed TIME")
	assert.False(t, pd.HasTime)
}

type splitResult struct {
	first, rest string
}

func splitFirstLine(s string) splitResult {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return splitResult{s[:i], s[i+1:]}
		}
	}
	return splitResult{s, ""}
}

func TestIBlankCellRoundTrips(t *testing.T) {
	el := newEulerElement(t, 1)
	iblank := []mesh.IBlankStatus{mesh.Normal, mesh.Hole, mesh.Fringe}

	var buf bytes.Buffer
	require.NoError(t, WritePiece(&buf, []*element.Element{el}, iblank, 0.0))

	pd, warnings, err := ReadPiece(&buf)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, pd.IBlankCell, 3)
	assert.Equal(t, int(mesh.Normal), pd.IBlankCell[0])
	assert.Equal(t, int(mesh.Hole), pd.IBlankCell[1])
	assert.Equal(t, int(mesh.Fringe), pd.IBlankCell[2])
}

func TestApplyInterpolatesOnOrderChange(t *testing.T) {
	oldEl := newEulerElement(t, 1)
	newEl := newEulerElement(t, 3)
	for i := range newEl.USpts {
		for k := range newEl.USpts[i] {
			newEl.USpts[i][k] = -999
		}
	}

	var buf bytes.Buffer
	require.NoError(t, WritePiece(&buf, []*element.Element{oldEl}, nil, 0.0))
	pd, _, err := ReadPiece(&buf)
	require.NoError(t, err)

	cache := operators.NewRestartInterpCache(basis.GaussLegendre)
	warnings := Apply(pd, []*element.Element{newEl}, cache)
	assert.Empty(t, warnings)

	for _, row := range newEl.USpts {
		for _, v := range row {
			assert.NotEqual(t, -999.0, v)
			assert.NotEqual(t, DistinctiveFillValue, v)
		}
	}
}
