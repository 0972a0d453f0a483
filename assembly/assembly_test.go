package assembly

import (
	"testing"

	"github.com/flurry-cfd/flurry/basis"
	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/face"
	"github.com/flurry-cfd/flurry/flux"
	"github.com/flurry-cfd/flurry/mesh"
	"github.com/flurry-cfd/flurry/operators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advDiffParams() *element.Params {
	return &element.Params{
		Equation: flux.AdvectionDiffusion,
		NDims:    2,
		AdvectV:  []float64{1.0, 0.0},
		Lambda:   1.0,
		CFL:      0.1,
	}
}

func anyWall(tag string) (face.BCType, *face.Freestream, error) {
	return face.Characteristic, &face.Freestream{ScalarU: 0}, nil
}

func TestBuildProducesOneElementPerCell(t *testing.T) {
	m, err := mesh.NewBox(2, 2, 0, 0, 1, 0, 1, 0, 0)
	require.NoError(t, err)
	cache := operators.NewCache(basis.GaussLegendre)
	elements, faces, err := Build(m, cache, advDiffParams(), 2, anyWall)
	require.NoError(t, err)
	assert.Len(t, elements, 4)
	assert.NotEmpty(t, faces)
}

func TestBuildClassifiesInteriorAndBoundaryFaces(t *testing.T) {
	m, err := mesh.NewBox(2, 1, 0, 0, 2, 0, 1, 0, 0)
	require.NoError(t, err)
	cache := operators.NewCache(basis.GaussLegendre)
	_, faces, err := Build(m, cache, advDiffParams(), 1, anyWall)
	require.NoError(t, err)

	var nInterior, nBoundary int
	for _, f := range faces {
		switch f.Kind {
		case face.Interior:
			nInterior++
		case face.Boundary:
			nBoundary++
		}
	}
	assert.Equal(t, 1, nInterior)
	assert.Equal(t, 6, nBoundary)
}

func TestBuildInteriorFaceFptsGeometricallyAligned(t *testing.T) {
	m, err := mesh.NewBox(2, 1, 0, 0, 2, 0, 1, 0, 0)
	require.NoError(t, err)
	cache := operators.NewCache(basis.GaussLegendre)
	_, faces, err := Build(m, cache, advDiffParams(), 2, anyWall)
	require.NoError(t, err)

	for _, f := range faces {
		if f.Kind != face.Interior {
			continue
		}
		for i, lf := range f.LeftFpts {
			rf := f.RightFpts[i]
			lx := f.Left.XFpts[lf]
			rx := f.Right.XFpts[rf]
			assert.InDelta(t, lx.X, rx.X, 1e-9)
			assert.InDelta(t, lx.Y, rx.Y, 1e-9)
		}
	}
}

func TestBuildErrorsOnUntaggedBoundary(t *testing.T) {
	m, err := mesh.NewBox(1, 1, 0, 0, 1, 0, 1, 0, 0)
	require.NoError(t, err)
	delete(m.BoundaryTag, [2]int{0, 0})
	cache := operators.NewCache(basis.GaussLegendre)
	_, _, err = Build(m, cache, advDiffParams(), 1, anyWall)
	assert.Error(t, err)
}
