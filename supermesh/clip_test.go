package supermesh

import (
	"math"
	"testing"

	"github.com/flurry-cfd/flurry/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitTet() Tet {
	return Tet{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
}

func absVolume(t Tet) float64 {
	v := t.Volume()
	if v < 0 {
		return -v
	}
	return v
}

func totalVolume(tets []Tet) float64 {
	var sum float64
	for _, t := range tets {
		sum += absVolume(t)
	}
	return sum
}

// TestClipOneVertexOutsideMatchesWorkedExample reproduces spec.md §8
// scenario F: clipping the unit tet by the plane x+y+z=0.8 (outward normal
// (1,1,1)/√3) removes exactly the small corner tet of edge length 0.2,
// leaving a total volume of the original minus (0.2)^3/6.
func TestClipOneVertexOutsideMatchesWorkedExample(t *testing.T) {
	tet := unitTet()
	n := geometry.Point{X: 1, Y: 1, Z: 1}.Scale(1.0 / math.Sqrt(3))
	xc := geometry.Point{X: 0.8, Y: 0, Z: 0} // satisfies x+y+z=0.8

	kept := ClipTetByPlane(tet, xc, n)
	require.Len(t, kept, 3)

	original := absVolume(tet)
	cornerEdge := 1.0 - 0.8
	wantKept := original - cornerEdge*cornerEdge*cornerEdge/6.0

	assert.InDelta(t, wantKept, totalVolume(kept), 1e-12)
}

func TestClipFullyInsideReturnsOriginalTet(t *testing.T) {
	tet := unitTet()
	n := geometry.Point{X: 0, Y: 0, Z: 1}
	xc := geometry.Point{X: 0, Y: 0, Z: 10} // plane far above, tet entirely below (inside)
	kept := ClipTetByPlane(tet, xc, n)
	require.Len(t, kept, 1)
	assert.InDelta(t, absVolume(tet), absVolume(kept[0]), 1e-12)
}

func TestClipFullyOutsideReturnsNoTets(t *testing.T) {
	tet := unitTet()
	n := geometry.Point{X: 0, Y: 0, Z: 1}
	xc := geometry.Point{X: 0, Y: 0, Z: -10} // plane far below, tet entirely above (outside)
	kept := ClipTetByPlane(tet, xc, n)
	assert.Empty(t, kept)
}

func TestClipTwoInTwoOutConservesVolumeWithComplement(t *testing.T) {
	tet := unitTet()
	n := geometry.Point{X: 1, Y: 1, Z: 0}.Scale(1.0 / math.Sqrt(2))
	xc := geometry.Point{X: 0.5, Y: 0, Z: 0}

	kept := ClipTetByPlane(tet, xc, n)
	removed := ClipTetByPlane(tet, xc, n.Scale(-1))

	assert.InDelta(t, absVolume(tet), totalVolume(kept)+totalVolume(removed), 1e-9)
}

func TestHexToTetsVolumeSumsToUnitCube(t *testing.T) {
	corners := [8]geometry.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	tets := HexToTets(corners)
	var sum float64
	for _, tet := range tets {
		sum += absVolume(tet)
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestDonorIntegrationMeshWithinIdenticalCellReturnsFullVolume(t *testing.T) {
	corners := [8]geometry.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	faces := HexFaces(corners)
	mesh := DonorIntegrationMesh(corners, faces)
	assert.InDelta(t, 1.0, totalVolume(mesh), 1e-9)
}

func TestIntegrateProductConstantFieldsRecoverVolume(t *testing.T) {
	corners := [8]geometry.Point{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	tets := HexToTets(corners)
	one := func(geometry.Point) float64 { return 1.0 }
	got := IntegrateProduct(tets[:], one, one)
	assert.InDelta(t, 1.0, got, 1e-12)
}
