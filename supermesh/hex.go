// Package supermesh builds the local tet-based integration mesh a Galerkin
// overset projection uses: splitting a donor hex into five tetrahedra, then
// clipping each against the target cell's planar faces. Grounded on
// gocfd's DG3D tetrahedral quadrature/PKD-basis package (the only place in
// the retrieved pack working with tets directly), generalized here from a
// standalone tet element to a hex-decomposition-and-clip pipeline.
package supermesh

import "github.com/flurry-cfd/flurry/geometry"

// Tet is a tetrahedron given by its four vertices in ℝ³.
type Tet [4]geometry.Point

// hexToTetConn is the fixed five-tet decomposition of a hex's eight
// corners (ordered the way geometry's hex shape functions order corners:
// bottom face 0-1-2-3 counterclockwise, top face 4-5-6-7 directly above),
// spec.md §4.5's named connectivity table.
var hexToTetConn = [5][4]int{
	{0, 1, 4, 3},
	{2, 1, 6, 3},
	{5, 1, 6, 4},
	{7, 3, 4, 6},
	{1, 3, 6, 4},
}

// HexToTets splits an eight-corner hex into its five constituent
// tetrahedra using the fixed connectivity table.
func HexToTets(corners [8]geometry.Point) [5]Tet {
	var tets [5]Tet
	for i, conn := range hexToTetConn {
		for j, c := range conn {
			tets[i][j] = corners[c]
		}
	}
	return tets
}

// Volume returns a tet's signed volume via the scalar triple product,
// (1/6)(b-a)·((c-a)x(d-a)); callers that need an unsigned volume take
// math.Abs of the result.
func (t Tet) Volume() float64 {
	ab := t[1].Sub(t[0])
	ac := t[2].Sub(t[0])
	ad := t[3].Sub(t[0])
	return ab.Dot(ac.Cross(ad)) / 6.0
}

// Centroid returns the tet's barycenter, the evaluation point an order-1
// quadrature rule uses.
func (t Tet) Centroid() geometry.Point {
	var c geometry.Point
	for _, v := range t {
		c = c.Add(v)
	}
	return c.Scale(0.25)
}
