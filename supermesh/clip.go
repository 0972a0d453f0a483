package supermesh

import "github.com/flurry-cfd/flurry/geometry"

const clipEpsilon = 1e-12

// ClipTetByPlane clips a tet against a plane (point xc, outward normal n;
// the kept side is where n·(v-xc) <= 0) and returns the tets tiling the
// kept portion. The vertex-count-on-the-cut-side determines the output
// shape: the well known marching-tetrahedra table (0/1/3/3 output tets for
// 0/1/2/3 vertices on the kept side, with the symmetric 4-kept/0-kept cases
// handled as trivial pass-through/empty) -- see DESIGN.md's resolution of
// spec.md §4.5's case-numbering direction, validated against the worked
// one-vertex-outside example.
func ClipTetByPlane(t Tet, xc, n geometry.Point) []Tet {
	var d [4]float64
	var insideMask [4]bool
	insideCount := 0
	for i, v := range t {
		d[i] = n.Dot(v.Sub(xc))
		insideMask[i] = d[i] <= clipEpsilon
		if insideMask[i] {
			insideCount++
		}
	}

	switch insideCount {
	case 0:
		return nil
	case 4:
		return []Tet{t}
	case 1:
		return clipKeepOne(t, insideMask, xc, n)
	case 3:
		return clipKeepThree(t, insideMask, xc, n)
	default: // 2
		return clipKeepTwo(t, insideMask, xc, n)
	}
}

// edgeIntersection finds the point on segment a-b where the plane (xc, n)
// crosses, using spec.md §4.5's α = (n·(xc−a))/(n·(b−a)).
func edgeIntersection(a, b, xc, n geometry.Point) geometry.Point {
	denom := n.Dot(b.Sub(a))
	alpha := n.Dot(xc.Sub(a)) / denom
	return a.Add(b.Sub(a).Scale(alpha))
}

func indicesWhere(mask [4]bool, want bool) []int {
	var out []int
	for i, m := range mask {
		if m == want {
			out = append(out, i)
		}
	}
	return out
}

// clipKeepOne handles the single-inside-vertex case: the kept region is
// the small corner tet at that vertex, bounded by the three edges it
// shares with the outside vertices.
func clipKeepOne(t Tet, insideMask [4]bool, xc, n geometry.Point) []Tet {
	in := indicesWhere(insideMask, true)[0]
	out := indicesWhere(insideMask, false)
	a := t[in]
	p0 := edgeIntersection(a, t[out[0]], xc, n)
	p1 := edgeIntersection(a, t[out[1]], xc, n)
	p2 := edgeIntersection(a, t[out[2]], xc, n)
	return []Tet{{a, p0, p1, p2}}
}

// clipKeepThree handles the single-outside-vertex case: the kept region is
// the original tet minus the small corner at the outside vertex, tiled as
// the canonical 3-tet decomposition of a triangular-prism frustum.
func clipKeepThree(t Tet, insideMask [4]bool, xc, n geometry.Point) []Tet {
	out := indicesWhere(insideMask, false)[0]
	in := indicesWhere(insideMask, true)
	a, b, c := t[in[0]], t[in[1]], t[in[2]]
	d := t[out]
	pa := edgeIntersection(a, d, xc, n)
	pb := edgeIntersection(b, d, xc, n)
	pc := edgeIntersection(c, d, xc, n)
	return []Tet{
		{a, b, c, pc},
		{a, b, pc, pb},
		{a, pa, pb, pc},
	}
}

// clipKeepTwo handles the two-inside/two-outside case: the kept region is
// a wedge bounded by the two inside vertices and the four edge-plane
// intersection points, tiled into the standard 3-tet wedge decomposition.
func clipKeepTwo(t Tet, insideMask [4]bool, xc, n geometry.Point) []Tet {
	in := indicesWhere(insideMask, true)
	out := indicesWhere(insideMask, false)
	a, b := t[in[0]], t[in[1]]
	c, d := t[out[0]], t[out[1]]
	pac := edgeIntersection(a, c, xc, n)
	pad := edgeIntersection(a, d, xc, n)
	pbc := edgeIntersection(b, c, xc, n)
	pbd := edgeIntersection(b, d, xc, n)
	return []Tet{
		{a, b, pac, pad},
		{b, pac, pad, pbd},
		{b, pac, pbd, pbc},
	}
}
