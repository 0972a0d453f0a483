package supermesh

import "github.com/flurry-cfd/flurry/geometry"

// Plane is a half-space boundary (a point on the plane, and the outward
// normal pointing away from the kept/inside region), the representation a
// target cell's planar faces use for successive clipping.
type Plane struct {
	Point  geometry.Point
	Normal geometry.Point
}

// ClipAgainstCell clips a tet list successively against every face of a
// convex target cell, keeping only the intersection -- repeated
// application of ClipTetByPlane, one face at a time, discarding tets that
// fall fully outside any face along the way.
func ClipAgainstCell(tets []Tet, faces []Plane) []Tet {
	for _, f := range faces {
		var next []Tet
		for _, t := range tets {
			next = append(next, ClipTetByPlane(t, f.Point, f.Normal)...)
		}
		tets = next
		if len(tets) == 0 {
			return nil
		}
	}
	return tets
}

// HexFaces returns the six outward-facing planes of a hex given in the
// same corner ordering HexToTets consumes (bottom 0-1-2-3, top 4-5-6-7),
// used to build a target cell's clip planes without hand-listing normals
// at every call site.
func HexFaces(corners [8]geometry.Point) []Plane {
	var hexCenter geometry.Point
	for _, c := range corners {
		hexCenter = hexCenter.Add(c)
	}
	hexCenter = hexCenter.Scale(1.0 / 8.0)

	quad := func(a, b, c, d int) Plane {
		p0, p1, p2, p3 := corners[a], corners[b], corners[c], corners[d]
		center := p0.Add(p1).Add(p2).Add(p3).Scale(0.25)
		n := p1.Sub(p0).Cross(p3.Sub(p0))
		if n.Dot(center.Sub(hexCenter)) < 0 {
			n = n.Scale(-1)
		}
		return Plane{Point: center, Normal: n}
	}
	return []Plane{
		quad(0, 1, 2, 3),
		quad(4, 7, 6, 5),
		quad(0, 4, 5, 1),
		quad(1, 5, 6, 2),
		quad(2, 6, 7, 3),
		quad(3, 7, 4, 0),
	}
}

// DonorIntegrationMesh splits a donor hex into its five tets and clips
// each against a target cell's faces, returning the tet-based integration
// mesh a Galerkin overset projection integrates over -- spec.md §4.5's
// top-level operation, chaining HexToTets and ClipAgainstCell.
func DonorIntegrationMesh(donorCorners [8]geometry.Point, targetFaces []Plane) []Tet {
	donorTets := HexToTets(donorCorners)
	var out []Tet
	for _, t := range donorTets {
		out = append(out, ClipAgainstCell([]Tet{t}, targetFaces)...)
	}
	return out
}
