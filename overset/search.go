package overset

import (
	"github.com/flurry-cfd/flurry/geometry"
	"github.com/flurry-cfd/flurry/mesh"
)

// SetupFringeCellPoints collects the interpolation points owned by every
// Fringe cell of component compID, spec.md's setupFringeCellPoints: the
// cell-level coupling style, where an entire cell's solution points are
// driven by donor interpolation.
func (c *Communicator) SetupFringeCellPoints(compID int) []FringePoint {
	comp := c.Components[compID]
	var out []FringePoint
	for cellID, status := range comp.Mesh.IBlank {
		if status != mesh.Fringe {
			continue
		}
		fs := comp.Cells[cellID]
		for pi, x := range fs.Points() {
			out = append(out, FringePoint{Component: compID, Cell: cellID, Point: pi, X: x})
		}
	}
	return out
}

// SetupOverFacePoints wraps an explicit list of physical points (a face's
// flux points, gathered by the caller from its own Face/Element state) as
// FringePoints against a named owning cell, spec.md's setupOverFacePoints:
// the face-level coupling style used when an overset face couples directly
// through its flux points rather than through a whole fringe cell.
func (c *Communicator) SetupOverFacePoints(compID, cellID int, pts []geometry.Point) []FringePoint {
	out := make([]FringePoint, len(pts))
	for i, x := range pts {
		out[i] = FringePoint{Component: compID, Cell: cellID, Point: i, X: x}
	}
	return out
}

// MatchOversetPoints searches every component other than the fringe
// point's own for a cell whose geometry contains it, spec.md's
// matchOversetPoints. The search is a brute-force bounding-box reject
// followed by FieldSource.RefLoc, the donor/receiver pairing step a real
// ADT/BVH would accelerate but that this plumbing package does not build
// (no worked spatial-index example exists in the retrieved pack to ground
// one on); correctness, not search complexity, is the bar for this
// collaborator.
func (c *Communicator) MatchOversetPoints(points []FringePoint) []DonorMatch {
	out := make([]DonorMatch, len(points))
	for i, fp := range points {
		out[i] = c.matchOne(fp)
	}
	return out
}

func (c *Communicator) matchOne(fp FringePoint) DonorMatch {
	for ci, comp := range c.Components {
		if ci == fp.Component {
			continue
		}
		for cellID, status := range comp.Mesh.IBlank {
			if status == mesh.Hole {
				continue
			}
			fs := comp.Cells[cellID]
			if r, ok := fs.RefLoc(fp.X); ok {
				return DonorMatch{Fringe: fp, Donor: ci, DonorCell: cellID, RefLoc: r, Found: true}
			}
		}
	}
	return DonorMatch{Fringe: fp, Found: false}
}
