// Package assembly builds the per-partition Element/Face set a Solver
// runs over from a mesh.Mesh's connectivity table, the plumbing layer
// spec.md §3 places between the geometry service and the residual
// pipeline. Grounded on gocfd's Euler2D.NewEuler/Maxwell2D.NewMaxwell2D
// constructors (both walk EToV to build per-cell solver state, then walk
// EToE/EToF to wire edge structures from that state), generalized from
// the teacher's triangle-specific edge-pairing loop to the per-face
// flux-point lists operators.Bundle already returns for quad/hex, matched
// across an interior face by nearest physical location rather than the
// teacher's fixed-vertex-order edge table.
package assembly

import (
	"fmt"
	"math"

	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/face"
	"github.com/flurry-cfd/flurry/mesh"
	"github.com/flurry-cfd/flurry/operators"
)

// Build walks every cell of m, building one Element per cell at the given
// order via cache, then walks every cell-local face once to build the
// matching Face (interior, or boundary via boundaryBC for any
// (cell,localFace) pair tagged in m.BoundaryTag).
func Build(m *mesh.Mesh, cache *operators.Cache, params *element.Params, order int, boundaryBC func(tag string) (face.BCType, *face.Freestream, error)) ([]*element.Element, []*face.Face, error) {
	bundle, err := cache.Get(m.Type, order)
	if err != nil {
		return nil, nil, fmt.Errorf("assembly: %w", err)
	}

	elements := make([]*element.Element, len(m.EToV))
	for c := range m.EToV {
		el, err := element.New(m.Type, order, bundle, params, m.VertexCoords(c))
		if err != nil {
			return nil, nil, fmt.Errorf("assembly: building element %d: %w", c, err)
		}
		if err := el.SetupAllGeometry(); err != nil {
			return nil, nil, fmt.Errorf("assembly: element %d geometry: %w", c, err)
		}
		elements[c] = el
	}

	fptsByFace := fptIndicesByLocalFace(bundle)

	var faces []*face.Face
	paired := make(map[[2]int]bool)
	for c := range m.EToV {
		for lf := range m.EToE[c] {
			if paired[[2]int{c, lf}] {
				continue
			}
			nbr := m.EToE[c][lf]
			leftFpts := fptsByFace[lf]

			if nbr < 0 {
				tag, ok := m.BoundaryTag[[2]int{c, lf}]
				if !ok {
					return nil, nil, fmt.Errorf("assembly: cell %d face %d has no neighbor and no boundary tag", c, lf)
				}
				bc, fs, err := boundaryBC(tag)
				if err != nil {
					return nil, nil, fmt.Errorf("assembly: cell %d face %d: %w", c, lf, err)
				}
				faces = append(faces, face.NewBoundary(elements[c], leftFpts, bc, fs))
				paired[[2]int{c, lf}] = true
				continue
			}

			nbrLf := m.EToF[c][lf]
			rightFpts := matchFptsByPosition(elements[c], leftFpts, elements[nbr], fptsByFace[nbrLf])
			faces = append(faces, face.NewInterior(elements[c], elements[nbr], leftFpts, rightFpts))
			paired[[2]int{c, lf}] = true
			paired[[2]int{nbr, nbrLf}] = true
		}
	}
	return elements, faces, nil
}

// fptIndicesByLocalFace groups a bundle's flux-point indices by the
// FptFaceID tag NewBundle assigns each one.
func fptIndicesByLocalFace(b *operators.Bundle) map[int][]int {
	out := make(map[int][]int)
	for i, faceID := range b.FptFaceID {
		out[faceID] = append(out[faceID], i)
	}
	return out
}

// matchFptsByPosition reorders right's flux points to align with left's,
// pairing each left flux point with the right-face flux point nearest it
// in physical space -- the two elements share this face's physical
// location exactly, so a nearest-neighbor match recovers whatever
// rotation/flip exists between the two elements' local face-point
// orderings.
func matchFptsByPosition(left *element.Element, leftFpts []int, right *element.Element, rightFpts []int) []int {
	out := make([]int, len(leftFpts))
	used := make([]bool, len(rightFpts))
	for i, lf := range leftFpts {
		lx := left.XFpts[lf]
		best, bestDist := -1, math.Inf(1)
		for j, rf := range rightFpts {
			if used[j] {
				continue
			}
			rx := right.XFpts[rf]
			d := lx.Sub(rx)
			dist := d.X*d.X + d.Y*d.Y + d.Z*d.Z
			if dist < bestDist {
				bestDist, best = dist, j
			}
		}
		used[best] = true
		out[i] = rightFpts[best]
	}
	return out
}
