package element

import (
	"fmt"
	"math"

	"github.com/flurry-cfd/flurry/geometry"
)

// UpdateMotion recomputes NodesRK and the grid-velocity fields for the
// mesh time corresponding to t, grounded on original_source's ele::move
// (perturb the nodes, re-run the reference-to-physical transform) and
// ele::calcGridVelocity (interpolate the analytic node velocity to
// solution/flux points with the same shape functions used for position).
// Static elements return immediately.
//
// Only MotionRigidRotation and MotionRigidTranslation are implemented.
// The Kui-perturbation and Liang-deformation node motions spec.md names
// are closed-form test-case displacement fields defined in their source
// papers; neither formula is present anywhere in this retrieval pack, so
// rather than guess at one, UpdateMotion reports them as unsupported.
func (e *Element) UpdateMotion(t float64) error {
	if e.Params.Motion == MotionStatic {
		return nil
	}
	if e.NodesRK == nil {
		return fmt.Errorf("element: UpdateMotion called on a static-allocated element")
	}

	for i, n0 := range e.Nodes {
		var pos, vel geometry.Point
		switch e.Params.Motion {
		case MotionRigidTranslation:
			pos, vel = rigidTranslation(n0, e.Params.MotionVelocity, t)
		case MotionRigidRotation:
			pos, vel = rigidRotation(n0, e.Params.MotionCenter, e.Params.MotionRateHz, t)
		default:
			return fmt.Errorf("element: motion type %s has no grounded node-perturbation formula", e.Params.Motion)
		}
		e.NodesRK[i] = pos
		e.GridVelNodes[i] = vel
	}

	if err := e.SetupAllGeometry(); err != nil {
		return err
	}
	e.updateGridVelocity()
	return nil
}

// rigidTranslation moves a node at the run's constant translation
// velocity; the grid velocity is that same velocity at every node and
// every time, per ele.cpp's "Rigid translation: No update needed" note
// about the Jacobian (only the position, never the metric, changes).
func rigidTranslation(n0 geometry.Point, v [3]float64, t float64) (pos, vel geometry.Point) {
	pos = geometry.Point{X: n0.X + v[0]*t, Y: n0.Y + v[1]*t, Z: n0.Z + v[2]*t}
	vel = geometry.Point{X: v[0], Y: v[1], Z: v[2]}
	return pos, vel
}

// rigidRotation rotates a node about MotionCenter in the x-y plane at a
// constant angular rate, carrying z unperturbed (a 2-D rigid rotation
// generalized to sit inside a 3-D node, matching geometry.Point's layout).
func rigidRotation(n0 geometry.Point, center [3]float64, rateHz, t float64) (pos, vel geometry.Point) {
	omega := 2 * math.Pi * rateHz
	theta := omega * t
	cx, cy := center[0], center[1]
	dx, dy := n0.X-cx, n0.Y-cy
	c, s := math.Cos(theta), math.Sin(theta)

	pos = geometry.Point{X: cx + c*dx - s*dy, Y: cy + s*dx + c*dy, Z: n0.Z}
	vel = geometry.Point{X: omega * (-s*dx - c*dy), Y: omega * (c*dx - s*dy), Z: 0}
	return pos, vel
}

// updateGridVelocity interpolates GridVelNodes to GridVelSpts/GridVelFpts
// with the same isoparametric node shape functions geometry.Transform
// uses for position, the Go analogue of ele::calcGridVelocity's
// shape_spts(spt,iv)*gridVel_nodes(iv,dim) contraction.
func (e *Element) updateGridVelocity() {
	nDims := e.Params.NDims
	for i, r := range e.Bundle.SptR {
		interpVel(e.shape, e.GridVelNodes, r, nDims, e.GridVelSpts[i])
	}
	for i, r := range e.Bundle.FptR {
		interpVel(e.shape, e.GridVelNodes, r, nDims, e.GridVelFpts[i])
	}
}

func interpVel(shape geometry.Shape, nodeVel []geometry.Point, r [3]float64, nDims int, dst []float64) {
	w := shape.Eval(r)
	for k := range dst {
		dst[k] = 0
	}
	for iv, nv := range nodeVel {
		dst[0] += w[iv] * nv.X
		if nDims > 1 {
			dst[1] += w[iv] * nv.Y
		}
		if nDims > 2 {
			dst[2] += w[iv] * nv.Z
		}
	}
}
