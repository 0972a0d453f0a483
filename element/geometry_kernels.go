package element

import (
	"fmt"
	"math"

	"github.com/flurry-cfd/flurry/densemat"
	"github.com/flurry-cfd/flurry/geometry"
)

// SetupAllGeometry evaluates the reference-to-physical transform at every
// solution and flux point: J(ξ), JGinv (the cofactor/adjoint matrix), and
// detJ, per spec.md §4.1. A non-positive determinant is fatal -- this
// returns an error rather than panicking so the caller can attach context
// before terminating, matching spec.md §7's "diagnostic line, then
// terminate" contract.
func (e *Element) SetupAllGeometry() error {
	nDims := e.Params.NDims
	nodes := e.ActiveNodes()

	for i, r := range e.Bundle.SptR {
		x, jac3, detJ, jginv3, err := e.transformAt(nodes, r, nDims, fmt.Sprintf("spt %d", i))
		if err != nil {
			return err
		}
		e.XSpts[i] = x
		e.JacSpts[i], e.JGinvSpts[i], e.DetJacSpts[i] = jac3, jginv3, detJ
	}
	for i, r := range e.Bundle.FptR {
		x, jac3, detJ, jginv3, err := e.transformAt(nodes, r, nDims, fmt.Sprintf("fpt %d", i))
		if err != nil {
			return err
		}
		e.XFpts[i] = x
		e.JacFpts[i], e.JGinvFpts[i], e.DetJacFpts[i] = jac3, jginv3, detJ

		// Nanson's formula: the physical area-weighted outward normal is
		// adj(J)^T applied to the reference normal; its magnitude is dA.
		tn := e.TNormFpts[i]
		var phys [3]float64
		for d := 0; d < nDims; d++ {
			var s float64
			for k := 0; k < nDims; k++ {
				s += jginv3[k][d] * tn[k]
			}
			phys[d] = s
		}
		var mag float64
		for d := 0; d < nDims; d++ {
			e.NormFpts[i][d] = phys[d]
			mag += phys[d] * phys[d]
		}
		e.DAFpts[i] = math.Sqrt(mag)
	}
	for i, r := range e.Bundle.MptR {
		x, _, _ := geometry.Transform(e.shape, nodes, r, nDims)
		e.XMpts[i] = x
	}
	return nil
}

func (e *Element) transformAt(nodes []geometry.Point, r [3]float64, nDims int, where string) (x geometry.Point, jac3, jginv3 densemat.Mat3, detJ float64, err error) {
	x, jac2, jac3full := geometry.Transform(e.shape, nodes, r, nDims)
	if nDims == 2 {
		detJ = jac2.Det()
		if detJ <= 0 {
			return x, densemat.Mat3{}, densemat.Mat3{}, 0, &densemat.ErrSingular{Det: detJ, Where: where}
		}
		adj2 := jac2.Adjoint()
		jac3[0][0], jac3[0][1] = jac2[0][0], jac2[0][1]
		jac3[1][0], jac3[1][1] = jac2[1][0], jac2[1][1]
		jac3[2][2] = 1
		jginv3[0][0], jginv3[0][1] = adj2[0][0], adj2[0][1]
		jginv3[1][0], jginv3[1][1] = adj2[1][0], adj2[1][1]
		jginv3[2][2] = detJ
		return x, jac3, jginv3, detJ, nil
	}
	detJ = jac3full.Det()
	if detJ <= 0 {
		return x, densemat.Mat3{}, densemat.Mat3{}, 0, &densemat.ErrSingular{Det: detJ, Where: where}
	}
	return x, jac3full, jac3full.Adjoint(), detJ, nil
}
