package element

import (
	"math"

	"github.com/flurry-cfd/flurry/flux"
)

// ComputeLocalDt evaluates the local wave speed at every flux point --
// the normal convective speed, grid-velocity-corrected, plus the acoustic
// speed for NS, divided by the area element -- and sets DtLocal from the
// standard FR stability bound, per spec.md §4.1. Callers must have run
// ExtrapolateToFpts first.
func (e *Element) ComputeLocalDt() {
	nDims := e.Params.NDims
	gamma := e.Params.Gamma
	var maxSpeed float64
	for i, u := range e.UFpts {
		da := e.DAFpts[i]
		if da <= 0 {
			continue
		}
		n := e.NormFpts[i]
		var speed float64
		switch e.Params.Equation {
		case flux.EulerNS:
			rho := u[0]
			p := flux.Pressure(u, nDims, gamma)
			c := flux.SoundSpeed(rho, p, gamma)
			var mdotn float64
			for d := 0; d < nDims; d++ {
				mdotn += (u[1+d] / rho) * n[d]
				if e.GridVelFpts != nil {
					mdotn -= e.GridVelFpts[i][d] * n[d]
				}
			}
			speed = (math.Abs(mdotn) + c*da) / da
		default:
			var vn float64
			for d := 0; d < nDims; d++ {
				vn += e.Params.AdvectV[d] * n[d]
			}
			speed = math.Abs(vn) / da
		}
		if speed > maxSpeed {
			maxSpeed = speed
		}
	}
	e.DtLocal = e.Params.CFL * CFLLimit(e.Order) * 2.0 / (maxSpeed + 1e-10)
}
