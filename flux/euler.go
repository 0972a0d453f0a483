// Package flux implements the per-equation physical flux functions and
// the Riemann solvers / LDG viscous coupling the Face and Element kernels
// call into, grounded on gocfd's model_problems/Euler2D/fluxes.go pattern
// (separate F/G/H physical-flux assembly, then a small family of named
// Riemann solvers sharing a left/right-state signature) generalized from
// 2-D triangles to the 2-D/3-D quad/hex equations spec.md §4.1/§4.2 call
// for.
package flux

import (
	"fmt"
	"math"
)

// Equation selects which physical flux and admissible Riemann solvers
// apply, matching the `equation` configuration key.
type Equation int

const (
	AdvectionDiffusion Equation = iota
	EulerNS
)

// NumFields returns the conserved-variable count for an equation in nDims
// dimensions: 1 scalar for advection-diffusion, nDims+2 for Euler/NS.
func NumFields(eq Equation, nDims int) int {
	if eq == AdvectionDiffusion {
		return 1
	}
	return nDims + 2
}

// Pressure returns p = (gamma-1)*(E - 0.5*rho*|u|^2) for conserved state u
// laid out [rho, rho*u1, ..., rho*uN, E].
func Pressure(u []float64, nDims int, gamma float64) float64 {
	rho := u[0]
	var ke float64
	for d := 0; d < nDims; d++ {
		m := u[1+d]
		ke += m * m
	}
	ke /= 2 * rho
	E := u[len(u)-1]
	return (gamma - 1) * (E - ke)
}

// SoundSpeed returns sqrt(gamma*p/rho); callers must ensure rho,p > 0.
func SoundSpeed(rho, p, gamma float64) float64 {
	return math.Sqrt(gamma * p / rho)
}

// EulerPhysicalFlux returns F[d][field] for the compressible Euler/NS
// conserved state u, one row per spatial direction, following the same
// flux definition as gocfd's Euler2D.FluxCalc specialized per-dimension
// and generalized to nDims=3.
func EulerPhysicalFlux(u []float64, nDims int, gamma float64) [][]float64 {
	rho := u[0]
	vel := make([]float64, nDims)
	for d := 0; d < nDims; d++ {
		vel[d] = u[1+d] / rho
	}
	p := Pressure(u, nDims, gamma)
	E := u[len(u)-1]

	nFields := nDims + 2
	F := make([][]float64, nDims)
	for d := 0; d < nDims; d++ {
		row := make([]float64, nFields)
		row[0] = rho * vel[d]
		for k := 0; k < nDims; k++ {
			row[1+k] = rho * vel[d] * vel[k]
			if k == d {
				row[1+k] += p
			}
		}
		row[nFields-1] = vel[d] * (E + p)
		F[d] = row
	}
	return F
}

// MaxWaveSpeed returns the magnitude of the largest Euler/NS characteristic
// speed along `normal` (|u·n| + c), the convective-plus-acoustic bound
// spec.md §4.1 uses for the local time step.
func MaxWaveSpeed(u []float64, nDims int, gamma float64, normal []float64, normalMag float64) float64 {
	rho := u[0]
	p := Pressure(u, nDims, gamma)
	c := SoundSpeed(rho, p, gamma)
	var un float64
	for d := 0; d < nDims; d++ {
		un += (u[1+d] / rho) * normal[d]
	}
	if normalMag > 0 {
		un /= normalMag
	}
	return math.Abs(un) + c
}

// ValidateState returns an error if rho or p is non-positive, the
// condition spec.md §7 treats as a fatal setup/runtime error upstream.
func ValidateState(u []float64, nDims int, gamma float64) error {
	if u[0] <= 0 {
		return fmt.Errorf("flux: non-positive density %g", u[0])
	}
	if p := Pressure(u, nDims, gamma); p <= 0 {
		return fmt.Errorf("flux: non-positive pressure %g", p)
	}
	return nil
}
