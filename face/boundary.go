package face

import (
	"math"

	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/flux"
	"github.com/flurry-cfd/flurry/utils"
)

// BCType tags a boundary face with the condition used to synthesize its
// ghost state, the six-way family spec.md §4.2 names plus periodic
// (periodic pairs are wired as Interior faces by the mesh layer, so
// BCType never actually carries Periodic at residual time; it is kept
// here only so configuration parsing has a name for it).
type BCType int

const (
	SlipWall BCType = iota
	NoSlipAdiabatic
	NoSlipIsothermal
	SupersonicInflow
	SupersonicOutflow
	Characteristic
	Periodic
)

// utilsBCType maps each residual-facing BCType to utils.BCType's broader
// naming vocabulary so String() has one place to borrow names from rather
// than a second, parallel name table.
var utilsBCType = map[BCType]utils.BCType{
	SlipWall:          utils.BCSlipWall,
	NoSlipAdiabatic:   utils.BCAdiabatic,
	NoSlipIsothermal:  utils.BCIsothermal,
	SupersonicInflow:  utils.BCInflow,
	SupersonicOutflow: utils.BCOutflow,
	Characteristic:    utils.BCFarfield,
	Periodic:          utils.BCPeriodic,
}

// String delegates to utils.BCType's name table so the solver-facing and
// mesh-tag-facing boundary condition vocabularies never drift apart.
func (bc BCType) String() string {
	if u, ok := utilsBCType[bc]; ok {
		return u.String()
	}
	return "Unknown"
}

// Freestream holds the boundary-condition/initial-condition reference
// state spec.md §6's RunDeck freestream block carries.
type Freestream struct {
	Rho, U, V, W, P float64
	Mach, Re, Lref  float64
	TBound          float64
	Nx, Ny, Nz      float64 // inflow direction, for characteristic/inflow BCs

	// ScalarU is the boundary value used for the advection-diffusion
	// equation's inflow/Dirichlet conditions; the Euler freestream fields
	// above are meaningless for that equation.
	ScalarU float64
}

func (fs *Freestream) conserved(nDims int, gamma float64) []float64 {
	vel := [3]float64{fs.U, fs.V, fs.W}
	ke := 0.0
	for d := 0; d < nDims; d++ {
		ke += vel[d] * vel[d]
	}
	u := make([]float64, nDims+2)
	u[0] = fs.Rho
	for d := 0; d < nDims; d++ {
		u[1+d] = fs.Rho * vel[d]
	}
	u[nDims+1] = fs.P/(gamma-1) + 0.5*fs.Rho*ke
	return u
}

// synthesizeBoundaryState builds the ghost state UR spec.md §4.2 says a
// boundary face synthesizes "from the boundary condition tag and the
// freestream configuration", reusing the same left/right-state Face
// contract every other face kind uses.
func synthesizeBoundaryState(bc BCType, uL, normal []float64, params *element.Params, fs *Freestream, nDims int) []float64 {
	if params.Equation != flux.EulerNS {
		return advDiffBoundaryState(bc, uL, fs)
	}

	nm := 0.0
	for _, v := range normal {
		nm += v * v
	}
	nm = math.Sqrt(nm)
	unit := make([]float64, nDims)
	if nm > 0 {
		for d := 0; d < nDims; d++ {
			unit[d] = normal[d] / nm
		}
	}

	switch bc {
	case SlipWall:
		return reflectNormalVelocity(uL, unit, nDims)
	case NoSlipAdiabatic:
		return zeroVelocityGhost(uL, nDims, params.Gamma, -1)
	case NoSlipIsothermal:
		return zeroVelocityGhost(uL, nDims, params.Gamma, fs.TBound)
	case SupersonicInflow:
		return fs.conserved(nDims, params.Gamma)
	case SupersonicOutflow:
		out := make([]float64, len(uL))
		copy(out, uL)
		return out
	case Characteristic:
		return characteristicGhost(uL, unit, nDims, params.Gamma, fs)
	default:
		out := make([]float64, len(uL))
		copy(out, uL)
		return out
	}
}

// reflectNormalVelocity mirrors the normal momentum component, the
// standard inviscid slip-wall ghost state: tangential velocity and
// thermodynamic state pass through unchanged.
func reflectNormalVelocity(uL, unit []float64, nDims int) []float64 {
	out := make([]float64, len(uL))
	copy(out, uL)
	var mn float64
	for d := 0; d < nDims; d++ {
		mn += uL[1+d] * unit[d]
	}
	for d := 0; d < nDims; d++ {
		out[1+d] = uL[1+d] - 2*mn*unit[d]
	}
	return out
}

// zeroVelocityGhost returns the no-slip ghost state: zero velocity,
// pressure extrapolated from the interior, and, when tBound>0, density
// set so the ghost temperature surrogate p/rho matches tBound (isothermal);
// tBound<0 instead holds the interior density (adiabatic, zero normal
// temperature gradient by construction since both sides then share p/rho).
func zeroVelocityGhost(uL []float64, nDims int, gamma, tBound float64) []float64 {
	p := flux.Pressure(uL, nDims, gamma)
	rho := uL[0]
	if tBound > 0 {
		rho = p / tBound
	}
	out := make([]float64, len(uL))
	out[0] = rho
	out[len(out)-1] = p / (gamma - 1)
	return out
}

// characteristicGhost is a one-sided Riemann-invariant approximation:
// outgoing flow (normal velocity away from the domain) extrapolates the
// interior state, incoming flow takes the freestream state. A full
// characteristic/NRBC decomposition needs per-eigenvalue invariants the
// retrieved pack does not carry a worked example of; this upwind switch
// is the documented, structurally faithful simplification.
func characteristicGhost(uL, unit []float64, nDims int, gamma float64, fs *Freestream) []float64 {
	var un float64
	for d := 0; d < nDims; d++ {
		un += (uL[1+d] / uL[0]) * unit[d]
	}
	if un >= 0 {
		out := make([]float64, len(uL))
		copy(out, uL)
		return out
	}
	return fs.conserved(nDims, gamma)
}

func advDiffBoundaryState(bc BCType, uL []float64, fs *Freestream) []float64 {
	switch bc {
	case SupersonicOutflow, NoSlipAdiabatic:
		return []float64{uL[0]}
	default:
		return []float64{fs.ScalarU}
	}
}
