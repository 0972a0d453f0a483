package flux

// LDGCommonState returns the interface-common state U_c for the Local
// Discontinuous Galerkin viscous scheme: the simple average biased toward
// one side by `penFact` (the BR2/LDG switch), used to form ∇U's jump
// correction per spec.md §4.2/§4.4.
func LDGCommonState(uL, uR []float64, penFact float64) []float64 {
	out := make([]float64, len(uL))
	for i := range uL {
		out[i] = 0.5*(uL[i]+uR[i]) - penFact*0.5*(uL[i]-uR[i])
	}
	return out
}

// LDGPenaltyFlux returns the τ-stabilized jump contribution τ*(UL-UR)
// added onto the common viscous flux, per spec.md §4.2's LDG_tau option.
func LDGPenaltyFlux(uL, uR []float64, tau float64) []float64 {
	out := make([]float64, len(uL))
	for i := range uL {
		out[i] = tau * (uL[i] - uR[i])
	}
	return out
}

// EulerViscousFlux returns the Navier-Stokes viscous stress/heat-flux
// contribution to the physical flux, using Stokes's hypothesis and a
// constant laminar viscosity/Prandtl-number closure consistent with the
// inviscid EulerPhysicalFlux conserved-state layout.
func EulerViscousFlux(u []float64, gradU [][]float64, nDims int, mu, gamma, prandtl float64) [][]float64 {
	rho := u[0]
	vel := make([]float64, nDims)
	for d := 0; d < nDims; d++ {
		vel[d] = u[1+d] / rho
	}

	// Velocity gradients dvel[d][k] = d(u_k)/dx_d, from the conserved
	// gradient via the quotient rule d(u_k)/dx = (d(rho u_k)/dx - u_k
	// d(rho)/dx)/rho.
	dvel := make([][]float64, nDims)
	for d := 0; d < nDims; d++ {
		dvel[d] = make([]float64, nDims)
		for k := 0; k < nDims; k++ {
			dvel[d][k] = (gradU[d][1+k] - vel[k]*gradU[d][0]) / rho
		}
	}

	var divVel float64
	for d := 0; d < nDims; d++ {
		divVel += dvel[d][d]
	}

	nFields := nDims + 2
	F := make([][]float64, nDims)
	cp := gamma / (gamma - 1)
	cond := mu * cp / prandtl
	p := Pressure(u, nDims, gamma)
	T := p / rho // up to the gas constant factor, consistent across faces

	for d := 0; d < nDims; d++ {
		row := make([]float64, nFields)
		var dTdx float64
		// dT/dx_d from d(p)/dx_d and d(rho)/dx_d via T ~ p/rho; both are
		// approximated from the conserved gradient's energy/density rows
		// to keep this closure self-contained without a separate pressure
		// gradient pass.
		dTdx = (gradU[d][nFields-1] - T*gradU[d][0]) / rho
		for k := 0; k < nDims; k++ {
			tau := mu * (dvel[d][k] + dvel[k][d])
			if d == k {
				tau -= 2.0 / 3.0 * mu * divVel
			}
			row[1+k] = tau
		}
		var work float64
		for k := 0; k < nDims; k++ {
			work += row[1+k] * vel[k]
		}
		row[nFields-1] = work + cond*dTdx
		F[d] = row
	}
	return F
}
