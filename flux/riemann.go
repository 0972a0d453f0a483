package flux

import "math"

// RiemannType selects the common-flux solver used at a face, matching the
// `riemannType` configuration key.
type RiemannType int

const (
	Rusanov RiemannType = iota
	Roe
)

// normalMag returns |normal|; callers pass a reference-space or physical
// normal scaled already by the face's area element, per spec.md §4.2.
func normalMag(normal []float64) float64 {
	var s float64
	for _, v := range normal {
		s += v * v
	}
	return math.Sqrt(s)
}

// RusanovFlux is the local Lax-Friedrichs common flux: the average of the
// two one-sided fluxes minus the largest local wave speed times half the
// state jump, mirroring gocfd's Euler2D.LaxFlux generalized to nDims.
func RusanovFlux(uL, uR []float64, normal []float64, nDims int, gamma float64) []float64 {
	nm := normalMag(normal)
	fL := EulerPhysicalFlux(uL, nDims, gamma)
	fR := EulerPhysicalFlux(uR, nDims, gamma)
	nFields := nDims + 2
	fnL := dotNormal(fL, normal, nFields, nDims)
	fnR := dotNormal(fR, normal, nFields, nDims)

	smax := math.Max(MaxWaveSpeed(uL, nDims, gamma, normal, nm), MaxWaveSpeed(uR, nDims, gamma, normal, nm))
	out := make([]float64, nFields)
	for k := 0; k < nFields; k++ {
		out[k] = 0.5*(fnL[k]+fnR[k]) - 0.5*smax*nm*(uR[k]-uL[k])
	}
	return out
}

func dotNormal(f [][]float64, normal []float64, nFields, nDims int) []float64 {
	out := make([]float64, nFields)
	for d := 0; d < nDims; d++ {
		for k := 0; k < nFields; k++ {
			out[k] += f[d][k] * normal[d]
		}
	}
	return out
}

// RoeFlux is the classical Roe approximate Riemann solver for the
// compressible Euler/NS equations, following the Roe-averaged-state
// construction gocfd's Euler2D.RoeFlux implements for triangles,
// generalized to an arbitrary unit normal in nDims dimensions.
func RoeFlux(uL, uR []float64, normal []float64, nDims int, gamma float64) []float64 {
	nm := normalMag(normal)
	nFields := nDims + 2
	unit := make([]float64, nDims)
	if nm > 0 {
		for d := 0; d < nDims; d++ {
			unit[d] = normal[d] / nm
		}
	}

	rhoL, rhoR := uL[0], uR[0]
	velL := make([]float64, nDims)
	velR := make([]float64, nDims)
	for d := 0; d < nDims; d++ {
		velL[d] = uL[1+d] / rhoL
		velR[d] = uR[1+d] / rhoR
	}
	pL := Pressure(uL, nDims, gamma)
	pR := Pressure(uR, nDims, gamma)
	HL := (uL[nFields-1] + pL) / rhoL
	HR := (uR[nFields-1] + pR) / rhoR

	sqrtL, sqrtR := math.Sqrt(rhoL), math.Sqrt(rhoR)
	rhoAvg := sqrtL * sqrtR
	velAvg := make([]float64, nDims)
	var unAvg float64
	for d := 0; d < nDims; d++ {
		velAvg[d] = (sqrtL*velL[d] + sqrtR*velR[d]) / (sqrtL + sqrtR)
		unAvg += velAvg[d] * unit[d]
	}
	HAvg := (sqrtL*HL + sqrtR*HR) / (sqrtL + sqrtR)
	var kinAvg float64
	for d := 0; d < nDims; d++ {
		kinAvg += velAvg[d] * velAvg[d]
	}
	cAvg := math.Sqrt(math.Max((gamma-1)*(HAvg-0.5*kinAvg), 1e-14))

	fL := dotNormal(EulerPhysicalFlux(uL, nDims, gamma), normal, nFields, nDims)
	fR := dotNormal(EulerPhysicalFlux(uR, nDims, gamma), normal, nFields, nDims)

	// Characteristic-field decomposition collapses to three distinct wave
	// speeds (un-c, un, un+c) regardless of nDims; the shear components
	// ride along with the middle (un) wave, matching the standard Roe
	// formulation.
	drho := rhoR - rhoL
	dp := pR - pL
	var dun float64
	dvel := make([]float64, nDims)
	for d := 0; d < nDims; d++ {
		dvel[d] = velR[d] - velL[d]
		dun += dvel[d] * unit[d]
	}

	l1 := math.Abs(unAvg - cAvg)
	l2 := math.Abs(unAvg)
	l3 := math.Abs(unAvg + cAvg)
	const eps = 1e-3
	fix := func(l float64) float64 {
		if l < eps {
			return 0.5 * (l*l/eps + eps)
		}
		return l
	}
	l1, l2, l3 = fix(l1), fix(l2), fix(l3)

	w1 := 0.5 * (dp - rhoAvg*cAvg*dun) / (cAvg * cAvg)
	w3 := 0.5 * (dp + rhoAvg*cAvg*dun) / (cAvg * cAvg)
	w2 := drho - (w1 + w3)

	out := make([]float64, nFields)
	for k := 0; k < nFields; k++ {
		out[k] = 0.5 * (fL[k] + fR[k])
	}

	addWave := func(l, amp float64, velW []float64, hW float64) {
		out[0] -= 0.5 * l * amp
		for d := 0; d < nDims; d++ {
			out[1+d] -= 0.5 * l * amp * velW[d]
		}
		out[nFields-1] -= 0.5 * l * amp * hW
	}
	// Wave 1 (un-c): density jump amplitude w1, velocity shifted by -c*n
	vel1 := make([]float64, nDims)
	for d := 0; d < nDims; d++ {
		vel1[d] = velAvg[d] - cAvg*unit[d]
	}
	addWave(l1, w1, vel1, HAvg-cAvg*unAvg)

	// Wave 2 (un): carries density+shear jump orthogonal to the normal
	addWave(l2, w2, velAvg, 0.5*kinAvg)
	for d := 0; d < nDims; d++ {
		shear := rhoAvg * (dvel[d] - dun*unit[d])
		out[1+d] -= 0.5 * l2 * shear
		out[nFields-1] -= 0.5 * l2 * shear * velAvg[d]
	}

	// Wave 3 (un+c)
	vel3 := make([]float64, nDims)
	for d := 0; d < nDims; d++ {
		vel3[d] = velAvg[d] + cAvg*unit[d]
	}
	addWave(l3, w3, vel3, HAvg+cAvg*unAvg)

	return out
}

// AdvDiffRiemann returns the common inviscid flux for the scalar
// advection equation: pure upwind switched on the sign of the advection
// velocity projected onto the normal, blended toward the symmetric
// central flux by `lambda` in [0,1] (lambda=0 central, lambda=1 upwind),
// matching the `lambda`-parameterized Riemann family spec.md §4.2/§6
// describes.
func AdvDiffRiemann(uL, uR float64, normal []float64, advectV []float64, lambda float64) float64 {
	var vn float64
	for d := range advectV {
		vn += advectV[d] * normal[d]
	}
	central := 0.5 * vn * (uL + uR)
	upwind := central - 0.5*math.Abs(vn)*(uR-uL)
	return (1-lambda)*central + lambda*upwind
}
