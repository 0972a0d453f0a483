package element

import (
	"github.com/flurry-cfd/flurry/densemat"
	"github.com/flurry-cfd/flurry/flux"
	"github.com/flurry-cfd/flurry/utils"
)

// applyOperator multiplies a dense (nOut x nIn) operator against a set of
// per-point field rows, returning one row per output point -- the shared
// pattern behind every spt/fpt extrapolation and reference-gradient kernel
// in this file, grounded on gocfd's DG2D operator-application style of
// looping a utils.Matrix against a field-major state array.
func applyOperator(op utils.Matrix, src [][]float64, nOut int) [][]float64 {
	nIn := len(src)
	nf := 0
	if nIn > 0 {
		nf = len(src[0])
	}
	out := make([][]float64, nOut)
	for i := 0; i < nOut; i++ {
		row := make([]float64, nf)
		for j := 0; j < nIn; j++ {
			w := op.At(i, j)
			if w == 0 {
				continue
			}
			for k := 0; k < nf; k++ {
				row[k] += w * src[j][k]
			}
		}
		out[i] = row
	}
	return out
}

// ExtrapolateToFpts interpolates the solution points to the flux points.
func (e *Element) ExtrapolateToFpts() {
	copyRows(e.UFpts, applyOperator(e.Bundle.OppSptsToFpts, e.USpts, e.Bundle.NFpts))
}

// ExtrapolateToMpts interpolates the solution points to the plot points.
func (e *Element) ExtrapolateToMpts() {
	copyRows(e.UMpts, applyOperator(e.Bundle.OppSptsToMpts, e.USpts, e.Bundle.NMpts))
}

// ComputeGradients differentiates the solution in reference space along
// every dimension, then extrapolates each gradient component to the flux
// points; callers scale by JGinv when a physical-space gradient is needed
// (EulerViscousFlux consumes the reference gradient directly against the
// conserved-state layout it was grounded on).
func (e *Element) ComputeGradients() {
	for d := 0; d < e.Params.NDims; d++ {
		copyRows(e.DUSpts[d], applyOperator(e.Bundle.OppGradSpts[d], e.USpts, e.Bundle.NSpts))
	}
	e.ExtrapolateGradientsToFpts()
}

// ExtrapolateGradientsToFpts interpolates the current DUSpts to the flux
// points, kept separate from ComputeGradients so the LDG jump correction
// (ApplyGradientCorrection) can re-run just the extrapolation without
// re-differentiating the uncorrected solution, per spec.md §4.3 step 9's
// "correct ∇U with the jump... extrapolate ∇U to flux points" ordering.
func (e *Element) ExtrapolateGradientsToFpts() {
	for d := 0; d < e.Params.NDims; d++ {
		copyRows(e.DUFpts[d], applyOperator(e.Bundle.OppSptsToFpts, e.DUSpts[d], e.Bundle.NFpts))
	}
}

// ApplyGradientCorrection corrects the reference-space gradient at every
// solution point with the LDG interface jump (U_c - U_fpts), using
// opp_grad_corr restricted to the flux points on each dimension's own pair
// of faces -- spec.md §4.4 describes opp_grad_corr as sharing
// opp_div_fpts_to_spts's structure, and that structure already groups flux
// points by the face (and hence dimension) they sit on via Bundle.FptFaceID.
// Callers must have populated UCFpts via the Face kernels first.
func (e *Element) ApplyGradientCorrection() {
	nf := e.Params.NFields()
	jump := make([][]float64, e.Bundle.NFpts)
	for i := range jump {
		row := make([]float64, nf)
		for k := 0; k < nf; k++ {
			row[k] = e.UCFpts[i][k] - e.UFpts[i][k]
		}
		jump[i] = row
	}
	op := e.Bundle.OppGradCorr
	for d := 0; d < e.Params.NDims; d++ {
		dst := e.DUSpts[d]
		for i := range dst {
			for fp := 0; fp < e.Bundle.NFpts; fp++ {
				if e.Bundle.FptFaceID[fp]/2 != d {
					continue
				}
				w := op.At(i, fp)
				if w == 0 {
					continue
				}
				for k := 0; k < nf; k++ {
					dst[i][k] += w * jump[fp][k]
				}
			}
		}
	}
}

// ComputeInviscidFlux assembles the inviscid physical flux at every
// solution point and transforms it into reference space: F_ref_d =
// (1/detJ) Σ_i JGinv[i][d]·F_phys_i, spec.md §4.1's contravariant-flux
// construction, grounded on gocfd's Euler2D per-element FluxCalc-then-
// transform sequence generalized to nDims and to the cofactor-matrix
// transform instead of a fixed 2x2 metric pair. This is spec.md §4.3
// step 7; the viscous contribution is added separately by
// ComputeViscousFlux at step 9, after the gradient jump correction runs.
func (e *Element) ComputeInviscidFlux() {
	nDims := e.Params.NDims
	moving := e.Params.Motion != MotionStatic && e.GridVelSpts != nil
	if moving {
		for d := range e.FPhysSpts {
			zeroRows(e.FPhysSpts[d])
		}
	}
	for i := range e.USpts {
		u := e.USpts[i]
		var fPhys [][]float64
		if e.Params.Equation == flux.EulerNS {
			fPhys = flux.EulerPhysicalFlux(u, nDims, e.Params.Gamma)
		} else {
			fPhys = flux.AdvDiffFlux(u[0], nil, e.Params.AdvectV, e.Params.DiffD, nDims)
		}
		e.transformFluxInto(i, fPhys, 1)
		if moving {
			e.accumulatePhysFlux(i, fPhys, 1)
		}
	}
}

// ComputeViscousFlux subtracts the viscous physical flux (evaluated from
// the current, LDG-corrected DUSpts) from the already-transformed
// reference-space flux, spec.md §4.3 step 9. It is a no-op unless
// Params.Viscous is set.
func (e *Element) ComputeViscousFlux() {
	if !e.Params.Viscous {
		return
	}
	nDims := e.Params.NDims
	moving := e.Params.Motion != MotionStatic && e.GridVelSpts != nil
	for i := range e.USpts {
		u := e.USpts[i]
		var fVisc [][]float64
		if e.Params.Equation == flux.EulerNS {
			gradU := make([][]float64, nDims)
			for d := 0; d < nDims; d++ {
				gradU[d] = e.DUSpts[d][i]
			}
			fVisc = flux.EulerViscousFlux(u, gradU, nDims, e.Params.Mu, e.Params.Gamma, e.Params.Prandtl)
		} else {
			gradU := make([]float64, nDims)
			for d := 0; d < nDims; d++ {
				gradU[d] = e.DUSpts[d][i][0]
			}
			fVisc = flux.AdvDiffFlux(0, gradU, e.Params.AdvectV, e.Params.DiffD, nDims)
		}
		e.transformFluxInto(i, fVisc, -1)
		if moving {
			e.accumulatePhysFlux(i, fVisc, -1)
		}
	}
}

// transformFluxInto adds sign*(1/detJ)·JGinv^T·fPhys onto FSpts at
// solution point i, the shared contravariant-transform step both
// ComputeInviscidFlux and ComputeViscousFlux use. On a static element
// this is the whole transform; on a moving element, F_ref also carries a
// U*v_g contribution, grounded on original_source's
// ele::transformFlux_physToRef: the grid velocity occupies the last
// row/column of an augmented space-time Jacobian, and its adjoint's last
// column is exactly the weight U*v_g needs. detJ of that augmented
// matrix equals detJ of the plain spatial Jacobian (its last row is
// (0,...,0,1)), so the existing 1/detJ scaling still applies unchanged.
func (e *Element) transformFluxInto(i int, fPhys [][]float64, sign float64) {
	nDims := e.Params.NDims
	detJ := e.DetJacSpts[i]

	if e.Params.Motion == MotionStatic || e.GridVelSpts == nil {
		jginv := e.JGinvSpts[i]
		for d := 0; d < nDims; d++ {
			row := e.FSpts[d][i]
			for k := range row {
				var s float64
				for n := 0; n < nDims; n++ {
					s += jginv[n][d] * fPhys[n][k]
				}
				row[k] += sign * s / detJ
			}
		}
		return
	}

	u := e.USpts[i]
	gv := e.GridVelSpts[i]
	jac := e.JacSpts[i]

	if nDims == 2 {
		j2 := densemat.Mat2{{jac[0][0], jac[0][1]}, {jac[1][0], jac[1][1]}}
		s := densemat.SpaceTime2D(j2, [2]float64{gv[0], gv[1]}).Adjoint()
		for d := 0; d < 2; d++ {
			row := e.FSpts[d][i]
			for k := range row {
				contrib := u[k] * s[d][2]
				for n := 0; n < 2; n++ {
					contrib += s[d][n] * fPhys[n][k]
				}
				row[k] += sign * contrib / detJ
			}
		}
		return
	}

	s := densemat.SpaceTime3D(jac, [3]float64{gv[0], gv[1], gv[2]}).Adjoint()
	for d := 0; d < 3; d++ {
		row := e.FSpts[d][i]
		for k := range row {
			contrib := u[k] * s[d][3]
			for n := 0; n < 3; n++ {
				contrib += s[d][n] * fPhys[n][k]
			}
			row[k] += sign * contrib / detJ
		}
	}
}

// accumulatePhysFlux mirrors transformFluxInto but leaves the flux
// untransformed, the "don't transform yet" state original_source keeps
// F_spts in under motion so the non-conservative chain-rule divergence
// can differentiate the physical flux directly in reference space
// (ele::transformGradF_spts's dF_spts input, via ele::calcGradF_spts).
func (e *Element) accumulatePhysFlux(i int, fPhys [][]float64, sign float64) {
	for d := range fPhys {
		row := e.FPhysSpts[d][i]
		for k := range row {
			row[k] += sign * fPhys[d][k]
		}
	}
}

// ExtrapolateNormalFlux interpolates the reference-space flux components
// to the flux points and dots them against the reference normal to form
// disFn_fpts, the discontinuous one-sided normal flux a Face blends into
// the common flux.
func (e *Element) ExtrapolateNormalFlux() {
	nDims := e.Params.NDims
	fAtFpts := make([][][]float64, nDims)
	for d := 0; d < nDims; d++ {
		fAtFpts[d] = applyOperator(e.Bundle.OppSptsToFpts, e.FSpts[d], e.Bundle.NFpts)
	}
	for i := range e.DisFnFpts {
		row := e.DisFnFpts[i]
		tn := e.TNormFpts[i]
		for k := range row {
			var s float64
			for d := 0; d < nDims; d++ {
				s += tn[d] * fAtFpts[d][i][k]
			}
			row[k] = s
		}
	}
}

// DivergenceStandard forms divF_spts[stage] by the standard conservative
// differentiation Σ_d ∂F_ref_d/∂ξ_d, the default divergence form used on a
// static mesh (spec.md §4.1).
func (e *Element) DivergenceStandard(stage int) {
	nDims := e.Params.NDims
	dst := e.DivFSpts[stage]
	zeroRows(dst)
	for d := 0; d < nDims; d++ {
		contrib := applyOperator(e.Bundle.OppGradSpts[d], e.FSpts[d], e.Bundle.NSpts)
		for i := range dst {
			for k := range dst[i] {
				dst[i][k] += contrib[i][k]
			}
		}
	}
}

// DivergenceChainRule forms divF_spts[stage] by the non-conservative
// chain-rule form spec.md §4.1 calls for under mesh motion (Liang, Miyaji
// & Zhang, AIAA 2013-0998), grounded line-for-line on original_source's
// ele::transformGradF_spts: differentiate the untransformed physical flux
// (FPhysSpts, accumulated by accumulatePhysFlux) in reference space, then
// reassemble the divergence against the adjoint of the augmented
// space-time Jacobian. 2-D uses the closed-form reduction
// transformGradF_spts itself uses rather than building the full 3x3
// adjoint; 3-D goes through densemat.SpaceTime3D's 4x4 adjoint directly,
// matching the source's own dimension-dependent split.
func (e *Element) DivergenceChainRule(stage int) {
	if e.GridVelSpts == nil {
		e.DivergenceStandard(stage)
		return
	}
	nDims := e.Params.NDims
	dst := e.DivFSpts[stage]
	zeroRows(dst)

	// gradF[d1][d2] = d(FPhysSpts[d2])/d(xi_d1): the 1st index is the
	// reference derivative, the 2nd the physical flux direction, matching
	// ele.cpp's dF_spts(derivative, fluxDir) layout.
	gradF := make([][][][]float64, nDims)
	for d1 := 0; d1 < nDims; d1++ {
		gradF[d1] = make([][][]float64, nDims)
		for d2 := 0; d2 < nDims; d2++ {
			gradF[d1][d2] = applyOperator(e.Bundle.OppGradSpts[d1], e.FPhysSpts[d2], e.Bundle.NSpts)
		}
	}

	if nDims == 2 {
		for i := range dst {
			jac := e.JacSpts[i]
			gv := e.GridVelSpts[i]
			a := gv[1]*jac[0][1] - gv[0]*jac[1][1]
			b := gv[0]*jac[1][0] - gv[1]*jac[0][0]
			du0, du1 := e.DUSpts[0][i], e.DUSpts[1][i]
			for k := range dst[i] {
				d00 := gradF[0][0][i][k]*jac[1][1] - gradF[0][1][i][k]*jac[0][1] + du0[k]*a
				d11 := -gradF[1][0][i][k]*jac[1][0] + gradF[1][1][i][k]*jac[0][0] + du1[k]*b
				dst[i][k] = d00 + d11
			}
		}
		return
	}

	for i := range dst {
		jac := e.JacSpts[i]
		gv := e.GridVelSpts[i]
		s := densemat.SpaceTime3D(jac, [3]float64{gv[0], gv[1], gv[2]}).Adjoint()
		for k := range dst[i] {
			var sum float64
			for d1 := 0; d1 < 3; d1++ {
				for d2 := 0; d2 < 3; d2++ {
					sum += gradF[d2][d1][i][k] * s[d2][d1]
				}
			}
			for d := 0; d < 3; d++ {
				sum += e.DUSpts[d][i][k] * s[d][3]
			}
			dst[i][k] = sum
		}
	}
}

// ApplyFluxCorrection forms the flux-point jump dFn_fpts = Fn_fpts -
// disFn_fpts (Fn_fpts is set by the Face kernels before this runs) and
// adds opp_div_fpts_to_spts · dFn onto the already-formed divF_spts[stage],
// the FR correction step that couples the discontinuous element
// polynomial back to its neighbors' common flux.
func (e *Element) ApplyFluxCorrection(stage int) {
	for i := range e.DFnFpts {
		for k := range e.DFnFpts[i] {
			e.DFnFpts[i][k] = e.FnFpts[i][k] - e.DisFnFpts[i][k]
		}
	}
	contrib := applyOperator(e.Bundle.OppDivFptsToSpts, e.DFnFpts, e.Bundle.NSpts)
	dst := e.DivFSpts[stage]
	for i := range dst {
		for k := range dst[i] {
			dst[i][k] += contrib[i][k]
		}
	}
}

func copyRows(dst, src [][]float64) {
	for i := range dst {
		copy(dst[i], src[i])
	}
}

func zeroRows(rows [][]float64) {
	for _, r := range rows {
		for k := range r {
			r[k] = 0
		}
	}
}
