// Package operators implements the two-level (element-type, polynomial
// order) cache of dense tensor-product operators spec.md §4.4 describes:
// solution/flux/plot-point extrapolation, reference-space gradient, the FR
// divergence correction, and the gradient-jump correction. Every operator
// is a plain utils.Matrix so the element package can apply it with a BLAS
// gemm, mirroring gocfd's DG2D.DFR2D setup-then-freeze pattern.
package operators

import (
	"fmt"
	"sort"

	"github.com/flurry-cfd/flurry/basis"
	"github.com/flurry-cfd/flurry/utils"
)

// Normal is a constant reference-space outward normal at a flux point.
type Normal [3]float64

// Bundle holds every operator built for one (element type, order) pair.
type Bundle struct {
	Order  int
	NDims  int
	NSpts  int
	NFpts  int
	NMpts  int
	Spts1D []float64

	OppSptsToFpts    utils.Matrix // nFpts x nSpts
	OppSptsToMpts    utils.Matrix // nMpts x nSpts
	OppGradSpts      []utils.Matrix
	OppDivFptsToSpts utils.Matrix // nSpts x nFpts
	OppGradCorr      utils.Matrix // nSpts x nFpts, same structure, applied per-dimension by the caller
	FptNormals       []Normal
	FptFaceID        []int // which of the 2*nDims faces each flux point belongs to

	// SptWeights is the tensor-product quadrature weight at each solution
	// point, used by squeezing's element-mean computation (spec.md §4.1).
	SptWeights []float64

	// SptR and FptR are the reference-space coordinates of every
	// solution/flux point, in the same order as every other per-point
	// array in this bundle; Element.SetupAllGeometry evaluates the
	// geometric transform at exactly these points.
	SptR []([3]float64)
	FptR []([3]float64)

	// MptR is the reference-space coordinate of every plot point (the
	// tensor-product grid with two extra endpoints per direction spec.md
	// §4.1 names, so mesh corners interpolate exactly). Element's plot
	// outputs (restart files, live monitor) transform these to physical
	// space the same way SptR/FptR are.
	MptR []([3]float64)

	lag *basis.Lagrange1D // retained for InterpWeightsAt, built once in NewBundle
}

// InterpWeightsAt returns the nSpts interpolation weights for evaluating a
// solution-point field at an arbitrary reference location r, the same
// tensor-product Lagrange evaluation OppSptsToMpts is built from but at a
// caller-supplied point rather than a fixed plot-point grid. Used by the
// overset package's field-interpolation donor sampling.
func (b *Bundle) InterpWeightsAt(r [3]float64) []float64 {
	return evalTensorLagrangeAt(b.lag, r[:b.NDims], b.NDims)
}

// NewBundle constructs the full operator set for a quad (nDims=2) or hex
// (nDims=3) element of the given order and solution-point kind.
func NewBundle(nDims, order int, kind basis.PointSet) (*Bundle, error) {
	if nDims != 2 && nDims != 3 {
		return nil, fmt.Errorf("operators: unsupported dimension %d", nDims)
	}
	n := order + 1
	spts1D := basis.Points(n, kind)
	lag := basis.NewLagrange1D(spts1D)

	b := &Bundle{Order: order, NDims: nDims, Spts1D: spts1D, lag: lag}

	sptIdx := tensorIndices(nDims, n)
	b.NSpts = len(sptIdx)
	w1D := basis.Weights(n, kind)
	b.SptWeights = make([]float64, b.NSpts)
	for i, idx := range sptIdx {
		w := 1.0
		for d := 0; d < nDims; d++ {
			w *= w1D[idx[d]]
		}
		b.SptWeights[i] = w
	}

	fptIdx, fptDim, fptSide, fptNormal := buildFluxPoints(nDims, n)
	b.NFpts = len(fptIdx)
	b.FptNormals = fptNormal
	b.FptFaceID = make([]int, b.NFpts)
	for i := range fptDim {
		b.FptFaceID[i] = 2*fptDim[i] + sideIndex(fptSide[i])
	}

	b.SptR = make([]([3]float64), b.NSpts)
	for i, idx := range sptIdx {
		var r [3]float64
		for d := 0; d < nDims; d++ {
			r[d] = spts1D[idx[d]]
		}
		b.SptR[i] = r
	}
	b.FptR = make([]([3]float64), b.NFpts)
	for i := range fptIdx {
		var r [3]float64
		for d := 0; d < nDims; d++ {
			if d == fptDim[i] {
				r[d] = float64(fptSide[i])
			} else {
				r[d] = spts1D[fptIdx[i][d]]
			}
		}
		b.FptR[i] = r
	}

	mpts1D := plotPoints1D(spts1D)
	mptIdx := tensorIndices(nDims, len(mpts1D))
	b.NMpts = len(mptIdx)
	b.MptR = make([]([3]float64), b.NMpts)
	for i, idx := range mptIdx {
		var r [3]float64
		for d := 0; d < nDims; d++ {
			r[d] = mpts1D[idx[d]]
		}
		b.MptR[i] = r
	}

	b.OppSptsToFpts = utils.NewMatrix(b.NFpts, b.NSpts)
	for fi := range fptIdx {
		row := tensorLagrangeRow(lag, spts1D, fptIdx[fi], fptDim[fi], fptSide[fi], nDims)
		for si, v := range row {
			b.OppSptsToFpts.Set(fi, si, v)
		}
	}

	b.OppSptsToMpts = utils.NewMatrix(b.NMpts, b.NSpts)
	for mi, midx := range mptIdx {
		r := make([]float64, nDims)
		for d := 0; d < nDims; d++ {
			r[d] = mpts1D[midx[d]]
		}
		row := evalTensorLagrangeAt(lag, r, nDims)
		for si, v := range row {
			b.OppSptsToMpts.Set(mi, si, v)
		}
	}

	dmat := lag.DerivativeMatrix()
	b.OppGradSpts = make([]utils.Matrix, nDims)
	for d := 0; d < nDims; d++ {
		b.OppGradSpts[d] = tensorGradMatrix(dmat, sptIdx, d, nDims, n)
	}

	b.OppDivFptsToSpts = buildDivCorrection(order, spts1D, sptIdx, fptIdx, fptDim, fptSide, nDims)
	// The gradient-jump correction operator shares exactly the same
	// structure as the divergence correction (spec.md §4.4): both apply
	// the FR correction function's derivative against the flux-point
	// jump; the element package scales OppGradCorr's contribution by
	// JGinv/detJ per component, whereas OppDivFptsToSpts is used directly.
	b.OppGradCorr = b.OppDivFptsToSpts.Copy()

	b.OppSptsToFpts.SetReadOnly("OppSptsToFpts")
	b.OppSptsToMpts.SetReadOnly("OppSptsToMpts")
	for d := range b.OppGradSpts {
		b.OppGradSpts[d].SetReadOnly(fmt.Sprintf("OppGradSpts[%d]", d))
	}
	b.OppDivFptsToSpts.SetReadOnly("OppDivFptsToSpts")
	b.OppGradCorr.SetReadOnly("OppGradCorr")

	return b, nil
}

func sideIndex(side int) int {
	if side < 0 {
		return 0
	}
	return 1
}

// tensorIndices enumerates every multi-index in {0..n-1}^nDims, last
// dimension varying fastest.
func tensorIndices(nDims, n int) [][]int {
	total := 1
	for d := 0; d < nDims; d++ {
		total *= n
	}
	out := make([][]int, total)
	idx := make([]int, nDims)
	for i := 0; i < total; i++ {
		cp := make([]int, nDims)
		copy(cp, idx)
		out[i] = cp
		for d := nDims - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < n {
				break
			}
			idx[d] = 0
		}
	}
	return out
}

// buildFluxPoints enumerates flux points on all 2*nDims faces, each face
// carrying the tensor product of the 1-D node set over the nDims-1
// in-plane directions.
func buildFluxPoints(nDims, n int) (idx [][]int, dim, side []int, normal []Normal) {
	inPlane := tensorIndices(nDims-1, n)
	for d := 0; d < nDims; d++ {
		for _, s := range []int{-1, 1} {
			for _, ip := range inPlane {
				full := make([]int, nDims)
				k := 0
				for dd := 0; dd < nDims; dd++ {
					if dd == d {
						continue
					}
					full[dd] = ip[k]
					k++
				}
				idx = append(idx, full)
				dim = append(dim, d)
				side = append(side, s)
				var nrm Normal
				nrm[d] = float64(s)
				normal = append(normal, nrm)
			}
		}
	}
	return
}

// plotPoints1D returns the solution 1-D nodes with the two reference
// endpoints inserted (deduplicated for Lobatto point sets that already
// carry them), sorted ascending.
func plotPoints1D(spts1D []float64) []float64 {
	const eps = 1e-12
	pts := append([]float64{}, spts1D...)
	hasNeg, hasPos := false, false
	for _, x := range pts {
		if x < -1+eps {
			hasNeg = true
		}
		if x > 1-eps {
			hasPos = true
		}
	}
	if !hasNeg {
		pts = append(pts, -1)
	}
	if !hasPos {
		pts = append(pts, 1)
	}
	sort.Float64s(pts)
	return pts
}

// tensorLagrangeRow evaluates the full tensor-product basis at a flux
// point whose reference coordinate is -1/+1 in dimension `fixedDim` (side)
// and follows spts1D[idx[d]] in every other dimension.
func tensorLagrangeRow(lag *basis.Lagrange1D, spts1D []float64, idx []int, fixedDim, side, nDims int) []float64 {
	r := make([]float64, nDims)
	for d := 0; d < nDims; d++ {
		if d == fixedDim {
			r[d] = float64(side)
		} else {
			r[d] = spts1D[idx[d]]
		}
	}
	return evalTensorLagrangeAt(lag, r, nDims)
}

// evalTensorLagrangeAt evaluates every tensor-product basis function
// (indexed the same way as tensorIndices) at physical reference point r.
func evalTensorLagrangeAt(lag *basis.Lagrange1D, r []float64, nDims int) []float64 {
	n := len(lag.Nodes)
	perDim := make([][]float64, nDims)
	for d := 0; d < nDims; d++ {
		perDim[d] = lag.EvalAt(r[d])
	}
	sptIdx := tensorIndices(nDims, n)
	out := make([]float64, len(sptIdx))
	for i, midx := range sptIdx {
		v := 1.0
		for d := 0; d < nDims; d++ {
			v *= perDim[d][midx[d]]
		}
		out[i] = v
	}
	return out
}

// tensorGradMatrix builds the (nSpts x nSpts) matrix of ∂L_j/∂ξ_d at spt
// i, by applying the 1-D derivative matrix along dimension d and the
// identity along every other dimension.
func tensorGradMatrix(dmat utils.Matrix, sptIdx [][]int, dim, nDims, n int) utils.Matrix {
	ns := len(sptIdx)
	out := utils.NewMatrix(ns, ns)
	for i, ii := range sptIdx {
		for j, jj := range sptIdx {
			same := true
			for d := 0; d < nDims; d++ {
				if d == dim {
					continue
				}
				if ii[d] != jj[d] {
					same = false
					break
				}
			}
			if !same {
				continue
			}
			out.Set(i, j, dmat.At(ii[dim], jj[dim]))
		}
	}
	return out
}

// buildDivCorrection assembles opp_div_fpts_to_spts: nonzero only where a
// flux point's in-plane multi-index matches a solution point's in-plane
// multi-index in every dimension but the face-normal one (spec.md §4.4),
// scaled by the DG correction function's derivative in that dimension.
func buildDivCorrection(order int, spts1D []float64, sptIdx, fptIdx [][]int, fptDim, fptSide []int, nDims int) utils.Matrix {
	ns, nf := len(sptIdx), len(fptIdx)
	out := utils.NewMatrix(ns, nf)
	for si, sidx := range sptIdx {
		for fi := range fptIdx {
			d := fptDim[fi]
			same := true
			for dd := 0; dd < nDims; dd++ {
				if dd == d {
					continue
				}
				if sidx[dd] != fptIdx[fi][dd] {
					same = false
					break
				}
			}
			if !same {
				continue
			}
			x := spts1D[sidx[d]]
			gL, gR := dgCorrectionDeriv(order, x)
			if fptSide[fi] < 0 {
				out.Set(si, fi, gL)
			} else {
				out.Set(si, fi, gR)
			}
		}
	}
	return out
}
