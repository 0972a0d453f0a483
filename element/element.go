package element

import (
	"fmt"

	"github.com/flurry-cfd/flurry/densemat"
	"github.com/flurry-cfd/flurry/geometry"
	"github.com/flurry-cfd/flurry/operators"
	"github.com/flurry-cfd/flurry/utils"
)

// nRKStages is the number of divergence-history slots carried for RK44;
// spec.md §9 fixes the RK stage slots as a non-iterator fixed-size vector.
const nRKStages = 4

// Element holds one cell's FR state: the polynomial representation of the
// conserved variables at solution, flux, and plot points, the geometric
// transform at every point, and the per-element kernels that advance one
// RK stage. Field layout follows spec.md §3's Element entity table.
type Element struct {
	Type   utils.ElementType
	Order  int
	Bundle *operators.Bundle
	Params *Params

	Nodes   []geometry.Point
	NodesRK []geometry.Point // non-nil only for moving-mesh elements
	shape   geometry.Shape

	USpts [][]float64 // nSpts x nFields
	UFpts [][]float64 // nFpts x nFields
	UMpts [][]float64 // nMpts x nFields
	U0    [][]float64 // nSpts x nFields, beginning-of-step snapshot

	FSpts     [][][]float64 // [nDims][nSpts][nFields] transformed reference flux
	FPhysSpts [][][]float64 // [nDims][nSpts][nFields] untransformed physical flux; moving-mesh elements only, consumed by DivergenceChainRule

	DisFnFpts [][]float64 // nFpts x nFields, discontinuous normal flux
	FnFpts    [][]float64 // nFpts x nFields, common normal flux
	DFnFpts   [][]float64 // nFpts x nFields, jump Fn - disFn

	DUSpts [][][]float64 // [nDims][nSpts][nFields]
	DUFpts [][][]float64 // [nDims][nFpts][nFields]

	UCFpts [][]float64 // nFpts x nFields, LDG interface-common state scattered by Faces, viscous only

	DivFSpts [nRKStages][][]float64 // each [nSpts][nFields]

	JacSpts, JGinvSpts []densemat.Mat3 // always stored 3x3; unused rows/cols are identity for nDims=2
	DetJacSpts         []float64
	JacFpts, JGinvFpts []densemat.Mat3
	DetJacFpts         []float64

	TNormFpts [][]float64 // nFpts x nDims, reference outward normal
	NormFpts  [][]float64 // nFpts x nDims, physical normal scaled by area element
	DAFpts    []float64   // nFpts

	XSpts []geometry.Point // physical location of each solution point, overset donor search
	XFpts []geometry.Point // physical location of each flux point
	XMpts []geometry.Point // physical location of each plot point

	GridVelNodes []geometry.Point // nil when static
	GridVelSpts  [][]float64      // nSpts x nDims
	GridVelFpts  [][]float64      // nFpts x nDims
	GridVelMpts  [][]float64      // nMpts x nDims, restart/plot output only

	ShockSensor float64
	EntropySpts []float64
	EntropyFpts []float64
	EntropyMpts []float64 // restart/plot output only

	DtLocal float64

	SqueezeCount int // silent-error counter, spec.md §7
}

// New allocates an Element's arrays for the given geometric node set. It
// does not yet compute the transform; call SetupAllGeometry for that.
func New(etype utils.ElementType, order int, bundle *operators.Bundle, params *Params, nodes []geometry.Point) (*Element, error) {
	shape, err := geometry.ShapeFor(etype)
	if err != nil {
		return nil, err
	}
	if len(nodes) != shape.NumNodes() {
		return nil, fmt.Errorf("element: %s expects %d geometric nodes, got %d", etype, shape.NumNodes(), len(nodes))
	}

	nf := params.NFields()
	e := &Element{
		Type: etype, Order: order, Bundle: bundle, Params: params,
		Nodes: nodes, shape: shape,
	}

	e.USpts = allocRows(bundle.NSpts, nf)
	e.UFpts = allocRows(bundle.NFpts, nf)
	e.UMpts = allocRows(bundle.NMpts, nf)
	e.U0 = allocRows(bundle.NSpts, nf)

	e.FSpts = make([][][]float64, params.NDims)
	for d := range e.FSpts {
		e.FSpts[d] = allocRows(bundle.NSpts, nf)
	}

	e.DisFnFpts = allocRows(bundle.NFpts, nf)
	e.FnFpts = allocRows(bundle.NFpts, nf)
	e.DFnFpts = allocRows(bundle.NFpts, nf)

	if params.Viscous || params.Motion != MotionStatic {
		e.DUSpts = make([][][]float64, params.NDims)
		e.DUFpts = make([][][]float64, params.NDims)
		for d := 0; d < params.NDims; d++ {
			e.DUSpts[d] = allocRows(bundle.NSpts, nf)
			e.DUFpts[d] = allocRows(bundle.NFpts, nf)
		}
	}
	if params.Viscous {
		e.UCFpts = allocRows(bundle.NFpts, nf)
	}

	if params.Motion != MotionStatic {
		e.NodesRK = make([]geometry.Point, len(nodes))
		copy(e.NodesRK, nodes)
		e.GridVelNodes = make([]geometry.Point, len(nodes))
		e.GridVelSpts = allocRows(bundle.NSpts, params.NDims)
		e.GridVelFpts = allocRows(bundle.NFpts, params.NDims)

		e.FPhysSpts = make([][][]float64, params.NDims)
		for d := range e.FPhysSpts {
			e.FPhysSpts[d] = allocRows(bundle.NSpts, nf)
		}
	}

	for s := 0; s < nRKStages; s++ {
		e.DivFSpts[s] = allocRows(bundle.NSpts, nf)
	}

	e.JacSpts = make([]densemat.Mat3, bundle.NSpts)
	e.JGinvSpts = make([]densemat.Mat3, bundle.NSpts)
	e.DetJacSpts = make([]float64, bundle.NSpts)
	e.JacFpts = make([]densemat.Mat3, bundle.NFpts)
	e.JGinvFpts = make([]densemat.Mat3, bundle.NFpts)
	e.DetJacFpts = make([]float64, bundle.NFpts)

	e.TNormFpts = make([][]float64, bundle.NFpts)
	e.NormFpts = make([][]float64, bundle.NFpts)
	e.DAFpts = make([]float64, bundle.NFpts)
	e.XSpts = make([]geometry.Point, bundle.NSpts)
	e.XFpts = make([]geometry.Point, bundle.NFpts)
	e.XMpts = make([]geometry.Point, bundle.NMpts)
	for i, n := range bundle.FptNormals {
		e.TNormFpts[i] = n[:params.NDims]
		e.NormFpts[i] = make([]float64, params.NDims)
	}

	e.EntropySpts = make([]float64, bundle.NSpts)
	e.EntropyFpts = make([]float64, bundle.NFpts)
	e.EntropyMpts = make([]float64, bundle.NMpts)

	return e, nil
}

func allocRows(n, nf int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, nf)
	}
	return out
}

// ActiveNodes returns NodesRK when the mesh is moving, else the static Nodes.
func (e *Element) ActiveNodes() []geometry.Point {
	if e.NodesRK != nil {
		return e.NodesRK
	}
	return e.Nodes
}

// RefLoc runs the reference-location Newton/Nelder-Mead search for a
// physical query point against this element's current geometry.
func (e *Element) RefLoc(x geometry.Point) (r [3]float64, ok bool) {
	return geometry.RefLocNewton(e.shape, e.ActiveNodes(), x)
}
