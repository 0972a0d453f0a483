// Package element implements the per-cell FR state and kernels spec.md
// §4.1 describes: the solution/flux-point polynomial representation, the
// reference-to-physical transform, physical flux assembly, the RK update,
// and positivity squeezing. Grounded on gocfd's Euler2D.Euler struct
// (per-partition element state, RK stage methods, PrintUpdate-style
// diagnostics) generalized from a triangle-only 2-D solver to tagged
// quad/hex elements in 2 or 3 dimensions.
package element

import "github.com/flurry-cfd/flurry/flux"

// Motion selects how mesh movement enters the geometric transform and
// divergence form, matching the `motion` configuration key.
type Motion int

const (
	MotionStatic Motion = iota
	MotionKuiPerturbation
	MotionLiangDeform
	MotionRigidRotation
	MotionRigidTranslation
)

// String names a Motion value the way config.RunDeck.Print's diagnostic
// output and UpdateMotion's errors refer to it.
func (m Motion) String() string {
	switch m {
	case MotionStatic:
		return "static"
	case MotionKuiPerturbation:
		return "kuiPerturbation"
	case MotionLiangDeform:
		return "liangDeform"
	case MotionRigidRotation:
		return "rigidRotation"
	case MotionRigidTranslation:
		return "rigidTranslation"
	default:
		return "unknown"
	}
}

// Params bundles the subset of the run configuration every Element
// kernel needs, kept independent of the `config` package so `element`
// has no import-cycle risk on the outer plumbing layers.
type Params struct {
	Equation    flux.Equation
	NDims       int
	Gamma       float64
	Viscous     bool
	Mu          float64
	Prandtl     float64
	Motion      Motion
	RiemannType flux.RiemannType
	AdvectV     []float64
	DiffD       float64
	Lambda      float64
	LDGPenFact  float64
	LDGTau      float64
	Squeeze     bool
	CFL         float64

	// MotionRateHz/MotionCenter drive MotionRigidRotation: a constant
	// angular rate (Hz, i.e. revolutions/second) about MotionCenter in
	// the x-y plane.
	MotionRateHz float64
	MotionCenter [3]float64

	// MotionVelocity drives MotionRigidTranslation: a constant node
	// velocity added to every reference node's initial position.
	MotionVelocity [3]float64

	// Squeeze positivity-enforcement constants (spec.md §4.1 step 3, NS only).
	Exps0 float64
}

func (p *Params) NFields() int {
	return flux.NumFields(p.Equation, p.NDims)
}

// CFLLimit returns the standard FR stability bound's per-order factor,
// 1/(2p+1), matching the classical collocation-point CFL scaling; the
// element's dt formula (spec.md §4.1) applies the extra factor of 2 itself.
func CFLLimit(order int) float64 {
	return 1.0 / float64(2*order+1)
}
