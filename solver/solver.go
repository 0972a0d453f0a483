// Package solver orchestrates the residual pipeline across every element
// and face for one RK stage, owns the operator cache, applies the RK
// time-step update, and computes the monitored diagnostics/norms.
// Grounded on gocfd's Euler2D.Solve driver loop (partition-owned element
// slice, PrintUpdate-style residual reporting, a fixed RK-coefficient
// table) generalized from the single-order triangle solver to the
// operator-cache-backed, multi-face-kind pipeline spec.md §4.3 describes.
package solver

import (
	"fmt"
	"math"

	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/face"
	"github.com/flurry-cfd/flurry/operators"
	"github.com/flurry-cfd/flurry/utils"
)

// DtType selects how the per-stage time step is derived, matching the
// `dtType` configuration key.
type DtType int

const (
	DtFixed DtType = iota
	DtGlobalCFL
	DtLocalCFL
)

// rkA/rkB are the classical RK44 coefficients spec.md §8 invariant 7
// names: a={0,1/2,1/2,1}, b={1/6,1/3,1/3,1/6}. rkA holds a_1..a_3, the
// coefficients timeStepA uses for stages 0..S-2.
var (
	rkA = []float64{0.5, 0.5, 1.0}
	rkB = []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6}
	// rkC holds the classical RK44 stage fractions {0,1/2,1/2,1} CalcResidual
	// uses to place a moving mesh's geometry at the correct sub-step time.
	rkC = []float64{0, 0.5, 0.5, 1.0}
)

const nRKStages = 4

// Solver owns every Element and Face in one partition and drives them
// through calcResidual/update, per spec.md §3's ownership note: the
// operator cache and configuration are read-only during a stage, the
// element container is mutated only by its own kernels.
type Solver struct {
	Elements []*element.Element
	Faces    []*face.Face
	Cache    *operators.Cache
	Params   *element.Params

	DtType   DtType
	FixedDt  float64
	Time     float64
	IterMax  int
	iterDone int

	ShockCapture bool
	Threshold    float64

	Perf      *PerfCounters // nil disables hardware-counter sampling
	ReportMem bool          // append utils.GetMemUsage() to each Monitor line
}

// New builds a Solver over an already-assembled element/face set (mesh
// assembly, MPI partitioning, and overset connectivity are plumbing layers
// upstream of this package).
func New(elements []*element.Element, faces []*face.Face, cache *operators.Cache, params *element.Params, dtType DtType, fixedDt float64) *Solver {
	return &Solver{Elements: elements, Faces: faces, Cache: cache, Params: params, DtType: dtType, FixedDt: fixedDt}
}

// CalcResidual runs the twelve-step residual pipeline of spec.md §4.3 for
// one RK stage, leaving DivFSpts[stage] populated on every element.
func (s *Solver) CalcResidual(stage int) error {
	// Steps 1/6: overset field-interpolation exchange and MPI/overset trace
	// exchange are collective operations owned by the transport/overset
	// packages upstream of Solver; a single-partition run has no peers to
	// exchange with, so both steps are no-ops here.

	if s.Params.Motion != element.MotionStatic {
		dt := s.FixedDt
		if len(s.Elements) > 0 {
			dt = s.Elements[0].DtLocal
		}
		t := s.Time + rkC[stage]*dt
		for _, el := range s.Elements {
			if err := el.UpdateMotion(t); err != nil {
				return fmt.Errorf("solver: updating mesh motion at stage %d: %w", stage, err)
			}
		}
	}

	if s.ShockCapture {
		for _, el := range s.Elements {
			computeShockSensor(el, s.Threshold)
		}
	}

	for _, el := range s.Elements {
		el.ExtrapolateToFpts()
	}

	if s.Params.Squeeze {
		for _, el := range s.Elements {
			el.ExtrapolateToMpts()
			el.Squeeze()
		}
	}

	if s.Params.Viscous || s.Params.Motion != element.MotionStatic {
		for _, el := range s.Elements {
			el.ComputeGradients()
		}
	}

	// Step 7: inviscid F_spts only. The viscous contribution (step 9) needs
	// the gradient jump correction below to have already run, so it is
	// deferred to a second pass over the elements.
	for _, el := range s.Elements {
		el.ComputeInviscidFlux()
	}

	interior, boundary, mpi, overset := s.facesByKind()
	for _, group := range [][]*face.Face{boundary, interior, mpi, overset} {
		for _, f := range group {
			f.GetLeftState()
			if err := f.GetRightState(); err != nil {
				return err
			}
			f.CalcInviscidFlux()
		}
	}

	if s.Params.Viscous {
		for _, group := range [][]*face.Face{boundary, interior, mpi, overset} {
			for _, f := range group {
				f.ComputeCommonState()
				f.ScatterCommonState()
			}
		}
		for _, el := range s.Elements {
			el.ApplyGradientCorrection()
			el.ExtrapolateGradientsToFpts()
			el.ComputeViscousFlux()
		}
		for _, group := range [][]*face.Face{boundary, interior, mpi, overset} {
			for _, f := range group {
				// Re-gather DUL/DUR: ApplyGradientCorrection plus the
				// re-extrapolation above changed DUFpts since the first
				// GetLeftState/GetRightState pass.
				f.GetLeftState()
				if err := f.GetRightState(); err != nil {
					return err
				}
				f.CalcViscousFlux()
			}
		}
	}
	for _, group := range [][]*face.Face{boundary, interior, mpi, overset} {
		for _, f := range group {
			f.SetRightState()
		}
	}

	for _, el := range s.Elements {
		el.ExtrapolateNormalFlux()
		if s.Params.Motion == element.MotionStatic {
			el.DivergenceStandard(stage)
		} else {
			el.DivergenceChainRule(stage)
		}
		el.ApplyFluxCorrection(stage)
	}
	return nil
}

// facesByKind partitions Faces by Kind once per residual stage so the
// interior/boundary-then-MPI-then-overset ordering step 8 requires is a
// plain slice loop rather than a per-call filter scan.
func (s *Solver) facesByKind() (interior, boundary, mpi, overset []*face.Face) {
	for _, f := range s.Faces {
		switch f.Kind {
		case face.Interior:
			interior = append(interior, f)
		case face.Boundary:
			boundary = append(boundary, f)
		case face.MPIFace:
			mpi = append(mpi, f)
		case face.Overset:
			overset = append(overset, f)
		}
	}
	return
}

// computeDt sets every element's DtLocal and, for global dtType modes,
// reduces to a single shared step, matching spec.md §5's global-minimum
// reduction for CFL-based dtType.
func (s *Solver) computeDt() {
	switch s.DtType {
	case DtFixed:
		for _, el := range s.Elements {
			el.DtLocal = s.FixedDt
		}
	case DtLocalCFL:
		for _, el := range s.Elements {
			el.ExtrapolateToFpts()
			el.ComputeLocalDt()
		}
	case DtGlobalCFL:
		minDt := math.Inf(1)
		for _, el := range s.Elements {
			el.ExtrapolateToFpts()
			el.ComputeLocalDt()
			if el.DtLocal < minDt {
				minDt = el.DtLocal
			}
		}
		for _, el := range s.Elements {
			el.DtLocal = minDt
		}
	}
}

// Update performs one full RK44 step: S residual/timeStepA stages, a
// restore to U0, then S timeStepB accumulations, finally advancing the
// simulation time by dt -- spec.md §4.1/§4.3's `update()` contract.
func (s *Solver) Update() error {
	s.computeDt()
	for _, el := range s.Elements {
		el.SnapshotU0()
	}

	for stage := 0; stage < nRKStages; stage++ {
		if err := s.CalcResidual(stage); err != nil {
			return err
		}
		if stage < nRKStages-1 {
			for _, el := range s.Elements {
				el.TimeStepA(stage, rkA[stage])
			}
		}
	}

	for _, el := range s.Elements {
		el.RestoreU0()
	}
	for stage := 0; stage < nRKStages; stage++ {
		for _, el := range s.Elements {
			el.TimeStepB(stage, rkB[stage])
		}
	}

	dt := s.FixedDt
	if len(s.Elements) > 0 {
		dt = s.Elements[0].DtLocal
	}
	s.Time += dt
	s.iterDone++
	return nil
}

// ResidualNorm reduces divF_spts[stage] across every element into one
// value per field, using the L1/L2/L∞ family the `resType` configuration
// key selects (1, 2, 3 respectively).
func (s *Solver) ResidualNorm(stage, resType int) []float64 {
	nf := s.Params.NFields()
	out := make([]float64, nf)
	var count float64
	for _, el := range s.Elements {
		for _, row := range el.DivFSpts[stage] {
			count++
			for k, v := range row {
				switch resType {
				case 1:
					out[k] += math.Abs(v)
				case 3:
					if math.Abs(v) > out[k] {
						out[k] = math.Abs(v)
					}
				default:
					out[k] += v * v
				}
			}
		}
	}
	if resType == 2 {
		for k := range out {
			out[k] = math.Sqrt(out[k])
		}
	} else if resType == 1 && count > 0 {
		for k := range out {
			out[k] /= count
		}
	}
	return out
}

// Monitor formats one residual-report line, the PrintUpdate-style
// diagnostic gocfd emits at `monitorResFreq` intervals. When Perf is
// non-nil, the hardware-counter sample is appended to the same line.
func (s *Solver) Monitor(resType int) string {
	norm := s.ResidualNorm(nRKStages-1, resType)
	line := fmt.Sprintf("iter=%d t=%.6g dt=%.3e residual=%v", s.iterDone, s.Time, s.Elements[0].DtLocal, norm)
	if s.Perf != nil {
		if sample := s.Perf.Sample(); sample != "" {
			line += " " + sample
		}
	}
	if s.ReportMem {
		line += " " + utils.GetMemUsage()
	}
	return line
}
