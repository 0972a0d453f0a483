package geometry

import (
	"math"

	"github.com/flurry-cfd/flurry/densemat"
	"github.com/flurry-cfd/flurry/utils"
)

// Sentinel is the reference-location value returned alongside ok=false,
// matching the source convention of a visibly-out-of-range {99,99,99}
// rather than a zero value that could be mistaken for a real solve.
var Sentinel = [3]float64{99, 99, 99}

const (
	newtonMaxIters    = 20
	nelderMeadMaxIter = 300
	bboxMargin        = 1e-9
)

// Transform evaluates the physical position and reference Jacobian of an
// element's geometric mapping x(r) = Σ N_i(r) x_i at reference point r, for
// either nDims=2 (quad/tri, embedded in the XY plane) or nDims=3 (hex).
func Transform(shape Shape, nodes []Point, r [3]float64, nDims int) (x Point, jac2 densemat.Mat2, jac3 densemat.Mat3) {
	n := shape.Eval(r)
	g := shape.Grad(r)
	for i, ni := range n {
		x.X += ni * nodes[i].X
		x.Y += ni * nodes[i].Y
		if nDims == 3 {
			x.Z += ni * nodes[i].Z
		}
	}
	if nDims == 3 {
		for i, gi := range g {
			jac3[0][0] += gi[0] * nodes[i].X
			jac3[0][1] += gi[1] * nodes[i].X
			jac3[0][2] += gi[2] * nodes[i].X
			jac3[1][0] += gi[0] * nodes[i].Y
			jac3[1][1] += gi[1] * nodes[i].Y
			jac3[1][2] += gi[2] * nodes[i].Y
			jac3[2][0] += gi[0] * nodes[i].Z
			jac3[2][1] += gi[1] * nodes[i].Z
			jac3[2][2] += gi[2] * nodes[i].Z
		}
		return
	}
	for i, gi := range g {
		jac2[0][0] += gi[0] * nodes[i].X
		jac2[0][1] += gi[1] * nodes[i].X
		jac2[1][0] += gi[0] * nodes[i].Y
		jac2[1][1] += gi[1] * nodes[i].Y
	}
	return
}

// RefLocNewton solves for the reference coordinate r whose physical image
// under shape/nodes is target, per spec.md §4.1: up to 20 Newton iterations
// with a bounding-box reject and tolerance 1e-12*h, clamping r into
// [-1,1], falling back to a bounded Nelder-Mead search (300 iterations,
// same bbox reject) when the Jacobian is too near-singular for Newton to
// proceed. Dispatches on the element's own dimension rather than always
// using quad shape functions -- fixing the bug flagged in DESIGN.md's
// Open Question log instead of reproducing it.
func RefLocNewton(shape Shape, nodes []Point, target Point) (r [3]float64, ok bool) {
	nDims := 2
	if shape.Type() == utils.Hex {
		nDims = 3
	}
	bb := NewBoundingBox(nodes)
	if !bb.Contains(target, bboxMargin) {
		return Sentinel, false
	}
	h := bb.SmallestExtent(nDims)
	tol := 1e-12 * h

	r = [3]float64{}
	for iter := 0; iter < newtonMaxIters; iter++ {
		x, j2, j3 := Transform(shape, nodes, r, nDims)
		res := Point{x.X - target.X, x.Y - target.Y, x.Z - target.Z}
		if res.Norm() < tol {
			clamp(&r)
			return r, true
		}
		if nDims == 3 {
			det := j3.Det()
			if math.Abs(det) < 1e-300 {
				break
			}
			adj := j3.Adjoint()
			inv := adj.MulVec([3]float64{res.X, res.Y, res.Z})
			for d := 0; d < 3; d++ {
				r[d] -= inv[d] / det
			}
		} else {
			det := j2.Det()
			if math.Abs(det) < 1e-300 {
				break
			}
			adj := j2.Adjoint()
			inv := adj.MulVec([2]float64{res.X, res.Y})
			r[0] -= inv[0] / det
			r[1] -= inv[1] / det
		}
		clamp(&r)
	}
	return nelderMead(shape, nodes, target, nDims, bb)
}

func clamp(r *[3]float64) {
	for d := 0; d < 3; d++ {
		if r[d] < -1 {
			r[d] = -1
		} else if r[d] > 1 {
			r[d] = 1
		}
	}
}

// nelderMead minimizes ‖x(r)-target‖² over r via a bounded downhill
// simplex search, the fallback for degenerate Jacobians that Newton
// cannot invert.
func nelderMead(shape Shape, nodes []Point, target Point, nDims int, bb BoundingBox) (r [3]float64, ok bool) {
	const (
		alpha = 1.0
		gamma = 2.0
		rho   = 0.5
		sigma = 0.5
	)
	objective := func(p [3]float64) float64 {
		x, _, _ := Transform(shape, nodes, p, nDims)
		dx, dy, dz := x.X-target.X, x.Y-target.Y, x.Z-target.Z
		return dx*dx + dy*dy + dz*dz
	}

	n := nDims
	simplex := make([][3]float64, n+1)
	fvals := make([]float64, n+1)
	simplex[0] = [3]float64{}
	for i := 1; i <= n; i++ {
		p := simplex[0]
		p[i-1] += 0.5
		simplex[i] = p
	}
	for i := range simplex {
		fvals[i] = objective(simplex[i])
	}

	h := bb.SmallestExtent(nDims)
	tol := 1e-12 * h

	for iter := 0; iter < nelderMeadMaxIter; iter++ {
		sortSimplex(simplex, fvals)
		if math.Sqrt(fvals[0]) < tol {
			break
		}
		centroid := [3]float64{}
		for i := 0; i < n; i++ {
			for d := 0; d < 3; d++ {
				centroid[d] += simplex[i][d]
			}
		}
		for d := 0; d < 3; d++ {
			centroid[d] /= float64(n)
		}

		worst := simplex[n]
		reflected := reflect(centroid, worst, alpha)
		fReflected := objective(reflected)

		switch {
		case fReflected < fvals[0]:
			expanded := reflect(centroid, worst, gamma)
			fExpanded := objective(expanded)
			if fExpanded < fReflected {
				simplex[n], fvals[n] = expanded, fExpanded
			} else {
				simplex[n], fvals[n] = reflected, fReflected
			}
		case fReflected < fvals[n-1]:
			simplex[n], fvals[n] = reflected, fReflected
		default:
			contracted := reflect(centroid, worst, -rho)
			fContracted := objective(contracted)
			if fContracted < fvals[n] {
				simplex[n], fvals[n] = contracted, fContracted
			} else {
				best := simplex[0]
				for i := 1; i <= n; i++ {
					for d := 0; d < 3; d++ {
						simplex[i][d] = best[d] + sigma*(simplex[i][d]-best[d])
					}
					fvals[i] = objective(simplex[i])
				}
			}
		}
	}
	sortSimplex(simplex, fvals)
	best := simplex[0]
	clamp(&best)
	x, _, _ := Transform(shape, nodes, best, nDims)
	if !bb.Contains(x, bboxMargin) || math.Sqrt(fvals[0]) >= 1e-12*bb.SmallestExtent(nDims)*1e3 {
		return Sentinel, false
	}
	return best, true
}

func reflect(centroid, worst [3]float64, factor float64) [3]float64 {
	var out [3]float64
	for d := 0; d < 3; d++ {
		out[d] = centroid[d] + factor*(centroid[d]-worst[d])
	}
	return out
}

func sortSimplex(simplex [][3]float64, fvals []float64) {
	for i := 1; i < len(fvals); i++ {
		for j := i; j > 0 && fvals[j-1] > fvals[j]; j-- {
			fvals[j-1], fvals[j] = fvals[j], fvals[j-1]
			simplex[j-1], simplex[j] = simplex[j], simplex[j-1]
		}
	}
}
