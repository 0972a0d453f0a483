package basis

import "github.com/flurry-cfd/flurry/utils"

// Lagrange1D is a nodal Lagrange basis on a fixed, ordered set of 1-D nodes,
// the building block every tensor-product quad/hex basis in `operators` is
// assembled from. Weights are precomputed once per node set, matching the
// barycentric construction gocfd's DG1D package builds via Vandermonde
// inversion, but without paying for a full matrix solve.
type Lagrange1D struct {
	Nodes   []float64
	weights []float64
}

// NewLagrange1D precomputes the barycentric weights for the given node set.
func NewLagrange1D(nodes []float64) *Lagrange1D {
	n := len(nodes)
	w := make([]float64, n)
	for j := 0; j < n; j++ {
		wj := 1.0
		for k := 0; k < n; k++ {
			if k == j {
				continue
			}
			wj *= nodes[j] - nodes[k]
		}
		w[j] = 1.0 / wj
	}
	return &Lagrange1D{Nodes: nodes, weights: w}
}

// EvalAt returns the value of every basis function at x, using the
// second-form barycentric interpolation formula. Falls back to the
// exact Kronecker-delta value when x coincides with a node, avoiding a
// division by zero.
func (l *Lagrange1D) EvalAt(x float64) []float64 {
	n := len(l.Nodes)
	out := make([]float64, n)
	for j, xj := range l.Nodes {
		if x == xj {
			out[j] = 1
			return out
		}
	}
	var sum float64
	tmp := make([]float64, n)
	for j, xj := range l.Nodes {
		t := l.weights[j] / (x - xj)
		tmp[j] = t
		sum += t
	}
	for j := range tmp {
		out[j] = tmp[j] / sum
	}
	return out
}

// InterpMatrix builds the rectangular interpolation operator taking nodal
// values on l.Nodes to values at the given target points, i.e. the
// spts-to-fpts / spts-to-mpts family of operators in SPEC_FULL.md §4.
func (l *Lagrange1D) InterpMatrix(targets []float64) utils.Matrix {
	nr, nc := len(targets), len(l.Nodes)
	data := make([]float64, nr*nc)
	for i, x := range targets {
		row := l.EvalAt(x)
		copy(data[i*nc:(i+1)*nc], row)
	}
	m := utils.NewMatrix(nr, nc, data)
	// A NaN here means two node sets share a coincident point without being
	// equal (barycentric weights divide by zero); that is a malformed basis,
	// fatal at operator-build time rather than a numerical warning later.
	utils.IsNanPanic(m)
	return m
}

// DerivativeMatrix builds the nodal differentiation matrix D such that, for
// nodal values f at l.Nodes, D*f approximates df/dx at those same nodes.
// Off-diagonal entries follow the standard barycentric formula; diagonal
// entries are fixed by the negative row-sum rule so D*1 == 0 exactly.
func (l *Lagrange1D) DerivativeMatrix() utils.Matrix {
	n := len(l.Nodes)
	d := utils.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := (l.weights[j] / l.weights[i]) / (l.Nodes[i] - l.Nodes[j])
			d.Set(i, j, v)
			rowSum += v
		}
		d.Set(i, i, -rowSum)
	}
	utils.IsNanPanic(d)
	return d
}

// DerivativeMatrixAt builds the differentiation operator evaluated at an
// arbitrary set of target points rather than at the basis's own nodes --
// used to build opp_grad_fpts-style operators that differentiate a nodal
// expansion and sample the derivative at flux or plot points.
func (l *Lagrange1D) DerivativeMatrixAt(targets []float64) utils.Matrix {
	n := len(l.Nodes)
	nr := len(targets)
	d := utils.NewMatrix(nr, n)
	for i, x := range targets {
		onNode := -1
		for j, xj := range l.Nodes {
			if x == xj {
				onNode = j
				break
			}
		}
		if onNode >= 0 {
			row := l.derivativeRowAtNode(onNode)
			for j, v := range row {
				d.Set(i, j, v)
			}
			continue
		}
		for j := 0; j < n; j++ {
			d.Set(i, j, l.basisDerivativeGeneral(j, x))
		}
	}
	utils.IsNanPanic(d)
	return d
}

// derivativeRowAtNode returns dL_k/dx at x = Nodes[i] for all k, the
// classical closed-form nodal derivative used by DerivativeMatrix.
func (l *Lagrange1D) derivativeRowAtNode(i int) []float64 {
	n := len(l.Nodes)
	row := make([]float64, n)
	var rowSum float64
	for j := 0; j < n; j++ {
		if i == j {
			continue
		}
		v := (l.weights[j] / l.weights[i]) / (l.Nodes[i] - l.Nodes[j])
		row[j] = v
		rowSum += v
	}
	row[i] = -rowSum
	return row
}

// basisDerivativeGeneral evaluates dL_j/dx at an arbitrary x not
// coincident with any node, via direct differentiation of the
// barycentric second form.
func (l *Lagrange1D) basisDerivativeGeneral(j int, x float64) float64 {
	n := len(l.Nodes)
	// L_j(x) = (w_j/(x-x_j)) / sum_k(w_k/(x-x_k)); differentiate the quotient.
	sumAll := 0.0
	for k := 0; k < n; k++ {
		sumAll += l.weights[k] / (x - l.Nodes[k])
	}
	wjTerm := l.weights[j] / (x - l.Nodes[j])
	dWjTerm := -l.weights[j] / ((x - l.Nodes[j]) * (x - l.Nodes[j]))
	dSumAll := 0.0
	for k := 0; k < n; k++ {
		dSumAll += -l.weights[k] / ((x - l.Nodes[k]) * (x - l.Nodes[k]))
	}
	return (dWjTerm*sumAll - wjTerm*dSumAll) / (sumAll * sumAll)
}
