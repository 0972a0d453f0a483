package basis

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PointSet selects the 1-D node distribution used for solution and flux
// points, matching the `spts_type_quad` configuration option.
type PointSet int

const (
	GaussLegendre PointSet = iota
	GaussLobatto
)

func (ps PointSet) String() string {
	switch ps {
	case GaussLegendre:
		return "Legendre"
	case GaussLobatto:
		return "Lobatto"
	default:
		return "unknown"
	}
}

// Points returns n one-dimensional points on [-1,1] of the requested kind.
func Points(n int, kind PointSet) []float64 {
	switch kind {
	case GaussLobatto:
		return gaussLobatto(n)
	default:
		return gaussLegendre(n)
	}
}

// gaussLegendre computes the n roots of the degree-n Legendre polynomial via
// the Golub-Welsch eigenvalue method on the Jacobi matrix of the
// three-term recurrence (alpha=beta=0), the same construction gocfd's
// DG1D.JacobiGQ uses for its Gauss quadrature nodes.
func gaussLegendre(n int) []float64 {
	if n == 1 {
		return []float64{0}
	}
	d0 := make([]float64, n)
	d1 := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		ip1 := float64(i + 1)
		d1[i] = ip1 / math.Sqrt((2*ip1-1)*(2*ip1+1))
	}
	jj := symTriDiagonal(d0, d1)
	var eig mat.EigenSym
	if ok := eig.Factorize(jj, false); !ok {
		panic("basis: eigenvalue decomposition failed for Gauss-Legendre points")
	}
	x := eig.Values(nil)
	// eig.Values does not guarantee sorted order for all gonum versions; sort ascending.
	sortFloats(x)
	return x
}

// gaussLobatto fixes the two endpoints at -1 and 1 and fills the interior
// with the roots of the Jacobi(1,1) Gauss quadrature of order n-2, exactly
// as gocfd's DG1D.JacobiGL does (there expressed for Jacobi polynomials in
// general; here specialized to the Legendre/Lobatto case used by FR).
func gaussLobatto(n int) []float64 {
	x := make([]float64, n)
	x[0], x[n-1] = -1, 1
	if n == 2 {
		return x
	}
	interior := jacobiGQ11(n - 2)
	copy(x[1:n-1], interior)
	return x
}

// jacobiGQ11 returns the m roots of the Jacobi(alpha=1,beta=1) orthogonal
// polynomial of degree m, via the Golub-Welsch construction (gocfd's
// DG1D.JacobiGQ, specialized to alpha=beta=1 here since FR only needs the
// Lobatto case of that family).
func jacobiGQ11(m int) []float64 {
	if m == 0 {
		return nil
	}
	const alpha, beta = 1.0, 1.0
	h1 := make([]float64, m+1)
	for i := 0; i <= m; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}
	d0 := make([]float64, m+1)
	for i := 0; i <= m; i++ {
		d0[i] = 0 // symmetric for alpha==beta
	}
	d1 := make([]float64, m)
	for i := 0; i < m; i++ {
		ip1 := float64(i + 1)
		h := h1[i]
		d1[i] = 2.0 / (h + 2.0) * math.Sqrt(ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/(h+1.0)/(h+3.0))
	}
	jj := symTriDiagonal(d0, d1)
	var eig mat.EigenSym
	if ok := eig.Factorize(jj, false); !ok {
		panic("basis: eigenvalue decomposition failed for Jacobi(1,1) points")
	}
	x := eig.Values(nil)
	sortFloats(x)
	return x
}

func symTriDiagonal(diag, offdiag []float64) *mat.SymDense {
	n := len(diag)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, diag[i])
	}
	for i := 0; i < n-1; i++ {
		sym.SetSym(i, i+1, offdiag[i])
	}
	return sym
}

func sortFloats(x []float64) {
	for i := 1; i < len(x); i++ {
		for j := i; j > 0 && x[j-1] > x[j]; j-- {
			x[j-1], x[j] = x[j], x[j-1]
		}
	}
}
