package basis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsGaussLegendreSymmetric(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6} {
		x := Points(n, GaussLegendre)
		assert.Len(t, x, n)
		for i := 0; i < n; i++ {
			assert.InDelta(t, -x[i], x[n-1-i], 1e-9)
		}
		for i := 0; i < n-1; i++ {
			assert.Less(t, x[i], x[i+1])
		}
	}
}

func TestPointsGaussLobattoEndpoints(t *testing.T) {
	for _, n := range []int{3, 4, 5, 6} {
		x := Points(n, GaussLobatto)
		assert.Len(t, x, n)
		assert.InDelta(t, -1.0, x[0], 1e-12)
		assert.InDelta(t, 1.0, x[n-1], 1e-12)
		for i := 0; i < n-1; i++ {
			assert.Less(t, x[i], x[i+1])
		}
	}
}

func TestLagrangeKroneckerDelta(t *testing.T) {
	nodes := Points(5, GaussLobatto)
	l := NewLagrange1D(nodes)
	for i, xi := range nodes {
		row := l.EvalAt(xi)
		for j, v := range row {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, v, 1e-10)
		}
	}
}

func TestLagrangePartitionOfUnity(t *testing.T) {
	nodes := Points(6, GaussLegendre)
	l := NewLagrange1D(nodes)
	for _, x := range []float64{-0.9, -0.3, 0.1, 0.77} {
		row := l.EvalAt(x)
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-10)
	}
}

func TestDerivativeMatrixExactOnPolynomials(t *testing.T) {
	nodes := Points(6, GaussLobatto)
	l := NewLagrange1D(nodes)
	d := l.DerivativeMatrix()
	// f(x) = x^3 - 2x^2 + x; f'(x) = 3x^2 - 4x + 1, exactly representable
	// by a degree-5 nodal basis, so D must reproduce it to machine precision.
	n := len(nodes)
	f := make([]float64, n)
	for i, x := range nodes {
		f[i] = x*x*x - 2*x*x + x
	}
	for i, x := range nodes {
		var dfi float64
		for j := 0; j < n; j++ {
			dfi += d.At(i, j) * f[j]
		}
		want := 3*x*x - 4*x + 1
		assert.InDelta(t, want, dfi, 1e-9)
	}
}

func TestDerivativeMatrixRowSumsZero(t *testing.T) {
	nodes := Points(5, GaussLegendre)
	l := NewLagrange1D(nodes)
	d := l.DerivativeMatrix()
	n := len(nodes)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += d.At(i, j)
		}
		assert.InDelta(t, 0.0, sum, 1e-9)
	}
}

func TestInterpMatrixReproducesLinear(t *testing.T) {
	nodes := Points(3, GaussLobatto)
	l := NewLagrange1D(nodes)
	targets := []float64{-0.5, 0, 0.5}
	im := l.InterpMatrix(targets)
	f := make([]float64, len(nodes))
	for i, x := range nodes {
		f[i] = 2*x + 1
	}
	for i, x := range targets {
		var v float64
		for j := range nodes {
			v += im.At(i, j) * f[j]
		}
		assert.InDelta(t, 2*x+1, v, 1e-9)
	}
}

func TestDerivativeMatrixAtMatchesOffNodeFiniteDifference(t *testing.T) {
	nodes := Points(7, GaussLobatto)
	l := NewLagrange1D(nodes)
	x := 0.37
	dAt := l.DerivativeMatrixAt([]float64{x})
	const h = 1e-6
	rowPlus := l.EvalAt(x + h)
	rowMinus := l.EvalAt(x - h)
	for j := range nodes {
		fd := (rowPlus[j] - rowMinus[j]) / (2 * h)
		assert.InDelta(t, fd, dAt.At(0, j), 1e-6)
	}
}

func TestPointSetString(t *testing.T) {
	assert.Equal(t, "Legendre", GaussLegendre.String())
	assert.Equal(t, "Lobatto", GaussLobatto.String())
}

func TestTwoPointLobattoIsJustEndpoints(t *testing.T) {
	x := Points(2, GaussLobatto)
	assert.Equal(t, []float64{-1, 1}, x)
}

func TestGaussLegendreSinglePointIsOrigin(t *testing.T) {
	x := Points(1, GaussLegendre)
	assert.InDelta(t, 0.0, x[0], math.SmallestNonzeroFloat64)
}

func TestWeightsSumToReferenceLength(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 6} {
		w := Weights(n, GaussLegendre)
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		assert.InDelta(t, 2.0, sum, 1e-9)
	}
	for _, n := range []int{2, 3, 5, 6} {
		w := Weights(n, GaussLobatto)
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		assert.InDelta(t, 2.0, sum, 1e-9)
	}
}

func TestGaussLegendreWeightsPositive(t *testing.T) {
	w := Weights(5, GaussLegendre)
	for _, v := range w {
		assert.Greater(t, v, 0.0)
	}
}
