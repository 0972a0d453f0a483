package basis

import "math"

// weightsLegendreP and its derivative, duplicated here (rather than
// imported) because this is the minimal alpha=beta=0 specialization
// DG1D's general JacobiP would otherwise require pulling the whole
// Jacobi machinery in for.
func weightsLegendreP(p int, x float64) float64 {
	if p == 0 {
		return 1
	}
	if p == 1 {
		return x
	}
	pm2, pm1 := 1.0, x
	var pk float64
	for k := 2; k <= p; k++ {
		kk := float64(k)
		pk = ((2*kk-1)*x*pm1 - (kk-1)*pm2) / kk
		pm2, pm1 = pm1, pk
	}
	return pk
}

func weightsLegendrePDeriv(p int, x float64) float64 {
	if p == 0 {
		return 0
	}
	denom := 1 - x*x
	if denom == 0 {
		return float64(p*(p+1)) / 2 * math.Pow(x, float64(p-1))
	}
	return float64(p) * (weightsLegendreP(p-1, x) - x*weightsLegendreP(p, x)) / denom
}

// Weights returns the 1-D quadrature weight associated with each of the n
// points returned by Points(n, kind), via the standard closed forms for
// Gauss-Legendre and Gauss-Lobatto-Legendre quadrature.
func Weights(n int, kind PointSet) []float64 {
	x := Points(n, kind)
	w := make([]float64, n)
	switch kind {
	case GaussLobatto:
		for i, xi := range x {
			pnm1 := weightsLegendreP(n-1, xi)
			w[i] = 2.0 / (float64(n*(n-1)) * pnm1 * pnm1)
		}
	default:
		for i, xi := range x {
			dp := weightsLegendrePDeriv(n, xi)
			w[i] = 2.0 / ((1 - xi*xi) * dp * dp)
		}
	}
	return w
}
