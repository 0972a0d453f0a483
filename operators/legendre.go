package operators

// legendreP evaluates the Legendre polynomial of degree p at x via the
// standard three-term recurrence, the same recursion DG1D's JacobiP uses
// specialized to alpha=beta=0.
func legendreP(p int, x float64) float64 {
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

// legendrePDeriv evaluates d/dx[P_p](x) via the standard closed-form
// relation between P_p, P_{p-1} and their argument.
func legendrePDeriv(p int, x float64) float64 {
	if p == 0 {
		return 0
	}
	// (1-x^2) P_p'(x) = p*(P_{p-1}(x) - x*P_p(x))
	denom := 1 - x*x
	if denom == 0 {
		// At the endpoints use the closed-form limit P_p'(±1) = (±1)^{p-1} p(p+1)/2.
		sign := 1.0
		if x < 0 && p%2 == 0 {
			sign = -1.0
		} else if x < 0 {
			sign = 1.0
		}
		return sign * float64(p*(p+1)) / 2
	}
	return float64(p) * (legendreP(p-1, x) - x*legendreP(p, x)) / denom
}

// dgCorrectionDeriv returns (g_L'(x), g_R'(x)), the derivatives of Huynh's
// "DG" flux-reconstruction correction functions, the closed form behind
// spec.md §4.4's opp_div_fpts_to_spts: g_L(-1)=1, g_L(1)=0, g_R(-1)=0,
// g_R(1)=1, both L2-orthogonal to every polynomial of degree < p+1.
func dgCorrectionDeriv(p int, x float64) (gL, gR float64) {
	sign := 1.0
	if p%2 == 1 {
		sign = -1.0
	}
	dPp := legendrePDeriv(p, x)
	dPp1 := legendrePDeriv(p+1, x)
	gL = 0.5 * sign * (dPp - dPp1)
	gR = 0.5 * (dPp + dPp1)
	return
}
