// Package verify implements the analytic reference solutions spec.md's
// verification cases check a run against, starting with the Sod shock
// tube the `testCase=1` configuration key selects. Grounded on gocfd's
// sod_shock_tube/analytic_sod.go (a Newton solve for the post-shock
// pressure, then a five-region exact Riemann-fan evaluation), carried
// over with its stray debug Printf and teacher-module utils.POW import
// removed.
package verify

import "math"

// SodState is the exact Riemann solution for the classical Sod shock
// tube (left state rho=1,P=1,u=0; right state rho=0.125,P=0.1,u=0;
// diaphragm at the domain midpoint, gamma=1.4) evaluated at one instant
// t>0, sampled at the five characteristic positions bounding its
// rarefaction fan, contact discontinuity, and shock.
type SodState struct {
	X, Rho, P, U, E []float64
}

// SOD_calc evaluates the exact Sod shock-tube solution on [0,1] at time
// t, returning position plus density/pressure/velocity/specific-internal-
// energy at the ten sample points bracketing the solution's five regions.
func SOD_calc(t float64) SodState {
	const (
		xMin, xMax       = 0., 1.
		rhoL, pL, uL     = 1., 1., 0.
		rhoR, pR, uR     = 0.125, 0.1, 0.
		gamma            = 1.4
	)
	x0 := 0.5 * (xMax + xMin)
	mu := math.Sqrt((gamma - 1) / (gamma + 1))
	cL := math.Sqrt(gamma * pL / rhoL)

	pPost := fzero(sodFunc, math.Pi)
	vPost := 2 * (math.Sqrt(gamma) / (gamma - 1)) * (1 - math.Pow(pPost, (gamma-1)/(2*gamma)))
	rhoPost := rhoR * (((pPost / pR) + mu*mu) / (1 + mu*mu*(pPost/pR)))
	vShock := vPost * (rhoPost / rhoR) / ((rhoPost / rhoR) - 1.)
	rhoMiddle := rhoL * math.Pow(pPost/pL, 1./gamma)

	x1 := x0 - cL*t
	x3 := x0 + vPost*t
	x4 := x0 + vShock*t
	c2 := cL - 0.5*(gamma-1.)*vPost
	x2 := x0 + t*(vPost-c2)

	const tol = 1e-8
	x := []float64{
		xMin,
		x1 - tol, x1 + tol,
		x2 - tol, x2 + tol,
		x3 - tol, x3 + tol,
		x4 - tol, x4 + tol,
		xMax,
	}
	rho := make([]float64, len(x))
	p := make([]float64, len(x))
	u := make([]float64, len(x))
	e := make([]float64, len(x))
	for i, xi := range x {
		switch {
		case xi < x1:
			rho[i], p[i], u[i] = rhoL, pL, uL
		case xi <= x2:
			c := mu*mu*((x0-x[i])/t) + (1.-mu*mu)*cL
			rho[i] = rhoL * math.Pow(c/cL, 2/(gamma-1))
			p[i] = pL * math.Pow(rho[i]/rhoL, gamma)
			u[i] = (1. - mu*mu) * ((-(x0 - x[i]) / t) + cL)
		case xi <= x3:
			rho[i], p[i], u[i] = rhoMiddle, pPost, vPost
		case xi <= x4:
			rho[i], p[i], u[i] = rhoPost, pPost, vPost
		default:
			rho[i], p[i], u[i] = rhoR, pR, uR
		}
		e[i] = p[i] / ((gamma - 1.) * rho[i])
	}
	return SodState{X: x, Rho: rho, P: p, U: u, E: e}
}

// fzero is a damped secant iteration, the same root finder
// analytic_sod.go's original fzero uses to solve sodFunc(P)=0 for the
// post-shock pressure.
func fzero(f func(p float64) float64, start float64) float64 {
	const tol = 1e-7
	startOld := start / 2
	res := f(startOld)
	for math.Abs(res) > tol {
		resNew := f(start)
		deriv := (start - startOld) / (resNew - res)
		startNew := math.Abs(start - 0.01*f(start)/deriv)
		startOld = start
		start = startNew
		res = resNew
	}
	return start
}

// sodFunc is the post-shock pressure root equation from the exact Sod
// solution (Toro, Riemann Solvers and Numerical Methods for Fluid
// Dynamics, eq. 4.48), fixed at the right state rho=0.125, P=0.1.
func sodFunc(p float64) float64 {
	const (
		rhoR, pR = 0.125, 0.1
		gamma    = 1.4
	)
	mu := math.Sqrt((gamma - 1) / (gamma + 1))
	mu2 := mu * mu
	return (p-pR)*math.Sqrt(math.Pow(1-mu2, 2)/(rhoR*(p+mu2*pR))) -
		2*(math.Sqrt(gamma)/(gamma-1))*(1-math.Pow(p, (gamma-1)/(2*gamma)))
}
