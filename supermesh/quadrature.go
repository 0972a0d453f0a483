package supermesh

import "github.com/flurry-cfd/flurry/geometry"

// refTetOrder1R/S/T/W is the order-1 (centroid) Williams-Shunn-Jameson
// cubature rule for the reference tet with vertices (-1,-1,-1),(1,-1,-1),
// (-1,1,-1),(-1,-1,1), grounded on gocfd's DG3D.WilliamsShunnJamesonCubature
// (the retrieved pack's only worked tet-quadrature table); the reference
// tet's volume is 4/3, matching the rule's single weight.
const refTetVolume = 4.0 / 3.0

// QuadPoint is one physical-space evaluation point and weight of a tet
// quadrature rule, the weight already scaled by the tet's physical volume.
type QuadPoint struct {
	P geometry.Point
	W float64
}

// Quadrature returns an order-1 (centroid) physical-space quadrature rule
// for t -- exact for polynomials up to degree 1, matching spec.md §4.5's
// "numerical quadrature of (polynomial)·(polynomial)" integrand, evaluated
// once per output tet and summed across a clip's tet list by the caller.
func (t Tet) Quadrature() QuadPoint {
	vol := t.Volume()
	if vol < 0 {
		vol = -vol
	}
	return QuadPoint{P: t.Centroid(), W: vol}
}

// IntegrateProduct sums tet-local quadrature contributions of f·g over a
// set of tets, the Galerkin-projection mass/load integral spec.md §4.5
// describes; f and g are evaluated in physical space at each tet's
// quadrature point.
func IntegrateProduct(tets []Tet, f, g func(geometry.Point) float64) float64 {
	var sum float64
	for _, t := range tets {
		q := t.Quadrature()
		sum += q.W * f(q.P) * g(q.P)
	}
	return sum
}
