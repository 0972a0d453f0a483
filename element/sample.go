package element

import "github.com/flurry-cfd/flurry/geometry"

// RefLoc, Sample, and Corners together satisfy overset.FieldSource without
// that package importing element, keeping the narrow-interface boundary
// spec.md §6 draws between the CORE and its external collaborators.

// Sample evaluates the current solution at an arbitrary reference location
// r by the same tensor-product Lagrange weights the plot-point operator
// uses, generalized to a caller-supplied point instead of a fixed grid.
func (e *Element) Sample(r [3]float64) []float64 {
	w := e.Bundle.InterpWeightsAt(r)
	nf := len(e.USpts[0])
	out := make([]float64, nf)
	for i, wi := range w {
		if wi == 0 {
			continue
		}
		u := e.USpts[i]
		for k := 0; k < nf; k++ {
			out[k] += wi * u[k]
		}
	}
	return out
}

// Corners returns this element's geometric corner nodes, the physical
// vertex set overset's supermesh path clips against.
func (e *Element) Corners() []geometry.Point {
	return e.ActiveNodes()
}

// Points returns the physical location of every solution point, the set
// overset.FieldSource.Points names as the points a fringe cell needs
// donor data for.
func (e *Element) Points() []geometry.Point {
	return e.XSpts
}
