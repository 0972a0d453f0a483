package element

import "github.com/flurry-cfd/flurry/flux"

// ExtrapolateGridVelToMpts interpolates the grid velocity at the solution
// points to the plot points, the same OppSptsToMpts operator
// ExtrapolateToMpts applies to the solution. A no-op (leaves
// GridVelMpts nil) on a static element, matching GridVelSpts/GridVelFpts'
// own nil-means-static convention.
func (e *Element) ExtrapolateGridVelToMpts() {
	if e.GridVelSpts == nil {
		return
	}
	if e.GridVelMpts == nil {
		e.GridVelMpts = allocRows(e.Bundle.NMpts, e.Params.NDims)
	}
	copyRows(e.GridVelMpts, applyOperator(e.Bundle.OppSptsToMpts, e.GridVelSpts, e.Bundle.NMpts))
}

// ExtrapolateEntropyToMpts interpolates the entropy-sensor field at the
// solution points to the plot points, for the optional EntropyErr restart
// field spec.md §6 names.
func (e *Element) ExtrapolateEntropyToMpts() {
	rows := make([][]float64, e.Bundle.NSpts)
	for i, s := range e.EntropySpts {
		rows[i] = []float64{s}
	}
	out := applyOperator(e.Bundle.OppSptsToMpts, rows, e.Bundle.NMpts)
	for i, row := range out {
		e.EntropyMpts[i] = row[0]
	}
}

// PrimitivesPlot converts UMpts from conserved to primitive variables,
// spec.md §6's getPrimitivesPlot: density, a 3-component velocity vector
// (zero-padded in 2-D so restart files carry a uniform field width), and
// pressure (Euler/NS) or just the scalar field (advection-diffusion).
func (e *Element) PrimitivesPlot() [][]float64 {
	out := make([][]float64, len(e.UMpts))
	nDims := e.Params.NDims
	for i, u := range e.UMpts {
		if e.Params.Equation != flux.EulerNS {
			out[i] = []float64{u[0]}
			continue
		}
		rho := u[0]
		row := make([]float64, 5) // rho, u, v, w, p
		row[0] = rho
		for d := 0; d < nDims; d++ {
			row[1+d] = u[1+d] / rho
		}
		row[4] = flux.Pressure(u, nDims, e.Params.Gamma)
		out[i] = row
	}
	return out
}

// GridVelPlot returns the plot-point grid velocity, zero-padded to 3
// components and all zero on a static element, spec.md §6's
// getGridVelPlot.
func (e *Element) GridVelPlot() [][]float64 {
	out := make([][]float64, e.Bundle.NMpts)
	for i := range out {
		out[i] = make([]float64, 3)
		if e.GridVelMpts != nil {
			copy(out[i], e.GridVelMpts[i])
		}
	}
	return out
}

// EntropyErrPlot returns the plot-point entropy-sensor field, spec.md §6's
// getEntropyErrPlot (the optional EntropyErr restart field).
func (e *Element) EntropyErrPlot() []float64 {
	return e.EntropyMpts
}
