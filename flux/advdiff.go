package flux

// AdvDiffFlux returns the physical flux of the scalar linear
// advection-diffusion equation, F_d = advectV_d*u - diffD*du/dx_d, one
// entry per spatial direction. gradU is nil for inviscid-only evaluation.
func AdvDiffFlux(u float64, gradU []float64, advectV []float64, diffD float64, nDims int) [][]float64 {
	F := make([][]float64, nDims)
	for d := 0; d < nDims; d++ {
		row := []float64{advectV[d] * u}
		if gradU != nil {
			row[0] -= diffD * gradU[d]
		}
		F[d] = row
	}
	return F
}
