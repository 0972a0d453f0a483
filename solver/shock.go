package solver

import (
	"math"

	"github.com/flurry-cfd/flurry/element"
)

// computeShockSensor sets el.ShockSensor from the relative spread of the
// density field across solution points -- a cheap decay-based proxy for a
// full modal (Legendre-coefficient-decay) sensor, since the retrieved pack
// carries no worked modal-transform example to ground one on. Values above
// threshold flag a discontinuity; scaling artificial viscosity from the
// sensor is left to the equation-specific flux closure and is out of
// scope here (spec.md §6 only names shockCapture/threshold as toggles,
// not a prescribed viscosity law).
func computeShockSensor(el *element.Element, threshold float64) {
	n := len(el.USpts)
	if n == 0 {
		return
	}
	var mean float64
	for _, u := range el.USpts {
		mean += u[0]
	}
	mean /= float64(n)
	if mean == 0 {
		el.ShockSensor = 0
		return
	}
	var variance float64
	for _, u := range el.USpts {
		d := u[0] - mean
		variance += d * d
	}
	variance /= float64(n)
	sensor := math.Sqrt(variance) / math.Abs(mean)
	if sensor < threshold {
		sensor = 0
	}
	el.ShockSensor = sensor
}
