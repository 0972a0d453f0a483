package verify

import (
	"testing"

	"github.com/flurry-cfd/flurry/basis"
	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/flux"
	"github.com/flurry-cfd/flurry/geometry"
	"github.com/flurry-cfd/flurry/ic"
	"github.com/flurry-cfd/flurry/operators"
	"github.com/flurry-cfd/flurry/utils"
)

func squareElement(t *testing.T, x0, y0 float64) *element.Element {
	b, err := operators.NewBundle(2, 3, basis.GaussLegendre)
	if err != nil {
		t.Fatal(err)
	}
	params := &element.Params{Equation: flux.EulerNS, NDims: 2, Gamma: 1.4, RiemannType: flux.Rusanov, CFL: 0.1}
	nodes := []geometry.Point{{X: x0, Y: y0}, {X: x0 + 1, Y: y0}, {X: x0 + 1, Y: y0 + 1}, {X: x0, Y: y0 + 1}}
	el, err := element.New(utils.Quad, 3, b, params, nodes)
	if err != nil {
		t.Fatal(err)
	}
	if err := el.SetupAllGeometry(); err != nil {
		t.Fatal(err)
	}
	return el
}

func TestAnalyticErrorIsZeroWhenSolutionMatchesFreestream(t *testing.T) {
	el := squareElement(t, 0, 0)
	fs := ic.FreestreamState{Rho: 1.0, U: 2.0, V: 0.0, P: 1.0 / 1.4, Gamma: 1.4}
	if err := ic.Apply([]*element.Element{el}, flux.EulerNS, ic.Freestream, fs, ic.VortexParams{}); err != nil {
		t.Fatal(err)
	}

	errs := AnalyticError([]*element.Element{el}, ic.Freestream, fs, ic.VortexParams{}, StandardVortexDomain, 0)
	if errs.RhoRMS > 1e-10 || errs.RhouRMS > 1e-10 || errs.ERMS > 1e-10 {
		t.Fatalf("expected zero error against matching freestream, got %+v", errs)
	}
}

func TestAnalyticErrorIsNonzeroForMismatchedState(t *testing.T) {
	el := squareElement(t, 0, 0)
	fs := ic.FreestreamState{Rho: 1.0, U: 2.0, V: 0.0, P: 1.0 / 1.4, Gamma: 1.4}
	if err := ic.Apply([]*element.Element{el}, flux.EulerNS, ic.Freestream, fs, ic.VortexParams{}); err != nil {
		t.Fatal(err)
	}

	wrongFS := ic.FreestreamState{Rho: 2.0, U: 2.0, V: 0.0, P: 1.0 / 1.4, Gamma: 1.4}
	errs := AnalyticError([]*element.Element{el}, ic.Freestream, wrongFS, ic.VortexParams{}, StandardVortexDomain, 0)
	if errs.RhoRMS < 0.5 {
		t.Fatalf("expected a large rho error against a mismatched reference density, got %+v", errs)
	}
}
