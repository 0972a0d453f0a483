// Package config implements the parameter-file parsing spec.md §6
// explicitly places out of core scope, in the idiom gocfd's
// InputParameters package already uses: a flat YAML struct
// (`github.com/ghodss/yaml` tags) with a Parse/Print pair, generalized
// from the 2-D Euler-only key set to every configuration key spec.md §6's
// table names (equation, time integration, mesh, freestream, LDG,
// restart, diagnostics). Load adds a `spf13/viper` overlay so a cluster
// deployment can override individual YAML keys with environment
// variables, a use gocfd's own retrieved `cmd/` package never exercises
// despite carrying the viper dependency.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/flux"
	"github.com/flurry-cfd/flurry/solver"
)

// FreestreamParams is the freestream/far-field state spec.md §6 names,
// used by characteristic boundary conditions and Navier-Stokes viscous
// scaling (Re, Lref).
type FreestreamParams struct {
	RhoBound  float64 `yaml:"rhoBound"`
	UBound    float64 `yaml:"uBound"`
	VBound    float64 `yaml:"vBound"`
	WBound    float64 `yaml:"wBound"`
	PBound    float64 `yaml:"pBound"`
	MachBound float64 `yaml:"MachBound"`
	Re        float64 `yaml:"Re"`
	Lref      float64 `yaml:"Lref"`
	TBound    float64 `yaml:"TBound"`
	NxBound   float64 `yaml:"nxBound"`
	NyBound   float64 `yaml:"nyBound"`
	NzBound   float64 `yaml:"nzBound"`
}

// MeshBox is the mesh-creation box spec.md §6 names for meshType=1.
type MeshBox struct {
	Nx, Ny, Nz             int
	Xmin, Xmax             float64
	Ymin, Ymax             float64
	Zmin, Zmax             float64
}

// RunDeck is the flat YAML run deck spec.md §6's configuration table
// describes, the direct generalization of gocfd's InputParameters2D to
// every key that table names.
type RunDeck struct {
	Title string `yaml:"Title"`

	Equation    int `yaml:"equation"`    // 0 advection-diffusion, 1 Euler/NS
	Order       int `yaml:"order"`
	TimeType    int `yaml:"timeType"`    // 0 forward Euler, 4 RK44
	DtType      int `yaml:"dtType"`      // 0 fixed, 1 global CFL, 2 local CFL
	Dt          float64 `yaml:"dt"`
	CFL         float64 `yaml:"CFL"`
	Viscous     bool    `yaml:"viscous"`
	Motion      int     `yaml:"motion"` // 0 static, 1 Kui, 2 Liang (both unsupported), 3 rigid rotation, 4 rigid translation
	RiemannType int     `yaml:"riemannType"` // 0 Rusanov, 1 Roe
	NDims       int     `yaml:"nDims"`

	MotionRateHz   float64    `yaml:"motionRateHz"`   // motion=3: revolutions/second
	MotionCenter   [3]float64 `yaml:"motionCenter"`   // motion=3: rotation center
	MotionVelocity [3]float64 `yaml:"motionVelocity"` // motion=4: constant node velocity

	AdvectVx float64 `yaml:"advectVx"`
	AdvectVy float64 `yaml:"advectVy"`
	AdvectVz float64 `yaml:"advectVz"`
	Lambda   float64 `yaml:"lambda"`
	DiffD    float64 `yaml:"diffD"`

	ICType   int `yaml:"icType"`
	TestCase int `yaml:"testCase"`
	IterMax  int `yaml:"iterMax"`

	PlotFreq       int    `yaml:"plotFreq"`
	MonitorResFreq int    `yaml:"monitorResFreq"`
	ResType        int    `yaml:"resType"` // 1 L1, 2 L2, 3 Linf
	DataFileName   string `yaml:"dataFileName"`
	EntropySensor  bool   `yaml:"entropySensor"`
	WriteIBLANK    bool   `yaml:"writeIBLANK"`

	MeshType int               `yaml:"meshType"` // 0 read, 1 create, 2 overset
	MeshFile string            `yaml:"meshFile"`
	Box      MeshBox           `yaml:"box"`
	BCs      map[string]map[int]map[string]float64 `yaml:"BCs"`

	Freestream FreestreamParams `yaml:"freestream"`

	LDGPenFact float64 `yaml:"LDG_penFact"`
	LDGTau     float64 `yaml:"LDG_tau"`

	SptsTypeQuad string `yaml:"spts_type_quad"` // "Legendre" or "Lobatto"

	ShockCapture bool    `yaml:"shockCapture"`
	Threshold    float64 `yaml:"threshold"`
	Squeeze      bool    `yaml:"squeeze"`

	PMG bool `yaml:"PMG"`

	Restart string `yaml:"restart"`
	OutDir  string `yaml:"outDir"`
}

// Parse unmarshals a YAML run deck, the same ghodss/yaml entry point
// InputParameters2D.Parse uses.
func (rd *RunDeck) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, rd); err != nil {
		return errors.Wrap(err, "config: parsing run deck")
	}
	return nil
}

// Print reports the run deck in the same sorted-BC-keys tabular form
// InputParameters2D.Print uses.
func (rd *RunDeck) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rd.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", rd.CFL)
	fmt.Printf("%d\t\t\t\t= Equation\n", rd.Equation)
	fmt.Printf("%d\t\t\t\t= Order\n", rd.Order)
	fmt.Printf("%d\t\t\t\t= nDims\n", rd.NDims)
	keys := make([]string, 0, len(rd.BCs))
	for k := range rd.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, rd.BCs[key])
	}
}

// Validate checks every enumerated key against its spec.md §6 range,
// returning a wrapped error that names the offending key rather than
// panicking -- config parse failures are a setup-time, recoverable
// condition, not the fatal/soft-warn taxonomy the numerical core uses.
func (rd *RunDeck) Validate() error {
	if rd.Equation != 0 && rd.Equation != 1 {
		return fmt.Errorf("config: equation must be 0 (advection-diffusion) or 1 (Euler/NS), got %d", rd.Equation)
	}
	if rd.Order < 1 {
		return fmt.Errorf("config: order must be >= 1, got %d", rd.Order)
	}
	if rd.NDims != 2 && rd.NDims != 3 {
		return fmt.Errorf("config: nDims must be 2 or 3, got %d", rd.NDims)
	}
	if rd.DtType < 0 || rd.DtType > 2 {
		return fmt.Errorf("config: dtType must be 0, 1, or 2, got %d", rd.DtType)
	}
	if rd.Motion < 0 || rd.Motion > 4 {
		return fmt.Errorf("config: motion must be 0..4, got %d", rd.Motion)
	}
	if rd.Motion == int(element.MotionKuiPerturbation) || rd.Motion == int(element.MotionLiangDeform) {
		return fmt.Errorf("config: motion=%d (%s) has no grounded node-perturbation formula in this build; use motion=3 (rigid rotation) or motion=4 (rigid translation)",
			rd.Motion, element.Motion(rd.Motion))
	}
	if rd.RiemannType != 0 && rd.RiemannType != 1 {
		return fmt.Errorf("config: riemannType must be 0 (Rusanov) or 1 (Roe), got %d", rd.RiemannType)
	}
	if rd.ResType < 1 || rd.ResType > 3 {
		return fmt.Errorf("config: resType must be 1, 2, or 3, got %d", rd.ResType)
	}
	if rd.MeshType < 0 || rd.MeshType > 2 {
		return fmt.Errorf("config: meshType must be 0, 1, or 2, got %d", rd.MeshType)
	}
	kind := strings.ToLower(rd.SptsTypeQuad)
	if kind != "" && kind != "legendre" && kind != "lobatto" {
		return fmt.Errorf("config: spts_type_quad must be Legendre or Lobatto, got %q", rd.SptsTypeQuad)
	}
	return nil
}

// ToElementParams converts the parsed run deck into the element.Params
// every Element kernel needs, element's own independence from this
// package (documented on element.Params) requiring this translation to
// live here rather than as a method on Params itself.
func (rd *RunDeck) ToElementParams() *element.Params {
	eq := flux.AdvectionDiffusion
	if rd.Equation == 1 {
		eq = flux.EulerNS
	}
	riemann := flux.Rusanov
	if rd.RiemannType == 1 {
		riemann = flux.Roe
	}
	exps0 := 1.0
	return &element.Params{
		Equation:       eq,
		NDims:          rd.NDims,
		Gamma:          1.4,
		Viscous:        rd.Viscous,
		Mu:             0,
		Prandtl:        0.72,
		Motion:         element.Motion(rd.Motion),
		MotionRateHz:   rd.MotionRateHz,
		MotionCenter:   rd.MotionCenter,
		MotionVelocity: rd.MotionVelocity,
		RiemannType:    riemann,
		AdvectV:        []float64{rd.AdvectVx, rd.AdvectVy, rd.AdvectVz}[:rd.NDims],
		DiffD:          rd.DiffD,
		Lambda:         rd.Lambda,
		LDGPenFact:     rd.LDGPenFact,
		LDGTau:      rd.LDGTau,
		Squeeze:     rd.Squeeze,
		CFL:         rd.CFL,
		Exps0:       exps0,
	}
}

// ToDtType converts the raw `dtType` key to solver.DtType.
func (rd *RunDeck) ToDtType() solver.DtType {
	switch rd.DtType {
	case 1:
		return solver.DtGlobalCFL
	case 2:
		return solver.DtLocalCFL
	default:
		return solver.DtFixed
	}
}

// OutputDir resolves the directory restart/plot files are written under:
// OutDir if set, otherwise "~/.flurry", the go-homedir-backed default
// spec.md never specifies a location for (the teacher's own go.mod
// carries go-homedir with no retrieved call site) but every real run
// needs one.
func (rd *RunDeck) OutputDir() (string, error) {
	if rd.OutDir != "" {
		return rd.OutDir, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "config: resolving home directory")
	}
	return filepath.Join(home, ".flurry"), nil
}

// Load reads a YAML run deck from path, parses it, then overlays any
// FLURRY_-prefixed environment variable matching a top-level YAML key via
// spf13/viper -- an env-var override layer for cluster deployment gocfd's
// own retrieved cmd/ package never builds despite carrying viper in its
// go.mod.
func Load(path string) (*RunDeck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading run deck %s", path)
	}
	rd := &RunDeck{}
	if err := rd.Parse(data); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(string(data))); err != nil {
		return nil, errors.Wrap(err, "config: loading run deck into viper overlay")
	}
	v.SetEnvPrefix("FLURRY")
	v.AutomaticEnv()
	if err := v.Unmarshal(rd); err != nil {
		return nil, errors.Wrap(err, "config: applying environment overrides")
	}

	if err := rd.Validate(); err != nil {
		return nil, err
	}
	return rd, nil
}
