// Package plot implements the live residual/field monitor spec.md §6's
// Output service names, grounded on gocfd's model_problems/Euler2D/plot.go
// (ChartState wrapping a lazily-created chart2d.Chart2D, a TriMesh built
// once and reused, a functions.FSurface rebuilt every frame) and
// DG2D/graphics_support.go's triangulation of a single reference element
// into an avs-compatible TriMesh. gocfd's own TriMesh is built over its
// triangular RT flux element; Flurry's plot grid is the quad/hex Mpts
// tensor-product grid, so BuildTriMesh below triangulates that grid
// in physical space instead -- two triangles per plot cell, the direct
// generalization of the teacher's single-triangle-per-RT-element case.
package plot

import (
	"fmt"
	"math"

	"github.com/notargets/avs/chart2d"
	graphics2D "github.com/notargets/avs/geometry"

	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/utils"
)

// Field selects which scalar PrimitivesPlot/EntropyErrPlot column the
// monitor colors the mesh by.
type Field int

const (
	Density Field = iota
	VelocityX
	VelocityY
	Pressure
	EntropyErr
)

// Monitor is a live 2-D field plot window, grounded on gocfd's ChartState.
// 3-D elements are not supported -- no 3-D live-plot call site exists
// anywhere in the retrieved pack to ground one on, matching spec.md's own
// 2-D-only chart2d.Chart2D use.
type Monitor struct {
	sp            *utils.SurfacePlot
	width, height int
	scale         float64
}

// NewMonitor constructs an unopened monitor; the chart2d.Chart2D window is
// created lazily on the first Update call, once the mesh bounding box is
// known, the same deferred-construction shape as gocfd's PlotFS.
func NewMonitor(width, height int, scale float64) *Monitor {
	return &Monitor{width: width, height: height, scale: scale}
}

// BuildTriMesh triangulates the physical-space plot-point grid of every
// 2-D element into one avs TriMesh: each (nMpts1D-1)^2 cell of the
// tensor-product Mpts grid becomes two triangles, in the same
// vertex-then-connectivity layout gocfd's CreateAVSGraphMesh produces.
func BuildTriMesh(elements []*element.Element) (graphics2D.TriMesh, error) {
	var tm graphics2D.TriMesh
	for _, el := range elements {
		if el.Params.NDims != 2 {
			return tm, fmt.Errorf("plot: BuildTriMesh supports only 2-D elements, got nDims=%d", el.Params.NDims)
		}
		n := int(math.Round(math.Sqrt(float64(el.Bundle.NMpts))))
		if n*n != el.Bundle.NMpts {
			return tm, fmt.Errorf("plot: element plot grid is not a square tensor-product grid (NMpts=%d)", el.Bundle.NMpts)
		}
		base := int32(len(tm.XY) / 2)
		for _, x := range el.XMpts {
			tm.XY = append(tm.XY, float32(x.X), float32(x.Y))
		}
		for i := 0; i < n-1; i++ {
			for j := 0; j < n-1; j++ {
				v00 := base + int32(i*n+j)
				v01 := base + int32(i*n+j+1)
				v10 := base + int32((i+1)*n+j)
				v11 := base + int32((i+1)*n+j+1)
				tm.TriVerts = append(tm.TriVerts, v00, v10, v11)
				tm.TriVerts = append(tm.TriVerts, v00, v11, v01)
			}
		}
	}
	return tm, nil
}

// ScalarField extracts the plot-point scalar Update colors the mesh by, in
// the same element-major point order BuildTriMesh lays out XY in.
func ScalarField(elements []*element.Element, field Field) []float32 {
	var out []float32
	for _, el := range elements {
		switch field {
		case EntropyErr:
			for _, v := range el.EntropyErrPlot() {
				out = append(out, float32(v))
			}
		default:
			for _, p := range el.PrimitivesPlot() {
				var v float64
				switch {
				case field == Density || len(p) < 4:
					v = p[0]
				case field == VelocityX:
					v = p[1]
				case field == VelocityY:
					v = p[2]
				case field == Pressure:
					v = p[4]
				}
				out = append(out, float32(v))
			}
		}
	}
	return out
}

// Update rebuilds the TriMesh (cheap relative to a solver iteration, and
// correct even when the mesh is moving) and redraws one frame, the same
// per-frame FSurface rebuild gocfd's PlotQ performs every call.
func (m *Monitor) Update(elements []*element.Element, field Field, lineType chart2d.LineType) error {
	tm, err := BuildTriMesh(elements)
	if err != nil {
		return err
	}
	values := ScalarField(elements, field)

	fMin, fMax := float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for _, v := range values {
		if v < fMin {
			fMin = v
		}
		if v > fMax {
			fMax = v
		}
	}
	if fMin > fMax {
		fMin, fMax = 0, 0
	}

	if m.sp == nil {
		box := graphics2D.NewBoundingBox(tm.GetGeometry())
		box = box.Scale(float32(m.scale))
		m.sp = utils.NewSurfacePlot(m.width, m.height, float64(box.XMin[0]), float64(box.XMax[0]), float64(box.XMin[1]), float64(box.XMax[1]), &tm)
	}
	m.sp.GraphicsMesh = &tm
	m.sp.AddColorMap(float64(0.99*fMin), float64(1.01*fMax))

	if err := m.sp.AddFunctionSurface(values, lineType); err != nil {
		return fmt.Errorf("plot: unable to add function surface series: %w", err)
	}
	return nil
}
