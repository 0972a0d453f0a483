package utils

import (
	"image/color"

	"github.com/notargets/avs/functions"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	graphics2D "github.com/notargets/avs/geometry"
)

// SurfacePlot wraps an avs Chart2D/ColorMap/TriMesh triple for a live 2-D
// field plot, the shape plot.Monitor drives once per diagnostic frame.
type SurfacePlot struct {
	Chart        *chart2d.Chart2D
	ColorMap     *utils2.ColorMap
	GraphicsMesh *graphics2D.TriMesh
}

// NewSurfacePlot opens a chart window over the given physical bounding box
// and starts its render loop; GraphicsMesh is set once here and may be
// swapped out by the caller every frame (a moving mesh rebuilds its
// triangulation each iteration).
func NewSurfacePlot(width, height int, xmin, xmax, ymin, ymax float64, gm *graphics2D.TriMesh) (sp *SurfacePlot) {
	sp = &SurfacePlot{
		Chart:        chart2d.NewChart2D(width, height, float32(xmin), float32(xmax), float32(ymin), float32(ymax)),
		GraphicsMesh: gm,
	}
	go sp.Chart.Plot()
	return
}

// AddColorMap installs the scalar-to-color range for the next
// AddFunctionSurface call.
func (sp *SurfacePlot) AddColorMap(fmin, fmax float64) {
	sp.ColorMap = utils2.NewColorMap(float32(fmin), float32(fmax), 1.)
}

// AddFunctionSurface draws field (one value per GraphicsMesh vertex) as a
// shaded surface, returning an error instead of panicking on an avs
// rejection so a live-plot frame failure never aborts the run it is
// monitoring.
func (sp *SurfacePlot) AddFunctionSurface(field []float32, lineType chart2d.LineType) error {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 1}
	fs := functions.NewFSurface(sp.GraphicsMesh, [][]float32{field}, 0)
	return sp.Chart.AddFunctionSurface("FSurface", *fs, lineType, white)
}
