package geometry

import (
	"fmt"

	"github.com/flurry-cfd/flurry/utils"
)

// Shape evaluates the isoparametric nodal shape functions of an element's
// geometric node set (corner nodes only -- Flurry maps geometry with a
// straight-sided Q1/tri3 mapping and lets the solution polynomial carry the
// high order) and their reference-space derivatives.
type Shape interface {
	Type() utils.ElementType
	NumNodes() int
	Eval(r [3]float64) []float64
	Grad(r [3]float64) [][3]float64
}

// ShapeFor returns the shape-function table for an element type, per
// spec.md's design note that tri is partially supported and unknown types
// are a fatal setup error (never silently defaulting to quad, the bug
// flagged against getRefLocNewton in DESIGN.md).
func ShapeFor(t utils.ElementType) (Shape, error) {
	switch t {
	case utils.Quad:
		return quadShape{}, nil
	case utils.Hex:
		return hexShape{}, nil
	case utils.Triangle:
		return triShape{}, nil
	default:
		return nil, fmt.Errorf("geometry: unsupported element type %s for shape functions", t)
	}
}

type quadShape struct{}

func (quadShape) Type() utils.ElementType { return utils.Quad }
func (quadShape) NumNodes() int           { return 4 }

// Node ordering matches utils.GetElementFaces' Quad convention: (-1,-1),
// (1,-1), (1,1), (-1,1).
func (quadShape) Eval(r [3]float64) []float64 {
	xi, eta := r[0], r[1]
	return []float64{
		0.25 * (1 - xi) * (1 - eta),
		0.25 * (1 + xi) * (1 - eta),
		0.25 * (1 + xi) * (1 + eta),
		0.25 * (1 - xi) * (1 + eta),
	}
}

func (quadShape) Grad(r [3]float64) [][3]float64 {
	xi, eta := r[0], r[1]
	return [][3]float64{
		{-0.25 * (1 - eta), -0.25 * (1 - xi), 0},
		{0.25 * (1 - eta), -0.25 * (1 + xi), 0},
		{0.25 * (1 + eta), 0.25 * (1 + xi), 0},
		{-0.25 * (1 + eta), 0.25 * (1 - xi), 0},
	}
}

type hexShape struct{}

func (hexShape) Type() utils.ElementType { return utils.Hex }
func (hexShape) NumNodes() int           { return 8 }

// Node ordering matches the bottom-face-then-top-face convention used by
// utils.GetElementFaces for Hex: 0-3 bottom (CCW from -1,-1,-1), 4-7 top.
var hexNodeSigns = [8][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

func (hexShape) Eval(r [3]float64) []float64 {
	out := make([]float64, 8)
	for i, s := range hexNodeSigns {
		out[i] = 0.125 * (1 + s[0]*r[0]) * (1 + s[1]*r[1]) * (1 + s[2]*r[2])
	}
	return out
}

func (hexShape) Grad(r [3]float64) [][3]float64 {
	out := make([][3]float64, 8)
	for i, s := range hexNodeSigns {
		out[i] = [3]float64{
			0.125 * s[0] * (1 + s[1]*r[1]) * (1 + s[2]*r[2]),
			0.125 * s[1] * (1 + s[0]*r[0]) * (1 + s[2]*r[2]),
			0.125 * s[2] * (1 + s[0]*r[0]) * (1 + s[1]*r[1]),
		}
	}
	return out
}

type triShape struct{}

func (triShape) Type() utils.ElementType { return utils.Triangle }
func (triShape) NumNodes() int           { return 3 }

// Barycentric-coordinate linear shape functions on the reference triangle
// with vertices (-1,-1), (1,-1), (-1,1), consistent with gocfd's DG2D
// simplex convention.
func (triShape) Eval(r [3]float64) []float64 {
	xi, eta := r[0], r[1]
	return []float64{
		-0.5 * (xi + eta),
		0.5 * (1 + xi),
		0.5 * (1 + eta),
	}
}

func (triShape) Grad(r [3]float64) [][3]float64 {
	return [][3]float64{
		{-0.5, -0.5, 0},
		{0.5, 0, 0},
		{0, 0.5, 0},
	}
}
