// Package geometry implements shape functions, the reference-to-physical
// transform, and the reference-location search used to place a query point
// inside an element's reference space. It generalizes gocfd's
// geometry2D.Point/BoundingBox (float32, ℝ²) to float64 ℝ³, since Flurry
// runs both 2-D and 3-D meshes through the same element/face machinery.
package geometry

import "math"

// Point is a spatial coordinate in ℝ³; 2-D geometry sets Z=0.
type Point struct {
	X, Y, Z float64
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y, p.Z + o.Z} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y, p.Z - o.Z} }
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y + p.Z*o.Z
}

func (p Point) Cross(o Point) Point {
	return Point{
		p.Y*o.Z - p.Z*o.Y,
		p.Z*o.X - p.X*o.Z,
		p.X*o.Y - p.Y*o.X,
	}
}

func (p Point) Norm() float64 { return math.Sqrt(p.Dot(p)) }

// BoundingBox is the axis-aligned extent of a point set, used by
// RefLocNewton to reject physical queries outside an element's envelope
// before spending iterations on a doomed Newton solve.
type BoundingBox struct {
	Min, Max Point
}

func NewBoundingBox(pts []Point) BoundingBox {
	bb := BoundingBox{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		bb.Min.X = math.Min(bb.Min.X, p.X)
		bb.Min.Y = math.Min(bb.Min.Y, p.Y)
		bb.Min.Z = math.Min(bb.Min.Z, p.Z)
		bb.Max.X = math.Max(bb.Max.X, p.X)
		bb.Max.Y = math.Max(bb.Max.Y, p.Y)
		bb.Max.Z = math.Max(bb.Max.Z, p.Z)
	}
	return bb
}

// Contains reports whether p lies within the box grown by margin on every side.
func (bb BoundingBox) Contains(p Point, margin float64) bool {
	return p.X >= bb.Min.X-margin && p.X <= bb.Max.X+margin &&
		p.Y >= bb.Min.Y-margin && p.Y <= bb.Max.Y+margin &&
		p.Z >= bb.Min.Z-margin && p.Z <= bb.Max.Z+margin
}

// SmallestExtent returns the smallest of the box's (active) side lengths,
// the `h` used by the Newton tolerance 1e-12*h.
func (bb BoundingBox) SmallestExtent(nDims int) float64 {
	dx := bb.Max.X - bb.Min.X
	dy := bb.Max.Y - bb.Min.Y
	h := math.Min(dx, dy)
	if nDims == 3 {
		dz := bb.Max.Z - bb.Min.Z
		h = math.Min(h, dz)
	}
	if h <= 0 {
		return 1
	}
	return h
}
