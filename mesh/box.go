package mesh

import (
	"fmt"

	"github.com/flurry-cfd/flurry/geometry"
	"github.com/flurry-cfd/flurry/utils"
)

// NewBox builds a structured Cartesian quad (nz==0) or hex (nz>0) mesh
// over [xmin,xmax]x[ymin,ymax](x[zmin,zmax]), the meshType=1 "create"
// configuration path spec.md §6's mesh-creation box names. No box
// generator exists anywhere in the retrieved pack (gocfd only reads
// Gambit/SU2 files); this is the direct, minimal nested-loop construction
// every other mesh.New caller already builds its VX/EToV from.
func NewBox(nx, ny, nz int, xmin, xmax, ymin, ymax, zmin, zmax float64) (*Mesh, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("mesh: box requires nx,ny >= 1, got nx=%d ny=%d", nx, ny)
	}
	if nz == 0 {
		return newBox2D(nx, ny, xmin, xmax, ymin, ymax), nil
	}
	if nz < 1 {
		return nil, fmt.Errorf("mesh: box requires nz >= 1 when 3-D, got nz=%d", nz)
	}
	return newBox3D(nx, ny, nz, xmin, xmax, ymin, ymax, zmin, zmax), nil
}

func newBox2D(nx, ny int, xmin, xmax, ymin, ymax float64) *Mesh {
	npx, npy := nx+1, ny+1
	vx := make([]geometry.Point, npx*npy)
	idx := func(i, j int) int { return j*npx + i }
	for j := 0; j < npy; j++ {
		y := ymin + (ymax-ymin)*float64(j)/float64(ny)
		for i := 0; i < npx; i++ {
			x := xmin + (xmax-xmin)*float64(i)/float64(nx)
			vx[idx(i, j)] = geometry.Point{X: x, Y: y}
		}
	}
	eToV := make([][]int, 0, nx*ny)
	cellIdx := func(i, j int) int { return j*nx + i }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			eToV = append(eToV, []int{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}
	m := New(2, utils.Quad, vx, eToV)
	tagBoxBoundary2D(m, nx, ny, cellIdx)
	return m
}

// tagBoxBoundary2D tags every exterior face of a structured quad box with
// the side it sits on ("xmin", "xmax", "ymin", "ymax"), a default a
// RunDeck's BCs block can override per-tag; the box layout already fixes
// which corner pair each local face connects (0-1 ymin, 1-2 xmax,
// 2-3 ymax, 3-0 xmin, matching utils.GetElementFaces' quad ordering).
func tagBoxBoundary2D(m *Mesh, nx, ny int, cellIdx func(i, j int) int) {
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			c := cellIdx(i, j)
			if j == 0 {
				m.TagBoundary(c, 0, "ymin")
			}
			if i == nx-1 {
				m.TagBoundary(c, 1, "xmax")
			}
			if j == ny-1 {
				m.TagBoundary(c, 2, "ymax")
			}
			if i == 0 {
				m.TagBoundary(c, 3, "xmin")
			}
		}
	}
}

func newBox3D(nx, ny, nz int, xmin, xmax, ymin, ymax, zmin, zmax float64) *Mesh {
	npx, npy, npz := nx+1, ny+1, nz+1
	vx := make([]geometry.Point, npx*npy*npz)
	idx := func(i, j, k int) int { return (k*npy+j)*npx + i }
	for k := 0; k < npz; k++ {
		z := zmin + (zmax-zmin)*float64(k)/float64(nz)
		for j := 0; j < npy; j++ {
			y := ymin + (ymax-ymin)*float64(j)/float64(ny)
			for i := 0; i < npx; i++ {
				x := xmin + (xmax-xmin)*float64(i)/float64(nx)
				vx[idx(i, j, k)] = geometry.Point{X: x, Y: y, Z: z}
			}
		}
	}
	eToV := make([][]int, 0, nx*ny*nz)
	cellIdx := func(i, j, k int) int { return (k*ny+j)*nx + i }
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				eToV = append(eToV, []int{
					idx(i, j, k), idx(i+1, j, k), idx(i+1, j+1, k), idx(i, j+1, k),
					idx(i, j, k+1), idx(i+1, j, k+1), idx(i+1, j+1, k+1), idx(i, j+1, k+1),
				})
			}
		}
	}
	m := New(3, utils.Hex, vx, eToV)
	tagBoxBoundary3D(m, nx, ny, nz, cellIdx)
	return m
}

// tagBoxBoundary3D mirrors tagBoxBoundary2D for the hex box, using
// utils.GetElementFaces' hex face ordering (0 zmin, 1 zmax, 2 ymin,
// 3 xmax, 4 ymax, 5 xmin for this box's corner layout).
func tagBoxBoundary3D(m *Mesh, nx, ny, nz int, cellIdx func(i, j, k int) int) {
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := cellIdx(i, j, k)
				if k == 0 {
					m.TagBoundary(c, 0, "zmin")
				}
				if k == nz-1 {
					m.TagBoundary(c, 1, "zmax")
				}
				if j == 0 {
					m.TagBoundary(c, 2, "ymin")
				}
				if i == nx-1 {
					m.TagBoundary(c, 3, "xmax")
				}
				if j == ny-1 {
					m.TagBoundary(c, 4, "ymax")
				}
				if i == 0 {
					m.TagBoundary(c, 5, "xmin")
				}
			}
		}
	}
}
