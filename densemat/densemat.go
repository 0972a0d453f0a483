// Package densemat implements small fixed-dimension dense matrices used for
// per-point geometric transforms (Jacobians and their cofactor adjoints).
// Sizes are fixed at 2x2, 3x3 and 4x4 -- the largest a (d+1)x(d+1)
// space-time Jacobian ever needs for d in {2,3} -- so values live on the
// stack and are cheap to compute at every solution and flux point.
package densemat

import "fmt"

// Mat2 is a row-major 2x2 matrix.
type Mat2 [2][2]float64

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Mat4 is a row-major 4x4 matrix.
type Mat4 [4][4]float64

func (m Mat2) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Adjoint returns the matrix of cofactors, i.e. Det(m)*Inverse(m).
func (m Mat2) Adjoint() Mat2 {
	return Mat2{
		{m[1][1], -m[0][1]},
		{-m[1][0], m[0][0]},
	}
}

func (m Mat2) Mul(o Mat2) (r Mat2) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var s float64
			for k := 0; k < 2; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return
}

func (m Mat2) MulVec(v [2]float64) (r [2]float64) {
	r[0] = m[0][0]*v[0] + m[0][1]*v[1]
	r[1] = m[1][0]*v[0] + m[1][1]*v[1]
	return
}

func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Adjoint returns the transpose of the cofactor matrix, i.e. Det(m)*Inverse(m).
func (m Mat3) Adjoint() Mat3 {
	cof := func(r0, r1, c0, c1 int) float64 {
		return m[r0][c0]*m[r1][c1] - m[r0][c1]*m[r1][c0]
	}
	var a Mat3
	a[0][0] = cof(1, 2, 1, 2)
	a[0][1] = -cof(0, 2, 1, 2)
	a[0][2] = cof(0, 1, 1, 2)
	a[1][0] = -cof(1, 2, 0, 2)
	a[1][1] = cof(0, 2, 0, 2)
	a[1][2] = -cof(0, 1, 0, 2)
	a[2][0] = cof(1, 2, 0, 1)
	a[2][1] = -cof(0, 2, 0, 1)
	a[2][2] = cof(0, 1, 0, 1)
	// Adjoint (adjugate) is the transpose of the cofactor matrix.
	return Mat3{
		{a[0][0], a[1][0], a[2][0]},
		{a[0][1], a[1][1], a[2][1]},
		{a[0][2], a[1][2], a[2][2]},
	}
}

func (m Mat3) Mul(o Mat3) (r Mat3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return
}

func (m Mat3) MulVec(v [3]float64) (r [3]float64) {
	for i := 0; i < 3; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return
}

// Det via cofactor expansion along the first row, using 3x3 minors.
func (m Mat4) Det() float64 {
	minor3 := func(skipRow, skipCol int) Mat3 {
		var out Mat3
		oi := 0
		for i := 0; i < 4; i++ {
			if i == skipRow {
				continue
			}
			oj := 0
			for j := 0; j < 4; j++ {
				if j == skipCol {
					continue
				}
				out[oi][oj] = m[i][j]
				oj++
			}
			oi++
		}
		return out
	}
	var det float64
	sign := 1.0
	for j := 0; j < 4; j++ {
		det += sign * m[0][j] * minor3(0, j).Det()
		sign = -sign
	}
	return det
}

// Adjoint returns the transpose of the cofactor matrix, i.e. Det(m)*Inverse(m).
func (m Mat4) Adjoint() Mat4 {
	minor3 := func(skipRow, skipCol int) Mat3 {
		var out Mat3
		oi := 0
		for i := 0; i < 4; i++ {
			if i == skipRow {
				continue
			}
			oj := 0
			for j := 0; j < 4; j++ {
				if j == skipCol {
					continue
				}
				out[oi][oj] = m[i][j]
				oj++
			}
			oi++
		}
		return out
	}
	var cof Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sign := 1.0
			if (i+j)%2 == 1 {
				sign = -1.0
			}
			cof[i][j] = sign * minor3(i, j).Det()
		}
	}
	var adj Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			adj[i][j] = cof[j][i]
		}
	}
	return adj
}

func (m Mat4) Mul(o Mat4) (r Mat4) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return
}

func (m Mat4) MulVec(v [4]float64) (r [4]float64) {
	for i := 0; i < 4; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2] + m[i][3]*v[3]
	}
	return
}

// SpaceTime2D augments a 2x2 spatial Jacobian with a time column of grid
// velocity and a 1 in the time diagonal, per the standard geometric
// conservation law treatment used when the mesh deforms.
func SpaceTime2D(j Mat2, gridVel [2]float64) Mat3 {
	return Mat3{
		{j[0][0], j[0][1], gridVel[0]},
		{j[1][0], j[1][1], gridVel[1]},
		{0, 0, 1},
	}
}

// SpaceTime3D augments a 3x3 spatial Jacobian the same way, for d=3.
func SpaceTime3D(j Mat3, gridVel [3]float64) Mat4 {
	return Mat4{
		{j[0][0], j[0][1], j[0][2], gridVel[0]},
		{j[1][0], j[1][1], j[1][2], gridVel[1]},
		{j[2][0], j[2][1], j[2][2], gridVel[2]},
		{0, 0, 0, 1},
	}
}

// ErrSingular reports a non-positive determinant found where a geometric
// transform requires strict positivity (spec.md invariant 1).
type ErrSingular struct {
	Det   float64
	Where string
}

func (e *ErrSingular) Error() string {
	return fmt.Sprintf("non-positive Jacobian determinant %g at %s", e.Det, e.Where)
}
