package densemat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMat2(t *testing.T) {
	m := Mat2{{2, 0}, {0, 3}}
	assert.InDelta(t, 6.0, m.Det(), 1e-14)
	adj := m.Adjoint()
	assert.Equal(t, Mat2{{3, 0}, {0, 2}}, adj)
	// Adjoint * m == Det(m) * Identity
	p := adj.Mul(m)
	assert.InDelta(t, m.Det(), p[0][0], 1e-14)
	assert.InDelta(t, m.Det(), p[1][1], 1e-14)
	assert.InDelta(t, 0, p[0][1], 1e-14)
}

func TestMat3(t *testing.T) {
	m := Mat3{
		{2, 1, 0},
		{1, 3, 1},
		{0, 1, 4},
	}
	adj := m.Adjoint()
	p := adj.Mul(m)
	det := m.Det()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = det
			}
			assert.InDelta(t, want, p[i][j], 1e-12)
		}
	}
}

func TestMat4Identity(t *testing.T) {
	m := Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	assert.InDelta(t, 1.0, m.Det(), 1e-14)
	assert.Equal(t, m, m.Adjoint())
}

func TestMat4Random(t *testing.T) {
	m := Mat4{
		{4, 3, 2, 1},
		{1, 5, 0, 2},
		{0, 1, 6, 3},
		{2, 0, 1, 7},
	}
	adj := m.Adjoint()
	p := adj.Mul(m)
	det := m.Det()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = det
			}
			assert.InDelta(t, want, p[i][j], 1e-9)
		}
	}
}

func TestSpaceTime2D(t *testing.T) {
	j := Mat2{{1, 0}, {0, 1}}
	st := SpaceTime2D(j, [2]float64{0.5, -0.25})
	assert.Equal(t, Mat3{
		{1, 0, 0.5},
		{0, 1, -0.25},
		{0, 0, 1},
	}, st)
}
