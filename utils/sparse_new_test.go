package utils

import (
	"fmt"
	"math"
	"testing"
)

// almostEqual returns true if a and b differ by less than tol.
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestNewMatrix(t *testing.T) {
	// Create a 2x3 matrix using NewMatrix.
	m := NewMatrix(2, 3)
	r, c := m.Dims()
	if r != 2 || c != 3 {
		t.Errorf("NewMatrix dims expected (2,3), got (%d,%d)", r, c)
	}
	if len(m.DataP) < 6 {
		t.Errorf("NewMatrix underlying data length expected at least 6, got %d", len(m.DataP))
	}
}

func TestTranspose(t *testing.T) {
	// Create a 2x3 matrix and fill it with known values.
	m := NewMatrix(2, 3)
	m.M.Set(0, 0, 1)
	m.M.Set(0, 1, 2)
	m.M.Set(0, 2, 3)
	m.M.Set(1, 0, 4)
	m.M.Set(1, 1, 5)
	m.M.Set(1, 2, 6)

	// Transpose m.
	tm := m.Transpose()
	r, c := tm.Dims()
	if r != 3 || c != 2 {
		t.Errorf("Transpose dims expected (3,2), got (%d,%d)", r, c)
	}
	// Expected transpose is:
	// [1,4]
	// [2,5]
	// [3,6]
	expected := [][]float64{
		{1, 4},
		{2, 5},
		{3, 6},
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			got := tm.M.At(i, j)
			if !almostEqual(got, expected[i][j], 1e-6) {
				t.Errorf("Transpose: at (%d,%d), got %v, want %v", i, j, got, expected[i][j])
			}
		}
	}
}

func TestMul(t *testing.T) {
	// Test multiplication: m (2x3) * A (3x2) should yield a 2x2 matrix.
	m := NewMatrix(2, 3)
	A := NewMatrix(3, 2)
	// Fill m with [1,2,3; 4,5,6]
	m.M.Set(0, 0, 1)
	m.M.Set(0, 1, 2)
	m.M.Set(0, 2, 3)
	m.M.Set(1, 0, 4)
	m.M.Set(1, 1, 5)
	m.M.Set(1, 2, 6)
	// Fill A with [7,8; 9,10; 11,12]
	A.M.Set(0, 0, 7)
	A.M.Set(0, 1, 8)
	A.M.Set(1, 0, 9)
	A.M.Set(1, 1, 10)
	A.M.Set(2, 0, 11)
	A.M.Set(2, 1, 12)

	prod := m.Mul(A)
	// Expected product is:
	// [1*7+2*9+3*11, 1*8+2*10+3*12] = [58, 64]
	// [4*7+5*9+6*11, 4*8+5*10+6*12] = [139, 154]
	expected := [][]float64{
		{58, 64},
		{139, 154},
	}
	r, c := prod.Dims()
	if r != 2 || c != 2 {
		t.Errorf("Mul dims expected (2,2), got (%d,%d)", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			got := prod.M.At(i, j)
			if !almostEqual(got, expected[i][j], 1e-6) {
				t.Errorf("Mul: at (%d,%d), got %v, want %v", i, j, got, expected[i][j])
			}
		}
	}
}

func TestAdd(t *testing.T) {
	// Test addition: add two 2x2 matrices.
	m := NewMatrix(2, 2)
	A := NewMatrix(2, 2)
	// m = [1,2; 3,4]
	m.M.Set(0, 0, 1)
	m.M.Set(0, 1, 2)
	m.M.Set(1, 0, 3)
	m.M.Set(1, 1, 4)
	// A = [5,6; 7,8]
	A.M.Set(0, 0, 5)
	A.M.Set(0, 1, 6)
	A.M.Set(1, 0, 7)
	A.M.Set(1, 1, 8)

	sum := m.Add(A)
	// Expected sum = [6,8;10,12]
	expected := [][]float64{
		{6, 8},
		{10, 12},
	}
	r, c := sum.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			got := sum.M.At(i, j)
			if !almostEqual(got, expected[i][j], 1e-6) {
				t.Errorf("Add: at (%d,%d), got %v, want %v", i, j, got, expected[i][j])
			}
		}
	}
}

func TestSubMatrix(t *testing.T) {
	// Create a 4x4 matrix with values 1..16 (row-major).
	m := NewMatrix(4, 4)
	for i := 0; i < 16; i++ {
		m.DataP[i] = float64(i + 1)
	}
	// Extract a 2x2 submatrix starting at row 1, col 1.
	// For the matrix:
	//  1  2  3  4
	//  5  6  7  8
	//  9 10 11 12
	// 13 14 15 16
	// The submatrix should be:
	// [6,7;10,11]
	sub := m.SubMatrix(1, 1, 2, 2)
	expected := [][]float64{
		{6, 7},
		{10, 11},
	}
	r, c := sub.Dims()
	if r != 2 || c != 2 {
		t.Errorf("SubMatrix dims expected (2,2), got (%d,%d)", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			got := sub.M.At(i, j)
			if !almostEqual(got, expected[i][j], 1e-6) {
				t.Errorf("SubMatrix: at (%d,%d), got %v, want %v", i, j, got, expected[i][j])
			}
		}
	}
}

func TestNewMatrixFromData(t *testing.T) {
	// Preallocate a large buffer for a 2x2 block.
	data := make([]float64, 4)
	// Fill the buffer with known values.
	data[0] = 1.1
	data[1] = 1.2
	data[2] = 2.1
	data[3] = 2.2

	// Create a Matrix that uses this buffer.
	m := NewMatrixFromData(2, 2, data)
	fmt.Println("Matrix m:")
	m.M.Apply(func(i, j int, v float64) float64 {
		return v
	}, m.M)
	// You can use your existing Print method instead.
	m.Print("Matrix m")

	// Now modify the underlying slice.
	data[0] = 9.9
	data[3] = 8.8
	// The change is visible in m.
	m.Print("Matrix m after modifying underlying data")
}
