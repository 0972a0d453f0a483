package mesh

import (
	"testing"

	"github.com/flurry-cfd/flurry/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBox2DVertexAndCellCounts(t *testing.T) {
	m, err := NewBox(2, 3, 0, 0, 2, 0, 3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, utils.Quad, m.Type)
	assert.Equal(t, 2, m.NDims)
	assert.Len(t, m.VX, 3*4)
	assert.Len(t, m.EToV, 2*3)
	for _, c := range m.EToV {
		assert.Len(t, c, 4)
	}
}

func TestNewBox3DVertexAndCellCounts(t *testing.T) {
	m, err := NewBox(2, 2, 2, 0, 1, 0, 1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, utils.Hex, m.Type)
	assert.Equal(t, 3, m.NDims)
	assert.Len(t, m.VX, 3*3*3)
	assert.Len(t, m.EToV, 2*2*2)
	for _, c := range m.EToV {
		assert.Len(t, c, 8)
	}
}

func TestNewBoxRejectsBadDims(t *testing.T) {
	_, err := NewBox(0, 1, 0, 0, 1, 0, 1, 0, 0)
	assert.Error(t, err)

	_, err = NewBox(1, 1, -1, 0, 1, 0, 1, 0, 1)
	assert.Error(t, err)
}

func TestNewBoxCornersMatchBounds(t *testing.T) {
	m, err := NewBox(1, 1, 0, -2, 2, -1, 1, 0, 0)
	require.NoError(t, err)
	corner := m.VX[0]
	assert.Equal(t, -2.0, corner.X)
	assert.Equal(t, -1.0, corner.Y)
	far := m.VX[len(m.VX)-1]
	assert.Equal(t, 2.0, far.X)
	assert.Equal(t, 1.0, far.Y)
}
