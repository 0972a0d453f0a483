package operators

import (
	"fmt"
	"sync"

	"github.com/flurry-cfd/flurry/basis"
	"github.com/flurry-cfd/flurry/utils"
)

// RestartInterpCache holds the (p_new+1)^d x (p_old+1)^d tensor-product
// Lagrange operators spec.md §6 requires for restart order changes,
// keyed by (type, p_old, p_new) so repeated restarts of the same pair
// reuse the built operator.
type RestartInterpCache struct {
	kind basis.PointSet
	mu   sync.Mutex
	byKey map[restartKey]utils.Matrix
}

type restartKey struct {
	etype          utils.ElementType
	oldOrd, newOrd int
}

func NewRestartInterpCache(kind basis.PointSet) *RestartInterpCache {
	return &RestartInterpCache{kind: kind, byKey: make(map[restartKey]utils.Matrix)}
}

// Get returns the operator taking nodal values on the old order's
// solution points to the new order's solution points.
func (c *RestartInterpCache) Get(etype utils.ElementType, oldOrd, newOrd int) (utils.Matrix, error) {
	k := restartKey{etype, oldOrd, newOrd}
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.byKey[k]; ok {
		return m, nil
	}
	nDims := etype.GetDimension()
	if nDims != 2 && nDims != 3 {
		return utils.Matrix{}, fmt.Errorf("operators: restart interpolation unsupported for element type %s", etype)
	}
	oldNodes := basis.Points(oldOrd+1, c.kind)
	newNodes := basis.Points(newOrd+1, c.kind)
	lag := basis.NewLagrange1D(oldNodes)

	oldIdx := tensorIndices(nDims, oldOrd+1)
	newIdx := tensorIndices(nDims, newOrd+1)
	m := utils.NewMatrix(len(newIdx), len(oldIdx))
	for i, ni := range newIdx {
		r := make([]float64, nDims)
		for d := 0; d < nDims; d++ {
			r[d] = newNodes[ni[d]]
		}
		row := evalTensorLagrangeAt(lag, r, nDims)
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	m.SetReadOnly(fmt.Sprintf("restartInterp[%s,%d->%d]", etype, oldOrd, newOrd))
	c.byKey[k] = m
	return m, nil
}
