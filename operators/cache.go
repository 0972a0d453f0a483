package operators

import (
	"fmt"
	"sync"

	"github.com/flurry-cfd/flurry/basis"
	"github.com/flurry-cfd/flurry/utils"
)

// Cache is the two-level (element-type, order) operator table: built
// lazily on first observation of a pair and read-only thereafter, per
// spec.md §9's design note. Owned by the Solver and borrowed by Element
// kernels during every residual stage.
type Cache struct {
	kind basis.PointSet
	mu   sync.RWMutex
	byKey map[key]*Bundle
}

type key struct {
	etype utils.ElementType
	order int
}

// NewCache creates an empty cache keyed on the configured solution-point
// distribution (Legendre or Lobatto).
func NewCache(kind basis.PointSet) *Cache {
	return &Cache{kind: kind, byKey: make(map[key]*Bundle)}
}

// Get returns the operator bundle for (etype, order), building it on the
// first request and reusing it on every later one.
func (c *Cache) Get(etype utils.ElementType, order int) (*Bundle, error) {
	k := key{etype, order}
	c.mu.RLock()
	b, ok := c.byKey[k]
	c.mu.RUnlock()
	if ok {
		return b, nil
	}

	nDims := etype.GetDimension()
	if nDims != 2 && nDims != 3 {
		return nil, fmt.Errorf("operators: element type %s has unsupported dimension %d for FR operators", etype, nDims)
	}
	if etype != utils.Quad && etype != utils.Hex {
		return nil, fmt.Errorf("operators: unsupported element type %s (only quad and hex are fully implemented)", etype)
	}

	built, err := NewBundle(nDims, order, c.kind)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.byKey[k]; ok {
		return existing, nil
	}
	c.byKey[k] = built
	return built, nil
}

// Observed returns every (type, order) pair already built.
func (c *Cache) Observed() []utils.ElementType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[utils.ElementType]bool)
	var out []utils.ElementType
	for k := range c.byKey {
		if !seen[k.etype] {
			seen[k.etype] = true
			out = append(out, k.etype)
		}
	}
	return out
}
