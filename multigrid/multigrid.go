// Package multigrid implements the p-multigrid cycle controller spec.md
// §6 places out of core scope. Grounded on gocfd's RK stage-vector
// pattern (`Euler2D.RungeKutta4SSP.Step`'s fixed sequence of smoothing
// sub-stages run across every element of one partition) generalized from
// a single time-integration level to a V-cycle across polynomial-order
// levels: each level is its own `solver.Solver` at a different order, and
// the inter-level transfer reuses `operators.RestartInterpCache`'s
// tensor-product Lagrange operator, the same one the `restart` package
// uses to change an element's order on read.
package multigrid

import (
	"fmt"

	"github.com/flurry-cfd/flurry/element"
	"github.com/flurry-cfd/flurry/operators"
	"github.com/flurry-cfd/flurry/solver"
)

// Level is one polynomial-order level of the V-cycle: its own element set
// (same mesh, same element ordering as every other level, only the order
// differs) and the Solver that smooths it.
type Level struct {
	Order    int
	Elements []*element.Element
	Solver   *solver.Solver
}

// Controller drives a V-cycle across Levels, ordered from finest (index 0)
// to coarsest (last index), matching the PMG configuration key's boolean
// gate spec.md §6 names.
type Controller struct {
	Levels []*Level
	Cache  *operators.RestartInterpCache
}

// NewController builds a multigrid controller over an already-constructed
// set of levels; level i's element i must correspond to the same physical
// cell as level i+1's element i at a different order, the invariant
// Restrict/Prolong rely on.
func NewController(levels []*Level, cache *operators.RestartInterpCache) *Controller {
	return &Controller{Levels: levels, Cache: cache}
}

// Restrict transfers the fine level's solution down to the next-coarser
// level via the tensor-product interpolation operator, element by element.
func (c *Controller) Restrict(fine, coarse *Level) error {
	if len(fine.Elements) != len(coarse.Elements) {
		return fmt.Errorf("multigrid: level element count mismatch (fine=%d, coarse=%d)", len(fine.Elements), len(coarse.Elements))
	}
	for i, fe := range fine.Elements {
		ce := coarse.Elements[i]
		if err := transferU(c.Cache, fe, ce); err != nil {
			return fmt.Errorf("multigrid: restrict element %d: %w", i, err)
		}
	}
	return nil
}

// Prolong transfers the coarse level's solution up to the next-finer
// level, the companion direction to Restrict.
func (c *Controller) Prolong(coarse, fine *Level) error {
	if len(fine.Elements) != len(coarse.Elements) {
		return fmt.Errorf("multigrid: level element count mismatch (fine=%d, coarse=%d)", len(fine.Elements), len(coarse.Elements))
	}
	for i, ce := range coarse.Elements {
		fe := fine.Elements[i]
		if err := transferU(c.Cache, ce, fe); err != nil {
			return fmt.Errorf("multigrid: prolong element %d: %w", i, err)
		}
	}
	return nil
}

// transferU interpolates src's USpts onto dst's solution points via the
// cached (dst_order+1)^d x (src_order+1)^d tensor-product operator,
// leaving dst's USpts overwritten and src untouched.
func transferU(cache *operators.RestartInterpCache, src, dst *element.Element) error {
	if src.Order == dst.Order {
		for i := range dst.USpts {
			copy(dst.USpts[i], src.USpts[i])
		}
		return nil
	}
	op, err := cache.Get(src.Type, src.Order, dst.Order)
	if err != nil {
		return err
	}
	nRows, nCols := op.Dims()
	nf := dst.Params.NFields()
	for i := 0; i < nRows; i++ {
		for k := 0; k < nf; k++ {
			var v float64
			for j := 0; j < nCols; j++ {
				v += op.At(i, j) * src.USpts[j][k]
			}
			dst.USpts[i][k] = v
		}
	}
	return nil
}

// VCycle runs one standard V-cycle: nPre smoothing updates at every level
// on the way down, a direct solve (nPost updates) at the coarsest level,
// then nPost smoothing updates at every level on the way back up, with
// Restrict/Prolong at each level transition.
func (c *Controller) VCycle(nPre, nPost int) error {
	n := len(c.Levels)
	if n == 0 {
		return nil
	}
	for i := 0; i < n-1; i++ {
		level := c.Levels[i]
		for s := 0; s < nPre; s++ {
			if err := level.Solver.Update(); err != nil {
				return fmt.Errorf("multigrid: pre-smooth level %d: %w", i, err)
			}
		}
		if err := c.Restrict(level, c.Levels[i+1]); err != nil {
			return err
		}
	}

	coarsest := c.Levels[n-1]
	for s := 0; s < nPre+nPost; s++ {
		if err := coarsest.Solver.Update(); err != nil {
			return fmt.Errorf("multigrid: coarse solve: %w", err)
		}
	}

	for i := n - 2; i >= 0; i-- {
		if err := c.Prolong(c.Levels[i+1], c.Levels[i]); err != nil {
			return err
		}
		level := c.Levels[i]
		for s := 0; s < nPost; s++ {
			if err := level.Solver.Update(); err != nil {
				return fmt.Errorf("multigrid: post-smooth level %d: %w", i, err)
			}
		}
	}
	return nil
}
