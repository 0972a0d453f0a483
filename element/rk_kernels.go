package element

// TimeStepA sets U <- U0 - a*dt*divF[stage]/detJ, the intermediate-stage
// RK update spec.md §4.1 describes, called for stages 0..S-2.
func (e *Element) TimeStepA(stage int, a float64) {
	e.timeStepACore(stage, a, nil)
}

// TimeStepASrc is TimeStepA with a prescribed source term added inside the
// parentheses, the p-multigrid-forcing variant spec.md §4.1 calls for.
func (e *Element) TimeStepASrc(stage int, a float64, srcSpts [][]float64) {
	e.timeStepACore(stage, a, srcSpts)
}

func (e *Element) timeStepACore(stage int, a float64, srcSpts [][]float64) {
	dt := e.DtLocal
	for i := range e.USpts {
		detJ := e.DetJacSpts[i]
		div := e.DivFSpts[stage][i]
		for k := range e.USpts[i] {
			term := div[k] / detJ
			if srcSpts != nil {
				term -= srcSpts[i][k]
			}
			e.USpts[i][k] = e.U0[i][k] - a*dt*term
		}
	}
}

// TimeStepB accumulates U <- U - b*dt*divF[stage]/detJ, the final-stage RK
// update spec.md §4.1 describes; it is called once per stage with every
// stage's own b coefficient after U has been restored to U0.
func (e *Element) TimeStepB(stage int, b float64) {
	e.timeStepBCore(stage, b, nil)
}

// TimeStepBSrc is TimeStepB with a prescribed source term, the
// p-multigrid-forcing variant.
func (e *Element) TimeStepBSrc(stage int, b float64, srcSpts [][]float64) {
	e.timeStepBCore(stage, b, srcSpts)
}

func (e *Element) timeStepBCore(stage int, b float64, srcSpts [][]float64) {
	dt := e.DtLocal
	for i := range e.USpts {
		detJ := e.DetJacSpts[i]
		div := e.DivFSpts[stage][i]
		for k := range e.USpts[i] {
			term := div[k] / detJ
			if srcSpts != nil {
				term -= srcSpts[i][k]
			}
			e.USpts[i][k] -= b * dt * term
		}
	}
}

// SnapshotU0 copies the current solution into U0, the beginning-of-step
// state every RK stage's timeStepA update measures from.
func (e *Element) SnapshotU0() {
	copyRows(e.U0, e.USpts)
}

// RestoreU0 copies U0 back into the solution, the reset TimeStepB's
// accumulation runs from after the final RK stage.
func (e *Element) RestoreU0() {
	copyRows(e.USpts, e.U0)
}
