// Package transport implements the process-level parallelism spec.md §5
// names: MPI-partition trace exchange (communicate()/communicateGrad() on
// each MPI face) and the collective reductions a stage blocks on for
// global-minimum dt and residual/error norms. Grounded on gocfd's
// Euler2D.Solve/RungeKutta4SSP.Step/ParallelEdgeUpdate fan-out pattern --
// goroutines over a fixed partition count, a single sync.WaitGroup
// barrier, then a sequential reduce -- generalized from a single mesh's
// edge-key exchange to the opaque per-face trace buffers face.Face already
// carries for its MPIFace variant. Ranks here are goroutines within one
// process rather than real MPI ranks; see DESIGN.md's Open Question on why
// no MPI binding is wired in.
package transport

import (
	"sync"

	"github.com/flurry-cfd/flurry/face"
	"github.com/flurry-cfd/flurry/utils"
)

// Rank is one participant's share of the Group's collective operations:
// its own MPI faces, in the local-index order its peers address via
// face.Face.RemoteFaceID.
type Rank struct {
	ID    int
	Faces []*face.Face // Kind == face.MPIFace, indexed by this rank's local face id
}

// traceMsg is one face's packed trace buffer in flight between ranks,
// generalizing gocfd's NeighborMsg (a same-mesh element-id pair) to an
// opaque payload keyed by the receiving rank's own local face index --
// the index the sender already knows as that face's RemoteFaceID.
type traceMsg struct {
	faceID int
	values [][]float64
}

// gradMsg is the gradient-trace analog of traceMsg, carried separately
// since CommunicateGrad runs as its own collective boundary (spec.md §5
// point (a): posting/completing non-blocking exchanges before the face
// kernels that depend on them, for both the plain trace and, on viscous
// runs, the gradient trace).
type gradMsg struct {
	faceID int
	values [][][]float64
}

// Group coordinates a fixed set of Ranks through the two per-stage
// collective boundaries: trace exchange completion, and the dt/residual
// reductions (the latter via the package-level Allreduce* functions,
// which need no cross-rank delivery since every rank's contribution is
// already visible in one process's memory -- mirroring how gocfd reduces
// maxWaveSpeed sequentially right after its own wg.Wait(), with no
// separate "reduce" abstraction).
type Group struct {
	NRank int
	mb    *utils.MailBox[*traceMsg]
	gmb   *utils.MailBox[*gradMsg]
}

// NewGroup builds a Group over nRank participants, one mailbox slot per
// rank for each of the two exchange kinds.
func NewGroup(nRank int) *Group {
	return &Group{
		NRank: nRank,
		mb:    utils.NewMailBox[*traceMsg](nRank),
		gmb:   utils.NewMailBox[*gradMsg](nRank),
	}
}

// Exchange runs one round of communicate() across every rank: each rank's
// MPI faces pack their already-gathered UL into SendBuf and post it to
// the remote rank, a barrier ensures every rank has posted before any
// delivery happens, and each rank then copies what it received into its
// own faces' RecvBuf so GetRightState can read it. Mirrors
// ParallelEdgeUpdate's go func(np){...}; wg.Wait() shape exactly, with
// PostMessage/DeliverMyMessages/ReceiveMyMessages standing in for the
// direct memory access a same-process gocfd partition uses.
func (g *Group) Exchange(ranks []*Rank) {
	var wg sync.WaitGroup
	for _, rk := range ranks {
		wg.Add(1)
		go func(rk *Rank) {
			defer wg.Done()
			for _, f := range rk.Faces {
				for j := range f.UL {
					copy(f.SendBuf[j], f.UL[j])
				}
				g.mb.PostMessage(rk.ID, f.RemoteRank, &traceMsg{faceID: f.RemoteFaceID, values: f.SendBuf})
			}
		}(rk)
	}
	wg.Wait()

	for _, rk := range ranks {
		g.mb.DeliverMyMessages(rk.ID)
	}

	wg = sync.WaitGroup{}
	for _, rk := range ranks {
		wg.Add(1)
		go func(rk *Rank) {
			defer wg.Done()
			g.mb.ReceiveMyMessages(rk.ID)
			for _, msg := range g.mb.ReceiveMsgQs[rk.ID].Cells() {
				f := rk.Faces[msg.faceID]
				for j := range msg.values {
					copy(f.RecvBuf[j], msg.values[j])
				}
			}
			g.mb.ClearMyMessages(rk.ID)
		}(rk)
	}
	wg.Wait()
}

// ExchangeGrad is communicateGrad(): the same pack/post/deliver/receive
// round as Exchange, but over a rank's already-gathered DUL gradient
// traces instead of UL. Viscous runs call this as a second collective
// boundary each stage, after the gradient jump correction has updated
// DUFpts and GetLeftState has re-gathered DUL from it.
func (g *Group) ExchangeGrad(ranks []*Rank) {
	var wg sync.WaitGroup
	for _, rk := range ranks {
		wg.Add(1)
		go func(rk *Rank) {
			defer wg.Done()
			for _, f := range rk.Faces {
				if f.DUL == nil {
					continue
				}
				g.gmb.PostMessage(rk.ID, f.RemoteRank, &gradMsg{faceID: f.RemoteFaceID, values: f.DUL})
			}
		}(rk)
	}
	wg.Wait()

	for _, rk := range ranks {
		g.gmb.DeliverMyMessages(rk.ID)
	}

	wg = sync.WaitGroup{}
	for _, rk := range ranks {
		wg.Add(1)
		go func(rk *Rank) {
			defer wg.Done()
			g.gmb.ReceiveMyMessages(rk.ID)
			for _, msg := range g.gmb.ReceiveMsgQs[rk.ID].Cells() {
				f := rk.Faces[msg.faceID]
				if f.DUR == nil {
					continue
				}
				for d := range msg.values {
					for j := range msg.values[d] {
						copy(f.DUR[d][j], msg.values[d][j])
					}
				}
			}
			g.gmb.ClearMyMessages(rk.ID)
		}(rk)
	}
	wg.Wait()
}

// ParallelFor runs fn once per shard of pm, fanned out over goroutines
// with a single sync.WaitGroup barrier -- the within-process parallel-for
// pattern spec.md §5 names, repeated once per RK sub-stage by gocfd's
// RungeKutta4SSP.Step over its own PartitionMap shards.
func ParallelFor(pm *utils.PartitionMap, fn func(shard int)) {
	var wg sync.WaitGroup
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			fn(np)
		}(np)
	}
	wg.Wait()
}
