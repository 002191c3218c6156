package proc

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

// Host is the compute-node-side view of the submitting host: the daemon
// creates one per accepted host connection (spec.md §3 "Host").
type Host struct {
	*Process
}

func NewHost(pid wire.ProcessID, mq *transport.MessageQueue, respBufSize int) *Host {
	return &Host{Process: newProcess(pid, mq, respBufSize)}
}

// ComputeNode is the host-side view of one remote compute-node daemon
// (spec.md §3 "Compute node").
type ComputeNode struct {
	*Process
	// NodeID is the stable identifier used in collective messages
	// (EnqueueBroadcastBuffer.Peers, EnqueueReduceBuffer.Peers). It is set
	// to the handshake PID, so a node that reconnects with a new PID gets a
	// new NodeID (spec.md §9 Open Questions, decided: NodeID = PID for the
	// lifetime of one run).
	NodeID uint64
}

func NewComputeNode(pid wire.ProcessID, mq *transport.MessageQueue, respBufSize int) *ComputeNode {
	return &ComputeNode{Process: newProcess(pid, mq, respBufSize), NodeID: uint64(pid)}
}

// Group runs call for every compute node concurrently, waits for all of
// them, and returns the first error; that error cancels the ctx passed to
// the other calls. Responses are not collected here (spec.md §4.8
// "collective command submission"). Grounded on the teacher's use of
// golang.org/x/sync/errgroup for bounded concurrent fan-out.
func Group(ctx context.Context, nodes []*ComputeNode, call func(ctx context.Context, n *ComputeNode) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, n := range nodes {
		n := n
		g.Go(func() error { return call(ctx, n) })
	}
	return g.Wait()
}
