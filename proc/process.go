// Package proc implements the process abstraction (C8): the Host and
// ComputeNode peer handles that own a connection pair (MessageQueue +
// DataStream) plus the per-peer request id counter and response
// correlation. Grounded on the teacher's node-lifecycle state machine in
// reb/status.go, adapted from rebalance phases to connection phases.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package proc

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dcl-project/dcl/rpc"
	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

// ConnectionStatus is a peer's connection lifecycle (spec.md §4.8,
// mirroring reb/status.go's phase progression: a peer is not usable for
// RPCs until both the control and data channel are up).
type ConnectionStatus int32

const (
	Disconnected ConnectionStatus = iota
	MessageQueueConnected
	Connected
)

func (s ConnectionStatus) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case MessageQueueConnected:
		return "message-queue-connected"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("status(%d)", s)
	}
}

// Process is the shared behavior of Host and ComputeNode: a peer reachable
// over one MessageQueue and (once negotiated) one DataStream, with a
// monotonic per-process request id counter (spec.md §3 "Object id",
// §4.8).
type Process struct {
	pid    wire.ProcessID
	mq     *transport.MessageQueue
	ds     *transport.DataStream
	status atomic.Int32
	respBuf *rpc.ResponseBuffer
	nextReqID atomic.Uint32
	onNotify notificationHandler
}

func newProcess(pid wire.ProcessID, mq *transport.MessageQueue, respBufSize int) *Process {
	p := &Process{pid: pid, mq: mq, respBuf: rpc.New(respBufSize)}
	p.status.Store(int32(MessageQueueConnected))
	mq.SetListener(p.dispatch)
	return p
}

func (p *Process) PID() wire.ProcessID   { return p.pid }
func (p *Process) Status() ConnectionStatus { return ConnectionStatus(p.status.Load()) }

// AttachDataStream completes the peer's connection once the data-stream
// handshake finishes, advancing status to Connected (spec.md §4.8).
func (p *Process) AttachDataStream(ds *transport.DataStream) {
	p.ds = ds
	p.status.Store(int32(Connected))
}

func (p *Process) DataStream() *transport.DataStream { return p.ds }

// NextRequestID hands out this process's next request id. Ids are unique
// per issuer-session, not globally (spec.md §3).
func (p *Process) NextRequestID() uint32 { return p.nextReqID.Add(1) }

// Call sends req and blocks for its matching response, correlating through
// the response buffer (C7). req.SetRequestID is called with a freshly
// allocated id before sending.
func (p *Process) Call(ctx context.Context, req wire.Request) (wire.Response, error) {
	id := p.NextRequestID()
	req.SetRequestID(id)

	// Await runs on its own goroutine and may register after Send; a reply
	// that arrives first is stashed as unclaimed and Await picks it up.
	type result struct {
		resp wire.Response
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		resp, err := p.respBuf.Await(ctx, id)
		resCh <- result{resp, err}
	}()

	if err := p.mq.Send(req); err != nil {
		return nil, err
	}

	r := <-resCh
	return r.resp, r.err
}

// Notify sends a fire-and-forget notification (tag >= 600); there is no
// response to correlate.
func (p *Process) Notify(msg wire.Message) error { return p.mq.Send(msg) }

// notificationHandler is invoked for every inbound message whose tag is not
// a response (spec.md §4.8: requests and notifications are the caller's
// concern, responses are consumed here transparently).
type notificationHandler func(wire.Message)

// SetNotificationHandler installs the callback for inbound requests and
// notifications (everything that isn't a correlated response).
func (p *Process) SetNotificationHandler(h notificationHandler) { p.onNotify = h }

func (p *Process) dispatch(msg wire.Message) {
	if msg.Type().IsResponse() {
		resp := msg.(wire.Response)
		if err := p.respBuf.Put(resp); err != nil {
			// buffer interrupted during teardown: nothing to do, the
			// caller's Await already saw ctx cancellation or will.
			_ = err
		}
		return
	}
	if p.onNotify != nil {
		p.onNotify(msg)
	}
}

// Close tears down the peer's connections and interrupts any blocked Call.
func (p *Process) Close() error {
	p.respBuf.Interrupt()
	p.status.Store(int32(Disconnected))
	var err error
	if p.mq != nil {
		err = p.mq.Close()
	}
	if p.ds != nil {
		if derr := p.ds.Close(); err == nil {
			err = derr
		}
	}
	return err
}
