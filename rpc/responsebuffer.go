// Package rpc implements the response buffer (C7): the request/response
// correlation ring used by both Host and ComputeNode sides of a MessageQueue
// to turn async message delivery into a synchronous call/reply API.
// Grounded on original_source/dclasio/src/dclasio/comm/ResponseBuffer.h's
// bounded, blocking ring buffer: a mutex+condvar pair bounds Put, and each
// Await waits on its own Go channel.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package rpc

import (
	"context"
	"sync"

	"github.com/dcl-project/dcl/cos"
	"github.com/dcl-project/dcl/wire"
)

// ResponseBuffer correlates wire.Response messages with the goroutine that
// is blocked waiting for them, keyed by request id. It is bounded: Put
// blocks if the buffer already holds as many unclaimed responses as the
// capacity given to New (DefaultSize when that is not positive), the same backpressure the original gives its fixed-size ring
// (spec.md §4.7).
type ResponseBuffer struct {
	mu          sync.Mutex
	cond        *sync.Cond
	pending     map[uint32]chan wire.Response
	unclaimed   map[uint32]wire.Response
	cap         int
	interrupted bool
}

const DefaultSize = 64

func New(capacity int) *ResponseBuffer {
	if capacity <= 0 {
		capacity = DefaultSize
	}
	rb := &ResponseBuffer{
		pending:   make(map[uint32]chan wire.Response),
		unclaimed: make(map[uint32]wire.Response),
		cap:       capacity,
	}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Await registers interest in the response for requestID and blocks until it
// arrives, ctx is canceled, or Interrupt is called (then it returns
// cos.ErrThreadInterrupted). A reply that arrives before Await is called is
// held as unclaimed by Put and returned at once.
func (rb *ResponseBuffer) Await(ctx context.Context, requestID uint32) (wire.Response, error) {
	rb.mu.Lock()
	if resp, ok := rb.unclaimed[requestID]; ok {
		delete(rb.unclaimed, requestID)
		rb.mu.Unlock()
		rb.cond.Broadcast()
		return resp, nil
	}
	if rb.interrupted {
		rb.mu.Unlock()
		return nil, cos.ErrThreadInterrupted
	}
	ch := make(chan wire.Response, 1)
	rb.pending[requestID] = ch
	rb.mu.Unlock()

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, cos.ErrThreadInterrupted
		}
		return resp, nil
	case <-ctx.Done():
		rb.mu.Lock()
		delete(rb.pending, requestID)
		rb.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Put delivers a response, waking whichever Await call is waiting for its
// request id. If nobody is waiting yet, it is held in the unclaimed set
// until a matching Await arrives or the ring fills up, at which point Put
// blocks -- this is the correlation ring's bounded-capacity guarantee.
func (rb *ResponseBuffer) Put(resp wire.Response) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if ch, ok := rb.pending[resp.GetRequestID()]; ok {
		delete(rb.pending, resp.GetRequestID())
		ch <- resp
		return nil
	}

	for len(rb.unclaimed) >= rb.cap && !rb.interrupted {
		rb.cond.Wait()
	}
	if rb.interrupted {
		return cos.ErrThreadInterrupted
	}
	rb.unclaimed[resp.GetRequestID()] = resp
	return nil
}

// Interrupt wakes every blocked Put and Await and causes subsequent ones to
// fail immediately, used when the owning connection is torn down (spec.md §4.7
// "interrupt()").
func (rb *ResponseBuffer) Interrupt() {
	rb.mu.Lock()
	rb.interrupted = true
	for id, ch := range rb.pending {
		close(ch)
		delete(rb.pending, id)
	}
	rb.mu.Unlock()
	rb.cond.Broadcast()
}
