// Package event implements the host-side event processor (C10) and the
// release-acquire memory-consistency engine (C12). Grounded on the
// teacher's single-goroutine work-queue pattern (hk/housekeeper.go-style
// serialized callback execution) for C10, and on cmn/cos checksum/hash
// utilities for the rendezvous relay selection in C12.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package event

import "github.com/dcl-project/dcl/nlog"

// Callback is a closure queued for serialized execution on the host-side
// event processor (spec.md §4.10): command-status-changed notifications,
// context-error notifications, and program-build notifications are all
// funneled through here so application-visible callbacks (e.g. a blocked
// clWaitForEvents) never race each other.
type Callback func()

// Processor runs every submitted Callback on a single goroutine, in the
// order submitted, so callback code never needs its own locking around
// shared event/command state (spec.md §4.10 "single-threaded callback
// queue").
type Processor struct {
	queue chan Callback
	done  chan struct{}
}

func NewProcessor(queueDepth int) *Processor {
	if queueDepth <= 0 {
		queueDepth = 1024
	}
	p := &Processor{queue: make(chan Callback, queueDepth), done: make(chan struct{})}
	go p.run()
	return p
}

func (p *Processor) run() {
	for cb := range p.queue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					nlog.Errorf("event: callback panicked: %v", r)
				}
			}()
			cb()
		}()
	}
	close(p.done)
}

// Submit enqueues cb for execution on the processor goroutine. It never
// blocks the submitter beyond the queue filling up, which would indicate a
// stuck callback upstream.
func (p *Processor) Submit(cb Callback) { p.queue <- cb }

// Stop drains the queue and waits for the processor goroutine to exit.
func (p *Processor) Stop() {
	close(p.queue)
	<-p.done
}
