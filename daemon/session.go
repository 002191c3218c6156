// Package daemon implements the compute-node request processor (C11) and
// the per-host command-queue session (C13): the server side that receives
// a Host's MessageQueue, holds its object registries, and drives the
// native driver on every request.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package daemon

import (
	"context"

	"github.com/dcl-project/dcl/driver"
	"github.com/dcl-project/dcl/event"
	"github.com/dcl-project/dcl/proc"
	"github.com/dcl-project/dcl/registry"
	"github.com/dcl-project/dcl/wire"
)

// Session is one connected Host's state on a compute node: its object
// registries (one per kind, spec.md §4.9) and the command-queue lifecycle
// tracking needed to emit CommandExecutionStatusChangedMessage
// notifications (spec.md §4.13, C13).
type Session struct {
	host     *proc.Host
	nodeID   uint64

	Contexts      *registry.Registry[driver.Handle]
	CommandQueues *registry.Registry[driver.Handle]
	Memory        *registry.Registry[driver.Handle]
	Programs      *registry.Registry[driver.Handle]
	Kernels       *registry.Registry[driver.Handle]
	Events        *registry.Registry[driver.Handle]

	// EventObjects maps a command's EventID to the memory objects it
	// modifies, so that when the driver reports the command's completion
	// (daemon.RunStatusRelay) the consistency engine can declare this node
	// the authoritative holder of exactly those objects (spec.md §4.12,
	// Data Model Invariant 4).
	EventObjects *registry.Registry[[]wire.ObjectID]

	consistency *event.Consistency
}

// NewSession creates an empty per-host session. nodeID identifies this
// compute node for release-acquire relay decisions (spec.md §4.12).
func NewSession(host *proc.Host, nodeID uint64) *Session {
	return &Session{
		host:          host,
		nodeID:        nodeID,
		Contexts:      registry.New[driver.Handle](),
		CommandQueues: registry.New[driver.Handle](),
		Memory:        registry.New[driver.Handle](),
		Programs:      registry.New[driver.Handle](),
		Kernels:       registry.New[driver.Handle](),
		Events:        registry.New[driver.Handle](),
		EventObjects:  registry.New[[]wire.ObjectID](),
		consistency:   event.New(nodeID),
	}
}

func (s *Session) Host() *proc.Host { return s.host }

// NodeID is this compute node's stable identity for release-acquire
// bookkeeping (spec.md §9 Open Questions, decided: NodeID = PID for the
// lifetime of one run).
func (s *Session) NodeID() uint64 { return s.nodeID }

// Consistency exposes this session's release-acquire engine so the request
// processor can release events on command completion and acquire them
// before a dependent command touches shared memory.
func (s *Session) Consistency() *event.Consistency { return s.consistency }

// AcquireEvent blocks until eventID has been locally declared released. If
// it has not, it sends an EventSynchronizationMessage to the host to
// request synchronization -- the pull half of release-acquire (spec.md
// §4.12): the side that needs current data asks for it, the writer never
// broadcasts on its own account.
func (s *Session) AcquireEvent(ctx context.Context, eventID wire.ObjectID) error {
	if s.consistency.IsReleased(eventID) {
		return nil
	}
	if err := s.host.Notify(&wire.EventSynchronizationMessage{EventID: eventID}); err != nil {
		return err
	}
	select {
	case <-s.consistency.Acquire(eventID):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
