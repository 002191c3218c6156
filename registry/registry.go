// Package registry implements the object registry (C9): per-kind maps from
// wire.ObjectID to whatever local handle that id names (a native driver
// context, buffer, program, kernel, or event). Grounded on the teacher's
// xact/xreg registry -- a concurrency-safe, kind-partitioned id->handle
// table -- generalized here with Go generics instead of xreg's
// interface{}-based entries.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package registry

import (
	"strconv"
	"sync"

	"github.com/dcl-project/dcl/cos"
	"github.com/dcl-project/dcl/wire"
)

// Registry is a concurrency-safe map from ObjectID to a handle of type T,
// used once per object kind (contexts, command queues, memory objects,
// programs, kernels, events -- spec.md §4.9).
type Registry[T any] struct {
	mu sync.RWMutex
	m  map[wire.ObjectID]T
}

func New[T any]() *Registry[T] {
	return &Registry[T]{m: make(map[wire.ObjectID]T)}
}

// Bind registers handle under id, replacing any prior binding. The original
// protocol treats this as a programming error upstream (ids are assigned by
// the host and never reused within a session), so Bind does not itself
// reject overwrites -- callers that care should Lookup first.
func (r *Registry[T]) Bind(id wire.ObjectID, handle T) {
	r.mu.Lock()
	r.m[id] = handle
	r.mu.Unlock()
}

// Unbind removes id's binding and reports whether it had one.
func (r *Registry[T]) Unbind(id wire.ObjectID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.m[id]
	delete(r.m, id)
	return ok
}

// Lookup returns id's handle, or cos.ErrNotFound if unbound.
func (r *Registry[T]) Lookup(id wire.ObjectID) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.m[id]
	if !ok {
		return h, cos.NewErrNotFound(objectDesc(id))
	}
	return h, nil
}

// LookupMany resolves a batch of ids in one pass; the daemon uses it to
// resolve an Enqueue request's event wait list (spec.md §4.11). It fails closed: if any id is unbound, it returns the first such
// error and no partial slice.
func (r *Registry[T]) LookupMany(ids []wire.ObjectID) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(ids))
	for i, id := range ids {
		h, ok := r.m[id]
		if !ok {
			return nil, cos.NewErrNotFound(objectDesc(id))
		}
		out[i] = h
	}
	return out, nil
}

// IDs returns every currently-bound id, for housekeeping sweeps (e.g.
// releasing all memory objects in a torn-down context).
func (r *Registry[T]) IDs() []wire.ObjectID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]wire.ObjectID, 0, len(r.m))
	for id := range r.m {
		ids = append(ids, id)
	}
	return ids
}

// Len reports how many objects of this kind are currently bound.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

func objectDesc(id wire.ObjectID) string {
	return "object id " + strconv.FormatUint(uint64(id), 10)
}
