// Package cos provides common low-level error types and utilities shared by
// every package in this module, adapted from the teacher's cmn/cos.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Vendor error codes, spec.md §7: transport errors that have no native
// cl_int equivalent are mapped onto this small vendor range instead of
// inventing new OpenCL error codes.
const (
	ErrConnection int32 = -1001
	ErrIO         int32 = -1002
	ErrProtocol   int32 = -1003
	ErrTimeout    int32 = -1004
)

// DriverError wraps a cl_int-compatible error code coming back from the
// native driver collaborator, or one of the vendor codes above, preserving
// a stack trace (via github.com/pkg/errors) so a daemon-side panic/error log
// still shows where the failure originated even though the caller only
// receives a numeric code over the wire.
type DriverError struct {
	Code  int32
	cause error
}

func NewDriverError(code int32, cause error) *DriverError {
	return &DriverError{Code: code, cause: errors.WithStack(cause)}
}

func (e *DriverError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("driver error %d", e.Code)
	}
	return fmt.Sprintf("driver error %d: %v", e.Code, e.cause)
}

func (e *DriverError) Unwrap() error { return e.cause }

// ErrProtocolViolation marks a fatal-to-the-connection condition per
// spec.md §7: double-binding an id, an unknown request id in a response, or
// a declared body length exceeding the cap.
type ErrProtocolViolation struct {
	Reason string
}

func (e *ErrProtocolViolation) Error() string { return "protocol violation: " + e.Reason }

// ErrThreadInterrupted is surfaced by any suspension point (ResponseBuffer.get,
// DataTransfer.wait, await_connection_status, ...) when interrupt() is
// called while a waiter is blocked. Callers treat it as non-fatal per
// spec.md §7.
var ErrThreadInterrupted = errors.New("thread interrupted")

// ErrTimedOut is returned by any bounded wait that exceeds its deadline.
var ErrTimedOut = errors.New("timed out")

// ErrNotFound is a generic "no such id/entry" error used by the registry and
// response buffer.
type ErrNotFound struct {
	What string
}

func NewErrNotFound(format string, a ...any) *ErrNotFound {
	return &ErrNotFound{What: fmt.Sprintf(format, a...)}
}

func (e *ErrNotFound) Error() string { return e.What + " not found" }

func IsErrNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

// Errs aggregates errors from a collective/multicast operation (C8) in an
// all-or-nothing-at-the-caller sense: the first failure is what's surfaced,
// but every participant's result is still recorded for logging.
type Errs struct {
	mu   sync.Mutex
	errs []error
}

func (e *Errs) Add(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()
}

func (e *Errs) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[0]
}

func (e *Errs) All() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}
