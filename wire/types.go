package wire

// ObjectID names a remote artefact within the scope of the host that issued
// it (spec.md §3 "Object id"). Zero is never a valid bound id except where a
// message explicitly documents it as a sentinel (e.g. SetKernelArgMemObject
// using 0 to mean "local-memory scratch").
type ObjectID uint32

// ProcessID is the 64-bit handshake-negotiated peer identity (spec.md §3).
// Zero means "unknown/not yet negotiated".
type ProcessID uint64

// ProcessType distinguishes the two participant roles during handshake
// (spec.md §4.3, §6.2).
type ProcessType uint8

const (
	ProcessTypeHost        ProcessType = 0
	ProcessTypeComputeNode ProcessType = 1
)

// Protocol selects which of the two TCP connections a handshake is for
// (spec.md §6.2): the control (message-queue) channel or the bulk
// data-stream channel.
type Protocol uint8

const (
	ProtocolMessageQueue Protocol = 0
	ProtocolDataStream   Protocol = 1
)

// ExecutionStatus is a command's lifecycle state (spec.md §3, §4.13).
// Non-negative values are monotone-increasing lifecycle steps; any negative
// value is a terminal driver/cl_int error code.
type ExecutionStatus int32

const (
	StatusQueued    ExecutionStatus = 0
	StatusSubmitted ExecutionStatus = 1
	StatusRunning   ExecutionStatus = 2
	StatusComplete  ExecutionStatus = 3
)

func (s ExecutionStatus) IsFailure() bool { return s < 0 }
func (s ExecutionStatus) IsTerminal() bool { return s < 0 || s == StatusComplete }

// BuildStatus mirrors cl_build_status (spec.md §4.8 "program build
// completion"): the per-device outcome reported back to the host once a
// clBuildProgram call finishes.
type BuildStatus int32

const (
	BuildStatusSuccess    BuildStatus = 0
	BuildStatusNone       BuildStatus = -1
	BuildStatusError      BuildStatus = -2
	BuildStatusInProgress BuildStatus = -3
)

// KernelArgKind distinguishes the three ways SetKernelArg* can set an
// argument (spec.md §4.2 message catalogue).
type KernelArgKind uint8

const (
	KernelArgValue KernelArgKind = iota
	KernelArgBinary
	KernelArgMemObject
)
