// Package driver specifies the native compute-driver interface the
// compute-node daemon (C11) invokes on every request. Only the interface is
// specified (spec.md §1 "The local native OpenCL driver invoked by the
// daemon on each compute node -- only the interface it must satisfy is
// specified"); no implementation backs it in this module. A real daemon
// binds this to cgo bindings against libOpenCL, which is out of scope here.
package driver

import "context"

// Handle is an opaque native-driver object handle (a cl_context, cl_mem,
// cl_program, cl_kernel, or cl_event underneath a real binding). The daemon
// never inspects it; it only stores the Handle the driver returned for a
// given wire.ObjectID in a registry.Registry[Handle] and hands it back on
// the next request that references that id.
type Handle uint64

// Error is how the driver reports a cl_int-compatible failure code, so the
// daemon can translate it 1:1 into an ErrorResponse (spec.md §4.11 "Failures
// from the driver are mapped 1:1 to ErrorResponse(request_id, errcode)").
type Error struct {
	Code int32
}

func (e *Error) Error() string { return "driver error" }

// Driver is the native compute backend a daemon process drives. Every
// method that can fail returns an *Error carrying a cl_int-compatible code
// on failure; Handle return values are only valid once err is nil.
type Driver interface {
	DeviceIDs(ctx context.Context, platformID uint32) ([]uint32, error)
	DeviceInfo(ctx context.Context, deviceID, param uint32) ([]byte, error)

	CreateContext(ctx context.Context, deviceIDs []uint32) (Handle, error)
	DeleteContext(ctx context.Context, h Handle) error

	CreateCommandQueue(ctx context.Context, context Handle, deviceID uint32, profiling, inOrder bool) (Handle, error)
	DeleteCommandQueue(ctx context.Context, h Handle) error

	// CreateBuffer allocates a memory object. data carries the initial
	// host-pointer payload pulled over the data stream when flags sets
	// CL_MEM_COPY_HOST_PTR or CL_MEM_USE_HOST_PTR (nil otherwise); the
	// daemon pulls it before calling in, mirroring the original's
	// host.receiveData(...)->wait() ahead of the native createBuffer call.
	CreateBuffer(ctx context.Context, context Handle, size, flags uint64, data []byte) (Handle, error)
	DeleteMemory(ctx context.Context, h Handle) error

	CreateProgramWithSource(ctx context.Context, context Handle, source string) (Handle, error)
	CreateProgramWithBinary(ctx context.Context, context Handle, deviceIDs []uint32, binaries [][]byte) (Handle, error)
	DeleteProgram(ctx context.Context, h Handle) error
	BuildProgram(ctx context.Context, h Handle, deviceIDs []uint32, options string) error
	ProgramBuildLog(ctx context.Context, h Handle, deviceID uint32) (string, error)
	ProgramInfo(ctx context.Context, h Handle, param uint32) ([]byte, error)

	CreateKernel(ctx context.Context, program Handle, name string) (Handle, error)
	CreateKernelsInProgram(ctx context.Context, program Handle) ([]Handle, error)
	DeleteKernel(ctx context.Context, h Handle) error
	SetKernelArg(ctx context.Context, kernel Handle, index uint32, value []byte) error
	SetKernelArgBinary(ctx context.Context, kernel Handle, index uint32, binary []byte) error
	SetKernelArgMemObject(ctx context.Context, kernel Handle, index uint32, mem Handle, localSize uint64) error
	KernelInfo(ctx context.Context, h Handle, param uint32) ([]byte, error)
	KernelWorkGroupInfo(ctx context.Context, kernel Handle, deviceID, param uint32) ([]byte, error)

	CreateEvent(ctx context.Context, context Handle) (Handle, error)
	DeleteEvent(ctx context.Context, h Handle) error
	EventProfilingInfo(ctx context.Context, h Handle) (queued, submit, start, end int64, err error)

	// EnqueueReadBuffer/EnqueueWriteBuffer move data through the daemon
	// process itself (not directly to/from the native device), since the
	// bytes travel to/from the host over the data stream (C4); data is the
	// in-memory staging buffer the daemon read from or will write to the
	// data stream.
	EnqueueReadBuffer(ctx context.Context, queue, mem Handle, offset, size uint64, data []byte, wait []Handle) (Handle, error)
	EnqueueWriteBuffer(ctx context.Context, queue, mem Handle, offset, size uint64, data []byte, wait []Handle) (Handle, error)
	EnqueueCopyBuffer(ctx context.Context, queue, src, dst Handle, srcOffset, dstOffset, size uint64, wait []Handle) (Handle, error)
	EnqueueMapBuffer(ctx context.Context, queue, mem Handle, offset, size uint64, writeMap bool, wait []Handle) (Handle, []byte, error)
	EnqueueUnmapBuffer(ctx context.Context, queue, mem Handle, wait []Handle) (Handle, error)
	EnqueueNDRangeKernel(ctx context.Context, queue, kernel Handle, workDim uint32, globalOffset, globalSize, localSize []uint64, wait []Handle) (Handle, error)
	EnqueueMarker(ctx context.Context, queue Handle) (Handle, error)
	EnqueueBarrier(ctx context.Context, queue Handle) error
	EnqueueWaitForEvents(ctx context.Context, queue Handle, wait []Handle) (Handle, error)

	Flush(ctx context.Context, queue Handle) error
	Finish(ctx context.Context, queue Handle) error

	// StatusChanges returns a channel the daemon's RunStatusRelay ranges
	// over to learn about asynchronous command completions the
	// driver reports on its own callback threads (spec.md §4.13
	// "Scheduling model ... only their completion posts a response back
	// through the reactor"). Implementations are expected to buffer and
	// never block a driver callback thread on a full channel.
	StatusChanges() <-chan StatusChange
}

// StatusChange is one async lifecycle event the driver reports for a
// previously enqueued command.
type StatusChange struct {
	CommandID Handle
	Status    int32 // non-negative lifecycle step, or a negative cl_int error code
}
