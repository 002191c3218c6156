package main

import (
	"context"

	"github.com/dcl-project/dcl/driver"
)

// stubDriver satisfies driver.Driver without binding to any real compute
// backend: every call fails with a driver.Error so a daemon started without
// a real native driver wired in fails loudly per request instead of
// silently no-opping (spec.md §1: "the native driver ... only the interface
// it must satisfy is specified").
type stubDriver struct {
	changes chan driver.StatusChange
}

func newStubDriver() *stubDriver {
	return &stubDriver{changes: make(chan driver.StatusChange)}
}

const errNoDriver int32 = -9999

func notBound() error { return &driver.Error{Code: errNoDriver} }

func (s *stubDriver) StatusChanges() <-chan driver.StatusChange { return s.changes }

func (s *stubDriver) DeviceIDs(context.Context, uint32) ([]uint32, error) { return nil, notBound() }
func (s *stubDriver) DeviceInfo(context.Context, uint32, uint32) ([]byte, error) {
	return nil, notBound()
}

func (s *stubDriver) CreateContext(context.Context, []uint32) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) DeleteContext(context.Context, driver.Handle) error { return notBound() }

func (s *stubDriver) CreateCommandQueue(context.Context, driver.Handle, uint32, bool, bool) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) DeleteCommandQueue(context.Context, driver.Handle) error { return notBound() }

func (s *stubDriver) CreateBuffer(context.Context, driver.Handle, uint64, uint64, []byte) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) DeleteMemory(context.Context, driver.Handle) error { return notBound() }

func (s *stubDriver) CreateProgramWithSource(context.Context, driver.Handle, string) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) CreateProgramWithBinary(context.Context, driver.Handle, []uint32, [][]byte) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) DeleteProgram(context.Context, driver.Handle) error { return notBound() }
func (s *stubDriver) BuildProgram(context.Context, driver.Handle, []uint32, string) error {
	return notBound()
}
func (s *stubDriver) ProgramBuildLog(context.Context, driver.Handle, uint32) (string, error) {
	return "", notBound()
}
func (s *stubDriver) ProgramInfo(context.Context, driver.Handle, uint32) ([]byte, error) {
	return nil, notBound()
}

func (s *stubDriver) CreateKernel(context.Context, driver.Handle, string) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) CreateKernelsInProgram(context.Context, driver.Handle) ([]driver.Handle, error) {
	return nil, notBound()
}
func (s *stubDriver) DeleteKernel(context.Context, driver.Handle) error { return notBound() }
func (s *stubDriver) SetKernelArg(context.Context, driver.Handle, uint32, []byte) error {
	return notBound()
}
func (s *stubDriver) SetKernelArgBinary(context.Context, driver.Handle, uint32, []byte) error {
	return notBound()
}
func (s *stubDriver) SetKernelArgMemObject(context.Context, driver.Handle, uint32, driver.Handle, uint64) error {
	return notBound()
}
func (s *stubDriver) KernelInfo(context.Context, driver.Handle, uint32) ([]byte, error) {
	return nil, notBound()
}
func (s *stubDriver) KernelWorkGroupInfo(context.Context, driver.Handle, uint32, uint32) ([]byte, error) {
	return nil, notBound()
}

func (s *stubDriver) CreateEvent(context.Context, driver.Handle) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) DeleteEvent(context.Context, driver.Handle) error { return notBound() }
func (s *stubDriver) EventProfilingInfo(context.Context, driver.Handle) (int64, int64, int64, int64, error) {
	return 0, 0, 0, 0, notBound()
}

func (s *stubDriver) EnqueueReadBuffer(context.Context, driver.Handle, driver.Handle, uint64, uint64, []byte, []driver.Handle) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) EnqueueWriteBuffer(context.Context, driver.Handle, driver.Handle, uint64, uint64, []byte, []driver.Handle) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) EnqueueCopyBuffer(context.Context, driver.Handle, driver.Handle, driver.Handle, uint64, uint64, uint64, []driver.Handle) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) EnqueueMapBuffer(context.Context, driver.Handle, driver.Handle, uint64, uint64, bool, []driver.Handle) (driver.Handle, []byte, error) {
	return 0, nil, notBound()
}
func (s *stubDriver) EnqueueUnmapBuffer(context.Context, driver.Handle, driver.Handle, []driver.Handle) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) EnqueueNDRangeKernel(context.Context, driver.Handle, driver.Handle, uint32, []uint64, []uint64, []uint64, []driver.Handle) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) EnqueueMarker(context.Context, driver.Handle) (driver.Handle, error) {
	return 0, notBound()
}
func (s *stubDriver) EnqueueBarrier(context.Context, driver.Handle) error { return notBound() }
func (s *stubDriver) EnqueueWaitForEvents(context.Context, driver.Handle, []driver.Handle) (driver.Handle, error) {
	return 0, notBound()
}

func (s *stubDriver) Flush(context.Context, driver.Handle) error  { return notBound() }
func (s *stubDriver) Finish(context.Context, driver.Handle) error { return notBound() }
