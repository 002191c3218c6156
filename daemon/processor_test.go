package daemon_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/daemon"
	"github.com/dcl-project/dcl/driver"
	"github.com/dcl-project/dcl/proc"
	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

// fakeDriver is a minimal in-memory stand-in for driver.Driver, assigning
// sequential handles and never failing unless failErr is set. It exists
// only to exercise Processor.dispatch; it is not a native OpenCL binding.
type fakeDriver struct {
	next    uint64
	changes chan driver.StatusChange
	failErr error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{changes: make(chan driver.StatusChange, 16)}
}

func (d *fakeDriver) handle() driver.Handle {
	d.next++
	return driver.Handle(d.next)
}

func (d *fakeDriver) DeviceIDs(context.Context, uint32) ([]uint32, error) {
	if d.failErr != nil {
		return nil, d.failErr
	}
	return []uint32{0, 1}, nil
}
func (d *fakeDriver) DeviceInfo(context.Context, uint32, uint32) ([]byte, error) {
	return []byte("fake-device"), nil
}
func (d *fakeDriver) CreateContext(context.Context, []uint32) (driver.Handle, error) {
	if d.failErr != nil {
		return 0, d.failErr
	}
	return d.handle(), nil
}
func (d *fakeDriver) DeleteContext(context.Context, driver.Handle) error { return nil }
func (d *fakeDriver) CreateCommandQueue(context.Context, driver.Handle, uint32, bool, bool) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) DeleteCommandQueue(context.Context, driver.Handle) error { return nil }
func (d *fakeDriver) CreateBuffer(context.Context, driver.Handle, uint64, uint64, []byte) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) DeleteMemory(context.Context, driver.Handle) error { return nil }
func (d *fakeDriver) CreateProgramWithSource(context.Context, driver.Handle, string) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) CreateProgramWithBinary(context.Context, driver.Handle, []uint32, [][]byte) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) DeleteProgram(context.Context, driver.Handle) error { return nil }
func (d *fakeDriver) BuildProgram(context.Context, driver.Handle, []uint32, string) error { return nil }
func (d *fakeDriver) ProgramBuildLog(context.Context, driver.Handle, uint32) (string, error) {
	return "", nil
}
func (d *fakeDriver) ProgramInfo(context.Context, driver.Handle, uint32) ([]byte, error) { return nil, nil }
func (d *fakeDriver) CreateKernel(context.Context, driver.Handle, string) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) CreateKernelsInProgram(context.Context, driver.Handle) ([]driver.Handle, error) {
	return []driver.Handle{d.handle()}, nil
}
func (d *fakeDriver) DeleteKernel(context.Context, driver.Handle) error { return nil }
func (d *fakeDriver) SetKernelArg(context.Context, driver.Handle, uint32, []byte) error { return nil }
func (d *fakeDriver) SetKernelArgBinary(context.Context, driver.Handle, uint32, []byte) error {
	return nil
}
func (d *fakeDriver) SetKernelArgMemObject(context.Context, driver.Handle, uint32, driver.Handle, uint64) error {
	return nil
}
func (d *fakeDriver) KernelInfo(context.Context, driver.Handle, uint32) ([]byte, error) { return nil, nil }
func (d *fakeDriver) KernelWorkGroupInfo(context.Context, driver.Handle, uint32, uint32) ([]byte, error) {
	return nil, nil
}
func (d *fakeDriver) CreateEvent(context.Context, driver.Handle) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) DeleteEvent(context.Context, driver.Handle) error { return nil }
func (d *fakeDriver) EventProfilingInfo(context.Context, driver.Handle) (int64, int64, int64, int64, error) {
	return 1, 2, 3, 4, nil
}
func (d *fakeDriver) EnqueueReadBuffer(context.Context, driver.Handle, driver.Handle, uint64, uint64, []byte, []driver.Handle) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) EnqueueWriteBuffer(context.Context, driver.Handle, driver.Handle, uint64, uint64, []byte, []driver.Handle) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) EnqueueCopyBuffer(context.Context, driver.Handle, driver.Handle, driver.Handle, uint64, uint64, uint64, []driver.Handle) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) EnqueueMapBuffer(context.Context, driver.Handle, driver.Handle, uint64, uint64, bool, []driver.Handle) (driver.Handle, []byte, error) {
	return d.handle(), nil, nil
}
func (d *fakeDriver) EnqueueUnmapBuffer(context.Context, driver.Handle, driver.Handle, []driver.Handle) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) EnqueueNDRangeKernel(context.Context, driver.Handle, driver.Handle, uint32, []uint64, []uint64, []uint64, []driver.Handle) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) EnqueueMarker(context.Context, driver.Handle) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) EnqueueBarrier(context.Context, driver.Handle) error { return nil }
func (d *fakeDriver) EnqueueWaitForEvents(context.Context, driver.Handle, []driver.Handle) (driver.Handle, error) {
	return d.handle(), nil
}
func (d *fakeDriver) Flush(context.Context, driver.Handle) error  { return nil }
func (d *fakeDriver) Finish(context.Context, driver.Handle) error { return nil }
func (d *fakeDriver) StatusChanges() <-chan driver.StatusChange   { return d.changes }

func newTestSession() *daemon.Session {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer ln.Close()

	serverCh := make(chan *transport.MessageQueue, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		mq, err := transport.AcceptMessageQueue(conn, wire.ProcessID(2), 1<<20, nil)
		if err != nil {
			return
		}
		serverCh <- mq
	}()

	client, err := transport.DialMessageQueue(ln.Addr().String(), wire.ProcessID(1), wire.ProcessTypeHost, 1<<20)
	Expect(err).NotTo(HaveOccurred())
	_ = client

	var hostMQ *transport.MessageQueue
	select {
	case hostMQ = <-serverCh:
	case <-time.After(time.Second):
		Fail("timed out setting up test session")
	}

	host := proc.NewHost(hostMQ.PeerPID(), hostMQ, 8)
	return daemon.NewSession(host, 42)
}

var _ = Describe("Processor", func() {
	It("binds a driver handle into the session registry on CreateContext", func() {
		drv := newFakeDriver()
		cache, err := daemon.OpenProgramCache("")
		Expect(err).NotTo(HaveOccurred())
		defer cache.Close()
		p := daemon.NewProcessor(drv, daemon.NewStats(), cache)
		sess := newTestSession()

		req := &wire.CreateContext{ContextID: wire.ObjectID(1), DeviceIDs: []uint32{0}}
		req.SetRequestID(10)
		resp := p.Handle(context.Background(), sess, req)

		Expect(resp.GetErrcode()).To(Equal(int32(0)))
		Expect(sess.Contexts.Len()).To(Equal(1))
	})

	It("maps a driver error 1:1 onto an ErrorResponse", func() {
		drv := newFakeDriver()
		drv.failErr = &driver.Error{Code: -30}
		cache, err := daemon.OpenProgramCache("")
		Expect(err).NotTo(HaveOccurred())
		defer cache.Close()
		p := daemon.NewProcessor(drv, daemon.NewStats(), cache)
		sess := newTestSession()

		req := &wire.CreateContext{ContextID: wire.ObjectID(1), DeviceIDs: []uint32{0}}
		req.SetRequestID(11)
		resp := p.Handle(context.Background(), sess, req)

		Expect(resp.GetErrcode()).NotTo(Equal(int32(0)))
		Expect(sess.Contexts.Len()).To(Equal(0))
	})

	It("rejects a request against an unbound object id without touching the driver", func() {
		drv := newFakeDriver()
		cache, err := daemon.OpenProgramCache("")
		Expect(err).NotTo(HaveOccurred())
		defer cache.Close()
		p := daemon.NewProcessor(drv, daemon.NewStats(), cache)
		sess := newTestSession()

		req := &wire.DeleteContext{ContextID: wire.ObjectID(99)}
		req.SetRequestID(12)
		resp := p.Handle(context.Background(), sess, req)

		Expect(resp.GetErrcode()).NotTo(Equal(int32(0)))
	})

	It("reports EnqueueBroadcastBuffer as unsupported at the daemon boundary", func() {
		drv := newFakeDriver()
		cache, err := daemon.OpenProgramCache("")
		Expect(err).NotTo(HaveOccurred())
		defer cache.Close()
		p := daemon.NewProcessor(drv, daemon.NewStats(), cache)
		sess := newTestSession()

		req := &wire.EnqueueBroadcastBuffer{QueueID: wire.ObjectID(1), MemID: wire.ObjectID(2), Size: 8}
		req.SetRequestID(13)
		resp := p.Handle(context.Background(), sess, req)

		Expect(resp.GetErrcode()).NotTo(Equal(int32(0)))
	})
})
