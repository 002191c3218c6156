package wire_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/wire"
)

// roundtrip packs m, unpacks into a fresh value obtained from the factory
// via NewMessage, and returns it for field-by-field assertions. This
// exercises both the concrete Pack/Unpack pair and the factory's
// registration for m's own type tag (testable property #5, spec.md §8).
func roundtrip(m wire.Message) wire.Message {
	b := wire.NewBuffer()
	m.Pack(b)

	out, err := wire.NewMessage(m.Type())
	Expect(err).NotTo(HaveOccurred())

	rb := wire.WrapBuffer(b.Bytes())
	Expect(out.Unpack(rb)).To(Succeed())
	Expect(rb.Remaining()).To(Equal(0), "unpack must consume exactly what was packed")
	return out
}

var _ = Describe("message catalogue", func() {
	It("registers every tag exactly once and resolves it back to a fresh message", func() {
		for _, tag := range []wire.Type{
			wire.TypeGetDeviceIDs, wire.TypeDeviceIDsResponse,
			wire.TypeGetDeviceInfo, wire.TypeInfoResponse, wire.TypeDeviceInfosResponse,
			wire.TypeCreateContext, wire.TypeDeleteContext,
			wire.TypeCreateCommandQueue, wire.TypeDeleteCommandQueue,
			wire.TypeCreateBuffer, wire.TypeDeleteMemory,
			wire.TypeCreateProgramWithSource, wire.TypeCreateProgramWithBinary,
			wire.TypeDeleteProgram, wire.TypeBuildProgram, wire.TypeGetProgramBuildLog, wire.TypeGetProgramInfo,
			wire.TypeCreateKernel, wire.TypeCreateKernelsInProgram, wire.TypeDeleteKernel,
			wire.TypeSetKernelArg, wire.TypeSetKernelArgBinary, wire.TypeSetKernelArgMemObject,
			wire.TypeGetKernelInfo, wire.TypeGetKernelWorkGroupInfo,
			wire.TypeCreateEvent, wire.TypeDeleteEvent,
			wire.TypeGetEventProfilingInfos, wire.TypeEventProfilingInfosResponse,
			wire.TypeFlushRequest, wire.TypeFinishRequest,
			wire.TypeEnqueueReadBuffer, wire.TypeEnqueueWriteBuffer, wire.TypeEnqueueCopyBuffer,
			wire.TypeEnqueueMapBuffer, wire.TypeEnqueueUnmapBuffer, wire.TypeEnqueueNDRangeKernel,
			wire.TypeEnqueueMarker, wire.TypeEnqueueBarrier, wire.TypeEnqueueWaitForEvents,
			wire.TypeEnqueueBroadcastBuffer, wire.TypeEnqueueReduceBuffer,
			wire.TypeReleaseRequest,
			wire.TypeDefaultResponse, wire.TypeErrorResponse,
			wire.TypeCommandExecutionStatusChanged, wire.TypeEventSynchronization,
			wire.TypeContextError, wire.TypeProgramBuild,
		} {
			msg, err := wire.NewMessage(tag)
			Expect(err).NotTo(HaveOccurred(), "tag %d", tag)
			Expect(msg.Type()).To(Equal(tag))
		}
	})

	It("rejects an unregistered tag", func() {
		_, err := wire.NewMessage(wire.Type(999))
		Expect(err).To(HaveOccurred())
	})

	It("classifies tags by range", func() {
		Expect(wire.TypeGetDeviceIDs.IsRequest()).To(BeTrue())
		Expect(wire.TypeDefaultResponse.IsResponse()).To(BeTrue())
		Expect(wire.TypeCommandExecutionStatusChanged.IsNotification()).To(BeTrue())
		Expect(wire.TypeGetDeviceIDs.IsResponse()).To(BeFalse())
	})

	It("round-trips GetDeviceIDs", func() {
		in := &wire.GetDeviceIDs{RequestHeader: wire.RequestHeader{RequestID: 7}, PlatformID: 2}
		out := roundtrip(in).(*wire.GetDeviceIDs)
		Expect(out.RequestID).To(Equal(uint32(7)))
		Expect(out.PlatformID).To(Equal(uint32(2)))
	})

	It("round-trips DeviceIDsResponse with an empty slice", func() {
		in := &wire.DeviceIDsResponse{ResponseHeader: wire.ResponseHeader{RequestID: 1}, DeviceIDs: nil}
		out := roundtrip(in).(*wire.DeviceIDsResponse)
		Expect(out.DeviceIDs).To(BeEmpty())
	})

	It("round-trips CreateBuffer", func() {
		in := &wire.CreateBuffer{
			RequestHeader: wire.RequestHeader{RequestID: 3},
			MemID:         5, ContextID: 1, Size: 4096, Flags: 1, CopyHostPtr: true,
		}
		out := roundtrip(in).(*wire.CreateBuffer)
		Expect(out.MemID).To(Equal(wire.ObjectID(5)))
		Expect(out.Size).To(Equal(uint64(4096)))
		Expect(out.CopyHostPtr).To(BeTrue())
	})

	It("round-trips CreateProgramWithBinary with multiple device binaries", func() {
		in := &wire.CreateProgramWithBinary{
			RequestHeader: wire.RequestHeader{RequestID: 9},
			ProgramID:     4, ContextID: 1,
			DeviceIDs: []uint32{0, 1},
			Binaries:  [][]byte{{1, 2, 3}, {4, 5}},
		}
		out := roundtrip(in).(*wire.CreateProgramWithBinary)
		Expect(out.Binaries).To(HaveLen(2))
		Expect(out.Binaries[0]).To(Equal([]byte{1, 2, 3}))
		Expect(out.DeviceIDs).To(Equal([]uint32{0, 1}))
	})

	It("round-trips SetKernelArgMemObject and reports local scratch", func() {
		in := &wire.SetKernelArgMemObject{
			RequestHeader: wire.RequestHeader{RequestID: 2},
			KernelID:      1, ArgIndex: 3, MemID: 0, LocalSize: 256,
		}
		out := roundtrip(in).(*wire.SetKernelArgMemObject)
		Expect(out.IsLocalScratch()).To(BeTrue())
		Expect(out.LocalSize).To(Equal(uint64(256)))
	})

	It("round-trips EnqueueNDRangeKernel with 3D ranges", func() {
		in := &wire.EnqueueNDRangeKernel{
			RequestHeader: wire.RequestHeader{RequestID: 11},
			QueueID:       1, KernelID: 2, WorkDim: 3,
			GlobalOffset: []uint64{0, 0, 0},
			GlobalSize:   []uint64{64, 64, 1},
			LocalSize:    []uint64{8, 8, 1},
			EventID:      9,
			WaitList:     []uint32{1, 2},
		}
		out := roundtrip(in).(*wire.EnqueueNDRangeKernel)
		Expect(out.GlobalSize).To(Equal([]uint64{64, 64, 1}))
		Expect(out.WaitList).To(Equal([]uint32{1, 2}))
	})

	It("round-trips EnqueueBroadcastBuffer with rendezvous peers", func() {
		in := &wire.EnqueueBroadcastBuffer{
			RequestHeader: wire.RequestHeader{RequestID: 20},
			QueueID:       1, MemID: 2, Size: 1024,
			Peers:      []uint64{100, 200, 300},
			Rendezvous: true,
			EventID:    5,
		}
		out := roundtrip(in).(*wire.EnqueueBroadcastBuffer)
		Expect(out.Peers).To(Equal([]uint64{100, 200, 300}))
		Expect(out.Rendezvous).To(BeTrue())
	})

	It("round-trips EventProfilingInfosResponse", func() {
		in := &wire.EventProfilingInfosResponse{
			ResponseHeader: wire.ResponseHeader{RequestID: 4, Errcode: 0},
			Queued:         100, Submit: 150, Start: 200, End: 400,
		}
		out := roundtrip(in).(*wire.EventProfilingInfosResponse)
		Expect(out.Start).To(Equal(int64(200)))
		Expect(out.End).To(Equal(int64(400)))
	})

	It("round-trips CommandExecutionStatusChangedMessage", func() {
		in := &wire.CommandExecutionStatusChangedMessage{CommandID: 9, Status: wire.StatusRunning}
		out := roundtrip(in).(*wire.CommandExecutionStatusChangedMessage)
		Expect(out.Status).To(Equal(wire.StatusRunning))
		Expect(out.Status.IsTerminal()).To(BeFalse())
	})

	It("round-trips EventSynchronizationMessage", func() {
		in := &wire.EventSynchronizationMessage{EventID: 3}
		out := roundtrip(in).(*wire.EventSynchronizationMessage)
		Expect(out.EventID).To(Equal(wire.ObjectID(3)))
	})

	It("round-trips ProgramBuildMessage with a per-device build status", func() {
		in := &wire.ProgramBuildMessage{ProgramID: 1, DeviceIDs: []uint32{0, 1}, BuildStatus: []int32{0, -2}}
		out := roundtrip(in).(*wire.ProgramBuildMessage)
		Expect(out.DeviceIDs).To(Equal([]uint32{0, 1}))
		Expect(out.BuildStatus).To(Equal([]int32{0, -2}))
	})
})

var _ = Describe("Buffer boundary errors", func() {
	It("fails recoverably when reading past the written region", func() {
		b := wire.NewBuffer()
		b.PutUint32(1)
		rb := wire.WrapBuffer(b.Bytes())
		_, err := rb.GetUint32()
		Expect(err).NotTo(HaveOccurred())
		_, err = rb.GetUint32()
		Expect(err).To(HaveOccurred())
	})

	It("rejects a blob whose declared length exceeds the sequence cap", func() {
		b := wire.NewBuffer()
		b.PutBlob([]byte{1, 2, 3, 4, 5})
		rb := wire.WrapBufferWithLimit(b.Bytes(), 4)
		_, err := rb.GetBlob()
		Expect(err).To(HaveOccurred())
	})
})
