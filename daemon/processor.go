package daemon

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/dcl-project/dcl/cos"
	"github.com/dcl-project/dcl/driver"
	"github.com/dcl-project/dcl/nlog"
	"github.com/dcl-project/dcl/wire"
)

// Processor is the compute-node request processor (C11): it holds no
// sessions itself; Handle is given the Session of the Host a request came
// from and dispatches the request to the native driver, mapping the outcome 1:1 onto a response message (spec.md
// §4.11). One Processor instance is shared by every session on a daemon;
// Handle is safe to call concurrently for different sessions.
type Processor struct {
	drv   driver.Driver
	stats *Stats
	cache *ProgramCache
}

func NewProcessor(drv driver.Driver, stats *Stats, cache *ProgramCache) *Processor {
	return &Processor{drv: drv, stats: stats, cache: cache}
}

// Handle interprets one inbound request against sess and returns the
// response to send back, observing spec.md §4.11's rule: unknown peers
// never reach here (the caller must have already resolved sess from the
// message's originating connection), and driver failures map 1:1 to
// ErrorResponse(request_id, errcode).
func (p *Processor) Handle(ctx context.Context, sess *Session, req wire.Request) wire.Response {
	start := time.Now()
	typeName := typeLabel(req.Type())
	resp := p.dispatch(ctx, sess, req)
	p.stats.RequestsTotal.WithLabelValues(typeName).Inc()
	p.stats.RequestLatency.WithLabelValues(typeName).Observe(time.Since(start).Seconds())
	if resp.GetErrcode() != 0 {
		p.stats.ErrorsTotal.WithLabelValues(typeName).Inc()
	}
	return resp
}

func (p *Processor) dispatch(ctx context.Context, sess *Session, req wire.Request) wire.Response {
	switch m := req.(type) {
	case *wire.GetDeviceIDs:
		ids, err := p.drv.DeviceIDs(ctx, m.PlatformID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		return &wire.DeviceIDsResponse{ResponseHeader: okHeader(m.RequestID), DeviceIDs: ids}

	case *wire.GetDeviceInfo:
		v, err := p.drv.DeviceInfo(ctx, m.DeviceID, m.Param)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		return &wire.InfoResponse{ResponseHeader: okHeader(m.RequestID), Value: v}

	case *wire.CreateContext:
		h, err := p.drv.CreateContext(ctx, m.DeviceIDs)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Contexts.Bind(m.ContextID, h)
		p.stats.ObjectsBound.WithLabelValues("context").Set(float64(sess.Contexts.Len()))
		return defaultResponse(m.RequestID)

	case *wire.DeleteContext:
		h, err := sess.Contexts.Lookup(m.ContextID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.DeleteContext(ctx, h); err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Contexts.Unbind(m.ContextID)
		p.stats.ObjectsBound.WithLabelValues("context").Set(float64(sess.Contexts.Len()))
		return defaultResponse(m.RequestID)

	case *wire.CreateCommandQueue:
		cx, err := sess.Contexts.Lookup(m.ContextID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		h, err := p.drv.CreateCommandQueue(ctx, cx, m.DeviceID, m.Profiling, m.InOrder)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.CommandQueues.Bind(m.QueueID, h)
		return defaultResponse(m.RequestID)

	case *wire.DeleteCommandQueue:
		h, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.DeleteCommandQueue(ctx, h); err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.CommandQueues.Unbind(m.QueueID)
		return defaultResponse(m.RequestID)

	case *wire.CreateBuffer:
		cx, err := sess.Contexts.Lookup(m.ContextID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		var hostData []byte
		if m.CopyHostPtr {
			ds := sess.Host().DataStream()
			if ds == nil {
				return errResponse(m.RequestID, &cos.ErrProtocolViolation{Reason: "data stream not attached"})
			}
			var buf bytes.Buffer
			if err := ds.Receive(&buf).Wait(ctx); err != nil {
				return errResponse(m.RequestID, err)
			}
			hostData = buf.Bytes()
		}
		h, err := p.drv.CreateBuffer(ctx, cx, m.Size, m.Flags, hostData)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Memory.Bind(m.MemID, h)
		p.stats.ObjectsBound.WithLabelValues("memory").Set(float64(sess.Memory.Len()))
		return defaultResponse(m.RequestID)

	case *wire.DeleteMemory:
		h, err := sess.Memory.Lookup(m.MemID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.DeleteMemory(ctx, h); err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Memory.Unbind(m.MemID)
		p.stats.ObjectsBound.WithLabelValues("memory").Set(float64(sess.Memory.Len()))
		return defaultResponse(m.RequestID)

	case *wire.CreateProgramWithSource:
		cx, err := sess.Contexts.Lookup(m.ContextID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		h, err := p.drv.CreateProgramWithSource(ctx, cx, m.Source)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Programs.Bind(m.ProgramID, h)
		return defaultResponse(m.RequestID)

	case *wire.CreateProgramWithBinary:
		cx, err := sess.Contexts.Lookup(m.ContextID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		h, err := p.drv.CreateProgramWithBinary(ctx, cx, m.DeviceIDs, m.Binaries)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Programs.Bind(m.ProgramID, h)
		return defaultResponse(m.RequestID)

	case *wire.DeleteProgram:
		h, err := sess.Programs.Lookup(m.ProgramID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.DeleteProgram(ctx, h); err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Programs.Unbind(m.ProgramID)
		return defaultResponse(m.RequestID)

	case *wire.BuildProgram:
		h, err := sess.Programs.Lookup(m.ProgramID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		buildErr := p.drv.BuildProgram(ctx, h, m.DeviceIDs, m.Options)
		status := make([]int32, len(m.DeviceIDs))
		for i := range status {
			if buildErr == nil {
				status[i] = int32(wire.BuildStatusSuccess)
			} else {
				status[i] = int32(wire.BuildStatusError)
			}
		}
		if notifyErr := sess.Host().Notify(&wire.ProgramBuildMessage{
			ProgramID:   m.ProgramID,
			DeviceIDs:   m.DeviceIDs,
			BuildStatus: status,
		}); notifyErr != nil {
			nlog.Warningf("daemon: program build notify for %d failed: %v", m.ProgramID, notifyErr)
		}
		if buildErr != nil {
			return errResponse(m.RequestID, buildErr)
		}
		return defaultResponse(m.RequestID)

	case *wire.GetProgramBuildLog:
		h, err := sess.Programs.Lookup(m.ProgramID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		log, err := p.drv.ProgramBuildLog(ctx, h, m.DeviceID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		return &wire.InfoResponse{ResponseHeader: okHeader(m.RequestID), Value: []byte(log)}

	case *wire.GetProgramInfo:
		h, err := sess.Programs.Lookup(m.ProgramID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		v, err := p.drv.ProgramInfo(ctx, h, m.Param)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		return &wire.InfoResponse{ResponseHeader: okHeader(m.RequestID), Value: v}

	case *wire.CreateKernel:
		h, err := sess.Programs.Lookup(m.ProgramID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		kh, err := p.drv.CreateKernel(ctx, h, m.Name)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Kernels.Bind(m.KernelID, kh)
		return defaultResponse(m.RequestID)

	case *wire.CreateKernelsInProgram:
		h, err := sess.Programs.Lookup(m.ProgramID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		handles, err := p.drv.CreateKernelsInProgram(ctx, h)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if len(handles) != len(m.KernelIDs) {
			return errResponse(m.RequestID, &cos.ErrProtocolViolation{Reason: "kernel count mismatch between host and driver"})
		}
		for i, kh := range handles {
			sess.Kernels.Bind(wire.ObjectID(m.KernelIDs[i]), kh)
		}
		return defaultResponse(m.RequestID)

	case *wire.DeleteKernel:
		h, err := sess.Kernels.Lookup(m.KernelID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.DeleteKernel(ctx, h); err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Kernels.Unbind(m.KernelID)
		return defaultResponse(m.RequestID)

	case *wire.SetKernelArg:
		h, err := sess.Kernels.Lookup(m.KernelID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.SetKernelArg(ctx, h, m.ArgIndex, m.Value); err != nil {
			return errResponse(m.RequestID, err)
		}
		return defaultResponse(m.RequestID)

	case *wire.SetKernelArgBinary:
		h, err := sess.Kernels.Lookup(m.KernelID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.SetKernelArgBinary(ctx, h, m.ArgIndex, m.Binary); err != nil {
			return errResponse(m.RequestID, err)
		}
		return defaultResponse(m.RequestID)

	case *wire.SetKernelArgMemObject:
		h, err := sess.Kernels.Lookup(m.KernelID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		var mem driver.Handle
		if !m.IsLocalScratch() {
			if mem, err = sess.Memory.Lookup(m.MemID); err != nil {
				return errResponse(m.RequestID, err)
			}
		}
		if err := p.drv.SetKernelArgMemObject(ctx, h, m.ArgIndex, mem, m.LocalSize); err != nil {
			return errResponse(m.RequestID, err)
		}
		return defaultResponse(m.RequestID)

	case *wire.GetKernelInfo:
		h, err := sess.Kernels.Lookup(m.KernelID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		v, err := p.drv.KernelInfo(ctx, h, m.Param)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		return &wire.InfoResponse{ResponseHeader: okHeader(m.RequestID), Value: v}

	case *wire.GetKernelWorkGroupInfo:
		h, err := sess.Kernels.Lookup(m.KernelID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		v, err := p.drv.KernelWorkGroupInfo(ctx, h, m.DeviceID, m.Param)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		return &wire.InfoResponse{ResponseHeader: okHeader(m.RequestID), Value: v}

	case *wire.CreateEvent:
		cx, err := sess.Contexts.Lookup(m.ContextID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		h, err := p.drv.CreateEvent(ctx, cx)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, h)
		return defaultResponse(m.RequestID)

	case *wire.DeleteEvent:
		h, err := sess.Events.Lookup(m.EventID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.DeleteEvent(ctx, h); err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Unbind(m.EventID)
		return defaultResponse(m.RequestID)

	case *wire.GetEventProfilingInfos:
		h, err := sess.Events.Lookup(m.EventID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		queued, submit, st, end, err := p.drv.EventProfilingInfo(ctx, h)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		return &wire.EventProfilingInfosResponse{ResponseHeader: okHeader(m.RequestID), Queued: queued, Submit: submit, Start: st, End: end}

	case *wire.EnqueueReadBuffer:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		mem, err := sess.Memory.Lookup(m.MemID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		wait, err := sess.resolveWaitList(m.WaitList)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		ds := sess.Host().DataStream()
		if ds == nil {
			return errResponse(m.RequestID, &cos.ErrProtocolViolation{Reason: "data stream not attached"})
		}
		buf := make([]byte, m.Size)
		eh, err := p.drv.EnqueueReadBuffer(ctx, queue, mem, m.Offset, m.Size, buf, wait)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := ds.Send(bytes.NewReader(buf), int64(len(buf))).Wait(ctx); err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, eh)
		p.stats.BytesStreamed.WithLabelValues("read").Add(float64(m.Size))
		return defaultResponse(m.RequestID)

	case *wire.EnqueueWriteBuffer:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		mem, err := sess.Memory.Lookup(m.MemID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		wait, err := sess.resolveWaitList(m.WaitList)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		ds := sess.Host().DataStream()
		if ds == nil {
			return errResponse(m.RequestID, &cos.ErrProtocolViolation{Reason: "data stream not attached"})
		}
		var recv bytes.Buffer
		if err := ds.Receive(&recv).Wait(ctx); err != nil {
			return errResponse(m.RequestID, err)
		}
		eh, err := p.drv.EnqueueWriteBuffer(ctx, queue, mem, m.Offset, m.Size, recv.Bytes(), wait)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, eh)
		sess.EventObjects.Bind(m.EventID, []wire.ObjectID{m.MemID})
		p.stats.BytesStreamed.WithLabelValues("write").Add(float64(m.Size))
		return defaultResponse(m.RequestID)

	case *wire.EnqueueCopyBuffer:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		src, err := sess.Memory.Lookup(m.SrcMemID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		dst, err := sess.Memory.Lookup(m.DstMemID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		wait, err := sess.resolveWaitList(m.WaitList)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		eh, err := p.drv.EnqueueCopyBuffer(ctx, queue, src, dst, m.SrcOffset, m.DstOffset, m.Size, wait)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, eh)
		sess.EventObjects.Bind(m.EventID, []wire.ObjectID{m.DstMemID})
		return defaultResponse(m.RequestID)

	case *wire.EnqueueMapBuffer:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		mem, err := sess.Memory.Lookup(m.MemID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		wait, err := sess.resolveWaitList(m.WaitList)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		eh, _, err := p.drv.EnqueueMapBuffer(ctx, queue, mem, m.Offset, m.Size, m.WriteMap, wait)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, eh)
		return defaultResponse(m.RequestID)

	case *wire.EnqueueUnmapBuffer:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		mem, err := sess.Memory.Lookup(m.MemID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		wait, err := sess.resolveWaitList(m.WaitList)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		eh, err := p.drv.EnqueueUnmapBuffer(ctx, queue, mem, wait)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, eh)
		return defaultResponse(m.RequestID)

	case *wire.EnqueueNDRangeKernel:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		kernel, err := sess.Kernels.Lookup(m.KernelID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		wait, err := sess.resolveWaitList(m.WaitList)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		eh, err := p.drv.EnqueueNDRangeKernel(ctx, queue, kernel, m.WorkDim, m.GlobalOffset, m.GlobalSize, m.LocalSize, wait)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, eh)
		return defaultResponse(m.RequestID)

	case *wire.EnqueueMarker:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		eh, err := p.drv.EnqueueMarker(ctx, queue)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, eh)
		return defaultResponse(m.RequestID)

	case *wire.EnqueueBarrier:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.EnqueueBarrier(ctx, queue); err != nil {
			return errResponse(m.RequestID, err)
		}
		return defaultResponse(m.RequestID)

	case *wire.EnqueueWaitForEvents:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		for _, id := range m.WaitList {
			if err := sess.AcquireEvent(ctx, wire.ObjectID(id)); err != nil {
				return errResponse(m.RequestID, err)
			}
		}
		wait, err := sess.resolveWaitList(m.WaitList)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		eh, err := p.drv.EnqueueWaitForEvents(ctx, queue, wait)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		sess.Events.Bind(m.EventID, eh)
		return defaultResponse(m.RequestID)

	case *wire.FlushRequest:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.Flush(ctx, queue); err != nil {
			return errResponse(m.RequestID, err)
		}
		return defaultResponse(m.RequestID)

	case *wire.FinishRequest:
		queue, err := sess.CommandQueues.Lookup(m.QueueID)
		if err != nil {
			return errResponse(m.RequestID, err)
		}
		if err := p.drv.Finish(ctx, queue); err != nil {
			return errResponse(m.RequestID, err)
		}
		return defaultResponse(m.RequestID)

	case *wire.EnqueueBroadcastBuffer, *wire.EnqueueReduceBuffer, *wire.ReleaseRequest:
		nlog.Warningf("daemon: request type %d accepted by catalogue but not handled by this processor", req.Type())
		return errResponse(req.GetRequestID(), &cos.ErrProtocolViolation{Reason: "unsupported request type"})

	default:
		return errResponse(req.GetRequestID(), &cos.ErrProtocolViolation{Reason: "unknown request type"})
	}
}

// resolveWaitList turns a wire wait-list of ObjectIDs into native driver
// event handles (spec.md §4.13 wait_list semantics).
func (s *Session) resolveWaitList(ids []uint32) ([]driver.Handle, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	objIDs := make([]wire.ObjectID, len(ids))
	for i, id := range ids {
		objIDs[i] = wire.ObjectID(id)
	}
	return s.Events.LookupMany(objIDs)
}

func okHeader(requestID uint32) wire.ResponseHeader {
	return wire.ResponseHeader{RequestID: requestID, Errcode: 0}
}

func defaultResponse(requestID uint32) wire.Response {
	return &wire.DefaultResponse{ResponseHeader: okHeader(requestID)}
}

func errResponse(requestID uint32, err error) wire.Response {
	code := cos.ErrProtocol
	if de, ok := err.(*driver.Error); ok {
		code = de.Code
	}
	return &wire.ErrorResponse{ResponseHeader: wire.ResponseHeader{RequestID: requestID, Errcode: code}}
}

func typeLabel(t wire.Type) string {
	return strconv.FormatUint(uint64(t), 10)
}
