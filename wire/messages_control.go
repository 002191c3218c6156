package wire

// This file carries the device/context/queue/memory/program/kernel/event
// control-plane messages from spec.md §4.2's required-variants list, plus
// the two supplemented variants from SPEC_FULL.md §6 (GetProgramInfo,
// DeviceInfosResponse).

func init() {
	register(TypeGetDeviceIDs, func() Message { return &GetDeviceIDs{} })
	register(TypeDeviceIDsResponse, func() Message { return &DeviceIDsResponse{} })
	register(TypeGetDeviceInfo, func() Message { return &GetDeviceInfo{} })
	register(TypeInfoResponse, func() Message { return &InfoResponse{} })
	register(TypeDeviceInfosResponse, func() Message { return &DeviceInfosResponse{} })

	register(TypeCreateContext, func() Message { return &CreateContext{} })
	register(TypeDeleteContext, func() Message { return &DeleteContext{} })

	register(TypeCreateCommandQueue, func() Message { return &CreateCommandQueue{} })
	register(TypeDeleteCommandQueue, func() Message { return &DeleteCommandQueue{} })

	register(TypeCreateBuffer, func() Message { return &CreateBuffer{} })
	register(TypeDeleteMemory, func() Message { return &DeleteMemory{} })

	register(TypeCreateProgramWithSource, func() Message { return &CreateProgramWithSource{} })
	register(TypeCreateProgramWithBinary, func() Message { return &CreateProgramWithBinary{} })
	register(TypeDeleteProgram, func() Message { return &DeleteProgram{} })
	register(TypeBuildProgram, func() Message { return &BuildProgram{} })
	register(TypeGetProgramBuildLog, func() Message { return &GetProgramBuildLog{} })
	register(TypeGetProgramInfo, func() Message { return &GetProgramInfo{} })

	register(TypeCreateKernel, func() Message { return &CreateKernel{} })
	register(TypeCreateKernelsInProgram, func() Message { return &CreateKernelsInProgram{} })
	register(TypeDeleteKernel, func() Message { return &DeleteKernel{} })
	register(TypeSetKernelArg, func() Message { return &SetKernelArg{} })
	register(TypeSetKernelArgBinary, func() Message { return &SetKernelArgBinary{} })
	register(TypeSetKernelArgMemObject, func() Message { return &SetKernelArgMemObject{} })
	register(TypeGetKernelInfo, func() Message { return &GetKernelInfo{} })
	register(TypeGetKernelWorkGroupInfo, func() Message { return &GetKernelWorkGroupInfo{} })

	register(TypeCreateEvent, func() Message { return &CreateEvent{} })
	register(TypeDeleteEvent, func() Message { return &DeleteEvent{} })
	register(TypeGetEventProfilingInfos, func() Message { return &GetEventProfilingInfos{} })
	register(TypeEventProfilingInfosResponse, func() Message { return &EventProfilingInfosResponse{} })

	register(TypeFlushRequest, func() Message { return &FlushRequest{} })
	register(TypeFinishRequest, func() Message { return &FinishRequest{} })

	register(TypeDefaultResponse, func() Message { return &DefaultResponse{} })
	register(TypeErrorResponse, func() Message { return &ErrorResponse{} })

	register(TypeReleaseRequest, func() Message { return &ReleaseRequest{} })
}

//
// device enumeration
//

type GetDeviceIDs struct {
	RequestHeader
	PlatformID uint32
}

func (m *GetDeviceIDs) Type() Type { return TypeGetDeviceIDs }
func (m *GetDeviceIDs) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(m.PlatformID)
}
func (m *GetDeviceIDs) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	m.PlatformID, err = b.GetUint32()
	return
}

type DeviceIDsResponse struct {
	ResponseHeader
	DeviceIDs []uint32
}

func (m *DeviceIDsResponse) Type() Type { return TypeDeviceIDsResponse }
func (m *DeviceIDsResponse) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32Seq(m.DeviceIDs)
}
func (m *DeviceIDsResponse) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	m.DeviceIDs, err = b.GetUint32Seq()
	return
}

type GetDeviceInfo struct {
	RequestHeader
	DeviceID uint32
	Param    uint32
}

func (m *GetDeviceInfo) Type() Type { return TypeGetDeviceInfo }
func (m *GetDeviceInfo) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(m.DeviceID)
	b.PutUint32(m.Param)
}
func (m *GetDeviceInfo) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	if m.DeviceID, err = b.GetUint32(); err != nil {
		return
	}
	m.Param, err = b.GetUint32()
	return
}

// InfoResponse is the generic marshaled-blob response used by every
// GetXxxInfo request (spec.md §4.11 "GetInfo requests marshal the native
// driver's blob into InfoResponse").
type InfoResponse struct {
	ResponseHeader
	Value []byte
}

func (m *InfoResponse) Type() Type { return TypeInfoResponse }
func (m *InfoResponse) Pack(b *Buffer) {
	m.pack(b)
	b.PutBlob(m.Value)
}
func (m *InfoResponse) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	m.Value, err = b.GetBlob()
	return
}

// DeviceInfosResponse batches multiple devices' info blobs in one reply
// (supplemented per SPEC_FULL.md §6.2, grounded on the original's
// DeviceInfosResponse.h).
type DeviceInfosResponse struct {
	ResponseHeader
	Values [][]byte
}

func (m *DeviceInfosResponse) Type() Type { return TypeDeviceInfosResponse }
func (m *DeviceInfosResponse) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(len(m.Values)))
	for _, v := range m.Values {
		b.PutBlob(v)
	}
}
func (m *DeviceInfosResponse) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	n, err := b.GetUint32()
	if err != nil {
		return err
	}
	if err = checkCount(b, n); err != nil {
		return err
	}
	m.Values = make([][]byte, n)
	for i := range m.Values {
		if m.Values[i], err = b.GetBlob(); err != nil {
			return err
		}
	}
	return nil
}

//
// context
//

type CreateContext struct {
	RequestHeader
	ContextID ObjectID
	DeviceIDs []uint32
}

func (m *CreateContext) Type() Type { return TypeCreateContext }
func (m *CreateContext) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.ContextID))
	b.PutUint32Seq(m.DeviceIDs)
}
func (m *CreateContext) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ContextID = ObjectID(id)
	m.DeviceIDs, err = b.GetUint32Seq()
	return
}

type DeleteContext struct {
	RequestHeader
	ContextID ObjectID
}

func (m *DeleteContext) Type() Type { return TypeDeleteContext }
func (m *DeleteContext) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.ContextID))
}
func (m *DeleteContext) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.ContextID = ObjectID(id)
	return
}

//
// command queue
//

type CreateCommandQueue struct {
	RequestHeader
	QueueID   ObjectID
	ContextID ObjectID
	DeviceID  uint32
	Profiling bool
	InOrder   bool
}

func (m *CreateCommandQueue) Type() Type { return TypeCreateCommandQueue }
func (m *CreateCommandQueue) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.ContextID))
	b.PutUint32(m.DeviceID)
	b.PutBool(m.Profiling)
	b.PutBool(m.InOrder)
}
func (m *CreateCommandQueue) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.QueueID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ContextID = ObjectID(id)
	if m.DeviceID, err = b.GetUint32(); err != nil {
		return
	}
	if m.Profiling, err = b.GetBool(); err != nil {
		return
	}
	m.InOrder, err = b.GetBool()
	return
}

type DeleteCommandQueue struct {
	RequestHeader
	QueueID ObjectID
}

func (m *DeleteCommandQueue) Type() Type { return TypeDeleteCommandQueue }
func (m *DeleteCommandQueue) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
}
func (m *DeleteCommandQueue) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.QueueID = ObjectID(id)
	return
}

//
// memory objects
//

type CreateBuffer struct {
	RequestHeader
	MemID        ObjectID
	ContextID    ObjectID
	Size         uint64
	Flags        uint64
	CopyHostPtr  bool // CL_MEM_COPY_HOST_PTR / CL_MEM_USE_HOST_PTR: pull initial bytes over the data stream
}

func (m *CreateBuffer) Type() Type { return TypeCreateBuffer }
func (m *CreateBuffer) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.MemID))
	b.PutUint32(uint32(m.ContextID))
	b.PutUint64(m.Size)
	b.PutUint64(m.Flags)
	b.PutBool(m.CopyHostPtr)
}
func (m *CreateBuffer) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.MemID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ContextID = ObjectID(id)
	if m.Size, err = b.GetUint64(); err != nil {
		return
	}
	if m.Flags, err = b.GetUint64(); err != nil {
		return
	}
	m.CopyHostPtr, err = b.GetBool()
	return
}

type DeleteMemory struct {
	RequestHeader
	MemID ObjectID
}

func (m *DeleteMemory) Type() Type { return TypeDeleteMemory }
func (m *DeleteMemory) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.MemID))
}
func (m *DeleteMemory) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.MemID = ObjectID(id)
	return
}

//
// programs
//

type CreateProgramWithSource struct {
	RequestHeader
	ProgramID ObjectID
	ContextID ObjectID
	Source    string
}

func (m *CreateProgramWithSource) Type() Type { return TypeCreateProgramWithSource }
func (m *CreateProgramWithSource) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.ProgramID))
	b.PutUint32(uint32(m.ContextID))
	b.PutString(m.Source)
}
func (m *CreateProgramWithSource) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ProgramID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ContextID = ObjectID(id)
	m.Source, err = b.GetString()
	return
}

type CreateProgramWithBinary struct {
	RequestHeader
	ProgramID ObjectID
	ContextID ObjectID
	DeviceIDs []uint32
	Binaries  [][]byte
}

func (m *CreateProgramWithBinary) Type() Type { return TypeCreateProgramWithBinary }
func (m *CreateProgramWithBinary) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.ProgramID))
	b.PutUint32(uint32(m.ContextID))
	b.PutUint32Seq(m.DeviceIDs)
	b.PutUint32(uint32(len(m.Binaries)))
	for _, bin := range m.Binaries {
		b.PutBlob(bin)
	}
}
func (m *CreateProgramWithBinary) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ProgramID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ContextID = ObjectID(id)
	if m.DeviceIDs, err = b.GetUint32Seq(); err != nil {
		return
	}
	n, err := b.GetUint32()
	if err != nil {
		return err
	}
	if err = checkCount(b, n); err != nil {
		return err
	}
	m.Binaries = make([][]byte, n)
	for i := range m.Binaries {
		if m.Binaries[i], err = b.GetBlob(); err != nil {
			return err
		}
	}
	return nil
}

type DeleteProgram struct {
	RequestHeader
	ProgramID ObjectID
}

func (m *DeleteProgram) Type() Type { return TypeDeleteProgram }
func (m *DeleteProgram) Pack(b *Buffer) { m.pack(b); b.PutUint32(uint32(m.ProgramID)) }
func (m *DeleteProgram) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.ProgramID = ObjectID(id)
	return
}

type BuildProgram struct {
	RequestHeader
	ProgramID ObjectID
	DeviceIDs []uint32
	Options   string
}

func (m *BuildProgram) Type() Type { return TypeBuildProgram }
func (m *BuildProgram) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.ProgramID))
	b.PutUint32Seq(m.DeviceIDs)
	b.PutString(m.Options)
}
func (m *BuildProgram) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ProgramID = ObjectID(id)
	if m.DeviceIDs, err = b.GetUint32Seq(); err != nil {
		return
	}
	m.Options, err = b.GetString()
	return
}

type GetProgramBuildLog struct {
	RequestHeader
	ProgramID ObjectID
	DeviceID  uint32
}

func (m *GetProgramBuildLog) Type() Type { return TypeGetProgramBuildLog }
func (m *GetProgramBuildLog) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.ProgramID))
	b.PutUint32(m.DeviceID)
}
func (m *GetProgramBuildLog) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ProgramID = ObjectID(id)
	m.DeviceID, err = b.GetUint32()
	return
}

// GetProgramInfo is the supplemented plain program-info request (the
// original's GET_PROGRAM_INFO = 45), omitted by spec.md's distillation
// (see SPEC_FULL.md §6.1). Reuses InfoResponse.
type GetProgramInfo struct {
	RequestHeader
	ProgramID ObjectID
	Param     uint32
}

func (m *GetProgramInfo) Type() Type { return TypeGetProgramInfo }
func (m *GetProgramInfo) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.ProgramID))
	b.PutUint32(m.Param)
}
func (m *GetProgramInfo) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ProgramID = ObjectID(id)
	m.Param, err = b.GetUint32()
	return
}

//
// kernels
//

type CreateKernel struct {
	RequestHeader
	KernelID  ObjectID
	ProgramID ObjectID
	Name      string
}

func (m *CreateKernel) Type() Type { return TypeCreateKernel }
func (m *CreateKernel) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.KernelID))
	b.PutUint32(uint32(m.ProgramID))
	b.PutString(m.Name)
}
func (m *CreateKernel) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.KernelID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ProgramID = ObjectID(id)
	m.Name, err = b.GetString()
	return
}

type CreateKernelsInProgram struct {
	RequestHeader
	ProgramID ObjectID
	KernelIDs []uint32 // pre-allocated ids, one per kernel found in the program, in driver-reported order
}

func (m *CreateKernelsInProgram) Type() Type { return TypeCreateKernelsInProgram }
func (m *CreateKernelsInProgram) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.ProgramID))
	b.PutUint32Seq(m.KernelIDs)
}
func (m *CreateKernelsInProgram) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ProgramID = ObjectID(id)
	m.KernelIDs, err = b.GetUint32Seq()
	return
}

type DeleteKernel struct {
	RequestHeader
	KernelID ObjectID
}

func (m *DeleteKernel) Type() Type { return TypeDeleteKernel }
func (m *DeleteKernel) Pack(b *Buffer) { m.pack(b); b.PutUint32(uint32(m.KernelID)) }
func (m *DeleteKernel) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.KernelID = ObjectID(id)
	return
}

type SetKernelArg struct {
	RequestHeader
	KernelID ObjectID
	ArgIndex uint32
	Value    []byte
}

func (m *SetKernelArg) Type() Type { return TypeSetKernelArg }
func (m *SetKernelArg) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.KernelID))
	b.PutUint32(m.ArgIndex)
	b.PutBlob(m.Value)
}
func (m *SetKernelArg) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.KernelID = ObjectID(id)
	if m.ArgIndex, err = b.GetUint32(); err != nil {
		return
	}
	m.Value, err = b.GetBlob()
	return
}

// SetKernelArgBinary sets an opaque, driver-specific binary argument (e.g. a
// sampler descriptor) distinct from a plain scalar value.
type SetKernelArgBinary struct {
	RequestHeader
	KernelID ObjectID
	ArgIndex uint32
	Binary   []byte
}

func (m *SetKernelArgBinary) Type() Type { return TypeSetKernelArgBinary }
func (m *SetKernelArgBinary) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.KernelID))
	b.PutUint32(m.ArgIndex)
	b.PutBlob(m.Binary)
}
func (m *SetKernelArgBinary) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.KernelID = ObjectID(id)
	if m.ArgIndex, err = b.GetUint32(); err != nil {
		return
	}
	m.Binary, err = b.GetBlob()
	return
}

// SetKernelArgMemObject sets a __global/__constant/__local pointer argument.
// A MemID of zero means "local-memory scratch of LocalSize bytes" (spec.md
// §4.11).
type SetKernelArgMemObject struct {
	RequestHeader
	KernelID  ObjectID
	ArgIndex  uint32
	MemID     ObjectID
	LocalSize uint64
}

func (m *SetKernelArgMemObject) Type() Type { return TypeSetKernelArgMemObject }
func (m *SetKernelArgMemObject) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.KernelID))
	b.PutUint32(m.ArgIndex)
	b.PutUint32(uint32(m.MemID))
	b.PutUint64(m.LocalSize)
}
func (m *SetKernelArgMemObject) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.KernelID = ObjectID(id)
	if m.ArgIndex, err = b.GetUint32(); err != nil {
		return
	}
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.MemID = ObjectID(id)
	m.LocalSize, err = b.GetUint64()
	return
}

// IsLocalScratch reports whether this argument designates local-memory
// scratch rather than a bound memory object (spec.md §4.11, §8).
func (m *SetKernelArgMemObject) IsLocalScratch() bool { return m.MemID == 0 }

type GetKernelInfo struct {
	RequestHeader
	KernelID ObjectID
	Param    uint32
}

func (m *GetKernelInfo) Type() Type { return TypeGetKernelInfo }
func (m *GetKernelInfo) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.KernelID))
	b.PutUint32(m.Param)
}
func (m *GetKernelInfo) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.KernelID = ObjectID(id)
	m.Param, err = b.GetUint32()
	return
}

type GetKernelWorkGroupInfo struct {
	RequestHeader
	KernelID ObjectID
	DeviceID uint32
	Param    uint32
}

func (m *GetKernelWorkGroupInfo) Type() Type { return TypeGetKernelWorkGroupInfo }
func (m *GetKernelWorkGroupInfo) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.KernelID))
	b.PutUint32(m.DeviceID)
	b.PutUint32(m.Param)
}
func (m *GetKernelWorkGroupInfo) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.KernelID = ObjectID(id)
	if m.DeviceID, err = b.GetUint32(); err != nil {
		return
	}
	m.Param, err = b.GetUint32()
	return
}

//
// events
//

type CreateEvent struct {
	RequestHeader
	EventID   ObjectID
	ContextID ObjectID
}

func (m *CreateEvent) Type() Type { return TypeCreateEvent }
func (m *CreateEvent) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.EventID))
	b.PutUint32(uint32(m.ContextID))
}
func (m *CreateEvent) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.EventID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ContextID = ObjectID(id)
	return
}

type DeleteEvent struct {
	RequestHeader
	EventID ObjectID
}

func (m *DeleteEvent) Type() Type { return TypeDeleteEvent }
func (m *DeleteEvent) Pack(b *Buffer) { m.pack(b); b.PutUint32(uint32(m.EventID)) }
func (m *DeleteEvent) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.EventID = ObjectID(id)
	return
}

type GetEventProfilingInfos struct {
	RequestHeader
	EventID ObjectID
}

func (m *GetEventProfilingInfos) Type() Type { return TypeGetEventProfilingInfos }
func (m *GetEventProfilingInfos) Pack(b *Buffer) { m.pack(b); b.PutUint32(uint32(m.EventID)) }
func (m *GetEventProfilingInfos) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.EventID = ObjectID(id)
	return
}

// EventProfilingInfosResponse carries the four profiling timestamps
// (spec.md §3 "Remote event ... profiling timestamps"), all nanoseconds on
// the global monotonic clock (spec.md §4.12).
type EventProfilingInfosResponse struct {
	ResponseHeader
	Queued  int64
	Submit  int64
	Start   int64
	End     int64
}

func (m *EventProfilingInfosResponse) Type() Type { return TypeEventProfilingInfosResponse }
func (m *EventProfilingInfosResponse) Pack(b *Buffer) {
	m.pack(b)
	b.PutInt64(m.Queued)
	b.PutInt64(m.Submit)
	b.PutInt64(m.Start)
	b.PutInt64(m.End)
}
func (m *EventProfilingInfosResponse) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	if m.Queued, err = b.GetInt64(); err != nil {
		return
	}
	if m.Submit, err = b.GetInt64(); err != nil {
		return
	}
	if m.Start, err = b.GetInt64(); err != nil {
		return
	}
	m.End, err = b.GetInt64()
	return
}

//
// flush/finish
//

type FlushRequest struct {
	RequestHeader
	QueueID ObjectID
}

func (m *FlushRequest) Type() Type { return TypeFlushRequest }
func (m *FlushRequest) Pack(b *Buffer) { m.pack(b); b.PutUint32(uint32(m.QueueID)) }
func (m *FlushRequest) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.QueueID = ObjectID(id)
	return
}

type FinishRequest struct {
	RequestHeader
	QueueID ObjectID
}

func (m *FinishRequest) Type() Type { return TypeFinishRequest }
func (m *FinishRequest) Pack(b *Buffer) { m.pack(b); b.PutUint32(uint32(m.QueueID)) }
func (m *FinishRequest) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.QueueID = ObjectID(id)
	return
}

//
// generic responses
//

type DefaultResponse struct {
	ResponseHeader
}

func (m *DefaultResponse) Type() Type         { return TypeDefaultResponse }
func (m *DefaultResponse) Pack(b *Buffer)     { m.pack(b) }
func (m *DefaultResponse) Unpack(b *Buffer) error { return m.unpack(b) }

type ErrorResponse struct {
	ResponseHeader
}

func (m *ErrorResponse) Type() Type         { return TypeErrorResponse }
func (m *ErrorResponse) Pack(b *Buffer)     { m.pack(b) }
func (m *ErrorResponse) Unpack(b *Buffer) error { return m.unpack(b) }

// ReleaseRequest is reserved: defined in the original catalogue but not part
// of the required surface (spec.md §9 Open Questions). Kept so the tag
// space is stable; the daemon answers it with an unsupported-request error.
type ReleaseRequest struct {
	RequestHeader
	ObjID ObjectID
}

func (m *ReleaseRequest) Type() Type { return TypeReleaseRequest }
func (m *ReleaseRequest) Pack(b *Buffer) { m.pack(b); b.PutUint32(uint32(m.ObjID)) }
func (m *ReleaseRequest) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.ObjID = ObjectID(id)
	return
}

func checkCount(b *Buffer, n uint32) error {
	// re-use the buffer's own sequence cap to reject runaway counts
	// before allocating (same guard as GetUint32Seq).
	return b.checkSeqLen(n)
}
