package wire

// Enqueue* requests are the command-queue submission family (spec.md §4.13,
// C13). Every one carries a QueueID; all but Marker and Barrier carry a
// zero-or-more WaitList of event ids to depend on; and all but Barrier carry
// an EventID the submitter pre-allocated to track this command's lifecycle.

func init() {
	register(TypeEnqueueReadBuffer, func() Message { return &EnqueueReadBuffer{} })
	register(TypeEnqueueWriteBuffer, func() Message { return &EnqueueWriteBuffer{} })
	register(TypeEnqueueCopyBuffer, func() Message { return &EnqueueCopyBuffer{} })
	register(TypeEnqueueMapBuffer, func() Message { return &EnqueueMapBuffer{} })
	register(TypeEnqueueUnmapBuffer, func() Message { return &EnqueueUnmapBuffer{} })
	register(TypeEnqueueNDRangeKernel, func() Message { return &EnqueueNDRangeKernel{} })
	register(TypeEnqueueMarker, func() Message { return &EnqueueMarker{} })
	register(TypeEnqueueBarrier, func() Message { return &EnqueueBarrier{} })
	register(TypeEnqueueWaitForEvents, func() Message { return &EnqueueWaitForEvents{} })
	register(TypeEnqueueBroadcastBuffer, func() Message { return &EnqueueBroadcastBuffer{} })
	register(TypeEnqueueReduceBuffer, func() Message { return &EnqueueReduceBuffer{} })
}

type EnqueueReadBuffer struct {
	RequestHeader
	QueueID  ObjectID
	MemID    ObjectID
	Offset   uint64
	Size     uint64
	EventID  ObjectID
	WaitList []uint32
}

func (m *EnqueueReadBuffer) Type() Type { return TypeEnqueueReadBuffer }
func (m *EnqueueReadBuffer) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.MemID))
	b.PutUint64(m.Offset)
	b.PutUint64(m.Size)
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueReadBuffer) Unpack(b *Buffer) (err error) {
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
	m.MemID = ObjectID(id)
	if m.Offset, err = b.GetUint64(); err != nil {
		return
	}
	if m.Size, err = b.GetUint64(); err != nil {
		return
	}
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

type EnqueueWriteBuffer struct {
	RequestHeader
	QueueID  ObjectID
	MemID    ObjectID
	Offset   uint64
	Size     uint64
	EventID  ObjectID
	WaitList []uint32
}

func (m *EnqueueWriteBuffer) Type() Type { return TypeEnqueueWriteBuffer }
func (m *EnqueueWriteBuffer) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.MemID))
	b.PutUint64(m.Offset)
	b.PutUint64(m.Size)
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueWriteBuffer) Unpack(b *Buffer) (err error) {
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
	m.MemID = ObjectID(id)
	if m.Offset, err = b.GetUint64(); err != nil {
		return
	}
	if m.Size, err = b.GetUint64(); err != nil {
		return
	}
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

type EnqueueCopyBuffer struct {
	RequestHeader
	QueueID   ObjectID
	SrcMemID  ObjectID
	DstMemID  ObjectID
	SrcOffset uint64
	DstOffset uint64
	Size      uint64
	EventID   ObjectID
	WaitList  []uint32
}

func (m *EnqueueCopyBuffer) Type() Type { return TypeEnqueueCopyBuffer }
func (m *EnqueueCopyBuffer) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.SrcMemID))
	b.PutUint32(uint32(m.DstMemID))
	b.PutUint64(m.SrcOffset)
	b.PutUint64(m.DstOffset)
	b.PutUint64(m.Size)
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueCopyBuffer) Unpack(b *Buffer) (err error) {
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
	m.SrcMemID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.DstMemID = ObjectID(id)
	if m.SrcOffset, err = b.GetUint64(); err != nil {
		return
	}
	if m.DstOffset, err = b.GetUint64(); err != nil {
		return
	}
	if m.Size, err = b.GetUint64(); err != nil {
		return
	}
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

type EnqueueMapBuffer struct {
	RequestHeader
	QueueID  ObjectID
	MemID    ObjectID
	Offset   uint64
	Size     uint64
	WriteMap bool // true: CL_MAP_WRITE; false: CL_MAP_READ
	EventID  ObjectID
	WaitList []uint32
}

func (m *EnqueueMapBuffer) Type() Type { return TypeEnqueueMapBuffer }
func (m *EnqueueMapBuffer) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.MemID))
	b.PutUint64(m.Offset)
	b.PutUint64(m.Size)
	b.PutBool(m.WriteMap)
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueMapBuffer) Unpack(b *Buffer) (err error) {
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
	m.MemID = ObjectID(id)
	if m.Offset, err = b.GetUint64(); err != nil {
		return
	}
	if m.Size, err = b.GetUint64(); err != nil {
		return
	}
	if m.WriteMap, err = b.GetBool(); err != nil {
		return
	}
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

type EnqueueUnmapBuffer struct {
	RequestHeader
	QueueID  ObjectID
	MemID    ObjectID
	EventID  ObjectID
	WaitList []uint32
}

func (m *EnqueueUnmapBuffer) Type() Type { return TypeEnqueueUnmapBuffer }
func (m *EnqueueUnmapBuffer) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.MemID))
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueUnmapBuffer) Unpack(b *Buffer) (err error) {
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
	m.MemID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

type EnqueueNDRangeKernel struct {
	RequestHeader
	QueueID      ObjectID
	KernelID     ObjectID
	WorkDim      uint32
	GlobalOffset []uint64
	GlobalSize   []uint64
	LocalSize    []uint64 // empty means "let the driver pick"
	EventID      ObjectID
	WaitList     []uint32
}

func (m *EnqueueNDRangeKernel) Type() Type { return TypeEnqueueNDRangeKernel }
func (m *EnqueueNDRangeKernel) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.KernelID))
	b.PutUint32(m.WorkDim)
	putUint64Seq(b, m.GlobalOffset)
	putUint64Seq(b, m.GlobalSize)
	putUint64Seq(b, m.LocalSize)
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueNDRangeKernel) Unpack(b *Buffer) (err error) {
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
	m.KernelID = ObjectID(id)
	if m.WorkDim, err = b.GetUint32(); err != nil {
		return
	}
	if m.GlobalOffset, err = getUint64Seq(b); err != nil {
		return
	}
	if m.GlobalSize, err = getUint64Seq(b); err != nil {
		return
	}
	if m.LocalSize, err = getUint64Seq(b); err != nil {
		return
	}
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

type EnqueueMarker struct {
	RequestHeader
	QueueID ObjectID
	EventID ObjectID
}

func (m *EnqueueMarker) Type() Type { return TypeEnqueueMarker }
func (m *EnqueueMarker) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.EventID))
}
func (m *EnqueueMarker) Unpack(b *Buffer) (err error) {
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
	m.EventID = ObjectID(id)
	return
}

// EnqueueBarrier has no completion event of its own in the original
// protocol: it simply orders subsequent commands on the queue after every
// command currently queued.
type EnqueueBarrier struct {
	RequestHeader
	QueueID ObjectID
}

func (m *EnqueueBarrier) Type() Type { return TypeEnqueueBarrier }
func (m *EnqueueBarrier) Pack(b *Buffer) { m.pack(b); b.PutUint32(uint32(m.QueueID)) }
func (m *EnqueueBarrier) Unpack(b *Buffer) (err error) {
	if err = m.unpack(b); err != nil {
		return
	}
	var id uint32
	id, err = b.GetUint32()
	m.QueueID = ObjectID(id)
	return
}

type EnqueueWaitForEvents struct {
	RequestHeader
	QueueID  ObjectID
	EventID  ObjectID
	WaitList []uint32
}

func (m *EnqueueWaitForEvents) Type() Type { return TypeEnqueueWaitForEvents }
func (m *EnqueueWaitForEvents) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueWaitForEvents) Unpack(b *Buffer) (err error) {
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
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

// EnqueueBroadcastBuffer and EnqueueReduceBuffer are the collective-transfer
// operations grounded on the original's "_transfer" collective messages and
// supplemented with an explicit Rendezvous flag: when
// true, the host only coordinates and the named compute nodes talk directly
// data-stream to data-stream; when false, the host relays through itself.
type EnqueueBroadcastBuffer struct {
	RequestHeader
	QueueID    ObjectID
	MemID      ObjectID
	Size       uint64
	Peers      []uint64
	Rendezvous bool
	EventID    ObjectID
	WaitList   []uint32
}

func (m *EnqueueBroadcastBuffer) Type() Type { return TypeEnqueueBroadcastBuffer }
func (m *EnqueueBroadcastBuffer) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.MemID))
	b.PutUint64(m.Size)
	b.PutUint32(uint32(len(m.Peers)))
	for _, p := range m.Peers {
		b.PutUint64(p)
	}
	b.PutBool(m.Rendezvous)
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueBroadcastBuffer) Unpack(b *Buffer) (err error) {
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
	m.MemID = ObjectID(id)
	if m.Size, err = b.GetUint64(); err != nil {
		return
	}
	n, err := b.GetUint32()
	if err != nil {
		return err
	}
	if err = checkCount(b, n); err != nil {
		return err
	}
	m.Peers = make([]uint64, n)
	for i := range m.Peers {
		if m.Peers[i], err = b.GetUint64(); err != nil {
			return err
		}
	}
	if m.Rendezvous, err = b.GetBool(); err != nil {
		return err
	}
	if id, err = b.GetUint32(); err != nil {
		return err
	}
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

type EnqueueReduceBuffer struct {
	RequestHeader
	QueueID    ObjectID
	SrcMemID   ObjectID
	DstMemID   ObjectID
	Size       uint64
	Op         uint32 // driver-defined reduction opcode (sum, max, ...)
	RootNodeID uint64
	Peers      []uint64
	Rendezvous bool
	EventID    ObjectID
	WaitList   []uint32
}

func (m *EnqueueReduceBuffer) Type() Type { return TypeEnqueueReduceBuffer }
func (m *EnqueueReduceBuffer) Pack(b *Buffer) {
	m.pack(b)
	b.PutUint32(uint32(m.QueueID))
	b.PutUint32(uint32(m.SrcMemID))
	b.PutUint32(uint32(m.DstMemID))
	b.PutUint64(m.Size)
	b.PutUint32(m.Op)
	b.PutUint64(m.RootNodeID)
	b.PutUint32(uint32(len(m.Peers)))
	for _, p := range m.Peers {
		b.PutUint64(p)
	}
	b.PutBool(m.Rendezvous)
	b.PutUint32(uint32(m.EventID))
	b.PutUint32Seq(m.WaitList)
}
func (m *EnqueueReduceBuffer) Unpack(b *Buffer) (err error) {
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
	m.SrcMemID = ObjectID(id)
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.DstMemID = ObjectID(id)
	if m.Size, err = b.GetUint64(); err != nil {
		return
	}
	if m.Op, err = b.GetUint32(); err != nil {
		return
	}
	if m.RootNodeID, err = b.GetUint64(); err != nil {
		return
	}
	n, err := b.GetUint32()
	if err != nil {
		return err
	}
	if err = checkCount(b, n); err != nil {
		return err
	}
	m.Peers = make([]uint64, n)
	for i := range m.Peers {
		if m.Peers[i], err = b.GetUint64(); err != nil {
			return err
		}
	}
	if m.Rendezvous, err = b.GetBool(); err != nil {
		return err
	}
	if id, err = b.GetUint32(); err != nil {
		return err
	}
	m.EventID = ObjectID(id)
	m.WaitList, err = b.GetUint32Seq()
	return
}

func putUint64Seq(b *Buffer, vals []uint64) {
	b.PutUint32(uint32(len(vals)))
	for _, v := range vals {
		b.PutUint64(v)
	}
}

func getUint64Seq(b *Buffer) ([]uint64, error) {
	n, err := b.GetUint32()
	if err != nil {
		return nil, err
	}
	if err := checkCount(b, n); err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	for i := range out {
		if out[i], err = b.GetUint64(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
