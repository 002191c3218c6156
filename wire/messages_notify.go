package wire

// Notifications (tag >= 600) are unsolicited: neither side waits for a
// response to one, so they carry no RequestHeader (spec.md §3, §4.13).

func init() {
	register(TypeCommandExecutionStatusChanged, func() Message { return &CommandExecutionStatusChangedMessage{} })
	register(TypeEventSynchronization, func() Message { return &EventSynchronizationMessage{} })
	register(TypeContextError, func() Message { return &ContextErrorMessage{} })
	register(TypeProgramBuild, func() Message { return &ProgramBuildMessage{} })
}

// CommandExecutionStatusChangedMessage reports a command's lifecycle
// transition to whichever side did not originate it (spec.md §4.13, C11):
// the compute node emits this to the host whenever a queued command moves
// to submitted/running/complete/error.
type CommandExecutionStatusChangedMessage struct {
	CommandID ObjectID
	Status    ExecutionStatus
}

func (m *CommandExecutionStatusChangedMessage) Type() Type {
	return TypeCommandExecutionStatusChanged
}
func (m *CommandExecutionStatusChangedMessage) Pack(b *Buffer) {
	b.PutUint32(uint32(m.CommandID))
	b.PutInt32(int32(m.Status))
}
func (m *CommandExecutionStatusChangedMessage) Unpack(b *Buffer) (err error) {
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.CommandID = ObjectID(id)
	var st int32
	st, err = b.GetInt32()
	m.Status = ExecutionStatus(st)
	return
}

// EventSynchronizationMessage is the release-acquire protocol's wire
// message (C12, spec.md §4.12): a process that needs an event's current
// data and has not yet observed its release sends this to the process that
// can provide it, requesting synchronization. It is a pull, not a push --
// the releasing side never sends this on its own account; it only answers
// one.
type EventSynchronizationMessage struct {
	EventID ObjectID
}

func (m *EventSynchronizationMessage) Type() Type { return TypeEventSynchronization }
func (m *EventSynchronizationMessage) Pack(b *Buffer) {
	b.PutUint32(uint32(m.EventID))
}
func (m *EventSynchronizationMessage) Unpack(b *Buffer) (err error) {
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.EventID = ObjectID(id)
	return
}

// ContextErrorMessage relays a CL_CONTEXT_ERROR callback fired by the native
// driver on a context this host does not own a command queue into directly
// (spec.md §4.3, "asynchronous context error callback").
type ContextErrorMessage struct {
	ContextID ObjectID
	Errinfo   string
}

func (m *ContextErrorMessage) Type() Type { return TypeContextError }
func (m *ContextErrorMessage) Pack(b *Buffer) {
	b.PutUint32(uint32(m.ContextID))
	b.PutString(m.Errinfo)
}
func (m *ContextErrorMessage) Unpack(b *Buffer) (err error) {
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ContextID = ObjectID(id)
	m.Errinfo, err = b.GetString()
	return
}

// ProgramBuildMessage is sent by a compute node to the host when a
// clBuildProgram call completes, reporting a build status per device since
// one build targets every device named in the BuildProgram request and each
// can succeed or fail independently (spec.md §4.8). DeviceIDs and
// BuildStatus run in parallel.
type ProgramBuildMessage struct {
	ProgramID   ObjectID
	DeviceIDs   []uint32
	BuildStatus []int32
}

func (m *ProgramBuildMessage) Type() Type { return TypeProgramBuild }
func (m *ProgramBuildMessage) Pack(b *Buffer) {
	b.PutUint32(uint32(m.ProgramID))
	b.PutUint32Seq(m.DeviceIDs)
	b.PutInt32Seq(m.BuildStatus)
}
func (m *ProgramBuildMessage) Unpack(b *Buffer) (err error) {
	var id uint32
	if id, err = b.GetUint32(); err != nil {
		return
	}
	m.ProgramID = ObjectID(id)
	if m.DeviceIDs, err = b.GetUint32Seq(); err != nil {
		return
	}
	m.BuildStatus, err = b.GetInt32Seq()
	return
}
