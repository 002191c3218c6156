package wire

import "fmt"

// Type is the wire message type tag (class_type in the original). Tag
// ranges partition the catalogue per spec.md §3:
//
//	100-199  requests  (always carry a RequestID)
//	200-299  responses (carry the RequestID they answer + an errcode)
//	>=600    notifications (unsolicited)
type Type uint32

const (
	// requests
	TypeGetDeviceIDs           Type = 100
	TypeGetDeviceInfo          Type = 101
	TypeCreateContext          Type = 102
	TypeDeleteContext          Type = 103
	TypeCreateCommandQueue     Type = 104
	TypeDeleteCommandQueue     Type = 105
	TypeCreateBuffer           Type = 106
	TypeDeleteMemory           Type = 107
	TypeCreateProgramWithSource Type = 108
	TypeCreateProgramWithBinary Type = 109
	TypeDeleteProgram          Type = 110
	TypeBuildProgram           Type = 111
	TypeGetProgramBuildLog     Type = 112
	TypeGetProgramInfo         Type = 113 // supplemented, see SPEC_FULL.md §6.1
	TypeCreateKernel           Type = 114
	TypeCreateKernelsInProgram Type = 115
	TypeDeleteKernel           Type = 116
	TypeSetKernelArg           Type = 117
	TypeSetKernelArgBinary     Type = 118
	TypeSetKernelArgMemObject  Type = 119
	TypeGetKernelInfo          Type = 120
	TypeGetKernelWorkGroupInfo Type = 121
	TypeCreateEvent            Type = 122
	TypeDeleteEvent            Type = 123
	TypeGetEventProfilingInfos Type = 124
	TypeFlushRequest           Type = 125
	TypeFinishRequest          Type = 126
	TypeEnqueueReadBuffer      Type = 127
	TypeEnqueueWriteBuffer     Type = 128
	TypeEnqueueCopyBuffer      Type = 129
	TypeEnqueueMapBuffer       Type = 130
	TypeEnqueueUnmapBuffer     Type = 131
	TypeEnqueueNDRangeKernel   Type = 132
	TypeEnqueueMarker          Type = 133
	TypeEnqueueBarrier         Type = 134
	TypeEnqueueWaitForEvents   Type = 135
	TypeEnqueueBroadcastBuffer Type = 136
	TypeEnqueueReduceBuffer    Type = 137
	TypeReleaseRequest         Type = 138 // reserved, unused (spec.md §9)

	// responses
	TypeDefaultResponse           Type = 200
	TypeErrorResponse             Type = 201
	TypeDeviceIDsResponse         Type = 202
	TypeInfoResponse              Type = 203
	TypeDeviceInfosResponse       Type = 204 // supplemented, see SPEC_FULL.md §6.2
	TypeEventProfilingInfosResponse Type = 205

	// notifications (>=600)
	TypeCommandExecutionStatusChanged Type = 600
	TypeEventSynchronization          Type = 601
	TypeContextError                  Type = 602
	TypeProgramBuild                  Type = 603
)

func (t Type) IsRequest() bool      { return t >= 100 && t <= 199 }
func (t Type) IsResponse() bool     { return t >= 200 && t <= 299 }
func (t Type) IsNotification() bool { return t >= 600 }

// Message is the catalogue-wide interface: every wire message can report its
// own type tag and pack/unpack itself against a wire.Buffer (spec.md §4.2).
type Message interface {
	Type() Type
	Pack(b *Buffer)
	Unpack(b *Buffer) error
}

// Request is satisfied by every request-class message (tags 100-199): it
// always carries a request id unique per issuer-session (spec.md §3).
type Request interface {
	Message
	GetRequestID() uint32
	SetRequestID(id uint32)
}

// Response is satisfied by every response-class message (tags 200-299): it
// carries the request id it answers and a cl_int-compatible error code.
type Response interface {
	Message
	GetRequestID() uint32
	SetRequestID(id uint32)
	GetErrcode() int32
}

// RequestHeader is embedded by every concrete request type.
type RequestHeader struct {
	RequestID uint32
}

func (h *RequestHeader) GetRequestID() uint32  { return h.RequestID }
func (h *RequestHeader) SetRequestID(id uint32) { h.RequestID = id }
func (h *RequestHeader) pack(b *Buffer)         { b.PutUint32(h.RequestID) }
func (h *RequestHeader) unpack(b *Buffer) (err error) {
	h.RequestID, err = b.GetUint32()
	return
}

// ResponseHeader is embedded by every concrete response type.
type ResponseHeader struct {
	RequestID uint32
	Errcode   int32
}

func (h *ResponseHeader) GetRequestID() uint32   { return h.RequestID }
func (h *ResponseHeader) SetRequestID(id uint32) { h.RequestID = id }
func (h *ResponseHeader) GetErrcode() int32      { return h.Errcode }
func (h *ResponseHeader) pack(b *Buffer)         { b.PutUint32(h.RequestID); b.PutInt32(h.Errcode) }
func (h *ResponseHeader) unpack(b *Buffer) (err error) {
	if h.RequestID, err = b.GetUint32(); err != nil {
		return err
	}
	h.Errcode, err = b.GetInt32()
	return
}

// factory is the static dispatch table (type tag -> fresh default message),
// built once at package init per the design notes in spec.md §9 ("Static
// dispatch table for messages").
var factory = map[Type]func() Message{}

func register(t Type, ctor func() Message) {
	if _, dup := factory[t]; dup {
		panic(fmt.Sprintf("wire: duplicate registration for type %d", t))
	}
	factory[t] = ctor
}

// NewMessage constructs a fresh, default-valued message for the given wire
// type tag, ready to have Unpack called on it. Returns an error for unknown
// tags (the message queue's read loop logs and drops such frames).
func NewMessage(t Type) (Message, error) {
	ctor, ok := factory[t]
	if !ok {
		return nil, fmt.Errorf("wire: unknown message type %d", t)
	}
	return ctor(), nil
}
