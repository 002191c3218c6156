package daemon

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"github.com/dcl-project/dcl/nlog"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// DebugServer exposes a minimal operator surface on a daemon process: a
// liveness probe and a snapshot of registry occupancy, independent of the
// control/data TCP ports (spec.md §6, supplemented per SPEC_FULL.md §8 --
// grounded on the pack's use of valyala/fasthttp + json-iterator/go for a
// low-overhead debug HTTP listener rather than net/http+encoding/json).
type DebugServer struct {
	srv  *fasthttp.Server
	addr string
	sess func() []*Session
}

func NewDebugServer(addr string, sessions func() []*Session) *DebugServer {
	d := &DebugServer{addr: addr, sess: sessions}
	d.srv = &fasthttp.Server{Handler: d.handle}
	return d
}

func (d *DebugServer) ListenAndServe() error {
	return d.srv.ListenAndServe(d.addr)
}

func (d *DebugServer) Shutdown() error { return d.srv.Shutdown() }

func (d *DebugServer) handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case "/debug/vars":
		d.writeVars(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

type sessionSnapshot struct {
	Contexts      int `json:"contexts"`
	CommandQueues int `json:"command_queues"`
	Memory        int `json:"memory"`
	Programs      int `json:"programs"`
	Kernels       int `json:"kernels"`
	Events        int `json:"events"`
}

func (d *DebugServer) writeVars(ctx *fasthttp.RequestCtx) {
	sessions := d.sess()
	out := make([]sessionSnapshot, len(sessions))
	for i, s := range sessions {
		out[i] = sessionSnapshot{
			Contexts:      s.Contexts.Len(),
			CommandQueues: s.CommandQueues.Len(),
			Memory:        s.Memory.Len(),
			Programs:      s.Programs.Len(),
			Kernels:       s.Kernels.Len(),
			Events:        s.Events.Len(),
		}
	}
	b, err := jsonAPI.Marshal(out)
	if err != nil {
		nlog.Errorf("daemon: marshal debug vars: %v", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(b)
}
