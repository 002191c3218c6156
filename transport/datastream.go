package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/OneOfOne/xxhash"

	"github.com/dcl-project/dcl/cos"
	"github.com/dcl-project/dcl/wire"
)

// TransferState is a bulk transfer's lifecycle, mirrored from
// ExecutionStatus's SUBMITTED/RUNNING/COMPLETE shape but scoped to exactly
// what a single read/write over the data stream goes through (spec.md
// §4.4, C4).
type TransferState int32

const (
	TransferSubmitted TransferState = iota
	TransferRunning
	TransferSuccess
	TransferIOError
)

// TransferHandle tracks one in-flight bulk transfer (spec.md §4.4 "transfer
// handle"). Callers poll State or block on Wait.
type TransferHandle struct {
	mu       sync.Mutex
	state    TransferState
	err      error
	checksum uint64
	done     chan struct{}
}

// Checksum returns the xxhash64 of the transferred bytes, valid once the
// handle reaches a terminal state. Used to detect corruption across the
// data stream independently of TCP's own checksum (spec.md §4 domain stack:
// OneOfOne/xxhash attached to DataTransfer completions).
func (h *TransferHandle) Checksum() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.checksum
}

func newTransferHandle() *TransferHandle {
	return &TransferHandle{state: TransferSubmitted, done: make(chan struct{})}
}

func (h *TransferHandle) State() TransferState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Wait blocks until the transfer reaches a terminal state or ctx is done.
func (h *TransferHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *TransferHandle) finish(err error, checksum uint64) {
	h.mu.Lock()
	if h.state == TransferSuccess || h.state == TransferIOError {
		h.mu.Unlock()
		return
	}
	h.checksum = checksum
	if err != nil {
		h.state = TransferIOError
		h.err = err
	} else {
		h.state = TransferSuccess
	}
	h.mu.Unlock()
	close(h.done)
}

func (h *TransferHandle) setRunning() {
	h.mu.Lock()
	if h.state == TransferSubmitted {
		h.state = TransferRunning
	}
	h.mu.Unlock()
}

// DataStream is the bulk-transfer connection (C4): a second TCP connection
// per Host/ComputeNode pair dedicated to large payload movement so it never
// queues behind small control messages on the MessageQueue (spec.md §4.4).
// Each direction keeps an independent FIFO of transfer handles, matching
// the original's separate send/receive transfer queues.
type DataStream struct {
	conn        net.Conn
	maxBodySize uint32
	peerPID     wire.ProcessID

	sendMu sync.Mutex
	recvMu sync.Mutex
}

func DialDataStream(addr string, selfPID wire.ProcessID, role wire.ProcessType, maxBodySize uint32) (*DataStream, error) {
	conn, err := dialTCP(addr, 10*time.Second)
	if err != nil {
		return nil, err
	}
	peerPID, err := handshake(conn, selfPID, role, wire.ProtocolDataStream)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return newDataStream(conn, peerPID, maxBodySize), nil
}

func AcceptDataStream(conn net.Conn, selfPID wire.ProcessID, maxBodySize uint32, accept func(peerPID wire.ProcessID) bool) (*DataStream, error) {
	peerPID, _, _, err := acceptHandshake(conn, selfPID, func(pid wire.ProcessID, _ wire.ProcessType, proto wire.Protocol) bool {
		if proto != wire.ProtocolDataStream {
			return false
		}
		return accept == nil || accept(pid)
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return newDataStream(conn, peerPID, maxBodySize), nil
}

func newDataStream(conn net.Conn, peerPID wire.ProcessID, maxBodySize uint32) *DataStream {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return &DataStream{conn: conn, peerPID: peerPID, maxBodySize: maxBodySize}
}

func (ds *DataStream) PeerPID() wire.ProcessID { return ds.peerPID }

// Send writes exactly len(data) bytes framed as a single data-stream
// segment, trailed by an xxhash64 checksum of the payload, and returns a
// handle tracking delivery. Send returns at once; the write runs on its own
// goroutine, serialized against other Sends on this stream so segments
// never interleave.
func (ds *DataStream) Send(data io.Reader, size int64) *TransferHandle {
	h := newTransferHandle()
	go func() {
		ds.sendMu.Lock()
		defer ds.sendMu.Unlock()
		h.setRunning()

		var hdr [8]byte
		putUint64BE(hdr[:], uint64(size))
		if _, err := ds.conn.Write(hdr[:]); err != nil {
			h.finish(err, 0)
			return
		}
		digest := xxhash.New64()
		if _, err := io.CopyN(ds.conn, io.TeeReader(data, digest), size); err != nil {
			h.finish(err, 0)
			return
		}
		sum := digest.Sum64()
		var trailer [8]byte
		putUint64BE(trailer[:], sum)
		if _, err := ds.conn.Write(trailer[:]); err != nil {
			h.finish(err, 0)
			return
		}
		h.finish(nil, sum)
	}()
	return h
}

// Receive reads the next segment's declared size into w, verifies its
// trailing xxhash64 checksum, and returns a handle tracking completion.
// Receive must be called by exactly one goroutine at a time per stream,
// matching the single-reader discipline shared with MessageQueue's
// recvLoop.
func (ds *DataStream) Receive(w io.Writer) *TransferHandle {
	h := newTransferHandle()
	go func() {
		ds.recvMu.Lock()
		defer ds.recvMu.Unlock()
		h.setRunning()

		var hdr [8]byte
		if _, err := io.ReadFull(ds.conn, hdr[:]); err != nil {
			h.finish(err, 0)
			return
		}
		size := int64(getUint64BE(hdr[:]))
		if uint64(size) > uint64(ds.maxBodySize)*64 {
			h.finish(io.ErrShortBuffer, 0)
			return
		}
		digest := xxhash.New64()
		if _, err := io.CopyN(io.MultiWriter(w, digest), ds.conn, size); err != nil {
			h.finish(err, 0)
			return
		}
		var trailer [8]byte
		if _, err := io.ReadFull(ds.conn, trailer[:]); err != nil {
			h.finish(err, 0)
			return
		}
		sum := digest.Sum64()
		if want := getUint64BE(trailer[:]); want != sum {
			h.finish(&cos.ErrProtocolViolation{Reason: "data stream segment checksum mismatch"}, sum)
			return
		}
		h.finish(nil, sum)
	}()
	return h
}

// Abort closes the underlying connection, which fails any in-flight Send
// or Receive with an I/O error (spec.md §4.4 "abort()").
func (ds *DataStream) Abort() error { return ds.conn.Close() }

func (ds *DataStream) Close() error { return ds.conn.Close() }

func putUint64BE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (56 - 8*i))
	}
}

func getUint64BE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
